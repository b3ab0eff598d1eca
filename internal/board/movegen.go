package board

// Direction tables. Their order fixes the generation order of moves.
var (
	rookDirections   = [4][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}
	bishopDirections = [4][2]int{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	knightOffsets    = [8][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets      = [8][2]int{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}, {-1, 0}, {0, -1}, {1, 0}, {0, 1}}
)

// LegalMoves returns every legal move for the side to move, in generation
// order: board scan row by row, then per-piece direction order, with castling
// moves last. It also sets the checkmate and stalemate flags.
func (p *Position) LegalMoves() []Move {
	us := p.SideToMove
	candidates := p.PseudoLegalMoves()
	candidates = p.appendCastlingMoves(candidates)

	legal := candidates[:0]
	for _, m := range candidates {
		p.MakeMove(m)
		if !p.IsInCheck(us) {
			legal = append(legal, m)
		}
		p.UndoMove()
	}

	p.checkmate, p.stalemate = false, false
	if len(legal) == 0 {
		if p.IsInCheck(us) {
			p.checkmate = true
		} else {
			p.stalemate = true
		}
	}
	return legal
}

// PseudoLegalMoves generates all moves that obey piece geometry and
// occupancy but may leave the mover's king in check. Castling is not included.
func (p *Position) PseudoLegalMoves() []Move {
	moves := make([]Move, 0, 48)
	us := p.SideToMove
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := p.Board[row][col]
			if piece == NoPiece || piece.Color() != us {
				continue
			}
			from := Sq(row, col)
			switch piece.Type() {
			case Pawn:
				moves = p.appendPawnMoves(moves, from, us)
			case Knight:
				moves = p.appendStepMoves(moves, from, us, knightOffsets[:])
			case Bishop:
				moves = p.appendSlidingMoves(moves, from, us, bishopDirections[:])
			case Rook:
				moves = p.appendSlidingMoves(moves, from, us, rookDirections[:])
			case Queen:
				moves = p.appendSlidingMoves(moves, from, us, rookDirections[:])
				moves = p.appendSlidingMoves(moves, from, us, bishopDirections[:])
			case King:
				moves = p.appendStepMoves(moves, from, us, kingOffsets[:])
			}
		}
	}
	return moves
}

// appendPawnMoves adds pushes, double pushes, captures and en passant captures.
func (p *Position) appendPawnMoves(moves []Move, from Square, us Color) []Move {
	dir := us.forward()

	one := from.Offset(dir, 0)
	if one.OnBoard() && p.IsEmpty(one) {
		moves = append(moves, newMove(&p.Board, from, one, false, false))
		startRow := 6
		if us == Black {
			startRow = 1
		}
		two := from.Offset(2*dir, 0)
		if from.Row == startRow && p.IsEmpty(two) {
			moves = append(moves, newMove(&p.Board, from, two, false, false))
		}
	}

	for _, dc := range [2]int{-1, 1} {
		to := from.Offset(dir, dc)
		if !to.OnBoard() {
			continue
		}
		target := p.PieceAt(to)
		if target != NoPiece && target.Color() != us {
			moves = append(moves, newMove(&p.Board, from, to, false, false))
		} else if to == p.EnPassant {
			moves = append(moves, newMove(&p.Board, from, to, true, false))
		}
	}
	return moves
}

// appendStepMoves adds single-step moves for knights and kings.
func (p *Position) appendStepMoves(moves []Move, from Square, us Color, offsets [][2]int) []Move {
	for _, o := range offsets {
		to := from.Offset(o[0], o[1])
		if !to.OnBoard() {
			continue
		}
		if target := p.PieceAt(to); target == NoPiece || target.Color() != us {
			moves = append(moves, newMove(&p.Board, from, to, false, false))
		}
	}
	return moves
}

// appendSlidingMoves ray-casts along each direction until the board edge,
// a friendly piece (excluded) or an enemy piece (included as a capture).
func (p *Position) appendSlidingMoves(moves []Move, from Square, us Color, dirs [][2]int) []Move {
	for _, d := range dirs {
		for to := from.Offset(d[0], d[1]); to.OnBoard(); to = to.Offset(d[0], d[1]) {
			target := p.PieceAt(to)
			if target == NoPiece {
				moves = append(moves, newMove(&p.Board, from, to, false, false))
				continue
			}
			if target.Color() != us {
				moves = append(moves, newMove(&p.Board, from, to, false, false))
			}
			break
		}
	}
	return moves
}

// appendCastlingMoves adds castling candidates for the side to move. A castle is
// generated only if the right is held, the king is not in check, the squares
// between king and rook are empty and the king neither crosses nor lands on
// an attacked square.
func (p *Position) appendCastlingMoves(moves []Move) []Move {
	us := p.SideToMove
	them := us.Other()
	king := Sq(homeRow(us), 4)
	if p.KingSquare[us] != king || p.PieceAt(king) != NewPiece(King, us) {
		return moves
	}
	if !p.Castling.CanCastle(us, true) && !p.Castling.CanCastle(us, false) {
		return moves
	}
	if p.IsSquareAttacked(king, them) {
		return moves
	}
	rook := NewPiece(Rook, us)
	row := king.Row

	if p.Castling.CanCastle(us, true) && p.Board[row][7] == rook &&
		p.Board[row][5] == NoPiece && p.Board[row][6] == NoPiece &&
		!p.IsSquareAttacked(Sq(row, 5), them) && !p.IsSquareAttacked(Sq(row, 6), them) {
		moves = append(moves, newMove(&p.Board, king, Sq(row, 6), false, true))
	}

	if p.Castling.CanCastle(us, false) && p.Board[row][0] == rook &&
		p.Board[row][3] == NoPiece && p.Board[row][2] == NoPiece && p.Board[row][1] == NoPiece &&
		!p.IsSquareAttacked(Sq(row, 3), them) && !p.IsSquareAttacked(Sq(row, 2), them) {
		moves = append(moves, newMove(&p.Board, king, Sq(row, 2), false, true))
	}
	return moves
}

// HasLegalMoves returns true if the side to move has any legal move.
// Unlike LegalMoves it does not touch the terminal flags.
func (p *Position) HasLegalMoves() bool {
	us := p.SideToMove
	candidates := p.appendCastlingMoves(p.PseudoLegalMoves())
	for _, m := range candidates {
		p.MakeMove(m)
		ok := !p.IsInCheck(us)
		p.UndoMove()
		if ok {
			return true
		}
	}
	return false
}
