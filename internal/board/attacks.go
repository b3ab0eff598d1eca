package board

// IsSquareAttacked returns true if any piece of the given color could capture
// on sq. Pawns attack diagonally only; their pushes never attack.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	// A pawn of byColor attacks sq from one row behind it (relative to its advance).
	pawn := NewPiece(Pawn, byColor)
	for _, dc := range [2]int{-1, 1} {
		if p.PieceAt(sq.Offset(-byColor.forward(), dc)) == pawn {
			return true
		}
	}

	knight := NewPiece(Knight, byColor)
	for _, o := range knightOffsets {
		if p.PieceAt(sq.Offset(o[0], o[1])) == knight {
			return true
		}
	}

	king := NewPiece(King, byColor)
	for _, o := range kingOffsets {
		if p.PieceAt(sq.Offset(o[0], o[1])) == king {
			return true
		}
	}

	queen := NewPiece(Queen, byColor)
	if p.rayHits(sq, rookDirections[:], NewPiece(Rook, byColor), queen) {
		return true
	}
	return p.rayHits(sq, bishopDirections[:], NewPiece(Bishop, byColor), queen)
}

// rayHits walks each ray from sq and reports whether the first piece met is
// one of the two sliders.
func (p *Position) rayHits(sq Square, dirs [][2]int, a, b Piece) bool {
	for _, d := range dirs {
		for s := sq.Offset(d[0], d[1]); s.OnBoard(); s = s.Offset(d[0], d[1]) {
			piece := p.Board[s.Row][s.Col]
			if piece == NoPiece {
				continue
			}
			if piece == a || piece == b {
				return true
			}
			break
		}
	}
	return false
}

// SquareUnderAttack returns true if the opponent of the side to move attacks sq.
func (p *Position) SquareUnderAttack(sq Square) bool {
	return p.IsSquareAttacked(sq, p.SideToMove.Other())
}

// IsInCheck returns true if the king of color c is attacked.
func (p *Position) IsInCheck(c Color) bool {
	ksq := p.KingSquare[c]
	if !ksq.OnBoard() {
		return false
	}
	return p.IsSquareAttacked(ksq, c.Other())
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsInCheck(p.SideToMove)
}
