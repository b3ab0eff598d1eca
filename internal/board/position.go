package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyHistory is returned by UndoMove when no move has been applied.
var ErrEmptyHistory = errors.New("no move to undo")

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// castleRight returns the single right for a color and wing.
func castleRight(c Color, kingSide bool) CastlingRights {
	switch {
	case c == White && kingSide:
		return WhiteKingSideCastle
	case c == White:
		return WhiteQueenSideCastle
	case kingSide:
		return BlackKingSideCastle
	default:
		return BlackQueenSideCastle
	}
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

// homeRow is the back rank row for a color.
func homeRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

// rookRight returns the castling right tied to a rook corner, or NoCastling.
func rookRight(sq Square) CastlingRights {
	switch sq {
	case Square{7, 7}:
		return WhiteKingSideCastle
	case Square{7, 0}:
		return WhiteQueenSideCastle
	case Square{0, 7}:
		return BlackKingSideCastle
	case Square{0, 0}:
		return BlackQueenSideCastle
	}
	return NoCastling
}

// plyState is the per-ply snapshot needed to restore a position exactly.
type plyState struct {
	castling  CastlingRights
	enPassant Square
}

// Position is the mutable game state. It is owned by a single goroutine;
// use Copy to hand a private position to another goroutine.
type Position struct {
	Board      [8][8]Piece
	SideToMove Color

	// King locations, cached for check queries.
	KingSquare [2]Square

	// EnPassant is the square a pawn may capture onto this ply, or NoSquare.
	EnPassant Square

	Castling CastlingRights

	// states[0] describes the position before the first applied move;
	// len(states) == len(history)+1 at all times.
	states  []plyState
	history []Move

	// Terminal flags, valid only immediately after LegalMoves.
	checkmate bool
	stalemate bool
}

// NewPosition creates the standard starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// emptyPosition returns a position with no pieces, ready for setup.
func emptyPosition() *Position {
	p := &Position{
		EnPassant:  NoSquare,
		KingSquare: [2]Square{NoSquare, NoSquare},
	}
	return p
}

// resetHistory starts the ply history at the current state.
func (p *Position) resetHistory() {
	p.history = nil
	p.states = []plyState{{castling: p.Castling, enPassant: p.EnPassant}}
}

// Copy creates a deep copy of the position, including its history.
func (p *Position) Copy() *Position {
	c := *p
	c.history = append([]Move(nil), p.history...)
	c.states = append([]plyState(nil), p.states...)
	return &c
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	if !sq.OnBoard() {
		return NoPiece
	}
	return p.Board[sq.Row][sq.Col]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Board[sq.Row][sq.Col] == NoPiece
}

// setPiece places a piece on a square, tracking king locations.
func (p *Position) setPiece(piece Piece, sq Square) {
	p.Board[sq.Row][sq.Col] = piece
	if piece.Type() == King {
		p.KingSquare[piece.Color()] = sq
	}
}

// History returns the applied moves, oldest first.
func (p *Position) History() []Move {
	return append([]Move(nil), p.history...)
}

// Ply returns the number of applied moves.
func (p *Position) Ply() int {
	return len(p.history)
}

// LastMove returns the most recently applied move, or NoMove.
func (p *Position) LastMove() Move {
	if len(p.history) == 0 {
		return NoMove
	}
	return p.history[len(p.history)-1]
}

// CastlingHistory returns one castling-rights snapshot per ply, starting with
// the rights before the first applied move.
func (p *Position) CastlingHistory() []CastlingRights {
	out := make([]CastlingRights, len(p.states))
	for i, s := range p.states {
		out[i] = s.castling
	}
	return out
}

// IsCheckmate reports the checkmate flag set by the last LegalMoves call.
func (p *Position) IsCheckmate() bool {
	return p.checkmate
}

// IsStalemate reports the stalemate flag set by the last LegalMoves call.
func (p *Position) IsStalemate() bool {
	return p.stalemate
}

// TerminalState captures the mutable flags that search may disturb.
type TerminalState struct {
	checkmate bool
	stalemate bool
	castling  CastlingRights
}

// SaveTerminalState snapshots the terminal flags and castling rights.
func (p *Position) SaveTerminalState() TerminalState {
	return TerminalState{checkmate: p.checkmate, stalemate: p.stalemate, castling: p.Castling}
}

// RestoreTerminalState restores a snapshot taken by SaveTerminalState.
func (p *Position) RestoreTerminalState(s TerminalState) {
	p.checkmate = s.checkmate
	p.stalemate = s.stalemate
	p.Castling = s.castling
	p.states[len(p.states)-1].castling = s.castling
}

// MakeMove applies a generated move without validating it.
// Callers must only pass moves produced by LegalMoves for this position;
// use ApplyMove for untrusted input.
func (p *Position) MakeMove(m Move) {
	us := p.SideToMove
	piece := p.Board[m.From.Row][m.From.Col]

	p.Board[m.From.Row][m.From.Col] = NoPiece
	if m.EnPassant {
		cs := m.captureSquare()
		p.Board[cs.Row][cs.Col] = NoPiece
	}
	if m.Promotion {
		piece = NewPiece(Queen, us)
	}
	p.setPiece(piece, m.To)

	if m.Castle {
		row := m.From.Row
		if m.To.Col-m.From.Col == 2 {
			p.Board[row][5] = p.Board[row][7]
			p.Board[row][7] = NoPiece
		} else {
			p.Board[row][3] = p.Board[row][0]
			p.Board[row][0] = NoPiece
		}
	}

	if m.Moved.Type() == Pawn && abs(m.To.Row-m.From.Row) == 2 {
		p.EnPassant = Square{Row: (m.From.Row + m.To.Row) / 2, Col: m.From.Col}
	} else {
		p.EnPassant = NoSquare
	}

	p.updateCastlingRights(m)

	p.SideToMove = us.Other()
	p.history = append(p.history, m)
	p.states = append(p.states, plyState{castling: p.Castling, enPassant: p.EnPassant})
}

// updateCastlingRights clears rights lost by a king move, a rook leaving its
// corner, or a rook being captured on its corner. Rights never come back.
func (p *Position) updateCastlingRights(m Move) {
	if m.Moved.Type() == King {
		c := m.Moved.Color()
		p.Castling &^= castleRight(c, true) | castleRight(c, false)
	}
	if m.Moved.Type() == Rook {
		p.Castling &^= rookRight(m.From)
	}
	if m.Captured.Type() == Rook {
		p.Castling &^= rookRight(m.To)
	}
}

// ApplyMove validates a move by its ID against the legal moves and applies the
// generated move. It returns ErrIllegalMove if the move is not legal here.
func (p *Position) ApplyMove(m Move) (Move, error) {
	for _, legal := range p.LegalMoves() {
		if legal.Equal(m) {
			p.MakeMove(legal)
			return legal, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, m)
}

// UndoMove reverts the most recently applied move. With an empty history it
// returns ErrEmptyHistory and leaves the position untouched.
func (p *Position) UndoMove() error {
	if len(p.history) == 0 {
		return ErrEmptyHistory
	}
	m := p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]
	p.states = p.states[:len(p.states)-1]

	p.Board[m.To.Row][m.To.Col] = NoPiece
	cs := m.captureSquare()
	p.Board[cs.Row][cs.Col] = m.Captured
	p.setPiece(m.Moved, m.From)

	if m.Castle {
		row := m.From.Row
		if m.To.Col-m.From.Col == 2 {
			p.Board[row][7] = p.Board[row][5]
			p.Board[row][5] = NoPiece
		} else {
			p.Board[row][0] = p.Board[row][3]
			p.Board[row][3] = NoPiece
		}
	}

	prev := p.states[len(p.states)-1]
	p.Castling = prev.castling
	p.EnPassant = prev.enPassant
	p.SideToMove = p.SideToMove.Other()
	return nil
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, "%c  ", Square{Row: row}.Rank())
		for col := 0; col < 8; col++ {
			sb.WriteString(p.Board[row][col].String())
			sb.WriteByte(' ')
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.Castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Key: %016x\n", p.Key())
	return sb.String()
}

// Validate checks the structural invariants of the position.
func (p *Position) Validate() error {
	var kings [2]int
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := p.Board[row][col]
			switch piece.Type() {
			case King:
				kings[piece.Color()]++
				if p.KingSquare[piece.Color()] != Sq(row, col) {
					return fmt.Errorf("%s king cached at %s but found on %s",
						piece.Color(), p.KingSquare[piece.Color()], Sq(row, col))
				}
			case Pawn:
				if row == 0 || row == 7 {
					return fmt.Errorf("pawns cannot be on rank 1 or 8")
				}
			}
		}
	}
	if kings[White] != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if kings[Black] != 1 {
		return fmt.Errorf("black must have exactly one king")
	}
	if p.IsInCheck(p.SideToMove.Other()) {
		return fmt.Errorf("%s is in check but it is %s to move", p.SideToMove.Other(), p.SideToMove)
	}
	return p.validateEnPassant()
}

// validateEnPassant checks that the en passant target is the square a pawn of
// the side not to move has just skipped with a double step.
func (p *Position) validateEnPassant() error {
	ep := p.EnPassant
	if ep == NoSquare {
		return nil
	}
	them := p.SideToMove.Other()
	// White captures onto rank 6 (row 2), Black onto rank 3 (row 5).
	wantRow := 2
	if p.SideToMove == Black {
		wantRow = 5
	}
	if ep.Row != wantRow {
		return fmt.Errorf("en passant square %s is not on the %s capture rank", ep, p.SideToMove)
	}
	pawn := ep.Offset(them.forward(), 0)
	origin := ep.Offset(-them.forward(), 0)
	if !p.IsEmpty(ep) || !p.IsEmpty(origin) || p.PieceAt(pawn) != NewPiece(Pawn, them) {
		return fmt.Errorf("en passant square %s has no %s pawn that just double-stepped", ep, them)
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
