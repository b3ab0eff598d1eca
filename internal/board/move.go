package board

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is returned when a move is not among the legal moves of the position.
var ErrIllegalMove = errors.New("illegal move")

// ErrBadNotation is returned for move strings that cannot be parsed at all.
var ErrBadNotation = errors.New("bad move notation")

// Move describes a single ply. Moves are values; the position never keeps
// references into them.
//
// Promotion always resolves to a queen. Two moves are the same move when
// their start and end squares match, whatever their flags (see ID).
type Move struct {
	From     Square
	To       Square
	Moved    Piece
	Captured Piece

	EnPassant bool
	Castle    bool
	Promotion bool
}

// NoMove represents the absence of a move.
var NoMove = Move{From: NoSquare, To: NoSquare}

// newMove builds a move from the board contents, deriving the captured piece
// and the promotion flag. En passant captures record the pawn taken beside
// the end square.
func newMove(b *[8][8]Piece, from, to Square, enPassant, castle bool) Move {
	m := Move{
		From:      from,
		To:        to,
		Moved:     b[from.Row][from.Col],
		Captured:  b[to.Row][to.Col],
		EnPassant: enPassant,
		Castle:    castle,
	}
	if m.Moved.Type() == Pawn {
		last := 0
		if m.Moved.Color() == Black {
			last = 7
		}
		m.Promotion = to.Row == last
	}
	if enPassant {
		m.Captured = NewPiece(Pawn, m.Moved.Color().Other())
	}
	return m
}

// ID returns the move identity key startRow*1000 + startCol*100 + endRow*10 + endCol.
func (m Move) ID() int {
	return m.From.Row*1000 + m.From.Col*100 + m.To.Row*10 + m.To.Col
}

// Equal reports whether both moves share start and end squares.
func (m Move) Equal(o Move) bool {
	return m.ID() == o.ID()
}

// IsCapture returns true if this move removes an enemy piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoPiece
}

// captureSquare returns where the captured piece stands. For en passant that is
// the start row and the end column, not the end square.
func (m Move) captureSquare() Square {
	if m.EnPassant {
		return Square{Row: m.From.Row, Col: m.To.Col}
	}
	return m.To
}

// String returns the coordinate notation of the move (e.g., "e2e4").
func (m Move) String() string {
	if !m.From.OnBoard() {
		return "0000"
	}
	return m.From.String() + m.To.String()
}

// ParseMove parses coordinate notation into bare start and end squares.
// A trailing promotion letter is accepted only for a queen.
// The result carries no piece or flag information; resolve it against the
// position with FindMove before applying it.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrBadNotation, s)
	}
	if len(s) == 5 && s[4] != 'q' && s[4] != 'Q' {
		return NoMove, fmt.Errorf("%w: only queen promotion is supported: %q", ErrIllegalMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	return Move{From: from, To: to}, nil
}

// FindMove resolves coordinate notation against the legal moves of the
// position and returns the generated move with its flags set.
func (p *Position) FindMove(s string) (Move, error) {
	want, err := ParseMove(s)
	if err != nil {
		return NoMove, err
	}
	for _, m := range p.LegalMoves() {
		if m.Equal(want) {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}
