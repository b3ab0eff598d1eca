// Package board implements the chess rules model: an 8x8 mailbox position,
// legal move generation and reversible move application.
package board

import (
	"errors"
	"fmt"
)

// ErrInvalidSquare is returned when algebraic square notation cannot be parsed.
var ErrInvalidSquare = errors.New("invalid square")

// Square addresses a board cell.
// Row 0 is rank 8 (Black's back rank) and row 7 is rank 1; column 0 is file a.
type Square struct {
	Row int
	Col int
}

// NoSquare marks the absence of a square, e.g. no en passant target.
var NoSquare = Square{Row: -1, Col: -1}

// Named squares used by castling.
var (
	E1 = Square{7, 4}
	E8 = Square{0, 4}
)

// Sq is shorthand for Square{row, col}.
func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

// OnBoard returns true if the square lies within the 8x8 grid.
func (sq Square) OnBoard() bool {
	return sq.Row >= 0 && sq.Row < 8 && sq.Col >= 0 && sq.Col < 8
}

// Offset returns the square shifted by the given row and column deltas.
func (sq Square) Offset(dr, dc int) Square {
	return Square{Row: sq.Row + dr, Col: sq.Col + dc}
}

// File returns the file letter ('a'..'h').
func (sq Square) File() byte {
	return byte('a' + sq.Col)
}

// Rank returns the rank digit ('1'..'8').
func (sq Square) Rank() byte {
	return byte('8' - sq.Row)
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.OnBoard() {
		return "-"
	}
	return string([]byte{sq.File(), sq.Rank()})
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	sq := Square{Row: int('8' - s[1]), Col: int(s[0] - 'a')}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return sq, nil
}

// Mirror returns the square reflected top-to-bottom.
func (sq Square) Mirror() Square {
	return Square{Row: 7 - sq.Row, Col: sq.Col}
}
