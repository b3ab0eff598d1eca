package board

import (
	"github.com/cespare/xxhash/v2"
)

// Key returns a 64-bit digest of the board, side to move, castling rights and
// en passant target. History is not part of the key.
func (p *Position) Key() uint64 {
	var buf [64 + 4]byte
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			buf[row*8+col] = byte(p.Board[row][col])
		}
	}
	buf[64] = byte(p.SideToMove)
	buf[65] = byte(p.Castling)
	if p.EnPassant.OnBoard() {
		buf[66] = byte(p.EnPassant.Row + 1)
		buf[67] = byte(p.EnPassant.Col + 1)
	}
	return xxhash.Sum64(buf[:])
}
