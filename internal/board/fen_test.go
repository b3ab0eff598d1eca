package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 b - - 0 1",
	}
	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("FEN() = %q, want %q", got, fen)
		}
	}
}

func TestStartPositionLayout(t *testing.T) {
	pos := NewPosition()
	if pos.PieceAt(Sq(0, 4)) != BlackKing || pos.PieceAt(Sq(7, 4)) != WhiteKing {
		t.Error("kings should start on e8 (row 0) and e1 (row 7)")
	}
	if pos.KingSquare[White] != E1 || pos.KingSquare[Black] != E8 {
		t.Errorf("cached kings = %v, want e1/e8", pos.KingSquare)
	}
	if pos.Castling != AllCastling || pos.EnPassant != NoSquare || pos.SideToMove != White {
		t.Error("unexpected start state")
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
		"rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
		// en passant target with no pawn behind it, own pieces around it
		"4k3/8/8/8/8/8/3PB3/4K3 w - e3 0 1",
		// target on the wrong rank for the side to move
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR b KQkq d6 0 1",
		// the skipped square or the origin square is occupied
		"rnbqkbnr/ppp1pppp/3n4/3pP3/8/8/PPPP1PPP/RNBQKB1R w KQkq d6 0 1",
		"rnbqkbnr/pppppppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 1",
		// the side that just moved left its king in check
		"4k3/4R3/8/8/8/8/8/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/4r3/4K3 b - - 0 1",
	}
	for _, fen := range bad {
		if _, err := ParseFEN(fen); !errors.Is(err, ErrInvalidFEN) {
			t.Errorf("ParseFEN(%q) = %v, want ErrInvalidFEN", fen, err)
		}
	}
}

func TestSquareNotation(t *testing.T) {
	tests := []struct {
		s  string
		sq Square
	}{
		{"a8", Sq(0, 0)},
		{"h8", Sq(0, 7)},
		{"a1", Sq(7, 0)},
		{"e4", Sq(4, 4)},
		{"h1", Sq(7, 7)},
	}
	for _, tc := range tests {
		sq, err := ParseSquare(tc.s)
		if err != nil {
			t.Fatalf("ParseSquare(%q): %v", tc.s, err)
		}
		if sq != tc.sq {
			t.Errorf("ParseSquare(%q) = %+v, want %+v", tc.s, sq, tc.sq)
		}
		if sq.String() != tc.s {
			t.Errorf("String() = %q, want %q", sq.String(), tc.s)
		}
	}
	for _, s := range []string{"", "i1", "a9", "a0", "e44"} {
		if _, err := ParseSquare(s); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("ParseSquare(%q) = %v, want ErrInvalidSquare", s, err)
		}
	}
}
