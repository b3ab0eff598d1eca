package board

import (
	"testing"
)

func TestCheckmate(t *testing.T) {
	// Back rank mate: white rook on a8, black king h8 boxed in by its own pawns.
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	t.Log("Checkmate position:")
	t.Log(pos)

	moves := pos.LegalMoves()
	t.Log("Black legal moves:", len(moves))

	if len(moves) != 0 {
		t.Errorf("Expected no legal moves, got %v", moves)
	}
	if !pos.IsCheckmate() {
		t.Error("Expected checkmate but got false")
	}
	if pos.IsStalemate() {
		t.Error("Checkmate must not also be stalemate")
	}
}

func TestNotCheckmate(t *testing.T) {
	// Black king on h8 can take the unprotected rook on g8.
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	moves := pos.LegalMoves()
	t.Log("Black legal moves:", moves)

	if pos.IsCheckmate() {
		t.Error("Expected NOT checkmate but got true")
	}
	if !pos.InCheck() {
		t.Error("Expected black to be in check")
	}
	if _, err := pos.FindMove("h8g8"); err != nil {
		t.Errorf("Expected Kxg8 to be legal: %v", err)
	}
}

func TestStalemate(t *testing.T) {
	pos, err := ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if moves := pos.LegalMoves(); len(moves) != 0 {
		t.Fatalf("Expected no legal moves, got %v", moves)
	}
	if !pos.IsStalemate() {
		t.Error("Expected stalemate")
	}
	if pos.IsCheckmate() {
		t.Error("Stalemate must not be checkmate")
	}
}

func TestTerminalFlagsReset(t *testing.T) {
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	pos.LegalMoves()
	if !pos.IsCheckmate() {
		t.Fatal("Expected checkmate")
	}

	// Re-enumerating from a non-terminal position clears the flags.
	other := NewPosition()
	*pos = *other.Copy()
	pos.LegalMoves()
	if pos.IsCheckmate() || pos.IsStalemate() {
		t.Error("Flags should be cleared for a normal position")
	}
}

func TestFoolsMate(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m, err := pos.FindMove(s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		pos.MakeMove(m)
	}
	if len(pos.LegalMoves()) != 0 || !pos.IsCheckmate() {
		t.Error("Expected white to be checkmated")
	}
	if pos.SideToMove != White {
		t.Errorf("Expected white to move, got %s", pos.SideToMove)
	}
}
