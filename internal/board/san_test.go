package board

import "testing"

func TestSAN(t *testing.T) {
	tests := []struct {
		fen  string
		move string
		want string
	}{
		{StartFEN, "e2e4", "e4"},
		{StartFEN, "g1f3", "Nf3"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		{"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 1", "e5d6", "exd6"},
		{"8/P6k/8/8/8/8/8/K7 w - - 0 1", "a7a8", "a8=Q"},
		{"4k3/8/8/8/8/8/8/R3K2R w - - 0 1", "a1a8", "Ra8+"},
		{"4k3/8/8/8/8/8/K7/R6R w - - 0 1", "a1d1", "Rad1"},
		{"6k1/4rppp/8/8/8/8/8/K3R3 w - - 0 1", "e1e7", "Rxe7"},
		{"6k1/5ppp/8/8/8/8/8/K3R3 w - - 0 1", "e1e8", "Re8#"},
	}
	for _, tc := range tests {
		pos := mustFEN(t, tc.fen)
		m, err := pos.FindMove(tc.move)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.fen, tc.move, err)
		}
		before := pos.Key()
		if got := pos.SAN(m); got != tc.want {
			t.Errorf("SAN(%s) = %q, want %q", tc.move, got, tc.want)
		}
		if pos.Key() != before {
			t.Errorf("SAN(%s) modified the position", tc.move)
		}

		parsed, err := pos.ParseSAN(tc.want)
		if err != nil {
			t.Errorf("ParseSAN(%q): %v", tc.want, err)
			continue
		}
		if !parsed.Equal(m) {
			t.Errorf("ParseSAN(%q) = %s, want %s", tc.want, parsed, m)
		}
	}
}

func TestMovesToSAN(t *testing.T) {
	pos := NewPosition()
	play(t, pos, "e2e4", "e7e5", "g1f3", "b8c6")
	got := MovesToSAN(NewPosition(), pos.History())
	want := []string{"e4", "e5", "Nf3", "Nc6"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("san[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
