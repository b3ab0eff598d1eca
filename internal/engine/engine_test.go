package engine

import (
	"errors"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestSearchBasic(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine()
	eng.SetDifficulty(Easy)

	var info SearchInfo
	eng.OnInfo = func(si SearchInfo) { info = si }

	move, err := eng.Search(pos)
	if err != nil {
		t.Fatal(err)
	}
	if move.Equal(board.NoMove) {
		t.Error("Search returned NoMove for starting position")
	}
	if _, err := pos.FindMove(move.String()); err != nil {
		t.Errorf("Search returned illegal move %s", move)
	}
	if info.Depth != 2 || info.Nodes == 0 || !info.Move.Equal(move) {
		t.Errorf("unexpected search info: %+v", info)
	}
	t.Logf("Best move: %s (score %s, %d nodes)", move, ScoreToString(info.Score), info.Nodes)
}

func TestSearchNoLegalMoves(t *testing.T) {
	pos, err := board.ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewEngine().Search(pos); !errors.Is(err, ErrNoLegalMoves) {
		t.Errorf("err = %v, want ErrNoLegalMoves", err)
	}
}

func TestDifficulty(t *testing.T) {
	eng := NewEngine()
	if eng.Depth() != 3 {
		t.Errorf("default depth = %d, want 3", eng.Depth())
	}
	for _, tc := range []struct {
		name  string
		want  Difficulty
		depth int
	}{
		{"easy", Easy, 2},
		{"Medium", Medium, 3},
		{" HARD ", Hard, 4},
	} {
		d, err := ParseDifficulty(tc.name)
		if err != nil || d != tc.want {
			t.Errorf("ParseDifficulty(%q) = %v, %v", tc.name, d, err)
		}
		eng.SetDifficulty(d)
		if eng.Depth() != tc.depth {
			t.Errorf("%s depth = %d, want %d", d, eng.Depth(), tc.depth)
		}
	}
	if _, err := ParseDifficulty("insane"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}

func TestSetDepth(t *testing.T) {
	eng := NewEngine()
	if err := eng.SetDepth(5); err != nil || eng.Depth() != 5 {
		t.Errorf("SetDepth(5): depth=%d err=%v", eng.Depth(), err)
	}
	if err := eng.SetDepth(0); !errors.Is(err, ErrInvalidDepth) {
		t.Errorf("SetDepth(0) err = %v", err)
	}
	if eng.Depth() != 5 {
		t.Errorf("failed SetDepth changed depth to %d", eng.Depth())
	}
}

func TestEnginePerft(t *testing.T) {
	eng := NewEngine()
	pos := board.NewPosition()
	want := []uint64{1, 20, 400, 8902}
	for depth, n := range want {
		if got := eng.Perft(pos, depth); got != n {
			t.Errorf("Perft(%d) = %d, want %d", depth, got, n)
		}
	}
	if pos.Ply() != 0 {
		t.Error("Perft left moves on the position")
	}
}

func TestScoreToString(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{150, "1.50"},
		{-275, "-2.75"},
		{MateScore + 2, "White mates"},
		{-MateScore, "Black mates"},
	}
	for _, tc := range tests {
		if got := ScoreToString(tc.score); got != tc.want {
			t.Errorf("ScoreToString(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
