package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

func run(t *testing.T, c *Console, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := c.Run(strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestMovesAndUndo(t *testing.T) {
	c := New(engine.NewEngine(), nil)
	out := run(t, c, "e2e4\nmove e7e5\nmoves\nundo\nhistory\n")

	for _, want := range []string{"Played e2e4 (e4)", "Played e7e5 (e5)", "29 legal moves", "Took back e7e5", "1. e4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := c.Game().Moves(); len(got) != 1 || got[0] != "e2e4" {
		t.Errorf("moves = %v", got)
	}
}

func TestSANInput(t *testing.T) {
	c := New(engine.NewEngine(), nil)
	out := run(t, c, "e4\nNf6\nmove Nc3\nhistory\n")

	if !strings.Contains(out, "1. e4 Nf6 2. Nc3") {
		t.Errorf("history output:\n%s", out)
	}
	if got := c.Game().Moves(); len(got) != 3 || got[1] != "g8f6" {
		t.Errorf("moves = %v", got)
	}
}

func TestErrorsDoNotStopTheLoop(t *testing.T) {
	c := New(engine.NewEngine(), nil)
	out := run(t, c, "undo\ne2e5\nfoo\nfen bad\ngo x\nd2d4\n")

	if strings.Count(out, "Error:") != 4 {
		t.Errorf("expected 4 errors:\n%s", out)
	}
	if !strings.Contains(out, "Unknown command: foo") {
		t.Errorf("unknown command not reported:\n%s", out)
	}
	if len(c.Game().Moves()) != 1 {
		t.Error("valid move after errors was not played")
	}
}

func TestGoFindsMate(t *testing.T) {
	c := New(engine.NewEngine(), nil)
	out := run(t, c, "fen 6k1/5ppp/8/8/8/8/8/K3R3 w - - 0 1\ngo 2\n")

	if !strings.Contains(out, "bestmove e1e8 (Re8#)") {
		t.Errorf("engine did not mate:\n%s", out)
	}
	if !strings.Contains(out, "Game over: White wins by checkmate (1-0)") {
		t.Errorf("game over not reported:\n%s", out)
	}
}

func TestAutoReply(t *testing.T) {
	c := New(engine.NewEngine(), nil)
	out := run(t, c, "level easy\nauto on\ne2e4\n")

	if !strings.Contains(out, "Difficulty easy (depth 2)") {
		t.Errorf("level not applied:\n%s", out)
	}
	if !strings.Contains(out, "bestmove") || len(c.Game().Moves()) != 2 {
		t.Errorf("engine did not reply:\n%s", out)
	}
	if c.Game().Position().SideToMove != board.White {
		t.Error("expected White to move after the reply")
	}
}

func TestPerftAndEval(t *testing.T) {
	c := New(engine.NewEngine(), nil)
	out := run(t, c, "perft 2\neval\nquit\nperft 3\n")

	if !strings.Contains(out, "Nodes: 400") {
		t.Errorf("perft output:\n%s", out)
	}
	if strings.Contains(out, "Nodes: 8902") {
		t.Error("commands after quit were executed")
	}
	if !strings.Contains(out, "Eval: 0 (0.00)") {
		t.Errorf("eval output:\n%s", out)
	}
}

func TestSaveLoad(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	c := New(engine.NewEngine(), store)
	out := run(t, c, "e2e4\nc7c5\nsave\n")
	if !strings.Contains(out, "Saved game 1") {
		t.Fatalf("save output:\n%s", out)
	}

	c2 := New(engine.NewEngine(), store)
	out = run(t, c2, "load 1\nload 99\n")
	if !strings.Contains(out, "Loaded game 1 (2 moves)") || !strings.Contains(out, "No game 99") {
		t.Errorf("load output:\n%s", out)
	}
	if c2.Game().Position().FEN() != c.Game().Position().FEN() {
		t.Error("loaded position differs")
	}

	out = run(t, New(engine.NewEngine(), nil), "save\n")
	if !strings.Contains(out, "storage disabled") {
		t.Errorf("save without storage:\n%s", out)
	}
}
