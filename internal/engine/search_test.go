package engine

import (
	"errors"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func mustFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

// fullMinimax is an unpruned reference search sharing leaf scoring with Minimax.
func fullMinimax(pos *board.Position, depth int, nodes *int) int {
	*nodes++
	moves := pos.LegalMoves()
	if depth == 0 || len(moves) == 0 {
		return leafScore(pos, len(moves), depth)
	}
	maximizing := pos.SideToMove == board.White
	best := Infinity
	if maximizing {
		best = -Infinity
	}
	for _, m := range moves {
		pos.MakeMove(m)
		v := fullMinimax(pos, depth-1, nodes)
		pos.UndoMove()
		if better(v, best, maximizing) {
			best = v
		}
	}
	return best
}

// fullSelect mirrors SelectBestMove without pruning or the mate shortcut.
func fullSelect(pos *board.Position, depth int) (board.Move, int, int) {
	nodes := 0
	maximizing := pos.SideToMove == board.White
	bestMove := board.NoMove
	bestScore := Infinity
	if maximizing {
		bestScore = -Infinity
	}
	for _, m := range pos.LegalMoves() {
		pos.MakeMove(m)
		v := fullMinimax(pos, depth, &nodes)
		pos.UndoMove()
		if better(v, bestScore, maximizing) {
			bestMove, bestScore = m, v
		}
	}
	return bestMove, bestScore, nodes
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
	}{
		{"start d1", board.StartFEN, 1},
		{"start d2", board.StartFEN, 2},
		{"start d3", board.StartFEN, 3},
		{"kiwipete d2", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2},
		{"black to move d3", "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 0 1", 3},
		{"endgame d3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3},
		{"mate in two d3", "6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1", 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.depth >= 3 && testing.Short() {
				t.Skip("deep search")
			}
			pos := mustFEN(t, tc.fen)
			wantMove, wantScore, fullNodes := fullSelect(pos, tc.depth)

			s := NewSearcher()
			gotMove, gotScore, err := s.SelectBestMove(pos, tc.depth)
			if err != nil {
				t.Fatal(err)
			}
			if !gotMove.Equal(wantMove) || gotScore != wantScore {
				t.Errorf("alpha-beta chose %s (%d), full minimax chose %s (%d)",
					gotMove, gotScore, wantMove, wantScore)
			}
			if tc.depth >= 3 && s.Nodes() >= uint64(fullNodes) {
				t.Errorf("alpha-beta visited %d nodes, unpruned %d", s.Nodes(), fullNodes)
			}
			t.Logf("%s: %s score=%d nodes=%d/%d", tc.name, gotMove, gotScore, s.Nodes(), fullNodes)
		})
	}
}

func TestMateInOne(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want string
		sign int
	}{
		{"white back rank", "6k1/5ppp/8/8/8/8/8/K3R3 w - - 0 1", "e1e8", 1},
		{"black back rank", "k3r3/8/8/8/8/8/5PPP/6K1 b - - 0 1", "e8e1", -1},
	}
	for _, tc := range tests {
		for depth := 1; depth <= 3; depth++ {
			pos := mustFEN(t, tc.fen)
			m, score, err := NewSearcher().SelectBestMove(pos, depth)
			if err != nil {
				t.Fatal(err)
			}
			if m.String() != tc.want {
				t.Errorf("%s depth %d: got %s, want %s", tc.name, depth, m, tc.want)
			}
			if want := tc.sign * (MateScore + depth); score != want {
				t.Errorf("%s depth %d: score %d, want %d", tc.name, depth, score, want)
			}
		}
	}
}

func TestPrefersShallowestMate(t *testing.T) {
	// Rd8 mates at once; slower mating lines also exist four plies deep.
	pos := mustFEN(t, "6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1")
	m, score, err := NewSearcher().SelectBestMove(pos, 3)
	if err != nil {
		t.Fatal(err)
	}
	if m.String() != "d1d8" {
		t.Errorf("got %s, want d1d8", m)
	}
	if score != MateScore+3 {
		t.Errorf("score = %d, want %d", score, MateScore+3)
	}
}

func TestBlackWinsQueen(t *testing.T) {
	for depth := 1; depth <= 3; depth++ {
		pos := mustFEN(t, "k7/8/8/8/8/8/1q6/Q3K3 b - - 0 1")
		m, _, err := NewSearcher().SelectBestMove(pos, depth)
		if err != nil {
			t.Fatal(err)
		}
		if m.String() != "b2a1" {
			t.Errorf("depth %d: got %s, want b2a1", depth, m)
		}
	}
}

func TestSelectBestMoveLeavesPositionUntouched(t *testing.T) {
	pos := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	pos.LegalMoves()
	key, ply, fen := pos.Key(), pos.Ply(), pos.FEN()
	mate, stale := pos.IsCheckmate(), pos.IsStalemate()

	if _, _, err := NewSearcher().SelectBestMove(pos, 2); err != nil {
		t.Fatal(err)
	}
	if pos.Key() != key || pos.Ply() != ply || pos.FEN() != fen {
		t.Error("search changed the position")
	}
	if pos.IsCheckmate() != mate || pos.IsStalemate() != stale {
		t.Error("search changed the terminal flags")
	}
	if got := pos.CastlingHistory(); len(got) != 1 || got[0] != board.AllCastling {
		t.Errorf("castling history = %v", got)
	}
}

func TestSelectBestMoveErrors(t *testing.T) {
	mated := mustFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if _, _, err := NewSearcher().SelectBestMove(mated, 2); !errors.Is(err, ErrNoLegalMoves) {
		t.Errorf("checkmated: err = %v, want ErrNoLegalMoves", err)
	}

	stale := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if _, _, err := NewSearcher().SelectBestMove(stale, 2); !errors.Is(err, ErrNoLegalMoves) {
		t.Errorf("stalemate: err = %v, want ErrNoLegalMoves", err)
	}

	for _, d := range []int{0, -1, MaxDepth + 1} {
		if _, _, err := NewSearcher().SelectBestMove(board.NewPosition(), d); !errors.Is(err, ErrInvalidDepth) {
			t.Errorf("depth %d: err = %v, want ErrInvalidDepth", d, err)
		}
	}
}

func TestMinimaxPrunes(t *testing.T) {
	pos := board.NewPosition()
	s := NewSearcher()
	v := s.Minimax(pos, 3, -Infinity, Infinity, true)

	nodes := 0
	want := fullMinimax(pos, 3, &nodes)
	if v != want {
		t.Errorf("Minimax = %d, want %d", v, want)
	}
	if s.Nodes() >= uint64(nodes) {
		t.Errorf("pruned search visited %d nodes, unpruned %d", s.Nodes(), nodes)
	}
}
