package engine

import (
	"errors"
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	// MateScore is the evaluation of a checkmate. It sits far outside the
	// range any material and piece-square sum can reach.
	MateScore = 1_000_000
	// Infinity bounds the alpha-beta window. Mate scores are adjusted by at
	// most the search depth and stay strictly inside it.
	Infinity = 2 * MateScore
	// MaxDepth caps the accepted search depth.
	MaxDepth = 64
)

var (
	// ErrNoLegalMoves is returned when asked to move in a terminal position.
	ErrNoLegalMoves = errors.New("no legal moves")
	// ErrInvalidDepth is returned for a depth outside 1..MaxDepth.
	ErrInvalidDepth = errors.New("invalid search depth")
)

// Searcher performs the minimax search. A Searcher is not safe for concurrent
// use; give each goroutine its own Searcher and its own Position.
type Searcher struct {
	nodes uint64
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Reset clears the node counter.
func (s *Searcher) Reset() {
	s.nodes = 0
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// leafScore evaluates a node where the search stops. A mate found with more
// depth remaining is closer to the root and scores further from zero, so the
// search prefers the shallowest forced mate.
func leafScore(pos *board.Position, legalCount, depth int) int {
	if legalCount > 0 {
		return EvaluateMaterial(pos)
	}
	score := terminalScore(pos)
	switch {
	case score > 0:
		return score + depth
	case score < 0:
		return score - depth
	}
	return 0
}

// Minimax searches depth plies below pos and returns the value from White's
// point of view. maximizing must be true when White is to move.
func (s *Searcher) Minimax(pos *board.Position, depth, alpha, beta int, maximizing bool) int {
	s.nodes++
	moves := pos.LegalMoves()
	if depth == 0 || len(moves) == 0 {
		return leafScore(pos, len(moves), depth)
	}

	if maximizing {
		best := -Infinity
		for _, m := range moves {
			pos.MakeMove(m)
			v := s.Minimax(pos, depth-1, alpha, beta, false)
			pos.UndoMove()
			best = max(best, v)
			alpha = max(alpha, v)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := Infinity
	for _, m := range moves {
		pos.MakeMove(m)
		v := s.Minimax(pos, depth-1, alpha, beta, true)
		pos.UndoMove()
		best = min(best, v)
		beta = min(beta, v)
		if beta <= alpha {
			break
		}
	}
	return best
}

// better reports whether a is strictly better than b for the side choosing.
func better(a, b int, maximizing bool) bool {
	if maximizing {
		return a > b
	}
	return a < b
}

// SelectBestMove returns the best move for the side to move and its score from
// White's point of view. Every root move is followed by a full depth-ply
// Minimax, so the tree is depth+1 plies deep. Ties go to the earliest generated move. A move that mates at once is
// returned without further search. The position is left exactly as found,
// terminal flags and castling rights included.
func (s *Searcher) SelectBestMove(pos *board.Position, depth int) (board.Move, int, error) {
	if depth < 1 || depth > MaxDepth {
		return board.NoMove, 0, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}

	saved := pos.SaveTerminalState()
	defer pos.RestoreTerminalState(saved)

	s.nodes++
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return board.NoMove, 0, ErrNoLegalMoves
	}

	maximizing := pos.SideToMove == board.White
	bestMove := board.NoMove
	bestScore := Infinity
	if maximizing {
		bestScore = -Infinity
	}
	alpha, beta := -Infinity, Infinity

	for _, m := range moves {
		pos.MakeMove(m)

		if pos.InCheck() && !pos.HasLegalMoves() {
			pos.UndoMove()
			score := MateScore + depth
			if !maximizing {
				score = -score
			}
			return m, score, nil
		}

		v := s.Minimax(pos, depth, alpha, beta, !maximizing)
		pos.UndoMove()

		if better(v, bestScore, maximizing) {
			bestMove, bestScore = m, v
		}
		if maximizing {
			alpha = max(alpha, v)
		} else {
			beta = min(beta, v)
		}
	}
	return bestMove, bestScore, nil
}
