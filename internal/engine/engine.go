package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // depth 2: root move + 2 plies
	Medium                   // depth 3
	Hard                     // depth 4
)

// DifficultyDepth maps difficulty to search depth.
var DifficultyDepth = map[Difficulty]int{
	Easy:   2,
	Medium: 3,
	Hard:   4,
}

// String returns the lowercase difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty parses a difficulty name (easy, medium, hard).
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium", "":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("unknown difficulty: %q", s)
}

// Engine is the chess AI engine.
type Engine struct {
	searcher *Searcher
	depth    int

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine at Medium difficulty.
func NewEngine() *Engine {
	return &Engine{
		searcher: NewSearcher(),
		depth:    DifficultyDepth[Medium],
	}
}

// SetDifficulty sets the engine depth from a difficulty preset.
func (e *Engine) SetDifficulty(d Difficulty) {
	if depth, ok := DifficultyDepth[d]; ok {
		e.depth = depth
	}
}

// SetDepth sets the number of plies searched below each root move.
func (e *Engine) SetDepth(depth int) error {
	if depth < 1 || depth > MaxDepth {
		return fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	e.depth = depth
	return nil
}

// Depth returns the configured search depth.
func (e *Engine) Depth() int {
	return e.depth
}

// Search finds the best move for the given position at the configured depth.
func (e *Engine) Search(pos *board.Position) (board.Move, error) {
	m, _, err := e.SearchDepth(pos, e.depth)
	return m, err
}

// SearchDepth finds the best move at an explicit depth and returns its score.
func (e *Engine) SearchDepth(pos *board.Position, depth int) (board.Move, int, error) {
	e.searcher.Reset()
	start := time.Now()

	m, score, err := e.searcher.SelectBestMove(pos, depth)
	if err != nil {
		return board.NoMove, 0, err
	}

	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth: depth,
			Score: score,
			Nodes: e.searcher.Nodes(),
			Time:  time.Since(start),
			Move:  m,
		})
	}
	return m, score, nil
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		pos.MakeMove(m)
		nodes += e.Perft(pos, depth-1)
		pos.UndoMove()
	}
	return nodes
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score >= MateScore {
		return "White mates"
	}
	if score <= -MateScore {
		return "Black mates"
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	cp := strconv.Itoa(centipawns)
	if centipawns < 10 {
		cp = "0" + cp
	}
	return sign + strconv.Itoa(pawns) + "." + cp
}
