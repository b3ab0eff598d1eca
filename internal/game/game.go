// Package game tracks a single chess game on top of a board.Position: the move
// list in both notations, the game status and a serializable record that can be
// replayed to rebuild the position.
package game

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// ErrGameOver is returned when a move is attempted after checkmate or stalemate.
var ErrGameOver = errors.New("game is over")

// State is the lifecycle state of a game.
type State int

const (
	Ongoing State = iota
	Checkmate
	Stalemate
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "unknown"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{Ongoing, Checkmate, Stalemate} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown game state %q", text)
}

// Result strings in PGN style.
const (
	ResultNone     = "*"
	ResultWhiteWin = "1-0"
	ResultBlackWin = "0-1"
	ResultDraw     = "1/2-1/2"
)

// Status describes the current state of a game.
type Status struct {
	State   State  `json:"state"`
	Winner  string `json:"winner,omitempty"`
	InCheck bool   `json:"inCheck"`
	Result  string `json:"result"`
	Message string `json:"message,omitempty"`
}

// Over reports whether the game has ended.
func (s Status) Over() bool {
	return s.State != Ongoing
}

// StatusOf derives the status of a position. It enumerates the legal moves,
// which refreshes the position's terminal flags.
func StatusOf(pos *board.Position) Status {
	pos.LegalMoves()
	switch {
	case pos.IsCheckmate():
		winner := pos.SideToMove.Other()
		result := ResultWhiteWin
		if winner == board.Black {
			result = ResultBlackWin
		}
		return Status{
			State:   Checkmate,
			Winner:  strings.ToLower(winner.String()),
			InCheck: true,
			Result:  result,
			Message: fmt.Sprintf("%s wins by checkmate", winner),
		}
	case pos.IsStalemate():
		return Status{State: Stalemate, Result: ResultDraw, Message: "Draw by stalemate"}
	}
	return Status{State: Ongoing, InCheck: pos.InCheck(), Result: ResultNone}
}

// Game is a position plus the notation of every move played on it.
// A Game is not safe for concurrent use.
type Game struct {
	ID        string
	StartFEN  string
	CreatedAt time.Time
	UpdatedAt time.Time

	position    *board.Position
	moveHistory []string
	sanHistory  []string
}

// New creates a game from the standard starting position.
func New(id string) *Game {
	g, err := NewFromFEN(id, board.StartFEN)
	if err != nil {
		panic(err)
	}
	return g
}

// NewFromFEN creates a game starting at the given FEN position.
func NewFromFEN(id, fen string) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", board.ErrInvalidFEN, err)
	}
	now := time.Now()
	return &Game{
		ID:        id,
		StartFEN:  pos.FEN(),
		CreatedAt: now,
		UpdatedAt: now,
		position:  pos,
	}, nil
}

// Position returns the live position. Callers that need to search it off the
// owning goroutine must use Position().Copy().
func (g *Game) Position() *board.Position {
	return g.position
}

// Moves returns the played moves in coordinate notation.
func (g *Game) Moves() []string {
	return append([]string(nil), g.moveHistory...)
}

// SAN returns the played moves in standard algebraic notation.
func (g *Game) SAN() []string {
	return append([]string(nil), g.sanHistory...)
}

// Status returns the current game status.
func (g *Game) Status() Status {
	return StatusOf(g.position)
}

// Play applies a move given in coordinate notation (e2e4) or SAN (Nf3).
func (g *Game) Play(s string) (board.Move, error) {
	if g.Status().Over() {
		return board.NoMove, ErrGameOver
	}
	m, err := g.position.FindMove(s)
	if err != nil && !errors.Is(err, board.ErrIllegalMove) {
		m, err = g.position.ParseSAN(s)
	}
	if err != nil {
		return board.NoMove, err
	}
	return g.apply(m)
}

// PlayMove applies a move produced by the engine or the move generator.
func (g *Game) PlayMove(m board.Move) (board.Move, error) {
	if g.Status().Over() {
		return board.NoMove, ErrGameOver
	}
	return g.apply(m)
}

func (g *Game) apply(m board.Move) (board.Move, error) {
	san := g.position.SAN(m)
	applied, err := g.position.ApplyMove(m)
	if err != nil {
		return board.NoMove, err
	}
	g.moveHistory = append(g.moveHistory, applied.String())
	g.sanHistory = append(g.sanHistory, san)
	g.UpdatedAt = time.Now()
	return applied, nil
}

// Undo takes back the last move.
func (g *Game) Undo() (board.Move, error) {
	last := g.position.LastMove()
	if err := g.position.UndoMove(); err != nil {
		return board.NoMove, err
	}
	g.moveHistory = g.moveHistory[:len(g.moveHistory)-1]
	g.sanHistory = g.sanHistory[:len(g.sanHistory)-1]
	g.UpdatedAt = time.Now()
	return last, nil
}

// Record is the persistent form of a game: the start position and the moves
// in coordinate notation. The position is rebuilt by Replay.
type Record struct {
	ID        string    `json:"id"`
	StartFEN  string    `json:"start_fen"`
	Moves     []string  `json:"moves"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record snapshots the game.
func (g *Game) Record() Record {
	moves := g.Moves()
	if moves == nil {
		moves = []string{}
	}
	return Record{
		ID:        g.ID,
		StartFEN:  g.StartFEN,
		Moves:     moves,
		Result:    g.Status().Result,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// Replay rebuilds a game from its record by applying every move in order.
// It fails on the first move that is not legal in the replayed position.
func Replay(r Record) (*Game, error) {
	g, err := NewFromFEN(r.ID, r.StartFEN)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", r.ID, err)
	}
	for i, s := range r.Moves {
		if _, err := g.Play(s); err != nil {
			log.Printf("[MOVE] Replay of game %s stopped at ply %d (%s): %v", r.ID, i+1, s, err)
			return nil, fmt.Errorf("replay %s: ply %d: %w", r.ID, i+1, err)
		}
	}
	g.CreatedAt = r.CreatedAt
	g.UpdatedAt = r.UpdatedAt
	return g, nil
}
