package server

import (
	"fmt"
	"strings"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
)

// GameState is the JSON view of a game sent to clients.
type GameState struct {
	ID         string      `json:"id"`
	FEN        string      `json:"fen"`
	SideToMove string      `json:"sideToMove"`
	Moves      []string    `json:"moves"`
	SAN        []string    `json:"san"`
	LegalMoves []string    `json:"legalMoves"`
	Status     game.Status `json:"status"`
	Key        string      `json:"key"`
	Evaluation int         `json:"evaluation"`

	// Set only on responses to an AI move request.
	AIMove  string `json:"aiMove,omitempty"`
	AIScore *int   `json:"aiScore,omitempty"`
}

// GameSummary is one entry of the game list.
type GameSummary struct {
	ID        string `json:"id"`
	Result    string `json:"result"`
	Plies     int    `json:"plies"`
	UpdatedAt string `json:"updatedAt"`
}

func stateOf(g *game.Game) GameState {
	pos := g.Position()
	legal := pos.LegalMoves()
	moves := make([]string, len(legal))
	for i, m := range legal {
		moves[i] = m.String()
	}
	return GameState{
		ID:         g.ID,
		FEN:        pos.FEN(),
		SideToMove: strings.ToLower(pos.SideToMove.String()),
		Moves:      nonNil(g.Moves()),
		SAN:        nonNil(g.SAN()),
		LegalMoves: moves,
		Status:     g.Status(),
		Key:        fmt.Sprintf("%016x", pos.Key()),
		Evaluation: engine.Evaluate(pos),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func withAIMove(st GameState, m board.Move, score int) GameState {
	st.AIMove = m.String()
	st.AIScore = &score
	return st
}
