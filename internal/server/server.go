// Package server exposes games over HTTP and WebSocket. Each game lives in a
// session guarded by its own mutex; every change is persisted to storage and
// pushed to the game's WebSocket subscribers.
package server

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

// ErrSearchInProgress is returned when an AI move is requested while another
// search on the same game is running.
var ErrSearchInProgress = errors.New("ai search already in progress")

// ErrPositionChanged is returned when the game moved on while the AI searched.
var ErrPositionChanged = errors.New("position changed during search")

// Options configures a Server.
type Options struct {
	// Depth is the default AI search depth in plies.
	Depth int
}

// Server holds the live game sessions.
type Server struct {
	store *storage.Storage
	depth int

	mu       sync.Mutex
	sessions map[string]*session

	// searchDone runs after an AI search returns, before its result is
	// applied. Tests use it to interleave requests with a search.
	searchDone func(id string)
}

// session is a loaded game plus its WebSocket subscribers.
type session struct {
	mu         sync.Mutex
	game       *game.Game
	clients    map[*websocket.Conn]struct{}
	aiThinking bool
	deleted    bool
}

// New creates a server backed by store.
func New(store *storage.Storage, opts Options) *Server {
	depth := opts.Depth
	if depth < 1 || depth > engine.MaxDepth {
		depth = engine.DifficultyDepth[engine.Medium]
	}
	return &Server{
		store:    store,
		depth:    depth,
		sessions: make(map[string]*session),
	}
}

func newSession(g *game.Game) *session {
	return &session{game: g, clients: make(map[*websocket.Conn]struct{})}
}

// createGame starts a game from fen, or from the initial position when fen is
// empty, and stores it.
func (s *Server) createGame(fen string) (*session, GameState, error) {
	if fen == "" {
		fen = board.StartFEN
	}
	g, err := game.NewFromFEN("", fen)
	if err != nil {
		return nil, GameState{}, err
	}
	id, err := s.store.NextGameID()
	if err != nil {
		return nil, GameState{}, err
	}
	g.ID = id
	if err := s.store.SaveGame(g.Record()); err != nil {
		return nil, GameState{}, err
	}

	sess := newSession(g)
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	log.Printf("[SERVER] Created game %s from %s", id, g.StartFEN)
	return sess, stateOf(g), nil
}

// session returns the live session for id, replaying it from storage when it
// is not loaded yet.
func (s *Server) session(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	rec, err := s.store.LoadGame(id)
	if err != nil {
		return nil, err
	}
	g, err := game.Replay(*rec)
	if err != nil {
		return nil, err
	}
	sess := newSession(g)
	s.sessions[id] = sess
	log.Printf("[STORAGE] Loaded game %s (%d plies)", id, len(rec.Moves))
	return sess, nil
}

// deleteGame drops a game from storage and closes its subscribers. A loaded
// session is marked deleted so that a search still running on it cannot save
// the game again.
func (s *Server) deleteGame(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return s.store.DeleteGame(id)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.store.DeleteGame(id); err != nil {
		return err
	}
	delete(s.sessions, id)
	sess.deleted = true
	for conn := range sess.clients {
		conn.Close()
	}
	sess.clients = map[*websocket.Conn]struct{}{}
	log.Printf("[STORAGE] Deleted game %s", id)
	return nil
}

// check reports why the session cannot be changed right now, if anything.
// s.mu must be held.
func (s *session) check() error {
	switch {
	case s.deleted:
		return fmt.Errorf("%w: %s", storage.ErrGameNotFound, s.game.ID)
	case s.aiThinking:
		return ErrSearchInProgress
	}
	return nil
}

func (s *Server) listGames() ([]GameSummary, error) {
	recs, err := s.store.ListGames()
	if err != nil {
		return nil, err
	}
	out := make([]GameSummary, 0, len(recs))
	for _, r := range recs {
		out = append(out, GameSummary{
			ID:        r.ID,
			Result:    r.Result,
			Plies:     len(r.Moves),
			UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// gameState returns the current state of a game.
func (s *Server) gameState(id string) (GameState, error) {
	sess, err := s.session(id)
	if err != nil {
		return GameState{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.deleted {
		return GameState{}, fmt.Errorf("%w: %s", storage.ErrGameNotFound, id)
	}
	return stateOf(sess.game), nil
}

// changed persists the game and pushes the new state to subscribers.
// sess.mu must be held.
func (s *Server) changed(sess *session) (GameState, error) {
	if err := s.store.SaveGame(sess.game.Record()); err != nil {
		return GameState{}, fmt.Errorf("save game %s: %w", sess.game.ID, err)
	}
	st := stateOf(sess.game)
	sess.broadcast(message{Type: "state", State: &st})
	return st, nil
}

// playMove applies a move in coordinate notation.
func (s *Server) playMove(id, mv string) (GameState, error) {
	sess, err := s.session(id)
	if err != nil {
		return GameState{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.check(); err != nil {
		return GameState{}, err
	}
	m, err := sess.game.Play(mv)
	if err != nil {
		return GameState{}, err
	}
	log.Printf("[MOVE] Game %s: %s", id, m)
	return s.changed(sess)
}

// undoMove takes back the last move.
func (s *Server) undoMove(id string) (GameState, error) {
	sess, err := s.session(id)
	if err != nil {
		return GameState{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.check(); err != nil {
		return GameState{}, err
	}
	m, err := sess.game.Undo()
	if err != nil {
		return GameState{}, err
	}
	log.Printf("[MOVE] Game %s: undo %s", id, m)
	return s.changed(sess)
}

// aiMove searches the current position on a private copy, then plays the
// chosen move if the game has not changed in the meantime.
func (s *Server) aiMove(id string, depth int) (GameState, error) {
	if depth == 0 {
		depth = s.depth
	}
	sess, err := s.session(id)
	if err != nil {
		return GameState{}, err
	}

	sess.mu.Lock()
	if err := sess.check(); err != nil {
		sess.mu.Unlock()
		return GameState{}, err
	}
	if sess.game.Status().Over() {
		sess.mu.Unlock()
		return GameState{}, game.ErrGameOver
	}
	pos := sess.game.Position().Copy()
	key := pos.Key()
	sess.aiThinking = true
	sess.mu.Unlock()

	eng := engine.NewEngine()
	eng.OnInfo = func(info engine.SearchInfo) {
		log.Printf("[AI] Game %s: depth %d, move %s, score %s, nodes %d, time %v",
			id, info.Depth, info.Move, engine.ScoreToString(info.Score), info.Nodes, info.Time)
	}
	m, score, searchErr := eng.SearchDepth(pos, depth)
	if s.searchDone != nil {
		s.searchDone(id)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.aiThinking = false

	if searchErr != nil {
		return GameState{}, searchErr
	}
	if sess.deleted {
		return GameState{}, fmt.Errorf("%w: %s", storage.ErrGameNotFound, id)
	}
	if sess.game.Position().Key() != key {
		return GameState{}, ErrPositionChanged
	}
	if _, err := sess.game.PlayMove(m); err != nil {
		return GameState{}, err
	}
	st, err := s.changed(sess)
	if err != nil {
		return GameState{}, err
	}
	return withAIMove(st, m, score), nil
}

// Close disconnects every WebSocket subscriber.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.mu.Lock()
		for conn := range sess.clients {
			conn.Close()
			delete(sess.clients, conn)
		}
		sess.mu.Unlock()
	}
}
