// Package console implements a line-oriented interface for playing against
// the engine in a terminal.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

// unsavedID marks a game that has not been stored yet.
const unsavedID = "console"

const helpText = `Commands:
  new                 start a new game
  fen <FEN>           set up a position
  moves               list legal moves
  move <mv> | <mv>    play a move (e2e4, e7e8q or SAN such as Nf3)
  undo                take back the last move
  go [depth]          let the engine move
  auto on|off         engine replies automatically after your moves
  level <difficulty>  easy, medium or hard
  eval                static evaluation
  perft <n>           count leaf nodes n plies deep
  history             moves played so far
  d                   show the board
  save                store the game
  load <id>           restore a stored game
  quit                exit`

// Console holds the state of an interactive session.
type Console struct {
	engine *engine.Engine
	game   *game.Game
	store  *storage.Storage
	out    io.Writer

	autoReply bool
}

// New creates a console around eng. store may be nil, which disables the
// save and load commands.
func New(eng *engine.Engine, store *storage.Storage) *Console {
	return &Console{
		engine: eng,
		game:   game.New(unsavedID),
		store:  store,
	}
}

// Game returns the game being played.
func (c *Console) Game() *game.Game {
	return c.game
}

// SetAutoReply makes the engine answer every move played at the console.
func (c *Console) SetAutoReply(on bool) {
	c.autoReply = on
}

// Run reads commands from r until EOF or quit, writing responses to w.
func (c *Console) Run(r io.Reader, w io.Writer) error {
	c.out = w
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "quit", "exit":
			return nil
		case "help", "?":
			fmt.Fprintln(c.out, helpText)
		case "new":
			c.game = game.New(unsavedID)
			c.printf("New game")
		case "fen":
			c.handleFEN(args)
		case "moves":
			c.handleMoves()
		case "move":
			if len(args) == 0 {
				c.printf("usage: move <mv>")
				continue
			}
			c.handleMove(args[0])
		case "undo":
			c.handleUndo()
		case "go":
			c.handleGo(args)
		case "auto":
			c.autoReply = len(args) == 0 || args[0] == "on"
			c.printf("Auto reply: %v", c.autoReply)
		case "level":
			c.handleLevel(args)
		case "eval":
			score := c.engine.Evaluate(c.game.Position())
			c.printf("Eval: %d (%s)", score, engine.ScoreToString(score))
		case "perft":
			c.handlePerft(args)
		case "history":
			c.handleHistory()
		case "d":
			fmt.Fprintln(c.out, c.game.Position().String())
			c.printf("FEN: %s", c.game.Position().FEN())
		case "save":
			c.handleSave()
		case "load":
			c.handleLoad(args)
		default:
			if _, err := board.ParseMove(cmd); err == nil {
				c.handleMove(cmd)
				continue
			}
			if _, err := c.game.Position().ParseSAN(parts[0]); err == nil {
				c.handleMove(parts[0])
				continue
			}
			c.printf("Unknown command: %s (type help)", parts[0])
		}
	}
	return scanner.Err()
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) handleFEN(args []string) {
	g, err := game.NewFromFEN(unsavedID, strings.Join(args, " "))
	if err != nil {
		c.printf("Error: %v", err)
		return
	}
	c.game = g
	c.printf("Position set: %s", g.Position().FEN())
	c.reportStatus()
}

func (c *Console) handleMoves() {
	pos := c.game.Position()
	moves := pos.LegalMoves()
	san := make([]string, len(moves))
	for i, m := range moves {
		san[i] = pos.SAN(m)
	}
	c.printf("%d legal moves: %s", len(moves), strings.Join(san, " "))
}

func (c *Console) handleMove(s string) {
	m, err := c.game.Play(s)
	if err != nil {
		c.printf("Error: %v", err)
		return
	}
	san := c.game.SAN()
	c.printf("Played %s (%s)", m, san[len(san)-1])
	if c.reportStatus() || !c.autoReply {
		return
	}
	c.engineMove(c.engine.Depth())
}

func (c *Console) handleUndo() {
	m, err := c.game.Undo()
	if err != nil {
		c.printf("Error: %v", err)
		return
	}
	c.printf("Took back %s", m)
}

func (c *Console) handleGo(args []string) {
	depth := c.engine.Depth()
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil {
			c.printf("Error: invalid depth %q", args[0])
			return
		}
		depth = d
	}
	c.engineMove(depth)
}

// engineMove searches a copy of the position and plays the result.
func (c *Console) engineMove(depth int) {
	m, score, err := c.engine.SearchDepth(c.game.Position().Copy(), depth)
	if err != nil {
		c.printf("Error: %v", err)
		return
	}
	san := c.game.Position().SAN(m)
	if _, err := c.game.PlayMove(m); err != nil {
		c.printf("Error: %v", err)
		return
	}
	c.printf("bestmove %s (%s) score %s", m, san, engine.ScoreToString(score))
	c.reportStatus()
}

// reportStatus prints check and game-over notices and reports whether the
// game has ended.
func (c *Console) reportStatus() bool {
	st := c.game.Status()
	switch {
	case st.Over():
		c.printf("Game over: %s (%s)", st.Message, st.Result)
		return true
	case st.InCheck:
		c.printf("Check")
	}
	return false
}

func (c *Console) handleLevel(args []string) {
	if len(args) == 0 {
		c.printf("Depth: %d", c.engine.Depth())
		return
	}
	d, err := engine.ParseDifficulty(args[0])
	if err != nil {
		c.printf("Error: %v", err)
		return
	}
	c.engine.SetDifficulty(d)
	c.printf("Difficulty %s (depth %d)", d, c.engine.Depth())
}

func (c *Console) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 0 {
			c.printf("Error: invalid depth %q", args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	nodes := c.engine.Perft(c.game.Position(), depth)
	elapsed := time.Since(start)

	c.printf("Nodes: %d", nodes)
	c.printf("Time: %v", elapsed)
	if elapsed > 0 {
		c.printf("NPS: %.0f", float64(nodes)/elapsed.Seconds())
	}
}

func (c *Console) handleHistory() {
	ply := 0
	if strings.Fields(c.game.StartFEN)[1] == "b" {
		ply = 1
	}
	var sb strings.Builder
	for i, s := range c.game.SAN() {
		switch {
		case ply%2 == 0:
			fmt.Fprintf(&sb, "%d. %s ", ply/2+1, s)
		case i == 0:
			fmt.Fprintf(&sb, "%d... %s ", ply/2+1, s)
		default:
			sb.WriteString(s + " ")
		}
		ply++
	}
	c.printf("%s", strings.TrimSpace(sb.String()))
}

func (c *Console) handleSave() {
	if c.store == nil {
		c.printf("Error: storage disabled")
		return
	}
	if c.game.ID == unsavedID {
		id, err := c.store.NextGameID()
		if err != nil {
			c.printf("Error: %v", err)
			return
		}
		c.game.ID = id
	}
	if err := c.store.SaveGame(c.game.Record()); err != nil {
		c.printf("Error: %v", err)
		return
	}
	c.printf("Saved game %s", c.game.ID)
}

func (c *Console) handleLoad(args []string) {
	if c.store == nil {
		c.printf("Error: storage disabled")
		return
	}
	if len(args) == 0 {
		c.printf("usage: load <id>")
		return
	}
	rec, err := c.store.LoadGame(args[0])
	if errors.Is(err, storage.ErrGameNotFound) {
		c.printf("No game %s", args[0])
		return
	}
	if err != nil {
		c.printf("Error: %v", err)
		return
	}
	g, err := game.Replay(*rec)
	if err != nil {
		c.printf("Error: %v", err)
		return
	}
	c.game = g
	c.printf("Loaded game %s (%d moves)", g.ID, len(rec.Moves))
}
