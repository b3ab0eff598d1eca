package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

type createRequest struct {
	FEN string `json:"fen"`
}

type moveRequest struct {
	Move string `json:"move" binding:"required,min=2,max=7"`
}

type aiRequest struct {
	Depth int `json:"depth" binding:"min=0"`
}

// Handler builds the gin router for the API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")
	api.GET("/stats", s.handleStats)
	api.POST("/games", s.handleCreate)
	api.GET("/games", s.handleList)
	api.GET("/games/:id", s.handleGet)
	api.DELETE("/games/:id", s.handleDelete)
	api.POST("/games/:id/moves", s.handleMove)
	api.POST("/games/:id/undo", s.handleUndo)
	api.POST("/games/:id/ai", s.handleAI)
	api.GET("/games/:id/ws", s.handleWebSocket)

	return r
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, board.ErrIllegalMove),
		errors.Is(err, board.ErrEmptyHistory),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, engine.ErrNoLegalMoves),
		errors.Is(err, ErrSearchInProgress),
		errors.Is(err, ErrPositionChanged):
		return http.StatusConflict
	case errors.Is(err, board.ErrInvalidFEN),
		errors.Is(err, board.ErrBadNotation),
		errors.Is(err, board.ErrInvalidSquare),
		errors.Is(err, engine.ErrInvalidDepth):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

// bindOptionalJSON binds a JSON body that may be absent.
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.store.LoadStats()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	_, st, err := s.createGame(req.FEN)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (s *Server) handleList(c *gin.Context) {
	games, err := s.listGames()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (s *Server) handleGet(c *gin.Context) {
	st, err := s.gameState(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleDelete(c *gin.Context) {
	if err := s.deleteGame(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := s.playMove(c.Param("id"), req.Move)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleUndo(c *gin.Context) {
	st, err := s.undoMove(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleAI(c *gin.Context) {
	var req aiRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	st, err := s.aiMove(c.Param("id"), req.Depth)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
