// Package engine implements the chess AI: a static evaluator and a fixed-depth
// minimax search with alpha-beta pruning.
package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 300
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// Piece values array for quick lookup
var pieceValues = [6]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue}

// Piece-square tables from White's point of view, indexed [row][col] with
// row 0 being rank 8. Black uses the vertically mirrored table.
var pieceSquareTables = [6][8][8]int{
	board.Pawn: {
		{0, 0, 0, 0, 0, 0, 0, 0},
		{50, 50, 50, 50, 50, 50, 50, 50},
		{10, 10, 20, 25, 25, 20, 10, 10},
		{5, 5, 10, 100, 100, 10, 5, 5},
		{3, 3, 10, 100, 100, 10, 3, 3},
		{5, -5, -10, 0, 60, -10, -5, 5},
		{5, 10, 10, 10, 10, 10, 10, 5},
		{0, 0, 0, 0, 0, 0, 0, 0},
	},
	board.Knight: {
		{-50, -40, -30, -30, -30, -30, -40, -50},
		{-40, -20, 0, 0, 0, 0, -20, -40},
		{-30, 20, 0, 0, 0, 0, 20, -30},
		{-30, 5, 5, 5, 5, 5, 5, -30},
		{-30, 5, 5, 5, 5, 5, 5, -30},
		{-30, 20, 20, 10, 10, 20, 20, -30},
		{-40, -20, 0, 20, 20, 0, -20, -40},
		{-50, -40, -30, -30, -30, -30, -40, -50},
	},
	board.Bishop: {
		{-20, -10, -10, -10, -10, -10, -10, -20},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-10, 0, 5, 10, 10, 5, 0, -10},
		{-10, 5, 5, 10, 10, 5, 5, -10},
		{-10, 0, 10, 10, 10, 10, 0, -10},
		{-10, 10, 10, 10, 10, 10, 10, -10},
		{-10, 5, 0, 0, 0, 0, 5, -10},
		{-20, -10, -10, -10, -10, -10, -10, -20},
	},
	board.Rook: {
		{0, 0, 0, 0, 0, 0, 0, 0},
		{5, 10, 10, 10, 10, 10, 10, 5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{0, 0, 0, 5, 5, 0, 0, 0},
	},
	board.Queen: {
		{-20, -10, -10, -5, -5, -10, -10, -20},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-10, 0, 5, 5, 5, 5, 0, -10},
		{-5, 0, 5, 5, 5, 5, 0, -5},
		{0, 0, 5, 5, 5, 5, 0, -5},
		{-10, 5, 5, 5, 5, 5, 0, -10},
		{-10, 0, 5, 0, 0, 0, 0, -10},
		{-20, -10, -10, -5, -5, -10, -10, -20},
	},
	board.King: {
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-20, -30, -30, -40, -40, -30, -30, -20},
		{-10, -20, -20, -20, -20, -20, -20, -10},
		{20, 20, 0, -10, -10, -10, 20, 40},
		{30, 50, 40, -10, 0, 20, 50, 30},
	},
}

// Evaluate returns the score of the position from White's point of view.
// Checkmate scores are -MateScore when White is mated and +MateScore when
// Black is mated; stalemate is 0. Enumerating the legal moves updates the
// position's terminal flags.
func Evaluate(pos *board.Position) int {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return terminalScore(pos)
	}
	return EvaluateMaterial(pos)
}

// terminalScore scores a position without legal moves. It must only be called
// right after LegalMoves returned an empty list.
func terminalScore(pos *board.Position) int {
	if !pos.IsCheckmate() {
		return 0
	}
	if pos.SideToMove == board.White {
		return -MateScore
	}
	return MateScore
}

// EvaluateMaterial sums material and piece-square bonuses over the board,
// positive for White. It ignores checkmate and stalemate.
func EvaluateMaterial(pos *board.Position) int {
	score := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := pos.Board[row][col]
			if piece == board.NoPiece {
				continue
			}
			pt := piece.Type()
			if piece.Color() == board.White {
				score += pieceValues[pt] + pieceSquareTables[pt][row][col]
			} else {
				score -= pieceValues[pt] + pieceSquareTables[pt][7-row][col]
			}
		}
	}
	return score
}
