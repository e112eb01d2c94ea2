// Package engine implements the search: a transposition cache, move
// ordering, principal-variation search with quiescence, and the default
// evaluation function.
package engine

import (
	"github.com/hailam/rayfish/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 400
	BishopValue = 350
	RookValue   = 525
	QueenValue  = 1000
	KingValue   = 20000
)

// Piece values indexed by piece type, NoPieceType last.
var pieceValues = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue, 0}

func pieceValue(p board.Piece) int {
	if p == board.NoPiece {
		return 0
	}
	return pieceValues[p.Type()]
}

const bishopPairBonus = 200

// Pawn structure weights
const (
	doubledPawnPenalty  = 20
	isolatedPawnPenalty = 40
	innerLeverBonus     = 25
	outerLeverBonus     = 15
	ramPenalty          = 20
	chainBonus          = 15
	sideBySideBonus     = 10
)

// Evaluator scores a position from White's point of view. Implementations
// must be deterministic functions of the board.
type Evaluator interface {
	Evaluate(pos *board.Position) int
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(pos *board.Position) int

// Evaluate calls f(pos).
func (f EvaluatorFunc) Evaluate(pos *board.Position) int {
	return f(pos)
}

// Classical is the default evaluator: material, piece-square tables and
// pawn structure.
type Classical struct{}

// Evaluate implements Evaluator.
func (Classical) Evaluate(pos *board.Position) int {
	return Material(pos) + placement(pos) + pawnStructure(pos)
}

// Material returns the material balance including the bishop pair bonus.
func Material(pos *board.Position) int {
	score := 0
	for pt := board.Pawn; pt < board.King; pt++ {
		score += pieceValues[pt] * (pos.Pieces[board.White][pt].PopCount() - pos.Pieces[board.Black][pt].PopCount())
	}
	score += bishopPairBonus * (pos.Pieces[board.White][board.Bishop].PopCount() / 2)
	score -= bishopPairBonus * (pos.Pieces[board.Black][board.Bishop].PopCount() / 2)
	return score
}

// placement sums the piece-square tables. The endgame king table applies
// once both queens are off the board.
func placement(pos *board.Position) int {
	kingTable := &kingMiddleTable
	if pos.Pieces[board.White][board.Queen]|pos.Pieces[board.Black][board.Queen] == 0 {
		kingTable = &kingEndTable
	}

	score := 0
	for pt := board.Pawn; pt <= board.King; pt++ {
		table := pieceSquareTables[pt]
		if pt == board.King {
			table = kingTable
		}

		white := pos.Pieces[board.White][pt]
		for white != 0 {
			score += int(table[white.PopLSB()])
		}
		black := pos.Pieces[board.Black][pt]
		for black != 0 {
			score -= int(table[black.PopLSB().Mirror()])
		}
	}
	return score
}

// pawnStructure scores doubled, isolated, chained, side-by-side, rammed and
// lever pawns.
func pawnStructure(pos *board.Position) int {
	wp := pos.Pieces[board.White][board.Pawn]
	bp := pos.Pieces[board.Black][board.Pawn]

	score := 0
	for file := 0; file < 8; file++ {
		fm := board.FileMask[file]
		adjacent := fm.East() | fm.West()

		if n := (wp & fm).PopCount(); n > 0 {
			if n > 1 {
				score -= doubledPawnPenalty
			}
			if wp&adjacent == 0 {
				score -= isolatedPawnPenalty
			}
		}
		if n := (bp & fm).PopCount(); n > 0 {
			if n > 1 {
				score += doubledPawnPenalty
			}
			if bp&adjacent == 0 {
				score += isolatedPawnPenalty
			}
		}
	}

	score += chainBonus * ((wp & wp.NorthEast()).PopCount() + (wp & wp.NorthWest()).PopCount())
	score -= chainBonus * ((bp & bp.SouthEast()).PopCount() + (bp & bp.SouthWest()).PopCount())

	score += sideBySideBonus * (wp & wp.East()).PopCount()
	score -= sideBySideBonus * (bp & bp.East()).PopCount()

	// A ram hurts the side whose pawn is still stuck on its own half.
	score -= ramPenalty * (wp & bp.South() & (board.Rank2 | board.Rank3 | board.Rank4)).PopCount()
	score += ramPenalty * (bp & wp.North() & (board.Rank5 | board.Rank6 | board.Rank7)).PopCount()

	queenSide := board.FileA | board.FileB | board.FileC | board.FileD
	kingSide := ^queenSide

	score += innerLeverBonus * ((wp&queenSide).NorthEast()&bp | (wp&kingSide).NorthWest()&bp).PopCount()
	score += outerLeverBonus * ((wp&queenSide).NorthWest()&bp | (wp&kingSide).NorthEast()&bp).PopCount()
	score -= innerLeverBonus * ((bp&queenSide).SouthEast()&wp | (bp&kingSide).SouthWest()&wp).PopCount()
	score -= outerLeverBonus * ((bp&queenSide).SouthWest()&wp | (bp&kingSide).SouthEast()&wp).PopCount()

	return score
}

// Piece-square tables from White's side, a1 first. Black looks squares up
// mirrored.
var pieceSquareTables = [6]*[64]int8{
	&pawnTable, &knightTable, &bishopTable, &rookTable, &queenTable, &kingMiddleTable,
}

var pawnTable = [64]int8{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightTable = [64]int8{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopTable = [64]int8{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookTable = [64]int8{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var queenTable = [64]int8{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-10, 5, 5, 5, 5, 5, 0, -10,
	0, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMiddleTable = [64]int8{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

var kingEndTable = [64]int8{
	-50, -30, -30, -30, -30, -30, -30, -50,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-50, -40, -30, -20, -20, -30, -40, -50,
}
