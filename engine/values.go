package engine

import (
	"math"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Eval in centi-pawns, i.e. 100 === 1 pawn
type EvalCp int16

// For NegaMax and friends this naming is more accurate
const MyCheckMateEval EvalCp = math.MaxInt16
const YourCheckMateEval EvalCp = -math.MaxInt16 // don't use MinInt16 cos it's not symmetrical with MaxInt16

const DrawEval EvalCp = 0

// Longest line (search + q-search) that can carry a mate score
const MaxPly = 512

// Evals at least this far from zero are mate scores
const MateThreshold EvalCp = MyCheckMateEval - MaxPly

// Game phase: MaxPhase is the full middlegame complement of minor and major pieces
const MaxPhase = 24

// Piece values
const nothingVal = 0
const pawnVal = 100
const knightVal = 300
const bishopVal = 300
const rookVal = 500
const queenVal = 900
const kingVal = 0

var pieceVals = [7]EvalCp{
	nothingVal,
	pawnVal,
	knightVal,
	bishopVal,
	rookVal,
	queenVal,
	kingVal}

var phaseWeights = [7]int{0, 0, 1, 1, 2, 4, 0}

// Immutable scoring tables. Square tables are indexed a1 == 0 from white's side; black reads them mirrored.
type ValuesT struct {
	pieceVals [7]EvalCp
	midVals   [2][7][64]int32
	endVals   [2][7][64]int32
}

// Shared by every search in the process - never mutated after init
var DefaultValues = NewValues()

func NewValues() *ValuesT {
	v := &ValuesT{pieceVals: pieceVals}

	midPosVals := [7]*[64]int8{&nothingPosVals, &pawnMidPosVals, &knightMidPosVals, &bishopMidPosVals, &rookMidPosVals, &queenMidPosVals, &kingMidPosVals}
	endPosVals := [7]*[64]int8{&nothingPosVals, &pawnEndPosVals, &knightMidPosVals, &bishopMidPosVals, &rookMidPosVals, &queenMidPosVals, &kingEndPosVals}

	for piece := dragon.Piece(dragon.Pawn); piece <= dragon.King; piece++ {
		for sq := 0; sq < 64; sq++ {
			val := int32(pieceVals[piece])

			v.midVals[White][piece][sq] = val + int32(midPosVals[piece][sq])
			v.endVals[White][piece][sq] = val + int32(endPosVals[piece][sq])

			v.midVals[Black][piece][sq] = val + int32(midPosVals[piece][sq^56])
			v.endVals[Black][piece][sq] = val + int32(endPosVals[piece][sq^56])
		}
	}

	return v
}

func (v *ValuesT) PieceVal(piece dragon.Piece) EvalCp {
	return v.pieceVals[piece]
}

func PhaseWeight(piece dragon.Piece) int {
	return phaseWeights[piece]
}

// Material plus square value of a piece for its own side
func (v *ValuesT) MidEnd(color ColorT, piece dragon.Piece, sq uint8) (mid int32, end int32) {
	return v.midVals[color][piece][sq], v.endVals[color][piece][sq]
}

func (v *ValuesT) ScoreOf(color ColorT, piece dragon.Piece, sq uint8, phase int) EvalCp {
	mid, end := v.MidEnd(color, piece, sq)
	return Taper(mid, end, phase)
}

// Interpolate between middlegame (phase == MaxPhase) and endgame (phase == 0)
func Taper(mid int32, end int32, phase int) EvalCp {
	if phase > MaxPhase {
		phase = MaxPhase
	} else if phase < 0 {
		phase = 0
	}
	return EvalCp((mid*int32(phase) + end*int32(MaxPhase-phase)) / MaxPhase)
}

var nothingPosVals = [64]int8{}

// Stolen from SunFish (tables inverted to reflect dragon pos ordering)
var pawnMidPosVals = [64]int8{
	0, 0, 0, 0, 0, 0, 0, 0,
	-31, 8, -7, -37, -36, -14, 3, -31,
	-22, 9, 5, -11, -10, -2, 3, -19,
	-26, 3, 10, 9, 6, 1, 0, -23,
	-17, 16, -2, 15, 14, 0, 15, -13,
	7, 29, 21, 44, 40, 31, 44, 7,
	78, 83, 86, 73, 102, 82, 85, 90,
	0, 0, 0, 0, 0, 0, 0, 0}

var knightMidPosVals = [64]int8{
	-74, -23, -26, -24, -19, -35, -22, -69,
	-23, -15, 2, 0, 2, 0, -23, -20,
	-18, 10, 13, 22, 18, 15, 11, -14,
	-1, 5, 31, 21, 22, 35, 2, 0,
	24, 24, 45, 37, 33, 41, 25, 17,
	10, 67, 1, 74, 73, 27, 62, -2,
	-3, -6, 100, -36, 4, 62, -4, -14,
	-66, -53, -75, -75, -10, -55, -58, -70}

var bishopMidPosVals = [64]int8{
	-7, 2, -15, -12, -14, -15, -10, -10,
	19, 20, 11, 6, 7, 6, 20, 16,
	14, 25, 24, 15, 8, 25, 20, 15,
	13, 10, 17, 23, 17, 16, 0, 7,
	25, 17, 20, 34, 26, 25, 15, 10,
	-9, 39, -32, 41, 52, -10, 28, -14,
	-11, 20, 35, -42, -39, 31, 2, -22,
	-59, -78, -82, -76, -23, -107, -37, -50}

var rookMidPosVals = [64]int8{
	-30, -24, -18, 5, -2, -18, -31, -32,
	-53, -38, -31, -26, -29, -43, -44, -53,
	-42, -28, -42, -25, -25, -35, -26, -46,
	-28, -35, -16, -21, -13, -29, -46, -30,
	0, 5, 16, 13, 18, -4, -9, -6,
	19, 35, 28, 33, 45, 27, 25, 15,
	55, 29, 56, 67, 55, 62, 34, 60,
	35, 29, 33, 4, 37, 33, 56, 50}

var queenMidPosVals = [64]int8{
	-39, -30, -31, -13, -31, -36, -34, -42,
	-36, -18, 0, -19, -15, -15, -21, -38,
	-30, -6, -13, -11, -16, -11, -16, -27,
	-14, -15, -2, -5, -1, -10, -20, -22,
	1, -16, 22, 17, 25, 20, -13, -6,
	-2, 43, 32, 60, 72, 63, 43, 2,
	14, 32, 60, -10, 20, 76, 57, 24,
	6, 1, -8, -104, 69, 24, 88, 26}

var kingMidPosVals = [64]int8{
	17, 30, -3, -14, 6, -1, 40, 18,
	-4, 3, -14, -50, -57, -18, 13, 4,
	-47, -42, -43, -79, -64, -32, -29, -32,
	-55, -43, -52, -28, -51, -47, -8, -50,
	-55, 50, 11, -4, -19, 13, 0, -49,
	-62, 12, -57, 44, -67, 28, 37, -31,
	-32, 10, 55, 56, 56, 55, 10, 3,
	4, 54, 47, -99, -99, 60, 83, -62}

// From - https://chessprogramming.wikispaces.com/Simplified+evaluation+function - (tables inverted to reflect dragon pos ordering)
var kingEndPosVals = [64]int8{
	-50, -30, -30, -30, -30, -30, -30, -50,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-50, -40, -30, -20, -20, -30, -40, -50}

// Endgame pawns are all about advancement
var pawnEndPosVals = [64]int8{
	0, 0, 0, 0, 0, 0, 0, 0,
	-5, -5, -5, -5, -5, -5, -5, -5,
	0, 0, 0, 0, 0, 0, 0, 0,
	10, 10, 10, 10, 10, 10, 10, 10,
	25, 25, 25, 25, 25, 25, 25, 25,
	45, 45, 45, 45, 45, 45, 45, 45,
	80, 80, 80, 80, 80, 80, 80, 80,
	0, 0, 0, 0, 0, 0, 0, 0}
