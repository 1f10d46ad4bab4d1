package engine

import (
	"fmt"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Board that keeps its own static evaluation up to date across Apply/Undo
type EvalBoard interface {
	Board
	// From the perspective of the side to move
	StaticEval() EvalCp
	Values() *ValuesT
	// True iff the incremental state matches a from-scratch recompute
	Verify() bool
}

// White-relative middlegame and endgame sums, and the phase counter
type evalStateT struct {
	mid   int32
	end   int32
	phase int
}

type EvalBoardT struct {
	Board
	values *ValuesT
	state  evalStateT
	saved  []evalStateT
}

func NewEvalBoard(board Board, values *ValuesT) *EvalBoardT {
	if values == nil {
		values = DefaultValues
	}
	eb := &EvalBoardT{Board: board, values: values}
	eb.state = eb.recompute()
	return eb
}

func (eb *EvalBoardT) Values() *ValuesT {
	return eb.values
}

func (eb *EvalBoardT) StaticEval() EvalCp {
	eval := Taper(eb.state.mid, eb.state.end, eb.state.phase)
	if eb.WhiteToMove() {
		return eval
	}
	return -eval
}

// Game phase in [0, MaxPhase]
func (eb *EvalBoardT) Phase() int {
	return min(eb.state.phase, MaxPhase)
}

func (eb *EvalBoardT) Verify() bool {
	return eb.state == eb.recompute()
}

func (eb *EvalBoardT) Apply(move dragon.Move) {
	from, to := move.From(), move.To()
	color, piece := eb.PieceAt(from)
	_, victim := eb.PieceAt(to)
	other := color.Other()

	eb.saved = append(eb.saved, eb.state)

	eb.remove(color, piece, from)

	if promote := move.Promote(); promote != dragon.Nothing {
		eb.place(color, promote, to)
		eb.state.phase += PhaseWeight(promote)
	} else {
		eb.place(color, piece, to)
	}

	if victim != dragon.Nothing {
		eb.remove(other, victim, to)
		eb.state.phase -= PhaseWeight(victim)
	} else if piece == dragon.Pawn && from%8 != to%8 {
		// En passant - the victim sits beside the from square on the to file
		eb.remove(other, dragon.Pawn, from/8*8+to%8)
	}

	if piece == dragon.King && (int(to)-int(from) == 2 || int(from)-int(to) == 2) {
		rank := from / 8 * 8
		if to%8 == 6 {
			eb.remove(color, dragon.Rook, rank+7)
			eb.place(color, dragon.Rook, rank+5)
		} else {
			eb.remove(color, dragon.Rook, rank)
			eb.place(color, dragon.Rook, rank+3)
		}
	}

	eb.Board.Apply(move)

	if DebugChecks && !eb.Verify() {
		panic(fmt.Sprintf("engine: eval drift after %s: incremental %+v, recomputed %+v, fen %s", &move, eb.state, eb.recompute(), eb.Fen()))
	}
}

func (eb *EvalBoardT) Undo() {
	eb.Board.Undo()

	n := len(eb.saved)
	eb.state = eb.saved[n-1]
	eb.saved = eb.saved[:n-1]

	if DebugChecks && !eb.Verify() {
		panic(fmt.Sprintf("engine: eval drift after undo: incremental %+v, recomputed %+v, fen %s", eb.state, eb.recompute(), eb.Fen()))
	}
}

func (eb *EvalBoardT) place(color ColorT, piece dragon.Piece, sq uint8) {
	mid, end := eb.values.MidEnd(color, piece, sq)
	if color == White {
		eb.state.mid += mid
		eb.state.end += end
	} else {
		eb.state.mid -= mid
		eb.state.end -= end
	}
}

func (eb *EvalBoardT) remove(color ColorT, piece dragon.Piece, sq uint8) {
	mid, end := eb.values.MidEnd(color, piece, sq)
	if color == White {
		eb.state.mid -= mid
		eb.state.end -= end
	} else {
		eb.state.mid += mid
		eb.state.end += end
	}
}

func (eb *EvalBoardT) recompute() evalStateT {
	var state evalStateT

	for _, color := range [2]ColorT{White, Black} {
		bbs := eb.Bitboards(color)
		for piece := dragon.Piece(dragon.Pawn); piece <= dragon.King; piece++ {
			for bb := BitBoardT(pieceBitboard(&bbs, piece)); !bb.Empty(); {
				sq := bb.PopLsb()
				mid, end := eb.values.MidEnd(color, piece, sq)
				if color == White {
					state.mid += mid
					state.end += end
				} else {
					state.mid -= mid
					state.end -= end
				}
				state.phase += PhaseWeight(piece)
			}
		}
	}

	return state
}

func pieceBitboard(bbs *dragon.Bitboards, piece dragon.Piece) uint64 {
	switch piece {
	case dragon.Pawn:
		return bbs.Pawns
	case dragon.Knight:
		return bbs.Knights
	case dragon.Bishop:
		return bbs.Bishops
	case dragon.Rook:
		return bbs.Rooks
	case dragon.Queen:
		return bbs.Queens
	case dragon.King:
		return bbs.Kings
	}
	return 0
}
