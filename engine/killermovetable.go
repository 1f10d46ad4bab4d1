// Extension of the 'killer-move' heuristic that maintains a set of N previously useful moves for each search depth (depth-from-root)
// I'm not sure that this is a standard approach, but it is motivated by some similar approaches in recent literature ('ADS' - adaptive data structures)

package engine

import (
	dragon "github.com/dylhunn/dragontoothmg"
)

const NKillersPerDepth = 2

const MoveNotFound = -1

type KillerMoveTableT [MaxDepth][NKillersPerDepth]dragon.Move

// Install a new killer move
func (kt *KillerMoveTableT) addKillerMove(move dragon.Move, depthFromRoot int) {
	if move == NoMove || depthFromRoot >= MaxDepth {
		return
	}

	depthKillers := &kt[depthFromRoot]

	moveIndex := 0
	for ; moveIndex < NKillersPerDepth; moveIndex++ {
		if depthKillers[moveIndex] == move {
			break
		}
	}

	// Shift up to make space for the new move at the front
	for i := min(moveIndex, NKillersPerDepth-1); 0 < i; i-- {
		depthKillers[i] = depthKillers[i-1]
	}

	// Install the new move as the new best killer
	depthKillers[0] = move
}

// Return the index of the given move in the killers list, or MoveNotFound
func (kt *KillerMoveTableT) killerMoveIndex(move dragon.Move, depthFromRoot int) int {
	if depthFromRoot >= MaxDepth {
		return MoveNotFound
	}
	depthKillers := &kt[depthFromRoot]

	for i := 0; i < NKillersPerDepth; i++ {
		if depthKillers[i] == move {
			return i
		}
	}

	return MoveNotFound
}

// Prior-success counters for quiet moves, by side, from and to square
type HistoryHeuristicT [2][64][64]uint32

const historyMax = 1 << 20

func (h *HistoryHeuristicT) reward(color ColorT, move dragon.Move, depthToGo int) {
	from, to := move.From(), move.To()
	entry := &h[color][from][to]
	*entry += uint32(depthToGo * depthToGo)

	// Age the whole table rather than let one entry saturate
	if *entry > historyMax {
		for c := range h {
			for f := range h[c] {
				for t := range h[c][f] {
					h[c][f][t] /= 2
				}
			}
		}
	}
}

func (h *HistoryHeuristicT) score(color ColorT, move dragon.Move) uint32 {
	from, to := move.From(), move.To()
	return h[color][from][to]
}
