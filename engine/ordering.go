package engine

import (
	"sort"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Move ordering bands, highest first. Captures are offset by their SEE, quiet moves by their history count.
const (
	ttMoveOrder  int32 = 1 << 30
	pvMoveOrder  int32 = 1 << 29
	captureOrder int32 = 1 << 24
	killerOrder  int32 = 1 << 22
)

type movesByScoreT struct {
	moves  []dragon.Move
	scores []int32
}

func (m movesByScoreT) Len() int           { return len(m.moves) }
func (m movesByScoreT) Less(i, j int) bool { return m.scores[i] > m.scores[j] }
func (m movesByScoreT) Swap(i, j int) {
	m.moves[i], m.moves[j] = m.moves[j], m.moves[i]
	m.scores[i], m.scores[j] = m.scores[j], m.scores[i]
}

// Table move, then the previous iteration's PV move, then captures and promotions by SEE, then killers, then the rest by history.
func (s *SearchT) orderMoves(moves []dragon.Move, depthFromRoot int, ttMove dragon.Move, pvMove dragon.Move) {
	if !UseMoveOrdering || len(moves) < 2 {
		return
	}

	color := colorToMove(s.board)
	scores := make([]int32, len(moves))
	killerSeen := false

	for i, move := range moves {
		switch {
		case move == ttMove:
			scores[i] = ttMoveOrder
		case move == pvMove:
			scores[i] = pvMoveOrder
		case IsCapture(s.board, move) || move.Promote() != dragon.Nothing:
			scores[i] = captureOrder + int32(SEE(s.board, move, s.values))
		default:
			if UseKillerMoves {
				if k := s.killers.killerMoveIndex(move, depthFromRoot); k != MoveNotFound {
					scores[i] = killerOrder - int32(k)
					killerSeen = true
					continue
				}
			}
			if UseHistoryHeuristic {
				scores[i] = int32(s.history.score(color, move))
			}
		}
	}

	if killerSeen {
		s.stats.Killers++
	}

	sort.Stable(movesByScoreT{moves, scores})
}

func (s *SearchT) seeScores(moves []dragon.Move) []int32 {
	scores := make([]int32, len(moves))
	for i, move := range moves {
		if IsCapture(s.board, move) || move.Promote() != dragon.Nothing {
			scores[i] = int32(SEE(s.board, move, s.values))
		}
	}
	return scores
}
