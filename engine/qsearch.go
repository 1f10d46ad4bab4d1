package engine

import (
	"sort"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Quiescence search - resolve captures until the position is quiet enough for the static eval to be trusted.
// Out of check we stand pat on the static eval and try captures and promotions that don't lose material by SEE.
// In check there is no standing pat: every evasion is tried.
func (s *SearchT) QSearchNegAlphaBeta(depthFromRoot int, depthFromQRoot int, alpha EvalCp, beta EvalCp) EvalCp {
	s.pv[depthFromRoot] = s.pv[depthFromRoot][:0]

	// Bail if we've timed out
	if s.isTimedOut() {
		return YourCheckMateEval
	}

	s.stats.QNodes++

	// Captures can leave bare kings
	if s.board.IsDraw() {
		return DrawEval
	}

	legalMoves := s.board.LegalMoves()
	isInCheck := s.board.InCheck()

	// Check for checkmate or stalemate
	if len(legalMoves) == 0 {
		s.stats.QMates++
		return negaMateEval(s.board, depthFromRoot)
	}

	staticEval := s.board.StaticEval()

	// Defensive cap - quiescence terminates without it
	if depthFromQRoot >= s.qsearchDepth {
		s.stats.QPrunes++
		return staticEval
	}

	s.stats.QNonLeafs++

	bestEval := YourCheckMateEval
	moves := legalMoves

	if !isInCheck {
		// Stand pat
		if staticEval >= beta {
			s.stats.QPatCuts++
			return beta
		}
		bestEval = staticEval
		if alpha < staticEval {
			alpha = staticEval
		}

		moves = moves[:0]
		for _, move := range legalMoves {
			if IsCapture(s.board, move) || move.Promote() != dragon.Nothing {
				moves = append(moves, move)
			}
		}
	}

	scores := s.seeScores(moves)
	sort.Stable(movesByScoreT{moves, scores})

	for i, move := range moves {
		// Losing captures are never worth it, and the rest are sorted behind them
		if !isInCheck && scores[i] < 0 {
			s.stats.QSeePrunes += uint64(len(moves) - i)
			break
		}

		s.board.Apply(move)
		eval := -s.QSearchNegAlphaBeta(depthFromRoot+1, depthFromQRoot+1, -beta, -alpha)
		s.board.Undo()

		// Bail cleanly if we have timed out
		if s.aborted {
			return bestEval
		}

		if eval > bestEval {
			bestEval = eval
		}
		if alpha < bestEval {
			alpha = bestEval
		}
		if alpha >= beta {
			s.stats.QCutNodes++
			return bestEval
		}
	}

	if !isInCheck && bestEval == staticEval {
		s.stats.QPats++
	}

	return bestEval
}
