package engine

import (
	dragon "github.com/dylhunn/dragontoothmg"
)

// Bail if we've timed out - never during the mandatory first iteration
func (s *SearchT) isTimedOut() bool {
	if s.mustComplete {
		return false
	}
	if !s.aborted && s.term.triggered() {
		s.aborted = true
	}
	return s.aborted
}

func (s *SearchT) probeTT(depthToGo int, depthFromRoot int, alpha EvalCp, beta EvalCp) (dragon.Move, EvalCp, bool) {
	if s.table == nil {
		return NoMove, YourCheckMateEval, false
	}

	ttEntry, isTTHit := s.table.Probe(s.board.Key())
	if !isTTHit {
		return NoMove, YourCheckMateEval, false
	}
	s.stats.TTHits++

	ttMove := ttEntry.BestMove

	// Never cut at the root - we need a move
	if depthFromRoot == 0 || int(ttEntry.DepthToGo) < depthToGo {
		return ttMove, YourCheckMateEval, false
	}
	s.stats.TTDepthHits++

	ttEval := evalFromTT(ttEntry.Eval, depthFromRoot)

	switch ttEntry.EvalType {
	case TTEvalExact:
		s.stats.TTTrueEvals++
		return ttMove, ttEval, true
	case TTEvalLowerBound:
		if beta <= ttEval {
			s.stats.TTBetaCuts++
			return ttMove, ttEval, true
		}
	case TTEvalUpperBound:
		if ttEval <= alpha {
			s.stats.TTAlphaCuts++
			return ttMove, ttEval, true
		}
	default:
		if DebugChecks {
			panic("engine: TT hit with invalid eval type")
		}
	}

	return ttMove, YourCheckMateEval, false
}

func (s *SearchT) updateTt(depthToGo int, depthFromRoot int, origAlpha EvalCp, origBeta EvalCp, bestEval EvalCp, bestMove dragon.Move) {
	if s.table == nil {
		return
	}

	evalType := TTEvalExact
	if origBeta <= bestEval {
		evalType = TTEvalLowerBound
	} else if bestEval <= origAlpha {
		evalType = TTEvalUpperBound
	}

	s.table.Store(s.board.Key(), bestMove, evalToTT(bestEval, depthFromRoot), depthToGo, evalType)
}

// Return the best eval attainable through alpha-beta from the given position, along with the best move.
// Fail-soft: the eval may lie outside [alpha, beta]. The principal variation from this node is left in s.pv[depthFromRoot].
// onPv is true iff every move from the root to here follows the previous iteration's principal variation.
func (s *SearchT) NegAlphaBeta(depthToGo int, depthFromRoot int, alpha EvalCp, beta EvalCp, onPv bool) (dragon.Move, EvalCp) {
	s.pv[depthFromRoot] = s.pv[depthFromRoot][:0]

	// Bail if we've timed out
	if s.isTimedOut() {
		// Return the worst possible eval (opponent checkmate) to invalidate this incomplete search branch
		return NoMove, YourCheckMateEval
	}

	s.stats.Nodes++

	// Quiescence search
	if depthToGo <= 0 {
		return NoMove, s.QSearchNegAlphaBeta(depthFromRoot, 0, alpha, beta)
	}

	s.stats.NonLeafs++
	if depthFromRoot < MaxDepthStats {
		s.stats.NonLeafsAt[depthFromRoot]++
	}

	if depthFromRoot > 0 {
		if s.board.IsDraw() {
			return NoMove, DrawEval
		}
		// We consider 2-fold repetition to be a draw, since if a repeat can be forced then it can be forced again.
		// This reduces the search tree a bit and is common practice in chess engines.
		if UsePosRepetition && s.board.Repetitions() > 1 {
			s.stats.PosRepetitions++
			return NoMove, DrawEval
		}
	}

	// Remember this to check whether our final eval is a lower or upper bound - for TT
	origBeta := beta
	origAlpha := alpha

	// Probe the Transposition Table
	ttMove, ttEval, ttIsCut := s.probeTT(depthToGo, depthFromRoot, alpha, beta)
	if ttIsCut {
		if ttMove != NoMove {
			s.pv[depthFromRoot] = append(s.pv[depthFromRoot], ttMove)
		}
		return ttMove, ttEval
	}

	// Generate all legal moves
	legalMoves := s.board.LegalMoves()

	// Check for checkmate or stalemate
	if len(legalMoves) == 0 {
		s.stats.Mates++
		return NoMove, negaMateEval(s.board, depthFromRoot)
	}

	pvMove := NoMove
	if onPv && UseIDMoveHint && depthFromRoot < len(s.pvHint) {
		pvMove = s.pvHint[depthFromRoot]
	}

	// Sort the moves heuristically
	s.orderMoves(legalMoves, depthFromRoot, ttMove, pvMove)

	// Maximise eval with beta cut-off
	bestMove := NoMove
	bestEval := YourCheckMateEval
	color := colorToMove(s.board)

	for i, move := range legalMoves {
		s.board.Apply(move)
		_, eval := s.NegAlphaBeta(depthToGo-1, depthFromRoot+1, -beta, -alpha, onPv && move == pvMove)
		eval = -eval // back to our perspective
		s.board.Undo()

		// Bail cleanly without polluting search results if we have timed out
		if s.aborted {
			return bestMove, bestEval
		}

		// Maximise our eval.
		// Note - this MUST be strictly > because we fail-soft AT the current best eval - beware!
		if eval > bestEval {
			bestEval, bestMove = eval, move
		}

		if alpha < bestEval {
			alpha = bestEval
			// Update the PV line
			s.pv[depthFromRoot] = append(append(s.pv[depthFromRoot][:0], move), s.pv[depthFromRoot+1]...)
		}

		if alpha >= beta {
			// beta cut-off
			s.stats.CutNodes++
			if i == 0 {
				s.stats.FirstChildCuts++
			}
			if move == ttMove {
				s.stats.TTMoveCuts++
			}
			if !IsCapture(s.board, move) && move.Promote() == dragon.Nothing {
				if UseKillerMoves {
					if s.killers.killerMoveIndex(move, depthFromRoot) != MoveNotFound {
						s.stats.KillerCuts++
					}
					s.killers.addKillerMove(move, depthFromRoot)
				}
				if UseHistoryHeuristic {
					s.history.reward(color, move, depthToGo)
				}
			}
			break
		}
	}

	// If we didn't get a beta cut-off then we visited all children.
	if bestEval < origBeta {
		s.stats.AllChildrenNodes++
	}

	s.updateTt(depthToGo, depthFromRoot, origAlpha, origBeta, bestEval, bestMove)

	return bestMove, bestEval
}

// Return the eval for stalemate or checkmate from curent mover's perspective
// Only valid if there are no legal moves.
func negaMateEval(board Board, depthFromRoot int) EvalCp {
	if board.InCheck() {
		// checkmate - closer to root is better
		return YourCheckMateEval + EvalCp(depthFromRoot)
	}
	// stalemate
	return DrawEval
}
