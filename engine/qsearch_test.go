package engine

import (
	"testing"
	"time"
)

func newTestSearch(board EvalBoard) *SearchT {
	return &SearchT{
		board:        board,
		values:       board.Values(),
		term:         Depth(1).arm(time.Now()),
		qsearchDepth: QSearchDepth,
	}
}

func TestQSearchQuietPosition(t *testing.T) {
	board := mustEvalBoard(t, "4k3/8/8/8/8/8/8/3RK3 w - - 0 1")
	s := newTestSearch(board)

	if got := s.QSearchNegAlphaBeta(0, 0, YourCheckMateEval, MyCheckMateEval); got != board.StaticEval() {
		t.Errorf("quiet position q-search is %d expected the static eval %d", got, board.StaticEval())
	}
}

func TestQSearchTakesHangingQueen(t *testing.T) {
	board := mustEvalBoard(t, hangingQueen)
	s := newTestSearch(board)

	got := s.QSearchNegAlphaBeta(0, 0, YourCheckMateEval, MyCheckMateEval)
	if got < board.StaticEval()+500 {
		t.Errorf("q-search is %d, static eval %d - queen not taken", got, board.StaticEval())
	}
	if !board.Verify() || board.Fen() != hangingQueen {
		t.Errorf("board not restored")
	}
}

func TestQSearchStandPat(t *testing.T) {
	board := mustEvalBoard(t, hangingQueen)
	s := newTestSearch(board)
	beta := board.StaticEval() - 1

	if got := s.QSearchNegAlphaBeta(0, 0, beta-100, beta); got != beta {
		t.Errorf("stand pat cut returned %d expected beta %d", got, beta)
	}
}

func TestQSearchSkipsLosingCaptures(t *testing.T) {
	// Qxd5 loses the queen to cxd5
	board := mustEvalBoard(t, "4k3/8/2p5/3p4/8/8/8/3QK3 w - - 0 1")
	s := newTestSearch(board)

	if got := s.QSearchNegAlphaBeta(0, 0, YourCheckMateEval, MyCheckMateEval); got != board.StaticEval() {
		t.Errorf("q-search is %d expected the static eval %d", got, board.StaticEval())
	}
	if s.stats.QSeePrunes == 0 {
		t.Errorf("losing capture was not pruned")
	}
}

func TestQSearchMate(t *testing.T) {
	board := mustEvalBoard(t, whiteInCheckmate)
	s := newTestSearch(board)

	if got := s.QSearchNegAlphaBeta(2, 0, YourCheckMateEval, MyCheckMateEval); got != YourCheckMateEval+2 {
		t.Errorf("mated q-search is %d expected %d", got, YourCheckMateEval+2)
	}
}

func TestOrderMoves(t *testing.T) {
	board := mustEvalBoard(t, hangingQueen)
	s := newTestSearch(board)

	ttMove := mustMove(t, board, "e1f1")
	capture := mustMove(t, board, "d1d5")

	moves := board.LegalMoves()
	s.orderMoves(moves, 0, ttMove, NoMove)
	if moves[0] != ttMove || moves[1] != capture {
		t.Errorf("ordered moves start %s %s expected e1f1 d1d5", &moves[0], &moves[1])
	}

	killer := mustMove(t, board, "d1d4")
	s.killers.addKillerMove(killer, 0)
	moves = board.LegalMoves()
	s.orderMoves(moves, 0, NoMove, NoMove)
	if moves[0] != capture || moves[1] != killer {
		t.Errorf("ordered moves start %s %s expected d1d5 d1d4", &moves[0], &moves[1])
	}
}
