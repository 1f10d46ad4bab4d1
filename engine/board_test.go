package engine

import (
	"errors"
	"testing"

	dragon "github.com/dylhunn/dragontoothmg"
)

func TestNewBoardRejectsBadFen(t *testing.T) {
	fens := []string{
		"",
		"garbage",
		"rnbqkbnr/pppppppp/8/8 w KQkq - 0 1",
		"8/8/8/8/8/8/8/8 w - - 0 1",
		"4k3/8/8/8/8/8/8/8 w - - 0 1",
	}

	for _, fen := range fens {
		board, err := NewBoard(fen)
		if !errors.Is(err, ErrBadFen) {
			t.Errorf("NewBoard(%q) error is %v expected ErrBadFen", fen, err)
		}
		if board != nil {
			t.Errorf("NewBoard(%q) returned a board with an error", fen)
		}
	}
}

func TestTerminal(t *testing.T) {
	tests := []struct {
		fen      string
		expected TerminalT
	}{
		{dragon.Startpos, NotTerminal},
		{whiteInCheckmate, Checkmate},
		{whiteInStalemate, Stalemate},
		{blackInCheckmate, Checkmate},
		{blackInStalemate, Stalemate},
		// Lone knight can't mate
		{"8/8/4k3/8/8/3NK3/8/8 w - - 0 1", Draw},
		// Bare kings
		{"8/8/4k3/8/8/4K3/8/8 b - - 0 1", Draw},
		// Two knights is not a dead position by our rules
		{"8/8/4k3/8/8/2NNK3/8/8 w - - 0 1", NotTerminal},
		{"4k3/8/8/8/8/8/8/R3K3 w - - 99 80", NotTerminal},
		{"4k3/8/8/8/8/8/8/R3K3 w - - 100 80", Draw},
	}

	for _, test := range tests {
		board := mustBoard(t, test.fen)
		if got := board.Terminal(); got != test.expected {
			t.Errorf("Terminal(%s) is %v expected %v", test.fen, got, test.expected)
		}
	}
}

func TestInCheck(t *testing.T) {
	if !mustBoard(t, whiteInCheckmate).InCheck() {
		t.Errorf("white should be in check in %s", whiteInCheckmate)
	}
	if mustBoard(t, whiteInStalemate).InCheck() {
		t.Errorf("white should not be in check in %s", whiteInStalemate)
	}
}

func TestRepetitions(t *testing.T) {
	board := NewStartBoard()
	if board.Repetitions() != 1 {
		t.Fatalf("start position repetitions is %d expected 1", board.Repetitions())
	}

	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for i := 0; i < 2; i++ {
		for _, uci := range shuffle {
			board.Apply(mustMove(t, board, uci))
		}
		if got := board.Repetitions(); got != i+2 {
			t.Errorf("after %d knight shuffles repetitions is %d expected %d", i+1, got, i+2)
		}
	}

	if board.Terminal() != Draw {
		t.Errorf("threefold repetition should be a draw")
	}

	board.Undo()
	if board.IsDraw() {
		t.Errorf("undo should take back the third repetition")
	}
}

func TestApplyUndo(t *testing.T) {
	board := mustBoard(t, kiwipete)
	fen, key := board.Fen(), board.Key()

	for _, move := range board.LegalMoves() {
		board.Apply(move)
		if board.Ply() != 1 {
			t.Errorf("ply after %s is %d expected 1", &move, board.Ply())
		}
		if board.WhiteToMove() {
			t.Errorf("white still to move after %s", &move)
		}
		board.Undo()

		if board.Fen() != fen || board.Key() != key {
			t.Fatalf("undo of %s gives %s expected %s", &move, board.Fen(), fen)
		}
	}
}

func TestUndoWithNothingApplied(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Undo on a fresh board should panic")
		}
	}()
	NewStartBoard().Undo()
}

func TestPieceAt(t *testing.T) {
	board := NewStartBoard()

	tests := []struct {
		sq    uint8
		color ColorT
		piece dragon.Piece
	}{
		{4, White, dragon.King},   // e1
		{59, Black, dragon.Queen}, // d8
		{1, White, dragon.Knight}, // b1
		{52, Black, dragon.Pawn},  // e7
		{28, White, dragon.Nothing},
	}

	for _, test := range tests {
		color, piece := board.PieceAt(test.sq)
		if piece != test.piece || (piece != dragon.Nothing && color != test.color) {
			t.Errorf("PieceAt(%d) is %v %v expected %v %v", test.sq, color, piece, test.color, test.piece)
		}
	}
}

func TestClone(t *testing.T) {
	board := NewStartBoard()
	board.Apply(mustMove(t, board, "e2e4"))

	clone := board.Clone()
	clone.Apply(mustMove(t, clone, "e7e5"))

	if board.WhiteToMove() {
		t.Errorf("applying to the clone changed the original")
	}
	if clone.Ply() != 2 {
		t.Errorf("clone ply is %d expected 2", clone.Ply())
	}
	if clone.Repetitions() != 1 {
		t.Errorf("clone repetitions is %d expected 1", clone.Repetitions())
	}
}
