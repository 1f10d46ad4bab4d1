package engine

import (
	"testing"

	dragon "github.com/dylhunn/dragontoothmg"
	"lukechampine.com/frand"
)

func TestValuesMirror(t *testing.T) {
	v := DefaultValues
	for piece := dragon.Piece(dragon.Pawn); piece <= dragon.King; piece++ {
		for sq := uint8(0); sq < 64; sq++ {
			wMid, wEnd := v.MidEnd(White, piece, sq)
			bMid, bEnd := v.MidEnd(Black, piece, sq^56)
			if wMid != bMid || wEnd != bEnd {
				t.Errorf("piece %d square %d: white (%d, %d) black mirror (%d, %d)", piece, sq, wMid, wEnd, bMid, bEnd)
			}
		}
	}
}

func TestTaper(t *testing.T) {
	tests := []struct {
		mid, end int32
		phase    int
		expected EvalCp
	}{
		{100, 200, MaxPhase, 100},
		{100, 200, 0, 200},
		{100, 200, MaxPhase / 2, 150},
		// Promotions can push the phase past the maximum
		{100, 200, MaxPhase + 4, 100},
		{100, 200, -1, 200},
	}

	for _, test := range tests {
		if got := Taper(test.mid, test.end, test.phase); got != test.expected {
			t.Errorf("Taper(%d, %d, %d) is %d expected %d", test.mid, test.end, test.phase, got, test.expected)
		}
	}
}

func TestStartPositionEval(t *testing.T) {
	eb := NewEvalBoard(NewStartBoard(), nil)

	if eb.StaticEval() != 0 {
		t.Errorf("start position eval is %d expected 0", eb.StaticEval())
	}
	if eb.Phase() != MaxPhase {
		t.Errorf("start position phase is %d expected %d", eb.Phase(), MaxPhase)
	}
	if eb.Values() != DefaultValues {
		t.Errorf("nil values should default")
	}
}

func TestEvalIsSideToMoveRelative(t *testing.T) {
	white := mustEvalBoard(t, hangingQueen)
	black := mustEvalBoard(t, "4k3/8/8/3q4/8/8/8/3RK3 b - - 0 1")

	if white.StaticEval() >= 0 {
		t.Errorf("white a queen for a rook down should be losing, eval %d", white.StaticEval())
	}
	if black.StaticEval() != -white.StaticEval() {
		t.Errorf("black eval %d expected %d", black.StaticEval(), -white.StaticEval())
	}
}

func TestIncrementalEvalSpecialMoves(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		uci  string
	}{
		{"promotion", "8/P6k/8/8/8/8/8/K7 w - - 0 1", "a7a8q"},
		{"under-promotion", "8/P6k/8/8/8/8/8/K7 w - - 0 1", "a7a8n"},
		{"capture promotion", "1r5k/P7/8/8/8/8/8/K7 w - - 0 1", "a7b8q"},
		{"en passant", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5d6"},
		{"king side castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1"},
		{"queen side castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1"},
		{"black king side castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8g8"},
		{"black queen side castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8"},
		{"capture", hangingQueen, "d1d5"},
	}

	for _, test := range tests {
		eb := mustEvalBoard(t, test.fen)
		before := eb.StaticEval()

		eb.Apply(mustMove(t, eb, test.uci))
		if !eb.Verify() {
			t.Errorf("%s: incremental eval drifted after %s", test.name, test.uci)
		}
		fresh := mustEvalBoard(t, eb.Fen())
		if eb.StaticEval() != fresh.StaticEval() {
			t.Errorf("%s: eval after %s is %d, fresh board gives %d", test.name, test.uci, eb.StaticEval(), fresh.StaticEval())
		}

		eb.Undo()
		if eb.StaticEval() != before || !eb.Verify() {
			t.Errorf("%s: undo of %s gives eval %d expected %d", test.name, test.uci, eb.StaticEval(), before)
		}
	}
}

func TestIncrementalEvalRandomWalks(t *testing.T) {
	for walk := 0; walk < 20; walk++ {
		eb := NewEvalBoard(NewStartBoard(), nil)
		start, startFen := eb.StaticEval(), eb.Fen()

		applied := 0
		for ; applied < 120; applied++ {
			moves := eb.LegalMoves()
			if len(moves) == 0 {
				break
			}
			eb.Apply(moves[frand.Intn(len(moves))])

			if !eb.Verify() {
				t.Fatalf("walk %d: eval drifted at %s", walk, eb.Fen())
			}
		}

		for ; applied > 0; applied-- {
			eb.Undo()
		}
		if eb.StaticEval() != start || eb.Fen() != startFen {
			t.Errorf("walk %d: unwinding gives %s eval %d", walk, eb.Fen(), eb.StaticEval())
		}
	}
}
