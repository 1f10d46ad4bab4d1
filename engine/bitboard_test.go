package engine

import (
	"testing"
)

func testResult(t *testing.T, s string, val uint64, expected uint64) {
	t.Helper()
	if val != expected {
		t.Errorf(s, val, expected)
	}
}

func TestBitboard(t *testing.T) {
	// Lose H file when going E
	testResult(t, "E(0x8000008080800000) is 0x%016x expected 0x%016x\n", E(0x8000008080800000), 0)
	// Lose A file when going W
	testResult(t, "W(0x0100000101010000) is 0x%016x expected 0x%016x\n", W(0x0100000101010000), 0)
	// Non-H files move E
	testResult(t, "E(0x8040201008040201) is 0x%016x expected 0x%016x\n", E(0x8040201008040201), 0x0080402010080402)
	// Non-A files move W
	testResult(t, "W(0x8040201008040201) is 0x%016x expected 0x%016x\n", W(0x8040201008040201), 0x4020100804020100)

	testResult(t, "N(0x8040201008040201) is 0x%016x expected 0x%016x\n", N(0x8040201008040201), 0x4020100804020100)
	testResult(t, "S(0x8040201008040201) is 0x%016x expected 0x%016x\n", S(0x8040201008040201), 0x0080402010080402)

	testResult(t, "NFill(0x0000000000000100) is 0x%016x expected 0x%016x\n", NFill(0x0000000000000100), 0x0101010101010100)
	testResult(t, "SFill(0x0080000000000000) is 0x%016x expected 0x%016x\n", SFill(0x0080000000000000), 0x0080808080808080)

	// e2 pawn attacks d3 and f3; a-file pawn only attacks b-file
	testResult(t, "WPawnAttacks(e2) is 0x%016x expected 0x%016x\n", WPawnAttacks(1<<12), (1<<19)|(1<<21))
	testResult(t, "WPawnAttacks(a2) is 0x%016x expected 0x%016x\n", WPawnAttacks(1<<8), 1<<17)
	testResult(t, "BPawnAttacks(e7) is 0x%016x expected 0x%016x\n", BPawnAttacks(1<<52), (1<<43)|(1<<45))
}

func TestAttackTables(t *testing.T) {
	// a1 knight: b3, c2
	testResult(t, "KnightAttacks(a1) is 0x%016x expected 0x%016x\n", KnightAttacks(0), (1<<17)|(1<<10))
	// h8 knight: g6, f7
	testResult(t, "KnightAttacks(h8) is 0x%016x expected 0x%016x\n", KnightAttacks(63), (1<<46)|(1<<53))
	// a1 king: a2, b1, b2
	testResult(t, "KingAttacks(a1) is 0x%016x expected 0x%016x\n", KingAttacks(0), (1<<8)|(1<<1)|(1<<9))

	if n := BitBoardT(KnightAttacks(27)).Count(); n != 8 {
		t.Errorf("knight on d4 attacks %d squares, expected 8", n)
	}
	if n := BitBoardT(KingAttacks(27)).Count(); n != 8 {
		t.Errorf("king on d4 attacks %d squares, expected 8", n)
	}
}

func TestBitBoardOps(t *testing.T) {
	bb := SquareBb(0).Union(SquareBb(9)).Union(SquareBb(63))

	if !bb.Has(9) || bb.Has(10) {
		t.Errorf("Has is wrong for 0x%016x", uint64(bb))
	}
	if bb.Count() != 3 {
		t.Errorf("Count is %d expected 3", bb.Count())
	}
	if got := bb.Diff(SquareBb(9)); got.Has(9) || got.Count() != 2 {
		t.Errorf("Diff left 0x%016x", uint64(got))
	}
	if got := bb.Intersect(SquareBb(63)); got != SquareBb(63) {
		t.Errorf("Intersect is 0x%016x", uint64(got))
	}
	if got := bb.Xor(bb); !got.Empty() {
		t.Errorf("Xor with self is 0x%016x", uint64(got))
	}
	if got := EmptyBb.Complement(); got.Count() != 64 {
		t.Errorf("Complement of empty has %d squares", got.Count())
	}
	if got := SquareBb(0).Shl(8).Shr(1); got != 0x80 {
		t.Errorf("Shl/Shr gave 0x%016x", uint64(got))
	}

	var squares []uint8
	for b := bb; !b.Empty(); {
		squares = append(squares, b.PopLsb())
	}
	if len(squares) != 3 || squares[0] != 0 || squares[1] != 9 || squares[2] != 63 {
		t.Errorf("PopLsb order is %v", squares)
	}
}

func TestSquareBbOffBoard(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("SquareBb(64) should panic")
		}
	}()
	SquareBb(64)
}
