// Bitboard utilities
// Note bit 0 (low bit) is square A1, bit 63 (hi bit) is square H8

package engine

import (
	"fmt"
	"math/bits"
)

// Set of squares
type BitBoardT uint64

const EmptyBb BitBoardT = 0

const A uint64 = 0x0101010101010101
const H uint64 = 0x8080808080808080

const Rank1 uint64 = 0x00000000000000ff
const Rank8 uint64 = 0xff00000000000000

// Single square set - sq must be on the board
func SquareBb(sq uint8) BitBoardT {
	if sq > 63 {
		panic(fmt.Sprintf("square %d off the board", sq))
	}
	return BitBoardT(1) << sq
}

func (b BitBoardT) Union(o BitBoardT) BitBoardT     { return b | o }
func (b BitBoardT) Intersect(o BitBoardT) BitBoardT { return b & o }
func (b BitBoardT) Diff(o BitBoardT) BitBoardT      { return b &^ o }
func (b BitBoardT) Xor(o BitBoardT) BitBoardT       { return b ^ o }
func (b BitBoardT) Complement() BitBoardT           { return ^b }
func (b BitBoardT) Shl(n uint) BitBoardT            { return b << n }
func (b BitBoardT) Shr(n uint) BitBoardT            { return b >> n }
func (b BitBoardT) Empty() bool                     { return b == 0 }
func (b BitBoardT) Count() int                      { return bits.OnesCount64(uint64(b)) }

func (b BitBoardT) Has(sq uint8) bool {
	return b&SquareBb(sq) != 0
}

// Lowest square in the set; 64 if empty
func (b BitBoardT) Lsb() uint8 {
	return uint8(bits.TrailingZeros64(uint64(b)))
}

// Remove and return the lowest square
func (b *BitBoardT) PopLsb() uint8 {
	sq := b.Lsb()
	*b &= *b - 1
	return sq
}

func N(bb uint64) uint64 { return bb << 8 }

func S(bb uint64) uint64 { return bb >> 8 }

func W(bb uint64) uint64 { return (bb & ^A) >> 1 }

func E(bb uint64) uint64 { return (bb & ^H) << 1 }

func NFill(bb uint64) uint64 {
	fill := bb
	fill = fill | (fill << 8)
	fill = fill | (fill << 16)
	fill = fill | (fill << 32)
	return fill
}

func SFill(bb uint64) uint64 {
	fill := bb
	fill = fill | (fill >> 8)
	fill = fill | (fill >> 16)
	fill = fill | (fill >> 32)
	return fill
}

// Pawn attacks and defenses
func WPawnAttacks(wPawns uint64) uint64 {
	n := N(wPawns)
	return W(n) | E(n)
}

// Pawn attacks and defenses
func BPawnAttacks(bPawns uint64) uint64 {
	s := S(bPawns)
	return W(s) | E(s)
}

var knightAttacks [64]uint64
var kingAttacks [64]uint64

func init() {
	for sq := 0; sq < 64; sq++ {
		bb := uint64(1) << uint(sq)

		kingAttacks[sq] = N(bb) | S(bb) | E(bb) | W(bb) | N(E(bb)) | N(W(bb)) | S(E(bb)) | S(W(bb))

		knightAttacks[sq] = N(N(E(bb))) | N(N(W(bb))) | S(S(E(bb))) | S(S(W(bb))) |
			E(E(N(bb))) | E(E(S(bb))) | W(W(N(bb))) | W(W(S(bb)))
	}
}

func KnightAttacks(sq uint8) uint64 { return knightAttacks[sq] }

func KingAttacks(sq uint8) uint64 { return kingAttacks[sq] }
