// Static exchange evaluation - the material outcome of the capture sequence on one square

package engine

import (
	dragon "github.com/dylhunn/dragontoothmg"
)

// True iff the move takes a piece, including en passant
func IsCapture(board Board, move dragon.Move) bool {
	from, to := move.From(), move.To()
	if _, victim := board.PieceAt(to); victim != dragon.Nothing {
		return true
	}
	_, piece := board.PieceAt(from)
	return piece == dragon.Pawn && from%8 != to%8
}

// Net material gain for the side to move of playing the move and then both sides recapturing on
// its to-square with their least valuable attacker, either side stopping when that's better.
// Pins are ignored. A king only recaptures when the square is no longer defended.
func SEE(board Board, move dragon.Move, values *ValuesT) EvalCp {
	from, to := move.From(), move.To()
	color, mover := board.PieceAt(from)
	_, victim := board.PieceAt(to)

	bbs := [2]dragon.Bitboards{board.Bitboards(White), board.Bitboards(Black)}
	occ := bbs[White].All | bbs[Black].All

	var gain [32]int32
	gain[0] = int32(values.PieceVal(victim))

	if victim == dragon.Nothing && mover == dragon.Pawn && from%8 != to%8 {
		gain[0] = int32(values.PieceVal(dragon.Pawn))
		occ &^= uint64(SquareBb(from/8*8 + to%8))
	}

	onSquareVal := int32(values.PieceVal(mover))
	if promote := move.Promote(); promote != dragon.Nothing {
		gain[0] += int32(values.PieceVal(promote) - values.PieceVal(dragon.Pawn))
		onSquareVal = int32(values.PieceVal(promote))
	}

	occ &^= uint64(SquareBb(from))
	side := color.Other()
	promotionRank := to/8 == 0 || to/8 == 7

	d := 0
	for d < len(gain)-1 {
		d++

		// Speculative: what the side to capture makes if nothing comes back
		gain[d] = onSquareVal - gain[d-1]

		sq, piece := leastValuableAttacker(&bbs[side], side, to, occ)
		if piece == dragon.Nothing {
			break
		}
		if piece == dragon.King && attackersOf(&bbs[side.Other()], side.Other(), to, occ&^uint64(SquareBb(sq))) != 0 {
			break
		}

		onSquareVal = int32(values.PieceVal(piece))
		if piece == dragon.Pawn && promotionRank {
			gain[d] += int32(values.PieceVal(dragon.Queen) - values.PieceVal(dragon.Pawn))
			onSquareVal = int32(values.PieceVal(dragon.Queen))
		}

		// Neither standing pat nor capturing helps the side to move - the result can't change
		if max(-gain[d-1], gain[d]) < 0 {
			break
		}

		occ &^= uint64(SquareBb(sq))
		side = side.Other()
	}

	for d--; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}

	return EvalCp(gain[0])
}

// Pieces of one color attacking sq through the given occupancy
func attackersOf(bbs *dragon.Bitboards, color ColorT, sq uint8, occ uint64) uint64 {
	target := uint64(SquareBb(sq))

	var pawnSources uint64
	if color == White {
		pawnSources = BPawnAttacks(target)
	} else {
		pawnSources = WPawnAttacks(target)
	}

	diagonal := dragon.CalculateBishopMoveBitboard(sq, occ)
	straight := dragon.CalculateRookMoveBitboard(sq, occ)

	attackers := pawnSources&bbs.Pawns |
		KnightAttacks(sq)&bbs.Knights |
		KingAttacks(sq)&bbs.Kings |
		diagonal&(bbs.Bishops|bbs.Queens) |
		straight&(bbs.Rooks|bbs.Queens)

	return attackers & occ
}

func leastValuableAttacker(bbs *dragon.Bitboards, color ColorT, sq uint8, occ uint64) (uint8, dragon.Piece) {
	attackers := attackersOf(bbs, color, sq, occ)
	if attackers == 0 {
		return 0, dragon.Nothing
	}

	for piece := dragon.Piece(dragon.Pawn); piece <= dragon.King; piece++ {
		if bb := BitBoardT(attackers & pieceBitboard(bbs, piece)); !bb.Empty() {
			return bb.Lsb(), piece
		}
	}

	return 0, dragon.Nothing
}
