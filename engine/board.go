package engine

import (
	"fmt"
	"strings"

	dragon "github.com/dylhunn/dragontoothmg"
)

type ColorT uint8

const (
	White ColorT = iota
	Black
)

func (c ColorT) Other() ColorT { return c ^ 1 }

func (c ColorT) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

type TerminalT uint8

const (
	NotTerminal TerminalT = iota
	Checkmate
	Stalemate
	Draw
)

func (t TerminalT) String() string {
	switch t {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Draw:
		return "draw"
	default:
		return "not-terminal"
	}
}

// Position with make/unmake, legal move generation and terminal detection.
// Moves passed to Apply must come from LegalMoves of the same position.
type Board interface {
	Apply(move dragon.Move)
	Undo()
	LegalMoves() []dragon.Move
	Terminal() TerminalT
	IsDraw() bool
	Repetitions() int
	Key() uint64
	WhiteToMove() bool
	InCheck() bool
	PieceAt(sq uint8) (ColorT, dragon.Piece)
	Bitboards(color ColorT) dragon.Bitboards
	Ply() int
	Fen() string
}

// Board over dragontoothmg
type DragonBoardT struct {
	board   dragon.Board
	unapply []func()
	history HistoryTableT
	ply     int
}

func NewStartBoard() *DragonBoardT {
	board, _ := NewBoard(dragon.Startpos)
	return board
}

func NewBoard(fen string) (board *DragonBoardT, err error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || strings.Count(fields[0], "/") != 7 {
		return nil, fmt.Errorf("%w: %q", ErrBadFen, fen)
	}

	// dragontoothmg panics on garbage piece placement
	defer func() {
		if r := recover(); r != nil {
			board, err = nil, fmt.Errorf("%w: %q: %v", ErrBadFen, fen, r)
		}
	}()

	board = &DragonBoardT{board: dragon.ParseFen(fen), history: HistoryTableT{}}
	if board.board.White.Kings == 0 || board.board.Black.Kings == 0 {
		return nil, fmt.Errorf("%w: %q: missing king", ErrBadFen, fen)
	}
	board.history.Add(board.board.Hash())

	return board, nil
}

// Independent copy of the current position and its repetition history. The copy cannot undo past its start.
func (b *DragonBoardT) Clone() *DragonBoardT {
	return &DragonBoardT{board: b.board, history: b.history.Clone(), ply: b.ply}
}

func (b *DragonBoardT) Apply(move dragon.Move) {
	b.unapply = append(b.unapply, b.board.Apply(move))
	b.history.Add(b.board.Hash())
	b.ply++
}

func (b *DragonBoardT) Undo() {
	n := len(b.unapply)
	if n == 0 {
		panic("engine: undo with no move applied")
	}
	b.history.Remove(b.board.Hash())
	b.unapply[n-1]()
	b.unapply = b.unapply[:n-1]
	b.ply--
}

func (b *DragonBoardT) LegalMoves() []dragon.Move {
	return b.board.GenerateLegalMoves()
}

func (b *DragonBoardT) Terminal() TerminalT {
	if len(b.board.GenerateLegalMoves()) == 0 {
		if b.board.OurKingInCheck() {
			return Checkmate
		}
		return Stalemate
	}
	if b.IsDraw() {
		return Draw
	}
	return NotTerminal
}

// Threefold repetition, 50-move rule or insufficient material
func (b *DragonBoardT) IsDraw() bool {
	return b.board.Halfmoveclock >= 100 || b.Repetitions() >= 3 || b.insufficientMaterial()
}

// Bare kings, or a single minor piece on the board
func (b *DragonBoardT) insufficientMaterial() bool {
	w, bl := &b.board.White, &b.board.Black
	if w.Pawns|bl.Pawns|w.Rooks|bl.Rooks|w.Queens|bl.Queens != 0 {
		return false
	}
	return BitBoardT(w.Knights|w.Bishops|bl.Knights|bl.Bishops).Count() <= 1
}

func (b *DragonBoardT) Repetitions() int {
	return b.history.Count(b.board.Hash())
}

func (b *DragonBoardT) Key() uint64 {
	return b.board.Hash()
}

func (b *DragonBoardT) WhiteToMove() bool {
	return b.board.Wtomove
}

func (b *DragonBoardT) InCheck() bool {
	return b.board.OurKingInCheck()
}

func (b *DragonBoardT) PieceAt(sq uint8) (ColorT, dragon.Piece) {
	bb := uint64(SquareBb(sq))
	if b.board.White.All&bb != 0 {
		return White, pieceIn(&b.board.White, bb)
	}
	if b.board.Black.All&bb != 0 {
		return Black, pieceIn(&b.board.Black, bb)
	}
	return White, dragon.Nothing
}

func pieceIn(bbs *dragon.Bitboards, bb uint64) dragon.Piece {
	switch {
	case bbs.Pawns&bb != 0:
		return dragon.Pawn
	case bbs.Knights&bb != 0:
		return dragon.Knight
	case bbs.Bishops&bb != 0:
		return dragon.Bishop
	case bbs.Rooks&bb != 0:
		return dragon.Rook
	case bbs.Queens&bb != 0:
		return dragon.Queen
	case bbs.Kings&bb != 0:
		return dragon.King
	}
	return dragon.Nothing
}

func (b *DragonBoardT) Bitboards(color ColorT) dragon.Bitboards {
	if color == White {
		return b.board.White
	}
	return b.board.Black
}

func (b *DragonBoardT) Ply() int {
	return b.ply
}

func (b *DragonBoardT) Fen() string {
	return b.board.ToFen()
}

func colorToMove(board Board) ColorT {
	if board.WhiteToMove() {
		return White
	}
	return Black
}
