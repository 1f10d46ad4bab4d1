package engine

import (
	"fmt"
	"slices"
	"strings"
	"time"

	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Why a search stopped
type TerminationT uint8

const (
	NotTerminated TerminationT = iota
	DepthReached
	TimeExpired
	Cancelled
	MateFound
	NoLegalMoves
)

func (t TerminationT) String() string {
	switch t {
	case DepthReached:
		return "depth-reached"
	case TimeExpired:
		return "time-expired"
	case Cancelled:
		return "cancelled"
	case MateFound:
		return "mate-found"
	case NoLegalMoves:
		return "no-legal-moves"
	default:
		return "not-terminated"
	}
}

// Result of the deepest fully completed iteration
type SearchOutcomeT struct {
	BestMove dragon.Move
	Eval     EvalCp // from the perspective of the side to move at the root
	PV       []dragon.Move
	Depth    int
	Stats    SearchStatsT
	Elapsed  time.Duration
	Reason   TerminationT
}

func (o *SearchOutcomeT) PVString() string {
	return strings.Join(lo.Map(o.PV, func(move dragon.Move, _ int) string { return move.String() }), " ")
}

// Eval in UCI "score" form
func (o *SearchOutcomeT) UciScore() string {
	if IsMateEval(o.Eval) {
		moves := (MateDistance(o.Eval) + 1) / 2
		if o.Eval < 0 {
			moves = -moves
		}
		return fmt.Sprintf("mate %d", moves)
	}
	return fmt.Sprintf("cp %d", o.Eval)
}

func IsMateEval(eval EvalCp) bool {
	return eval >= MateThreshold || eval <= -MateThreshold
}

// Plies to mate of a mate eval
func MateDistance(eval EvalCp) int {
	if eval < 0 {
		eval = -eval
	}
	return int(MyCheckMateEval - eval)
}

type SearchT struct {
	board        EvalBoard
	values       *ValuesT
	table        *TableT
	term         *armedTerminatorT
	qsearchDepth int

	stats   SearchStatsT
	killers KillerMoveTableT
	history HistoryHeuristicT

	// Triangular PV - pv[ply] is the best line found from the node at ply
	pv [MaxPly][]dragon.Move
	// Previous iteration's PV
	pvHint []dragon.Move

	mustComplete bool
	aborted      bool
}

// Iterative deepening alpha-beta from the board's position until the terminator fires.
// The board is restored before returning. A nil table searches without one.
// A position with no legal moves returns ErrNoLegalMoves with the mate or stalemate eval.
func Search(board EvalBoard, term TerminatorT, table *TableT) (SearchOutcomeT, error) {
	return search(board, term, table, nil)
}

// As Search, reporting every completed iteration to onDepth
func search(board EvalBoard, term TerminatorT, table *TableT, onDepth func(SearchOutcomeT)) (SearchOutcomeT, error) {
	start := time.Now()

	if !UseTT {
		table = nil
	}
	table.NewSearch()

	if !term.WellFormed() {
		log.Warn().Msg("terminator-cannot-fire-searching-depth-1")
	}

	s := &SearchT{
		board:        board,
		values:       board.Values(),
		table:        table,
		term:         term.arm(start),
		qsearchDepth: min(max(QSearchDepth, 0), MaxPly-MaxDepth-1),
	}

	if len(board.LegalMoves()) == 0 {
		outcome := SearchOutcomeT{
			BestMove: NoMove,
			Eval:     negaMateEval(board, 0),
			Elapsed:  time.Since(start),
			Reason:   NoLegalMoves,
		}
		return outcome, ErrNoLegalMoves
	}

	var outcome SearchOutcomeT

	for depth := MinDepth; ; depth++ {
		if depth > MinDepth && !s.term.mayStartDepth(depth) {
			break
		}
		s.mustComplete = depth == MinDepth

		log.Debug().Int("depth", depth).Msg("deepening-iteratively")

		bestMove, eval := s.NegAlphaBeta(depth, 0, YourCheckMateEval, MyCheckMateEval, true)

		// Incomplete iterations are discarded
		if s.aborted {
			break
		}

		pv := slices.Clone(s.pv[0])
		if len(pv) == 0 || pv[0] != bestMove {
			pv = []dragon.Move{bestMove}
		}
		s.pvHint = pv

		outcome = SearchOutcomeT{
			BestMove: bestMove,
			Eval:     eval,
			PV:       pv,
			Depth:    depth,
			Stats:    s.stats,
			Elapsed:  time.Since(start),
		}

		log.Debug().Int("depth", depth).Int("eval", int(eval)).Str("pv", outcome.PVString()).Uint64("nodes", s.stats.Nodes).Msg("completed-depth")

		if onDepth != nil {
			onDepth(outcome)
		}

		// No point going deeper once a forced mate is proven
		if IsMateEval(eval) && MateDistance(eval) <= depth {
			s.term.reason = MateFound
			break
		}
	}

	outcome.Reason = s.term.reason
	outcome.Stats = s.stats
	outcome.Elapsed = time.Since(start)

	if DebugChecks {
		checkPV(board, outcome.PV)
	}

	log.Info().
		Str("move", outcome.BestMove.String()).
		Int("eval", int(outcome.Eval)).
		Int("depth", outcome.Depth).
		Uint64("nodes", outcome.Stats.Nodes+outcome.Stats.QNodes).
		Dur("elapsed", outcome.Elapsed).
		Stringer("reason", outcome.Reason).
		Msg("search-returning")

	return outcome, nil
}

// Panic unless every PV move is legal in turn
func checkPV(board Board, pv []dragon.Move) {
	applied := 0
	defer func() {
		for ; applied > 0; applied-- {
			board.Undo()
		}
	}()

	for _, move := range pv {
		if !lo.Contains(board.LegalMoves(), move) {
			panic(fmt.Sprintf("engine: illegal PV move %s in %s", &move, board.Fen()))
		}
		board.Apply(move)
		applied++
	}
}
