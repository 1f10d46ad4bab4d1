// Interactive search - a long-lived search service driven by commands on one channel and reporting on another

package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type StateT uint8

const (
	Idle StateT = iota
	Searching
	Terminated
)

func (s StateT) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	default:
		return "terminated"
	}
}

type CommandT interface{ command() }

// Search the given board, or the current one if Board is nil
type StartSearchCmd struct {
	Board      EvalBoard
	Terminator TerminatorT
}

// Cancel the running search; its outcome is still reported
type StopCmd struct{}

// Replace the current board, and optionally empty the table
type ResetPositionCmd struct {
	Board      EvalBoard
	ClearTable bool
}

type ShutdownCmd struct{}

func (StartSearchCmd) command()   {}
func (StopCmd) command()          {}
func (ResetPositionCmd) command() {}
func (ShutdownCmd) command()      {}

type EventT interface{ event() }

// A completed iteration of the run
type ProgressEvent struct {
	RunID   uuid.UUID
	Outcome SearchOutcomeT
}

// Final result of the run. The service is already Idle when this is received.
type OutcomeEvent struct {
	RunID   uuid.UUID
	Outcome SearchOutcomeT
	Err     error
}

type RejectedEvent struct {
	Command CommandT
	Err     error
}

// Always the last event
type TerminatedEvent struct{}

func (ProgressEvent) event()   {}
func (OutcomeEvent) event()    {}
func (RejectedEvent) event()   {}
func (TerminatedEvent) event() {}

const eventBufferSize = 64

// Producer end of an interactive search
type CommandTxT struct {
	commands  chan CommandT
	done      chan struct{}
	dropped   chan struct{}
	closeOnce sync.Once
	g         *errgroup.Group
}

// Deliver a command. Returns ErrTerminated once the service has shut down.
func (tx *CommandTxT) Send(cmd CommandT) error {
	select {
	case <-tx.done:
		return ErrTerminated
	default:
	}

	select {
	case tx.commands <- cmd:
		return nil
	case <-tx.done:
		return ErrTerminated
	}
}

// Drop the producer - the service shuts down as if sent ShutdownCmd
func (tx *CommandTxT) Close() {
	tx.closeOnce.Do(func() { close(tx.dropped) })
}

// Closed once the service has terminated
func (tx *CommandTxT) Done() <-chan struct{} {
	return tx.done
}

// Wait for the service's goroutines to exit
func (tx *CommandTxT) Wait() error {
	return tx.g.Wait()
}

type runT struct {
	id    uuid.UUID
	board EvalBoard
	term  TerminatorT
}

type interactiveT struct {
	ctx      context.Context
	tx       *CommandTxT
	events   chan EventT
	runs     chan runT
	finished chan OutcomeEvent

	board  EvalBoard
	table  *TableT
	state  StateT
	cancel *CancelT
	runID  uuid.UUID
}

// Start the search service on the given board and (possibly nil) table.
// One worker goroutine runs every search in turn; the control goroutine owns all state.
// The consumer must keep draining events until TerminatedEvent, after which the channel is closed,
// unless it cancels ctx to say it has gone away.
func StartInteractive(ctx context.Context, board EvalBoard, table *TableT) (*CommandTxT, <-chan EventT) {
	g, gctx := errgroup.WithContext(ctx)

	tx := &CommandTxT{
		commands: make(chan CommandT),
		done:     make(chan struct{}),
		dropped:  make(chan struct{}),
		g:        g,
	}
	is := &interactiveT{
		ctx:      gctx,
		tx:       tx,
		events:   make(chan EventT, eventBufferSize),
		runs:     make(chan runT),
		finished: make(chan OutcomeEvent),
		board:    board,
		table:    table,
		state:    Idle,
		cancel:   NewCancel(),
	}

	workerDone := make(chan struct{})

	g.Go(func() error {
		defer close(workerDone)
		is.work()
		return nil
	})

	g.Go(func() error {
		is.control(workerDone)
		return nil
	})

	return tx, is.events
}

func (is *interactiveT) work() {
	for run := range is.runs {
		onDepth := func(outcome SearchOutcomeT) {
			is.emit(ProgressEvent{RunID: run.id, Outcome: outcome})
		}
		outcome, err := search(run.board, run.term, is.table, onDepth)

		// Reported by the control goroutine once it is Idle again
		is.finished <- OutcomeEvent{RunID: run.id, Outcome: outcome, Err: err}
	}
}

func (is *interactiveT) control(workerDone <-chan struct{}) {
	defer is.shutdown(workerDone)

	for {
		select {
		case cmd := <-is.tx.commands:
			if is.handle(cmd) {
				return
			}
		case ev := <-is.finished:
			log.Debug().Stringer("run-id", is.runID).Msg("search-finished")
			is.state = Idle
			is.emit(ev)
		case <-is.tx.dropped:
			log.Debug().Msg("command-sender-dropped")
			return
		case <-is.ctx.Done():
			log.Debug().Msg("event-receiver-gone")
			return
		}
	}
}

// Returns true iff the service should shut down
func (is *interactiveT) handle(cmd CommandT) bool {
	switch cmd := cmd.(type) {
	case StartSearchCmd:
		if is.state == Searching {
			is.reject(cmd, ErrSearchInProgress)
			return false
		}
		if cmd.Board != nil {
			is.board = cmd.Board
		}

		term := cmd.Terminator
		if !term.WellFormed() {
			term = Depth(MinDepth)
		}
		is.cancel = NewCancel()
		term = term.And(Cancellation(is.cancel)).And(Context(is.ctx))

		is.runID = uuid.New()
		is.state = Searching
		log.Debug().Stringer("run-id", is.runID).Str("fen", is.board.Fen()).Msg("starting-search")

		is.runs <- runT{id: is.runID, board: is.board, term: term}

	case StopCmd:
		if is.state != Searching {
			is.reject(cmd, ErrNotSearching)
			return false
		}
		log.Debug().Stringer("run-id", is.runID).Msg("stopping-search")
		is.cancel.Cancel()

	case ResetPositionCmd:
		if is.state == Searching {
			is.reject(cmd, ErrSearchInProgress)
			return false
		}
		if cmd.Board != nil {
			is.board = cmd.Board
		}
		if cmd.ClearTable {
			is.table.Clear()
		}

	case ShutdownCmd:
		return true

	default:
		is.reject(cmd, ErrUnknownCommand)
	}

	return false
}

func (is *interactiveT) reject(cmd CommandT, err error) {
	log.Error().Err(err).Stringer("state", is.state).Msgf("rejected-command %T", cmd)
	is.emit(RejectedEvent{Command: cmd, Err: err})
}

func (is *interactiveT) shutdown(workerDone <-chan struct{}) {
	if is.state == Searching {
		is.cancel.Cancel()
		is.emit(<-is.finished)
	}
	close(is.runs)
	<-workerDone

	is.state = Terminated
	close(is.tx.done)

	log.Debug().Msg("interactive-search-terminated")
	is.emit(TerminatedEvent{})
	close(is.events)
}

// Blocks until the consumer takes the event, unless it has gone away
func (is *interactiveT) emit(ev EventT) {
	select {
	case is.events <- ev:
	case <-is.ctx.Done():
	}
}
