// Stolen shamelessly from dragontooth

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clanpj/lisao/engine"
	"github.com/clanpj/lisao/timecontrol"
)

var VersionString = "0.1a Pichu 2 " + "CPU " + runtime.GOOS + "-" + runtime.GOARCH

var paramsPath = flag.String("params", "", "time control params JSON file")
var logLevel = flag.String("log-level", "warn", "zerolog level for stderr logging")

func main() {
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli})

	params := timecontrol.DefaultParams()
	if *paramsPath != "" {
		params, err = timecontrol.LoadParams(*paramsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("loading-params")
		}
	}

	uciLoop(params)
}

type uciT struct {
	params timecontrol.ParamsT
	board  *engine.DragonBoardT // the game board
	hashMB int
	tx     *engine.CommandTxT
	done   chan struct{}

	// StartSearch commands not yet answered by an outcome or a rejection
	searches atomic.Int32

	// In infinite mode the bestmove waits for "stop"
	mu       sync.Mutex
	infinite bool
	held     *engine.OutcomeEvent
}

func newUci(params timecontrol.ParamsT) *uciT {
	return &uciT{params: params, board: engine.NewStartBoard(), hashMB: engine.DefaultTTSizeMB}
}

// (Re)start the search service with a fresh table
func (u *uciT) start() {
	ctx := context.Background()
	tx, events := engine.StartInteractive(ctx, engine.NewEvalBoard(u.board.Clone(), nil), engine.NewTable(u.hashMB))
	u.tx = tx
	u.done = make(chan struct{})
	go u.printEvents(events, u.done)
}

func (u *uciT) stop() {
	_ = u.tx.Send(engine.ShutdownCmd{})
	if err := u.tx.Wait(); err != nil {
		log.Error().Err(err).Msg("interactive-search-wait")
	}
	<-u.done
}

func (u *uciT) send(cmd engine.CommandT) {
	if err := u.tx.Send(cmd); err != nil {
		fmt.Println("info string", err)
	}
}

func uciLoop(params timecontrol.ParamsT) {
	scanner := bufio.NewScanner(os.Stdin)
	u := newUci(params)
	u.start()
	defer u.stop()

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Println("id name Lisao", VersionString)
			fmt.Println("id author Clan PJ")
			fmt.Println("option name Hash type spin default", engine.DefaultTTSizeMB, "min 1 max 4096")
			fmt.Println("option name QSearchDepth type spin default", engine.QSearchDepth, "min 0 max 128")
			fmt.Println("option name UseTT type check default", engine.UseTT)
			fmt.Println("option name UseMoveOrdering type check default", engine.UseMoveOrdering)
			fmt.Println("option name UseIDMoveHint type check default", engine.UseIDMoveHint)
			fmt.Println("option name UseKillerMoves type check default", engine.UseKillerMoves)
			fmt.Println("option name UseHistoryHeuristic type check default", engine.UseHistoryHeuristic)
			fmt.Println("option name UsePosRepetition type check default", engine.UsePosRepetition)
			fmt.Println("option name DumpSearchStats type check default", engine.DumpSearchStats)
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			// reset the board, in case the GUI skips 'position' after 'newgame'
			u.board = engine.NewStartBoard()
			u.send(engine.ResetPositionCmd{Board: engine.NewEvalBoard(u.board.Clone(), nil), ClearTable: true})
		case "quit":
			return
		case "setoption":
			u.setOptionCmd(tokens)
		case "go":
			u.goCmd(line)
		case "stop":
			if !u.release() {
				u.send(engine.StopCmd{})
			}
		case "position":
			board, ok := parsePosition(line)
			if !ok {
				continue
			}
			u.board = board
			u.send(engine.ResetPositionCmd{Board: engine.NewEvalBoard(u.board.Clone(), nil)})
		default:
			fmt.Println("info string Unknown command:", line)
		}
	}
}

func parseBool(name string, value string, option *bool) {
	switch strings.ToLower(value) {
	case "true":
		*option = true
	case "false":
		*option = false
	default:
		fmt.Println("info string Unrecognised", name, "option:", value)
	}
}

// Returns true iff the option was looked at
func (u *uciT) setOptionCmd(tokens []string) bool {
	if len(tokens) != 5 || tokens[1] != "name" || tokens[3] != "value" {
		fmt.Println("info string Malformed setoption command")
		return false
	}
	// The search reads the options
	if u.searches.Load() > 0 {
		fmt.Println("info string Cannot set options while searching")
		return false
	}
	u.setOption(tokens[2], tokens[4])
	return true
}

func (u *uciT) setOption(name string, value string) {
	switch strings.ToLower(name) {
	case "hash":
		res, err := strconv.Atoi(value)
		if err != nil || res < 1 {
			fmt.Println("info string Hash value is not a positive int (", value, ")")
			return
		}
		// A new table means a new service - the table is shared with the running worker
		u.stop()
		u.hashMB = res
		u.start()
		fmt.Println("info string Hash changed to", res, "MB")
	case "qsearchdepth":
		res, err := strconv.Atoi(value)
		if err != nil {
			fmt.Println("info string QSearchDepth value is not an int (", err, ")")
			return
		}
		engine.QSearchDepth = res
	case "usett":
		parseBool(name, value, &engine.UseTT)
	case "usemoveordering":
		parseBool(name, value, &engine.UseMoveOrdering)
	case "useidmovehint":
		parseBool(name, value, &engine.UseIDMoveHint)
	case "usekillermoves":
		parseBool(name, value, &engine.UseKillerMoves)
	case "usehistoryheuristic":
		parseBool(name, value, &engine.UseHistoryHeuristic)
	case "useposrepetition":
		parseBool(name, value, &engine.UsePosRepetition)
	case "dumpsearchstats":
		parseBool(name, value, &engine.DumpSearchStats)
	default:
		fmt.Println("info string Unknown UCI option", name)
	}
}

func (u *uciT) goCmd(line string) {
	goScanner := bufio.NewScanner(strings.NewReader(line))
	goScanner.Split(bufio.ScanWords)
	goScanner.Scan() // skip the first token

	var wtime, btime, winc, binc, movetime, depth int
	var infinite bool

	for goScanner.Scan() {
		nextToken := strings.ToLower(goScanner.Text())
		var dest *int
		switch nextToken {
		case "infinite":
			infinite = true
			continue
		case "wtime":
			dest = &wtime
		case "btime":
			dest = &btime
		case "winc":
			dest = &winc
		case "binc":
			dest = &binc
		case "movetime":
			dest = &movetime
		case "depth":
			dest = &depth
		default:
			fmt.Println("info string Unknown go subcommand", nextToken)
			continue
		}
		if !goScanner.Scan() {
			fmt.Println("info string Malformed go command option", nextToken)
			continue
		}
		n, err := strconv.Atoi(goScanner.Text())
		if err != nil {
			fmt.Println("info string Malformed go command option; could not convert", nextToken)
			continue
		}
		*dest = n
	}

	var term engine.TerminatorT
	switch {
	case infinite:
		// Only a stop ends it
		term = engine.Depth(engine.MaxDepth)
	case movetime > 0:
		term = engine.Time(time.Duration(movetime) * time.Millisecond)
	case wtime > 0 || btime > 0:
		ourtime, ourinc := wtime, winc
		if !u.board.WhiteToMove() {
			ourtime, ourinc = btime, binc
		}
		allowed := timecontrol.Allocate(u.params, time.Duration(ourtime)*time.Millisecond, time.Duration(ourinc)*time.Millisecond, u.board.Ply())
		term = engine.Time(allowed)
	}
	if depth > 0 {
		term = term.And(engine.Depth(depth))
	}
	if !term.WellFormed() {
		term = engine.Depth(engine.MaxDepth)
	}

	u.mu.Lock()
	u.infinite = infinite
	u.held = nil
	u.mu.Unlock()

	u.searches.Add(1)
	if err := u.tx.Send(engine.StartSearchCmd{Board: engine.NewEvalBoard(u.board.Clone(), nil), Terminator: term}); err != nil {
		u.searches.Add(-1)
		fmt.Println("info string", err)
	}
}

// Leave infinite mode, printing a bestmove held back for "stop". Returns true iff there was one.
func (u *uciT) release() bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.infinite = false
	if u.held == nil {
		return false
	}
	printBestMove(u.held)
	u.held = nil
	return true
}

// Hold the outcome back in infinite mode. Returns true iff held.
func (u *uciT) hold(ev *engine.OutcomeEvent) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.infinite {
		return false
	}
	u.held = ev
	return true
}

func parsePosition(line string) (*engine.DragonBoardT, bool) {
	posScanner := bufio.NewScanner(strings.NewReader(line))
	posScanner.Split(bufio.ScanWords)
	posScanner.Scan() // skip the first token
	if !posScanner.Scan() {
		fmt.Println("info string Malformed position command")
		return nil, false
	}

	var board *engine.DragonBoardT
	switch strings.ToLower(posScanner.Text()) {
	case "startpos":
		board = engine.NewStartBoard()
		posScanner.Scan() // advance the scanner to leave it in a consistent state
	case "fen":
		fenstr := ""
		for posScanner.Scan() && strings.ToLower(posScanner.Text()) != "moves" {
			fenstr += posScanner.Text() + " "
		}
		var err error
		board, err = engine.NewBoard(fenstr)
		if err != nil {
			fmt.Println("info string Invalid fen position:", err)
			return nil, false
		}
	default:
		fmt.Println("info string Invalid position subcommand")
		return nil, false
	}

	if strings.ToLower(posScanner.Text()) != "moves" {
		return board, true
	}

	for posScanner.Scan() { // for each move
		moveStr := strings.ToLower(posScanner.Text())
		nextMove, found := findMove(board, moveStr)
		if !found {
			fmt.Println("info string Move", moveStr, "not legal in position", board.Fen())
			return nil, false
		}
		board.Apply(nextMove)
	}

	return board, true
}

func findMove(board engine.Board, moveStr string) (dragon.Move, bool) {
	for _, mv := range board.LegalMoves() {
		if mv.String() == moveStr {
			return mv, true
		}
	}
	return engine.NoMove, false
}

// Print search service events in UCI form until the service terminates
func (u *uciT) printEvents(events <-chan engine.EventT, done chan<- struct{}) {
	defer close(done)

	for ev := range events {
		switch ev := ev.(type) {
		case engine.ProgressEvent:
			printInfo(&ev.Outcome)
		case engine.OutcomeEvent:
			if !u.hold(&ev) {
				printBestMove(&ev)
			}
			u.searches.Add(-1)
		case engine.RejectedEvent:
			if _, ok := ev.Command.(engine.StartSearchCmd); ok {
				u.searches.Add(-1)
			}
			fmt.Println("info string", ev.Err)
		case engine.TerminatedEvent:
			log.Debug().Msg("search-service-terminated")
		}
	}
}

func printBestMove(ev *engine.OutcomeEvent) {
	if ev.Err != nil {
		fmt.Println("info string", ev.Err)
	}
	if engine.DumpSearchStats {
		ev.Outcome.Stats.Dump(os.Stdout, ev.Outcome.Depth)
	}
	if ev.Outcome.BestMove == engine.NoMove {
		fmt.Println("bestmove 0000")
	} else {
		fmt.Println("bestmove", &ev.Outcome.BestMove)
	}
}

func printInfo(outcome *engine.SearchOutcomeT) {
	elapsedMs := max(outcome.Elapsed.Milliseconds(), 1)
	nodes := outcome.Stats.Nodes + outcome.Stats.QNodes
	fmt.Println("info depth", outcome.Depth, "score", outcome.UciScore(), "nodes", nodes, "time", elapsedMs, "nps", nodes*1000/uint64(elapsedMs), "pv", outcome.PVString())
}
