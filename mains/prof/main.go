package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/clanpj/lisao/engine"
)

var VersionString = "0.1a Pichu 2 " + "CPU " + runtime.GOOS + "-" + runtime.GOARCH

var depth = flag.Int("depth", 8, "search depth per position")
var movetime = flag.Duration("movetime", 0, "time budget per position, e.g. 500ms")
var threads = flag.Int("threads", 1, "positions searched concurrently, all sharing one table")
var hashMB = flag.Int("hash", engine.DefaultTTSizeMB, "table size in MB")
var positions = flag.Int("positions", 0, "how many of the benchmark positions to search, 0 for all")
var shuffle = flag.Bool("shuffle", false, "search the positions in random order")

// Middlegame and endgame positions with tactics in them
var benchFens = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"4k3/8/2p5/3p4/8/8/8/3QK3 w - - 0 1",
	"6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1",
}

func main() {
	flag.Parse()
	defer profile.Start().Stop()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli})

	fmt.Println("Starting...", VersionString)

	fens := benchFens
	if *shuffle {
		fens = append([]string{}, fens...)
		frand.Shuffle(len(fens), func(i, j int) { fens[i], fens[j] = fens[j], fens[i] })
	}
	if *positions > 0 && *positions < len(fens) {
		fens = fens[:*positions]
	}

	term := engine.Depth(*depth)
	if *movetime > 0 {
		term = term.And(engine.Time(*movetime))
	}

	table := engine.NewTable(*hashMB)

	var mu sync.Mutex
	var total engine.SearchStatsT
	maxDepth := 0

	start := time.Now()

	var g errgroup.Group
	g.SetLimit(max(*threads, 1))

	for _, fen := range fens {
		fen := fen
		g.Go(func() error {
			board, err := engine.NewBoard(fen)
			if err != nil {
				return err
			}
			outcome, err := engine.Search(engine.NewEvalBoard(board, nil), term, table)
			if err != nil {
				return fmt.Errorf("searching %s: %w", fen, err)
			}

			mu.Lock()
			defer mu.Unlock()
			total.Add(&outcome.Stats)
			maxDepth = max(maxDepth, outcome.Depth)
			fmt.Println("info string", fen, "depth", outcome.Depth, "score", outcome.UciScore(), "bestmove", &outcome.BestMove, "pv", outcome.PVString())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("benchmark-failed")
	}

	elapsed := time.Since(start)
	nodes := total.Nodes + total.QNodes
	ttStats := table.Stats()

	total.Dump(os.Stdout, maxDepth)
	fmt.Println("info string tt-probes:", ttStats.Probes, "tt-hits:", engine.PerC(ttStats.Hits, ttStats.Probes), "tt-stores:", ttStats.Stores)
	fmt.Println("info string positions", len(fens), "nodes", nodes, "time", elapsed.Milliseconds(), "nps", uint64(float64(nodes)/max(elapsed.Seconds(), 1e-3)))
}
