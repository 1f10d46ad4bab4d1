package engine

import (
	"time"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Configuration options
var DumpSearchStats = false
var SearchCutoffPercent = 50 // If we've used more than this percentage of the target time then we bail on the search instead of starting a new depth
var TimeSafetyMarginPercent = 5
var UseMoveOrdering = true
var UseIDMoveHint = true
var UseTT = true
var UseKillerMoves = true
var UseHistoryHeuristic = true
var UsePosRepetition = true // treat a single repetition inside the search as a draw
var QSearchDepth = 32        // defensive cap only - q-search terminates without it
var DefaultTTSizeMB = 64

// Sanity checks that panic on broken invariants. Expensive - tests only.
var DebugChecks = false

const MinTimeSafetyMargin = time.Millisecond
const MaxTimeSafetyMargin = 50 * time.Millisecond

// Nodes between clock (and context) reads
const timeCheckInterval = 1024

const MinDepth = 1
const MaxDepth = 254 // needs to fit in uint8 in the TT
const NoMove dragon.Move = 0
