// Transposition table for Main Search

package engine

import (
	"sync"
	"sync/atomic"

	dragon "github.com/dylhunn/dragontoothmg"
)

// The eval for a TT entry can be exact, a lower bound, or an upper bound
type TTEvalT uint8

const (
	TTInvalid TTEvalT = iota // must be the 0 item
	TTEvalExact
	TTEvalLowerBound // from beta cut-off
	TTEvalUpperBound // from alpha cut-off
)

func (t TTEvalT) String() string {
	switch t {
	case TTEvalExact:
		return "exact"
	case TTEvalLowerBound:
		return "lower-bound"
	case TTEvalUpperBound:
		return "upper-bound"
	default:
		return "invalid"
	}
}

// Members ordered by descending size for better packing
type TTEntryT struct {
	Zobrist   uint64 // Zobrist hash from dragontoothmg
	BestMove  dragon.Move
	Eval      EvalCp // mate evals are stored relative to the storing node, see evalToTT
	DepthToGo uint8
	EvalType  TTEvalT
	Gen       uint8
}

// Slot 0 prefers depth, slot 1 always takes the newcomer
type ttBucketT [2]TTEntryT

const ttBucketSize = 32

const ttShardCount = 256
const ttShardMask = ttShardCount - 1

// Shared, fixed-size cache of search results keyed by position.
// Safe for concurrent use; every probe and store sees a whole entry.
// A nil *TableT is valid and behaves as a disabled table.
type TableT struct {
	buckets []ttBucketT
	mask    uint64
	shards  [ttShardCount]sync.Mutex
	gen     atomic.Uint32

	probes atomic.Uint64
	hits   atomic.Uint64
	stores atomic.Uint64
}

type TTStatsT struct {
	Buckets uint64
	Probes  uint64
	Hits    uint64
	Stores  uint64
}

func NewTable(sizeMB int) *TableT {
	if sizeMB < 1 {
		sizeMB = 1
	}
	nBuckets := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / ttBucketSize)

	return &TableT{
		buckets: make([]ttBucketT, nBuckets),
		mask:    nBuckets - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Note: assumes table size is a power of 2!!!
func (t *TableT) index(zobrist uint64) uint64 {
	return zobrist & t.mask
}

func (t *TableT) lock(index uint64) *sync.Mutex {
	return &t.shards[index&ttShardMask]
}

func (t *TableT) generation() uint8 {
	return uint8(t.gen.Load())
}

// Age existing entries so they lose their replacement priority
func (t *TableT) NewSearch() {
	if t == nil {
		return
	}
	t.gen.Add(1)
}

// Return a copy of the entry, and whether it is a hit
func (t *TableT) Probe(zobrist uint64) (TTEntryT, bool) {
	if t == nil {
		return TTEntryT{}, false
	}
	t.probes.Add(1)

	index := t.index(zobrist)
	mu := t.lock(index)
	mu.Lock()
	bucket := t.buckets[index]
	mu.Unlock()

	for i := range bucket {
		if bucket[i].EvalType != TTInvalid && bucket[i].Zobrist == zobrist {
			t.hits.Add(1)
			return bucket[i], true
		}
	}
	return TTEntryT{}, false
}

// Store a search result.
// There is policy in here: a same-key entry is updated in place unless it is a deeper exact result from this
// search and the newcomer is only a bound; otherwise the depth slot is taken if it is stale or no deeper, and
// its previous occupant drops to the always-replace slot.
func (t *TableT) Store(zobrist uint64, bestMove dragon.Move, eval EvalCp, depthToGo int, evalType TTEvalT) {
	if t == nil {
		return
	}
	t.stores.Add(1)

	gen := t.generation()
	entry := TTEntryT{
		Zobrist:   zobrist,
		BestMove:  bestMove,
		Eval:      eval,
		DepthToGo: uint8(min(max(depthToGo, 0), MaxDepth)),
		EvalType:  evalType,
		Gen:       gen,
	}

	index := t.index(zobrist)
	mu := t.lock(index)
	mu.Lock()
	defer mu.Unlock()

	bucket := &t.buckets[index]

	for i := range bucket {
		old := &bucket[i]
		if old.EvalType == TTInvalid || old.Zobrist != zobrist {
			continue
		}
		if old.Gen == gen && old.DepthToGo > entry.DepthToGo && old.EvalType == TTEvalExact && evalType != TTEvalExact {
			return
		}
		if entry.BestMove == NoMove {
			entry.BestMove = old.BestMove
		}
		*old = entry
		return
	}

	deep := &bucket[0]
	if deep.EvalType == TTInvalid || deep.Gen != gen || entry.DepthToGo >= deep.DepthToGo {
		if deep.EvalType != TTInvalid {
			bucket[1] = *deep
		}
		*deep = entry
		return
	}

	bucket[1] = entry
}

func (t *TableT) Clear() {
	if t == nil {
		return
	}
	for s := range t.shards {
		t.shards[s].Lock()
	}
	clear(t.buckets)
	for s := range t.shards {
		t.shards[s].Unlock()
	}
	t.probes.Store(0)
	t.hits.Store(0)
	t.stores.Store(0)
}

func (t *TableT) Stats() TTStatsT {
	if t == nil {
		return TTStatsT{}
	}
	return TTStatsT{
		Buckets: uint64(len(t.buckets)),
		Probes:  t.probes.Load(),
		Hits:    t.hits.Load(),
		Stores:  t.stores.Load(),
	}
}

// Mate evals are distance-from-root; in the table they are distance-from-node so that an entry
// stays valid when the same position is reached at a different ply.
func evalToTT(eval EvalCp, depthFromRoot int) EvalCp {
	if eval >= MateThreshold {
		return EvalCp(min(int(eval)+depthFromRoot, int(MyCheckMateEval)))
	}
	if eval <= -MateThreshold {
		return EvalCp(max(int(eval)-depthFromRoot, int(YourCheckMateEval)))
	}
	return eval
}

func evalFromTT(eval EvalCp, depthFromRoot int) EvalCp {
	if eval >= MateThreshold {
		return eval - EvalCp(depthFromRoot)
	}
	if eval <= -MateThreshold {
		return eval + EvalCp(depthFromRoot)
	}
	return eval
}
