package engine

import (
	"context"
	"sync/atomic"
	"time"
)

// Cooperative cancellation flag, shared between a search and whoever wants to stop it
type CancelT struct {
	flag atomic.Bool
}

func NewCancel() *CancelT { return &CancelT{} }

func (c *CancelT) Cancel()         { c.flag.Store(true) }
func (c *CancelT) Cancelled() bool { return c.flag.Load() }
func (c *CancelT) Reset()          { c.flag.Store(false) }

// When a search should stop. Zero fields mean "no limit of that kind".
// Combine with And; the first condition to trigger wins.
type TerminatorT struct {
	depth   int
	budget  time.Duration
	cancels []*CancelT
	ctxs    []context.Context
}

func Depth(depth int) TerminatorT { return TerminatorT{depth: max(depth, 0)} }

func Time(budget time.Duration) TerminatorT { return TerminatorT{budget: max(budget, 0)} }

func Cancellation(cancel *CancelT) TerminatorT {
	if cancel == nil {
		return TerminatorT{}
	}
	return TerminatorT{cancels: []*CancelT{cancel}}
}

func Context(ctx context.Context) TerminatorT {
	if ctx == nil {
		return TerminatorT{}
	}
	return TerminatorT{ctxs: []context.Context{ctx}}
}

func (t TerminatorT) And(u TerminatorT) TerminatorT {
	combined := TerminatorT{
		depth:   positiveMin(t.depth, u.depth),
		budget:  positiveMin(t.budget, u.budget),
		cancels: append(append([]*CancelT{}, t.cancels...), u.cancels...),
		ctxs:    append(append([]context.Context{}, t.ctxs...), u.ctxs...),
	}
	return combined
}

func positiveMin[T int | time.Duration](a, b T) T {
	if a <= 0 {
		return b
	}
	if b <= 0 {
		return a
	}
	return min(a, b)
}

// A terminator with nothing that can ever fire searches depth 1 only
func (t TerminatorT) WellFormed() bool {
	return t.depth > 0 || t.budget > 0 || len(t.cancels) > 0 || len(t.ctxs) > 0
}

// Deepest iteration the search may start
func (t TerminatorT) MaxDepth() int {
	if !t.WellFormed() {
		return MinDepth
	}
	if t.depth > 0 {
		return min(t.depth, MaxDepth)
	}
	return MaxDepth
}

func (t TerminatorT) Budget() time.Duration { return t.budget }

// Margin kept back from a time budget to cover unwinding and reporting
func safetyMargin(budget time.Duration) time.Duration {
	margin := budget * time.Duration(TimeSafetyMarginPercent) / 100
	margin = min(max(margin, MinTimeSafetyMargin), MaxTimeSafetyMargin)
	if margin >= budget {
		margin = budget / 2
	}
	return margin
}

// Per-search state of a terminator
type armedTerminatorT struct {
	term      TerminatorT
	start     time.Time
	deadline  time.Time // zero iff no time budget
	cutoff    time.Time // no new depth is started after this
	countdown int
	reason    TerminationT
}

func (t TerminatorT) arm(start time.Time) *armedTerminatorT {
	a := &armedTerminatorT{term: t, start: start, countdown: timeCheckInterval}
	if t.budget > 0 {
		usable := t.budget - safetyMargin(t.budget)
		a.deadline = start.Add(usable)
		a.cutoff = start.Add(usable * time.Duration(SearchCutoffPercent) / 100)
	}
	return a
}

// Called at every node. Cancel flags are read every time; the clock and contexts every timeCheckInterval calls.
func (a *armedTerminatorT) triggered() bool {
	if a.reason != NotTerminated {
		return true
	}

	for _, c := range a.term.cancels {
		if c.Cancelled() {
			a.reason = Cancelled
			return true
		}
	}

	a.countdown--
	if a.countdown > 0 {
		return false
	}
	a.countdown = timeCheckInterval

	return a.checkClockAndContexts(time.Now())
}

func (a *armedTerminatorT) checkClockAndContexts(now time.Time) bool {
	if !a.deadline.IsZero() && !now.Before(a.deadline) {
		a.reason = TimeExpired
		return true
	}
	for _, ctx := range a.term.ctxs {
		if ctx.Err() != nil {
			a.reason = Cancelled
			return true
		}
	}
	return false
}

// Whether iteration at the given depth may begin
func (a *armedTerminatorT) mayStartDepth(depth int) bool {
	if depth > a.term.MaxDepth() {
		a.reason = DepthReached
		return false
	}
	if a.reason != NotTerminated {
		return false
	}
	for _, c := range a.term.cancels {
		if c.Cancelled() {
			a.reason = Cancelled
			return false
		}
	}
	now := time.Now()
	if a.checkClockAndContexts(now) {
		return false
	}
	if !a.cutoff.IsZero() && now.After(a.cutoff) {
		a.reason = TimeExpired
		return false
	}
	return true
}
