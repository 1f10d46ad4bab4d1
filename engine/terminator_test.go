package engine

import (
	"context"
	"testing"
	"time"
)

func TestMalformedTerminator(t *testing.T) {
	for _, term := range []TerminatorT{{}, Depth(0), Time(0), Cancellation(nil), Context(nil), Depth(-3)} {
		if term.WellFormed() {
			t.Errorf("%+v should not be well formed", term)
		}
		if term.MaxDepth() != MinDepth {
			t.Errorf("%+v max depth is %d expected %d", term, term.MaxDepth(), MinDepth)
		}
	}
}

func TestTerminatorAnd(t *testing.T) {
	if got := Depth(5).And(Depth(3)).MaxDepth(); got != 3 {
		t.Errorf("Depth(5).And(Depth(3)) max depth is %d expected 3", got)
	}
	if got := Depth(0).And(Depth(4)).MaxDepth(); got != 4 {
		t.Errorf("Depth(0).And(Depth(4)) max depth is %d expected 4", got)
	}
	if got := Time(time.Second).And(Time(2 * time.Second)).Budget(); got != time.Second {
		t.Errorf("combined budget is %v expected 1s", got)
	}
	if got := Time(time.Second).MaxDepth(); got != MaxDepth {
		t.Errorf("time only max depth is %d expected %d", got, MaxDepth)
	}
	if got := Depth(MaxDepth + 10).MaxDepth(); got != MaxDepth {
		t.Errorf("max depth is %d expected it clamped to %d", got, MaxDepth)
	}

	combined := Depth(3).And(Cancellation(NewCancel())).And(Context(context.Background()))
	if len(combined.cancels) != 1 || len(combined.ctxs) != 1 || combined.depth != 3 {
		t.Errorf("combined terminator is %+v", combined)
	}
}

func TestSafetyMargin(t *testing.T) {
	tests := []struct {
		budget   time.Duration
		expected time.Duration
	}{
		{10 * time.Millisecond, MinTimeSafetyMargin},
		{100 * time.Millisecond, 5 * time.Millisecond},
		{10 * time.Second, MaxTimeSafetyMargin},
		// Never the whole budget
		{time.Millisecond, 500 * time.Microsecond},
	}

	for _, test := range tests {
		if got := safetyMargin(test.budget); got != test.expected {
			t.Errorf("safetyMargin(%v) is %v expected %v", test.budget, got, test.expected)
		}
	}
}

func TestCancellationTriggers(t *testing.T) {
	cancel := NewCancel()
	armed := Cancellation(cancel).arm(time.Now())

	if armed.triggered() {
		t.Fatalf("triggered before cancel")
	}
	cancel.Cancel()
	if !armed.triggered() || armed.reason != Cancelled {
		t.Errorf("cancel not seen, reason %v", armed.reason)
	}

	cancel.Reset()
	if cancel.Cancelled() {
		t.Errorf("reset cancel still cancelled")
	}
}

func TestContextTriggers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	armed := Context(ctx).arm(time.Now())

	if armed.checkClockAndContexts(time.Now()) {
		t.Fatalf("triggered before the context was cancelled")
	}
	cancel()

	// Contexts are only polled periodically
	triggered := false
	for i := 0; i < timeCheckInterval && !triggered; i++ {
		triggered = armed.triggered()
	}
	if !triggered || armed.reason != Cancelled {
		t.Errorf("cancelled context not seen within %d nodes, reason %v", timeCheckInterval, armed.reason)
	}
}

func TestDeadline(t *testing.T) {
	start := time.Now().Add(-2 * time.Second)
	armed := Time(time.Second).arm(start)

	if !armed.checkClockAndContexts(time.Now()) || armed.reason != TimeExpired {
		t.Errorf("expired budget not seen, reason %v", armed.reason)
	}
}

func TestMayStartDepth(t *testing.T) {
	armed := Depth(3).arm(time.Now())
	if !armed.mayStartDepth(3) {
		t.Errorf("depth 3 should start")
	}
	if armed.mayStartDepth(4) || armed.reason != DepthReached {
		t.Errorf("depth 4 should not start, reason %v", armed.reason)
	}

	// Past the cutoff but before the deadline
	armed = Time(time.Second).arm(time.Now().Add(-600 * time.Millisecond))
	if armed.mayStartDepth(2) || armed.reason != TimeExpired {
		t.Errorf("no new depth after the cutoff, reason %v", armed.reason)
	}

	armed = Time(time.Minute).arm(time.Now())
	if !armed.mayStartDepth(2) {
		t.Errorf("fresh budget should allow a new depth")
	}
}
