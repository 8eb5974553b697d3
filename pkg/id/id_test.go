package id

import (
	"testing"
	"time"
)

func TestOrderingMonotonic(t *testing.T) {
	g := NewGenerator(1)
	NowMs = func() int64 { return 1000 }
	defer func() { NowMs = func() int64 { return time.Now().UnixMilli() } }()

	a := g.Next(5)
	b := g.Next(5)
	if a.Compare(b) >= 0 {
		t.Fatalf("expected a<b")
	}
}

func TestPriorityDescends(t *testing.T) {
	g := NewGenerator(1)
	NowMs = func() int64 { return 1000 }
	defer func() { NowMs = func() int64 { return time.Now().UnixMilli() } }()

	low := g.Next(1)
	high := g.Next(9)
	if high.Compare(low) >= 0 {
		t.Fatalf("expected higher priority to sort before lower priority")
	}
}

func TestClockRegressionGuard(t *testing.T) {
	g := NewGenerator(1)
	seq := int64(1000)
	NowMs = func() int64 { return seq }
	defer func() { NowMs = func() int64 { return time.Now().UnixMilli() } }()

	a := g.Next(5) // uses 1000
	seq = 900      // clock went backwards
	b := g.Next(5) // should still sort after a
	if a.Compare(b) >= 0 {
		t.Fatalf("expected b after a despite clock regression")
	}
}

func TestSequenceOverflowWaitsNextMs(t *testing.T) {
	g := NewGenerator(1)
	NowMs = func() int64 { return 2000 }
	defer func() { NowMs = func() int64 { return time.Now().UnixMilli() } }()

	// Simulate near-overflow
	g.lastMs = 2000
	g.sequence = ^uint32(0) - 1

	_ = g.Next(5) // sequence becomes MaxUint32

	done := make(chan struct{})
	go func() {
		_ = g.Next(5) // should wait for next ms and reset sequence
		close(done)
	}()

	// Advance time after a brief moment to let goroutine reach wait loop
	time.AfterFunc(10*time.Millisecond, func() { NowMs = func() int64 { return 2001 } })

	select {
	case <-done:
		// ok
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for overflow handling")
	}
}

func TestNodeIDTiesBreaks(t *testing.T) {
	a := ID{Priority: 1, TimestampMs: 1000, Sequence: 0, NodeID: 1}
	b := ID{Priority: 1, TimestampMs: 1000, Sequence: 0, NodeID: 2}
	if a.Compare(b) >= 0 {
		t.Fatalf("expected lower node_id to sort first on a full tie")
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	want := ID{Priority: 7, TimestampMs: 1719000000123, Sequence: 42, NodeID: 9}
	got, err := Parse(want.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "1-2-3", "1-2-3-4-5", "x-2-3-4"} {
		if _, err := Parse(s); err == nil {
			t.Fatalf("expected error parsing %q", s)
		}
	}
}
