package id

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ID is the message store's identifier: priority, creation timestamp in
// milliseconds, a per-millisecond sequence, and the node that minted it.
type ID struct {
	Priority    uint32
	TimestampMs int64
	Sequence    uint32
	NodeID      uint16
}

// Compare returns -1, 0, or 1 following the store's total order: priority
// desc, timestamp_ms asc, sequence asc, node_id asc.
func (a ID) Compare(b ID) int {
	if a.Priority != b.Priority {
		if a.Priority > b.Priority {
			return -1
		}
		return 1
	}
	if a.TimestampMs != b.TimestampMs {
		if a.TimestampMs < b.TimestampMs {
			return -1
		}
		return 1
	}
	if a.Sequence != b.Sequence {
		if a.Sequence < b.Sequence {
			return -1
		}
		return 1
	}
	if a.NodeID != b.NodeID {
		if a.NodeID < b.NodeID {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether a sorts before b in the store's total order.
func (a ID) Less(b ID) bool { return a.Compare(b) < 0 }

// String returns the dashed text form "priority-timestamp_ms-sequence-node_id".
func (a ID) String() string {
	return fmt.Sprintf("%d-%d-%d-%d", a.Priority, a.TimestampMs, a.Sequence, a.NodeID)
}

// Parse is the exact inverse of String.
func Parse(s string) (ID, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 4 {
		return ID{}, fmt.Errorf("id: malformed identifier %q", s)
	}
	priority, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return ID{}, fmt.Errorf("id: bad priority in %q: %w", s, err)
	}
	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ID{}, fmt.Errorf("id: bad timestamp in %q: %w", s, err)
	}
	seq, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return ID{}, fmt.Errorf("id: bad sequence in %q: %w", s, err)
	}
	node, err := strconv.ParseUint(parts[3], 10, 16)
	if err != nil {
		return ID{}, fmt.Errorf("id: bad node_id in %q: %w", s, err)
	}
	return ID{Priority: uint32(priority), TimestampMs: ts, Sequence: uint32(seq), NodeID: uint16(node)}, nil
}

// NowMs returns the current time in milliseconds since the Unix epoch.
// Overridable in tests.
var NowMs = func() int64 { return time.Now().UnixMilli() }

// Generator mints IDs for a single node, guaranteeing that two successive
// calls with the same priority on the same node are strictly increasing.
type Generator struct {
	nodeID uint16

	mu       sync.Mutex
	lastMs   int64
	sequence uint32
}

// NewGenerator creates a Generator that stamps every ID it mints with nodeID.
func NewGenerator(nodeID uint16) *Generator {
	return &Generator{nodeID: nodeID}
}

// NodeID returns the node identifier this generator stamps onto every ID.
func (g *Generator) NodeID() uint16 { return g.nodeID }

// Next mints a new ID for the given priority. If the system clock regresses,
// it pins to the last seen millisecond and keeps the sequence advancing. If
// the sequence would overflow within one millisecond, it waits for the next
// millisecond and resets the sequence to zero.
func (g *Generator) Next(priority uint32) ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := NowMs()
	if ms < g.lastMs {
		ms = g.lastMs
	}

	if ms == g.lastMs {
		if g.sequence == math.MaxUint32 {
			for {
				ms = NowMs()
				if ms > g.lastMs {
					break
				}
				time.Sleep(time.Millisecond / 8)
			}
			g.sequence = 0
		} else {
			g.sequence++
		}
	} else {
		g.sequence = 0
	}

	g.lastMs = ms
	return ID{Priority: priority, TimestampMs: ms, Sequence: g.sequence, NodeID: g.nodeID}
}
