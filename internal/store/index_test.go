package store

import (
	"testing"

	"github.com/msg-store/msg-store/pkg/id"
)

// seqGen mints deterministic, strictly increasing identifiers for tests
// that don't care about wall-clock timing.
type seqGen struct{ n int64 }

func (g *seqGen) next(priority uint32) id.ID {
	g.n++
	return id.ID{Priority: priority, TimestampMs: g.n, Sequence: 0, NodeID: 1}
}

func noopDel(id.ID) error { return nil }

func noopPersist(id.ID, int64) error { return nil }

func TestIndexAddAndGet(t *testing.T) {
	idx := NewIndex()
	gen := &seqGen{}

	newID, err := idx.Add(5, 10, gen.next, noopPersist, noopDel)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got, ok := idx.Get(nil, &newID, false)
	if !ok || got != newID {
		t.Fatalf("get by id = (%v, %v), want (%v, true)", got, ok, newID)
	}

	p := uint32(5)
	got, ok = idx.Get(&p, nil, false)
	if !ok || got != newID {
		t.Fatalf("get by priority = (%v, %v), want (%v, true)", got, ok, newID)
	}
}

func TestIndexRejectsOverGroupCap(t *testing.T) {
	idx := NewIndex()
	gen := &seqGen{}
	gmax := int64(5)
	if err := idx.UpdateGroupDefaults(1, &gmax, noopDel); err != nil {
		t.Fatalf("update group defaults: %v", err)
	}

	if _, err := idx.Add(1, 10, gen.next, noopPersist, noopDel); !IsKind(err, KindExceedsGroupMax) {
		t.Fatalf("err = %v, want KindExceedsGroupMax", err)
	}
}

func TestIndexRejectsOverStoreCap(t *testing.T) {
	idx := NewIndex()
	gen := &seqGen{}
	smax := int64(5)
	if err := idx.UpdateStoreDefaults(&smax, noopDel); err != nil {
		t.Fatalf("update store defaults: %v", err)
	}

	if _, err := idx.Add(1, 10, gen.next, noopPersist, noopDel); !IsKind(err, KindExceedsStoreMax) {
		t.Fatalf("err = %v, want KindExceedsStoreMax", err)
	}
}

func TestIndexEvictsLowerPriorityToMakeRoom(t *testing.T) {
	idx := NewIndex()
	gen := &seqGen{}
	smax := int64(10)
	if err := idx.UpdateStoreDefaults(&smax, noopDel); err != nil {
		t.Fatalf("update store defaults: %v", err)
	}

	lowID, err := idx.Add(1, 6, gen.next, noopPersist, noopDel)
	if err != nil {
		t.Fatalf("seed low-priority message: %v", err)
	}

	var deleted []id.ID
	del := func(i id.ID) error { deleted = append(deleted, i); return nil }
	if _, err := idx.Add(5, 6, gen.next, noopPersist, del); err != nil {
		t.Fatalf("add higher priority: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != lowID {
		t.Fatalf("deleted = %v, want [%v]", deleted, lowID)
	}
}

func TestIndexRejectsLacksPriority(t *testing.T) {
	idx := NewIndex()
	gen := &seqGen{}
	smax := int64(10)
	if err := idx.UpdateStoreDefaults(&smax, noopDel); err != nil {
		t.Fatalf("update store defaults: %v", err)
	}
	if _, err := idx.Add(5, 6, gen.next, noopPersist, noopDel); err != nil {
		t.Fatalf("seed higher priority message: %v", err)
	}

	if _, err := idx.Add(1, 6, gen.next, noopPersist, noopDel); !IsKind(err, KindLacksPriority) {
		t.Fatalf("err = %v, want KindLacksPriority", err)
	}
}

func TestUpdateStoreDefaultsEvictsExcess(t *testing.T) {
	idx := NewIndex()
	gen := &seqGen{}
	idx.Add(1, 5, gen.next, noopPersist, noopDel)
	idx.Add(1, 5, gen.next, noopPersist, noopDel)

	smax := int64(5)
	var deleted []id.ID
	del := func(i id.ID) error { deleted = append(deleted, i); return nil }
	if err := idx.UpdateStoreDefaults(&smax, del); err != nil {
		t.Fatalf("update store defaults: %v", err)
	}
	if len(deleted) != 1 {
		t.Fatalf("deleted = %v, want exactly one eviction", deleted)
	}
	if idx.StoreInfo().ByteSize != 5 {
		t.Fatalf("byte size = %d, want 5", idx.StoreInfo().ByteSize)
	}
}

func TestDeleteGroupDefaultsNeverEvicts(t *testing.T) {
	idx := NewIndex()
	gen := &seqGen{}
	gmax := int64(100)
	idx.UpdateGroupDefaults(1, &gmax, noopDel)
	idx.Add(1, 5, gen.next, noopPersist, noopDel)

	idx.DeleteGroupDefaults(1)
	if _, ok := idx.GroupDefaultOf(1); ok {
		t.Fatalf("expected group default to be cleared")
	}
	if idx.StoreInfo().MsgCount != 1 {
		t.Fatalf("expected the resident message to survive")
	}
}

func TestRollbackUndoesAdd(t *testing.T) {
	idx := NewIndex()
	gen := &seqGen{}
	newID, err := idx.Add(1, 5, gen.next, noopPersist, noopDel)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	idx.Rollback(newID)
	if _, ok := idx.Get(nil, &newID, false); ok {
		t.Fatalf("expected rolled-back identifier to be gone")
	}
	if idx.StatsSnapshot().Inserted != 0 {
		t.Fatalf("expected Inserted to be decremented")
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	idx := NewIndex()
	gen := &seqGen{}
	firstID, _ := idx.Add(1, 5, gen.next, noopPersist, noopDel)
	secondID, _ := idx.Add(2, 7, gen.next, noopPersist, noopDel)

	exported := idx.Export()
	if len(exported) != 2 {
		t.Fatalf("exported %d entries, want 2", len(exported))
	}

	fresh := NewIndex()
	for _, e := range exported {
		fresh.Restore(e.Priority, e.ID, e.Size)
	}
	if _, ok := fresh.Get(nil, &firstID, false); !ok {
		t.Fatalf("expected restored index to contain firstID")
	}
	if _, ok := fresh.Get(nil, &secondID, false); !ok {
		t.Fatalf("expected restored index to contain secondID")
	}
}

func TestGetForwardScanReturnsHighestPriorityFirst(t *testing.T) {
	idx := NewIndex()
	gen := &seqGen{}
	idx.Add(1, 1, gen.next, noopPersist, noopDel)
	highID, _ := idx.Add(5, 1, gen.next, noopPersist, noopDel)

	got, ok := idx.Get(nil, nil, false)
	if !ok || got != highID {
		t.Fatalf("forward scan = (%v, %v), want highest priority first", got, ok)
	}
}
