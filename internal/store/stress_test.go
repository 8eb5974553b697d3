package store

import (
	"math/rand"
	"testing"
)

// TestStatsParityHoldsAcrossRandomizedAdmissions runs a long randomized
// sequence of admissions (some of which evict, some of which are rejected)
// against a capped store and checks spec invariant 5 after every step:
// inserted - deleted - pruned == msg_count, since this run never calls
// Del directly (admission-only history from an empty store).
func TestStatsParityHoldsAcrossRandomizedAdmissions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	idx := NewIndex()
	gen := &seqGen{}

	smax := int64(200)
	if err := idx.UpdateStoreDefaults(&smax, noopDel); err != nil {
		t.Fatalf("update store defaults: %v", err)
	}

	for i := 0; i < 5000; i++ {
		priority := uint32(rng.Intn(5) + 1)
		size := int64(rng.Intn(20) + 1)

		_, err := idx.Add(priority, size, gen.next, noopPersist, noopDel)
		if err != nil && !IsKind(err, KindExceedsStoreMax) && !IsKind(err, KindExceedsGroupMax) && !IsKind(err, KindLacksPriority) {
			t.Fatalf("unexpected error from Add: %v", err)
		}

		stats := idx.StatsSnapshot()
		got := int64(stats.Inserted) - int64(stats.Deleted) - int64(stats.Pruned)
		if got != int64(idx.StoreInfo().MsgCount) {
			t.Fatalf("iteration %d: inserted(%d) - deleted(%d) - pruned(%d) = %d, want msgCount %d",
				i, stats.Inserted, stats.Deleted, stats.Pruned, got, idx.StoreInfo().MsgCount)
		}
	}
}

// TestByteSizeNeverExceedsStoreCapUnderRandomAdmissions is a companion
// check (invariant 3) run over the same kind of randomized history.
func TestByteSizeNeverExceedsStoreCapUnderRandomAdmissions(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	idx := NewIndex()
	gen := &seqGen{}

	smax := int64(150)
	if err := idx.UpdateStoreDefaults(&smax, noopDel); err != nil {
		t.Fatalf("update store defaults: %v", err)
	}

	for i := 0; i < 5000; i++ {
		priority := uint32(rng.Intn(4) + 1)
		size := int64(rng.Intn(30) + 1)
		idx.Add(priority, size, gen.next, noopPersist, noopDel)

		info := idx.StoreInfo()
		if info.ByteSize > smax {
			t.Fatalf("iteration %d: byteSize %d exceeds store cap %d", i, info.ByteSize, smax)
		}
	}
}
