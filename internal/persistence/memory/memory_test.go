package memory

import (
	"testing"

	"github.com/msg-store/msg-store/internal/persistence"
	"github.com/msg-store/msg-store/pkg/id"
)

func TestBackendAddGetDel(t *testing.T) {
	b := New()
	i := id.ID{Priority: 1, TimestampMs: 1, NodeID: 1}

	if err := b.Add(i, []byte("payload")); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := b.Get(i)
	if err != nil || string(got) != "payload" {
		t.Fatalf("get = (%q, %v), want (payload, nil)", got, err)
	}

	if err := b.Del(i); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := b.Get(i); err != persistence.ErrNotFound {
		t.Fatalf("get after del err = %v, want ErrNotFound", err)
	}
	if err := b.Del(i); err != persistence.ErrNotFound {
		t.Fatalf("second del err = %v, want ErrNotFound", err)
	}
}

func TestBackendGetReturnsACopy(t *testing.T) {
	b := New()
	i := id.ID{Priority: 1, TimestampMs: 1, NodeID: 1}
	original := []byte("abc")
	b.Add(i, original)
	original[0] = 'z'

	got, _ := b.Get(i)
	if string(got) != "abc" {
		t.Fatalf("get returned %q, want isolation from caller mutation", got)
	}
}

func TestBackendFetchIsSortedByTotalOrder(t *testing.T) {
	b := New()
	low := id.ID{Priority: 1, TimestampMs: 1, NodeID: 1}
	high := id.ID{Priority: 5, TimestampMs: 1, NodeID: 1}
	b.Add(low, []byte("l"))
	b.Add(high, []byte("h"))

	records, err := b.Fetch()
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 2 || records[0].ID != high || records[1].ID != low {
		t.Fatalf("fetch order = %+v, want highest priority first", records)
	}
}
