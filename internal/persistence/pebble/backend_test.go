package pebble

import (
	"path/filepath"
	"testing"

	"github.com/msg-store/msg-store/internal/persistence"
	"github.com/msg-store/msg-store/pkg/id"
)

func openTestBackend(t *testing.T) *Backend {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "db")
	b, err := Open(Options{DataDir: dir, Fsync: FsyncModeNever})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestOpenRequiresDataDir(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Fatalf("expected error for empty DataDir")
	}
}

func TestBackendAddGetDel(t *testing.T) {
	b := openTestBackend(t)
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

func TestBackendFetchAcrossRestart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	b, err := Open(Options{DataDir: dir, Fsync: FsyncModeAlways})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	a := id.ID{Priority: 5, TimestampMs: 1, NodeID: 1}
	c := id.ID{Priority: 1, TimestampMs: 2, NodeID: 1}
	b.Add(a, []byte("a"))
	b.Add(c, []byte("c"))
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(Options{DataDir: dir, Fsync: FsyncModeAlways})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	records, err := reopened.Fetch()
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 2 || records[0].ID != a || records[1].ID != c {
		t.Fatalf("fetch order = %+v, want highest priority first", records)
	}
}
