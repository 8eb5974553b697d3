// Package pebble implements a persistence.Backend on top of an embedded
// key-value store, the "leveldb" database option in spec §6 (named
// generically in spec §4.4 as "a backend built on an embedded
// key-value store"). Keys are a fixed-width, byte-sortable encoding of
// the identifier (keys.go); values are whatever bytes the caller wrote
// (full payload, or a blob metadata record), per persistence.Record.
//
// Adapted from the teacher's pebblestore.DB wrapper: same fsync policy,
// same metrics hook shape, same batch-commit path.
package pebble

import (
	"context"
	"errors"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/msg-store/msg-store/internal/persistence"
	"github.com/msg-store/msg-store/pkg/id"
)

// FsyncMode defines durability behavior for write operations.
type FsyncMode int

const (
	FsyncModeUnspecified FsyncMode = iota
	// FsyncModeAlways requests a WAL fsync on each committed write.
	FsyncModeAlways
	// FsyncModeInterval enables group-commit by coalescing WAL syncs
	// within the configured interval.
	FsyncModeInterval
	// FsyncModeNever avoids forcing WAL syncs from the application.
	FsyncModeNever
)

// Options configures the pebble-backed persistence.Backend.
type Options struct {
	// DataDir is the path to the pebble database directory
	// (config key leveldb_path).
	DataDir string
	// Fsync determines when to sync the WAL.
	Fsync FsyncMode
	// FsyncInterval controls group-commit when Fsync == FsyncModeInterval.
	FsyncInterval time.Duration
	// PebbleOptions allows advanced tuning. If nil, sensible defaults are
	// used.
	PebbleOptions *pebble.Options
	// Metrics observes read/write/commit latencies and sizes. Optional.
	Metrics MetricsHook
}

// MetricsHook is a minimal hook surface for storage observations.
type MetricsHook interface {
	ObserveWrite(elapsed time.Duration, bytes int)
	ObserveRead(elapsed time.Duration, bytes int)
	ObserveBatchCommit(elapsed time.Duration, numOps int, bytes int)
}

// NoopMetrics is used when no metrics hook is provided.
type NoopMetrics struct{}

func (NoopMetrics) ObserveWrite(time.Duration, int)            {}
func (NoopMetrics) ObserveRead(time.Duration, int)             {}
func (NoopMetrics) ObserveBatchCommit(time.Duration, int, int) {}

// Backend wraps a pebble database instance, implementing
// persistence.Backend.
type Backend struct {
	inner     *pebble.DB
	writeSync bool
	metrics   MetricsHook
}

var _ persistence.Backend = (*Backend)(nil)

// Open creates or opens a pebble database with the given options.
func Open(opts Options) (*Backend, error) {
	if opts.DataDir == "" {
		return nil, errors.New("pebble: Options.DataDir is required")
	}

	po := opts.PebbleOptions
	if po == nil {
		po = &pebble.Options{}
	}

	switch opts.Fsync {
	case FsyncModeAlways:
		// Sync is requested per-commit below via pebble.Sync.
	case FsyncModeInterval:
		if opts.FsyncInterval <= 0 {
			opts.FsyncInterval = 5 * time.Millisecond
		}
		po.WALMinSyncInterval = func() time.Duration { return opts.FsyncInterval }
	case FsyncModeNever:
		// Neither WALMinSyncInterval nor per-write Sync is set.
	default:
		po.WALMinSyncInterval = func() time.Duration { return 5 * time.Millisecond }
	}

	inner, err := pebble.Open(opts.DataDir, po)
	if err != nil {
		return nil, err
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}

	return &Backend{
		inner:     inner,
		writeSync: opts.Fsync == FsyncModeAlways,
		metrics:   metrics,
	}, nil
}

// Close closes the underlying database.
func (b *Backend) Close() error {
	if b == nil || b.inner == nil {
		return nil
	}
	return b.inner.Close()
}

func (b *Backend) commit(ctx context.Context, batch *pebble.Batch) error {
	start := time.Now()
	size := batch.Len()
	defer func() { b.metrics.ObserveBatchCommit(time.Since(start), 0, size) }()

	syncMode := pebble.NoSync
	if b.writeSync {
		syncMode = pebble.Sync
	}
	return batch.Commit(syncMode)
}

// Add stores payload under identifier's byte-sortable key.
func (b *Backend) Add(identifier id.ID, payload []byte) error {
	start := time.Now()
	key := encodeKey(identifier)
	batch := b.inner.NewBatch()
	defer batch.Close()
	if err := batch.Set(key, payload, nil); err != nil {
		return err
	}
	if err := b.commit(context.Background(), batch); err != nil {
		return err
	}
	b.metrics.ObserveWrite(time.Since(start), len(payload))
	return nil
}

// Get returns the payload for identifier.
func (b *Backend) Get(identifier id.ID) ([]byte, error) {
	start := time.Now()
	key := encodeKey(identifier)
	val, closer, err := b.inner.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, persistence.ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()
	buf := append([]byte(nil), val...)
	b.metrics.ObserveRead(time.Since(start), len(buf))
	return buf, nil
}

// Del removes identifier's entry.
func (b *Backend) Del(identifier id.ID) error {
	key := encodeKey(identifier)
	if _, closer, err := b.inner.Get(key); err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return persistence.ErrNotFound
		}
		return err
	} else {
		closer.Close()
	}

	batch := b.inner.NewBatch()
	defer batch.Close()
	if err := batch.Delete(key, nil); err != nil {
		return err
	}
	return b.commit(context.Background(), batch)
}

// Fetch scans every key and returns them in ascending total order. The
// key layout is byte-sortable in that order, so a plain forward iteration
// already yields the right sequence with no in-memory sort required.
func (b *Backend) Fetch() ([]persistence.Record, error) {
	iter, err := b.inner.NewIter(nil)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []persistence.Record
	for iter.First(); iter.Valid(); iter.Next() {
		parsed, err := decodeKey(iter.Key())
		if err != nil {
			continue
		}
		out = append(out, persistence.Record{
			ID:      parsed,
			Payload: append([]byte(nil), iter.Value()...),
		})
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}

	return out, nil
}
