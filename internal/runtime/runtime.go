package runtime

import (
	"fmt"

	"github.com/msg-store/msg-store/internal/blobstore"
	blobfile "github.com/msg-store/msg-store/internal/blobstore/file"
	"github.com/msg-store/msg-store/internal/config"
	"github.com/msg-store/msg-store/internal/persistence"
	"github.com/msg-store/msg-store/internal/persistence/memory"
	"github.com/msg-store/msg-store/internal/persistence/pebble"
	"github.com/msg-store/msg-store/internal/store"
	"github.com/msg-store/msg-store/pkg/log"
)

// Options configures a single-node msg-store instance.
type Options struct {
	Config config.Config
	Logger log.Logger
}

// Runtime wires config, persistence, an optional blob store, and the
// store facade into one object the CLI and HTTP server share.
type Runtime struct {
	cfg config.Config
	log log.Logger
	be  persistence.Backend
	st  *store.Store
}

// Open opens the configured persistence backend, opens the blob store
// if file_storage is enabled, constructs the store, recovers resident
// messages, and applies the configured store and group caps.
func Open(opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	be, err := openBackend(cfg)
	if err != nil {
		return nil, fmt.Errorf("runtime: open backend: %w", err)
	}

	var blobs blobstore.Store
	if cfg.FileStorage {
		fs, err := blobfile.Open(cfg.FileStoragePath)
		if err != nil {
			_ = be.Close()
			return nil, fmt.Errorf("runtime: open blob store: %w", err)
		}
		blobs = fs
	}

	st := store.New(cfg.NodeID, be, blobs, logger)
	if err := st.Recover(); err != nil {
		_ = be.Close()
		return nil, fmt.Errorf("runtime: recover: %w", err)
	}

	if err := applyDefaults(st, cfg); err != nil {
		_ = be.Close()
		return nil, fmt.Errorf("runtime: apply defaults: %w", err)
	}

	return &Runtime{cfg: cfg, log: logger, be: be, st: st}, nil
}

func openBackend(cfg config.Config) (persistence.Backend, error) {
	switch cfg.Database {
	case "leveldb":
		return pebble.Open(pebble.Options{DataDir: cfg.LevelDBPath, Fsync: pebble.FsyncModeAlways})
	default:
		return memory.New(), nil
	}
}

func applyDefaults(st *store.Store, cfg config.Config) error {
	if err := st.UpdateStoreDefaults(cfg.MaxByteSize); err != nil {
		return err
	}
	caps, err := cfg.GroupCaps()
	if err != nil {
		return err
	}
	for _, priority := range cfg.SortedGroupPriorities() {
		byteCap := caps[priority]
		if err := st.UpdateGroupDefaults(priority, &byteCap); err != nil {
			return err
		}
	}
	return nil
}

// Store returns the underlying store facade.
func (rt *Runtime) Store() *store.Store { return rt.st }

// Config returns the configuration the runtime was opened with.
func (rt *Runtime) Config() config.Config { return rt.cfg }

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() log.Logger { return rt.log }

// Close releases the persistence backend.
func (rt *Runtime) Close() error {
	return rt.st.Close()
}
