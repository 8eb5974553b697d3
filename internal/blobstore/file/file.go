// Package file implements a filesystem-backed blobstore.Store, the
// file_storage option in spec §6. Each blob is a regular file named by
// the identifier's dashed text form under the configured directory; the
// original file name (if any) is recorded in a sidecar ".name" file so
// List can report it without relying on blob store internals.
package file

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/msg-store/msg-store/internal/blobstore"
	"github.com/msg-store/msg-store/pkg/id"
)

// Store is a filesystem-backed blobstore.Store.
type Store struct {
	mu  sync.Mutex
	dir string
}

var _ blobstore.Store = (*Store)(nil)

// Open returns a Store rooted at dir, creating it if necessary.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore/file: mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) blobPath(identifier id.ID) string {
	return filepath.Join(s.dir, identifier.String()+".blob")
}

func (s *Store) namePath(identifier id.ID) string {
	return filepath.Join(s.dir, identifier.String()+".name")
}

// Add streams r to a temp file then renames it into place, so a failed
// or cancelled upload never leaves a partial blob visible to Get/List.
func (s *Store) Add(identifier id.ID, name string, r io.Reader) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, identifier.String()+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("blobstore/file: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("blobstore/file: write: %w", err)
	}

	if err := os.Rename(tmpPath, s.blobPath(identifier)); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("blobstore/file: rename: %w", err)
	}

	if name != "" {
		if err := os.WriteFile(s.namePath(identifier), []byte(name), 0o644); err != nil {
			return n, fmt.Errorf("blobstore/file: write name sidecar: %w", err)
		}
	}
	return n, nil
}

func (s *Store) Get(identifier id.ID) (io.ReadCloser, error) {
	f, err := os.Open(s.blobPath(identifier))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *Store) Del(identifier id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.blobPath(identifier))
	if err != nil {
		if os.IsNotExist(err) {
			return blobstore.ErrNotFound
		}
		return err
	}
	_ = os.Remove(s.namePath(identifier))
	return nil
}

func (s *Store) List() ([]blobstore.Entry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []blobstore.Entry
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".blob") {
			continue
		}
		text := strings.TrimSuffix(e.Name(), ".blob")
		parsed, err := id.Parse(text)
		if err != nil {
			continue
		}
		name := ""
		if b, err := os.ReadFile(s.namePath(parsed)); err == nil {
			name = string(bytes.TrimSpace(b))
		}
		out = append(out, blobstore.Entry{ID: parsed, Name: name})
	}
	return out, nil
}

func (s *Store) Stat() (blobstore.Stats, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return blobstore.Stats{}, err
	}
	var stats blobstore.Stats
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".blob") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.BytesUsed += info.Size()
		stats.Count++
	}
	return stats, nil
}
