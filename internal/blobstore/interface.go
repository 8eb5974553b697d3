// Package blobstore defines the abstract contract the store facade uses
// for streamed large payloads (C5): add/get/del of a blob by identifier,
// plus list() for startup recovery. One filesystem backend ships.
package blobstore

import (
	"errors"
	"io"

	"github.com/msg-store/msg-store/pkg/id"
)

// ErrNotFound is returned by Get and Del when identifier has no blob.
var ErrNotFound = errors.New("blobstore: not found")

// Entry is one item produced by List: an identifier and the original file
// name supplied at Add time, if any.
type Entry struct {
	ID   id.ID
	Name string
}

// Store is the capability set the facade requires from a blob backend.
// Implementations must be safe for concurrent use.
type Store interface {
	// Add streams r to durable storage under identifier (and, if name is
	// non-empty, remembers it for List). Returns the number of bytes
	// actually written.
	Add(identifier id.ID, name string, r io.Reader) (int64, error)
	// Get opens identifier's blob for reading. Callers must Close it.
	Get(identifier id.ID) (io.ReadCloser, error)
	// Del removes identifier's blob, or returns ErrNotFound.
	Del(identifier id.ID) error
	// List returns every blob's identifier and name, for recovery.
	List() ([]Entry, error)
	// Stat reports aggregate usage, for the store introspection surface.
	Stat() (Stats, error)
}

// Stats summarizes a blob store's on-disk usage.
type Stats struct {
	BytesUsed int64
	Count     int
}
