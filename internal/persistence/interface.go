// Package persistence defines the abstract contract the store index
// requires from any backing store (C4): add/get/del of opaque payload
// bytes by identifier, and an ascending-order scan for startup recovery.
// Two backends ship: memory (no durability) and pebble (an embedded
// key-value store keyed by identifier text form).
package persistence

import (
	"errors"

	"github.com/msg-store/msg-store/pkg/id"
)

// ErrNotFound is returned by Get and Del when identifier has no entry.
var ErrNotFound = errors.New("persistence: not found")

// Record is one entry produced by Fetch: an identifier and the raw bytes
// last written for it. The backend does not interpret the bytes — when
// the message was blob-backed they hold a small metadata record rather
// than the payload itself; the caller decides how to read them.
type Record struct {
	ID      id.ID
	Payload []byte
}

// Size returns the length of the persisted record, the size spec §4.4's
// fetch() reports for a plain (non-blob-backed) message.
func (r Record) Size() int64 { return int64(len(r.Payload)) }

// Backend is the capability set the index requires from a backing store.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Add durably associates identifier with payload. Overwrites any
	// existing entry for identifier.
	Add(identifier id.ID, payload []byte) error
	// Get returns the payload for identifier, or ErrNotFound.
	Get(identifier id.ID) ([]byte, error)
	// Del removes identifier's entry, or returns ErrNotFound.
	Del(identifier id.ID) error
	// Fetch returns every entry in ascending total order, for startup
	// recovery.
	Fetch() ([]Record, error)
	// Close releases any resources the backend holds open.
	Close() error
}
