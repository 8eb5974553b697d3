package store

import (
	"fmt"
	"io"

	"github.com/msg-store/msg-store/internal/blobstore"
	"github.com/msg-store/msg-store/internal/persistence"
	"github.com/msg-store/msg-store/pkg/id"
	"github.com/msg-store/msg-store/pkg/log"
)

// Store is the Store Facade (C7): the public API. It owns the index
// lock (via Index), the identifier factory, and the persistence/blob
// backends, and fans results back to callers.
type Store struct {
	idx  *Index
	gen  *id.Generator
	be   persistence.Backend
	blob blobstore.Store // nil if no blob store configured
	log  log.Logger
}

// New builds a Store over an already-open persistence backend. blob may
// be nil, meaning saveToFile requests are rejected with KindNotFound
// (spec §7's "feature unavailable" case).
func New(nodeID uint16, be persistence.Backend, blob blobstore.Store, logger log.Logger) *Store {
	return &Store{
		idx:  NewIndex(),
		gen:  id.NewGenerator(nodeID),
		be:   be,
		blob: blob,
		log:  logger,
	}
}

// Recover replays every persisted record into the index, in the order
// the backend's Fetch returns them (ascending total order), rebuilding
// group FIFO order exactly. Blob-backed entries are recognized by their
// meta-record framing; their size comes from the decoded record, not the
// record's on-disk length.
func (s *Store) Recover() error {
	records, err := s.be.Fetch()
	if err != nil {
		return newError("recover", KindPersistenceError, err)
	}
	for _, rec := range records {
		size := rec.Size()
		if blobstore.IsMetaRecord(rec.Payload) {
			if decoded, _, derr := blobstore.DecodeMetaRecord(rec.Payload); derr == nil {
				size = decoded
			}
		}
		s.idx.Restore(rec.ID.Priority, rec.ID, size)
	}
	s.log.Info("recovered resident messages", log.Int("count", len(records)))
	return nil
}

// Add inserts a payload-bearing message (spec §4.3.2/§4.7). The payload
// is written through the persistence backend directly; for large
// streamed payloads use AddBlob instead.
func (s *Store) Add(priority uint32, payload []byte) (id.ID, error) {
	persistFn := func(identifier id.ID, _ int64) error {
		return s.be.Add(identifier, payload)
	}
	delFn := func(identifier id.ID) error {
		if err := s.be.Del(identifier); err != nil && err != persistence.ErrNotFound {
			return err
		}
		return nil
	}
	newID, err := s.idx.Add(priority, int64(len(payload)), s.gen.Next, persistFn, delFn)
	if err != nil {
		return id.ID{}, err
	}
	return newID, nil
}

// AddBlob runs the two-phase streaming transaction of spec §5 and §9:
// reserve-and-allocate under the index lock (using bytesizeOverride as
// the authoritative accounting size), stream r to the blob backend
// outside the lock, then commit the small persistence metadata record
// or roll the reservation back on failure.
func (s *Store) AddBlob(priority uint32, bytesizeOverride int64, name string, r io.Reader) (id.ID, error) {
	if s.blob == nil {
		return id.ID{}, newError("add_blob", KindNotFound, fmt.Errorf("blob store not configured"))
	}

	// Reservation: run admission and commit the metadata record as the
	// persisted stand-in for the real payload, inside the lock. Any
	// pruned candidates' persisted entries (and blobs, if they were
	// themselves blob-backed) are removed here too.
	meta := blobstore.EncodeMetaRecord(bytesizeOverride, name)
	persistFn := func(identifier id.ID, _ int64) error {
		return s.be.Add(identifier, meta)
	}
	delFn := func(identifier id.ID) error {
		if err := s.be.Del(identifier); err != nil && err != persistence.ErrNotFound {
			return err
		}
		if s.blob != nil {
			if err := s.blob.Del(identifier); err != nil && err != blobstore.ErrNotFound {
				return err
			}
		}
		return nil
	}
	newID, err := s.idx.Add(priority, bytesizeOverride, s.gen.Next, persistFn, delFn)
	if err != nil {
		return id.ID{}, err
	}

	// Streaming: outside the lock. A concurrent Get may observe newID and
	// then find NotFound on payload fetch — an expected race per §5.
	n, err := s.blob.Add(newID, name, r)
	if err != nil {
		s.idx.Rollback(newID)
		_ = s.be.Del(newID)
		_ = s.blob.Del(newID)
		return id.ID{}, newError("add_blob", KindBlobError, err)
	}
	if n != bytesizeOverride {
		// A short stream (e.g. the producer hung up mid-upload) leaves a
		// blob whose real size disagrees with the size already accounted
		// for in the index. io.Copy treats early EOF as success, so this
		// can only be caught here, not by the error above.
		s.idx.Rollback(newID)
		_ = s.be.Del(newID)
		_ = s.blob.Del(newID)
		return id.ID{}, newError("add_blob", KindPersistenceError, fmt.Errorf("short stream: wrote %d bytes, want %d", n, bytesizeOverride))
	}

	return newID, nil
}

// Get runs the retrieval algorithm and returns the identifier only; use
// GetPayload to also fetch the bytes.
func (s *Store) Get(priority *uint32, identifier *id.ID, reverse bool) (id.ID, bool) {
	return s.idx.Get(priority, identifier, reverse)
}

// GetPayload retrieves identifier's bytes, preferring the blob store when
// the persisted record is a meta record.
func (s *Store) GetPayload(identifier id.ID) ([]byte, error) {
	raw, err := s.be.Get(identifier)
	if err != nil {
		if err == persistence.ErrNotFound {
			return nil, newError("get", KindNotFound, nil)
		}
		return nil, newError("get", KindPersistenceError, err)
	}
	if blobstore.IsMetaRecord(raw) {
		if s.blob == nil {
			return nil, newError("get", KindBlobError, fmt.Errorf("meta record present but no blob store configured"))
		}
		rc, err := s.blob.Get(identifier)
		if err != nil {
			if err == blobstore.ErrNotFound {
				return nil, newError("get", KindNotFound, nil)
			}
			return nil, newError("get", KindBlobError, err)
		}
		defer rc.Close()
		body, err := io.ReadAll(rc)
		if err != nil {
			return nil, newError("get", KindBlobError, err)
		}
		return body, nil
	}
	return raw, nil
}

// Del removes identifier: persistence/blob first, then the index, so a
// backend failure leaves the index untouched.
func (s *Store) Del(identifier id.ID) error {
	raw, err := s.be.Get(identifier)
	if err != nil {
		if err == persistence.ErrNotFound {
			return newError("del", KindNotFound, nil)
		}
		return newError("del", KindPersistenceError, err)
	}
	if blobstore.IsMetaRecord(raw) && s.blob != nil {
		if err := s.blob.Del(identifier); err != nil && err != blobstore.ErrNotFound {
			return newError("del", KindBlobError, err)
		}
	}
	if err := s.be.Del(identifier); err != nil && err != persistence.ErrNotFound {
		return newError("del", KindPersistenceError, err)
	}
	return s.idx.Del(identifier)
}

// DeleteGroup removes every message at priority.
func (s *Store) DeleteGroup(priority uint32) error {
	return s.idx.DeleteGroup(priority, s.backendDelete)
}

func (s *Store) backendDelete(identifier id.ID) error {
	raw, err := s.be.Get(identifier)
	if err != nil && err != persistence.ErrNotFound {
		return err
	}
	if err == nil && blobstore.IsMetaRecord(raw) && s.blob != nil {
		if err := s.blob.Del(identifier); err != nil && err != blobstore.ErrNotFound {
			return err
		}
	}
	if err := s.be.Del(identifier); err != nil && err != persistence.ErrNotFound {
		return err
	}
	return nil
}

// UpdateStoreDefaults sets the store-wide cap, evicting if it lowers
// below current usage.
func (s *Store) UpdateStoreDefaults(maxByteSize *int64) error {
	return s.idx.UpdateStoreDefaults(maxByteSize, s.backendDelete)
}

// UpdateGroupDefaults sets priority's cap, evicting that group if it
// lowers below current usage.
func (s *Store) UpdateGroupDefaults(priority uint32, maxByteSize *int64) error {
	return s.idx.UpdateGroupDefaults(priority, maxByteSize, s.backendDelete)
}

// DeleteGroupDefaults removes priority's default.
func (s *Store) DeleteGroupDefaults(priority uint32) {
	s.idx.DeleteGroupDefaults(priority)
}

// GroupInfo returns priority's group/default snapshot.
func (s *Store) GroupInfo(priority uint32, includeMessages bool) (GroupSnapshot, bool) {
	return s.idx.GroupInfo(priority, includeMessages)
}

// AllGroupInfo returns every nonempty group's snapshot, highest priority
// first.
func (s *Store) AllGroupInfo(includeMessages bool) []GroupSnapshot {
	return s.idx.AllGroupInfo(includeMessages)
}

// GroupDefaultOf returns priority's default, if any.
func (s *Store) GroupDefaultOf(priority uint32) (GroupDefault, bool) {
	return s.idx.GroupDefaultOf(priority)
}

// StoreInfo returns the aggregate index snapshot.
func (s *Store) StoreInfo() StoreSnapshot {
	return s.idx.StoreInfo()
}

// Stats returns the current counters.
func (s *Store) Stats() Stats {
	return s.idx.StatsSnapshot()
}

// SetStats overwrites any non-nil counter.
func (s *Store) SetStats(inserted, deleted, pruned *uint64) {
	s.idx.SetStats(inserted, deleted, pruned)
}

// AddStats adds to every counter, saturating at the numeric ceiling.
func (s *Store) AddStats(inserted, deleted, pruned uint64) {
	s.idx.AddStats(inserted, deleted, pruned)
}

// ResetStats zeroes every counter.
func (s *Store) ResetStats() {
	s.idx.ResetStats()
}

// Export returns every resident message's identifier, priority, and size
// for operational inspection (GET /api/export).
func (s *Store) Export() []ExportEntry {
	return s.idx.Export()
}

// BlobStats reports the blob store's on-disk usage, or false if no blob
// store is configured.
func (s *Store) BlobStats() (blobstore.Stats, bool) {
	if s.blob == nil {
		return blobstore.Stats{}, false
	}
	stats, err := s.blob.Stat()
	if err != nil {
		s.log.Warn("blob stat failed", log.Err(err))
		return blobstore.Stats{}, false
	}
	return stats, true
}

// NodeID returns the node identifier this store's generator stamps onto
// every minted identifier.
func (s *Store) NodeID() uint16 { return s.gen.NodeID() }

// Close releases the persistence backend.
func (s *Store) Close() error {
	return s.be.Close()
}
