package store

import (
	"sort"
	"sync"

	"github.com/msg-store/msg-store/pkg/id"
)

// GroupDefault is a per-priority record carrying an optional max_byte_size
// that applies to a group even when the group is currently empty.
type GroupDefault struct {
	MaxByteSize *int64
}

// Index is the Store Index (C3): the aggregate index over every priority
// group, admission, eviction-candidate selection, and retrieval. Every
// method takes the single exclusive lock described in spec §4.3.5 for its
// duration.
type Index struct {
	mu sync.Mutex

	byteSize    int64
	maxByteSize *int64
	msgCount    int
	groupCount  int

	groups   map[uint32]*Group
	defaults map[uint32]GroupDefault
	reverse  map[id.ID]uint32

	stats Stats
}

// NewIndex returns an empty Index with no store-wide cap and no group
// defaults.
func NewIndex() *Index {
	return &Index{
		groups:   make(map[uint32]*Group),
		defaults: make(map[uint32]GroupDefault),
		reverse:  make(map[id.ID]uint32),
	}
}

// DeleteFunc requests that a backend remove the payload for identifier.
// Passed into Index methods that may evict so the deletion happens inside
// the same critical section as the index mutation it accompanies.
type DeleteFunc func(identifier id.ID) error

// effectiveGroupMaxLocked returns the current cap for priority, or nil if
// unset. Must be called with mu held.
func (idx *Index) effectiveGroupMaxLocked(priority uint32) *int64 {
	if d, ok := idx.defaults[priority]; ok {
		return d.MaxByteSize
	}
	return nil
}

// Add runs the admission algorithm (§4.3.2) for (priority, size) and, on
// success, commits the insert: persistence deletions for every pruned
// candidate, the persistence write for the new message via persist, then
// the index mutation. allocate mints the identifier; it is called only
// after admission succeeds, matching the source's ordering.
func (idx *Index) Add(
	priority uint32,
	size int64,
	allocate func(priority uint32) id.ID,
	persist func(identifier id.ID, size int64) error,
	del DeleteFunc,
) (id.ID, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	gmax := idx.effectiveGroupMaxLocked(priority)
	if gmax != nil && size > *gmax {
		return id.ID{}, newError("add", KindExceedsGroupMax, nil)
	}
	if idx.maxByteSize != nil && size > *idx.maxByteSize {
		return id.ID{}, newError("add", KindExceedsStoreMax, nil)
	}

	candidates := idx.selectEvictionCandidatesLocked(priority, size, gmax)

	for _, c := range candidates {
		if cp := idx.reverse[c]; cp > priority {
			return id.ID{}, newError("add", KindLacksPriority, nil)
		}
	}

	newID := allocate(priority)

	for _, c := range candidates {
		if err := del(c); err != nil {
			return id.ID{}, newError("add", KindPersistenceError, err)
		}
	}
	if err := persist(newID, size); err != nil {
		return id.ID{}, newError("add", KindPersistenceError, err)
	}

	for _, c := range candidates {
		idx.removeLocked(c)
	}
	idx.insertLocked(priority, newID, size)
	idx.stats.add(1, 0, uint64(len(candidates)))

	return newID, nil
}

// selectEvictionCandidatesLocked walks resident messages in eviction order
// (priority asc, then timestamp asc) accumulating candidates until the
// target group and the store would both fit (priority, size). Must be
// called with mu held; performs no mutation.
func (idx *Index) selectEvictionCandidatesLocked(targetPriority uint32, size int64, gmax *int64) []id.ID {
	var targetByteSize int64
	if g, ok := idx.groups[targetPriority]; ok {
		targetByteSize = g.ByteSize
	}

	groupOK := func(removedFromTarget int64) bool {
		return gmax == nil || targetByteSize+size-removedFromTarget <= *gmax
	}
	storeOK := func(removedTotal int64) bool {
		return idx.maxByteSize == nil || idx.byteSize+size-removedTotal <= *idx.maxByteSize
	}

	if groupOK(0) && storeOK(0) {
		return nil
	}

	var candidates []id.ID
	var removedFromTarget, removedTotal int64

	for _, p := range idx.sortedPrioritiesLocked(false) {
		g := idx.groups[p]
		for _, m := range g.members() {
			entry, _ := g.elems[m]
			sz := entry.Value.(groupEntry).size
			candidates = append(candidates, m)
			removedTotal += sz
			if p == targetPriority {
				removedFromTarget += sz
			}
			if groupOK(removedFromTarget) && storeOK(removedTotal) {
				return candidates
			}
		}
	}
	return candidates
}

// sortedPrioritiesLocked returns the priorities of every nonempty group,
// ascending if descending is false, descending otherwise. Must be called
// with mu held.
func (idx *Index) sortedPrioritiesLocked(descending bool) []uint32 {
	out := make([]uint32, 0, len(idx.groups))
	for p := range idx.groups {
		out = append(out, p)
	}
	if descending {
		sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	}
	return out
}

func (idx *Index) insertLocked(priority uint32, identifier id.ID, size int64) {
	g, ok := idx.groups[priority]
	if !ok {
		g = newGroup(priority)
		idx.groups[priority] = g
		idx.groupCount++
	}
	g.insert(identifier, size)
	idx.byteSize += size
	idx.msgCount++
	idx.reverse[identifier] = priority
}

func (idx *Index) removeLocked(identifier id.ID) {
	p, ok := idx.reverse[identifier]
	if !ok {
		return
	}
	g := idx.groups[p]
	sz, found := g.remove(identifier)
	if !found {
		return
	}
	idx.byteSize -= sz
	idx.msgCount--
	delete(idx.reverse, identifier)
	if g.empty() {
		delete(idx.groups, p)
		idx.groupCount--
	}
}

// popOldestAcrossStoreLocked removes and returns the oldest message in
// store-wide eviction order (lowest priority, then oldest). Must be called
// with mu held.
func (idx *Index) popOldestAcrossStoreLocked() (id.ID, int64, bool) {
	for _, p := range idx.sortedPrioritiesLocked(false) {
		g := idx.groups[p]
		cid, sz, ok := g.popOldest()
		if !ok {
			continue
		}
		idx.byteSize -= sz
		idx.msgCount--
		delete(idx.reverse, cid)
		if g.empty() {
			delete(idx.groups, p)
			idx.groupCount--
		}
		return cid, sz, true
	}
	return id.ID{}, 0, false
}

func (idx *Index) popOldestFromGroupLocked(priority uint32) (id.ID, int64, bool) {
	g, ok := idx.groups[priority]
	if !ok {
		return id.ID{}, 0, false
	}
	cid, sz, ok := g.popOldest()
	if !ok {
		return id.ID{}, 0, false
	}
	idx.byteSize -= sz
	idx.msgCount--
	delete(idx.reverse, cid)
	if g.empty() {
		delete(idx.groups, priority)
		idx.groupCount--
	}
	return cid, sz, true
}

// Get runs the retrieval algorithm (§4.3.3). All inputs are optional;
// identifier takes precedence over priority, which takes precedence over
// an unfiltered scan.
func (idx *Index) Get(priority *uint32, identifier *id.ID, reverse bool) (id.ID, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if identifier != nil {
		if _, ok := idx.reverse[*identifier]; ok {
			return *identifier, true
		}
		return id.ID{}, false
	}

	if priority != nil {
		g, ok := idx.groups[*priority]
		if !ok {
			return id.ID{}, false
		}
		if reverse {
			return g.peekNewest()
		}
		return g.peekOldest()
	}

	for _, p := range idx.sortedPrioritiesLocked(!reverse) {
		g := idx.groups[p]
		if reverse {
			if v, ok := g.peekNewest(); ok {
				return v, true
			}
		} else {
			if v, ok := g.peekOldest(); ok {
				return v, true
			}
		}
	}
	return id.ID{}, false
}

// Del removes identifier from the index (C3's `del`). It does not touch
// any backend; the facade is responsible for deleting the payload first.
func (idx *Index) Del(identifier id.ID) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	p, ok := idx.reverse[identifier]
	if !ok {
		return newError("del", KindNotFound, nil)
	}
	g := idx.groups[p]
	sz, found := g.remove(identifier)
	if !found {
		return newError("del", KindNotFound, nil)
	}
	idx.msgCount--
	idx.byteSize -= sz
	delete(idx.reverse, identifier)
	if g.empty() {
		delete(idx.groups, p)
		idx.groupCount--
	}
	idx.stats.add(0, 1, 0)
	return nil
}

// UpdateStoreDefaults sets the store-wide cap and, if that lowers it below
// current usage, runs the default-update eviction walk (§4.3.4) across
// every group, calling del for each evicted identifier.
func (idx *Index) UpdateStoreDefaults(maxByteSize *int64, del DeleteFunc) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.maxByteSize = maxByteSize
	if maxByteSize == nil {
		return nil
	}
	for idx.byteSize > *maxByteSize {
		cid, _, ok := idx.popOldestAcrossStoreLocked()
		if !ok {
			break
		}
		idx.stats.add(0, 0, 1)
		if err := del(cid); err != nil {
			return newError("update_store_defaults", KindPersistenceError, err)
		}
	}
	return nil
}

// UpdateGroupDefaults sets priority's cap and, if that lowers it below the
// group's current usage, evicts from that group only (§4.3.4).
func (idx *Index) UpdateGroupDefaults(priority uint32, maxByteSize *int64, del DeleteFunc) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.defaults[priority] = GroupDefault{MaxByteSize: maxByteSize}
	if maxByteSize == nil {
		return nil
	}
	for {
		g, ok := idx.groups[priority]
		if !ok || g.ByteSize <= *maxByteSize {
			break
		}
		cid, _, ok2 := idx.popOldestFromGroupLocked(priority)
		if !ok2 {
			break
		}
		idx.stats.add(0, 0, 1)
		if err := del(cid); err != nil {
			return newError("update_group_defaults", KindPersistenceError, err)
		}
	}
	return nil
}

// DeleteGroupDefaults removes priority's default. Removing a cap can only
// relax a constraint, so this never evicts.
func (idx *Index) DeleteGroupDefaults(priority uint32) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.defaults, priority)
}

// DeleteGroup removes every resident message at priority, calling del for
// each so the backend stays in sync. Deleted (not pruned) messages count
// toward stats.deleted since this is a user-initiated removal.
func (idx *Index) DeleteGroup(priority uint32, del DeleteFunc) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, ok := idx.groups[priority]; !ok {
		return newError("delete_group", KindNotFound, nil)
	}
	for {
		cid, _, ok := idx.popOldestFromGroupLocked(priority)
		if !ok {
			break
		}
		if err := del(cid); err != nil {
			return newError("delete_group", KindPersistenceError, err)
		}
		idx.stats.add(0, 1, 0)
	}
	return nil
}

// Rollback undoes a completed Add: removes identifier, refunds its size,
// and decrements inserted. Used when a blob upload fails after the index
// already committed the reservation (§5 phantom-identifier rollback).
func (idx *Index) Rollback(identifier id.ID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(identifier)
	if idx.stats.Inserted > 0 {
		idx.stats.Inserted--
	}
}

// GroupSnapshot is a point-in-time, lock-free view of one group for
// introspection.
type GroupSnapshot struct {
	Priority    uint32
	ByteSize    int64
	MaxByteSize *int64
	Count       int
	Messages    []id.ID
}

// GroupInfo returns a snapshot of priority's group and default, or false
// if the priority has neither a resident group nor a default.
func (idx *Index) GroupInfo(priority uint32, includeMessages bool) (GroupSnapshot, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	g, hasGroup := idx.groups[priority]
	_, hasDefault := idx.defaults[priority]
	if !hasGroup && !hasDefault {
		return GroupSnapshot{}, false
	}
	snap := GroupSnapshot{Priority: priority, MaxByteSize: idx.effectiveGroupMaxLocked(priority)}
	if hasGroup {
		snap.ByteSize = g.ByteSize
		snap.Count = g.len()
		if includeMessages {
			snap.Messages = g.members()
		}
	}
	return snap, true
}

// AllGroupInfo returns a snapshot of every nonempty group, highest
// priority first.
func (idx *Index) AllGroupInfo(includeMessages bool) []GroupSnapshot {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	out := make([]GroupSnapshot, 0, len(idx.groups))
	for _, p := range idx.sortedPrioritiesLocked(true) {
		g := idx.groups[p]
		snap := GroupSnapshot{
			Priority:    p,
			ByteSize:    g.ByteSize,
			MaxByteSize: idx.effectiveGroupMaxLocked(p),
			Count:       g.len(),
		}
		if includeMessages {
			snap.Messages = g.members()
		}
		out = append(out, snap)
	}
	return out
}

// GroupDefaultOf returns priority's default, or false if unset.
func (idx *Index) GroupDefaultOf(priority uint32) (GroupDefault, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	d, ok := idx.defaults[priority]
	return d, ok
}

// StoreSnapshot is a point-in-time view of the aggregate index.
type StoreSnapshot struct {
	ByteSize    int64
	MaxByteSize *int64
	MsgCount    int
	GroupCount  int
}

// StoreInfo returns a snapshot of the aggregate index.
func (idx *Index) StoreInfo() StoreSnapshot {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return StoreSnapshot{
		ByteSize:    idx.byteSize,
		MaxByteSize: idx.maxByteSize,
		MsgCount:    idx.msgCount,
		GroupCount:  idx.groupCount,
	}
}

// StatsSnapshot returns a copy of the current counters.
func (idx *Index) StatsSnapshot() Stats {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.stats
}

// SetStats overwrites any non-nil counter.
func (idx *Index) SetStats(inserted, deleted, pruned *uint64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.stats.set(inserted, deleted, pruned)
}

// AddStats adds to every counter, saturating at the numeric ceiling.
func (idx *Index) AddStats(inserted, deleted, pruned uint64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.stats.add(inserted, deleted, pruned)
}

// ResetStats zeroes every counter.
func (idx *Index) ResetStats() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.stats.reset()
}

// ExportEntry is one line of the export admin operation: an identifier's
// priority and byte size, payload excluded.
type ExportEntry struct {
	ID       id.ID
	Priority uint32
	Size     int64
}

// Export returns every resident message's identifier, priority, and size,
// in total order ascending, for operational inspection.
func (idx *Index) Export() []ExportEntry {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	out := make([]ExportEntry, 0, idx.msgCount)
	for _, p := range idx.sortedPrioritiesLocked(true) {
		g := idx.groups[p]
		for e := g.order.Front(); e != nil; e = e.Next() {
			entry := e.Value.(groupEntry)
			out = append(out, ExportEntry{ID: entry.id, Priority: p, Size: entry.size})
		}
	}
	return out
}

// Restore re-inserts a previously persisted message into the index
// without running admission, for startup recovery (§2 "on restart").
// Callers must feed records in ascending total order per priority so
// FIFO order within a group is preserved.
func (idx *Index) Restore(priority uint32, identifier id.ID, size int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.insertLocked(priority, identifier, size)
}
