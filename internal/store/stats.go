package store

import "math"

// Stats holds the store's three counters (C6). It carries no lock of its
// own: every mutation happens while the owning Index holds its exclusive
// lock, so a counter update is never observed separated from the
// operation that caused it.
type Stats struct {
	Inserted uint64
	Deleted  uint64
	Pruned   uint64
}

func (s *Stats) add(inserted, deleted, pruned uint64) {
	s.Inserted = saturatingAdd(s.Inserted, inserted)
	s.Deleted = saturatingAdd(s.Deleted, deleted)
	s.Pruned = saturatingAdd(s.Pruned, pruned)
}

func (s *Stats) set(inserted, deleted, pruned *uint64) {
	if inserted != nil {
		s.Inserted = *inserted
	}
	if deleted != nil {
		s.Deleted = *deleted
	}
	if pruned != nil {
		s.Pruned = *pruned
	}
}

func (s *Stats) reset() {
	*s = Stats{}
}

// saturatingAdd adds b to a, pinning to math.MaxUint64 on overflow rather
// than wrapping. The source leaves overflow behavior undocumented for
// updateStats({add:true}); this is the documented interpretation.
func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return math.MaxUint64
	}
	return sum
}
