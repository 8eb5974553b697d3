package store

import (
	"container/list"

	"github.com/msg-store/msg-store/pkg/id"
)

// groupEntry is the value stored in a Group's ordered list: the resident
// identifier and the byte size it was inserted with, so remove/pop can
// adjust ByteSize without a second lookup.
type groupEntry struct {
	id   id.ID
	size int64
}

// Group is the per-priority bookkeeping unit (C2): an ordered sequence of
// resident identifiers plus their total byte size. A Group carries no
// max_byte_size of its own — the effective cap for a priority lives in
// the Index's Group Default map so it survives the Group's destruction
// when the last message leaves.
type Group struct {
	Priority uint32
	ByteSize int64

	order *list.List
	elems map[id.ID]*list.Element
}

func newGroup(priority uint32) *Group {
	return &Group{
		Priority: priority,
		order:    list.New(),
		elems:    make(map[id.ID]*list.Element),
	}
}

// insert appends id to the ordered sequence. The caller guarantees id
// sorts after every resident member of this group.
func (g *Group) insert(identifier id.ID, size int64) {
	e := g.order.PushBack(groupEntry{id: identifier, size: size})
	g.elems[identifier] = e
	g.ByteSize += size
}

// remove deletes identifier and returns its size. The second return value
// is false if identifier is not a member, in which case remove is a no-op.
func (g *Group) remove(identifier id.ID) (int64, bool) {
	e, ok := g.elems[identifier]
	if !ok {
		return 0, false
	}
	entry := e.Value.(groupEntry)
	g.order.Remove(e)
	delete(g.elems, identifier)
	g.ByteSize -= entry.size
	return entry.size, true
}

// popOldest removes and returns the oldest resident identifier.
func (g *Group) popOldest() (id.ID, int64, bool) {
	e := g.order.Front()
	if e == nil {
		return id.ID{}, 0, false
	}
	entry := e.Value.(groupEntry)
	g.order.Remove(e)
	delete(g.elems, entry.id)
	g.ByteSize -= entry.size
	return entry.id, entry.size, true
}

// peekOldest returns the oldest resident identifier without mutation.
func (g *Group) peekOldest() (id.ID, bool) {
	e := g.order.Front()
	if e == nil {
		return id.ID{}, false
	}
	return e.Value.(groupEntry).id, true
}

// peekNewest returns the newest resident identifier without mutation.
func (g *Group) peekNewest() (id.ID, bool) {
	e := g.order.Back()
	if e == nil {
		return id.ID{}, false
	}
	return e.Value.(groupEntry).id, true
}

func (g *Group) len() int      { return g.order.Len() }
func (g *Group) empty() bool   { return g.order.Len() == 0 }

// members returns every resident identifier oldest-first, for introspection
// and export. Callers must not mutate the Group while holding the result.
func (g *Group) members() []id.ID {
	out := make([]id.ID, 0, g.order.Len())
	for e := g.order.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(groupEntry).id)
	}
	return out
}
