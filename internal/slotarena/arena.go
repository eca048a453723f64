// Package slotarena implements a generational slot arena: a dense slice of
// values addressed by (index, generation) keys so that a key pointing at a
// freed slot can never silently alias a later allocation at the same
// index. The Virtual Workspace Manager and the Traditional/BSP layout
// systems use it to hand out VirtualWorkspaceId and LayoutId values.
package slotarena

// Key is a generational handle into an Arena. The zero Key is never valid
// (generation 0 is reserved), so a zero-valued Key can be used as a
// sentinel "no slot" value.
type Key struct {
	Index uint32
	Gen   uint32
}

// Valid reports whether k could possibly refer to a live slot.
func (k Key) Valid() bool { return k.Gen != 0 }

type slot[T any] struct {
	value    T
	gen      uint32
	occupied bool
}

// Arena is a generic generational slot arena.
type Arena[T any] struct {
	slots     []slot[T]
	freeList  []uint32
	nextGen   uint32
	liveCount int
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{nextGen: 1}
}

// Insert stores value in a free slot (reusing one from the free list when
// possible) and returns its key.
func (a *Arena[T]) Insert(value T) Key {
	gen := a.nextGen
	a.nextGen++

	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.slots[idx] = slot[T]{value: value, gen: gen, occupied: true}
		a.liveCount++
		return Key{Index: idx, Gen: gen}
	}

	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{value: value, gen: gen, occupied: true})
	a.liveCount++
	return Key{Index: idx, Gen: gen}
}

// Get returns the value for key and whether it is still live.
func (a *Arena[T]) Get(key Key) (T, bool) {
	var zero T
	if !key.Valid() || int(key.Index) >= len(a.slots) {
		return zero, false
	}
	s := a.slots[key.Index]
	if !s.occupied || s.gen != key.Gen {
		return zero, false
	}
	return s.value, true
}

// Set overwrites the value for a live key. Returns false if the key is
// stale.
func (a *Arena[T]) Set(key Key, value T) bool {
	if !key.Valid() || int(key.Index) >= len(a.slots) {
		return false
	}
	s := &a.slots[key.Index]
	if !s.occupied || s.gen != key.Gen {
		return false
	}
	s.value = value
	return true
}

// Remove frees the slot for key. Returns false if the key was already
// stale. The slot's index is recycled on a future Insert with a fresh
// generation, so any old Key referencing it stays permanently invalid.
func (a *Arena[T]) Remove(key Key) bool {
	if !key.Valid() || int(key.Index) >= len(a.slots) {
		return false
	}
	s := &a.slots[key.Index]
	if !s.occupied || s.gen != key.Gen {
		return false
	}
	var zero T
	s.value = zero
	s.occupied = false
	a.freeList = append(a.freeList, key.Index)
	a.liveCount--
	return true
}

// Len returns the number of live slots.
func (a *Arena[T]) Len() int { return a.liveCount }

// Keys returns the keys of all live slots, in index order.
func (a *Arena[T]) Keys() []Key {
	keys := make([]Key, 0, a.liveCount)
	for i, s := range a.slots {
		if s.occupied {
			keys = append(keys, Key{Index: uint32(i), Gen: s.gen})
		}
	}
	return keys
}

// Each calls fn for every live (key, value) pair, in index order.
func (a *Arena[T]) Each(fn func(Key, T)) {
	for i, s := range a.slots {
		if s.occupied {
			fn(Key{Index: uint32(i), Gen: s.gen}, s.value)
		}
	}
}
