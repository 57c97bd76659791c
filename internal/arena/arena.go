// Package arena provides a typed handle allocator: a growable sequence of
// slots, each either empty or holding a value, addressed by a dense index
// wrapped in a phantom-typed Id so that ids for different arenas cannot be
// confused at compile time.
package arena

import (
	"fmt"

	"fortio.org/safecast"
)

// Id is an opaque (index, phantom-type) handle into an Arena[T].
// Arenas start at index 0, so the zero value is the handle the first
// Reserve/Push of an arena returns; Id equality, not numeric value, is the
// contract.
type Id[T any] struct {
	index uint32
}

// RawIndex returns the underlying dense index, for debugging and for the
// cast operation below.
func (id Id[T]) RawIndex() uint32 { return id.index }

// FromRawIndex builds an Id from a raw index. Exported for decoders that
// reconstruct handles from a serialized form.
func FromRawIndex[T any](index uint32) Id[T] { return Id[T]{index: index} }

func (id Id[T]) String() string { return fmt.Sprintf("%T[%d]", *new(T), id.index) }

// Cast reinterprets id as a handle into an Arena[U] at the same index.
// Used only when two IRs share layout indices, e.g. a HIR local id and the
// MIR local id created 1:1 from it during THIR construction.
func Cast[T, U any](id Id[T]) Id[U] { return Id[U]{index: id.index} }

// Arena is a growable sequence of optional slots.
//
// Invariant: no live handle indexes an empty slot; handle equality holds
// iff index equality holds.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
}

type slot[T any] struct {
	value T
	full  bool
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Reserve allocates a slot without a value, returning its id. The slot must
// later be filled with Insert before it is read. Used to support forward
// references during multi-phase lowering.
func (a *Arena[T]) Reserve() Id[T] {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		return Id[T]{index: idx}
	}
	idx := a.nextIndex()
	a.slots = append(a.slots, slot[T]{})
	return Id[T]{index: idx}
}

// Insert fills a previously reserved (or any existing) slot with value,
// growing the backing storage if needed. Returns the previous value, if any.
func (a *Arena[T]) Insert(id Id[T], value T) (T, bool) {
	idx := int(id.index)
	if idx >= len(a.slots) {
		grown := make([]slot[T], idx+1)
		copy(grown, a.slots)
		a.slots = grown
	}
	prev := a.slots[idx]
	a.slots[idx] = slot[T]{value: value, full: true}
	return prev.value, prev.full
}

// Push inserts a value into a fresh or reused slot, returning its id.
func (a *Arena[T]) Push(value T) Id[T] {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[idx] = slot[T]{value: value, full: true}
		return Id[T]{index: idx}
	}
	idx := a.nextIndex()
	a.slots = append(a.slots, slot[T]{value: value, full: true})
	return Id[T]{index: idx}
}

// Remove empties the slot at id, freeing it for reuse, and returns the
// value that was there, if any. A removed-then-pushed index never reveals
// stale data because Push overwrites the slot outright.
func (a *Arena[T]) Remove(id Id[T]) (T, bool) {
	idx := int(id.index)
	if idx < 0 || idx >= len(a.slots) {
		var zero T
		return zero, false
	}
	s := a.slots[idx]
	if !s.full {
		var zero T
		return zero, false
	}
	a.slots[idx] = slot[T]{}
	a.free = append(a.free, uint32(idx))
	return s.value, true
}

// Get returns the value at id and whether the slot is full.
func (a *Arena[T]) Get(id Id[T]) (T, bool) {
	idx := int(id.index)
	if idx < 0 || idx >= len(a.slots) {
		var zero T
		return zero, false
	}
	s := a.slots[idx]
	return s.value, s.full
}

// MustGet returns the value at id, panicking on an empty or out-of-range
// slot. Used where the id is known-valid by construction (e.g. it was just
// reserved by the same pass).
func (a *Arena[T]) MustGet(id Id[T]) T {
	v, ok := a.Get(id)
	if !ok {
		panic(fmt.Sprintf("arena: invalid id %v", id))
	}
	return v
}

// Len returns the number of slots, full or empty, currently allocated.
func (a *Arena[T]) Len() int { return len(a.slots) }

// Keys iterates the ids of all full slots in index order.
func (a *Arena[T]) Keys(yield func(Id[T]) bool) {
	for i, s := range a.slots {
		if !s.full {
			continue
		}
		idx, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("arena: index overflow: %w", err))
		}
		if !yield(Id[T]{index: idx}) {
			return
		}
	}
}

// Values iterates the values of all full slots in index order.
func (a *Arena[T]) Values(yield func(T) bool) {
	for _, s := range a.slots {
		if !s.full {
			continue
		}
		if !yield(s.value) {
			return
		}
	}
}

// All iterates (id, value) pairs for all full slots in index order.
func (a *Arena[T]) All(yield func(Id[T], T) bool) {
	for i, s := range a.slots {
		if !s.full {
			continue
		}
		idx, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("arena: index overflow: %w", err))
		}
		if !yield(Id[T]{index: idx}, s.value) {
			return
		}
	}
}

func (a *Arena[T]) nextIndex() uint32 {
	idx, err := safecast.Conv[uint32](len(a.slots))
	if err != nil {
		panic(fmt.Errorf("arena: too many entries: %w", err))
	}
	return idx
}
