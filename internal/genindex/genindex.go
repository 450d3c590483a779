// Package genindex provides the generational-index slab pool shared by the
// building lists, the unit spawn pool, and the unit task pool (§3 "World
// entities", §9 "Generational indices"). A GenerationalIndex pairs a slot
// index with a per-slot generation counter so that a handle captured before
// a despawn/respawn cycle is detected as stale rather than silently
// resolving to the wrong occupant.
package genindex

import "errors"

// ErrPoolExhausted is returned by Spawn when every slot is occupied (§7
// PoolExhausted). Pools are fixed-capacity, sized for the worst case at
// construction, so this is expected to be rare.
var ErrPoolExhausted = errors.New("genindex: pool exhausted")

// ErrStaleHandle is returned by Despawn when the index is out of range or
// the generation does not match the slot's current occupant (§7
// StaleHandle). Get reports the same case as a failed lookup (false).
var ErrStaleHandle = errors.New("genindex: stale handle")

// ErrSlotVacant is returned by Despawn when the target slot has already
// been freed; despawning an already-vacant slot indicates a handle/state
// desync and must not happen in normal operation (§4.3 despawn_building).
var ErrSlotVacant = errors.New("genindex: slot already vacant")

// Index pairs a slot position with a generation counter.
type Index struct {
	Slot       uint32
	Generation uint32
}

// Invalid is the sentinel "no entry" index.
var Invalid = Index{Slot: ^uint32(0), Generation: 0}

// IsValid reports whether idx is not the sentinel. It does not check the
// index against a live pool; use Pool.Get for that.
func (idx Index) IsValid() bool {
	return idx.Slot != Invalid.Slot
}

type slot[T any] struct {
	value      T
	generation uint32
	alive      bool
}

// Pool is a fixed-capacity slab of T, addressed by generational Index.
// Slots are recycled in lowest-free-slot order so that spawn order is
// reproducible given the same sequence of spawns/despawns (§3 unit pool:
// "Spawning recycles the lowest free slot").
type Pool[T any] struct {
	slots []slot[T]
	live  int
}

// NewPool creates a pool with a fixed capacity.
func NewPool[T any](capacity int) *Pool[T] {
	return &Pool[T]{slots: make([]slot[T], capacity)}
}

// Cap returns the pool's fixed capacity.
func (p *Pool[T]) Cap() int { return len(p.slots) }

// Len returns the number of currently live entries.
func (p *Pool[T]) Len() int { return p.live }

// Empty reports whether the pool currently holds no live entries. Callers
// tear down a pool by asserting Empty() first (§5 "the task pool asserts
// empty on drop").
func (p *Pool[T]) Empty() bool { return p.live == 0 }

// Spawn inserts value into the lowest free slot and returns its handle.
func (p *Pool[T]) Spawn(value T) (Index, error) {
	for i := range p.slots {
		if !p.slots[i].alive {
			p.slots[i].alive = true
			p.slots[i].value = value
			p.live++
			return Index{Slot: uint32(i), Generation: p.slots[i].generation}, nil
		}
	}
	return Invalid, ErrPoolExhausted
}

// Despawn frees the slot referenced by idx, bumping its generation so any
// handle captured before the despawn becomes stale.
func (p *Pool[T]) Despawn(idx Index) error {
	if int(idx.Slot) >= len(p.slots) {
		return ErrStaleHandle
	}
	s := &p.slots[idx.Slot]
	if !s.alive {
		return ErrSlotVacant
	}
	if s.generation != idx.Generation {
		return ErrStaleHandle
	}
	var zero T
	s.value = zero
	s.alive = false
	s.generation++
	p.live--
	return nil
}

// Get performs a generation-checked lookup.
func (p *Pool[T]) Get(idx Index) (*T, bool) {
	if int(idx.Slot) >= len(p.slots) {
		return nil, false
	}
	s := &p.slots[idx.Slot]
	if !s.alive || s.generation != idx.Generation {
		return nil, false
	}
	return &s.value, true
}

// GetUnchecked returns the live value at a slot without comparing
// generations, for callers that already know the slot is live by
// construction (§4.3 find_building_for_tile: "no generation check, because
// the tile reference implies liveness").
func (p *Pool[T]) GetUnchecked(slotIdx uint32) (*T, bool) {
	if int(slotIdx) >= len(p.slots) {
		return nil, false
	}
	s := &p.slots[slotIdx]
	if !s.alive {
		return nil, false
	}
	return &s.value, true
}

// ForEach visits every live entry in ascending slot order, yielding each
// one's handle alongside a pointer to its value.
func (p *Pool[T]) ForEach(visit func(Index, *T)) {
	for i := range p.slots {
		if p.slots[i].alive {
			visit(Index{Slot: uint32(i), Generation: p.slots[i].generation}, &p.slots[i].value)
		}
	}
}
