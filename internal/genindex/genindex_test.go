package genindex

import "testing"

func TestSpawnDespawnRecyclesLowestSlot(t *testing.T) {
	pool := NewPool[string](3)

	a, err := pool.Spawn("a")
	if err != nil {
		t.Fatalf("spawn a: %v", err)
	}
	b, err := pool.Spawn("b")
	if err != nil {
		t.Fatalf("spawn b: %v", err)
	}
	if a.Slot != 0 || b.Slot != 1 {
		t.Fatalf("expected sequential slots, got %+v %+v", a, b)
	}

	if err := pool.Despawn(a); err != nil {
		t.Fatalf("despawn a: %v", err)
	}

	c, err := pool.Spawn("c")
	if err != nil {
		t.Fatalf("spawn c: %v", err)
	}
	if c.Slot != 0 {
		t.Fatalf("expected recycled slot 0, got %d", c.Slot)
	}
	if c.Generation == a.Generation {
		t.Fatalf("expected bumped generation, got same as stale handle")
	}

	if _, ok := pool.Get(a); ok {
		t.Fatalf("stale handle a should not resolve")
	}
	if v, ok := pool.Get(c); !ok || *v != "c" {
		t.Fatalf("expected c to resolve to \"c\", got %v %v", v, ok)
	}
}

func TestPoolExhausted(t *testing.T) {
	pool := NewPool[int](1)
	if _, err := pool.Spawn(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := pool.Spawn(2); err != ErrPoolExhausted {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}
}

func TestDespawnVacantSlot(t *testing.T) {
	pool := NewPool[int](1)
	idx, _ := pool.Spawn(1)
	if err := pool.Despawn(idx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := pool.Despawn(idx); err != ErrSlotVacant {
		t.Fatalf("expected ErrSlotVacant, got %v", err)
	}
}

func TestEmptyAndForEach(t *testing.T) {
	pool := NewPool[int](4)
	if !pool.Empty() {
		t.Fatalf("fresh pool should be empty")
	}
	i1, _ := pool.Spawn(10)
	_, _ = pool.Spawn(20)
	pool.Despawn(i1)

	var seen []int
	pool.ForEach(func(idx Index, v *int) { seen = append(seen, *v) })
	if len(seen) != 1 || seen[0] != 20 {
		t.Fatalf("expected only live entry 20, got %v", seen)
	}
}
