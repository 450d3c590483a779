package tasks

import (
	"strings"
	"testing"
)

func TestAssertEmptyPassesWhenDrained(t *testing.T) {
	p := NewPool(4)
	id, err := p.Spawn(&Despawn{})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	p.Free(id)
	p.AssertEmpty()
}

func TestAssertEmptyPanicsOnLeak(t *testing.T) {
	p := NewPool(4)
	if _, err := p.Spawn(&Despawn{}); err != nil {
		t.Fatalf("spawn: %v", err)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected AssertEmpty to panic on a leaked task")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "Despawn") || !strings.Contains(msg, "leaked") {
			t.Fatalf("expected panic message to name the leaked task's archetype, got %v", r)
		}
	}()
	p.AssertEmpty()
}
