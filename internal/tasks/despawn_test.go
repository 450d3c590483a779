package tasks

import (
	"testing"

	"isotown/internal/isocoord"
)

func TestDespawnTerminatesImmediately(t *testing.T) {
	f := newFixture(8)
	unitID, err := f.world.SpawnUnit(f.tiles, isocoord.Cell{X: 1, Y: 1}, unitDef())
	if err != nil {
		t.Fatalf("spawn unit: %v", err)
	}

	mgr := NewManager(4)
	taskID, err := mgr.Spawn(&Despawn{})
	if err != nil {
		t.Fatalf("spawn task: %v", err)
	}
	u, _ := f.world.FindUnit(unitID)
	u.CurrentTask = taskID

	toDespawn := mgr.Tick(f.query())
	if len(toDespawn) != 1 || toDespawn[0].Slot != unitID.Slot {
		t.Fatalf("expected unit queued for despawn, got %+v", toDespawn)
	}
	if !mgr.Pool().Empty() {
		t.Fatalf("expected task freed, pool has %d entries", mgr.Pool().Len())
	}
	if u.CurrentTask.IsValid() {
		t.Fatalf("expected unit's task handle cleared")
	}
}

func TestDespawnWithCarriedGoodsStillTerminates(t *testing.T) {
	f := newFixture(8)
	unitID, err := f.world.SpawnUnit(f.tiles, isocoord.Cell{X: 1, Y: 1}, unitDef())
	if err != nil {
		t.Fatalf("spawn unit: %v", err)
	}
	u, _ := f.world.FindUnit(unitID)
	u.GiveResources("wheat", 2)

	mgr := NewManager(4)
	taskID, err := mgr.Spawn(&Despawn{})
	if err != nil {
		t.Fatalf("spawn task: %v", err)
	}
	u.CurrentTask = taskID

	toDespawn := mgr.Tick(f.query())
	if len(toDespawn) != 1 {
		t.Fatalf("expected the unit carrying goods to still be queued for despawn, got %+v", toDespawn)
	}
}
