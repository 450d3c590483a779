package tasks

import (
	"testing"

	"isotown/internal/isocoord"
	"isotown/internal/tiles"
	"isotown/internal/worldsim"
)

func TestPatrolVisitsAndReturns(t *testing.T) {
	f := newFixture(20)
	wireRoadRun(f.graph, 5, 0, 19)
	originLink := isocoord.Cell{X: 10, Y: 4}
	stopLink := isocoord.Cell{X: 14, Y: 4}
	wireRoadLink(f.graph, originLink, isocoord.Cell{X: 10, Y: 5})
	wireRoadLink(f.graph, stopLink, isocoord.Cell{X: 14, Y: 5})

	_, err := f.world.TrySpawnBuildingWithTileDef(f.tiles, f.graph, worldsim.ArchetypeService, worldsim.KindGenericService, "well", isocoord.Cell{X: 14, Y: 3}, buildingDef(tiles.KindBuilding), worldsim.BuildingSpawnConfig{})
	if err != nil {
		t.Fatalf("spawn service: %v", err)
	}

	unitID, err := f.world.SpawnUnit(f.tiles, originLink, unitDef())
	if err != nil {
		t.Fatalf("spawn unit: %v", err)
	}

	mgr := NewManager(8)
	task := &Patrol{
		OriginCell:  originLink,
		OriginLink:  originLink,
		VisitKinds:  worldsim.KindGenericService,
		MaxDistance: 20,
		MaxStops:    4,
	}
	taskID, err := mgr.Spawn(task)
	if err != nil {
		t.Fatalf("spawn task: %v", err)
	}
	u, _ := f.world.FindUnit(unitID)
	u.CurrentTask = taskID

	q := f.query()
	for i := 0; i < 400 && !mgr.Pool().Empty(); i++ {
		f.world.UpdateUnitNavigation(f.tiles, f.graph)
		mgr.Tick(q)
	}

	if !mgr.Pool().Empty() {
		t.Fatalf("expected patrol task to complete and free, still has %d entries", mgr.Pool().Len())
	}
	if u.Cell != originLink {
		t.Fatalf("expected unit to return to origin link %+v, got %+v", originLink, u.Cell)
	}
}

func TestPatrolWithNoMatchingBuildingsStillReturns(t *testing.T) {
	f := newFixture(20)
	wireRoadRun(f.graph, 5, 0, 19)
	originLink := isocoord.Cell{X: 10, Y: 4}
	wireRoadLink(f.graph, originLink, isocoord.Cell{X: 10, Y: 5})

	unitID, err := f.world.SpawnUnit(f.tiles, originLink, unitDef())
	if err != nil {
		t.Fatalf("spawn unit: %v", err)
	}

	mgr := NewManager(8)
	task := &Patrol{
		OriginCell:  originLink,
		OriginLink:  originLink,
		VisitKinds:  worldsim.KindGenericService,
		MaxDistance: 20,
		MaxStops:    4,
	}
	taskID, err := mgr.Spawn(task)
	if err != nil {
		t.Fatalf("spawn task: %v", err)
	}
	u, _ := f.world.FindUnit(unitID)
	u.CurrentTask = taskID

	q := f.query()
	for i := 0; i < 50 && !mgr.Pool().Empty(); i++ {
		f.world.UpdateUnitNavigation(f.tiles, f.graph)
		mgr.Tick(q)
	}

	if !mgr.Pool().Empty() {
		t.Fatalf("expected patrol with no waypoints to complete immediately, still has %d entries", mgr.Pool().Len())
	}
}
