package tasks

import (
	"testing"

	"isotown/internal/isocoord"
	"isotown/internal/tiles"
	"isotown/internal/worldsim"
)

func TestDeliverToStorageHappyPath(t *testing.T) {
	f := newFixture(20)
	wireRoadRun(f.graph, 5, 0, 19)
	originLink := isocoord.Cell{X: 5, Y: 4}
	destLink := isocoord.Cell{X: 15, Y: 4}
	wireRoadLink(f.graph, originLink, isocoord.Cell{X: 5, Y: 5})
	wireRoadLink(f.graph, destLink, isocoord.Cell{X: 15, Y: 5})

	originID, err := f.world.TrySpawnBuildingWithTileDef(f.tiles, f.graph, worldsim.ArchetypeProducer, worldsim.KindGenericProducer, "farm", isocoord.Cell{X: 5, Y: 3}, buildingDef(tiles.KindBuilding), worldsim.BuildingSpawnConfig{})
	if err != nil {
		t.Fatalf("spawn origin: %v", err)
	}
	_, err = f.world.TrySpawnBuildingWithTileDef(f.tiles, f.graph, worldsim.ArchetypeStorage, worldsim.KindStorageYard, "yard", isocoord.Cell{X: 15, Y: 3}, buildingDef(tiles.KindBuilding), worldsim.BuildingSpawnConfig{StockCap: map[string]int{"wheat": 100}})
	if err != nil {
		t.Fatalf("spawn dest: %v", err)
	}

	unitID, err := f.world.SpawnUnit(f.tiles, originLink, unitDef())
	if err != nil {
		t.Fatalf("spawn unit: %v", err)
	}

	mgr := NewManager(8)
	task := &DeliverToStorage{
		OriginID:      originID,
		OriginCell:    originLink,
		OriginLink:    originLink,
		AcceptedKinds: worldsim.StorageKinds,
		ResourceKind:  "wheat",
		Count:         5,
	}
	taskID, err := mgr.Spawn(task)
	if err != nil {
		t.Fatalf("spawn task: %v", err)
	}
	u, _ := f.world.FindUnit(unitID)
	u.CurrentTask = taskID

	q := f.query()
	for i := 0; i < 200 && !mgr.Pool().Empty(); i++ {
		f.world.UpdateUnitNavigation(f.tiles, f.graph)
		mgr.Tick(q)
	}

	if !mgr.Pool().Empty() {
		t.Fatalf("expected task pool to drain, still has %d entries", mgr.Pool().Len())
	}

	dest, _, ok := f.world.FindBuildingByName("yard")
	if !ok {
		t.Fatalf("expected yard to still exist")
	}
	if dest.Stock["wheat"] != 5 {
		t.Fatalf("expected 5 wheat delivered, got %d", dest.Stock["wheat"])
	}
	if u.InventoryTotal() != 0 {
		t.Fatalf("expected unit inventory empty, got %d", u.InventoryTotal())
	}
}

func TestDeliverToStorageFallsBackToProducer(t *testing.T) {
	f := newFixture(20)
	wireRoadRun(f.graph, 5, 0, 19)
	originLink := isocoord.Cell{X: 5, Y: 4}
	destLink := isocoord.Cell{X: 15, Y: 4}
	wireRoadLink(f.graph, originLink, isocoord.Cell{X: 5, Y: 5})
	wireRoadLink(f.graph, destLink, isocoord.Cell{X: 15, Y: 5})

	originID, err := f.world.TrySpawnBuildingWithTileDef(f.tiles, f.graph, worldsim.ArchetypeProducer, worldsim.KindGenericProducer, "workshop", isocoord.Cell{X: 5, Y: 3}, buildingDef(tiles.KindBuilding), worldsim.BuildingSpawnConfig{})
	if err != nil {
		t.Fatalf("spawn origin: %v", err)
	}
	// No storage yard/granary exists at all; only another producer, reachable
	// through AllowProducerFallback.
	_, err = f.world.TrySpawnBuildingWithTileDef(f.tiles, f.graph, worldsim.ArchetypeProducer, worldsim.KindGenericProducer, "smithy", isocoord.Cell{X: 15, Y: 3}, buildingDef(tiles.KindBuilding), worldsim.BuildingSpawnConfig{StockCap: map[string]int{"tools": 50}})
	if err != nil {
		t.Fatalf("spawn fallback dest: %v", err)
	}

	unitID, err := f.world.SpawnUnit(f.tiles, originLink, unitDef())
	if err != nil {
		t.Fatalf("spawn unit: %v", err)
	}

	mgr := NewManager(8)
	task := &DeliverToStorage{
		OriginID:              originID,
		OriginCell:            originLink,
		OriginLink:            originLink,
		AcceptedKinds:         worldsim.StorageKinds,
		ResourceKind:          "tools",
		Count:                 3,
		AllowProducerFallback: true,
	}
	taskID, err := mgr.Spawn(task)
	if err != nil {
		t.Fatalf("spawn task: %v", err)
	}
	u, _ := f.world.FindUnit(unitID)
	u.CurrentTask = taskID

	q := f.query()
	for i := 0; i < 200 && !mgr.Pool().Empty(); i++ {
		f.world.UpdateUnitNavigation(f.tiles, f.graph)
		mgr.Tick(q)
	}

	if !mgr.Pool().Empty() {
		t.Fatalf("expected task pool to drain via fallback, still has %d entries", mgr.Pool().Len())
	}
	dest, _, ok := f.world.FindBuildingByName("smithy")
	if !ok || dest.Stock["tools"] != 3 {
		t.Fatalf("expected fallback producer to receive 3 tools, got %+v ok=%v", dest, ok)
	}
}
