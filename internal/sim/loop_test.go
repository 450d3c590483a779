package sim

import (
	"testing"

	"isotown/internal/config"
	"isotown/internal/isocoord"
	"isotown/internal/pathgraph"
	"isotown/internal/tasks"
	"isotown/internal/tiles"
	"isotown/internal/worldsim"
)

func producerDef() *tiles.TileDef {
	return &tiles.TileDef{Name: "farm", Layer: tiles.LayerObjects, Kind: tiles.KindObject, LogicalSizeCells: 1}
}

func unitDef() *tiles.TileDef {
	return &tiles.TileDef{Name: "settler", Layer: tiles.LayerObjects, Kind: tiles.KindObject | tiles.KindUnit, LogicalSizeCells: 1}
}

// TestLoopTickRunsProductionNavigationAndStats exercises one full §4.6
// tick: a producer gains stock, a unit with no task just sits idle, and the
// stats snapshot reflects both.
func TestLoopTickRunsProductionNavigationAndStats(t *testing.T) {
	cfg := config.Default()
	cfg.Map = config.MapConfig{Width: 8, Height: 8}

	w := worldsim.New(8, 8)
	tm := tiles.New(8, 8)
	graph := pathgraph.New(8, 8)
	mgr := tasks.NewManager(4)

	farmID, err := w.TrySpawnBuildingWithTileDef(tm, graph, worldsim.ArchetypeProducer, worldsim.KindGenericProducer, "farm", isocoord.Cell{X: 1, Y: 1}, producerDef(), worldsim.BuildingSpawnConfig{
		Produces: "wheat", ProductionPerTick: 2, StockCap: map[string]int{"wheat": 100},
	})
	if err != nil {
		t.Fatalf("spawn producer: %v", err)
	}

	if _, err := w.SpawnUnit(tm, isocoord.Cell{X: 3, Y: 3}, unitDef()); err != nil {
		t.Fatalf("spawn unit: %v", err)
	}

	loop := NewLoop(cfg, tm, graph, w, mgr)
	if loop.VisibleRange.End != (isocoord.Cell{X: 7, Y: 7}) {
		t.Fatalf("expected default visible range to cover the whole map, got %+v", loop.VisibleRange)
	}

	stats := loop.Tick(cfg.Simulation.DeltaTime())

	farm, _ := w.FindBuilding(farmID)
	if farm.Stock["wheat"] != 2 {
		t.Fatalf("expected one tick of production, got stock %d", farm.Stock["wheat"])
	}
	if stats.Resources.Producers["wheat"] != 2 {
		t.Fatalf("expected stats to reflect producer stock, got %+v", stats.Resources.Producers)
	}
}

// TestLoopTickDespawnsTerminatedUnits confirms units whose task pipeline
// ends in TerminateAndDespawn are actually removed from the world by the
// end of the tick that discovers it.
func TestLoopTickDespawnsTerminatedUnits(t *testing.T) {
	cfg := config.Default()
	cfg.Map = config.MapConfig{Width: 8, Height: 8}

	w := worldsim.New(8, 8)
	tm := tiles.New(8, 8)
	graph := pathgraph.New(8, 8)
	mgr := tasks.NewManager(4)

	unitID, err := w.SpawnUnit(tm, isocoord.Cell{X: 2, Y: 2}, unitDef())
	if err != nil {
		t.Fatalf("spawn unit: %v", err)
	}
	taskID, err := mgr.Spawn(&tasks.Despawn{})
	if err != nil {
		t.Fatalf("spawn task: %v", err)
	}
	u, _ := w.FindUnit(unitID)
	u.CurrentTask = taskID

	loop := NewLoop(cfg, tm, graph, w, mgr)
	loop.Tick(cfg.Simulation.DeltaTime())

	if _, ok := w.FindUnit(unitID); ok {
		t.Fatalf("expected the despawn-tasked unit to be gone after one tick")
	}
}
