package worldsim

import (
	"fmt"

	"isotown/internal/genindex"
	"isotown/internal/isocoord"
	"isotown/internal/pathgraph"
	"isotown/internal/tiles"
)

// World owns the four building archetype pools, the single unit pool, and
// the stats accumulator rebuilt every tick (§4.3). It cross-indexes with
// the tile map via GameObjectHandles stored on ObjectTiles, never via raw
// pointers (§9 "prefer indirection by cell + layer lookup over raw
// pointers").
type World struct {
	buildingLists [numArchetypes]*BuildingList
	units         *genindex.Pool[Unit]
	stats         *WorldStats
}

// New creates a World with fixed-capacity pools sized up front, mirroring
// the teacher's "fixed capacities sized for worst case" pooling convention.
func New(buildingCapacityPerArchetype, unitCapacity int) *World {
	w := &World{units: genindex.NewPool[Unit](unitCapacity), stats: newWorldStats()}
	for a := BuildingArchetype(0); int(a) < numArchetypes; a++ {
		w.buildingLists[a] = newBuildingList(a, buildingCapacityPerArchetype)
	}
	return w
}

// Stats returns the last tick's aggregated snapshot (§4.8).
func (w *World) Stats() *WorldStats { return w.stats }

func (w *World) buildingList(archetype BuildingArchetype) *BuildingList {
	return w.buildingLists[archetype]
}

// TrySpawnBuildingWithTileDef places a tile, then instantiates the building
// from it (§4.3 "try_spawn_building_with_tile_def"). On any failure — the
// tile can't be placed, or the archetype pool is exhausted — no mutation is
// left behind.
func (w *World) TrySpawnBuildingWithTileDef(tileMap *tiles.TileMap, graph *pathgraph.Graph, archetype BuildingArchetype, kind BuildingKind, name string, baseCell isocoord.Cell, def *tiles.TileDef, cfg BuildingSpawnConfig) (BuildingId, error) {
	tile, err := tileMap.TryPlaceTileInLayer(baseCell, tiles.LayerObjects, def)
	if err != nil {
		return BuildingId{}, fmt.Errorf("worldsim: spawn %q: %w", name, err)
	}

	building := Building{
		Kind:              kind,
		Name:              name,
		CellRange:         tile.Range(),
		Produces:          cfg.Produces,
		ProductionPerTick: cfg.ProductionPerTick,
		StockCap:          cfg.StockCap,
		Level:             cfg.Level,
		PopulationCap:     cfg.PopulationCap,
		WorkerCap:         cfg.WorkerCap,
	}

	list := w.buildingList(archetype)
	idx, err := list.Pool.Spawn(building)
	if err != nil {
		_, _ = tileMap.TryClearTileFromLayer(baseCell, tiles.LayerObjects)
		return BuildingId{}, fmt.Errorf("worldsim: spawn %q: %w", name, err)
	}

	tile.Handle = tiles.GameObjectHandle{
		ObjectKind:       tiles.ObjectHandleBuilding,
		Index:            idx.Slot,
		KindOrGeneration: uint32(archetype),
	}

	tile.Range().ForEach(func(c isocoord.Cell) { graph.SetNodeKind(c, pathgraph.NodeBuilding) })

	b, _ := list.Pool.Get(idx)
	if link, ok := graph.FindNearestRoadLink(b.CellRange); ok {
		b.RoadLink = link
	} else {
		b.RoadLink = isocoord.InvalidCell
	}

	return BuildingId{Archetype: archetype, Index: idx}, nil
}

// BuildingSpawnConfig carries the archetype-specific fields
// TrySpawnBuildingWithTileDef needs to initialize a Building, resolved by
// the caller from a TileDef name lookup against the simulation config
// (§4.3: "instantiates the building from its config").
type BuildingSpawnConfig struct {
	Produces          string
	ProductionPerTick int
	StockCap          map[string]int
	Level             int
	PopulationCap     int
	WorkerCap         int
}

// DespawnBuilding clears the building's map footprint, restores the path
// graph to Dirt, and frees its pool slot (§4.3 "despawn_building"). It
// returns ErrDesync if the building's tile is already missing, which
// indicates a handle/state desync that must not happen in normal operation.
func (w *World) DespawnBuilding(tileMap *tiles.TileMap, graph *pathgraph.Graph, id BuildingId) error {
	list := w.buildingList(id.Archetype)
	b, ok := list.Pool.Get(id.Index)
	if !ok {
		return fmt.Errorf("worldsim: despawn: %w", ErrBuildingNotFound)
	}

	baseCell := b.CellRange.Start
	if tileMap.TileAt(baseCell, tiles.LayerObjects) == nil {
		return fmt.Errorf("worldsim: despawn %q at %+v: %w", b.Name, baseCell, ErrDesync)
	}
	if _, err := tileMap.TryClearTileFromLayer(baseCell, tiles.LayerObjects); err != nil {
		return fmt.Errorf("worldsim: despawn %q: %w", b.Name, err)
	}

	b.CellRange.ForEach(func(c isocoord.Cell) { graph.SetNodeKind(c, pathgraph.NodeDirt) })

	if err := list.Pool.Despawn(id.Index); err != nil {
		return fmt.Errorf("worldsim: despawn %q: %w", b.Name, err)
	}
	return nil
}

// FindBuilding performs a generation-checked lookup (§4.3 "find_building").
func (w *World) FindBuilding(id BuildingId) (*Building, bool) {
	return w.buildingList(id.Archetype).Pool.Get(id.Index)
}

// FindBuildingForTile resolves a building from an ObjectTile's handle with
// no generation check, because the tile's existence implies liveness (§4.3
// "find_building_for_tile").
func (w *World) FindBuildingForTile(tile *tiles.Tile) (*Building, BuildingId, bool) {
	if tile == nil || tile.Handle.ObjectKind != tiles.ObjectHandleBuilding {
		return nil, BuildingId{}, false
	}
	archetype := BuildingArchetype(tile.Handle.KindOrGeneration)
	if int(archetype) >= numArchetypes {
		return nil, BuildingId{}, false
	}
	list := w.buildingList(archetype)
	b, ok := list.Pool.GetUnchecked(tile.Handle.Index)
	if !ok {
		return nil, BuildingId{}, false
	}
	// Reconstruct the generation purely for the caller's convenience; it is
	// not checked on this path.
	id := BuildingId{Archetype: archetype, Index: genindex.Index{Slot: tile.Handle.Index}}
	list.Pool.ForEach(func(idx genindex.Index, _ *Building) {
		if idx.Slot == tile.Handle.Index {
			id.Index = idx
		}
	})
	return b, id, true
}

// FindBuildingForCell resolves a building from any cell of its footprint,
// following a blocker's owner reference if necessary (§4.3
// "find_building_for_cell").
func (w *World) FindBuildingForCell(cell isocoord.Cell, tileMap *tiles.TileMap) (*Building, BuildingId, bool) {
	tile := tileMap.TileAt(cell, tiles.LayerObjects)
	if tile == nil {
		return nil, BuildingId{}, false
	}
	if tile.Archetype == tiles.ArchetypeBlocker {
		tile = tileMap.TileAt(tile.OwnerCell, tiles.LayerObjects)
	}
	return w.FindBuildingForTile(tile)
}

// FindBuildingByName performs a linear scan across every archetype pool
// (§4.3 "find_building_by_name").
func (w *World) FindBuildingByName(name string) (*Building, BuildingId, bool) {
	var found *Building
	var foundID BuildingId
	for _, list := range w.buildingLists {
		list.Pool.ForEach(func(idx genindex.Index, b *Building) {
			if found == nil && b.Name == name {
				found = b
				foundID = BuildingId{Archetype: list.Archetype, Index: idx}
			}
		})
		if found != nil {
			break
		}
	}
	return found, foundID, found != nil
}

// ForEachBuilding iterates every archetype whose pool matches, filtering
// entries by kinds (§4.3 "for_each_building").
func (w *World) ForEachBuilding(kinds BuildingKind, visit func(BuildingId, *Building)) {
	for _, list := range w.buildingLists {
		list.Pool.ForEach(func(idx genindex.Index, b *Building) {
			if b.Kind.Intersects(kinds) {
				visit(BuildingId{Archetype: list.Archetype, Index: idx}, b)
			}
		})
	}
}

// SpawnUnit places a unit tile and allocates it a pool slot (§4.3 "Unit
// API: symmetric to buildings but with a single pool").
func (w *World) SpawnUnit(tileMap *tiles.TileMap, cell isocoord.Cell, def *tiles.TileDef) (UnitId, error) {
	tile, err := tileMap.TryPlaceTileInLayer(cell, tiles.LayerObjects, def)
	if err != nil {
		return genindex.Invalid, fmt.Errorf("worldsim: spawn unit: %w", err)
	}
	idx, err := w.units.Spawn(Unit{Cell: cell})
	if err != nil {
		_, _ = tileMap.TryClearTileFromLayer(cell, tiles.LayerObjects)
		return genindex.Invalid, fmt.Errorf("worldsim: spawn unit: %w", err)
	}
	tile.Handle = tiles.GameObjectHandle{
		ObjectKind:       tiles.ObjectHandleUnit,
		Index:            idx.Slot,
		KindOrGeneration: idx.Generation,
	}
	return idx, nil
}

// DespawnUnit clears the live bit for a unit and removes exactly its own
// tile from the cell's stack, leaving any other stacked units untouched.
func (w *World) DespawnUnit(tileMap *tiles.TileMap, id UnitId) error {
	u, ok := w.units.Get(id)
	if !ok {
		return fmt.Errorf("worldsim: despawn unit: %w", ErrUnitNotFound)
	}
	for _, tile := range tileMap.StackAt(u.Cell, tiles.LayerObjects) {
		if tile.Handle.ObjectKind == tiles.ObjectHandleUnit &&
			tile.Handle.Index == id.Slot && tile.Handle.KindOrGeneration == id.Generation {
			_ = tileMap.RemoveTileByIndex(u.Cell, tiles.LayerObjects, tile.SelfIndex)
			break
		}
	}
	if err := w.units.Despawn(id); err != nil {
		return fmt.Errorf("worldsim: despawn unit: %w", err)
	}
	return nil
}

// FindUnit performs a generation-checked lookup.
func (w *World) FindUnit(id UnitId) (*Unit, bool) { return w.units.Get(id) }

// FindUnitForCell returns the first unit tile at a cell, resolved back to
// its pool entry, satisfying the "unit position coherence" invariant (§8).
func (w *World) FindUnitForCell(cell isocoord.Cell, tileMap *tiles.TileMap) (*Unit, UnitId, bool) {
	for _, tile := range tileMap.StackAt(cell, tiles.LayerObjects) {
		if tile.Handle.ObjectKind != tiles.ObjectHandleUnit {
			continue
		}
		id := genindex.Index{Slot: tile.Handle.Index, Generation: tile.Handle.KindOrGeneration}
		if u, ok := w.units.Get(id); ok {
			return u, id, true
		}
	}
	return nil, genindex.Invalid, false
}

// ForEachUnit visits every live unit in ascending slot order.
func (w *World) ForEachUnit(visit func(UnitId, *Unit)) {
	w.units.ForEach(visit)
}
