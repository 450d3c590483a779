package worldsim

import (
	"isotown/internal/genindex"
	"isotown/internal/isocoord"
	"isotown/internal/pathgraph"
	"isotown/internal/tiles"
)

// UpdateUnitNavigation advances every live unit one cell along its active
// path, independent of any other entity (§4.3 "update_unit_navigation":
// "every live unit advances its position along its path without touching
// other entities"). This must run before UpdateBuildings/task advancement
// so that pathing resolves to its new cell before anything reads unit
// positions (§4.3 "two-pass design"). Every successful step also relocates
// the unit's ObjectTile in tileMap's stacking index, keeping
// find_unit_for_cell coherent with Unit.Cell (§8 "unit position
// coherence").
func (w *World) UpdateUnitNavigation(tileMap *tiles.TileMap, graph *pathgraph.Graph) {
	w.units.ForEach(func(id genindex.Index, u *Unit) {
		if !u.HasActivePath() {
			return
		}
		from := u.Cell
		if !u.AdvanceOneCell() {
			return
		}
		w.moveUnitTile(tileMap, id, from, u.Cell)
	})
}

// moveUnitTile relocates id's ObjectTile from -> to via the stacking move
// path, the same one DespawnUnit/FindUnitForCell rely on to resolve a unit
// back from its tile (§4.1 "stacking is the only placement path that allows
// two tiles at the same cell").
func (w *World) moveUnitTile(tileMap *tiles.TileMap, id genindex.Index, from, to isocoord.Cell) {
	for _, tile := range tileMap.StackAt(from, tiles.LayerObjects) {
		if tile.Handle.ObjectKind == tiles.ObjectHandleUnit &&
			tile.Handle.Index == id.Slot && tile.Handle.KindOrGeneration == id.Generation {
			_ = tileMap.TryMoveTileWithStacking(tile.SelfIndex, from, to)
			return
		}
	}
}

// UpdateBuildings runs the production tick for every building, in the
// fixed archetype order {Producer, Storage, Service, House} (§5 "Ordering
// guarantees").
func (w *World) UpdateBuildings() {
	for _, list := range w.buildingLists {
		list.Pool.ForEach(func(_ genindex.Index, b *Building) {
			if list.Archetype == ArchetypeProducer && b.Produces != "" && b.ProductionPerTick > 0 {
				b.AddResources(b.Produces, b.ProductionPerTick)
			}
		})
	}
}

// TallyStats rebuilds the WorldStats snapshot from the current pool
// contents (§4.3 "the stats accumulator is reset at the start", §4.8).
func (w *World) TallyStats() *WorldStats {
	w.stats.reset()

	w.units.ForEach(func(_ genindex.Index, u *Unit) {
		for kind, count := range u.Inventory {
			w.stats.AddUnitResources(kind, count)
		}
	})

	firstHouse := true
	for _, list := range w.buildingLists {
		list.Pool.ForEach(func(_ genindex.Index, b *Building) {
			w.stats.Workers += len(b.Workers) + len(b.Employees)

			switch {
			case list.Archetype == ArchetypeHouse:
				w.stats.Population += b.Population
				for kind, count := range b.Stock {
					w.stats.AddHouseResources(kind, count)
				}
				w.stats.observeHouseLevel(b.Level, firstHouse)
				firstHouse = false
			case list.Archetype == ArchetypeStorage && b.Kind.Has(KindGranary):
				for kind, count := range b.Stock {
					w.stats.AddGranaryResources(kind, count)
				}
			case list.Archetype == ArchetypeStorage:
				for kind, count := range b.Stock {
					w.stats.AddStorageYardResources(kind, count)
				}
			case list.Archetype == ArchetypeService && b.Kind.Has(KindMarket):
				for kind, count := range b.Stock {
					w.stats.AddMarketResources(kind, count)
				}
			case list.Archetype == ArchetypeService:
				for kind, count := range b.Stock {
					w.stats.AddServiceResources(kind, count)
				}
			case list.Archetype == ArchetypeProducer:
				for kind, count := range b.Stock {
					w.stats.AddProducerResources(kind, count)
				}
			}
		})
	}

	return w.stats
}
