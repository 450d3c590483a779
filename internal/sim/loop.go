// Package sim wires the core packages (tiles, worldsim, pathgraph, tasks)
// into the fixed-rate simulation driver described in §4.6: one Tick call
// runs animations, unit navigation, unit/building updates, and stats
// aggregation, in that order, all within a single mutation window (§5
// "Scheduling").
package sim

import (
	"isotown/internal/config"
	"isotown/internal/isocoord"
	"isotown/internal/pathgraph"
	"isotown/internal/simlog"
	"isotown/internal/tasks"
	"isotown/internal/tiles"
	"isotown/internal/worldsim"
)

var log = simlog.For("sim")

// Loop borrows the tile map, world, path graph, and task manager for the
// simulation's lifetime and drives them one tick at a time (§4.6 "the
// simulation loop borrows the tile map, world, and path graph").
type Loop struct {
	World  *worldsim.World
	Tiles  *tiles.TileMap
	Graph  *pathgraph.Graph
	Tasks  *tasks.Manager
	Config *config.Config

	// VisibleRange bounds the cells UpdateAnims walks each tick. Headless
	// hosts (tests, batch sims) can leave it at the whole-map default;
	// a rendering host narrows it to the camera's current view.
	VisibleRange isocoord.CellRange
}

// NewLoop builds a Loop with VisibleRange defaulted to the entire map.
func NewLoop(cfg *config.Config, tileMap *tiles.TileMap, graph *pathgraph.Graph, world *worldsim.World, taskMgr *tasks.Manager) *Loop {
	return &Loop{
		World:  world,
		Tiles:  tileMap,
		Graph:  graph,
		Tasks:  taskMgr,
		Config: cfg,
		VisibleRange: isocoord.CellRange{
			Start: isocoord.Cell{X: 0, Y: 0},
			End:   isocoord.Cell{X: cfg.Map.Width - 1, Y: cfg.Map.Height - 1},
		},
	}
}

// Tick advances the simulation by exactly one fixed step (§4.6 "Control
// flow per tick"): animations, then unit navigation, then unit task
// advancement, then building production, then despawns the pipeline flagged
// TerminateAndDespawn, and finally rebuilds the WorldStats snapshot.
func (l *Loop) Tick(dt float64) *worldsim.WorldStats {
	l.Tiles.UpdateAnims(l.VisibleRange, dt)
	l.World.UpdateUnitNavigation(l.Tiles, l.Graph)

	q := &tasks.Query{World: l.World, TileMap: l.Tiles, Graph: l.Graph, Config: l.Config}
	toDespawn := l.Tasks.Tick(q)

	l.World.UpdateBuildings()

	for _, unitID := range toDespawn {
		if err := l.World.DespawnUnit(l.Tiles, unitID); err != nil {
			log.Errorf("sim: despawn unit %+v: %v", unitID, err)
		}
	}

	return l.World.TallyStats()
}

// Close tears the loop down, asserting the task manager's pool was fully
// drained (§5 "Pool leak detection"). Hosts call this once, after the last
// Tick, when a simulation run ends.
func (l *Loop) Close() { l.Tasks.Close() }
