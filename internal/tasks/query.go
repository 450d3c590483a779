// Package tasks implements the unit task pool and its state-machine
// advancement (§4.5 UnitTaskManager): Despawn, Patrol, DeliverToStorage,
// and FetchFromStorage.
package tasks

import (
	"isotown/internal/config"
	"isotown/internal/pathgraph"
	"isotown/internal/tiles"
	"isotown/internal/worldsim"
)

// Query is the borrowed bundle of simulation state passed to every task
// method (§4.6 "a borrowed bundle of (world, tile_map, path_graph,
// task_manager, configs) passed immutably through update functions").
// Tasks don't receive the task Manager itself — Terminate is handed the
// owning Pool directly by the manager, so a task never needs the manager
// to free a forward-linked task it owns.
type Query struct {
	World   *worldsim.World
	TileMap *tiles.TileMap
	Graph   *pathgraph.Graph
	Config  *config.Config
}
