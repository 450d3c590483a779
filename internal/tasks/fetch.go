package tasks

import (
	"isotown/internal/genindex"
	"isotown/internal/isocoord"
	"isotown/internal/pathgraph"
	"isotown/internal/worldsim"
)

// fetchPhase tracks which leg of the round trip a FetchFromStorage is on.
type fetchPhase uint8

const (
	phaseToSource fetchPhase = iota
	phaseToOrigin
)

// FetchFromStorage sends a unit to a storage candidate, collects goods, and
// carries them back to the origin (§4.5 "FetchFromStorage": "Symmetric [to
// DeliverToStorage]. On completion at a storage candidate, collect items
// into the unit; then pathfind back to the origin's road link.").
type FetchFromStorage struct {
	OriginID     worldsim.BuildingId
	OriginCell   isocoord.Cell
	OriginLink   isocoord.Cell
	SourceKinds  worldsim.BuildingKind
	ResourceKind string
	MaxCarry     int

	OnOriginCompleted func(origin *worldsim.Building)
	ChainedTask       Id

	phase    fetchPhase
	source   worldsim.BuildingId
	hasGoal  bool
	goalLink isocoord.Cell
}

// Initialize searches for a reachable source with stock of ResourceKind
// (§4.5 "try_find_goal" analogue for the outbound leg).
func (f *FetchFromStorage) Initialize(unitID worldsim.UnitId, q *Query) {
	f.phase = phaseToSource
	f.tryFindSource(unitID, q)
}

func (f *FetchFromStorage) tryFindSource(unitID worldsim.UnitId, q *Query) bool {
	candidates := collectCandidates(q.World, q.Graph, f.SourceKinds, f.OriginCell, func(b *worldsim.Building) int {
		return b.Available(f.ResourceKind)
	})

	for _, c := range candidates {
		result := q.Graph.FindPath(pathgraph.NodeRoad, f.OriginCell, c.roadLink)
		if !result.Found {
			continue
		}
		if u, ok := q.World.FindUnit(unitID); ok && len(result.Path) > 0 {
			u.SetPath(result.Path[1:])
		}
		f.source = c.id
		f.goalLink = c.roadLink
		f.hasGoal = true
		return true
	}
	return false
}

// Update advances through the outbound leg (find source, walk there,
// collect goods) and the return leg (walk back to origin). Collection and
// the leg transition happen in Completed, matching DeliverToStorage's shape
// where Update only watches for arrival.
func (f *FetchFromStorage) Update(unitID worldsim.UnitId, q *Query) State {
	u, ok := q.World.FindUnit(unitID)
	if !ok {
		return StateTerminateAndDespawn
	}

	switch f.phase {
	case phaseToSource:
		if !f.hasGoal {
			if !f.tryFindSource(unitID, q) {
				return StateRunning
			}
		}
		if u.Cell == f.goalLink && !u.HasActivePath() {
			return StateCompleted
		}
	case phaseToOrigin:
		if !f.hasGoal {
			if !f.tryReturnToOrigin(unitID, q) {
				return StateRunning
			}
		}
		if u.Cell == f.OriginLink && !u.HasActivePath() {
			return StateCompleted
		}
	}
	return StateRunning
}

func (f *FetchFromStorage) tryReturnToOrigin(unitID worldsim.UnitId, q *Query) bool {
	result := q.Graph.FindPath(pathgraph.NodeRoad, f.goalLink, f.OriginLink)
	if !result.Found {
		return false
	}
	if u, ok := q.World.FindUnit(unitID); ok && len(result.Path) > 0 {
		u.SetPath(result.Path[1:])
	}
	f.hasGoal = true
	return true
}

// Completed handles the end of each leg: at the source, load the unit and
// turn around; at the origin, hand goods off and finish. If the origin
// vanished mid-trip, the carried goods are discarded and the task aborts
// rather than rerouting (§9 open question: "the current spec keeps
// discard").
func (f *FetchFromStorage) Completed(unitID worldsim.UnitId, q *Query) Result {
	u, ok := q.World.FindUnit(unitID)
	if !ok {
		return Result{Kind: ResultTerminateAndDespawn}
	}

	switch f.phase {
	case phaseToSource:
		src, ok := q.World.FindBuilding(f.source)
		if !ok {
			log.Warnf("fetch-from-storage: source vanished before pickup, searching again")
			f.hasGoal = false
			return Result{Kind: ResultRetry}
		}
		want := f.MaxCarry
		if have := src.Available(f.ResourceKind); have < want {
			want = have
		}
		taken := src.RemoveResources(f.ResourceKind, want)
		u.GiveResources(f.ResourceKind, taken)

		f.phase = phaseToOrigin
		f.hasGoal = false
		return Result{Kind: ResultRetry}

	case phaseToOrigin:
		origin, ok := q.World.FindBuilding(f.OriginID)
		if !ok {
			log.Errorf("fetch-from-storage: origin destroyed mid-task, discarding %d %s", u.InventoryTotal(), f.ResourceKind)
			u.Inventory = nil
			return Result{Kind: ResultCompleted, NextTask: genindex.Invalid}
		}
		origin.AddResources(f.ResourceKind, u.TakeResources(f.ResourceKind, u.Inventory[f.ResourceKind]))
		if f.OnOriginCompleted != nil {
			f.OnOriginCompleted(origin)
		}
		return Result{Kind: ResultCompleted, NextTask: f.ChainedTask}
	}

	return Result{Kind: ResultTerminateAndDespawn}
}

// Terminate is a no-op for the same reason as DeliverToStorage.Terminate:
// ChainedTask becomes the unit's next current task rather than being owned
// here.
func (f *FetchFromStorage) Terminate(pool *Pool) {}

var _ Task = (*FetchFromStorage)(nil)
