package tasks

import (
	"sort"

	"isotown/internal/isocoord"
	"isotown/internal/pathgraph"
	"isotown/internal/worldsim"
)

// Patrol walks a unit out to a configured distance from its origin, visiting
// buildings of interest along the way, then returns (§4.5 "Patrol: walk up
// to a configured distance from the origin; visit buildings along the way;
// return. ... the contract is that it completes when the unit returns.").
//
// The route is fixed once at Initialize: every building of VisitKinds whose
// road link is within MaxDistance cells of the origin (Manhattan), nearest
// first, capped at MaxStops, with the origin's own link appended as the
// final stop.
type Patrol struct {
	OriginCell  isocoord.Cell
	OriginLink  isocoord.Cell
	VisitKinds  worldsim.BuildingKind
	MaxDistance int
	MaxStops    int
	ChainedTask Id

	waypoints []isocoord.Cell
	stop      int
	hasRoute  bool
}

// Initialize builds the waypoint list and starts walking toward the first
// stop.
func (p *Patrol) Initialize(unitID worldsim.UnitId, q *Query) {
	p.waypoints = p.collectWaypoints(q)
	p.waypoints = append(p.waypoints, p.OriginLink)
	p.stop = 0
	p.tryAdvance(unitID, q)
}

func (p *Patrol) collectWaypoints(q *Query) []isocoord.Cell {
	type stop struct {
		cell     isocoord.Cell
		distance int
	}
	var found []stop
	q.World.ForEachBuilding(p.VisitKinds, func(_ worldsim.BuildingId, b *worldsim.Building) {
		link, ok := q.Graph.FindNearestRoadLink(b.CellRange)
		if !ok {
			return
		}
		d := isocoord.ManhattanDistance(p.OriginCell, link)
		if d > p.MaxDistance {
			return
		}
		found = append(found, stop{cell: link, distance: d})
	})
	sort.SliceStable(found, func(i, j int) bool { return found[i].distance < found[j].distance })
	if len(found) > p.MaxStops {
		found = found[:p.MaxStops]
	}
	cells := make([]isocoord.Cell, len(found))
	for i, s := range found {
		cells[i] = s.cell
	}
	return cells
}

func (p *Patrol) tryAdvance(unitID worldsim.UnitId, q *Query) bool {
	u, ok := q.World.FindUnit(unitID)
	if !ok || p.stop >= len(p.waypoints) {
		return false
	}
	result := q.Graph.FindPath(pathgraph.NodeRoad, u.Cell, p.waypoints[p.stop])
	if !result.Found {
		return false
	}
	if len(result.Path) > 0 {
		u.SetPath(result.Path[1:])
	}
	p.hasRoute = true
	return true
}

// Update walks through the waypoint list one stop at a time, completing
// once the final stop (the origin's own link) is reached.
func (p *Patrol) Update(unitID worldsim.UnitId, q *Query) State {
	u, ok := q.World.FindUnit(unitID)
	if !ok {
		return StateTerminateAndDespawn
	}
	if p.stop >= len(p.waypoints) {
		return StateCompleted
	}
	if !p.hasRoute {
		if !p.tryAdvance(unitID, q) {
			return StateRunning
		}
	}
	if u.Cell == p.waypoints[p.stop] && !u.HasActivePath() {
		p.stop++
		p.hasRoute = false
		if p.stop >= len(p.waypoints) {
			return StateCompleted
		}
	}
	return StateRunning
}

// Completed just hands off to the chained task, if any.
func (p *Patrol) Completed(unitID worldsim.UnitId, q *Query) Result {
	return Result{Kind: ResultCompleted, NextTask: p.ChainedTask}
}

// Terminate is a no-op; ChainedTask becomes the unit's next task rather
// than being freed here.
func (p *Patrol) Terminate(pool *Pool) {}

var _ Task = (*Patrol)(nil)
