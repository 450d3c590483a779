package tasks

import (
	"isotown/internal/isocoord"
	"isotown/internal/pathgraph"
	"isotown/internal/worldsim"
)

// DeliverToStorage carries a resource from an origin building to whichever
// acceptable destination is reachable and has room (§4.5 "DeliverToStorage").
type DeliverToStorage struct {
	OriginID      worldsim.BuildingId
	OriginCell    isocoord.Cell
	OriginLink    isocoord.Cell
	AcceptedKinds worldsim.BuildingKind
	ResourceKind  string
	Count         int

	AllowProducerFallback bool
	OnOriginCompleted     func(origin *worldsim.Building)
	ChainedTask           Id

	goal     worldsim.BuildingId
	goalLink isocoord.Cell
	hasGoal  bool
}

// Initialize gives the unit the goods to carry, then searches for a
// destination (§4.5 "On initialize: give the unit the resources, then call
// try_find_goal").
func (d *DeliverToStorage) Initialize(unitID worldsim.UnitId, q *Query) {
	if u, ok := q.World.FindUnit(unitID); ok {
		u.GiveResources(d.ResourceKind, d.Count)
	}
	d.tryFindGoal(unitID, q)
}

func (d *DeliverToStorage) tryFindGoal(unitID worldsim.UnitId, q *Query) bool {
	if d.findGoalAmong(unitID, q, d.AcceptedKinds) {
		return true
	}
	if d.AllowProducerFallback {
		return d.findGoalAmong(unitID, q, worldsim.KindGenericProducer)
	}
	return false
}

func (d *DeliverToStorage) findGoalAmong(unitID worldsim.UnitId, q *Query, kinds worldsim.BuildingKind) bool {
	candidates := collectCandidates(q.World, q.Graph, kinds, d.OriginCell, func(b *worldsim.Building) int {
		return b.Receivable(d.ResourceKind)
	})

	for _, c := range candidates {
		result := q.Graph.FindPath(pathgraph.NodeRoad, d.OriginCell, c.roadLink)
		if !result.Found {
			continue
		}
		if u, ok := q.World.FindUnit(unitID); ok && len(result.Path) > 0 {
			u.SetPath(result.Path[1:])
		}
		d.goal = c.id
		d.goalLink = c.roadLink
		d.hasGoal = true
		return true
	}
	return false
}

// Update retries the goal search if none has been found yet, and completes
// once the unit reaches the destination's road link (§4.5).
func (d *DeliverToStorage) Update(unitID worldsim.UnitId, q *Query) State {
	if !d.hasGoal {
		if !d.tryFindGoal(unitID, q) {
			return StateRunning
		}
	}
	u, ok := q.World.FindUnit(unitID)
	if !ok {
		return StateTerminateAndDespawn
	}
	if u.Cell == d.goalLink && !u.HasActivePath() {
		return StateCompleted
	}
	return StateRunning
}

// Completed absorbs as much as the destination can take; if the unit is
// left holding goods, it searches again next tick (§4.5 "If inventory still
// has items → return Retry").
func (d *DeliverToStorage) Completed(unitID worldsim.UnitId, q *Query) Result {
	u, ok := q.World.FindUnit(unitID)
	if !ok {
		return Result{Kind: ResultTerminateAndDespawn}
	}
	dest, ok := q.World.FindBuilding(d.goal)
	if !ok {
		log.Warnf("deliver-to-storage: destination vanished mid-trip, searching again")
		d.hasGoal = false
		return Result{Kind: ResultRetry}
	}

	carried := u.Inventory[d.ResourceKind]
	absorbed := dest.AddResources(d.ResourceKind, carried)
	u.TakeResources(d.ResourceKind, absorbed)

	if u.InventoryTotal() == 0 {
		if d.OnOriginCompleted != nil {
			if origin, ok := q.World.FindBuilding(d.OriginID); ok {
				d.OnOriginCompleted(origin)
			}
		}
		return Result{Kind: ResultCompleted, NextTask: d.ChainedTask}
	}

	d.hasGoal = false
	return Result{Kind: ResultRetry}
}

// Terminate is a no-op: DeliverToStorage doesn't own any task other than
// the chained one, which becomes the unit's new current task rather than
// being freed here.
func (d *DeliverToStorage) Terminate(pool *Pool) {}

var _ Task = (*DeliverToStorage)(nil)
