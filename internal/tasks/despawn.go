package tasks

import "isotown/internal/worldsim"

// Despawn asserts the unit's inventory is empty, then terminates it (§4.5
// "Despawn: asserts the unit's inventory is empty, then returns
// TerminateAndDespawn.").
type Despawn struct{}

// Initialize does nothing; the assertion runs in Update so it's checked
// against live state at the moment the task actually runs.
func (d *Despawn) Initialize(unitID worldsim.UnitId, q *Query) {}

// Update asserts an empty inventory and terminates the unit immediately.
func (d *Despawn) Update(unitID worldsim.UnitId, q *Query) State {
	if u, ok := q.World.FindUnit(unitID); ok && u.InventoryTotal() != 0 {
		log.Errorf("despawn: unit %v still carries %d goods", unitID, u.InventoryTotal())
	}
	return StateTerminateAndDespawn
}

// Completed is never reached: Update always returns TerminateAndDespawn
// directly.
func (d *Despawn) Completed(unitID worldsim.UnitId, q *Query) Result {
	return Result{Kind: ResultTerminateAndDespawn}
}

// Terminate is a no-op; Despawn owns no other task.
func (d *Despawn) Terminate(pool *Pool) {}

var _ Task = (*Despawn)(nil)
