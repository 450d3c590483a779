package tasks

import (
	"isotown/internal/genindex"
	"isotown/internal/simlog"
	"isotown/internal/worldsim"
)

var log = simlog.For("tasks")

// Manager owns the task pool and advances every unit's current task by one
// step per tick (§4.5 "UnitTaskManager").
type Manager struct {
	pool *Pool
}

// NewManager creates a manager with a fixed-capacity task pool.
func NewManager(capacity int) *Manager {
	return &Manager{pool: NewPool(capacity)}
}

// Pool exposes the underlying task pool, e.g. for a task to hand a freshly
// spawned chained task's Id back to a unit.
func (m *Manager) Pool() *Pool { return m.pool }

// Close tears the manager down, asserting every task was freed first (§5
// "Pool leak detection"). Hosts call this when a simulation run ends.
func (m *Manager) Close() { m.pool.AssertEmpty() }

// Spawn adds a new task to the pool. It does not assign it to any unit;
// callers do that by setting Unit.CurrentTask.
func (m *Manager) Spawn(t Task) (Id, error) { return m.pool.Spawn(t) }

// Tick advances every live unit's current task by exactly one step (§4.5
// "Task lifecycle per unit per tick"). It returns the units whose task
// pipeline ended in TerminateAndDespawn, for the caller to despawn — task
// advancement itself never despawns a unit, since that is the World's
// responsibility and Query carries no despawn-deferral queue of its own.
func (m *Manager) Tick(q *Query) []worldsim.UnitId {
	var toDespawn []worldsim.UnitId

	q.World.ForEachUnit(func(unitID worldsim.UnitId, u *worldsim.Unit) {
		if !u.CurrentTask.IsValid() {
			return
		}
		taskID := u.CurrentTask
		task, state, ok := m.pool.Get(taskID)
		if !ok {
			u.CurrentTask = genindex.Invalid
			return
		}

		if state == StateUninitialized {
			task.Initialize(unitID, q)
			state = StateRunning
		}

		state = task.Update(unitID, q)

		if state == StateCompleted {
			result := task.Completed(unitID, q)
			switch result.Kind {
			case ResultRetry:
				state = StateRunning
			case ResultCompleted:
				u.CurrentTask = result.NextTask
				m.pool.Free(taskID)
				return
			case ResultTerminateAndDespawn:
				u.CurrentTask = genindex.Invalid
				m.pool.Free(taskID)
				toDespawn = append(toDespawn, unitID)
				return
			}
		}

		if state == StateTerminateAndDespawn {
			u.CurrentTask = genindex.Invalid
			m.pool.Free(taskID)
			toDespawn = append(toDespawn, unitID)
			return
		}

		m.pool.setState(taskID, state)
	})

	return toDespawn
}
