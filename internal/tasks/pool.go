package tasks

import (
	"fmt"
	"strings"

	"isotown/internal/genindex"
	"isotown/internal/worldsim"
)

// State is a task's lifecycle stage (§3 "Tasks": "a state machine with
// states {Uninitialized, Running, Completed, TerminateAndDespawn}").
type State uint8

const (
	StateUninitialized State = iota
	StateRunning
	StateCompleted
	StateTerminateAndDespawn
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateRunning:
		return "Running"
	case StateCompleted:
		return "Completed"
	case StateTerminateAndDespawn:
		return "TerminateAndDespawn"
	default:
		return "Unknown"
	}
}

// ResultKind classifies what a completed task wants to happen next (§4.5
// step 4).
type ResultKind uint8

const (
	// ResultRetry reverts the task to Running; it re-runs next tick.
	ResultRetry ResultKind = iota
	// ResultCompleted assigns NextTask (possibly invalid) as the unit's new
	// current task and frees the old one.
	ResultCompleted
	// ResultTerminateAndDespawn clears the unit's task and enqueues the
	// unit itself for despawn.
	ResultTerminateAndDespawn
)

// Result is what Task.Completed returns (§4.5: "Running is only used
// internally; never returned from completed").
type Result struct {
	Kind     ResultKind
	NextTask Id
}

// Id addresses a task in the pool (§3 "UnitTaskId = GenerationalIndex").
type Id = genindex.Index

// Task is one of the small closed set of task variants (§3, §4.5).
// Initialize runs once on the Uninitialized -> Running transition; Update
// runs every tick and returns the task's next state; Completed runs once
// per Completed state and decides what happens next; Terminate runs when
// the task is freed, letting it free any forward-linked task it owns (not
// including a NextTask it hands back to the manager — that one becomes the
// unit's new current task and is owned by the unit, not by this task).
type Task interface {
	Initialize(unit worldsim.UnitId, q *Query)
	Update(unit worldsim.UnitId, q *Query) State
	Completed(unit worldsim.UnitId, q *Query) Result
	Terminate(pool *Pool)
}

type entry struct {
	task  Task
	state State
}

// Pool is the slab-based UnitTaskPool (§3). It must be empty when torn
// down; a non-empty pool at teardown indicates a leaked task (§5 "Pool leak
// detection").
type Pool struct {
	entries *genindex.Pool[entry]
}

// NewPool creates a fixed-capacity task pool.
func NewPool(capacity int) *Pool {
	return &Pool{entries: genindex.NewPool[entry](capacity)}
}

// Spawn inserts a new task in the Uninitialized state.
func (p *Pool) Spawn(t Task) (Id, error) {
	id, err := p.entries.Spawn(entry{task: t, state: StateUninitialized})
	if err != nil {
		return genindex.Invalid, fmt.Errorf("tasks: spawn: %w", err)
	}
	return id, nil
}

// Get returns a task and its current state.
func (p *Pool) Get(id Id) (Task, State, bool) {
	e, ok := p.entries.Get(id)
	if !ok {
		return nil, 0, false
	}
	return e.task, e.state, true
}

func (p *Pool) setState(id Id, state State) {
	if e, ok := p.entries.Get(id); ok {
		e.state = state
	}
}

// Free runs a task's Terminate hook, then removes it from the pool (§4.5
// "When a task is freed, its terminate(task_pool) hook runs first").
func (p *Pool) Free(id Id) {
	e, ok := p.entries.Get(id)
	if !ok {
		return
	}
	e.task.Terminate(p)
	_ = p.entries.Despawn(id)
}

// Empty reports whether every task has been freed, the condition that must
// hold when the pool is torn down (§3 "when the pool is dropped, it must be
// empty").
func (p *Pool) Empty() bool { return p.entries.Empty() }

// Len reports the number of live tasks.
func (p *Pool) Len() int { return p.entries.Len() }

// AssertEmpty panics if any task is still live, naming each leaked entry's
// archetype (its concrete Task type), Id, and State (§5 "Pool leak
// detection": "the task pool asserts empty on drop in debug builds; a
// non-empty drop indicates a task leak and panics with the list of leaked
// tasks").
func (p *Pool) AssertEmpty() {
	if p.entries.Empty() {
		return
	}
	leaked := make([]string, 0, p.entries.Len())
	p.entries.ForEach(func(id genindex.Index, e *entry) {
		leaked = append(leaked, fmt.Sprintf("{archetype: %T, id: %+v, state: %s}", e.task, id, e.state))
	})
	panic(fmt.Sprintf("tasks: pool dropped with %d leaked task(s): %s", len(leaked), strings.Join(leaked, ", ")))
}
