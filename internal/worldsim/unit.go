package worldsim

import (
	"isotown/internal/genindex"
	"isotown/internal/isocoord"
)

// UnitId addresses a live unit (§3: "IDs carry a generation counter to
// invalidate stale handles"). Units share a single pool, unlike buildings,
// so no archetype tag is needed.
type UnitId = genindex.Index

// Unit is one entry in the world's single unit pool (§3 "World entities").
type Unit struct {
	Cell isocoord.Cell

	// Path is the remaining cells to walk, head-first; it is consumed one
	// cell at a time by re-slicing.
	Path []isocoord.Cell

	// CurrentTask is an opaque handle into the task pool (internal/tasks).
	// worldsim never interprets it; it exists so a unit can be found idle
	// (no current task) without worldsim depending on the tasks package.
	CurrentTask genindex.Index

	// Inventory is the goods a unit is carrying mid-delivery/fetch.
	Inventory map[string]int

	// Employer, if valid, is the building this unit works for (§4.7
	// "reassign its workers' employers").
	Employer BuildingId
}

// InventoryTotal sums every good a unit is carrying, used by Despawn's
// "inventory must be empty" assertion (§4.5) and by DeliverToStorage's
// "inventory now empty" completion check.
func (u *Unit) InventoryTotal() int {
	total := 0
	for _, n := range u.Inventory {
		total += n
	}
	return total
}

// GiveResources adds count units of kind to a unit's inventory.
func (u *Unit) GiveResources(kind string, count int) {
	if count <= 0 {
		return
	}
	if u.Inventory == nil {
		u.Inventory = make(map[string]int)
	}
	u.Inventory[kind] += count
}

// TakeResources removes up to count units of kind from inventory, returning
// how many were actually removed.
func (u *Unit) TakeResources(kind string, count int) int {
	if u.Inventory == nil || count <= 0 {
		return 0
	}
	have := u.Inventory[kind]
	taken := count
	if taken > have {
		taken = have
	}
	u.Inventory[kind] -= taken
	if u.Inventory[kind] == 0 {
		delete(u.Inventory, kind)
	}
	return taken
}

// HasActivePath reports whether the unit still has cells left to walk.
func (u *Unit) HasActivePath() bool { return len(u.Path) > 0 }

// AdvanceOneCell consumes the next queued cell, moving the unit onto it.
// Returns false if the path was already empty.
func (u *Unit) AdvanceOneCell() bool {
	if len(u.Path) == 0 {
		return false
	}
	u.Cell = u.Path[0]
	u.Path = u.Path[1:]
	return true
}

// SetPath replaces a unit's navigation path. The first cell is conventionally
// the unit's current cell (from FindPath); callers drop it before assigning
// here so AdvanceOneCell always makes forward progress.
func (u *Unit) SetPath(path []isocoord.Cell) {
	u.Path = path
}
