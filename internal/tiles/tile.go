package tiles

import "isotown/internal/isocoord"

// AnimState is the animation playback state of an ObjectTile (§4.1
// "Animation"). Terrain tiles never carry one (§3 invariant: "Terrain layer
// never contains animated tiles").
type AnimState struct {
	VariationIndex    int
	AnimSetIndex      int
	FrameIndex        int
	FramePlayTimeSecs float64
}

// Tile is a placed instance in a layer (§3 "Tiles"). It is an inline sum
// type over the three archetypes (§9): every instance carries every
// archetype's fields, but only the ones matching Archetype are meaningful.
// This keeps the hot per-tick paths (flag set, anim tick) free of the heap
// indirection a boxed per-archetype interface would cost.
type Tile struct {
	Archetype      Archetype
	Kind           Kind
	Flags          Flags
	VariationIndex uint8
	Def            *TileDef
	Layer          LayerKind

	// TerrainTile / ObjectTile: single authoritative cell (base cell for
	// objects).
	Cell isocoord.Cell

	// ObjectTile: footprint; for a 1x1 object this equals {Cell, Cell}.
	CellRange isocoord.CellRange

	// BlockerTile: the base cell of the object this blocker belongs to.
	OwnerCell isocoord.Cell

	// ObjectTile: handle back to the owning building/unit pool entry.
	Handle GameObjectHandle

	// ObjectTile: animation state; zero value for non-animated objects.
	Anim AnimState

	// TerrainTile / ObjectTile: cached projection, refreshed on place/move.
	IsoCached isocoord.IsoPointF32

	SelfIndex PoolIndex
	NextIndex PoolIndex // stacking link; InvalidPoolIndex if not stacked
}

// BaseCell returns the cell that owns this tile's identity: the tile's own
// cell for Terrain/Object, or the owner's base cell for a Blocker.
func (t *Tile) BaseCell() isocoord.Cell {
	if t.Archetype == ArchetypeBlocker {
		return t.OwnerCell
	}
	return t.Cell
}

// Range returns the tile's footprint: a single-cell range for
// Terrain/Blocker, or the stored CellRange for Object.
func (t *Tile) Range() isocoord.CellRange {
	if t.Archetype == ArchetypeObject {
		return t.CellRange
	}
	return isocoord.CellRange{Start: t.Cell, End: t.Cell}
}

// HasFlags reports whether every bit of mask is set, delegating to the
// owning ObjectTile for a Blocker (§4.1 "Flag propagation").
func (t *Tile) HasFlags(mask Flags, resolve func(owner isocoord.Cell) *Tile) bool {
	if t.Archetype == ArchetypeBlocker {
		owner := resolve(t.OwnerCell)
		if owner == nil {
			return false
		}
		return owner.Flags.Has(mask)
	}
	return t.Flags.Has(mask)
}
