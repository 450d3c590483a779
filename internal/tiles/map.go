package tiles

import (
	"fmt"

	"isotown/internal/isocoord"
	"isotown/internal/pathgraph"
)

// PlacedCallback fires after a tile has been placed; didReallocate reports
// whether the pool had to append a fresh slab slot rather than recycling a
// freed one (§4.1 "Callbacks").
type PlacedCallback func(tile *Tile, didReallocate bool)

// RemovingCallback fires just before a tile (and any blockers in its
// footprint) are removed.
type RemovingCallback func(tile *Tile)

// ResetCallback fires after the whole map has been reset/replaced.
type ResetCallback func(m *TileMap)

// TileMap owns one TilePool per layer kind (Terrain, Objects) and the three
// optional placement/removal/reset callbacks used by editor tooling and
// path-graph synchronization (§4.1).
type TileMap struct {
	Width, Height int

	layers [2]*TilePool

	OnTilePlaced  PlacedCallback
	OnRemovingTile RemovingCallback
	OnMapReset    ResetCallback
}

// New creates an empty map of the given size.
func New(width, height int) *TileMap {
	return &TileMap{
		Width:  width,
		Height: height,
		layers: [2]*TilePool{NewTilePool(width, height), NewTilePool(width, height)},
	}
}

func (m *TileMap) layer(kind LayerKind) *TilePool {
	return m.layers[kind]
}

func (m *TileMap) inBounds(c isocoord.Cell) bool {
	return c.InBounds(m.Width, m.Height)
}

// TryPlaceTileInLayer places a tile of the given def at target_cell in the
// given layer (§4.1). It fails with ErrCellOccupied, ErrOutOfBounds,
// ErrInvalidTerrainForObject, or ErrLayerMismatch without mutating the map.
func (m *TileMap) TryPlaceTileInLayer(targetCell isocoord.Cell, layerKind LayerKind, def *TileDef) (*Tile, error) {
	if !m.inBounds(targetCell) {
		return nil, fmt.Errorf("tiles: place at %+v: %w", targetCell, ErrOutOfBounds)
	}
	if def.Layer != layerKind {
		return nil, fmt.Errorf("tiles: place %q in layer %s: %w", def.Name, layerKind, ErrLayerMismatch)
	}

	footprint := isocoord.NewCellRange(targetCell, def.LogicalSizeCells)
	if footprint.End.X >= m.Width || footprint.End.Y >= m.Height {
		return nil, fmt.Errorf("tiles: footprint of %q at %+v: %w", def.Name, targetCell, ErrOutOfBounds)
	}

	pool := m.layer(layerKind)
	var occErr error
	footprint.ForEach(func(c isocoord.Cell) {
		if occErr != nil {
			return
		}
		if pool.HeadAt(c.Index(m.Width)).Valid() {
			occErr = fmt.Errorf("tiles: cell %+v: %w", c, ErrCellOccupied)
		}
	})
	if occErr != nil {
		return nil, occErr
	}

	if layerKind == LayerObjects {
		if err := m.checkTerrainCompatibility(footprint, def); err != nil {
			return nil, err
		}
	}

	slabLenBefore := len(pool.slab)

	archetype := ArchetypeTerrain
	if layerKind == LayerObjects {
		archetype = ArchetypeObject
	}

	baseIdx := pool.alloc()
	base := pool.Get(baseIdx)
	*base = Tile{
		Archetype: archetype,
		Kind:      def.Kind,
		Flags:     def.DefaultFlags,
		Def:       def,
		Layer:     layerKind,
		Cell:      targetCell,
		CellRange: footprint,
		OwnerCell: isocoord.InvalidCell,
		Handle:    GameObjectHandle{},
		IsoCached: toIsoF32(isocoord.CellToIso(targetCell)),
		SelfIndex: baseIdx,
		NextIndex: InvalidPoolIndex,
	}
	pool.setHead(targetCell.Index(m.Width), baseIdx)

	if archetype == ArchetypeObject && footprint.Size() > 1 {
		footprint.ForEach(func(c isocoord.Cell) {
			if c == targetCell {
				return
			}
			blockerIdx := pool.alloc()
			blocker := pool.Get(blockerIdx)
			*blocker = Tile{
				Archetype: ArchetypeBlocker,
				Kind:      def.Kind,
				Def:       def,
				Layer:     layerKind,
				Cell:      c,
				OwnerCell: targetCell,
				SelfIndex: blockerIdx,
				NextIndex: InvalidPoolIndex,
			}
			pool.setHead(c.Index(m.Width), blockerIdx)
		})
	}

	if m.OnTilePlaced != nil {
		m.OnTilePlaced(base, len(pool.slab) > slabLenBefore)
	}

	return base, nil
}

func toIsoF32(p isocoord.IsoPoint) isocoord.IsoPointF32 {
	return isocoord.IsoPointF32{X: float32(p.X), Y: float32(p.Y)}
}

// checkTerrainCompatibility rejects placing an object over water terrain,
// and placing a road-only object over non-road terrain (§4.1
// "try_place_tile_in_layer").
func (m *TileMap) checkTerrainCompatibility(footprint isocoord.CellRange, def *TileDef) error {
	terrain := m.layer(LayerTerrain)
	requiresRoad := def.PathKind.Has(pathgraph.NodeRoad)

	var err error
	footprint.ForEach(func(c isocoord.Cell) {
		if err != nil {
			return
		}
		head := terrain.HeadAt(c.Index(m.Width))
		if !head.Valid() {
			return
		}
		underlying := terrain.Get(head)
		if underlying.Def == nil {
			return
		}
		switch {
		case underlying.Def.PathKind.Has(pathgraph.NodeWater):
			err = fmt.Errorf("tiles: %q over water at %+v: %w", def.Name, c, ErrInvalidTerrainForObject)
		case requiresRoad && !underlying.Def.PathKind.Has(pathgraph.NodeRoad):
			err = fmt.Errorf("tiles: %q requires road terrain at %+v: %w", def.Name, c, ErrInvalidTerrainForObject)
		}
	})
	return err
}

// TryClearTileFromLayer removes the head tile (plus any stacked tiles) at a
// cell, and for multi-cell objects every blocker in its footprint (§4.1).
// It returns the removed tile's definition.
func (m *TileMap) TryClearTileFromLayer(targetCell isocoord.Cell, layerKind LayerKind) (*TileDef, error) {
	if !m.inBounds(targetCell) {
		return nil, fmt.Errorf("tiles: clear at %+v: %w", targetCell, ErrOutOfBounds)
	}
	pool := m.layer(layerKind)
	cellIdx := targetCell.Index(m.Width)
	headIdx := pool.HeadAt(cellIdx)
	if !headIdx.Valid() {
		return nil, nil
	}

	head := pool.Get(headIdx)
	if head.Archetype == ArchetypeBlocker {
		targetCell = head.OwnerCell
		cellIdx = targetCell.Index(m.Width)
		headIdx = pool.HeadAt(cellIdx)
		head = pool.Get(headIdx)
	}

	def := head.Def
	footprint := head.Range()

	if m.OnRemovingTile != nil {
		m.OnRemovingTile(head)
	}

	// Free the full stack at the base cell.
	cur := headIdx
	for cur.Valid() {
		t := pool.Get(cur)
		next := t.NextIndex
		pool.free(cur)
		cur = next
	}
	pool.setHead(cellIdx, InvalidPoolIndex)

	// Free every blocker in the footprint.
	footprint.ForEach(func(c isocoord.Cell) {
		if c == targetCell {
			return
		}
		idx := c.Index(m.Width)
		bIdx := pool.HeadAt(idx)
		if bIdx.Valid() {
			pool.free(bIdx)
			pool.setHead(idx, InvalidPoolIndex)
		}
	})

	return def, nil
}

// TryMoveTile relocates a single-cell tile into an empty destination cell
// in the same layer. It returns false without mutating the map if the move
// is invalid (multi-cell tile, occupied destination, or from == to).
func (m *TileMap) TryMoveTile(from, to isocoord.Cell, layerKind LayerKind) (bool, error) {
	if from == to {
		return false, nil
	}
	if !m.inBounds(from) || !m.inBounds(to) {
		return false, fmt.Errorf("tiles: move %+v->%+v: %w", from, to, ErrOutOfBounds)
	}
	pool := m.layer(layerKind)
	fromIdx := pool.HeadAt(from.Index(m.Width))
	if !fromIdx.Valid() {
		return false, nil
	}
	t := pool.Get(fromIdx)
	if t.Archetype == ArchetypeObject && t.Range().Size() > 1 {
		return false, nil
	}
	if pool.HeadAt(to.Index(m.Width)).Valid() {
		return false, nil
	}

	pool.setHead(from.Index(m.Width), InvalidPoolIndex)
	pool.setHead(to.Index(m.Width), fromIdx)
	t.Cell = to
	t.CellRange = isocoord.CellRange{Start: to, End: to}
	t.IsoCached = toIsoF32(isocoord.CellToIso(to))
	return true, nil
}

// TryMoveTileWithStacking moves a tile between cells in the Objects layer,
// preserving stack order at the source (middle-of-list removal) and
// pushing the moved tile onto the destination stack's head (§4.1). This is
// the only placement path that allows two tiles at the same cell.
func (m *TileMap) TryMoveTileWithStacking(fromIdx PoolIndex, fromCell, toCell isocoord.Cell) error {
	if !m.inBounds(fromCell) || !m.inBounds(toCell) {
		return fmt.Errorf("tiles: stacked move %+v->%+v: %w", fromCell, toCell, ErrOutOfBounds)
	}
	pool := m.layer(LayerObjects)

	fromCellIdx := fromCell.Index(m.Width)
	head := pool.HeadAt(fromCellIdx)
	if head == fromIdx {
		moved := pool.Get(fromIdx)
		pool.setHead(fromCellIdx, moved.NextIndex)
	} else {
		prev := head
		for prev.Valid() {
			prevTile := pool.Get(prev)
			if prevTile.NextIndex == fromIdx {
				prevTile.NextIndex = pool.Get(fromIdx).NextIndex
				break
			}
			prev = prevTile.NextIndex
		}
	}

	moved := pool.Get(fromIdx)
	moved.NextIndex = pool.HeadAt(toCell.Index(m.Width))
	moved.Cell = toCell
	moved.CellRange = isocoord.CellRange{Start: toCell, End: toCell}
	moved.IsoCached = toIsoF32(isocoord.CellToIso(toCell))
	pool.setHead(toCell.Index(m.Width), fromIdx)
	return nil
}

// RemoveTileByIndex removes exactly one tile from a cell's stack by its
// pool index, leaving the rest of the stack intact. Unlike
// TryClearTileFromLayer (which removes an entire stack plus its footprint,
// the right behavior for a building), this is the despawn path for a single
// stacked Unit tile, where the other units sharing the cell must survive.
func (m *TileMap) RemoveTileByIndex(cell isocoord.Cell, layerKind LayerKind, idx PoolIndex) error {
	if !m.inBounds(cell) {
		return fmt.Errorf("tiles: remove at %+v: %w", cell, ErrOutOfBounds)
	}
	pool := m.layer(layerKind)
	cellIdx := cell.Index(m.Width)
	head := pool.HeadAt(cellIdx)

	if m.OnRemovingTile != nil {
		if t := pool.Get(idx); t != nil {
			m.OnRemovingTile(t)
		}
	}

	if head == idx {
		pool.setHead(cellIdx, pool.Get(idx).NextIndex)
		pool.free(idx)
		return nil
	}
	prev := head
	for prev.Valid() {
		prevTile := pool.Get(prev)
		if prevTile.NextIndex == idx {
			prevTile.NextIndex = pool.Get(idx).NextIndex
			pool.free(idx)
			return nil
		}
		prev = prevTile.NextIndex
	}
	return nil
}

// TopmostTileAtCursor scans layers top-down (Objects, then Terrain),
// returning the first non-empty tile found at a cell (§4.1).
func (m *TileMap) TopmostTileAtCursor(cell isocoord.Cell) *Tile {
	if !m.inBounds(cell) {
		return nil
	}
	for _, k := range []LayerKind{LayerObjects, LayerTerrain} {
		pool := m.layer(k)
		if head := pool.HeadAt(cell.Index(m.Width)); head.Valid() {
			return pool.Get(head)
		}
	}
	return nil
}

// TileAt returns the head tile of a cell in a given layer, or nil.
func (m *TileMap) TileAt(cell isocoord.Cell, layerKind LayerKind) *Tile {
	if !m.inBounds(cell) {
		return nil
	}
	pool := m.layer(layerKind)
	if head := pool.HeadAt(cell.Index(m.Width)); head.Valid() {
		return pool.Get(head)
	}
	return nil
}

// StackAt returns every tile stacked at a cell in a layer, head first. Only
// the Units kind may have more than one entry (§3 invariant).
func (m *TileMap) StackAt(cell isocoord.Cell, layerKind LayerKind) []*Tile {
	if !m.inBounds(cell) {
		return nil
	}
	pool := m.layer(layerKind)
	var stack []*Tile
	for idx := pool.HeadAt(cell.Index(m.Width)); idx.Valid(); {
		t := pool.Get(idx)
		stack = append(stack, t)
		idx = t.NextIndex
	}
	return stack
}

// SetFlags sets flag bits on a tile, propagating to every cell of a
// building's footprint (§4.1 "Flag propagation"): Terrain sets locally,
// Object sets itself and every blocker in its range, Blocker forwards to
// its owner.
func (m *TileMap) SetFlags(tile *Tile, flags Flags) {
	switch tile.Archetype {
	case ArchetypeTerrain:
		tile.Flags |= flags
	case ArchetypeBlocker:
		if owner := m.TileAt(tile.OwnerCell, tile.Layer); owner != nil {
			m.SetFlags(owner, flags)
		}
	case ArchetypeObject:
		tile.Flags |= flags
		pool := m.layer(tile.Layer)
		tile.Range().ForEach(func(c isocoord.Cell) {
			if c == tile.Cell {
				return
			}
			if idx := pool.HeadAt(c.Index(m.Width)); idx.Valid() {
				pool.Get(idx).Flags |= flags
			}
		})
	}
}

// HasFlags reports whether a tile (resolving through a blocker's owner)
// has every bit of mask set.
func (m *TileMap) HasFlags(tile *Tile, mask Flags) bool {
	return tile.HasFlags(mask, func(owner isocoord.Cell) *Tile {
		return m.TileAt(owner, tile.Layer)
	})
}

// UpdateAnims advances animation state for every ObjectTile within the
// camera's visible cell range (§4.1 "Animation"). A frame advances once
// frame_play_time_secs >= frame_duration; looping anims wrap, non-looping
// anims clamp at the last frame.
func (m *TileMap) UpdateAnims(visibleRange isocoord.CellRange, dt float64) {
	pool := m.layer(LayerObjects)
	visibleRange.ForEach(func(c isocoord.Cell) {
		if !m.inBounds(c) {
			return
		}
		idx := pool.HeadAt(c.Index(m.Width))
		if !idx.Valid() {
			return
		}
		t := pool.Get(idx)
		if t.Archetype != ArchetypeObject || t.Def == nil || t.Cell != c {
			return
		}
		advanceAnim(t, dt)
	})
}

func advanceAnim(t *Tile, dt float64) {
	if t.Anim.VariationIndex >= len(t.Def.Variations) {
		return
	}
	variation := t.Def.Variations[t.Anim.VariationIndex]
	if t.Anim.AnimSetIndex >= len(variation.AnimSets) {
		return
	}
	animSet := variation.AnimSets[t.Anim.AnimSetIndex]
	if animSet.FrameDurationSecs <= 0 || len(animSet.Frames) == 0 {
		return
	}

	t.Anim.FramePlayTimeSecs += dt
	for t.Anim.FramePlayTimeSecs >= animSet.FrameDurationSecs {
		t.Anim.FramePlayTimeSecs -= animSet.FrameDurationSecs
		t.Anim.FrameIndex++
		if t.Anim.FrameIndex >= len(animSet.Frames) {
			if animSet.Looping {
				t.Anim.FrameIndex = 0
			} else {
				t.Anim.FrameIndex = len(animSet.Frames) - 1
				t.Anim.FramePlayTimeSecs = 0
				break
			}
		}
	}
}

// FindExactCellForPoint resolves a screen point to its precise cell (§4.1).
// It takes no layer: the diamond shape is layer-independent, so it
// delegates to isocoord.FindExactCellForPoint.
func (m *TileMap) FindExactCellForPoint(screen isocoord.IsoPointF32, transform isocoord.WorldToScreenTransform) isocoord.Cell {
	return isocoord.FindExactCellForPoint(screen, transform)
}
