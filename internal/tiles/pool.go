package tiles

import "math"

// PoolIndex addresses a Tile within a TilePool's slab (§3 "Tile pool").
type PoolIndex uint32

// InvalidPoolIndex is the sentinel "no tile" index.
const InvalidPoolIndex PoolIndex = math.MaxUint32

// Valid reports whether idx is not the sentinel.
func (idx PoolIndex) Valid() bool { return idx != InvalidPoolIndex }

// ObjectHandleKind selects which kind of pool a TileGameObjectHandle
// addresses.
type ObjectHandleKind uint8

const (
	ObjectHandleBuilding ObjectHandleKind = iota
	ObjectHandleUnit
)

// GameObjectHandle is the handle an ObjectTile carries back to its owning
// pool entry (§3 "TileGameObjectHandle"). For buildings, KindOrGeneration
// holds the building archetype that selects which of the four archetype
// pools owns the entry; for units it holds the generation counter, since
// there is a single unit pool.
type GameObjectHandle struct {
	ObjectKind       ObjectHandleKind
	Index            uint32
	KindOrGeneration uint32
}

// TilePool is a dense cell-index plus a free-list slab of Tile entries
// (§3 "Tile pool"). Stacked tiles (Objects layer only) form a singly linked
// list through a tile's NextIndex.
type TilePool struct {
	width, height int
	cellToHead    []PoolIndex
	slab          []Tile
	freeList      []PoolIndex
}

// NewTilePool creates an empty pool sized for a width x height grid.
func NewTilePool(width, height int) *TilePool {
	heads := make([]PoolIndex, width*height)
	for i := range heads {
		heads[i] = InvalidPoolIndex
	}
	return &TilePool{width: width, height: height, cellToHead: heads}
}

// alloc returns a free slab slot, growing the slab if the free list is
// empty.
func (p *TilePool) alloc() PoolIndex {
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return idx
	}
	p.slab = append(p.slab, Tile{})
	return PoolIndex(len(p.slab) - 1)
}

// free returns a slab slot to the free list.
func (p *TilePool) free(idx PoolIndex) {
	p.slab[idx] = Tile{}
	p.freeList = append(p.freeList, idx)
}

// Get returns a pointer to the tile at idx.
func (p *TilePool) Get(idx PoolIndex) *Tile {
	return &p.slab[idx]
}

// HeadAt returns the head-of-stack index for a cell, or InvalidPoolIndex if
// the cell is empty.
func (p *TilePool) HeadAt(cellIndex int) PoolIndex {
	return p.cellToHead[cellIndex]
}

// setHead rewrites the head-of-stack index for a cell.
func (p *TilePool) setHead(cellIndex int, idx PoolIndex) {
	p.cellToHead[cellIndex] = idx
}
