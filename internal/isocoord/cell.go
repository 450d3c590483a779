// Package isocoord implements the cell grid and isometric coordinate math
// shared by every other core package (§3 "Cells, sizes, isometric space").
// It is deliberately free of any dependency on tiles, world entities, or
// rendering so that it can sit underneath all of them.
package isocoord

// Cell is an integer grid coordinate. InvalidCell is the sentinel used
// throughout the core to mean "no cell" (an empty slab slot, a unit with no
// current position, ...).
type Cell struct {
	X, Y int
}

// InvalidCell is the sentinel "no cell" value.
var InvalidCell = Cell{X: -1, Y: -1}

// Valid reports whether a cell is not the invalid sentinel. It does not by
// itself check map bounds; bounds checks happen at the pool boundary
// against a concrete map size (§4.1).
func (c Cell) Valid() bool {
	return c != InvalidCell
}

// InBounds reports whether c lies within a width x height grid.
func (c Cell) InBounds(width, height int) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < width && c.Y < height
}

// Add returns c translated by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// ManhattanDistance returns |dx| + |dy| between two cells, the distance
// metric used by delivery-candidate ranking (§4.5) and road-link search
// (§4.4).
func ManhattanDistance(a, b Cell) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Neighbors4 returns the four orthogonally adjacent cells, in a fixed
// deterministic order (N, E, S, W), used everywhere adjacency needs to be
// enumerated reproducibly (BFS in HouseMerge, A* expansion in PathGraph).
func (c Cell) Neighbors4() [4]Cell {
	return [4]Cell{
		{X: c.X, Y: c.Y - 1},
		{X: c.X + 1, Y: c.Y},
		{X: c.X, Y: c.Y + 1},
		{X: c.X - 1, Y: c.Y},
	}
}

// Neighbors8 returns the eight-connected neighborhood (self excluded), used
// by TileMap.find_exact_cell_for_point's 9-cell scan (§4.1).
func (c Cell) Neighbors8() [8]Cell {
	return [8]Cell{
		{X: c.X - 1, Y: c.Y - 1}, {X: c.X, Y: c.Y - 1}, {X: c.X + 1, Y: c.Y - 1},
		{X: c.X - 1, Y: c.Y}, {X: c.X + 1, Y: c.Y},
		{X: c.X - 1, Y: c.Y + 1}, {X: c.X, Y: c.Y + 1}, {X: c.X + 1, Y: c.Y + 1},
	}
}

// Index linearizes the cell against a grid width, matching the
// cell_to_slab_idx addressing scheme of the tile pool (§3 "Tile pool").
func (c Cell) Index(width int) int {
	return c.Y*width + c.X
}

// CellRange is an inclusive rectangle of cells (§3).
type CellRange struct {
	Start, End Cell
}

// NewCellRange builds a range from a base cell and a footprint size in
// cells, the shape every multi-cell object (buildings) uses.
func NewCellRange(base Cell, size int) CellRange {
	return CellRange{
		Start: base,
		End:   Cell{X: base.X + size - 1, Y: base.Y + size - 1},
	}
}

// Width returns the number of cells spanned on X.
func (r CellRange) Width() int { return r.End.X - r.Start.X + 1 }

// Height returns the number of cells spanned on Y.
func (r CellRange) Height() int { return r.End.Y - r.Start.Y + 1 }

// Size returns the number of cells contained in the range.
func (r CellRange) Size() int { return r.Width() * r.Height() }

// Contains reports whether c lies within the inclusive rectangle.
func (r CellRange) Contains(c Cell) bool {
	return c.X >= r.Start.X && c.X <= r.End.X && c.Y >= r.Start.Y && c.Y <= r.End.Y
}

// ContainsRange reports whether other is fully contained within r, the test
// HouseMerge uses to decide whether a neighbor house fits inside a
// candidate expansion rectangle (§4.7).
func (r CellRange) ContainsRange(other CellRange) bool {
	return r.Contains(other.Start) && r.Contains(other.End)
}

// ForEach visits every cell in forward (row-major, increasing Y then X)
// order.
func (r CellRange) ForEach(visit func(Cell)) {
	for y := r.Start.Y; y <= r.End.Y; y++ {
		for x := r.Start.X; x <= r.End.X; x++ {
			visit(Cell{X: x, Y: y})
		}
	}
}

// ForEachReverse visits every cell in reverse (decreasing Y then X) order.
func (r CellRange) ForEachReverse(visit func(Cell)) {
	for y := r.End.Y; y >= r.Start.Y; y-- {
		for x := r.End.X; x >= r.Start.X; x-- {
			visit(Cell{X: x, Y: y})
		}
	}
}

// Cells materializes the range as a slice in forward order. Prefer ForEach
// in hot paths; this exists for tests and small one-off callers.
func (r CellRange) Cells() []Cell {
	cells := make([]Cell, 0, r.Size())
	r.ForEach(func(c Cell) { cells = append(cells, c) })
	return cells
}
