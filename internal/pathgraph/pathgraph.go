// Package pathgraph implements the per-cell walkability bitset and the
// best-first search over it (§4.4 PathGraph), generalizing the teacher's
// tile-coordinate A* (internal/monster/monster_ai.go's priorityQueue /
// pathNode / reconstructPath) from float world positions to integer Cells
// and from a single "can I walk here" predicate to an explicit NodeKind
// mask.
package pathgraph

import (
	"container/heap"
	"errors"

	"isotown/internal/isocoord"
)

// NodeKind is a bitflag classifying a cell's walkability class (§4.4).
type NodeKind uint8

const (
	NodeDirt NodeKind = 1 << iota
	NodeVacantLot
	NodeBuilding
	NodeRoad
	NodeWater
	NodeBuildingRoadLink
	NodeSettlersSpawnPoint
)

// Has reports whether k contains every bit of mask.
func (k NodeKind) Has(mask NodeKind) bool { return k&mask == mask }

// Intersects reports whether k shares any bit with mask.
func (k NodeKind) Intersects(mask NodeKind) bool { return k&mask != 0 }

// ErrPathNotFound names the "no path under the given mask" case (§7
// PathNotFound). FindPath itself does not return it; it reports that case
// as a SearchResult with Found == false.
var ErrPathNotFound = errors.New("pathgraph: no path found")

// SearchResult is the outcome of FindPath.
type SearchResult struct {
	Found bool
	Path  []isocoord.Cell
}

// Graph holds one NodeKind per cell of a width x height grid, aligned with
// the tile map (§4.4).
type Graph struct {
	width, height int
	kinds         []NodeKind
}

// New creates a graph for a width x height map, every cell starting as
// NodeDirt.
func New(width, height int) *Graph {
	kinds := make([]NodeKind, width*height)
	for i := range kinds {
		kinds[i] = NodeDirt
	}
	return &Graph{width: width, height: height, kinds: kinds}
}

func (g *Graph) index(c isocoord.Cell) (int, bool) {
	if !c.InBounds(g.width, g.height) {
		return 0, false
	}
	return c.Index(g.width), true
}

// SetNodeKind sets the walkability class of a cell. Out-of-bounds cells are
// silently ignored, mirroring the tile map's own bounds rejection at the
// pool boundary (§4.1).
func (g *Graph) SetNodeKind(c isocoord.Cell, kind NodeKind) {
	if idx, ok := g.index(c); ok {
		g.kinds[idx] = kind
	}
}

// NodeKindAt returns the node kind of a cell, or false if out of bounds.
func (g *Graph) NodeKindAt(c isocoord.Cell) (NodeKind, bool) {
	idx, ok := g.index(c)
	if !ok {
		return 0, false
	}
	return g.kinds[idx], true
}

type pathNode struct {
	cell  isocoord.Cell
	g     int
	f     int
	index int
}

type priorityQueue []*pathNode

func (pq priorityQueue) Len() int { return len(pq) }

// Less breaks ties by cell order (Y then X) so that search order, and
// therefore the returned path, is reproducible regardless of map-dependent
// hash iteration (§4.4 "Ties broken deterministically by cell order").
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	if pq[i].cell.Y != pq[j].cell.Y {
		return pq[i].cell.Y < pq[j].cell.Y
	}
	return pq[i].cell.X < pq[j].cell.X
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	node := x.(*pathNode)
	node.index = len(*pq)
	*pq = append(*pq, node)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*pq = old[:n-1]
	return node
}

// FindPath runs a best-first search from start to goal restricted to cells
// whose node kind intersects allowedMask (§4.4).
func (g *Graph) FindPath(allowedMask NodeKind, start, goal isocoord.Cell) SearchResult {
	if _, ok := g.index(start); !ok {
		return SearchResult{}
	}
	if _, ok := g.index(goal); !ok {
		return SearchResult{}
	}

	open := &priorityQueue{}
	heap.Init(open)
	heap.Push(open, &pathNode{cell: start, g: 0, f: isocoord.ManhattanDistance(start, goal)})

	gScore := map[isocoord.Cell]int{start: 0}
	cameFrom := make(map[isocoord.Cell]isocoord.Cell)

	maxNodes := g.width * g.height
	searched := 0

	for open.Len() > 0 && searched < maxNodes {
		current := heap.Pop(open).(*pathNode)
		currentG, ok := gScore[current.cell]
		if !ok || current.g > currentG {
			continue
		}
		if current.cell == goal {
			return SearchResult{Found: true, Path: reconstructPath(cameFrom, current.cell)}
		}
		searched++

		for _, neighbor := range current.cell.Neighbors4() {
			kind, ok := g.NodeKindAt(neighbor)
			if !ok {
				continue
			}
			if neighbor != goal && !kind.Intersects(allowedMask) {
				continue
			}
			tentativeG := currentG + 1
			if prevG, ok := gScore[neighbor]; !ok || tentativeG < prevG {
				cameFrom[neighbor] = current.cell
				gScore[neighbor] = tentativeG
				f := tentativeG + isocoord.ManhattanDistance(neighbor, goal)
				heap.Push(open, &pathNode{cell: neighbor, g: tentativeG, f: f})
			}
		}
	}

	return SearchResult{}
}

func reconstructPath(cameFrom map[isocoord.Cell]isocoord.Cell, current isocoord.Cell) []isocoord.Cell {
	path := []isocoord.Cell{current}
	for {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		current = prev
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindNearestRoadLink scans the perimeter of a cell range for a cell
// flagged BuildingRoadLink that is adjacent to a Road cell, returning the
// closest by Manhattan distance to the range's base cell (§4.4).
func (g *Graph) FindNearestRoadLink(r isocoord.CellRange) (isocoord.Cell, bool) {
	best := isocoord.InvalidCell
	bestDist := -1

	visit := func(c isocoord.Cell) {
		kind, ok := g.NodeKindAt(c)
		if !ok || !kind.Has(NodeBuildingRoadLink) {
			return
		}
		adjacentToRoad := false
		for _, n := range c.Neighbors4() {
			if nk, ok := g.NodeKindAt(n); ok && nk.Has(NodeRoad) {
				adjacentToRoad = true
				break
			}
		}
		if !adjacentToRoad {
			return
		}
		dist := isocoord.ManhattanDistance(r.Start, c)
		if bestDist == -1 || dist < bestDist {
			bestDist = dist
			best = c
		}
	}

	for x := r.Start.X; x <= r.End.X; x++ {
		visit(isocoord.Cell{X: x, Y: r.Start.Y - 1})
		visit(isocoord.Cell{X: x, Y: r.End.Y + 1})
	}
	for y := r.Start.Y; y <= r.End.Y; y++ {
		visit(isocoord.Cell{X: r.Start.X - 1, Y: y})
		visit(isocoord.Cell{X: r.End.X + 1, Y: y})
	}

	if bestDist == -1 {
		return isocoord.InvalidCell, false
	}
	return best, true
}
