// Package housemerge implements the HouseMerge geometric subsystem (§4.7):
// growing a house's footprint by one cell in each dimension and absorbing
// any neighbor houses the growth rectangle swallows.
package housemerge

import (
	"errors"
	"fmt"

	"isotown/internal/config"
	"isotown/internal/isocoord"
	"isotown/internal/pathgraph"
	"isotown/internal/simlog"
	"isotown/internal/tiles"
	"isotown/internal/worldsim"
)

var log = simlog.For("housemerge")

// ErrAtMaxLevel is returned when the house's current footprint has no
// configured next rung on the ladder (§4.7 "Maximum level short-circuits to
// failure with no work done").
var ErrAtMaxLevel = errors.New("housemerge: house already at max level")

// ErrNoCandidate is returned when every one of the four anchor rectangles
// was rejected (blocked by non-expandable terrain, a too-large neighbor
// house, or the map edge).
var ErrNoCandidate = errors.New("housemerge: no valid expansion rectangle")

// ErrMissingTileDef is returned when the next level's TileDefName has no
// entry in the registry (§4.7 "If the level's tile definition is missing,
// expansion fails cleanly").
var ErrMissingTileDef = errors.New("housemerge: next level's tile definition not registered")

// Expander holds the collaborators HouseMerge needs to evaluate and execute
// an expansion, mirroring the Query bundle the rest of the simulation
// borrows per tick (§4.6 "Query struct is a borrowed bundle").
type Expander struct {
	World     *worldsim.World
	Tiles     *tiles.TileMap
	Graph     *pathgraph.Graph
	Registry  *tiles.Registry
	Houses    config.HouseLadderConfig
	Resources []string
}

// candidate is one of the four anchor-corner rectangles under evaluation.
type candidate struct {
	rect     isocoord.CellRange
	mergeSet []worldsim.BuildingId // other houses absorbed, not including the growing house
	ok       bool
}

// anchorRects enumerates the four size-(S+1) rectangles anchored at each
// corner of the current range R, in TL, TR, BL, BR order (§4.7 step 1); that
// fixed order is also the tie-break order for step 3.
func anchorRects(r isocoord.CellRange, newSize int) [4]isocoord.CellRange {
	grow := newSize - r.Width()
	return [4]isocoord.CellRange{
		// TL: keep the top-left corner, grow right and down.
		{Start: r.Start, End: isocoord.Cell{X: r.Start.X + newSize - 1, Y: r.Start.Y + newSize - 1}},
		// TR: keep the top-right corner, grow left and down.
		{Start: isocoord.Cell{X: r.Start.X - grow, Y: r.Start.Y}, End: isocoord.Cell{X: r.End.X, Y: r.Start.Y + newSize - 1}},
		// BL: keep the bottom-left corner, grow right and up.
		{Start: isocoord.Cell{X: r.Start.X, Y: r.Start.Y - grow}, End: isocoord.Cell{X: r.Start.X + newSize - 1, Y: r.End.Y}},
		// BR: keep the bottom-right corner, grow left and up.
		{Start: isocoord.Cell{X: r.Start.X - grow, Y: r.Start.Y - grow}, End: r.End},
	}
}

// Expand attempts to grow id (a House-archetype building) by one cell in
// each dimension, merging any absorbed neighbor houses (§4.7). It returns
// nil on success; every failure mode is reported as a distinct error, so
// callers can tell "not now" (ErrNoCandidate) apart from "never"
// (ErrAtMaxLevel) or misconfiguration (ErrMissingTileDef).
func (e *Expander) Expand(id worldsim.BuildingId) error {
	growing, ok := e.World.FindBuilding(id)
	if !ok {
		return fmt.Errorf("housemerge: expand: %w", worldsim.ErrBuildingNotFound)
	}

	size := growing.CellRange.Width()
	newSize := size + 1
	level, ok := e.Houses.LevelForSize(newSize)
	if !ok {
		return ErrAtMaxLevel
	}
	def, ok := e.Registry.ByName(level.TileDefName)
	if !ok {
		return fmt.Errorf("housemerge: expand %q to size %d: %w", growing.Name, newSize, ErrMissingTileDef)
	}

	rects := anchorRects(growing.CellRange, newSize)
	var best *candidate
	for i := range rects {
		c := e.evaluate(growing.CellRange, rects[i], size)
		if !c.ok {
			continue
		}
		if best == nil || len(c.mergeSet) > len(best.mergeSet) {
			chosen := c
			best = &chosen
		}
	}
	if best == nil {
		return ErrNoCandidate
	}

	e.execute(id, growing, *best, level, def)
	return nil
}

// evaluate scores one candidate rectangle: every cell must be either inside
// the growing house's own current footprint, occupied by a mergeable
// neighbor house, or expandable terrain; otherwise the candidate is
// rejected outright (§4.7 step 2).
func (e *Expander) evaluate(current, rect isocoord.CellRange, maxMergeSize int) candidate {
	if rect.Start.X < 0 || rect.Start.Y < 0 || rect.End.X >= e.Tiles.Width || rect.End.Y >= e.Tiles.Height {
		return candidate{}
	}

	seeds := make(map[worldsim.BuildingId]bool)
	ok := true
	rect.ForEach(func(c isocoord.Cell) {
		if !ok || current.Contains(c) {
			return
		}
		b, bid, found := e.World.FindBuildingForCell(c, e.Tiles)
		if found {
			if bid.Archetype != worldsim.ArchetypeHouse || b.CellRange.Width() > maxMergeSize || !rect.ContainsRange(b.CellRange) {
				ok = false
				return
			}
			seeds[bid] = true
			return
		}
		kind, inBounds := e.Graph.NodeKindAt(c)
		if !inBounds || !kind.Intersects(pathgraph.NodeDirt|pathgraph.NodeVacantLot) {
			ok = false
		}
	})
	if !ok {
		return candidate{}
	}

	mergeSet := e.expandMergeSet(seeds, rect, maxMergeSize)
	return candidate{rect: rect, mergeSet: mergeSet, ok: true}
}

// expandMergeSet runs the BFS of §4.7 step 2: starting from the houses
// found directly inside the candidate rectangle, walk 4-connected adjacency
// restricted to the rectangle to pick up any chain of mergeable neighbors.
func (e *Expander) expandMergeSet(seeds map[worldsim.BuildingId]bool, rect isocoord.CellRange, maxMergeSize int) []worldsim.BuildingId {
	visited := make(map[worldsim.BuildingId]bool, len(seeds))
	var queue []worldsim.BuildingId
	for id := range seeds {
		visited[id] = true
		queue = append(queue, id)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		b, ok := e.World.FindBuilding(id)
		if !ok {
			continue
		}
		b.CellRange.ForEach(func(c isocoord.Cell) {
			for _, n := range c.Neighbors4() {
				if !rect.Contains(n) {
					continue
				}
				nb, nid, found := e.World.FindBuildingForCell(n, e.Tiles)
				if !found || visited[nid] {
					continue
				}
				if nid.Archetype != worldsim.ArchetypeHouse || nb.CellRange.Width() > maxMergeSize || !rect.ContainsRange(nb.CellRange) {
					continue
				}
				visited[nid] = true
				queue = append(queue, nid)
			}
		})
	}

	merged := make([]worldsim.BuildingId, 0, len(visited))
	for id := range visited {
		merged = append(merged, id)
	}
	return merged
}

// execute carries out §4.7 step 4: absorb every merged house's stock,
// population and workers into the growing house, reassign their workers'
// employer pointers, despawn the merged houses, then relocate the growing
// house's tile and path-graph footprint.
func (e *Expander) execute(growingID worldsim.BuildingId, growing *worldsim.Building, c candidate, level config.HouseLevelConfig, def *tiles.TileDef) {
	for _, mergedID := range c.mergeSet {
		merged, ok := e.World.FindBuilding(mergedID)
		if !ok {
			continue
		}
		for kind, n := range merged.Stock {
			if growing.Stock == nil {
				growing.Stock = make(map[string]int)
			}
			growing.Stock[kind] += n
		}
		growing.Population += merged.Population
		for _, workerIdx := range merged.Workers {
			if u, ok := e.World.FindUnit(workerIdx); ok {
				u.Employer = growingID
			}
		}
		growing.Workers = append(growing.Workers, merged.Workers...)

		// Clear state before despawn so DespawnBuilding's tile/path-graph
		// cleanup is the only remaining side effect (§4.7: "its
		// stock/population/workers cleared first to suppress side effects").
		merged.Stock = nil
		merged.Population = 0
		merged.Workers = nil

		if err := e.World.DespawnBuilding(e.Tiles, e.Graph, mergedID); err != nil {
			log.Errorf("housemerge: despawn merged house %q: %v", merged.Name, err)
		}
	}

	oldRange := growing.CellRange
	if _, err := e.Tiles.TryClearTileFromLayer(oldRange.Start, tiles.LayerObjects); err != nil {
		log.Errorf("housemerge: clear growing house %q at %+v: %v", growing.Name, oldRange.Start, err)
		return
	}
	oldRange.ForEach(func(cell isocoord.Cell) { e.Graph.SetNodeKind(cell, pathgraph.NodeDirt) })

	tile, err := e.Tiles.TryPlaceTileInLayer(c.rect.Start, tiles.LayerObjects, def)
	if err != nil {
		log.Errorf("housemerge: place %q at %+v: %v", def.Name, c.rect.Start, err)
		return
	}
	tile.Handle = tiles.GameObjectHandle{
		ObjectKind:       tiles.ObjectHandleBuilding,
		Index:            growingID.Index.Slot,
		KindOrGeneration: uint32(growingID.Archetype),
	}

	growing.CellRange = tile.Range()
	growing.Level = level.Size
	growing.PopulationCap = level.PopulationCap
	growing.WorkerCap = level.WorkerCap
	if growing.StockCap == nil {
		growing.StockCap = make(map[string]int)
	}
	for _, kind := range e.Resources {
		growing.StockCap[kind] = level.StockCapPerGood
	}

	growing.CellRange.ForEach(func(cell isocoord.Cell) { e.Graph.SetNodeKind(cell, pathgraph.NodeBuilding) })
	if link, ok := e.Graph.FindNearestRoadLink(growing.CellRange); ok {
		growing.RoadLink = link
	} else {
		growing.RoadLink = isocoord.InvalidCell
	}
}
