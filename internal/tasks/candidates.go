package tasks

import (
	"sort"

	"isotown/internal/isocoord"
	"isotown/internal/pathgraph"
	"isotown/internal/worldsim"
)

// maxCandidates bounds how many destination/source buildings a delivery or
// fetch task will consider before giving up for the tick (§4.5 "Collect up
// to 4 candidates", §5 "a candidate limit of 4 is enforced").
const maxCandidates = 4

type candidate struct {
	id       worldsim.BuildingId
	roadLink isocoord.Cell
	distance int
	capacity int // receivable (Deliver) or available (Fetch) count, used as the tiebreak
}

// collectCandidates enumerates every building matching kinds with a
// positive capacity (as reported by capacityOf), attaches each one's
// nearest road link and Manhattan distance from origin, and returns the top
// maxCandidates sorted by (distance asc, capacity desc) (§4.5).
func collectCandidates(w *worldsim.World, graph *pathgraph.Graph, kinds worldsim.BuildingKind, origin isocoord.Cell, capacityOf func(b *worldsim.Building) int) []candidate {
	var found []candidate
	w.ForEachBuilding(kinds, func(id worldsim.BuildingId, b *worldsim.Building) {
		cap := capacityOf(b)
		if cap <= 0 {
			return
		}
		link, ok := graph.FindNearestRoadLink(b.CellRange)
		if !ok {
			return
		}
		found = append(found, candidate{
			id:       id,
			roadLink: link,
			distance: isocoord.ManhattanDistance(origin, link),
			capacity: cap,
		})
	})

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].distance != found[j].distance {
			return found[i].distance < found[j].distance
		}
		return found[i].capacity > found[j].capacity
	})

	if len(found) > maxCandidates {
		found = found[:maxCandidates]
	}
	return found
}
