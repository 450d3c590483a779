package pathgraph

import (
	"testing"

	"isotown/internal/isocoord"
)

func TestFindPathAlongRoad(t *testing.T) {
	g := New(10, 1)
	for x := 0; x < 10; x++ {
		g.SetNodeKind(isocoord.Cell{X: x, Y: 0}, NodeRoad)
	}

	result := g.FindPath(NodeRoad, isocoord.Cell{X: 0, Y: 0}, isocoord.Cell{X: 9, Y: 0})
	if !result.Found {
		t.Fatalf("expected path to be found")
	}
	if len(result.Path) != 10 {
		t.Fatalf("expected path length 10, got %d", len(result.Path))
	}
	if result.Path[0] != (isocoord.Cell{X: 0, Y: 0}) || result.Path[9] != (isocoord.Cell{X: 9, Y: 0}) {
		t.Fatalf("unexpected path endpoints: %v", result.Path)
	}
}

// TestFindPathBlockedByWater exercises scenario 6: a road corridor with a
// single water cell interrupting it must report PathNotFound.
func TestFindPathBlockedByWater(t *testing.T) {
	g := New(5, 1)
	for x := 0; x < 5; x++ {
		g.SetNodeKind(isocoord.Cell{X: x, Y: 0}, NodeRoad)
	}
	g.SetNodeKind(isocoord.Cell{X: 2, Y: 0}, NodeWater)

	result := g.FindPath(NodeRoad, isocoord.Cell{X: 0, Y: 0}, isocoord.Cell{X: 4, Y: 0})
	if result.Found {
		t.Fatalf("expected PathNotFound, got path %v", result.Path)
	}
}

func TestFindPathDeterministicTieBreak(t *testing.T) {
	g := New(3, 3)
	g.SetNodeKind(isocoord.Cell{X: 1, Y: 1}, NodeDirt)
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			g.SetNodeKind(isocoord.Cell{X: x, Y: y}, NodeDirt)
		}
	}

	var lastPath []isocoord.Cell
	for i := 0; i < 5; i++ {
		result := g.FindPath(NodeDirt, isocoord.Cell{X: 0, Y: 0}, isocoord.Cell{X: 2, Y: 2})
		if !result.Found {
			t.Fatalf("expected path to be found on run %d", i)
		}
		if lastPath != nil {
			if len(lastPath) != len(result.Path) {
				t.Fatalf("path length changed across runs")
			}
			for j := range lastPath {
				if lastPath[j] != result.Path[j] {
					t.Fatalf("path is not deterministic across runs: %v vs %v", lastPath, result.Path)
				}
			}
		}
		lastPath = result.Path
	}
}

func TestFindNearestRoadLink(t *testing.T) {
	g := New(10, 10)
	houseRange := isocoord.NewCellRange(isocoord.Cell{X: 3, Y: 3}, 2)
	linkCell := isocoord.Cell{X: 5, Y: 4}
	g.SetNodeKind(linkCell, NodeBuildingRoadLink)
	g.SetNodeKind(isocoord.Cell{X: 6, Y: 4}, NodeRoad)

	got, ok := g.FindNearestRoadLink(houseRange)
	if !ok {
		t.Fatalf("expected to find a road link")
	}
	if got != linkCell {
		t.Fatalf("expected %+v, got %+v", linkCell, got)
	}
}

func TestFindNearestRoadLinkRequiresAdjacentRoad(t *testing.T) {
	g := New(10, 10)
	houseRange := isocoord.NewCellRange(isocoord.Cell{X: 3, Y: 3}, 2)
	// Flagged as a road link but with no adjacent road cell: must not count.
	g.SetNodeKind(isocoord.Cell{X: 5, Y: 4}, NodeBuildingRoadLink)

	if _, ok := g.FindNearestRoadLink(houseRange); ok {
		t.Fatalf("expected no road link without an adjacent road cell")
	}
}
