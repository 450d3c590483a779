package tasks

import (
	"isotown/internal/isocoord"
	"isotown/internal/pathgraph"
	"isotown/internal/tiles"
	"isotown/internal/worldsim"
)

func buildingDef(kind tiles.Kind) *tiles.TileDef {
	return &tiles.TileDef{Name: "building", Layer: tiles.LayerObjects, Kind: tiles.KindObject | kind, LogicalSizeCells: 1}
}

func unitDef() *tiles.TileDef {
	return &tiles.TileDef{Name: "settler", Layer: tiles.LayerObjects, Kind: tiles.KindObject | tiles.KindUnit, LogicalSizeCells: 1}
}

// wireRoadLink flags linkCell with NodeRoad|NodeBuildingRoadLink (the
// unit can walk straight through it) and roadCell as plain NodeRoad,
// satisfying FindNearestRoadLink's "flagged and adjacent to an actual road
// cell" requirement.
func wireRoadLink(graph *pathgraph.Graph, linkCell, roadCell isocoord.Cell) {
	graph.SetNodeKind(linkCell, pathgraph.NodeRoad|pathgraph.NodeBuildingRoadLink)
	graph.SetNodeKind(roadCell, pathgraph.NodeRoad)
}

func wireRoadRun(graph *pathgraph.Graph, y int, xFrom, xTo int) {
	for x := xFrom; x <= xTo; x++ {
		graph.SetNodeKind(isocoord.Cell{X: x, Y: y}, pathgraph.NodeRoad)
	}
}

type fixture struct {
	world *worldsim.World
	tiles *tiles.TileMap
	graph *pathgraph.Graph
}

func newFixture(size int) *fixture {
	return &fixture{
		world: worldsim.New(8, 8),
		tiles: tiles.New(size, size),
		graph: pathgraph.New(size, size),
	}
}

func (f *fixture) query() *Query {
	return &Query{World: f.world, TileMap: f.tiles, Graph: f.graph}
}
