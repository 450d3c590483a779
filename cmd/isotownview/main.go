// Command isotownview is a minimal debug visualizer for the town-builder
// core: it boots a small hand-placed world, drives it through internal/sim
// at a fixed rate, and draws each cell as a flat colored diamond so the
// simulation's behavior is visible without a real art pipeline, mirroring
// the teacher's pattern of a thin main() that loads config and hands off to
// an ebiten.Game (root main.go).
package main

import (
	"image/color"
	"log"

	"isotown/internal/camera"
	"isotown/internal/config"
	"isotown/internal/isocoord"
	"isotown/internal/pathgraph"
	"isotown/internal/sim"
	"isotown/internal/tasks"
	"isotown/internal/tiles"
	"isotown/internal/worldsim"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	screenWidth  = 1024
	screenHeight = 768
	tileScale    = float32(1.5)
)

func grassDef() *tiles.TileDef {
	return &tiles.TileDef{Name: "grass", Layer: tiles.LayerTerrain, Kind: tiles.KindTerrain, LogicalSizeCells: 1, PathKind: pathgraph.NodeDirt}
}

func roadDef() *tiles.TileDef {
	return &tiles.TileDef{Name: "dirt_road", Layer: tiles.LayerTerrain, Kind: tiles.KindTerrain, LogicalSizeCells: 1, PathKind: pathgraph.NodeRoad}
}

func waterDef() *tiles.TileDef {
	return &tiles.TileDef{Name: "water", Layer: tiles.LayerTerrain, Kind: tiles.KindTerrain, LogicalSizeCells: 1, PathKind: pathgraph.NodeWater}
}

func houseDef() *tiles.TileDef {
	return &tiles.TileDef{Name: "house_1", Layer: tiles.LayerObjects, Kind: tiles.KindObject | tiles.KindBuilding, LogicalSizeCells: 1}
}

func farmDef() *tiles.TileDef {
	return &tiles.TileDef{Name: "farm", Layer: tiles.LayerObjects, Kind: tiles.KindObject | tiles.KindBuilding, LogicalSizeCells: 1}
}

func settlerDef() *tiles.TileDef {
	return &tiles.TileDef{Name: "settler", Layer: tiles.LayerObjects, Kind: tiles.KindObject | tiles.KindUnit, LogicalSizeCells: 1}
}

// game wires a sim.Loop to ebiten, translating keyboard input into camera
// motion the way the teacher's MMGame.Update/Draw/Layout trio does for its
// own (3D) viewport.
type game struct {
	loop   *sim.Loop
	cam    isocoord.IsoPointF32
	bounds camera.Constraint
	stats  *worldsim.WorldStats
}

func newGame(cfg *config.Config) *game {
	w := worldsim.New(64, 256)
	tm := tiles.New(cfg.Map.Width, cfg.Map.Height)
	graph := pathgraph.New(cfg.Map.Width, cfg.Map.Height)
	mgr := tasks.NewManager(64)

	for y := 0; y < cfg.Map.Height; y++ {
		for x := 0; x < cfg.Map.Width; x++ {
			c := isocoord.Cell{X: x, Y: y}
			if _, err := tm.TryPlaceTileInLayer(c, tiles.LayerTerrain, grassDef()); err != nil {
				log.Fatalf("isotownview: seed terrain at %+v: %v", c, err)
			}
			graph.SetNodeKind(c, pathgraph.NodeDirt)
		}
	}

	for x := 2; x < cfg.Map.Width-2; x++ {
		c := isocoord.Cell{X: x, Y: cfg.Map.Height / 2}
		if _, err := tm.TryClearTileFromLayer(c, tiles.LayerTerrain); err != nil {
			log.Fatalf("isotownview: clear for road at %+v: %v", c, err)
		}
		if _, err := tm.TryPlaceTileInLayer(c, tiles.LayerTerrain, roadDef()); err != nil {
			log.Fatalf("isotownview: lay road at %+v: %v", c, err)
		}
		graph.SetNodeKind(c, pathgraph.NodeRoad)
	}

	for y := 0; y < 4; y++ {
		c := isocoord.Cell{X: 1, Y: y}
		if _, err := tm.TryClearTileFromLayer(c, tiles.LayerTerrain); err != nil {
			log.Fatalf("isotownview: clear for water at %+v: %v", c, err)
		}
		if _, err := tm.TryPlaceTileInLayer(c, tiles.LayerTerrain, waterDef()); err != nil {
			log.Fatalf("isotownview: lay water at %+v: %v", c, err)
		}
		graph.SetNodeKind(c, pathgraph.NodeWater)
	}

	if _, err := w.TrySpawnBuildingWithTileDef(tm, graph, worldsim.ArchetypeHouse, worldsim.KindHouse, "house-1", isocoord.Cell{X: 4, Y: cfg.Map.Height/2 + 2}, houseDef(), worldsim.BuildingSpawnConfig{
		Level: 1, PopulationCap: 4, WorkerCap: 2, StockCap: map[string]int{"wheat": 20},
	}); err != nil {
		log.Fatalf("isotownview: spawn house: %v", err)
	}
	if _, err := w.TrySpawnBuildingWithTileDef(tm, graph, worldsim.ArchetypeProducer, worldsim.KindGenericProducer, "farm-1", isocoord.Cell{X: 8, Y: cfg.Map.Height/2 + 2}, farmDef(), worldsim.BuildingSpawnConfig{
		Produces: "wheat", ProductionPerTick: 1, StockCap: map[string]int{"wheat": 100},
	}); err != nil {
		log.Fatalf("isotownview: spawn farm: %v", err)
	}
	if _, err := w.SpawnUnit(tm, isocoord.Cell{X: 5, Y: cfg.Map.Height/2 + 1}, settlerDef()); err != nil {
		log.Fatalf("isotownview: spawn settler: %v", err)
	}

	halfW := float32(screenWidth) / (2 * tileScale)
	halfH := float32(screenHeight) / (2 * tileScale)

	return &game{
		loop:   sim.NewLoop(cfg, tm, graph, w, mgr),
		bounds: camera.NewConstraint(cfg.Map.Width, cfg.Map.Height, halfW, halfH),
		stats:  w.Stats(),
	}
}

func (g *game) Update() error {
	const panSpeed = float32(6)
	var delta isocoord.IsoPointF32
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		delta.X -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		delta.X += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		delta.Y -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		delta.Y += panSpeed
	}
	delta = g.bounds.ClampDelta(g.cam, delta)
	g.cam.X += delta.X
	g.cam.Y += delta.Y

	g.stats = g.loop.Tick(g.loop.Config.Simulation.DeltaTime())
	return nil
}

func (g *game) transform() isocoord.WorldToScreenTransform {
	return isocoord.WorldToScreenTransform{
		Scaling: tileScale,
		OffsetX: float32(screenWidth)/2 - g.cam.X*tileScale,
		OffsetY: float32(screenHeight)/2 - g.cam.Y*tileScale,
	}
}

func terrainColor(def *tiles.TileDef) color.RGBA {
	switch def.Name {
	case "water":
		return color.RGBA{40, 90, 200, 255}
	case "dirt_road":
		return color.RGBA{150, 120, 80, 255}
	default:
		return color.RGBA{70, 140, 60, 255}
	}
}

func objectColor(tile *tiles.Tile) color.RGBA {
	switch {
	case tile.Kind.Has(tiles.KindUnit):
		return color.RGBA{240, 220, 40, 255}
	case tile.Kind.Has(tiles.KindBuilding) && tile.Def != nil && tile.Def.Name == "farm":
		return color.RGBA{200, 150, 40, 255}
	case tile.Kind.Has(tiles.KindBuilding):
		return color.RGBA{190, 60, 60, 255}
	default:
		return color.RGBA{200, 200, 200, 255}
	}
}

func (g *game) drawDiamond(screen *ebiten.Image, c isocoord.Cell, fill color.RGBA) {
	t := g.transform()
	iso := isocoord.CellToIso(c)
	center := t.Apply(isocoord.IsoPointF32{X: float32(iso.X), Y: float32(iso.Y)})
	halfW := float32(isocoord.BaseTileWidth) / 2 * t.Scaling
	halfH := float32(isocoord.BaseTileHeight) / 2 * t.Scaling
	var path vector.Path
	path.MoveTo(center.X, center.Y-halfH)
	path.LineTo(center.X+halfW, center.Y)
	path.LineTo(center.X, center.Y+halfH)
	path.LineTo(center.X-halfW, center.Y)
	path.Close()
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 0.5, 0.5
		vs[i].ColorR = float32(fill.R) / 255
		vs[i].ColorG = float32(fill.G) / 255
		vs[i].ColorB = float32(fill.B) / 255
		vs[i].ColorA = float32(fill.A) / 255
	}
	screen.DrawTriangles(vs, is, whitePixel, &ebiten.DrawTrianglesOptions{})
}

var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(1, 1)
	img.Fill(color.White)
	return img
}()

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 25, 255})

	tileMap := g.loop.Tiles
	for y := 0; y < tileMap.Height; y++ {
		for x := 0; x < tileMap.Width; x++ {
			c := isocoord.Cell{X: x, Y: y}
			if t := tileMap.TileAt(c, tiles.LayerTerrain); t != nil && t.Def != nil {
				g.drawDiamond(screen, c, terrainColor(t.Def))
			}
			if t := tileMap.TileAt(c, tiles.LayerObjects); t != nil {
				g.drawDiamond(screen, c, objectColor(t))
			}
		}
	}

	ebitenutil.DebugPrintAt(screen, "arrows to pan", 8, 8)
	if g.stats != nil {
		ebitenutil.DebugPrintAt(screen, "wheat: "+itoa(g.stats.Resources.All["wheat"]), 8, 24)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	cfg := config.Default()
	cfg.Map = config.MapConfig{Width: 24, Height: 24}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("isotownview")
	ebiten.SetTPS(cfg.Simulation.TicksPerSecond)

	if err := ebiten.RunGame(newGame(cfg)); err != nil {
		log.Fatal(err)
	}
}
