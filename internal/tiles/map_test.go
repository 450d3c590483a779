package tiles

import (
	"errors"
	"testing"

	"isotown/internal/isocoord"
	"isotown/internal/pathgraph"
)

func roadDef() *TileDef {
	return &TileDef{Name: "dirt_road", Layer: LayerTerrain, Kind: KindTerrain, LogicalSizeCells: 1, PathKind: pathgraph.NodeRoad}
}

func grassDef() *TileDef {
	return &TileDef{Name: "grass", Layer: LayerTerrain, Kind: KindTerrain, LogicalSizeCells: 1, PathKind: pathgraph.NodeDirt}
}

func waterDef() *TileDef {
	return &TileDef{Name: "water", Layer: LayerTerrain, Kind: KindTerrain, LogicalSizeCells: 1, PathKind: pathgraph.NodeWater}
}

func houseDef(size int) *TileDef {
	return &TileDef{Name: "house", Layer: LayerObjects, Kind: KindObject | KindBuilding, LogicalSizeCells: size}
}

func unitDef() *TileDef {
	return &TileDef{Name: "settler", Layer: LayerObjects, Kind: KindObject | KindUnit, LogicalSizeCells: 1}
}

func TestPlaceClearRoundTrip(t *testing.T) {
	m := New(8, 8)
	cell := isocoord.Cell{X: 2, Y: 2}

	tile, err := m.TryPlaceTileInLayer(cell, LayerTerrain, grassDef())
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if tile.Cell != cell || tile.Archetype != ArchetypeTerrain {
		t.Fatalf("unexpected tile: %+v", tile)
	}

	def, err := m.TryClearTileFromLayer(cell, LayerTerrain)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if def == nil || def.Name != "grass" {
		t.Fatalf("expected grass def back, got %+v", def)
	}
	if m.TileAt(cell, LayerTerrain) != nil {
		t.Fatalf("expected cell empty after clear")
	}
}

func TestPlaceRejectsOccupiedCell(t *testing.T) {
	m := New(8, 8)
	cell := isocoord.Cell{X: 1, Y: 1}
	if _, err := m.TryPlaceTileInLayer(cell, LayerTerrain, grassDef()); err != nil {
		t.Fatalf("first place: %v", err)
	}
	_, err := m.TryPlaceTileInLayer(cell, LayerTerrain, grassDef())
	if !errors.Is(err, ErrCellOccupied) {
		t.Fatalf("expected ErrCellOccupied, got %v", err)
	}
}

func TestPlaceRejectsOutOfBounds(t *testing.T) {
	m := New(4, 4)
	_, err := m.TryPlaceTileInLayer(isocoord.Cell{X: 10, Y: 10}, LayerTerrain, grassDef())
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if m.TileAt(isocoord.Cell{X: 0, Y: 0}, LayerTerrain) != nil {
		t.Fatalf("map should remain untouched after a rejected placement")
	}
}

func TestPlaceObjectOverWaterRejected(t *testing.T) {
	m := New(4, 4)
	cell := isocoord.Cell{X: 1, Y: 1}
	if _, err := m.TryPlaceTileInLayer(cell, LayerTerrain, waterDef()); err != nil {
		t.Fatalf("place water: %v", err)
	}
	_, err := m.TryPlaceTileInLayer(cell, LayerObjects, houseDef(1))
	if !errors.Is(err, ErrInvalidTerrainForObject) {
		t.Fatalf("expected ErrInvalidTerrainForObject, got %v", err)
	}
}

func TestMultiCellFootprintAndBlockers(t *testing.T) {
	m := New(8, 8)
	base := isocoord.Cell{X: 2, Y: 2}
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			c := base.Add(dx, dy)
			if _, err := m.TryPlaceTileInLayer(c, LayerTerrain, grassDef()); err != nil {
				t.Fatalf("grass at %+v: %v", c, err)
			}
		}
	}

	house, err := m.TryPlaceTileInLayer(base, LayerObjects, houseDef(2))
	if err != nil {
		t.Fatalf("place house: %v", err)
	}
	if house.Range().Size() != 4 {
		t.Fatalf("expected 4-cell footprint, got %d", house.Range().Size())
	}

	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			c := base.Add(dx, dy)
			tile := m.TileAt(c, LayerObjects)
			if tile == nil {
				t.Fatalf("expected a tile at %+v", c)
			}
			if c == base {
				if tile.Archetype != ArchetypeObject {
					t.Fatalf("base cell should be the ObjectTile, got %v", tile.Archetype)
				}
			} else if tile.Archetype != ArchetypeBlocker || tile.OwnerCell != base {
				t.Fatalf("expected blocker pointing at %+v, got %+v", base, tile)
			}
		}
	}

	if _, err := m.TryClearTileFromLayer(base.Add(1, 1), LayerObjects); err != nil {
		t.Fatalf("clear via blocker: %v", err)
	}
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			if m.TileAt(base.Add(dx, dy), LayerObjects) != nil {
				t.Fatalf("expected full footprint cleared")
			}
		}
	}
}

func TestFlagPropagationThroughBlocker(t *testing.T) {
	m := New(8, 8)
	base := isocoord.Cell{X: 0, Y: 0}
	house, err := m.TryPlaceTileInLayer(base, LayerObjects, houseDef(2))
	if err != nil {
		t.Fatalf("place house: %v", err)
	}

	blocker := m.TileAt(base.Add(1, 1), LayerObjects)
	if blocker == nil {
		t.Fatalf("expected blocker tile")
	}

	m.SetFlags(blocker, FlagHighlighted)
	if !house.Flags.Has(FlagHighlighted) {
		t.Fatalf("expected flag to propagate to owner")
	}
	if !m.HasFlags(blocker, FlagHighlighted) {
		t.Fatalf("expected HasFlags through blocker to see propagated flag")
	}

	otherBlocker := m.TileAt(base.Add(1, 0), LayerObjects)
	if !otherBlocker.Flags.Has(FlagHighlighted) {
		t.Fatalf("expected flag set on owner to propagate back out to every blocker")
	}
}

func TestMoveTileRejectsMultiCellAndOccupied(t *testing.T) {
	m := New(8, 8)
	base := isocoord.Cell{X: 0, Y: 0}
	if _, err := m.TryPlaceTileInLayer(base, LayerObjects, houseDef(2)); err != nil {
		t.Fatalf("place house: %v", err)
	}
	moved, err := m.TryMoveTile(base, isocoord.Cell{X: 5, Y: 5}, LayerObjects)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved {
		t.Fatalf("expected multi-cell object to refuse to move")
	}

	single := isocoord.Cell{X: 3, Y: 3}
	if _, err := m.TryPlaceTileInLayer(single, LayerObjects, unitDef()); err != nil {
		t.Fatalf("place unit: %v", err)
	}
	other := isocoord.Cell{X: 1, Y: 0} // a blocker cell of the house
	moved, err = m.TryMoveTile(single, other, LayerObjects)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved {
		t.Fatalf("expected move into an occupied cell to fail")
	}
}

func TestMoveTileNoOpSameCell(t *testing.T) {
	m := New(8, 8)
	cell := isocoord.Cell{X: 2, Y: 2}
	if _, err := m.TryPlaceTileInLayer(cell, LayerObjects, unitDef()); err != nil {
		t.Fatalf("place unit: %v", err)
	}
	moved, err := m.TryMoveTile(cell, cell, LayerObjects)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved {
		t.Fatalf("moving a tile into its own cell should be a no-op")
	}
}

func TestStackingTwoUnitsAndPopOne(t *testing.T) {
	m := New(8, 8)
	from := isocoord.Cell{X: 2, Y: 2}
	to := isocoord.Cell{X: 3, Y: 2}

	first, err := m.TryPlaceTileInLayer(from, LayerObjects, unitDef())
	if err != nil {
		t.Fatalf("place first unit: %v", err)
	}
	second, err := m.TryPlaceTileInLayer(to, LayerObjects, unitDef())
	if err != nil {
		t.Fatalf("place second unit: %v", err)
	}

	if err := m.TryMoveTileWithStacking(first.SelfIndex, from, to); err != nil {
		t.Fatalf("stacked move: %v", err)
	}

	stack := m.StackAt(to, LayerObjects)
	if len(stack) != 2 {
		t.Fatalf("expected 2 stacked units, got %d", len(stack))
	}

	// Pop the one that was moved in (now head) back out.
	if err := m.TryMoveTileWithStacking(first.SelfIndex, to, from); err != nil {
		t.Fatalf("stacked move back: %v", err)
	}
	if len(m.StackAt(to, LayerObjects)) != 1 {
		t.Fatalf("expected a single unit left at %+v", to)
	}
	if m.StackAt(to, LayerObjects)[0] != second {
		t.Fatalf("expected remaining unit to be the second one placed")
	}
}

func TestTopmostTileAtCursorPrefersObjects(t *testing.T) {
	m := New(8, 8)
	cell := isocoord.Cell{X: 0, Y: 0}
	if _, err := m.TryPlaceTileInLayer(cell, LayerTerrain, grassDef()); err != nil {
		t.Fatalf("place terrain: %v", err)
	}
	if m.TopmostTileAtCursor(cell).Archetype != ArchetypeTerrain {
		t.Fatalf("expected terrain tile with no object present")
	}
	if _, err := m.TryPlaceTileInLayer(cell, LayerObjects, unitDef()); err != nil {
		t.Fatalf("place object: %v", err)
	}
	top := m.TopmostTileAtCursor(cell)
	if top.Archetype != ArchetypeObject {
		t.Fatalf("expected object tile to take precedence, got %v", top.Archetype)
	}
}

func TestUpdateAnimsAdvancesWithinVisibleRangeOnly(t *testing.T) {
	m := New(8, 8)
	def := &TileDef{
		Name: "campfire", Layer: LayerObjects, Kind: KindObject, LogicalSizeCells: 1,
		Variations: []TileVariation{{AnimSets: []TileAnimSet{{
			FrameDurationSecs: 1.0,
			Looping:           true,
			Frames:            []TileSprite{{}, {}, {}},
		}}}},
	}
	visible := isocoord.Cell{X: 0, Y: 0}
	hidden := isocoord.Cell{X: 5, Y: 5}
	if _, err := m.TryPlaceTileInLayer(visible, LayerObjects, def); err != nil {
		t.Fatalf("place visible: %v", err)
	}
	if _, err := m.TryPlaceTileInLayer(hidden, LayerObjects, def); err != nil {
		t.Fatalf("place hidden: %v", err)
	}

	visibleRange := isocoord.CellRange{Start: isocoord.Cell{X: 0, Y: 0}, End: isocoord.Cell{X: 1, Y: 1}}
	m.UpdateAnims(visibleRange, 1.5)

	visTile := m.TileAt(visible, LayerObjects)
	if visTile.Anim.FrameIndex != 1 {
		t.Fatalf("expected visible tile to advance one frame, got %+v", visTile.Anim)
	}
	hidTile := m.TileAt(hidden, LayerObjects)
	if hidTile.Anim.FrameIndex != 0 {
		t.Fatalf("expected hidden tile to not advance, got %+v", hidTile.Anim)
	}
}

func TestUpdateAnimsClampsNonLooping(t *testing.T) {
	m := New(4, 4)
	def := &TileDef{
		Name: "construction", Layer: LayerObjects, Kind: KindObject, LogicalSizeCells: 1,
		Variations: []TileVariation{{AnimSets: []TileAnimSet{{
			FrameDurationSecs: 1.0,
			Looping:           false,
			Frames:            []TileSprite{{}, {}},
		}}}},
	}
	cell := isocoord.Cell{X: 0, Y: 0}
	if _, err := m.TryPlaceTileInLayer(cell, LayerObjects, def); err != nil {
		t.Fatalf("place: %v", err)
	}
	full := isocoord.CellRange{Start: isocoord.Cell{X: 0, Y: 0}, End: isocoord.Cell{X: 3, Y: 3}}
	m.UpdateAnims(full, 10)
	tile := m.TileAt(cell, LayerObjects)
	if tile.Anim.FrameIndex != 1 {
		t.Fatalf("expected clamp at last frame, got %d", tile.Anim.FrameIndex)
	}
}
