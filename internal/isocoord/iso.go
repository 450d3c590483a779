package isocoord

// BaseTileWidth x BaseTileHeight is the logical isometric tile footprint, fixed for the whole
// engine (§3: "BASE_TILE_SIZE is a fixed constant (logical 64x32)"). All
// cell<->iso conversions go through this constant; a tile's own
// LogicalSize/DrawSize (owned by the tile-def registry) are independent of
// it.
const (
	BaseTileWidth  = 64
	BaseTileHeight = 32
)

// IsoPoint is an integer isometric screen-space coordinate, pre-camera.
type IsoPoint struct {
	X, Y int
}

// IsoPointF32 is the float32 counterpart used for cached per-tile draw
// coordinates, where sub-pixel precision matters for smooth camera motion.
type IsoPointF32 struct {
	X, Y float32
}

// CellToIso projects a cell to isometric screen space using the fixed base
// tile size (§3, round-trip law §8).
func CellToIso(c Cell) IsoPoint {
	return IsoPoint{
		X: (c.X - c.Y) * (BaseTileWidth / 2),
		Y: (c.X + c.Y) * (BaseTileHeight / 2),
	}
}

// IsoToCell inverts CellToIso exactly for points produced by CellToIso on
// integer cells (§8 round-trip law: iso_to_cell(cell_to_iso(c)) == c).
func IsoToCell(p IsoPoint) Cell {
	halfW := BaseTileWidth / 2
	halfH := BaseTileHeight / 2
	// x = (cx - cy) * halfW, y = (cx + cy) * halfH
	// => cx = x/(2*halfW) + y/(2*halfH), cy = y/(2*halfH) - x/(2*halfW)
	cxNum := p.X*halfH + p.Y*halfW
	cyNum := p.Y*halfW - p.X*halfH
	denom := 2 * halfW * halfH
	return Cell{X: divRound(cxNum, denom), Y: divRound(cyNum, denom)}
}

func divRound(num, den int) int {
	if den == 0 {
		return 0
	}
	if (num < 0) != (den < 0) {
		return -((-num + den/2) / den)
	}
	return (num + den/2) / den
}

// WorldToScreenTransform is the camera-applied transform from iso space to
// screen space: screen = iso*scaling + offset (§3).
type WorldToScreenTransform struct {
	Scaling float32
	OffsetX float32
	OffsetY float32
}

// Apply maps an iso point to screen space.
func (t WorldToScreenTransform) Apply(p IsoPointF32) IsoPointF32 {
	return IsoPointF32{
		X: p.X*t.Scaling + t.OffsetX,
		Y: p.Y*t.Scaling + t.OffsetY,
	}
}

// Invert maps a screen point back to iso space, used by cursor picking
// (§4.1 find_exact_cell_for_point).
func (t WorldToScreenTransform) Invert(p IsoPointF32) IsoPointF32 {
	if t.Scaling == 0 {
		return IsoPointF32{}
	}
	return IsoPointF32{
		X: (p.X - t.OffsetX) / t.Scaling,
		Y: (p.Y - t.OffsetY) / t.Scaling,
	}
}
