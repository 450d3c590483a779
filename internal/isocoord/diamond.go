package isocoord

// Diamond is the four-vertex isometric footprint of a single cell (or, when
// scaled, of the whole map), in iso space, wound counter-clockwise starting
// at the top vertex. It backs both cursor picking (§4.1) and the camera
// constraint polygon (§4.9).
type Diamond struct {
	Top, Right, Bottom, Left IsoPointF32
}

// CellDiamond returns the diamond footprint of a single cell centered on
// its CellToIso projection.
func CellDiamond(c Cell) Diamond {
	center := CellToIso(c)
	halfW := float32(BaseTileWidth) / 2
	halfH := float32(BaseTileHeight) / 2
	cx, cy := float32(center.X), float32(center.Y)
	return Diamond{
		Top:    IsoPointF32{X: cx, Y: cy - halfH},
		Right:  IsoPointF32{X: cx + halfW, Y: cy},
		Bottom: IsoPointF32{X: cx, Y: cy + halfH},
		Left:   IsoPointF32{X: cx - halfW, Y: cy},
	}
}

// Vertices returns the four corners in CCW order for polygon algorithms
// that want a slice (edge walking, shrinking).
func (d Diamond) Vertices() [4]IsoPointF32 {
	return [4]IsoPointF32{d.Top, d.Left, d.Bottom, d.Right}
}

// Contains reports whether p lies within the diamond (inclusive of the
// boundary), via the sum-of-cross-products test standard for convex
// quadrilaterals.
func (d Diamond) Contains(p IsoPointF32) bool {
	verts := d.Vertices()
	sign := 0
	for i := 0; i < 4; i++ {
		a := verts[i]
		b := verts[(i+1)%4]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return true
}

// MapDiamond returns the four vertices (CCW) of the overall map's isometric
// playable envelope for a width x height grid, used by camera constraints
// (§4.9).
func MapDiamond(width, height int) Diamond {
	corners := [4]Cell{
		{X: 0, Y: 0},
		{X: width - 1, Y: 0},
		{X: width - 1, Y: height - 1},
		{X: 0, Y: height - 1},
	}
	pts := make([]IsoPointF32, 4)
	for i, c := range corners {
		p := CellToIso(c)
		pts[i] = IsoPointF32{X: float32(p.X), Y: float32(p.Y)}
	}
	// Order by projected role (top/right/bottom/left) by picking the
	// extreme projected coordinates directly rather than relying on the
	// corners' array index.
	top, bottom, left, right := pts[0], pts[0], pts[0], pts[0]
	for _, p := range pts {
		if p.Y < top.Y {
			top = p
		}
		if p.Y > bottom.Y {
			bottom = p
		}
		if p.X < left.X {
			left = p
		}
		if p.X > right.X {
			right = p
		}
	}
	return Diamond{Top: top, Right: right, Bottom: bottom, Left: left}
}

// FindExactCellForPoint resolves a screen point to its precise containing
// cell by testing it against the diamond polygons of the approximate cell
// and its 8 neighbors (§4.1). It returns InvalidCell if none of the 9
// candidates contains the point (can happen right at the map edge).
func FindExactCellForPoint(screen IsoPointF32, transform WorldToScreenTransform) Cell {
	iso := transform.Invert(screen)
	approx := IsoToCell(IsoPoint{X: int(iso.X), Y: int(iso.Y)})

	candidates := make([]Cell, 0, 9)
	candidates = append(candidates, approx)
	neighbors := approx.Neighbors8()
	candidates = append(candidates, neighbors[:]...)

	for _, c := range candidates {
		if CellDiamond(c).Contains(iso) {
			return c
		}
	}
	return InvalidCell
}
