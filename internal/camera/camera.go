// Package camera implements the camera-center constraint polygon and
// motion clamping described in §4.9: a convex boundary derived from the
// map's isometric diamond, shrunk inward by the viewport's half-extents so
// the viewport can never expose void space outside the map.
package camera

import (
	"isotown/internal/isocoord"
)

// tolerance is the signed-distance slack below which an edge is treated as
// already-violated rather than merely approached (§4.9 "already outside the
// boundary (signed_distance < tolerance)").
const tolerance = float32(2)

type edge struct {
	point  isocoord.IsoPointF32 // a point on the (already shrunk) edge line
	normal isocoord.IsoPointF32 // inward unit normal
}

// Constraint is the shrunken map diamond a camera center must stay within.
type Constraint struct {
	edges [4]edge
}

func sub(a, b isocoord.IsoPointF32) isocoord.IsoPointF32 {
	return isocoord.IsoPointF32{X: a.X - b.X, Y: a.Y - b.Y}
}

func dot(a, b isocoord.IsoPointF32) float32 {
	return a.X*b.X + a.Y*b.Y
}

func length(a isocoord.IsoPointF32) float32 {
	sq := a.X*a.X + a.Y*a.Y
	if sq <= 0 {
		return 0
	}
	return sqrtf32(sq)
}

// sqrtf32 is Newton's method to one ulp of float64's math.Sqrt, avoiding a
// float64 round trip for the handful of camera vectors computed per frame.
func sqrtf32(x float32) float32 {
	if x == 0 {
		return 0
	}
	z := x
	for i := 0; i < 64; i++ {
		next := z - (z*z-x)/(2*z)
		if next == z {
			break
		}
		z = next
	}
	return z
}

func normalize(a isocoord.IsoPointF32) isocoord.IsoPointF32 {
	l := length(a)
	if l == 0 {
		return a
	}
	return isocoord.IsoPointF32{X: a.X / l, Y: a.Y / l}
}

// intersectLines returns the intersection of two infinite lines, each given
// as a point plus a direction vector. The map diamond's edges are never
// parallel to an adjacent edge, so the denominator is never zero here.
func intersectLines(p1, d1, p2, d2 isocoord.IsoPointF32) isocoord.IsoPointF32 {
	denom := d1.X*d2.Y - d1.Y*d2.X
	if denom == 0 {
		return p1
	}
	t := ((p2.X-p1.X)*d2.Y - (p2.Y-p1.Y)*d2.X) / denom
	return isocoord.IsoPointF32{X: p1.X + d1.X*t, Y: p1.Y + d1.Y*t}
}

// NewConstraint builds the camera-center boundary for a width x height map
// given the viewport's half-width/half-height, both in iso-space pixels
// (§4.9 steps 1-3).
func NewConstraint(mapWidth, mapHeight int, viewportHalfW, viewportHalfH float32) Constraint {
	verts := isocoord.MapDiamond(mapWidth, mapHeight).Vertices()

	centroid := isocoord.IsoPointF32{}
	for _, v := range verts {
		centroid.X += v.X / 4
		centroid.Y += v.Y / 4
	}

	type rawEdge struct {
		a, b, n isocoord.IsoPointF32
	}
	raw := make([]rawEdge, 4)
	for i := 0; i < 4; i++ {
		a := verts[i]
		b := verts[(i+1)%4]
		dir := sub(b, a)
		n := normalize(isocoord.IsoPointF32{X: -dir.Y, Y: dir.X})
		if dot(n, sub(centroid, a)) < 0 {
			n = isocoord.IsoPointF32{X: -n.X, Y: -n.Y}
		}
		raw[i] = rawEdge{a: a, b: b, n: n}
	}

	var c Constraint
	for i, r := range raw {
		support := absf32(viewportHalfW*r.n.X) + absf32(viewportHalfH*r.n.Y)
		shiftedA := isocoord.IsoPointF32{X: r.a.X + r.n.X*support, Y: r.a.Y + r.n.Y*support}
		c.edges[i] = edge{point: shiftedA, normal: r.n}
	}

	// Reconstruct the 4 shrunken vertices is implicit: ClampDelta only needs
	// each edge's (point, normal) pair for signed-distance tests, not the
	// corner points themselves, so no further intersection step is required
	// for motion clamping. Vertices are exposed separately for callers that
	// want to draw the boundary.
	return c
}

// Vertices reconstructs the 4 corner points of the shrunken diamond by
// intersecting each pair of consecutive edge lines (§4.9 step 3), for
// callers that want to visualize the constraint boundary.
func (c Constraint) Vertices() [4]isocoord.IsoPointF32 {
	var verts [4]isocoord.IsoPointF32
	for i := 0; i < 4; i++ {
		e1 := c.edges[i]
		e2 := c.edges[(i+3)%4] // the previous edge, so the vertex sits between them
		d1 := isocoord.IsoPointF32{X: -e1.normal.Y, Y: e1.normal.X}
		d2 := isocoord.IsoPointF32{X: -e2.normal.Y, Y: e2.normal.X}
		verts[i] = intersectLines(e1.point, d1, e2.point, d2)
	}
	return verts
}

func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp01(x float32) float32 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

// ClampDelta restricts a desired camera-center motion so the center never
// leaves the constraint polygon (§4.9 "Motion clamping").
func (c Constraint) ClampDelta(center, delta isocoord.IsoPointF32) isocoord.IsoPointF32 {
	active := 0
	tMin := float32(1)
	result := delta

	for _, e := range c.edges {
		signedDistance := dot(e.normal, sub(center, e.point))
		normalVel := dot(e.normal, delta)
		if normalVel >= 0 {
			continue // moving inward or tangent along this edge; not a threat
		}
		if signedDistance < tolerance {
			// Already at or past the edge: slide, removing the outward
			// normal component entirely.
			result = sub(result, isocoord.IsoPointF32{X: e.normal.X * normalVel, Y: e.normal.Y * normalVel})
			active++
			continue
		}
		t := signedDistance / -normalVel
		if t < tMin {
			tMin = t
		}
	}

	if active >= 2 {
		return isocoord.IsoPointF32{}
	}
	if active == 1 {
		return result
	}

	scale := clamp01(tMin)
	return isocoord.IsoPointF32{X: delta.X * scale, Y: delta.Y * scale}
}
