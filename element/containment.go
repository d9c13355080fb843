package element

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/femcore/geometry"
)

/*
IsCoordInElement reports whether a point lies in the element, boundary and nodes included.
	1D: the point is on the segment between the two vertices
	2D: the point is inside an edge, or the angles the edges subtend at the point add up to 2 pi
	3D: the solid angles of the faces, each split into a fan of triangles, add up to 4 pi
*/
func (e *Element) IsCoordInElement(coords ...float64) bool {
	p := geometry.NewPoint(coords...)
	for _, n := range e.Nodes {
		if n.CoordEquals(p) {
			return true
		}
	}
	switch e.Geo.Dim {
	case geometry.Curve:
		verts := e.Vertices()
		return geometry.OnSegment(verts[0].Coords(), verts[len(verts)-1].Coords(), p)
	case geometry.Surface:
		var angle float64
		for _, el := range e.Edges() {
			a, b := el.Begin().Point, el.End().Point
			if geometry.OnSegmentInterior(a, b, p) {
				return true
			}
			angle += geometry.Angle2D(a, p, b)
		}
		return math.Abs(angle-2*math.Pi) < geometry.AngleEps
	case geometry.Solid:
		var angle float64
		for _, f := range e.Faces() {
			vs := f.Vertices
			for j := 2; j < len(vs); j++ {
				angle += geometry.SphericalTriangleArea(p, vs[0].Coords(), vs[j-1].Coords(), vs[j].Coords())
			}
		}
		return math.Abs(angle-4*math.Pi) <= geometry.AngleEps
	}
	return false
}

// ContainsEdge reports whether one of the element's edges joins the nodes at p1 and p2
func (e *Element) ContainsEdge(p1, p2 geometry.Point) bool {
	match := func(l *Line) bool {
		b, en := l.Begin().Point, l.End().Point
		return (b.CoordEquals(p1) && en.CoordEquals(p2)) || (b.CoordEquals(p2) && en.CoordEquals(p1))
	}
	if e.Geo.Dim == geometry.Curve {
		return match(&e.Geo.Edge.Line)
	}
	for _, el := range e.Edges() {
		if match(&el.Line) {
			return true
		}
	}
	return false
}

// Bound is the axis aligned box around the element nodes, unused axes are 0
func (e *Element) Bound() (b r3.Box) {
	for i, n := range e.Nodes {
		v := geometry.Vec3(n.Point)
		if i == 0 {
			b.Min, b.Max = v, v
			continue
		}
		b.Min = r3.Vec{X: math.Min(b.Min.X, v.X), Y: math.Min(b.Min.Y, v.Y), Z: math.Min(b.Min.Z, v.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, v.X), Y: math.Max(b.Max.Y, v.Y), Z: math.Max(b.Max.Z, v.Z)}
	}
	return
}
