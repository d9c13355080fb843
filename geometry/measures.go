package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func Vec2(p Point) r2.Vec { return r2.Vec{X: p.Coord(0), Y: p.Coord(1)} }

func Vec3(p Point) r3.Vec { return r3.Vec{X: p.Coord(0), Y: p.Coord(1), Z: p.Coord(2)} }

func Distance(a, b Point) float64 {
	if len(a.X) != len(b.X) {
		return r3.Norm(r3.Sub(Vec3(a), Vec3(b)))
	}
	return floats.Distance(a.X, b.X, 2)
}

// TriangleArea is signed, negative for clockwise vertex order
func TriangleArea(a, b, c Point) float64 {
	pa, pb, pc := Vec2(a), Vec2(b), Vec2(c)
	return 0.5 * r2.Cross(r2.Sub(pb, pa), r2.Sub(pc, pa))
}

// QuadArea is the signed area of a simple quadrilateral from the cross product of its diagonals
func QuadArea(a, b, c, d Point) float64 {
	pa, pb, pc, pd := Vec2(a), Vec2(b), Vec2(c), Vec2(d)
	return 0.5 * r2.Cross(r2.Sub(pc, pa), r2.Sub(pd, pb))
}

func PolygonArea(pts []Point) (area float64) {
	/*
		Algorithm: Green's theorem in the plane
	*/
	n := len(pts)
	for i := 0; i < n; i++ {
		p0, p1 := Vec2(pts[i]), Vec2(pts[(i+1)%n])
		area += r2.Cross(p0, p1)
	}
	return 0.5 * area
}

// TetrahedronVolume is signed, positive when d sits on the side of abc given by the right hand rule
func TetrahedronVolume(a, b, c, d Point) float64 {
	pa := Vec3(a)
	ab, ac, ad := r3.Sub(Vec3(b), pa), r3.Sub(Vec3(c), pa), r3.Sub(Vec3(d), pa)
	return r3.Dot(ab, r3.Cross(ac, ad)) / 6
}

// Angle2D is the unsigned angle in [0,pi] at apex between the rays to a and b
func Angle2D(a, apex, b Point) float64 {
	u := r2.Sub(Vec2(a), Vec2(apex))
	v := r2.Sub(Vec2(b), Vec2(apex))
	if r2.Norm(u) == 0 || r2.Norm(v) == 0 {
		return 0
	}
	return math.Atan2(math.Abs(r2.Cross(u, v)), r2.Dot(u, v))
}

/*
SphericalTriangleArea is the area of the triangle abc projected onto the unit sphere centered at apex,
which is the solid angle abc subtends at apex (Van Oosterom and Strackee, 1983)
*/
func SphericalTriangleArea(apex, a, b, c Point) float64 {
	o := Vec3(apex)
	ra, rb, rc := r3.Sub(Vec3(a), o), r3.Sub(Vec3(b), o), r3.Sub(Vec3(c), o)
	la, lb, lc := r3.Norm(ra), r3.Norm(rb), r3.Norm(rc)
	if la == 0 || lb == 0 || lc == 0 {
		return 0
	}
	num := math.Abs(r3.Dot(ra, r3.Cross(rb, rc)))
	den := la*lb*lc + r3.Dot(ra, rb)*lc + r3.Dot(ra, rc)*lb + r3.Dot(rb, rc)*la
	return 2 * math.Atan2(num, den)
}

// OnSegment reports whether p lies on the closed segment ab
func OnSegment(a, b, p Point) bool {
	ab := Distance(a, b)
	return math.Abs(Distance(a, p)+Distance(p, b)-ab) <= NodeTol*math.Max(1, ab)
}

// OnSegmentInterior excludes the segment's own endpoints
func OnSegmentInterior(a, b, p Point) bool {
	if p.CoordEquals(a) || p.CoordEquals(b) {
		return false
	}
	return OnSegment(a, b, p)
}
