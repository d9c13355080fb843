package element

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/femcore/geometry"
	"github.com/notargets/femcore/topology"
)

func (e *Element) vertexPoints() (pts []geometry.Point) {
	for _, v := range e.Vertices() {
		pts = append(pts, v.Coords())
	}
	return
}

// Length is the distance between the two end vertices
func (e *Element) Length() float64 {
	verts := e.Vertices()
	return geometry.Distance(verts[0].Coords(), verts[len(verts)-1].Coords())
}

// Area is signed, negative when the vertices run clockwise
func (e *Element) Area() float64 {
	p := e.vertexPoints()
	switch len(p) {
	case 3:
		return geometry.TriangleArea(p[0], p[1], p[2])
	case 4:
		return geometry.QuadArea(p[0], p[1], p[2], p[3])
	}
	return geometry.PolygonArea(p)
}

// Volume is signed for tetrahedra and 0 for every other 3D shape
func (e *Element) Volume() float64 {
	if e.Shape() != topology.Tetrahedron {
		return 0
	}
	p := e.vertexPoints()
	return geometry.TetrahedronVolume(p[0], p[1], p[2], p[3])
}

// Diameter is the longest distance between consecutive nodes of the node list
func (e *Element) Diameter() (dia float64) {
	for i := 1; i < len(e.Nodes); i++ {
		if d := geometry.Distance(e.Nodes[i-1].Point, e.Nodes[i].Point); d > dia {
			dia = d
		}
	}
	return
}

/*
AdjustOrientation makes 2D elements counter clockwise and tetrahedra positive, changed reports
whether the vertices were renumbered. 2D vertices are reversed, a tetrahedron swaps vertices 2 and 3.
*/
func (e *Element) AdjustOrientation() (changed bool, err error) {
	switch e.Geo.Dim {
	case geometry.Surface:
		if e.Area() >= 0 {
			return
		}
		n := len(e.Vertices())
		order := make([]int, n)
		for i := range order {
			order[i] = n - i
		}
		if err = e.ReorderVertices(order); err != nil {
			return
		}
		return true, nil
	case geometry.Solid:
		if e.Volume() >= 0 {
			return
		}
		if err = e.ReorderVertices([]int{1, 3, 2, 4}); err != nil {
			return
		}
		if vol := e.Volume(); vol < 0 {
			return true, fmt.Errorf("element %d: volume %g after reorientation: %w",
				e.GlobalIndex, vol, ErrMeasurementUnavailable)
		}
		return true, nil
	}
	return
}

// neighbors2D returns the nodes either side of local node li (1 based) on the element boundary
func (e *Element) neighbors2D(li int) (l, r *geometry.Node, ok bool) {
	var (
		vn = len(e.Vertices())
		at = func(i int) *geometry.Node { return e.Nodes[i-1] }
	)
	switch {
	case li <= vn:
		prev, next := li-1, li+1
		if prev < 1 {
			prev = vn
		}
		if next > vn {
			next = 1
		}
		return at(prev), at(next), true
	case len(e.Nodes)/vn == 2:
		// one node per edge, edge k joins vertices k and k+1
		k := li - vn
		next := k + 1
		if next > vn {
			next = 1
		}
		return at(k), at(next), true
	}
	return
}

func (e *Element) owned(n *geometry.Node) (li int, err error) {
	if li = e.LocalIndex(n.Point); li == 0 {
		err = fmt.Errorf("node %s, element %s: %w", n, e, ErrEntityNotOwned)
	}
	return
}

// AngleAtNode is the interior angle of a 2D element at one of its nodes
func (e *Element) AngleAtNode(n *geometry.Node) (float64, error) {
	if e.Geo.Dim != geometry.Surface {
		return 0, fmt.Errorf("angle in %dD element %s: %w", e.Dim(), e, ErrUnsupportedTopology)
	}
	li, err := e.owned(n)
	if err != nil {
		return 0, err
	}
	l, r, ok := e.neighbors2D(li)
	if !ok {
		return 0, fmt.Errorf("no angle at node %s of element %s: %w", n, e, ErrUnsupportedTopology)
	}
	return geometry.Angle2D(l.Point, n.Point, r.Point), nil
}

// DiagVectorAtNode is the sum of the vectors from a vertex to its two neighbors, zero for non vertex nodes
func (e *Element) DiagVectorAtNode(n *geometry.Node) (v r2.Vec, err error) {
	var li int
	if li, err = e.owned(n); err != nil {
		return
	}
	if li > len(e.Vertices()) || e.Geo.Dim != geometry.Surface {
		return
	}
	l, r, _ := e.neighbors2D(li)
	p := geometry.Vec2(n.Point)
	v = r2.Add(r2.Sub(geometry.Vec2(l.Point), p), r2.Sub(geometry.Vec2(r.Point), p))
	return
}

var tetOpposite = [][3]int{{2, 3, 4}, {3, 4, 1}, {4, 1, 2}, {1, 2, 3}}

/*
UnitSphereTriangleArea is the solid angle the element subtends at one of its vertices. Summed over
all elements around a node it is 4 pi for an interior node.
*/
func (e *Element) UnitSphereTriangleArea(n *geometry.Node) (float64, error) {
	li, err := e.owned(n)
	if err != nil {
		return 0, err
	}
	if li > len(e.Vertices()) {
		return 0, fmt.Errorf("node %s is not a vertex of element %s: %w", n, e, ErrEntityNotOwned)
	}
	var adj [3]*geometry.Node
	switch e.Shape() {
	case topology.Tetrahedron:
		for i, j := range tetOpposite[li-1] {
			adj[i] = e.Nodes[j-1]
		}
	case topology.Hexahedron:
		var k int
		for _, ed := range topology.Hexahedron.Edges {
			switch li {
			case ed[0]:
				adj[k] = e.Nodes[ed[1]-1]
				k++
			case ed[1]:
				adj[k] = e.Nodes[ed[0]-1]
				k++
			}
		}
	default:
		return 0, fmt.Errorf("solid angle of element %s: %w", e, ErrUnsupportedTopology)
	}
	return geometry.SphericalTriangleArea(n.Point, adj[0].Point, adj[1].Point, adj[2].Point), nil
}
