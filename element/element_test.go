package element

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/femcore/dof"
	"github.com/notargets/femcore/geometry"
	"github.com/notargets/femcore/topology"
	"github.com/notargets/femcore/types"
)

func mkNodes(coords ...[]float64) (nodes []*geometry.Node) {
	for i, x := range coords {
		nodes = append(nodes, geometry.NewNode(i+1, x...))
	}
	return
}

func unitTet() []*geometry.Node {
	return mkNodes([]float64{0, 0, 0}, []float64{1, 0, 0}, []float64{0, 1, 0}, []float64{0, 0, 1})
}

func unitCube() []*geometry.Node {
	return mkNodes(
		[]float64{0, 0, 0}, []float64{1, 0, 0}, []float64{1, 1, 0}, []float64{0, 1, 0},
		[]float64{0, 0, 1}, []float64{1, 0, 1}, []float64{1, 1, 1}, []float64{0, 1, 1},
	)
}

func unitSquare() []*geometry.Node {
	return mkNodes([]float64{0, 0}, []float64{1, 0}, []float64{1, 1}, []float64{0, 1})
}

func p2Triangle() []*geometry.Node {
	return mkNodes(
		[]float64{0, 0}, []float64{1, 0}, []float64{0, 1},
		[]float64{0.5, 0}, []float64{0.5, 0.5}, []float64{0, 0.5},
	)
}

func TestBuild(t *testing.T) {
	var (
		x2 = mkNodes([]float64{0}, []float64{1})
		x3 = mkNodes([]float64{0}, []float64{1}, []float64{2})
		x4 = mkNodes([]float64{0}, []float64{1}, []float64{2}, []float64{3})
	)
	testCases := []struct {
		name          string
		in, nodes     []*geometry.Node
		dim           int
		nVerts, nEdge int
		shape         *topology.Shape
	}{
		{"line2", x2, x2, 1, 2, 0, nil},
		{"line3", x3, []*geometry.Node{x3[0], x3[2], x3[1]}, 1, 2, 0, nil},
		{"line4", x4, []*geometry.Node{x4[0], x4[3], x4[1], x4[2]}, 1, 2, 0, nil},
		{"tri3", unitSquare()[:3], nil, 2, 3, 3, topology.Triangle},
		{"quad4", unitSquare(), nil, 2, 4, 4, topology.Quad},
		{"tri6", p2Triangle(), nil, 2, 3, 3, topology.Triangle},
		{"tet4", unitTet(), nil, 3, 4, 12, topology.Tetrahedron},
		{"hex8", unitCube(), nil, 3, 8, 24, topology.Hexahedron},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := Build(tc.in)
			require.NoError(t, err)
			if tc.nodes == nil {
				tc.nodes = tc.in
			}
			assert.Equal(t, tc.nodes, e.Nodes)
			// the traversal of the entity gives back the node list
			assert.Equal(t, e.Nodes, nodeList(e.Geo))
			assert.Equal(t, tc.dim, e.Dim())
			assert.Equal(t, tc.nVerts, len(e.Vertices()))
			assert.Equal(t, tc.nEdge, len(e.Edges()))
			assert.Equal(t, tc.shape, e.Shape())
			assert.Equal(t, 1, e.Level)
			for i, v := range e.Vertices() {
				assert.Equal(t, i+1, v.LocalIndex)
			}
		})
	}

	t.Run("interior node of a line", func(t *testing.T) {
		e, err := Build(x3)
		require.NoError(t, err)
		require.Len(t, e.Geo.Edge.EdgeNodes, 1)
		assert.Equal(t, 3, e.Geo.Edge.EdgeNodes[0].LocalIndex)
		assert.Equal(t, x3[1], e.Geo.Edge.EdgeNodes[0].Node)
		assert.InDelta(t, 2., e.Length(), 1.e-12)
	})

	t.Run("quadratic edge nodes", func(t *testing.T) {
		e, err := Build(p2Triangle())
		require.NoError(t, err)
		for i, el := range e.Edges() {
			require.Len(t, el.EdgeNodes, 1)
			assert.Equal(t, 4+i, el.EdgeNodes[0].LocalIndex)
			mid := geometry.NewPoint(
				0.5*(el.Begin().Coord(0)+el.End().Coord(0)),
				0.5*(el.Begin().Coord(1)+el.End().Coord(1)))
			assert.True(t, el.EdgeNodes[0].Node.CoordEquals(mid))
		}
	})

	t.Run("edges of 3D faces", func(t *testing.T) {
		e, err := Build(unitTet())
		require.NoError(t, err)
		require.Len(t, e.Faces(), 4)
		var li []int
		for _, el := range e.Faces()[0].Edges {
			li = append(li, el.LocalIndex)
		}
		assert.Equal(t, []int{1, 2, 3}, li)
		assert.Equal(t, topology.Triangle, e.Faces()[0].Topology)

		e, err = Build(unitCube())
		require.NoError(t, err)
		for _, f := range e.Faces() {
			assert.Len(t, f.Edges, 4)
			assert.Equal(t, topology.Quad, f.Topology)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		testCases := [][]*geometry.Node{
			nil,
			mkNodes([]float64{0}),
			mkNodes([]float64{0, 0}, []float64{1, 0}, []float64{1, 1}, []float64{0, 1}, []float64{0.5, 0.5}),
			append(unitSquare(), unitSquare()...),
			unitTet()[:3],
			append(unitTet(), unitTet()[:2]...),
			mkNodes([]float64{0, 0, 0, 0}, []float64{1, 0, 0, 0}),
		}
		for _, in := range testCases {
			_, err := Build(in)
			assert.ErrorIs(t, err, ErrUnsupportedTopology, "%d nodes", len(in))
		}
	})
}

func TestBuildFromGeo(t *testing.T) {
	_, err := BuildFromGeo(GeoEntity{Dim: geometry.Surface})
	assert.ErrorIs(t, err, ErrUnsupportedTopology)

	nodes := p2Triangle()
	e, err := Build(nodes)
	require.NoError(t, err)
	te, err := e.Edges()[1].ToElement(e)
	require.NoError(t, err)
	assert.Equal(t, 1, te.Dim())
	assert.Equal(t, e, te.Parent)
	assert.Equal(t, []*geometry.Node{nodes[1], nodes[2], nodes[4]}, te.Nodes)
	assert.InDelta(t, math.Sqrt2, te.Length(), 1.e-12)
	require.NoError(t, te.ApplyChange())
	assert.Equal(t, []*geometry.Node{nodes[1], nodes[2], nodes[4]}, te.Nodes)

	// Faces keep their cyclic vertex order through a resync
	cube := unitCube()
	e, err = Build(cube)
	require.NoError(t, err)
	fe, err := e.Faces()[2].ToElement(e)
	require.NoError(t, err)
	assert.Equal(t, 2, fe.Dim())
	assert.Equal(t, []*geometry.Node{cube[0], cube[1], cube[5], cube[4]}, fe.Nodes)
	assert.InDelta(t, 1., fe.Diameter(), 1.e-12)
	require.NoError(t, fe.ApplyChange())
	assert.Equal(t, []*geometry.Node{cube[0], cube[1], cube[5], cube[4]}, fe.Nodes)

	// face 3 of this hexahedron lies in the z = 0 plane
	flat := mkNodes(
		[]float64{0, 0, 0}, []float64{1, 0, 0}, []float64{1, 0, 1}, []float64{0, 0, 1},
		[]float64{0, 1, 0}, []float64{1, 1, 0}, []float64{1, 1, 1}, []float64{0, 1, 1},
	)
	e, err = Build(flat)
	require.NoError(t, err)
	fe, err = e.Faces()[2].ToElement(e)
	require.NoError(t, err)
	for _, n := range fe.Nodes {
		angle, err := fe.AngleAtNode(n)
		require.NoError(t, err)
		assert.InDelta(t, math.Pi/2, angle, 1.e-12, "node %s", n)
	}
	assert.InDelta(t, 1., math.Abs(fe.Area()), 1.e-12)
}

func TestTraceElementOwnsItsEntity(t *testing.T) {
	nodes := p2Triangle()
	e, err := Build(nodes)
	require.NoError(t, err)
	edge := e.Edges()[1]
	te, err := edge.ToElement(e)
	require.NoError(t, err)
	require.NoError(t, te.ReorderVertices([]int{1, 2}))
	require.NoError(t, te.ReorderVertices([]int{2, 1}))
	assert.Equal(t, []*geometry.Node{nodes[2], nodes[1], nodes[4]}, te.Nodes)
	assert.Equal(t, 3, te.Geo.Edge.EdgeNodes[0].LocalIndex)

	// the owner keeps its edge node numbering and its node list
	require.Len(t, edge.EdgeNodes, 1)
	assert.Equal(t, 5, edge.EdgeNodes[0].LocalIndex)
	assert.Same(t, nodes[1], edge.Begin())
	assert.Len(t, e.Nodes, 6)
	assert.Equal(t, e.Nodes, nodeList(e.Geo))
	require.NoError(t, e.ApplyChange())
	assert.Equal(t, nodes, e.Nodes)

	// a linked global edge is not renumbered through the trace element
	global := &Edge{Line: edge.Line.clone(), GlobalIndex: 3, Border: true}
	global.SetBorderType(1, types.Robin)
	edge.Link(global)
	te, err = edge.ToElement(e)
	require.NoError(t, err)
	require.NoError(t, te.ReorderVertices([]int{2, 1}))
	assert.Same(t, nodes[1], global.Begin())
	assert.Equal(t, 5, global.EdgeNodes[0].LocalIndex)
	assert.False(t, edge.Flipped)
	assert.Equal(t, 3, te.Geo.Edge.GlobalIndex)
	nt, err := te.BorderNodeType(1)
	require.NoError(t, err)
	assert.Equal(t, types.Robin, nt)

	// BuildFromGeo copies the entity it is given
	built, err := BuildFromGeo(GeoEntity{Dim: geometry.Curve, Edge: global})
	require.NoError(t, err)
	assert.NotSame(t, global, built.Geo.Edge)
	require.NoError(t, built.ReorderVertices([]int{2, 1}))
	assert.Same(t, nodes[1], global.Begin())
}

func TestDOFs(t *testing.T) {
	t.Run("node DOFs only", func(t *testing.T) {
		e, err := Build(unitSquare()[:3])
		require.NoError(t, err)
		for i := 1; i <= 3; i++ {
			e.AddNodeDOF(i, dof.New(i, 10*i))
		}
		var nefv, vfen []int
		for _, d := range e.AllDOFs(dof.NEFV) {
			nefv = append(nefv, d.GlobalIndex)
		}
		for _, d := range e.AllDOFs(dof.VFEN) {
			vfen = append(vfen, d.GlobalIndex)
		}
		assert.Equal(t, []int{10, 20, 30}, nefv)
		assert.Equal(t, nefv, vfen)
		for i := 1; i <= 3; i++ {
			assert.Equal(t, 10*i, e.Local2GlobalDOFIndex(i))
		}
		assert.Equal(t, 0, e.Local2GlobalDOFIndex(4))
		e.ClearAllDOF()
		assert.Equal(t, 0, e.TotalDOFs())
	})

	t.Run("round trip", func(t *testing.T) {
		e, err := Build(p2Triangle())
		require.NoError(t, err)
		attachP2(e)
		e.AddVolumeDOF(dof.New(1, 99))
		assert.Equal(t, 6, e.DOFCount(dof.Node))
		assert.Equal(t, 3, e.DOFCount(dof.Edge))
		assert.Equal(t, 1, e.DOFCount(dof.Volume))
		assert.Len(t, e.VolumeDOFs(), 1)
		for _, order := range []dof.Order{dof.NEFV, dof.VFEN} {
			for _, d := range e.AllDOFs(order) {
				assert.Equal(t, d.GlobalIndex, e.Local2GlobalDOFIndex(e.DOFElementIndex(d)))
			}
		}
		assert.Len(t, e.DOFComponent(dof.NEFV, 1), 10)
		assert.Len(t, e.DOFComponent(dof.NEFV, 2), 0)
		assert.Len(t, e.SortedDOFs(), 10)
	})
}

// attachP2 puts one DOF on every node and edge, global indices are derived from the node numbers
func attachP2(e *Element) {
	for i, n := range e.Nodes {
		e.AddNodeDOF(i+1, dof.New(i+1, n.GlobalIndex))
	}
	for _, el := range e.Edges() {
		e.AddEdgeDOF(el.LocalIndex, dof.New(el.LocalIndex, edgeGlobal(el)))
	}
}

func edgeGlobal(el *EdgeLocal) int {
	return 100 + el.Begin().GlobalIndex*el.End().GlobalIndex
}

func checkP2(t *testing.T, e *Element) {
	for i, n := range e.Nodes {
		require.Len(t, e.NodeDOFs(i+1), 1)
		assert.Equal(t, n.GlobalIndex, e.NodeDOFs(i+1)[0].GlobalIndex)
		assert.Equal(t, dof.Owner{Kind: dof.Node, Index: i + 1}, e.NodeDOFs(i+1)[0].Owner)
	}
	for _, el := range e.Edges() {
		require.Len(t, e.EdgeDOFs(el.LocalIndex), 1)
		assert.Equal(t, edgeGlobal(el), e.EdgeDOFs(el.LocalIndex)[0].GlobalIndex)
	}
}

func TestApplyChange(t *testing.T) {
	e, err := Build(p2Triangle())
	require.NoError(t, err)
	attachP2(e)
	nodes := append([]*geometry.Node{}, e.Nodes...)
	dofs := e.AllDOFs(dof.NEFV)

	for i := 0; i < 2; i++ {
		require.NoError(t, e.ApplyChange())
		assert.Equal(t, nodes, e.Nodes)
		assert.Equal(t, dofs, e.AllDOFs(dof.NEFV))
		checkP2(t, e)
	}

	assert.Error(t, e.ReorderVertices([]int{1, 1, 2}))
	assert.Error(t, e.ReorderVertices([]int{1, 2}))

	// a rotation of the vertices carries edge nodes and DOFs along
	require.NoError(t, e.ReorderVertices([]int{2, 3, 1}))
	assert.Equal(t, []*geometry.Node{nodes[1], nodes[2], nodes[0], nodes[4], nodes[5], nodes[3]}, e.Nodes)
	assert.Equal(t, e.Nodes, nodeList(e.Geo))
	checkP2(t, e)
	assert.InDelta(t, 0.5, e.Area(), 1.e-12)

	// reversing a linear quad only flips its winding
	q, err := Build(unitSquare())
	require.NoError(t, err)
	require.NoError(t, q.ReorderVertices([]int{4, 3, 2, 1}))
	assert.InDelta(t, -1., q.Area(), 1.e-12)
}

func TestOrientation(t *testing.T) {
	t.Run("triangle", func(t *testing.T) {
		ccw := unitSquare()[:3]
		ccw[2] = geometry.NewNode(3, 0, 1)
		e, err := Build(ccw)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, e.Area(), 1.e-12)
		changed, err := e.AdjustOrientation()
		require.NoError(t, err)
		assert.False(t, changed)

		cw := []*geometry.Node{ccw[2], ccw[1], ccw[0]}
		e, err = Build(cw)
		require.NoError(t, err)
		assert.InDelta(t, -0.5, e.Area(), 1.e-12)
		changed, err = e.AdjustOrientation()
		require.NoError(t, err)
		assert.True(t, changed)
		assert.InDelta(t, 0.5, e.Area(), 1.e-12)
		assert.Equal(t, ccw, e.Nodes)
		changed, err = e.AdjustOrientation()
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("quadratic triangle", func(t *testing.T) {
		nodes := mkNodes(
			[]float64{0, 0}, []float64{0, 1}, []float64{1, 0},
			[]float64{0, 0.5}, []float64{0.5, 0.5}, []float64{0.5, 0},
		)
		e, err := Build(nodes)
		require.NoError(t, err)
		attachP2(e)
		assert.InDelta(t, -0.5, e.Area(), 1.e-12)
		changed, err := e.AdjustOrientation()
		require.NoError(t, err)
		assert.True(t, changed)
		assert.InDelta(t, 0.5, e.Area(), 1.e-12)
		for _, el := range e.Edges() {
			mid := geometry.NewPoint(
				0.5*(el.Begin().Coord(0)+el.End().Coord(0)),
				0.5*(el.Begin().Coord(1)+el.End().Coord(1)))
			assert.True(t, el.EdgeNodes[0].Node.CoordEquals(mid), el.String())
		}
		checkP2(t, e)
	})

	t.Run("quad", func(t *testing.T) {
		sq := unitSquare()
		e, err := Build([]*geometry.Node{sq[3], sq[2], sq[1], sq[0]})
		require.NoError(t, err)
		assert.InDelta(t, -1., e.Area(), 1.e-12)
		changed, err := e.AdjustOrientation()
		require.NoError(t, err)
		assert.True(t, changed)
		assert.InDelta(t, 1., e.Area(), 1.e-12)
	})

	t.Run("tetrahedron", func(t *testing.T) {
		tet := unitTet()
		e, err := Build(tet)
		require.NoError(t, err)
		assert.InDelta(t, 1./6, e.Volume(), 1.e-12)
		changed, err := e.AdjustOrientation()
		require.NoError(t, err)
		assert.False(t, changed)

		e, err = Build([]*geometry.Node{tet[0], tet[2], tet[1], tet[3]})
		require.NoError(t, err)
		assert.InDelta(t, -1./6, e.Volume(), 1.e-12)
		changed, err = e.AdjustOrientation()
		require.NoError(t, err)
		assert.True(t, changed)
		assert.InDelta(t, 1./6, e.Volume(), 1.e-12)
		assert.Equal(t, tet, e.Nodes)
	})

	t.Run("hexahedron volume is not measured", func(t *testing.T) {
		e, err := Build(unitCube())
		require.NoError(t, err)
		assert.Equal(t, 0., e.Volume())
		changed, err := e.AdjustOrientation()
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestMeasures(t *testing.T) {
	sq, err := Build(unitSquare())
	require.NoError(t, err)
	assert.InDelta(t, 1., sq.Area(), 1.e-12)
	assert.InDelta(t, 1., sq.Diameter(), 1.e-12)

	tri, err := Build(mkNodes([]float64{0, 0}, []float64{1, 0}, []float64{0, 1}))
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, tri.Diameter(), 1.e-12)

	t.Run("angles", func(t *testing.T) {
		a, err := sq.AngleAtNode(sq.Nodes[0])
		require.NoError(t, err)
		assert.InDelta(t, math.Pi/2, a, 1.e-12)
		v, err := sq.DiagVectorAtNode(sq.Nodes[0])
		require.NoError(t, err)
		assert.Equal(t, r2.Vec{X: 1, Y: 1}, v)

		// a detached node with the coordinates of a vertex is found by position
		a, err = tri.AngleAtNode(geometry.NewNode(0, 1, 0))
		require.NoError(t, err)
		assert.InDelta(t, math.Pi/4, a, 1.e-12)

		_, err = sq.AngleAtNode(geometry.NewNode(0, 0.5, 0.5))
		assert.ErrorIs(t, err, ErrEntityNotOwned)
		_, err = sq.DiagVectorAtNode(geometry.NewNode(0, 2, 2))
		assert.ErrorIs(t, err, ErrEntityNotOwned)

		p2, err := Build(p2Triangle())
		require.NoError(t, err)
		a, err = p2.AngleAtNode(p2.Nodes[3])
		require.NoError(t, err)
		assert.InDelta(t, math.Pi, a, 1.e-12)
		v, err = p2.DiagVectorAtNode(p2.Nodes[3])
		require.NoError(t, err)
		assert.Equal(t, r2.Vec{}, v)
	})

	t.Run("solid angles", func(t *testing.T) {
		tet, err := Build(unitTet())
		require.NoError(t, err)
		sa, err := tet.UnitSphereTriangleArea(tet.Nodes[0])
		require.NoError(t, err)
		assert.InDelta(t, math.Pi/2, sa, 1.e-12)

		hex, err := Build(unitCube())
		require.NoError(t, err)
		var total float64
		for _, n := range hex.Nodes {
			sa, err = hex.UnitSphereTriangleArea(n)
			require.NoError(t, err)
			total += sa
		}
		// every corner of a cube is an octant
		assert.InDelta(t, 8*math.Pi/2, total, 1.e-9)

		_, err = hex.UnitSphereTriangleArea(geometry.NewNode(0, 0.5, 0, 0))
		assert.ErrorIs(t, err, ErrEntityNotOwned)
		_, err = sq.UnitSphereTriangleArea(sq.Nodes[0])
		assert.ErrorIs(t, err, ErrUnsupportedTopology)
	})
}

func TestContainment(t *testing.T) {
	testCases := []struct {
		name    string
		nodes   []*geometry.Node
		in, out [][]float64
	}{
		{
			name:  "line",
			nodes: mkNodes([]float64{0}, []float64{1}, []float64{2}),
			in:    [][]float64{{0.5}, {1.5}, {2}},
			out:   [][]float64{{3}, {-0.1}},
		},
		{
			name:  "triangle",
			nodes: mkNodes([]float64{0, 0}, []float64{1, 0}, []float64{0, 1}),
			in:    [][]float64{{1. / 3, 1. / 3}, {0.5, 0}, {0.5, 0.5}, {0, 0.25}},
			out:   [][]float64{{1, 1}, {-0.1, 0.5}, {100, 100}},
		},
		{
			name:  "quad",
			nodes: unitSquare(),
			in:    [][]float64{{0.5, 0.5}, {0.5, 0}, {0.999, 0.001}},
			out:   [][]float64{{1.5, 0.5}, {-10, -10}},
		},
		{
			name:  "tetrahedron",
			nodes: unitTet(),
			in:    [][]float64{{0.25, 0.25, 0.25}, {0.1, 0.1, 0.1}},
			out:   [][]float64{{10, 10, 10}, {0.5, 0.5, 0.5}},
		},
		{
			name:  "hexahedron",
			nodes: unitCube(),
			in:    [][]float64{{0.5, 0.5, 0.5}, {0.9, 0.2, 0.7}},
			out:   [][]float64{{1.5, 0.5, 0.5}, {-10, 10, 10}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := Build(tc.nodes)
			require.NoError(t, err)
			for _, n := range e.Nodes {
				assert.True(t, e.IsCoordInElement(n.X...), "node %s", n)
			}
			verts := e.Vertices()
			centroid := make([]float64, len(verts[0].Node.X))
			for _, v := range verts {
				for j, x := range v.Node.X {
					centroid[j] += x / float64(len(verts))
				}
			}
			assert.True(t, e.IsCoordInElement(centroid...), "centroid %v", centroid)
			for _, x := range tc.in {
				assert.True(t, e.IsCoordInElement(x...), "%v", x)
			}
			for _, x := range tc.out {
				assert.False(t, e.IsCoordInElement(x...), "%v", x)
			}
		})
	}

	tri, err := Build(mkNodes([]float64{0, 0}, []float64{1, 0}, []float64{0, 1}))
	require.NoError(t, err)
	assert.True(t, tri.ContainsEdge(geometry.NewPoint(1, 0), geometry.NewPoint(0, 1)))
	assert.True(t, tri.ContainsEdge(geometry.NewPoint(0, 0), geometry.NewPoint(1, 0)))
	assert.False(t, tri.ContainsEdge(geometry.NewPoint(0, 0), geometry.NewPoint(1, 1)))

	assert.Equal(t, 2, tri.LocalIndex(geometry.NewPoint(1, 0)))
	assert.Equal(t, 0, tri.LocalIndex(geometry.NewPoint(1, 1)))
	assert.Equal(t, tri.Nodes[2], tri.NodeAt(geometry.NewPoint(0, 1)))
	assert.Nil(t, tri.NodeAt(geometry.NewPoint(0, 2)))
	assert.True(t, tri.BelongsTo(geometry.NewNode(0, 0, 0)))
	assert.False(t, tri.BelongsTo(geometry.NewNode(0, 0, 3)))

	b := tri.Bound()
	assert.Equal(t, 1., b.Max.X)
	assert.Equal(t, 1., b.Max.Y)
	assert.Equal(t, 0., b.Min.Y)
	assert.Equal(t, 0., b.Max.Z)
}

func TestBorder(t *testing.T) {
	tri, err := Build(mkNodes([]float64{0, 0}, []float64{1, 0}, []float64{0, 1}))
	require.NoError(t, err)
	assert.False(t, tri.IsBorderElement())
	be, err := tri.BorderElements()
	require.NoError(t, err)
	assert.Empty(t, be)

	el := tri.Edges()[0]
	edge := &Edge{Line: el.Line, GlobalIndex: 5, Border: true}
	edge.SetBorderType(1, types.Dirichlet)
	el.Link(edge)
	assert.False(t, el.Flipped)
	assert.True(t, tri.IsBorderElement())

	be, err = tri.BorderElements()
	require.NoError(t, err)
	require.Len(t, be, 1)
	assert.Equal(t, tri, be[0].Parent)
	assert.Equal(t, []*geometry.Node{tri.Nodes[0], tri.Nodes[1]}, be[0].Nodes)
	nt, err := be[0].BorderNodeType(1)
	require.NoError(t, err)
	assert.Equal(t, types.Dirichlet, nt)
	nt, err = be[0].BorderNodeType(2)
	require.NoError(t, err)
	assert.Equal(t, types.Undefined, nt)

	// the link survives a resync and its direction is recomputed
	require.NoError(t, tri.ReorderVertices([]int{3, 2, 1}))
	assert.True(t, tri.IsBorderElement())
	for _, el := range tri.Edges() {
		if el.Global == edge {
			assert.True(t, el.Flipped)
		}
	}

	tet, err := Build(unitTet())
	require.NoError(t, err)
	_, err = tet.BorderNodeType(1)
	assert.ErrorIs(t, err, ErrUnsupportedTopology)
	tet.Faces()[1].Global = &Face{Polygon: tet.Faces()[1].Polygon, Border: true}
	assert.True(t, tet.IsBorderElement())
	be, err = tet.BorderElements()
	require.NoError(t, err)
	require.Len(t, be, 1)
	assert.Equal(t, 2, be[0].Dim())

	tri.Nodes[0].SetNodeType(1, types.Dirichlet)
	tri.Nodes[1].SetNodeType(1, types.Inner)
	assert.Len(t, tri.NodesByType(types.Dirichlet), 1)
	assert.Len(t, tri.NodesByType(types.Undefined), 1)
}

func TestRefinement(t *testing.T) {
	parent, err := Build(unitSquare())
	require.NoError(t, err)
	assert.False(t, parent.IsRefined())
	child, err := Build(unitSquare())
	require.NoError(t, err)
	child.Nodes[2].Hanging = true
	parent.AddChild(child)
	assert.True(t, parent.IsRefined())
	assert.Equal(t, 2, child.Level)
	assert.Equal(t, parent, child.Parent)
	assert.Equal(t, []*geometry.Node{child.Nodes[2]}, child.HangingNodes())

	parent.AddNeighbor(child)
	parent.AddNeighbor(child)
	assert.Len(t, parent.Neighbors, 1)
}

type constJacobian float64

func (c constJacobian) Det(...float64) float64 { return float64(c) }

type areaTransform struct{}

func (areaTransform) Jacobian(dim int, v *mat.Dense) (Jacobian, error) {
	r, _ := v.Dims()
	return constJacobian(float64(dim * r)), nil
}

func TestCoordsAndJacobian(t *testing.T) {
	tri, err := Build(mkNodes([]float64{0, 0}, []float64{1, 0}, []float64{0, 1}))
	require.NoError(t, err)
	tri.GlobalIndex = 7
	tri.Nodes[1].SetNodeType(1, types.Dirichlet)
	assert.Equal(t, "GE7( 1U 2D 3U )", tri.String())

	assert.Equal(t, []float64{0, 1, 0, 0, 0, 1}, tri.NodeCoords())
	r, c := tri.CoordMatrix().Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 1., tri.VertexMatrix().At(2, 1))

	_, err = tri.Jacobian()
	assert.ErrorIs(t, err, ErrJacobianUnavailable)
	require.NoError(t, tri.UpdateJacobian(areaTransform{}))
	jac, err := tri.Jacobian()
	require.NoError(t, err)
	assert.Equal(t, 6., jac.Det())

	require.NoError(t, tri.ReorderVertices([]int{2, 3, 1}))
	_, err = tri.Jacobian()
	assert.ErrorIs(t, err, ErrJacobianUnavailable)
}
