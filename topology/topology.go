package topology

import (
	"errors"
	"fmt"
)

// Shape is a reference topology, vertex indices are 1 based local indices
type Shape struct {
	Name        string
	Dim         int
	NumVertices int
	Edges       [][2]int
	Faces       [][]int // 3D only, wound so the right hand normal points outward
}

func (s *Shape) String() string { return s.Name }

func (s *Shape) NumEdges() int { return len(s.Edges) }

func (s *Shape) NumFaces() int { return len(s.Faces) }

// EdgeOnFace reports whether both endpoints of edge are vertices of face
func (s *Shape) EdgeOnFace(face []int, edge [2]int) bool {
	var found int
	for _, e := range edge {
		for _, f := range face {
			if e == f {
				found++
				break
			}
		}
	}
	return found == 2
}

// FaceEdges returns the indices (0 based) into Edges of the edges lying on face
func (s *Shape) FaceEdges(face []int) (edges []int) {
	for i, e := range s.Edges {
		if s.EdgeOnFace(face, e) {
			edges = append(edges, i)
		}
	}
	return
}

/*
Reference shapes. Local numbering:

	Segment      1---2

	Triangle     3          Quad    4----3
	             | \                |    |
	             1--2               1----2

	Tetrahedron: base 1-2-3 counter clockwise seen from apex 4

	Hexahedron:  bottom 1-2-3-4, top 5-6-7-8, with 5 above 1
*/
var (
	Segment = &Shape{
		Name:        "Segment",
		Dim:         1,
		NumVertices: 2,
		Edges:       [][2]int{{1, 2}},
	}
	Triangle = &Shape{
		Name:        "Triangle",
		Dim:         2,
		NumVertices: 3,
		Edges:       [][2]int{{1, 2}, {2, 3}, {3, 1}},
	}
	Quad = &Shape{
		Name:        "Quad",
		Dim:         2,
		NumVertices: 4,
		Edges:       [][2]int{{1, 2}, {2, 3}, {3, 4}, {4, 1}},
	}
	Tetrahedron = &Shape{
		Name:        "Tetrahedron",
		Dim:         3,
		NumVertices: 4,
		Edges:       [][2]int{{1, 2}, {2, 3}, {3, 1}, {1, 4}, {2, 4}, {3, 4}},
		Faces: [][]int{
			{1, 3, 2}, // Face 1 (base)
			{1, 2, 4}, // Face 2
			{2, 3, 4}, // Face 3
			{1, 4, 3}, // Face 4
		},
	}
	Hexahedron = &Shape{
		Name:        "Hexahedron",
		Dim:         3,
		NumVertices: 8,
		Edges: [][2]int{
			{1, 2}, {2, 3}, {3, 4}, {4, 1}, // bottom
			{5, 6}, {6, 7}, {7, 8}, {8, 5}, // top
			{1, 5}, {2, 6}, {3, 7}, {4, 8}, // verticals
		},
		Faces: [][]int{
			{1, 4, 3, 2}, // Face 1 (bottom)
			{5, 6, 7, 8}, // Face 2 (top)
			{1, 2, 6, 5}, // Face 3
			{2, 3, 7, 6}, // Face 4
			{3, 4, 8, 7}, // Face 5
			{4, 1, 5, 8}, // Face 6
		},
	}
)

var ErrUnsupportedTopology = errors.New("unsupported topology")

// Template binds a shape to a total node count, extra nodes are distributed NodesPerEdge to each edge in edge order
type Template struct {
	Shape        *Shape
	NumNodes     int
	NodesPerEdge int
}

func (t Template) IsQuadratic() bool { return t.NodesPerEdge > 0 }

var templates = map[int][]Template{
	2: {
		{Shape: Triangle, NumNodes: 3},
		{Shape: Quad, NumNodes: 4},
		{Shape: Triangle, NumNodes: 6, NodesPerEdge: 1},
	},
	3: {
		{Shape: Tetrahedron, NumNodes: 4},
		{Shape: Hexahedron, NumNodes: 8},
	},
}

// Node counts reserved for higher order 2D elements that have no template yet
var placeholders = map[int]map[int]string{
	2: {
		8:  "8 node serendipity quad",
		9:  "9 node cubic triangle / biquadratic quad",
		12: "12 node cubic quad",
	},
}

// Lookup selects the template for a 2D or 3D element by node count
func Lookup(dim, numNodes int) (Template, error) {
	for _, t := range templates[dim] {
		if t.NumNodes == numNodes {
			return t, nil
		}
	}
	if name, ok := placeholders[dim][numNodes]; ok {
		return Template{}, fmt.Errorf("%w: %s is declared but not implemented", ErrUnsupportedTopology, name)
	}
	return Template{}, fmt.Errorf("%w: no %dD reference shape with %d nodes", ErrUnsupportedTopology, dim, numNodes)
}

// ForVertices selects the shape from a vertex count alone
func ForVertices(dim, numVertices int) (*Shape, error) {
	switch {
	case dim == 1 && numVertices == 2:
		return Segment, nil
	case dim == 2 && numVertices == 3:
		return Triangle, nil
	case dim == 2 && numVertices == 4:
		return Quad, nil
	case dim == 3 && numVertices == 4:
		return Tetrahedron, nil
	case dim == 3 && numVertices == 8:
		return Hexahedron, nil
	}
	return nil, fmt.Errorf("%w: no %dD reference shape with %d vertices", ErrUnsupportedTopology, dim, numVertices)
}
