package element

import (
	"fmt"
	"sort"

	"github.com/notargets/femcore/geometry"
	"github.com/notargets/femcore/topology"
)

/*
Build creates an element from its node list. The element dimension is the dimension of the first node.

	1D:  1---2   1--3--2   1--3--4--2      nodes are given in spatial order, first to last
	2D:  3 node triangle, 4 node quad, 6 node triangle with edge nodes 4,5,6 on edges 1-2, 2-3, 3-1
	3D:  4 node tetrahedron, 8 node hexahedron

Global edges and faces are not created here, the mesh links them when stitching.
*/
func Build(nodes []*geometry.Node) (e *Element, err error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: empty node list", ErrUnsupportedTopology)
	}
	dim := geometry.Dimension(nodes[0].Dim())
	local := nodes
	if dim == geometry.Curve && len(nodes) > 2 {
		// Local order is first, last, then the interior nodes
		n := len(nodes)
		local = make([]*geometry.Node, 0, n)
		local = append(local, nodes[0], nodes[n-1])
		local = append(local, nodes[1:n-1]...)
	}
	var g GeoEntity
	if g, err = assemble(dim, local); err != nil {
		return
	}
	e = &Element{
		Nodes: local,
		Geo:   g,
		Level: 1,
	}
	return
}

/*
BuildFromGeo creates an element around a copy of an existing entity, e.g. the face of a 3D element.
Nodes follow the local indices the entity carries, for a sub-entity those are its owner's.
*/
func BuildFromGeo(g GeoEntity) (e *Element, err error) {
	if !g.valid() {
		return nil, fmt.Errorf("%w: %s entity without a matching body", ErrUnsupportedTopology, g.Dim)
	}
	g = g.clone()
	e = &Element{
		Nodes: nodeList(g),
		Geo:   g,
		Level: 1,
	}
	return
}

// assemble builds the local hierarchy, nodes are in local index order
func assemble(dim geometry.Dimension, nodes []*geometry.Node) (g GeoEntity, err error) {
	g.Dim = dim
	switch dim {
	case geometry.Curve:
		if len(nodes) < 2 {
			err = fmt.Errorf("%w: 1D element needs at least 2 nodes, have %d",
				ErrUnsupportedTopology, len(nodes))
			return
		}
		g.Edge = &Edge{Line: newLine(nodes, 1, 2)}
		for i := 2; i < len(nodes); i++ {
			g.Edge.EdgeNodes = append(g.Edge.EdgeNodes, NodeLocal{LocalIndex: i + 1, Node: nodes[i]})
		}
	case geometry.Surface:
		var tp topology.Template
		if tp, err = topology.Lookup(2, len(nodes)); err != nil {
			return
		}
		g.Face = &Face{Polygon: newPolygon(tp, nodes)}
	case geometry.Solid:
		var tp topology.Template
		if tp, err = topology.Lookup(3, len(nodes)); err != nil {
			return
		}
		g.Volume = &Volume{Polyhedron: newPolyhedron(tp, nodes)}
	default:
		err = fmt.Errorf("%w: node dimension %d", ErrUnsupportedTopology, dim)
	}
	return
}

func vertex(li int, nodes []*geometry.Node) Vertex {
	return Vertex{NodeLocal{LocalIndex: li, Node: nodes[li-1]}}
}

func newLine(nodes []*geometry.Node, a, b int) Line {
	return Line{Vertices: []Vertex{vertex(a, nodes), vertex(b, nodes)}}
}

func newEdges(tp topology.Template, nodes []*geometry.Node, face []int) (edges []*EdgeLocal) {
	var (
		s  = tp.Shape
		nv = s.NumVertices
	)
	for j, ed := range s.Edges {
		if face != nil && !s.EdgeOnFace(face, ed) {
			continue
		}
		el := &EdgeLocal{
			Line:       newLine(nodes, ed[0], ed[1]),
			LocalIndex: j + 1,
		}
		for k := 0; k < tp.NodesPerEdge; k++ {
			li := nv + j*tp.NodesPerEdge + k + 1
			el.EdgeNodes = append(el.EdgeNodes, NodeLocal{LocalIndex: li, Node: nodes[li-1]})
		}
		edges = append(edges, el)
	}
	return
}

func newPolygon(tp topology.Template, nodes []*geometry.Node) (p Polygon) {
	p.Topology = tp.Shape
	for i := 1; i <= tp.Shape.NumVertices; i++ {
		p.Vertices = append(p.Vertices, vertex(i, nodes))
	}
	p.Edges = newEdges(tp, nodes, nil)
	return
}

func newPolyhedron(tp topology.Template, nodes []*geometry.Node) (p Polyhedron) {
	p.Topology = tp.Shape
	for i := 1; i <= tp.Shape.NumVertices; i++ {
		p.Vertices = append(p.Vertices, vertex(i, nodes))
	}
	for k, face := range tp.Shape.Faces {
		fl := &FaceLocal{LocalIndex: k + 1}
		// Face shapes are always triangles or quads
		fl.Topology, _ = topology.ForVertices(2, len(face))
		for _, li := range face {
			fl.Vertices = append(fl.Vertices, vertex(li, nodes))
		}
		// one EdgeLocal per face the edge lies on
		fl.Edges = newEdges(tp, nodes, face)
		p.Faces = append(p.Faces, fl)
	}
	return
}

// nodeList flattens an entity into nodes ordered by local index, each local index once
func nodeList(g GeoEntity) []*geometry.Node {
	return sortLocal(g.localNodes())
}

// resyncOrder keeps the vertices in listed order and appends the inner nodes by local index
func resyncOrder(g GeoEntity) (nodes []*geometry.Node) {
	verts := g.Vertices()
	for _, v := range verts {
		nodes = append(nodes, v.Node)
	}
	return append(nodes, sortLocal(g.localNodes()[len(verts):])...)
}

func sortLocal(ln []NodeLocal) (nodes []*geometry.Node) {
	sort.SliceStable(ln, func(i, j int) bool {
		return ln[i].LocalIndex < ln[j].LocalIndex
	})
	for i, n := range ln {
		if i > 0 && n.LocalIndex == ln[i-1].LocalIndex {
			continue
		}
		nodes = append(nodes, n.Node)
	}
	return
}

/*
ToElement builds the boundary trace element of an edge, its parent is the element owning the edge.
The trace element owns a copy of the edge and is numbered 1..n from its first vertex, changing it
leaves the parent and the mesh untouched.
*/
func (el *EdgeLocal) ToElement(parent *Element) (e *Element, err error) {
	edge := el.Global
	if edge == nil {
		edge = &Edge{Line: el.Line}
	}
	return traceElement(GeoEntity{Dim: geometry.Curve, Edge: edge}, parent)
}

// ToElement builds the trace element of a face, with its vertices in cyclic order
func (fl *FaceLocal) ToElement(parent *Element) (e *Element, err error) {
	face := fl.Global
	if face == nil {
		face = &Face{Polygon: fl.Polygon}
	}
	return traceElement(GeoEntity{Dim: geometry.Surface, Face: face}, parent)
}

func traceElement(g GeoEntity, parent *Element) (e *Element, err error) {
	if e, err = BuildFromGeo(g); err != nil {
		return
	}
	if err = e.ApplyChange(); err != nil {
		return nil, err
	}
	e.Parent = parent
	return
}
