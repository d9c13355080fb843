package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/femcore/element"
	"github.com/notargets/femcore/geometry"
	"github.com/notargets/femcore/types"
)

/*
Stitch builds the shared edges (2D and 3D) and faces (3D), links every local edge and face to its
global twin, flags the entities owned by a single element as border and records the neighbors.
Global edges run from the lower to the higher node index, local edges running the other way are
Flipped. It can be called again after elements are added.
*/
func (m *Mesh) Stitch() (err error) {
	var dim int
	if dim, err = m.dim(); err != nil {
		return
	}
	m.Edges, m.Faces = nil, nil
	m.EdgeMap = make(map[types.EdgeKey]*element.Edge)
	m.FaceMap = make(map[types.FaceKey]*element.Face)
	edgeOwners := make(map[*element.Edge][]*element.Element)
	faceOwners := make(map[*element.Face][]*element.Element)

	addOwner := func(owners []*element.Element, e *element.Element) []*element.Element {
		for _, o := range owners {
			if o == e {
				return owners
			}
		}
		return append(owners, e)
	}

	for _, e := range m.Elements {
		switch dim {
		case 1:
		case 2:
			for _, el := range e.Edges() {
				edge := m.linkEdge(el)
				edgeOwners[edge] = addOwner(edgeOwners[edge], e)
			}
		case 3:
			for _, fl := range e.Faces() {
				face := m.linkFace(fl)
				faceOwners[face] = addOwner(faceOwners[face], e)
				for _, el := range fl.Edges {
					edge := m.linkEdge(el)
					edgeOwners[edge] = addOwner(edgeOwners[edge], e)
				}
			}
		}
	}

	connect := func(owners []*element.Element) {
		for _, a := range owners {
			for _, b := range owners {
				if a != b {
					a.AddNeighbor(b)
				}
			}
		}
	}
	switch dim {
	case 1:
		for n, owners := range m.NodeElements() {
			if m.isVertex(n, owners) {
				connect(owners)
			}
		}
	case 2:
		for _, edge := range m.Edges {
			owners := edgeOwners[edge]
			if len(owners) > 2 {
				m.logger.Printf("edge %d [%s-%s] is shared by %d elements", edge.GlobalIndex,
					edge.Begin(), edge.End(), len(owners))
			}
			edge.Border = len(owners) == 1
			connect(owners)
		}
	case 3:
		for _, face := range m.Faces {
			owners := faceOwners[face]
			if len(owners) > 2 {
				m.logger.Printf("face %d is shared by %d elements", face.GlobalIndex, len(owners))
			}
			face.Border = len(owners) == 1
			if face.Border {
				for _, el := range face.Edges {
					el.Global.Border = true
				}
			}
			connect(owners)
		}
	}
	return
}

// BorderEdges lists the border edges as node global index pairs, lower index first, in ascending order
func (m *Mesh) BorderEdges() (pairs [][2]int) {
	for key, edge := range m.EdgeMap {
		if edge.Border {
			pairs = append(pairs, key.GetVertices(false))
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return
}

// BorderFaces lists the border faces by their sorted node global indices, in ascending order
func (m *Mesh) BorderFaces() (faces [][]int) {
	for key, face := range m.FaceMap {
		if face.Border {
			faces = append(faces, key.GetVertices())
		}
	}
	sort.Slice(faces, func(i, j int) bool {
		a, b := faces[i], faces[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return
}

func (m *Mesh) dim() (dim int, err error) {
	if len(m.Elements) == 0 {
		err = fmt.Errorf("mesh has no elements")
		return
	}
	dim = m.Elements[0].Dim()
	for _, e := range m.Elements[1:] {
		if e.Dim() != dim {
			err = fmt.Errorf("mixed dimensions, element %d is %dD and element %d is %dD",
				m.Elements[0].GlobalIndex, dim, e.GlobalIndex, e.Dim())
			return
		}
	}
	return
}

// isVertex reports whether n is an end of every 1D element in owners
func (m *Mesh) isVertex(n *geometry.Node, owners []*element.Element) bool {
	for _, e := range owners {
		var found bool
		for _, v := range e.Vertices() {
			if v.Node == n {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *Mesh) linkEdge(el *element.EdgeLocal) *element.Edge {
	ei := types.NewEdgeInt([2]int{el.Begin().GlobalIndex, el.End().GlobalIndex})
	key := ei.GetKey()
	edge, ok := m.EdgeMap[key]
	if !ok {
		line := el.Line
		if ei.Reversed() {
			line = reverseLine(el.Line)
		}
		edge = &element.Edge{Line: line, GlobalIndex: len(m.Edges) + 1}
		m.Edges = append(m.Edges, edge)
		m.EdgeMap[key] = edge
	}
	el.Link(edge)
	return edge
}

func reverseLine(l element.Line) (r element.Line) {
	nv, ne := len(l.Vertices), len(l.EdgeNodes)
	r.Vertices = make([]element.Vertex, nv)
	for i, v := range l.Vertices {
		r.Vertices[nv-1-i] = v
	}
	r.EdgeNodes = make([]element.NodeLocal, ne)
	for i, n := range l.EdgeNodes {
		r.EdgeNodes[ne-1-i] = n
	}
	return
}

func (m *Mesh) linkFace(fl *element.FaceLocal) *element.Face {
	verts := make([]int, len(fl.Vertices))
	for i, v := range fl.Vertices {
		verts[i] = v.Node.GlobalIndex
	}
	key := types.NewFaceKey(verts)
	face, ok := m.FaceMap[key]
	if !ok {
		face = &element.Face{Polygon: fl.Polygon, GlobalIndex: len(m.Faces) + 1}
		m.Faces = append(m.Faces, face)
		m.FaceMap[key] = face
	}
	fl.Global = face
	return face
}

// Classifier returns the boundary type of a 1 based solution component at a border location
type Classifier func(component int, p geometry.Point) types.NodeType

/*
MarkBorderNodes sets every node to Inner for each component, then classifies the nodes on border
edges (2D), border faces (3D) or the free ends (1D). Border edges and faces take the type classified
at their centroid. Stitch must have been run.
*/
func (m *Mesh) MarkBorderNodes(classify Classifier, components int) (err error) {
	var dim int
	if dim, err = m.dim(); err != nil {
		return
	}
	if dim > 1 && m.EdgeMap == nil {
		return fmt.Errorf("mesh is not stitched")
	}
	if components < 1 {
		return fmt.Errorf("components must be positive, have %d", components)
	}
	for _, n := range m.Nodes {
		for c := 1; c <= components; c++ {
			n.SetNodeType(c, types.Inner)
		}
	}
	mark := func(n *geometry.Node) {
		for c := 1; c <= components; c++ {
			n.SetNodeType(c, classify(c, n.Point))
		}
	}
	switch dim {
	case 1:
		for n, owners := range m.NodeElements() {
			if len(owners) == 1 && m.isVertex(n, owners) {
				mark(n)
			}
		}
	case 2:
		for _, edge := range m.Edges {
			if !edge.Border {
				continue
			}
			for _, v := range edge.Vertices {
				mark(v.Node)
			}
			for _, nl := range edge.EdgeNodes {
				mark(nl.Node)
			}
			p := centroid(edge.Vertices)
			for c := 1; c <= components; c++ {
				edge.SetBorderType(c, classify(c, p))
			}
		}
	case 3:
		for _, face := range m.Faces {
			if !face.Border {
				continue
			}
			for _, v := range face.Vertices {
				mark(v.Node)
			}
			for _, nl := range face.FaceNodes {
				mark(nl.Node)
			}
			p := centroid(face.Vertices)
			for c := 1; c <= components; c++ {
				face.SetBorderType(c, classify(c, p))
			}
			for _, el := range face.Edges {
				for _, nl := range el.EdgeNodes {
					mark(nl.Node)
				}
				q := centroid(el.Vertices)
				for c := 1; c <= components; c++ {
					el.Global.SetBorderType(c, classify(c, q))
				}
			}
		}
	}
	return
}

func centroid(verts []element.Vertex) geometry.Point {
	var dim int
	for _, v := range verts {
		if d := v.Node.Dim(); d > dim {
			dim = d
		}
	}
	x := make([]float64, dim)
	for _, v := range verts {
		for j := range x {
			x[j] += v.Node.Coord(j) / float64(len(verts))
		}
	}
	return geometry.NewPoint(x...)
}
