package element

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/notargets/femcore/dof"
	"github.com/notargets/femcore/geometry"
	"github.com/notargets/femcore/topology"
	"github.com/notargets/femcore/types"
)

var (
	ErrUnsupportedTopology    = topology.ErrUnsupportedTopology
	ErrEntityNotOwned         = errors.New("entity does not belong to element")
	ErrMeasurementUnavailable = errors.New("measurement unavailable")
	ErrJacobianUnavailable    = errors.New("jacobian unavailable")
)

type Element struct {
	GlobalIndex int
	Nodes       []*geometry.Node // ordered by local index
	Geo         GeoEntity
	Neighbors   []*Element
	Parent      *Element // refinement parent, or the owner of a boundary trace element
	Children    []*Element
	Level       int
	dofs        dof.Manager
	jac         Jacobian
}

// Dim is the topological dimension, a face of a 3D element has Dim 2 with 3D nodes
func (e *Element) Dim() int { return int(e.Geo.Dim) }

func (e *Element) Vertices() []Vertex { return e.Geo.Vertices() }

func (e *Element) Edges() []*EdgeLocal { return e.Geo.Edges() }

func (e *Element) Faces() []*FaceLocal { return e.Geo.Faces() }

// GlobalEdges lists every edge once in local index order, Edges repeats a 3D edge for each face holding it
func (e *Element) GlobalEdges() (edges []*EdgeLocal) {
	seen := make(map[int]bool)
	for _, el := range e.Edges() {
		if !seen[el.LocalIndex] {
			seen[el.LocalIndex] = true
			edges = append(edges, el)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].LocalIndex < edges[j].LocalIndex })
	return
}

func (e *Element) Shape() *topology.Shape { return e.Geo.Shape() }

/*
ApplyChange resynchronizes the element with its GeoEntity after the entity was changed:
the node list and local hierarchy are rebuilt, global edges and faces are re-linked by their
end nodes, attached DOFs follow their node, edge or face and the cached Jacobian is dropped.
*/
func (e *Element) ApplyChange() (err error) {
	return e.resync(e.Geo)
}

// resync rebuilds the element from changed, a modified copy of e.Geo
func (e *Element) resync(changed GeoEntity) (err error) {
	var (
		old      = e.Geo
		oldNodes = e.Nodes
		nodes    = resyncOrder(changed)
		g        GeoEntity
	)
	if g, err = assemble(changed.Dim, nodes); err != nil {
		return fmt.Errorf("element %d: %w", e.GlobalIndex, err)
	}
	carryGlobals(old, g)
	e.dofs.Remap(dof.Node, nodeMap(oldNodes, nodes))
	e.dofs.Remap(dof.Edge, edgeMap(old, g))
	e.dofs.Remap(dof.Face, faceMap(old, g))
	e.Nodes, e.Geo, e.jac = nodes, g, nil
	return
}

/*
ReorderVertices renumbers the vertices, order[i] is the current (1 based) position of the vertex
that becomes vertex i+1. Interior edge nodes move with their edge. The renumbering is done on a
copy of the entity, global edges and faces and the parent of a trace element are left as they are.
*/
func (e *Element) ReorderVertices(order []int) (err error) {
	var (
		verts = e.Geo.Vertices()
		nv    = len(verts)
	)
	if !isPermutation(order, nv) {
		return fmt.Errorf("element %d: vertex order %v is not a permutation of 1..%d", e.GlobalIndex, order, nv)
	}
	var (
		reordered = make([]Vertex, nv)
		newLI     = make(map[*geometry.Node]int, nv)
		changed   = e.Geo.clone()
	)
	for i, o := range order {
		reordered[i] = Vertex{NodeLocal{LocalIndex: i + 1, Node: verts[o-1].Node}}
		newLI[verts[o-1].Node] = i + 1
	}
	switch changed.Dim {
	case geometry.Curve:
		edge := changed.Edge
		if reordered[0].Node != edge.Begin() {
			edge.EdgeNodes = reverseLocal(edge.EdgeNodes)
		}
		for k := range edge.EdgeNodes {
			edge.EdgeNodes[k].LocalIndex = nv + k + 1
		}
		edge.Vertices = reordered
	case geometry.Surface:
		face := changed.Face
		for _, el := range face.Edges {
			if len(el.EdgeNodes) == 0 {
				continue
			}
			a, b := newLI[el.Begin()], newLI[el.End()]
			j, rev := templateEdge(face.Topology, a, b)
			if j < 0 {
				return fmt.Errorf("element %d: vertex order %v breaks edge %s",
					e.GlobalIndex, order, el)
			}
			if rev {
				el.EdgeNodes = reverseLocal(el.EdgeNodes)
			}
			npe := len(el.EdgeNodes)
			for k := range el.EdgeNodes {
				el.EdgeNodes[k].LocalIndex = nv + j*npe + k + 1
			}
		}
		face.Vertices = reordered
	case geometry.Solid:
		changed.Volume.Vertices = reordered
	}
	return e.resync(changed)
}

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n+1)
	for _, o := range order {
		if o < 1 || o > n || seen[o] {
			return false
		}
		seen[o] = true
	}
	return true
}

func reverseLocal(ln []NodeLocal) []NodeLocal {
	r := make([]NodeLocal, len(ln))
	for i, n := range ln {
		r[len(ln)-1-i] = n
	}
	return r
}

// templateEdge finds the 0 based edge joining vertices a and b, rev is set when the edge runs b to a
func templateEdge(s *topology.Shape, a, b int) (j int, rev bool) {
	if s == nil {
		return -1, false
	}
	for j, ed := range s.Edges {
		switch {
		case ed[0] == a && ed[1] == b:
			return j, false
		case ed[0] == b && ed[1] == a:
			return j, true
		}
	}
	return -1, false
}

func carryGlobals(old, g GeoEntity) {
	switch g.Dim {
	case geometry.Curve:
		g.Edge.GlobalIndex = old.Edge.GlobalIndex
		g.Edge.Border = old.Edge.Border
		g.Edge.BorderTypes = append([]types.NodeType(nil), old.Edge.BorderTypes...)
	case geometry.Surface:
		g.Face.GlobalIndex = old.Face.GlobalIndex
		g.Face.Border = old.Face.Border
		g.Face.BorderTypes = append([]types.NodeType(nil), old.Face.BorderTypes...)
	case geometry.Solid:
		g.Volume.GlobalIndex = old.Volume.GlobalIndex
		for _, nf := range g.Volume.Faces {
			for _, of := range old.Volume.Faces {
				if of.Global != nil && of.hasVertices(polygonNodes(&nf.Polygon)) {
					nf.Global = of.Global
					break
				}
			}
		}
	}
	for _, ne := range g.Edges() {
		for _, oe := range old.Edges() {
			if oe.Global != nil && ne.Joins(oe.Begin(), oe.End()) {
				ne.Link(oe.Global)
				break
			}
		}
	}
}

// Link attaches the shared global edge and records the relative direction
func (el *EdgeLocal) Link(edge *Edge) {
	el.Global = edge
	el.Flipped = edge.Begin() != el.Begin()
}

func polygonNodes(p *Polygon) (nodes []*geometry.Node) {
	for _, v := range p.Vertices {
		nodes = append(nodes, v.Node)
	}
	return
}

func nodeMap(oldNodes, nodes []*geometry.Node) map[int]int {
	m := make(map[int]int, len(nodes))
	for i, on := range oldNodes {
		for j, n := range nodes {
			if on == n {
				m[i+1] = j + 1
				break
			}
		}
	}
	return m
}

func edgeMap(old, g GeoEntity) map[int]int {
	m := make(map[int]int)
	if g.Dim == geometry.Curve {
		m[1] = 1
		return m
	}
	for _, oe := range old.Edges() {
		for _, ne := range g.Edges() {
			if ne.Joins(oe.Begin(), oe.End()) {
				m[oe.LocalIndex] = ne.LocalIndex
				break
			}
		}
	}
	return m
}

func faceMap(old, g GeoEntity) map[int]int {
	m := make(map[int]int)
	if g.Dim != geometry.Solid {
		m[1] = 1
		return m
	}
	for _, of := range old.Faces() {
		for _, nf := range g.Faces() {
			if nf.hasVertices(polygonNodes(&of.Polygon)) {
				m[of.LocalIndex] = nf.LocalIndex
				break
			}
		}
	}
	return m
}

// AddNeighbor appends nb unless it is already a neighbor
func (e *Element) AddNeighbor(nb *Element) {
	for _, n := range e.Neighbors {
		if n == nb {
			return
		}
	}
	e.Neighbors = append(e.Neighbors, nb)
}

// AddChild links a refinement child one level below e
func (e *Element) AddChild(c *Element) {
	c.Parent = e
	c.Level = e.Level + 1
	e.Children = append(e.Children, c)
}

func (e *Element) IsRefined() bool { return e.Children != nil }

func (e *Element) HangingNodes() (nodes []*geometry.Node) {
	for _, n := range e.Nodes {
		if n.Hanging {
			nodes = append(nodes, n)
		}
	}
	return
}

// LocalIndex returns the local index of the node at p, 0 when p is not a node of the element
func (e *Element) LocalIndex(p geometry.Point) int {
	for i, n := range e.Nodes {
		if n.CoordEquals(p) {
			return i + 1
		}
	}
	return 0
}

func (e *Element) NodeAt(p geometry.Point) *geometry.Node {
	if li := e.LocalIndex(p); li > 0 {
		return e.Nodes[li-1]
	}
	return nil
}

func (e *Element) BelongsTo(n *geometry.Node) bool {
	return e.LocalIndex(n.Point) > 0
}

func (e *Element) String() string {
	var b strings.Builder
	b.WriteString("GE")
	if e.GlobalIndex > 0 {
		fmt.Fprintf(&b, "%d", e.GlobalIndex)
	}
	b.WriteString("( ")
	for _, n := range e.Nodes {
		st := "U"
		if len(n.Types) != 0 {
			st = ""
			for _, nt := range n.Types {
				st += nt.Letter()
			}
		}
		fmt.Fprintf(&b, "%d%s ", n.GlobalIndex, st)
	}
	b.WriteString(")")
	return b.String()
}
