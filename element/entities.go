package element

import (
	"fmt"

	"github.com/notargets/femcore/geometry"
	"github.com/notargets/femcore/topology"
	"github.com/notargets/femcore/types"
)

// NodeLocal binds a shared mesh node to its 1 based index inside one element
type NodeLocal struct {
	LocalIndex int
	Node       *geometry.Node
}

// Vertex is a corner node, used for geometry only
type Vertex struct {
	NodeLocal
}

func (v Vertex) Coords() geometry.Point { return v.Node.Point }

/*
Line, Polygon and Polyhedron are the bodies shared by the local and global entities of each dimension.
Vertices are listed in reference shape order, local indices are those of the owning element.
*/
type Line struct {
	Vertices  []Vertex
	EdgeNodes []NodeLocal // interior nodes along the line
}

func (l *Line) Begin() *geometry.Node { return l.Vertices[0].Node }

func (l *Line) End() *geometry.Node { return l.Vertices[len(l.Vertices)-1].Node }

// Joins reports whether the line runs between a and b in either direction
func (l *Line) Joins(a, b *geometry.Node) bool {
	return (l.Begin() == a && l.End() == b) || (l.Begin() == b && l.End() == a)
}

func (l *Line) localNodes() (ln []NodeLocal) {
	for _, v := range l.Vertices {
		ln = append(ln, v.NodeLocal)
	}
	return append(ln, l.EdgeNodes...)
}

type Polygon struct {
	Vertices  []Vertex
	Edges     []*EdgeLocal
	FaceNodes []NodeLocal
	Topology  *topology.Shape
}

func (p *Polygon) innerNodes() (ln []NodeLocal) {
	for _, e := range p.Edges {
		ln = append(ln, e.EdgeNodes...)
	}
	return append(ln, p.FaceNodes...)
}

func (p *Polygon) localNodes() (ln []NodeLocal) {
	for _, v := range p.Vertices {
		ln = append(ln, v.NodeLocal)
	}
	return append(ln, p.innerNodes()...)
}

func (p *Polygon) hasVertices(nodes []*geometry.Node) bool {
	if len(nodes) != len(p.Vertices) {
		return false
	}
	for _, n := range nodes {
		var found bool
		for _, v := range p.Vertices {
			if v.Node == n {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type Polyhedron struct {
	Vertices    []Vertex
	Faces       []*FaceLocal
	VolumeNodes []NodeLocal
	Topology    *topology.Shape
}

func (p *Polyhedron) localNodes() (ln []NodeLocal) {
	for _, v := range p.Vertices {
		ln = append(ln, v.NodeLocal)
	}
	for _, f := range p.Faces {
		ln = append(ln, f.innerNodes()...)
	}
	return append(ln, p.VolumeNodes...)
}

// EdgeLocal is an element's own view of an edge, Global is set by the mesh when edges are stitched
type EdgeLocal struct {
	Line
	LocalIndex int
	Global     *Edge
	Flipped    bool // local direction runs against the global edge
}

func (el *EdgeLocal) IsBorder() bool { return el.Global != nil && el.Global.Border }

func (el *EdgeLocal) String() string {
	return fmt.Sprintf("EL%d[%s-%s]", el.LocalIndex, el.Begin(), el.End())
}

type FaceLocal struct {
	Polygon
	LocalIndex int
	Global     *Face
}

func (fl *FaceLocal) IsBorder() bool { return fl.Global != nil && fl.Global.Border }

// Global entities are shared by every element touching them and owned by the mesh
type Edge struct {
	Line
	GlobalIndex int
	Border      bool
	BorderTypes []types.NodeType
}

func (e *Edge) BorderType(component int) types.NodeType {
	return borderType(e.BorderTypes, component)
}

func (e *Edge) SetBorderType(component int, nt types.NodeType) {
	e.BorderTypes = setBorderType(e.BorderTypes, component, nt)
}

type Face struct {
	Polygon
	GlobalIndex int
	Border      bool
	BorderTypes []types.NodeType
}

func (f *Face) BorderType(component int) types.NodeType {
	return borderType(f.BorderTypes, component)
}

func (f *Face) SetBorderType(component int, nt types.NodeType) {
	f.BorderTypes = setBorderType(f.BorderTypes, component, nt)
}

type Volume struct {
	Polyhedron
	GlobalIndex int
}

func borderType(bt []types.NodeType, component int) types.NodeType {
	if component < 1 || component > len(bt) {
		return types.Undefined
	}
	return bt[component-1]
}

func setBorderType(bt []types.NodeType, component int, nt types.NodeType) []types.NodeType {
	if component < 1 {
		panic(fmt.Errorf("component index is 1 based, have %d", component))
	}
	for len(bt) < component {
		bt = append(bt, types.Undefined)
	}
	bt[component-1] = nt
	return bt
}

/*
GeoEntity is the geometric root of an element. Exactly one of Edge, Face or Volume is set,
the one matching Dim.
*/
type GeoEntity struct {
	Dim    geometry.Dimension
	Edge   *Edge
	Face   *Face
	Volume *Volume
}

func (g GeoEntity) valid() bool {
	switch g.Dim {
	case geometry.Curve:
		return g.Edge != nil && g.Face == nil && g.Volume == nil
	case geometry.Surface:
		return g.Face != nil && g.Edge == nil && g.Volume == nil
	case geometry.Solid:
		return g.Volume != nil && g.Edge == nil && g.Face == nil
	}
	return false
}

func (g GeoEntity) Vertices() []Vertex {
	switch g.Dim {
	case geometry.Curve:
		return g.Edge.Vertices
	case geometry.Surface:
		return g.Face.Vertices
	case geometry.Solid:
		return g.Volume.Vertices
	}
	return nil
}

// Shape is nil for 1D entities
func (g GeoEntity) Shape() *topology.Shape {
	switch g.Dim {
	case geometry.Surface:
		return g.Face.Topology
	case geometry.Solid:
		return g.Volume.Topology
	}
	return nil
}

// Edges lists the local edges, in 3D once per owning face
func (g GeoEntity) Edges() (edges []*EdgeLocal) {
	switch g.Dim {
	case geometry.Surface:
		edges = g.Face.Edges
	case geometry.Solid:
		for _, f := range g.Volume.Faces {
			edges = append(edges, f.Edges...)
		}
	}
	return
}

func (g GeoEntity) Faces() []*FaceLocal {
	if g.Dim == geometry.Solid {
		return g.Volume.Faces
	}
	return nil
}

func (g GeoEntity) localNodes() []NodeLocal {
	switch g.Dim {
	case geometry.Curve:
		return g.Edge.localNodes()
	case geometry.Surface:
		return g.Face.localNodes()
	case geometry.Solid:
		return g.Volume.localNodes()
	}
	return nil
}

// clone copies the entity body so that it can be changed without touching the parent element or the mesh
func (g GeoEntity) clone() (c GeoEntity) {
	c.Dim = g.Dim
	switch {
	case g.Edge != nil:
		c.Edge = &Edge{
			Line:        g.Edge.Line.clone(),
			GlobalIndex: g.Edge.GlobalIndex,
			Border:      g.Edge.Border,
			BorderTypes: append([]types.NodeType(nil), g.Edge.BorderTypes...),
		}
	case g.Face != nil:
		c.Face = &Face{
			Polygon:     g.Face.Polygon.clone(),
			GlobalIndex: g.Face.GlobalIndex,
			Border:      g.Face.Border,
			BorderTypes: append([]types.NodeType(nil), g.Face.BorderTypes...),
		}
	case g.Volume != nil:
		c.Volume = &Volume{
			Polyhedron:  g.Volume.Polyhedron.clone(),
			GlobalIndex: g.Volume.GlobalIndex,
		}
	}
	return
}

func (l Line) clone() Line {
	return Line{
		Vertices:  append([]Vertex(nil), l.Vertices...),
		EdgeNodes: append([]NodeLocal(nil), l.EdgeNodes...),
	}
}

func (p Polygon) clone() Polygon {
	c := Polygon{
		Vertices:  append([]Vertex(nil), p.Vertices...),
		FaceNodes: append([]NodeLocal(nil), p.FaceNodes...),
		Topology:  p.Topology,
	}
	for _, el := range p.Edges {
		ce := *el
		ce.Line = el.Line.clone()
		c.Edges = append(c.Edges, &ce)
	}
	return c
}

func (p Polyhedron) clone() Polyhedron {
	c := Polyhedron{
		Vertices:    append([]Vertex(nil), p.Vertices...),
		VolumeNodes: append([]NodeLocal(nil), p.VolumeNodes...),
		Topology:    p.Topology,
	}
	for _, fl := range p.Faces {
		cf := *fl
		cf.Polygon = fl.Polygon.clone()
		c.Faces = append(c.Faces, &cf)
	}
	return c
}
