package element

import (
	"fmt"

	"github.com/notargets/femcore/geometry"
	"github.com/notargets/femcore/types"
)

// IsBorderElement reports whether an edge (2D) or face (3D) of the element lies on the domain boundary
func (e *Element) IsBorderElement() bool {
	switch e.Geo.Dim {
	case geometry.Surface:
		for _, el := range e.Edges() {
			if el.IsBorder() {
				return true
			}
		}
	case geometry.Solid:
		for _, fl := range e.Faces() {
			if fl.IsBorder() {
				return true
			}
		}
	}
	return false
}

// BorderElements returns the boundary trace elements, one per border edge (2D) or face (3D). Each carries
// a copy of the border types set at the time of the call.
func (e *Element) BorderElements() (border []*Element, err error) {
	var be *Element
	switch e.Geo.Dim {
	case geometry.Surface:
		for _, el := range e.Edges() {
			if !el.IsBorder() {
				continue
			}
			if be, err = el.ToElement(e); err != nil {
				return
			}
			border = append(border, be)
		}
	case geometry.Solid:
		for _, fl := range e.Faces() {
			if !fl.IsBorder() {
				continue
			}
			if be, err = fl.ToElement(e); err != nil {
				return
			}
			border = append(border, be)
		}
	}
	return
}

// BorderNodeType is the boundary type of a 1 based component on a trace element's edge or face
func (e *Element) BorderNodeType(component int) (types.NodeType, error) {
	switch e.Geo.Dim {
	case geometry.Curve:
		return e.Geo.Edge.BorderType(component), nil
	case geometry.Surface:
		return e.Geo.Face.BorderType(component), nil
	}
	return types.Undefined, fmt.Errorf("border type of %dD element %s: %w", e.Dim(), e, ErrUnsupportedTopology)
}

// NodesByType selects nodes by the type of their first component
func (e *Element) NodesByType(nt types.NodeType) (nodes []*geometry.Node) {
	for _, n := range e.Nodes {
		if n.NodeType() == nt {
			nodes = append(nodes, n)
		}
	}
	return
}
