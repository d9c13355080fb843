package geometry

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/femcore/types"
)

// Tolerances are set once at start-up (see cmd) and only read afterwards
var (
	NodeTol  = 1.e-12 // coordinate equality
	AngleEps = 1.e-8  // angle sums in point containment
)

// SetTolerances replaces the package tolerances, non-positive values keep the current setting
func SetTolerances(nodeTol, angleEps float64) {
	if nodeTol > 0 {
		NodeTol = nodeTol
	}
	if angleEps > 0 {
		AngleEps = angleEps
	}
}

type Dimension uint8

const (
	Dim0 Dimension = iota
	Curve
	Surface
	Solid
)

func (d Dimension) String() string {
	return [...]string{"Point", "Curve", "Surface", "Solid"}[d]
}

type Point struct {
	X []float64
}

func NewPoint(coords ...float64) Point {
	p := Point{X: make([]float64, len(coords))}
	copy(p.X, coords)
	return p
}

func (p Point) Dim() int { return len(p.X) }

// Coord returns component i (0 based), components past the point's dimension read as 0
func (p Point) Coord(i int) float64 {
	if i < len(p.X) {
		return p.X[i]
	}
	return 0
}

// CoordEquals is the equality used for node lookup, identity is never consulted
func (p Point) CoordEquals(q Point) bool {
	if len(p.X) != len(q.X) {
		return false
	}
	return floats.EqualApprox(p.X, q.X, NodeTol)
}

func (p Point) String() string {
	s := make([]string, len(p.X))
	for i, x := range p.X {
		s[i] = fmt.Sprintf("%g", x)
	}
	return "(" + strings.Join(s, ",") + ")"
}

// Node is a mesh node, shared by every element that references it
type Node struct {
	Point
	GlobalIndex int
	Types       []types.NodeType // boundary type per solution component
	Hanging     bool             // introduced by refinement and not conforming
}

func NewNode(globalIndex int, coords ...float64) *Node {
	return &Node{
		Point:       NewPoint(coords...),
		GlobalIndex: globalIndex,
	}
}

// NodeType returns the type of the first component
func (n *Node) NodeType() types.NodeType {
	return n.NodeTypeOf(1)
}

// NodeTypeOf returns the node type of a 1 based solution component
func (n *Node) NodeTypeOf(component int) types.NodeType {
	if component < 1 || component > len(n.Types) {
		return types.Undefined
	}
	return n.Types[component-1]
}

func (n *Node) SetNodeType(component int, nt types.NodeType) {
	if component < 1 {
		panic(fmt.Errorf("component index is 1 based, have %d", component))
	}
	for len(n.Types) < component {
		n.Types = append(n.Types, types.Undefined)
	}
	n.Types[component-1] = nt
}

func (n *Node) IsType(nt types.NodeType) bool {
	for _, t := range n.Types {
		if t == nt {
			return true
		}
	}
	return false
}

func (n *Node) String() string {
	return fmt.Sprintf("N%d%s", n.GlobalIndex, n.Point)
}
