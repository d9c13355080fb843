package mesh

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/notargets/femcore/element"
	"github.com/notargets/femcore/geometry"
	"github.com/notargets/femcore/types"
)

/*
Mesh owns the canonical nodes, edges and faces. Elements hold pointers into it and every shared
entity exists once, keyed by rounded coordinates (nodes), packed node pairs (edges) and sorted
node lists (faces). Global indices are 1 based.
*/
type Mesh struct {
	Nodes    []*geometry.Node
	Elements []*element.Element
	Edges    []*element.Edge
	Faces    []*element.Face
	NumDOFs  int

	// Connectivity (built by Stitch)
	EdgeMap map[types.EdgeKey]*element.Edge
	FaceMap map[types.FaceKey]*element.Face

	nodeMap map[string]*geometry.Node
	logger  *log.Logger
}

type Option func(*Mesh)

func WithLogger(l *log.Logger) Option {
	return func(m *Mesh) { m.logger = l }
}

func New(opts ...Option) *Mesh {
	m := &Mesh{
		nodeMap: make(map[string]*geometry.Node),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// coordKey rounds each coordinate onto the NodeTol grid
func coordKey(coords []float64) string {
	parts := make([]string, len(coords))
	for i, x := range coords {
		r := math.Round(x / geometry.NodeTol)
		if r == 0 {
			r = 0 // -0
		}
		parts[i] = strconv.FormatFloat(r, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// AddNode returns the existing node at coords or appends a new one
func (m *Mesh) AddNode(coords ...float64) *geometry.Node {
	key := coordKey(coords)
	if n, ok := m.nodeMap[key]; ok {
		return n
	}
	n := geometry.NewNode(len(m.Nodes)+1, coords...)
	m.Nodes = append(m.Nodes, n)
	m.nodeMap[key] = n
	return n
}

func (m *Mesh) AddElement(nodes []*geometry.Node) (e *element.Element, err error) {
	if e, err = element.Build(nodes); err != nil {
		return nil, fmt.Errorf("element %d: %w", len(m.Elements)+1, err)
	}
	e.GlobalIndex = len(m.Elements) + 1
	switch g := e.Geo; g.Dim {
	case geometry.Curve:
		g.Edge.GlobalIndex = e.GlobalIndex
	case geometry.Surface:
		g.Face.GlobalIndex = e.GlobalIndex
	case geometry.Solid:
		g.Volume.GlobalIndex = e.GlobalIndex
	}
	m.Elements = append(m.Elements, e)
	return
}

/*
AddElements builds one element per connectivity row of 1 based node indices. Malformed rows are
logged and skipped, skipped holds their row numbers (0 based).
*/
func (m *Mesh) AddElements(conn [][]int) (skipped []int) {
	for k, row := range conn {
		nodes := make([]*geometry.Node, len(row))
		var bad bool
		for i, ni := range row {
			if ni < 1 || ni > len(m.Nodes) {
				m.logger.Printf("skipping element row %d: node index %d out of range [1,%d]", k, ni, len(m.Nodes))
				bad = true
				break
			}
			nodes[i] = m.Nodes[ni-1]
		}
		if bad {
			skipped = append(skipped, k)
			continue
		}
		if _, err := m.AddElement(nodes); err != nil {
			m.logger.Printf("skipping element row %d: %v", k, err)
			skipped = append(skipped, k)
		}
	}
	return
}

// NodeElements lists for every node the elements it belongs to
func (m *Mesh) NodeElements() map[*geometry.Node][]*element.Element {
	ne := make(map[*geometry.Node][]*element.Element, len(m.Nodes))
	for _, e := range m.Elements {
		for _, n := range e.Nodes {
			ne[n] = append(ne[n], e)
		}
	}
	return ne
}

// FixOrientation makes every element counter clockwise (2D) or positive (tetrahedra)
func (m *Mesh) FixOrientation() (changed int, err error) {
	for _, e := range m.Elements {
		var c bool
		if c, err = e.AdjustOrientation(); err != nil {
			return
		}
		if c {
			changed++
		}
	}
	return
}

// Locate returns the first element containing the point, nil when it is outside the mesh
func (m *Mesh) Locate(coords ...float64) *element.Element {
	p := geometry.Vec3(geometry.NewPoint(coords...))
	for _, e := range m.Elements {
		b := e.Bound()
		tol := geometry.NodeTol * math.Max(1, geometry.Distance(geometry.NewPoint(b.Min.X, b.Min.Y, b.Min.Z),
			geometry.NewPoint(b.Max.X, b.Max.Y, b.Max.Z)))
		if p.X < b.Min.X-tol || p.X > b.Max.X+tol ||
			p.Y < b.Min.Y-tol || p.Y > b.Max.Y+tol ||
			p.Z < b.Min.Z-tol || p.Z > b.Max.Z+tol {
			continue
		}
		if e.IsCoordInElement(coords...) {
			return e
		}
	}
	return nil
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Nodes: %d\n", len(m.Nodes))
	fmt.Printf("  Elements: %d\n", len(m.Elements))
	fmt.Printf("  Edges: %d\n", len(m.Edges))
	fmt.Printf("  Faces: %d\n", len(m.Faces))
	fmt.Printf("  DOFs: %d\n", m.NumDOFs)

	shapeCounts := make(map[string]int)
	var border int
	for _, e := range m.Elements {
		name := "Line"
		if s := e.Shape(); s != nil {
			name = s.Name
		}
		shapeCounts[name]++
		if e.IsBorderElement() {
			border++
		}
	}
	fmt.Printf("  Element types:\n")
	for name, count := range shapeCounts {
		fmt.Printf("    %s: %d\n", name, count)
	}
	fmt.Printf("  Border elements: %d\n", border)
	fmt.Printf("  Border edges: %d\n", len(m.BorderEdges()))
	fmt.Printf("  Border faces: %d\n", len(m.BorderFaces()))
}
