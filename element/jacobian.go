package element

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Jacobian is the handle returned by a coordinate transform, Det evaluates the determinant at reference coordinates
type Jacobian interface {
	Det(xi ...float64) float64
}

// CoordinateTransform maps the reference shape of a topological dimension onto the given vertex rows
type CoordinateTransform interface {
	Jacobian(dim int, vertices *mat.Dense) (Jacobian, error)
}

// NodeCoords flattens the node coordinates per axis, [x1..xn, y1..yn, ...]
func (e *Element) NodeCoords() (x []float64) {
	if len(e.Nodes) == 0 {
		return
	}
	dim := e.Nodes[0].Dim()
	x = make([]float64, 0, dim*len(e.Nodes))
	for j := 0; j < dim; j++ {
		for _, n := range e.Nodes {
			x = append(x, n.Coord(j))
		}
	}
	return
}

// CoordMatrix holds one node per row
func (e *Element) CoordMatrix() *mat.Dense {
	dim := e.Nodes[0].Dim()
	m := mat.NewDense(len(e.Nodes), dim, nil)
	for i, n := range e.Nodes {
		for j := 0; j < dim; j++ {
			m.Set(i, j, n.Coord(j))
		}
	}
	return m
}

func (e *Element) VertexMatrix() *mat.Dense {
	verts := e.Vertices()
	dim := verts[0].Node.Dim()
	m := mat.NewDense(len(verts), dim, nil)
	for i, v := range verts {
		for j := 0; j < dim; j++ {
			m.Set(i, j, v.Node.Coord(j))
		}
	}
	return m
}

// UpdateJacobian hands the vertices to ct and caches the result until the geometry changes
func (e *Element) UpdateJacobian(ct CoordinateTransform) (err error) {
	var jac Jacobian
	if jac, err = ct.Jacobian(e.Dim(), e.VertexMatrix()); err != nil {
		return fmt.Errorf("element %d: %w", e.GlobalIndex, err)
	}
	e.jac = jac
	return
}

func (e *Element) Jacobian() (Jacobian, error) {
	if e.jac == nil {
		return nil, fmt.Errorf("element %d: %w", e.GlobalIndex, ErrJacobianUnavailable)
	}
	return e.jac, nil
}
