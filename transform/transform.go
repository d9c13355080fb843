package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femcore/element"
	"github.com/notargets/femcore/topology"
)

/*
Isoparametric maps from the reference shapes, using the vertices only:

	Segment      r in [-1,1]
	Triangle     area coordinates, vertices (0,0) (1,0) (0,1)
	Quad         [-1,1]^2, vertices counter clockwise from (-1,-1)
	Tetrahedron  vertices (0,0,0) (1,0,0) (0,1,0) (0,0,1)
	Hexahedron   [-1,1]^3, bottom face z=-1 then top face z=1

Simplices are affine with a constant Jacobian, quads and hexahedra are multilinear.
*/
type Linear struct{}

var _ element.CoordinateTransform = Linear{}

func (Linear) Jacobian(dim int, vertices *mat.Dense) (element.Jacobian, error) {
	iso, err := NewIsoparametric(dim, vertices)
	if err != nil {
		return nil, err
	}
	return iso, nil
}

type Isoparametric struct {
	Shape *topology.Shape
	X     *mat.Dense // one vertex per row
	dim   int
}

func NewIsoparametric(dim int, vertices *mat.Dense) (iso *Isoparametric, err error) {
	nv, cdim := vertices.Dims()
	var s *topology.Shape
	if s, err = topology.ForVertices(dim, nv); err != nil {
		return
	}
	if cdim < dim {
		err = fmt.Errorf("%dD shape with %dD coordinates", dim, cdim)
		return
	}
	iso = &Isoparametric{Shape: s, X: vertices, dim: dim}
	return
}

// unit vertex signs of the multilinear shapes
var (
	quadSigns = [][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	hexSigns  = [][3]float64{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
)

func at(xi []float64, i int) float64 {
	if i < len(xi) {
		return xi[i]
	}
	return 0
}

// Basis returns the vertex shape functions N and their reference derivatives dN (nv x dim)
func (iso *Isoparametric) Basis(xi ...float64) (N []float64, dN *mat.Dense) {
	r, s, t := at(xi, 0), at(xi, 1), at(xi, 2)
	switch iso.Shape {
	case topology.Segment:
		N = []float64{0.5 * (1 - r), 0.5 * (1 + r)}
		dN = mat.NewDense(2, 1, []float64{-0.5, 0.5})
	case topology.Triangle:
		N = []float64{1 - r - s, r, s}
		dN = mat.NewDense(3, 2, []float64{-1, -1, 1, 0, 0, 1})
	case topology.Tetrahedron:
		N = []float64{1 - r - s - t, r, s, t}
		dN = mat.NewDense(4, 3, []float64{-1, -1, -1, 1, 0, 0, 0, 1, 0, 0, 0, 1})
	case topology.Quad:
		N = make([]float64, 4)
		dN = mat.NewDense(4, 2, nil)
		for i, sg := range quadSigns {
			N[i] = 0.25 * (1 + r*sg[0]) * (1 + s*sg[1])
			dN.Set(i, 0, 0.25*sg[0]*(1+s*sg[1]))
			dN.Set(i, 1, 0.25*sg[1]*(1+r*sg[0]))
		}
	case topology.Hexahedron:
		N = make([]float64, 8)
		dN = mat.NewDense(8, 3, nil)
		for i, sg := range hexSigns {
			fr, fs, ft := 1+r*sg[0], 1+s*sg[1], 1+t*sg[2]
			N[i] = 0.125 * fr * fs * ft
			dN.Set(i, 0, 0.125*sg[0]*fs*ft)
			dN.Set(i, 1, 0.125*sg[1]*fr*ft)
			dN.Set(i, 2, 0.125*sg[2]*fr*fs)
		}
	}
	return
}

// Matrix is dx/dxi, coordinates by reference directions
func (iso *Isoparametric) Matrix(xi ...float64) *mat.Dense {
	_, dN := iso.Basis(xi...)
	var J mat.Dense
	J.Mul(iso.X.T(), dN)
	return &J
}

/*
Det is signed when the element fills its coordinate space. For elements embedded in a higher
dimension, e.g. the face of a 3D element, it is the metric sqrt(det(J^T J)).
*/
func (iso *Isoparametric) Det(xi ...float64) float64 {
	J := iso.Matrix(xi...)
	if _, cdim := iso.X.Dims(); cdim == iso.dim {
		return mat.Det(J)
	}
	var g mat.Dense
	g.Mul(J.T(), J)
	return math.Sqrt(mat.Det(&g))
}

// Map returns the physical coordinates of a reference point
func (iso *Isoparametric) Map(xi ...float64) []float64 {
	N, _ := iso.Basis(xi...)
	x := mat.NewVecDense(len(N), N)
	var p mat.VecDense
	p.MulVec(iso.X.T(), x)
	return mat.Col(nil, 0, &p)
}
