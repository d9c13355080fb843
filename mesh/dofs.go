package mesh

import (
	"fmt"

	"github.com/james-bowman/sparse"

	"github.com/notargets/femcore/dof"
	"github.com/notargets/femcore/geometry"
)

/*
Layout is the number of DOFs carried by each sub-entity kind. Edge DOFs live on the stitched edges
of 2D and 3D meshes, face DOFs on the stitched faces of 3D meshes. PerVolume counts the DOFs interior
to an element in any dimension.
*/
type Layout struct {
	PerNode   int
	PerEdge   int
	PerFace   int
	PerVolume int
}

func (l Layout) String() string {
	return fmt.Sprintf("N%d E%d F%d V%d", l.PerNode, l.PerEdge, l.PerFace, l.PerVolume)
}

/*
NumberDOFs attaches DOFs to every element and numbers them globally, 1 based. DOFs on a shared node,
edge or face get the same global index in every element holding it. Global numbering runs over nodes,
then edges, faces and element interiors, each by global index. Edge DOFs of a Flipped local edge are
attached in reverse so that they follow the global edge direction.
*/
func (m *Mesh) NumberDOFs(l Layout) (err error) {
	var dim int
	if dim, err = m.dim(); err != nil {
		return
	}
	if l.PerNode < 0 || l.PerEdge < 0 || l.PerFace < 0 || l.PerVolume < 0 {
		return fmt.Errorf("negative DOF count in layout %s", l)
	}
	if dim > 1 && (l.PerEdge > 0 || l.PerFace > 0) && m.EdgeMap == nil {
		return fmt.Errorf("layout %s needs a stitched mesh", l)
	}
	var (
		edgeBase = len(m.Nodes) * l.PerNode
		faceBase = edgeBase + len(m.Edges)*l.PerEdge
		volBase  = faceBase + len(m.Faces)*l.PerFace
	)
	m.NumDOFs = volBase + len(m.Elements)*l.PerVolume

	for _, e := range m.Elements {
		e.ClearAllDOF()
		for i, n := range e.Nodes {
			for c := 1; c <= l.PerNode; c++ {
				e.AddNodeDOF(i+1, dof.New(i*l.PerNode+c, (n.GlobalIndex-1)*l.PerNode+c))
			}
		}
		if dim > 1 && l.PerEdge > 0 {
			for _, el := range e.GlobalEdges() {
				for c := 1; c <= l.PerEdge; c++ {
					gc := c
					if el.Flipped {
						gc = l.PerEdge - c + 1
					}
					e.AddEdgeDOF(el.LocalIndex, dof.New((el.LocalIndex-1)*l.PerEdge+c,
						edgeBase+(el.Global.GlobalIndex-1)*l.PerEdge+gc))
				}
			}
		}
		if dim == 3 {
			for _, fl := range e.Faces() {
				for c := 1; c <= l.PerFace; c++ {
					e.AddFaceDOF(fl.LocalIndex, dof.New((fl.LocalIndex-1)*l.PerFace+c,
						faceBase+(fl.Global.GlobalIndex-1)*l.PerFace+c))
				}
			}
		}
		for c := 1; c <= l.PerVolume; c++ {
			e.AddVolumeDOF(dof.New(c, volBase+(e.GlobalIndex-1)*l.PerVolume+c))
		}
	}
	return
}

// Sparsity is the NumDOFs x NumDOFs pattern of an assembled operator, one entry per DOF pair sharing an element
func (m *Mesh) Sparsity() (*sparse.CSR, error) {
	if m.NumDOFs == 0 {
		return nil, fmt.Errorf("no DOFs numbered")
	}
	S := sparse.NewDOK(m.NumDOFs, m.NumDOFs)
	for _, e := range m.Elements {
		all := e.AllDOFs(dof.NEFV)
		for _, di := range all {
			for _, dj := range all {
				S.Set(di.GlobalIndex-1, dj.GlobalIndex-1, 1)
			}
		}
	}
	return S.ToCSR(), nil
}

// BorderDOFs lists, in first seen order, the global node DOF indices of the nodes selected by isBorder
func (m *Mesh) BorderDOFs(isBorder func(n *geometry.Node) bool) (idx []int) {
	seen := make(map[int]bool)
	for _, e := range m.Elements {
		for i, n := range e.Nodes {
			if !isBorder(n) {
				continue
			}
			for _, d := range e.NodeDOFs(i + 1) {
				if !seen[d.GlobalIndex] {
					seen[d.GlobalIndex] = true
					idx = append(idx, d.GlobalIndex)
				}
			}
		}
	}
	return
}
