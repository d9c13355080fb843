package element

import (
	"fmt"

	"github.com/notargets/femcore/dof"
)

// Local indices of nodes, edges and faces come from the element's own enumeration

func (e *Element) AddNodeDOF(localNodeIndex int, d *dof.DOF) { e.dofs.Attach(dof.Node, localNodeIndex, d) }

func (e *Element) AddEdgeDOF(localEdgeIndex int, d *dof.DOF) { e.dofs.Attach(dof.Edge, localEdgeIndex, d) }

func (e *Element) AddFaceDOF(localFaceIndex int, d *dof.DOF) { e.dofs.Attach(dof.Face, localFaceIndex, d) }

func (e *Element) AddVolumeDOF(d *dof.DOF) { e.dofs.Attach(dof.Volume, 0, d) }

func (e *Element) NodeDOFs(localNodeIndex int) []*dof.DOF { return e.dofs.List(dof.Node, localNodeIndex) }

func (e *Element) EdgeDOFs(localEdgeIndex int) []*dof.DOF { return e.dofs.List(dof.Edge, localEdgeIndex) }

func (e *Element) FaceDOFs(localFaceIndex int) []*dof.DOF { return e.dofs.List(dof.Face, localFaceIndex) }

func (e *Element) VolumeDOFs() []*dof.DOF { return e.dofs.List(dof.Volume, 0) }

func (e *Element) AllDOFs(order dof.Order) []*dof.DOF { return e.dofs.All(order) }

func (e *Element) SortedDOFs() []*dof.DOF { return e.dofs.SortedByLocalIndex() }

// DOFComponent returns the component-th (1 based) DOF of every sub-entity, e.g. the pressure of a velocity-pressure pair
func (e *Element) DOFComponent(order dof.Order, component int) []*dof.DOF {
	return e.dofs.ComponentSlice(order, component)
}

func (e *Element) DOFCount(kind dof.Kind) int { return e.dofs.Count(kind) }

func (e *Element) TotalDOFs() int { return e.dofs.Total() }

// Local2GlobalDOFIndex returns 0 when no DOF matches
func (e *Element) Local2GlobalDOFIndex(local int) int { return e.dofs.Local2Global(local) }

func (e *Element) DOFElementIndex(d *dof.DOF) int { return e.dofs.ElementIndex(d) }

func (e *Element) ClearAllDOF() { e.dofs.Clear() }

func (e *Element) PrintDOFInfo() {
	for _, d := range e.dofs.All(dof.NEFV) {
		fmt.Printf("E%d DOFIdx:L=%02d, G=%d SF=%v\n", e.GlobalIndex, d.LocalIndex, d.GlobalIndex, d.Basis)
	}
}
