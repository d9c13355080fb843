package dof

import (
	"fmt"
	"sort"
)

// Kind is the sub-entity a DOF is attached to
type Kind uint8

const (
	Node Kind = iota
	Edge
	Face
	Volume
)

func (k Kind) String() string {
	return [...]string{"Node", "Edge", "Face", "Volume"}[k]
}

// Order is the traversal order of the concatenated DOF list
type Order uint8

const (
	NEFV Order = iota // node, edge, face, volume
	VFEN              // volume, face, edge, node
)

func (o Order) String() string {
	if o == VFEN {
		return "VFEN"
	}
	return "NEFV"
}

func ParseOrder(name string) (Order, error) {
	switch name {
	case "NEFV", "nefv", "":
		return NEFV, nil
	case "VFEN", "vfen":
		return VFEN, nil
	}
	return NEFV, fmt.Errorf("unknown DOF order %q, expected NEFV or VFEN", name)
}

func (o Order) kinds() []Kind {
	if o == VFEN {
		return []Kind{Volume, Face, Edge, Node}
	}
	return []Kind{Node, Edge, Face, Volume}
}

// Owner is the element local handle of the sub-entity holding a DOF, Index is 0 for volume DOFs
type Owner struct {
	Kind  Kind
	Index int
}

type DOF struct {
	LocalIndex  int
	GlobalIndex int
	Owner       Owner
	Basis       fmt.Stringer // shape function handle, optional
}

func New(localIndex, globalIndex int) *DOF {
	return &DOF{LocalIndex: localIndex, GlobalIndex: globalIndex}
}

func (d *DOF) String() string {
	return fmt.Sprintf("DOF(L=%d,G=%d,%s%d)", d.LocalIndex, d.GlobalIndex, d.Owner.Kind, d.Owner.Index)
}

/*
Manager keeps the DOFs of one element, grouped per sub-entity kind and local sub-entity index.
Local indices passed in must come from the element's own enumeration, out of range is a caller error.
*/
type Manager struct {
	lists  [3]map[int][]*DOF // Node, Edge, Face
	volume []*DOF
}

func (m *Manager) Attach(kind Kind, localIndex int, d *DOF) {
	if kind == Volume {
		d.Owner = Owner{Kind: Volume}
		m.volume = append(m.volume, d)
		return
	}
	if m.lists[kind] == nil {
		m.lists[kind] = make(map[int][]*DOF)
	}
	d.Owner = Owner{Kind: kind, Index: localIndex}
	m.lists[kind][localIndex] = append(m.lists[kind][localIndex], d)
}

// List returns the DOFs of one sub-entity in attach order, nil when none
func (m *Manager) List(kind Kind, localIndex int) []*DOF {
	if kind == Volume {
		return m.volume
	}
	return m.lists[kind][localIndex]
}

// Indices returns the local indices of the sub-entities of a kind that carry DOFs, ascending
func (m *Manager) Indices(kind Kind) (idx []int) {
	if kind == Volume {
		if len(m.volume) != 0 {
			idx = []int{0}
		}
		return
	}
	for i := range m.lists[kind] {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return
}

// KindList concatenates all DOFs of one kind, sub-entities ascending
func (m *Manager) KindList(kind Kind) (r []*DOF) {
	for _, i := range m.Indices(kind) {
		r = append(r, m.List(kind, i)...)
	}
	return
}

func (m *Manager) All(order Order) (r []*DOF) {
	for _, k := range order.kinds() {
		r = append(r, m.KindList(k)...)
	}
	return
}

// SortedByLocalIndex is the NEFV list stably sorted by DOF local index, equal indices keep NEFV order
func (m *Manager) SortedByLocalIndex() (r []*DOF) {
	r = m.All(NEFV)
	sort.SliceStable(r, func(i, j int) bool {
		return r[i].LocalIndex < r[j].LocalIndex
	})
	return
}

// ComponentSlice picks the 1 based component-th DOF from every sub-entity that has that many
func (m *Manager) ComponentSlice(order Order, component int) (r []*DOF) {
	for _, k := range order.kinds() {
		for _, i := range m.Indices(k) {
			if l := m.List(k, i); len(l) >= component && component >= 1 {
				r = append(r, l[component-1])
			}
		}
	}
	return
}

func (m *Manager) Count(kind Kind) (n int) {
	if kind == Volume {
		return len(m.volume)
	}
	for _, l := range m.lists[kind] {
		n += len(l)
	}
	return
}

func (m *Manager) Total() (n int) {
	for _, k := range NEFV.kinds() {
		n += m.Count(k)
	}
	return
}

/*
Local2Global walks node, edge, face then volume DOFs. Within each kind the local index is
offset by the number of DOFs of the kinds already scanned. Returns 0 when no DOF matches,
0 is never a valid global index.
*/
func (m *Manager) Local2Global(local int) int {
	var base int
	for _, k := range NEFV.kinds() {
		if m.Count(k) == 0 {
			continue
		}
		for _, i := range m.Indices(k) {
			for _, d := range m.List(k, i) {
				if d.LocalIndex == local-base {
					return d.GlobalIndex
				}
			}
		}
		base += m.Count(k)
	}
	return 0
}

// Base is the number of DOFs of the kinds preceding kind in NEFV order
func (m *Manager) Base(kind Kind) (n int) {
	for _, k := range NEFV.kinds() {
		if k == kind {
			return
		}
		n += m.Count(k)
	}
	return
}

// ElementIndex is the argument for which Local2Global returns d's global index
func (m *Manager) ElementIndex(d *DOF) int {
	return m.Base(d.Owner.Kind) + d.LocalIndex
}

func (m *Manager) Clear() {
	for k := range m.lists {
		m.lists[k] = nil
	}
	m.volume = nil
}

// Remap moves DOF sequences to new sub-entity indices, sequences without a mapping are dropped
func (m *Manager) Remap(kind Kind, mapping map[int]int) {
	if kind == Volume || m.lists[kind] == nil {
		return
	}
	remapped := make(map[int][]*DOF, len(mapping))
	for oldIdx, l := range m.lists[kind] {
		newIdx, ok := mapping[oldIdx]
		if !ok {
			continue
		}
		for _, d := range l {
			d.Owner.Index = newIdx
		}
		remapped[newIdx] = append(remapped[newIdx], l...)
	}
	m.lists[kind] = remapped
}
