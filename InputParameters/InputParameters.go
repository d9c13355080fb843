package InputParameters

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/femcore/dof"
	"github.com/notargets/femcore/geometry"
	"github.com/notargets/femcore/mesh"
	"github.com/notargets/femcore/types"
)

// Parameters obtained from the YAML input file
type MeshParameters struct {
	Title          string                                `yaml:"Title"`
	NodeTol        float64                               `yaml:"NodeTol"`
	AngleEps       float64                               `yaml:"AngleEps"`
	Components     int                                   `yaml:"Components"`
	DOFOrder       string                                `yaml:"DOFOrder"` // NEFV or VFEN
	DOFs           DOFLayout                             `yaml:"DOFs"`
	FixOrientation bool                                  `yaml:"FixOrientation"`
	Nodes          [][]float64                           `yaml:"Nodes"`
	Elements       [][]int                               `yaml:"Elements"` // 1 based node indices
	DefaultBC      string                                `yaml:"DefaultBC"`
	BCs            map[string]map[int]map[string]float64 `yaml:"BCs"` // First key is BC type, second is component, third is coordinate name
}

type DOFLayout struct {
	PerNode   int `yaml:"PerNode"`
	PerEdge   int `yaml:"PerEdge"`
	PerFace   int `yaml:"PerFace"`
	PerVolume int `yaml:"PerVolume"`
}

func (mp *MeshParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, mp)
}

// Validate fills defaults and checks the values that do not need the mesh
func (mp *MeshParameters) Validate() (err error) {
	if mp.Components == 0 {
		mp.Components = 1
	}
	if mp.Components < 0 {
		return fmt.Errorf("components must be positive, have %d", mp.Components)
	}
	if mp.DOFs == (DOFLayout{}) {
		mp.DOFs.PerNode = 1
	}
	if _, err = dof.ParseOrder(mp.DOFOrder); err != nil {
		return
	}
	if len(mp.DefaultBC) != 0 && types.ParseNodeType(mp.DefaultBC) == types.Undefined {
		return fmt.Errorf("unknown DefaultBC %q", mp.DefaultBC)
	}
	for name, comps := range mp.BCs {
		if types.ParseNodeType(name) == types.Undefined {
			return fmt.Errorf("unknown BC type %q", name)
		}
		for c, coords := range comps {
			if c < 1 || c > mp.Components {
				return fmt.Errorf("BCs[%s]: component %d outside [1,%d]", name, c, mp.Components)
			}
			for axis := range coords {
				if axisIndex(axis) < 0 {
					return fmt.Errorf("BCs[%s][%d]: unknown coordinate %q, expected x, y or z", name, c, axis)
				}
			}
		}
	}
	if len(mp.Nodes) == 0 || len(mp.Elements) == 0 {
		return fmt.Errorf("input has %d nodes and %d elements", len(mp.Nodes), len(mp.Elements))
	}
	return
}

func axisIndex(name string) int {
	switch strings.ToLower(name) {
	case "x":
		return 0
	case "y":
		return 1
	case "z":
		return 2
	}
	return -1
}

func (mp *MeshParameters) Layout() mesh.Layout {
	return mesh.Layout{
		PerNode:   mp.DOFs.PerNode,
		PerEdge:   mp.DOFs.PerEdge,
		PerFace:   mp.DOFs.PerFace,
		PerVolume: mp.DOFs.PerVolume,
	}
}

func (mp *MeshParameters) Order() dof.Order {
	o, _ := dof.ParseOrder(mp.DOFOrder)
	return o
}

/*
Classifier matches border locations against the BCs table. A BC applies to a component when every
listed coordinate equals the location's within NodeTol, BC types are tried in name order. Unmatched
border locations get DefaultBC, or Dirichlet when none is set.
*/
func (mp *MeshParameters) Classifier() mesh.Classifier {
	def := types.Dirichlet
	if len(mp.DefaultBC) != 0 {
		def = types.ParseNodeType(mp.DefaultBC)
	}
	names := mp.bcNames()
	return func(component int, p geometry.Point) types.NodeType {
		for _, name := range names {
			coords, ok := mp.BCs[name][component]
			if !ok {
				continue
			}
			match := true
			for axis, val := range coords {
				if math.Abs(p.Coord(axisIndex(axis))-val) > geometry.NodeTol {
					match = false
					break
				}
			}
			if match {
				return types.ParseNodeType(name)
			}
		}
		return def
	}
}

func (mp *MeshParameters) bcNames() (keys []string) {
	keys = make([]string, 0, len(mp.BCs))
	for k := range mp.BCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

func (mp *MeshParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", mp.Title)
	fmt.Printf("%8.3g\t\t= NodeTol\n", mp.NodeTol)
	fmt.Printf("%8.3g\t\t= AngleEps\n", mp.AngleEps)
	fmt.Printf("[%d]\t\t\t\t= Components\n", mp.Components)
	fmt.Printf("[%s]\t\t\t= DOF Order\n", mp.Order())
	fmt.Printf("[%s]\t\t= DOFs per Node/Edge/Face/Volume\n", mp.Layout())
	fmt.Printf("[%d]\t\t\t\t= Nodes\n", len(mp.Nodes))
	fmt.Printf("[%d]\t\t\t\t= Elements\n", len(mp.Elements))
	for _, key := range mp.bcNames() {
		fmt.Printf("BCs[%s] = %v\n", key, mp.BCs[key])
	}
}
