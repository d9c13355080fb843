/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/femcore/InputParameters"
	"github.com/notargets/femcore/geometry"
	"github.com/notargets/femcore/mesh"
)

type MeshRun struct {
	InputFile string
	Verbose   bool
}

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Build a mesh, classify its border and number the degrees of freedom",
	Long:  `Build a mesh, classify its border and number the degrees of freedom`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		mr := &MeshRun{}
		if mr.InputFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
			panic(err)
		}
		mr.Verbose, _ = cmd.Flags().GetBool("verbose")
		mp := processInput(mr)
		mp.Print()
		var m *mesh.Mesh
		if m, err = RunMesh(mp, log.New(os.Stderr, "femcore: ", log.LstdFlags)); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		Report(m, mp, mr.Verbose)
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file with the nodes, elements, BCs and DOF layout")
	MeshCmd.Flags().BoolP("verbose", "v", false, "list the DOFs of every element")
}

func processInput(mr *MeshRun) (mp *InputParameters.MeshParameters) {
	var (
		err error
	)
	if len(mr.InputFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputParametersFile)")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Unit square"
Components: 1
DOFOrder: NEFV
DOFs:
  PerNode: 1
Nodes:
  - [0, 0]
  - [1, 0]
  - [1, 1]
  - [0, 1]
Elements:
  - [1, 2, 3]
  - [1, 3, 4]
DefaultBC: Neumann
BCs:
  Dirichlet:
    1:
      x: 0.
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = os.ReadFile(mr.InputFile); err != nil {
		panic(err)
	}
	mp = &InputParameters.MeshParameters{}
	if err = mp.Parse(data); err != nil {
		panic(err)
	}
	if err = mp.Validate(); err != nil {
		fmt.Printf("error: %s: %s\n", mr.InputFile, err.Error())
		os.Exit(1)
	}
	return
}

/*
RunMesh builds the mesh described by mp. Tolerances missing from the input come from the command
line or config file.
*/
func RunMesh(mp *InputParameters.MeshParameters, logger *log.Logger) (m *mesh.Mesh, err error) {
	nodeTol, angleEps := mp.NodeTol, mp.AngleEps
	if nodeTol == 0 {
		nodeTol = viper.GetFloat64("nodeTol")
	}
	if angleEps == 0 {
		angleEps = viper.GetFloat64("angleEps")
	}
	geometry.SetTolerances(nodeTol, angleEps)

	m = mesh.New(mesh.WithLogger(logger))
	for _, x := range mp.Nodes {
		m.AddNode(x...)
	}
	if skipped := m.AddElements(mp.Elements); len(skipped) != 0 {
		logger.Printf("%d of %d elements skipped", len(skipped), len(mp.Elements))
	}
	if mp.FixOrientation {
		var changed int
		if changed, err = m.FixOrientation(); err != nil {
			return
		}
		if changed != 0 {
			logger.Printf("reoriented %d elements", changed)
		}
	}
	if err = m.Stitch(); err != nil {
		return
	}
	if err = m.MarkBorderNodes(mp.Classifier(), mp.Components); err != nil {
		return
	}
	err = m.NumberDOFs(mp.Layout())
	return
}

func Report(m *mesh.Mesh, mp *InputParameters.MeshParameters, verbose bool) {
	m.PrintStatistics()
	if S, err := m.Sparsity(); err == nil {
		r, c := S.Dims()
		fmt.Printf("  Sparsity: %dx%d, %d nonzeros\n", r, c, S.NNZ())
	}
	if !verbose {
		return
	}
	for _, ed := range m.BorderEdges() {
		fmt.Printf("border edge %d-%d\n", ed[0], ed[1])
	}
	for _, f := range m.BorderFaces() {
		fmt.Printf("border face %v\n", f)
	}
	for _, e := range m.Elements {
		var g []int
		for _, d := range e.AllDOFs(mp.Order()) {
			g = append(g, d.GlobalIndex)
		}
		fmt.Printf("%s %s DOFs %v\n", e, mp.Order(), g)
	}
}
