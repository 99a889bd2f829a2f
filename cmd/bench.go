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
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	perf "github.com/hodgesds/perf-utils"
	"github.com/spf13/cobra"

	"github.com/notargets/fieldview/InputParameters"
	"github.com/notargets/fieldview/field"
	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/types"
	"github.com/notargets/fieldview/utils"
)

// BenchCmd represents the bench command
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare the linear and grid point locators",
	Long: `
Locates the same random points with the linear scan and the uniform grid
locator and reports wall time, plus instructions and cycles where hardware
counters are available. Without a mesh a vortex grid is generated.

fieldview bench -g 200 -n 100000`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			qm  *geometry2D.QuadMesh
			vm  = readViewModel(cmd)
			vp  = InputParameters.NewViewParameters()
		)
		gridSize, _ := cmd.Flags().GetInt("grid")
		nq, _ := cmd.Flags().GetInt("queries")
		if len(vm.MeshFile) != 0 || len(vm.InputFile) != 0 {
			vp, err = processInput(vm)
			exitOnError(err)
			qm, err = loadMesh(vm, vp)
		} else {
			qm, err = VortexMesh(gridSize)
		}
		exitOnError(err)
		results := RunBench(qm, vp.GridCells, nq, vp.NoiseSeed)
		PrintBench(os.Stdout, qm, results)
	},
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	addMeshFlags(BenchCmd)
	BenchCmd.Flags().IntP("grid", "g", 100, "vertices per side of the generated vortex mesh")
	BenchCmd.Flags().IntP("queries", "n", 10000, "number of points to locate")
}

// VortexMesh is an n by n grid over [-1,1]x[-1,1] carrying a solid body
// rotation, the scalar is the distance from the center
func VortexMesh(n int) (*geometry2D.QuadMesh, error) {
	bb := types.BoundingBox{XMin: -1, XMax: 1, YMin: -1, YMax: 1}
	return geometry2D.NewGridMesh(n, n, bb, func(x, y float64) (vx, vy, s float64) {
		return -y, x, x*x + y*y
	})
}

type BenchResult struct {
	Locator      field.LocatorType
	Queries      int
	Found        int
	Elapsed      time.Duration
	Instructions uint64
	Cycles       uint64
	PerfErr      error
	MaxBucket    int // quads in the fullest grid cell, zero for the linear scan
}

// RunBench locates the same seeded points with every locator type
func RunBench(qm *geometry2D.QuadMesh, cells, nq int, seed int64) (results []BenchResult) {
	if seed == 0 {
		seed = 1
	}
	var (
		rng = rand.New(rand.NewSource(seed))
		bb  = qm.BBox
		pts = make([][2]float64, nq)
	)
	for i := range pts {
		pts[i] = [2]float64{
			bb.XMin + rng.Float64()*bb.Width(),
			bb.YMin + rng.Float64()*bb.Height(),
		}
	}
	for _, lt := range []field.LocatorType{field.LinearScan, field.UniformGrid} {
		var (
			loc = field.NewLocator(lt, qm, cells)
			res = BenchResult{Locator: lt, Queries: nq}
			run = func() error {
				res.Found = 0
				for _, p := range pts {
					if _, found := loc.Locate(p[0], p[1]); found {
						res.Found++
					}
				}
				return nil
			}
		)
		if gl, ok := loc.(*field.GridLocator); ok {
			res.MaxBucket = gl.MaxDepth
		}
		start := time.Now()
		_ = run()
		res.Elapsed = time.Since(start)
		if pv, err := perf.CPUInstructions(run); err != nil {
			res.PerfErr = err
		} else {
			res.Instructions = pv.Value
		}
		if res.PerfErr == nil {
			if pv, err := perf.CPUCycles(run); err != nil {
				res.PerfErr = err
			} else {
				res.Cycles = pv.Value
			}
		}
		if res.PerfErr != nil {
			log.Printf("warning: hardware counters unavailable for %s locator: %v\n", lt, res.PerfErr)
		}
		results = append(results, res)
	}
	return
}

func PrintBench(w io.Writer, qm *geometry2D.QuadMesh, results []BenchResult) {
	fmt.Fprintf(w, "Mesh: %d vertices, %d quads, %s\n", len(qm.Verts), len(qm.Quads), qm.BBox)
	fmt.Fprintf(w, "%-8s %10s %10s %14s %14s %14s %8s\n",
		"Locator", "Queries", "Found", "Time", "Instructions", "Cycles", "Bucket")
	for _, r := range results {
		instr, cyc := "n/a", "n/a"
		if r.PerfErr == nil {
			instr, cyc = fmt.Sprintf("%d", r.Instructions), fmt.Sprintf("%d", r.Cycles)
		}
		fmt.Fprintf(w, "%-8s %10d %10d %14v %14s %14s %8d\n",
			r.Locator, r.Queries, r.Found, r.Elapsed, instr, cyc, r.MaxBucket)
	}
	fmt.Fprintf(w, "%s\n", utils.ReadMemUsage())
}
