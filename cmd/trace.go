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
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/notargets/fieldview/InputParameters"
	"github.com/notargets/fieldview/field"
	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/readfiles"
	"github.com/notargets/fieldview/streamline"
	"github.com/notargets/fieldview/types"
	"github.com/notargets/fieldview/utils"
)

// TraceCmd represents the trace command
var TraceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Trace streamlines and write their segments as CSV",
	Long: `
Seeds a streamline at every SeedStride-th vertex, integrates forward and
backward with fixed Euler steps and writes one CSV row per segment.

fieldview trace -F vortex.ply -o lines.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		vm := readViewModel(cmd)
		nPar, _ := cmd.Flags().GetInt("parallel")
		vp, err := processInput(vm)
		exitOnError(err)
		exitOnError(RunTrace(vm, vp, nPar))
	},
}

func init() {
	rootCmd.AddCommand(TraceCmd)
	addMeshFlags(TraceCmd)
	TraceCmd.Flags().StringP("output", "o", "", "CSV file to write, stdout when empty")
	TraceCmd.Flags().IntP("parallel", "p", 0, "number of goroutines tracing seeds, zero for one per CPU")
}

func newSampler(vp *InputParameters.ViewParameters, qm *geometry2D.QuadMesh) *field.Sampler {
	return field.NewSampler(qm,
		field.NewLocator(field.NewLocatorType(vp.Locator), qm, vp.GridCells))
}

func RunTrace(vm *ViewModel, vp *InputParameters.ViewParameters, nPar int) (err error) {
	var (
		qm    *geometry2D.QuadMesh
		lines []types.PolyLine
	)
	if qm, err = loadMesh(vm, vp); err != nil {
		return
	}
	it := streamline.NewIntegrator(newSampler(vp, qm), qm.BBox)
	it.StepSize, it.MaxSteps = vp.StepSize, vp.MaxSteps
	start := time.Now()
	lines = it.GatherStreamlines(qm.Verts, vp.SeedStride, nPar)
	if vm.Verbose {
		var nSeg int
		for _, pl := range lines {
			nSeg += len(pl)
		}
		fmt.Printf("Traced %d streamlines, %d segments in %v\n", len(lines), nSeg, time.Since(start))
		seeds, segments := WorkerLoad(lines, nPar)
		for bn := range seeds {
			fmt.Printf("worker %d: %d seeds, %d segments\n", bn, seeds[bn], segments[bn])
		}
	}
	return withOutput(vm.Output, func(w io.Writer) error {
		return readfiles.WriteStreamlinesCSV(w, lines)
	})
}

// WorkerLoad attributes each line to the goroutine GatherStreamlines traced
// it on, for the same nPar, and counts seeds and segments per goroutine
func WorkerLoad(lines []types.PolyLine, nPar int) (seeds, segments []int) {
	pm := utils.NewPartitionMap(nPar, len(lines))
	seeds = make([]int, pm.ParallelDegree)
	segments = make([]int, pm.ParallelDegree)
	for bn := range seeds {
		seeds[bn] = pm.GetBucketDimension(bn)
	}
	for k, pl := range lines {
		bn, _, _ := pm.GetBucket(k)
		segments[bn] += len(pl)
	}
	return
}

// withOutput hands write the named file, or stdout for an empty name
func withOutput(filename string, write func(w io.Writer) error) (err error) {
	if len(filename) == 0 {
		return write(os.Stdout)
	}
	var file *os.File
	if file, err = os.Create(filename); err != nil {
		return
	}
	if err = write(file); err != nil {
		file.Close()
		return
	}
	return file.Close()
}
