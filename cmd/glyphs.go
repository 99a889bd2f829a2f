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

	"github.com/spf13/cobra"

	"github.com/notargets/fieldview/InputParameters"
	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/glyph"
	"github.com/notargets/fieldview/readfiles"
	"github.com/notargets/fieldview/types"
)

// GlyphsCmd represents the glyphs command
var GlyphsCmd = &cobra.Command{
	Use:   "glyphs",
	Short: "Sample direction glyphs on a structured grid and write them as CSV",
	Long: `
Emits one glyph per interior grid vertex whose scalar exceeds GlyphThreshold,
scaled by the scalar relative to the mesh maximum.

fieldview glyphs -F grid.ply -o glyphs.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		vm := readViewModel(cmd)
		vp, err := processInput(vm)
		exitOnError(err)
		exitOnError(RunGlyphs(vm, vp))
	},
}

func init() {
	rootCmd.AddCommand(GlyphsCmd)
	addMeshFlags(GlyphsCmd)
	GlyphsCmd.Flags().StringP("output", "o", "", "CSV file to write, stdout when empty")
}

func RunGlyphs(vm *ViewModel, vp *InputParameters.ViewParameters) (err error) {
	var (
		qm     *geometry2D.QuadMesh
		glyphs []types.LineSegment
	)
	if qm, err = loadMesh(vm, vp); err != nil {
		return
	}
	opts := glyph.Options{Threshold: vp.GlyphThreshold, Length: vp.GlyphLength}
	if glyphs, err = glyph.Sample(qm, newSampler(vp, qm), opts); err != nil {
		return
	}
	if vm.Verbose {
		fmt.Printf("Sampled %d glyphs\n", len(glyphs))
	}
	return withOutput(vm.Output, func(w io.Writer) error {
		return readfiles.WriteGlyphsCSV(w, glyphs)
	})
}
