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
	"image/color"
	"math"

	"github.com/notargets/avs/assets"
	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
	"github.com/spf13/cobra"

	"github.com/notargets/fieldview/InputParameters"
	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/glyph"
	"github.com/notargets/fieldview/readfiles"
	"github.com/notargets/fieldview/streamline"
	"github.com/notargets/fieldview/utils"
)

// PlotCmd represents the plot command
var PlotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot the mesh with streamlines and glyphs in a chart window",
	Long: `
Opens a chart window showing the mesh edges with the streamlines and glyphs
drawn over them. The window stays open until the process is killed.

fieldview plot -F vortex.ply -s -g`,
	Run: func(cmd *cobra.Command, args []string) {
		vm := readViewModel(cmd)
		vp, err := processInput(vm)
		exitOnError(err)
		pm := &readfiles.PlotMeta{Title: vp.Title}
		pm.Edges, _ = cmd.Flags().GetBool("edges")
		withLines, _ := cmd.Flags().GetBool("streamlines")
		withGlyphs, _ := cmd.Flags().GetBool("glyphs")
		qm, err := loadMesh(vm, vp)
		exitOnError(err)
		exitOnError(buildOverlays(vp, qm, pm, withLines, withGlyphs))
		PlotMesh(qm, pm)
	},
}

func init() {
	rootCmd.AddCommand(PlotCmd)
	addMeshFlags(PlotCmd)
	PlotCmd.Flags().BoolP("edges", "e", true, "draw the mesh edges")
	PlotCmd.Flags().BoolP("streamlines", "s", false, "draw streamlines")
	PlotCmd.Flags().BoolP("glyphs", "g", false, "draw direction glyphs")
}

func buildOverlays(vp *InputParameters.ViewParameters, qm *geometry2D.QuadMesh,
	pm *readfiles.PlotMeta, withLines, withGlyphs bool) (err error) {
	s := newSampler(vp, qm)
	if withLines {
		it := streamline.NewIntegrator(s, qm.BBox)
		it.StepSize, it.MaxSteps = vp.StepSize, vp.MaxSteps
		pm.Streamlines = it.GatherStreamlines(qm.Verts, vp.SeedStride, 0)
	}
	if withGlyphs {
		opts := glyph.Options{Threshold: vp.GlyphThreshold, Length: vp.GlyphLength}
		if pm.Glyphs, err = glyph.Sample(qm, s, opts); err != nil {
			return
		}
	}
	return
}

// PlotMesh opens a chart window with the mesh and overlays. It does not
// return.
func PlotMesh(qm *geometry2D.QuadMesh, pm *readfiles.PlotMeta) {
	var text []utils.RenderText
	if pm.Title != "" {
		text = append(text, utils.RenderText{
			Color: utils.GetColor(utils.Black),
			Text:  fmt.Sprintf("%s  %d quads", pm.Title, len(qm.Quads)),
			Pitch: 24,
			X:     float32(qm.BBox.XMin),
			Y:     float32(qm.BBox.YMax),
		})
	}
	PlotLinesAndText(readfiles.MeshLines(qm, pm), text)
}

// PlotLinesAndText opens a chart window sized to the lines and draws them
// with the text labels
func PlotLinesAndText(lines map[color.RGBA][]float32, text []utils.RenderText) {
	var (
		xMin, xMax = float32(math.MaxFloat32), -float32(math.MaxFloat32)
		yMin, yMax = float32(math.MaxFloat32), -float32(math.MaxFloat32)
	)
	for _, line := range lines {
		xMin, xMax, yMin, yMax = utils.GetMinMax(line, xMin, xMax, yMin, yMax)
	}
	ch := chart2d.NewChart2D(xMin, xMax, yMin, yMax,
		1024, 1024, utils2.WHITE, utils2.BLACK)
	for col, line := range lines {
		ch.AddLine(line, col)
	}
	for _, txt := range text {
		tf := assets.NewTextFormatter("NotoSans",
			"Regular", txt.Pitch,
			txt.Color, true, false)
		ch.Printf(tf, txt.X, txt.Y, "%s", txt.Text)
	}
	select {}
}
