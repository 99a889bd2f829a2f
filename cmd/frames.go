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
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/notargets/fieldview/InputParameters"
	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/raster"
	"github.com/notargets/fieldview/viewer"
)

// FramesCmd represents the frames command
var FramesCmd = &cobra.Command{
	Use:   "frames",
	Short: "Render display frames off screen and write them as PNG",
	Long: `
Runs the viewer without a window. The IBFV mode advects the noise for the
requested number of frames and writes the last one; --every also writes
every k-th frame next to it.

fieldview frames -F vortex.ply -n 200 -o vortex.png`,
	Run: func(cmd *cobra.Command, args []string) {
		vm := readViewModel(cmd)
		fo := &FrameOptions{}
		fo.Frames, _ = cmd.Flags().GetInt("frames")
		fo.Every, _ = cmd.Flags().GetInt("every")
		mode, _ := cmd.Flags().GetString("mode")
		vp, err := processInput(vm)
		exitOnError(err)
		if len(mode) != 1 {
			exitOnError(fmt.Errorf("%w: %q", viewer.ErrUnknownMode, mode))
		}
		var ok bool
		if fo.Mode, ok = viewer.ModeForKey(rune(mode[0])); !ok {
			exitOnError(fmt.Errorf("%w: %q", viewer.ErrUnknownMode, mode))
		}
		exitOnError(RunFrames(vm, vp, fo))
	},
}

func init() {
	rootCmd.AddCommand(FramesCmd)
	addMeshFlags(FramesCmd)
	FramesCmd.Flags().StringP("output", "o", "frame.png", "PNG file for the last frame")
	FramesCmd.Flags().IntP("frames", "n", 100, "number of frames to render")
	FramesCmd.Flags().IntP("every", "k", 0, "also write every k-th frame, zero writes only the last")
	FramesCmd.Flags().StringP("mode", "m", "5", "display mode key: 1 solid, 2 wireframe, 3 checkerboard, 4 grayscale, 5 IBFV, 6 bicolor, 7 glyphs, 8 streamlines")
}

type FrameOptions struct {
	Mode   viewer.Mode
	Frames int
	Every  int
}

func RunFrames(vm *ViewModel, vp *InputParameters.ViewParameters, fo *FrameOptions) (err error) {
	var (
		qm *geometry2D.QuadMesh
		cv = raster.NewCanvas(vp.Width, vp.Height)
	)
	if fo.Frames < 1 {
		return fmt.Errorf("frames must be at least 1, have %d", fo.Frames)
	}
	if qm, err = loadMesh(vm, vp); err != nil {
		return
	}
	s := viewer.NewMeshSession(vp, qm)
	s.Verbose = vm.Verbose
	if err = s.SetMode(fo.Mode); err != nil {
		return
	}
	start := time.Now()
	for n := 1; n <= fo.Frames; n++ {
		if err = s.Render(cv); err != nil {
			return
		}
		if fo.Every > 0 && n%fo.Every == 0 && n != fo.Frames {
			if err = writeFrame(numberedFrame(vm.Output, n), cv); err != nil {
				return
			}
		}
	}
	if vm.Verbose {
		fmt.Printf("Rendered %d %s frames in %v\n", fo.Frames, fo.Mode, time.Since(start))
	}
	return writeFrame(vm.Output, cv)
}

// numberedFrame turns out/frame.png into out/frame_0042.png
func numberedFrame(filename string, n int) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%s_%04d%s", strings.TrimSuffix(filename, ext), n, ext)
}

func writeFrame(filename string, cv *raster.Canvas) error {
	return withOutput(filename, func(w io.Writer) error {
		return png.Encode(w, cv.Image())
	})
}
