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
	"image"
	"image/png"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/transform"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/fieldview/InputParameters"
	"github.com/notargets/fieldview/ibfv"
)

// NoiseCmd represents the noise command
var NoiseCmd = &cobra.Command{
	Use:   "noise",
	Short: "Write the IBFV noise tiles as PNG images",
	Long: `
Generates the cyclic noise pattern set blended in by the IBFV mode and
writes one PNG per tile into the output directory. A fixed NoiseSeed gives
the same tiles on every run.

fieldview noise -I view.yaml -o noise`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			vp  = InputParameters.NewViewParameters()
		)
		inputFile, _ := cmd.Flags().GetString("inputParametersFile")
		dir, _ := cmd.Flags().GetString("output")
		zoom, _ := cmd.Flags().GetInt("zoom")
		if len(inputFile) != 0 {
			vp, err = InputParameters.ReadFile(inputFile)
			exitOnError(err)
		}
		if cmd.Flags().Changed("seed") {
			vp.NoiseSeed, _ = cmd.Flags().GetInt64("seed")
		}
		exitOnError(RunNoise(vp, dir, zoom, viper.GetBool("verbose")))
	},
}

func init() {
	rootCmd.AddCommand(NoiseCmd)
	NoiseCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for view parameters like:\n\t- NoisePatterns\n\t- NoiseSize")
	NoiseCmd.Flags().StringP("output", "o", "noise", "directory for the tile images")
	NoiseCmd.Flags().Int64P("seed", "s", 0, "noise seed, zero seeds from the clock")
	NoiseCmd.Flags().IntP("zoom", "z", 1, "pixels per texel in the written images")
}

// RunNoise writes one image per tile, zoom > 1 enlarges each texel to a
// zoom by zoom block
func RunNoise(vp *InputParameters.ViewParameters, dir string, zoom int, verbose bool) (err error) {
	ng := &ibfv.NoiseGenerator{
		Patterns: vp.NoisePatterns,
		Size:     vp.NoiseSize,
	}
	if vp.NoiseSeed != 0 {
		ng.Rand = rand.New(rand.NewSource(vp.NoiseSeed))
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return
	}
	ns := ng.Generate()
	for k := 0; k < ns.Len(); k++ {
		var (
			img      image.Image = ns.Tile(k).Image()
			filename             = filepath.Join(dir, fmt.Sprintf("noise_%03d.png", k))
		)
		if zoom > 1 {
			img = transform.Resize(img, zoom*ng.Size, zoom*ng.Size, transform.NearestNeighbor)
		}
		if err = withOutput(filename, func(w io.Writer) error {
			return png.Encode(w, img)
		}); err != nil {
			return
		}
	}
	if verbose {
		fmt.Printf("Wrote %d %dx%d noise tiles to %s\n", ns.Len(), ng.Size, ng.Size, dir)
	}
	return
}
