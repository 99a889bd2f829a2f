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
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/readfiles"
)

// TransformCmd represents the transform command
var TransformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Turn a boids position log into a sequence of PLY meshes",
	Long: `
Reads a log of boid positions, one snapshot per line, and writes one PLY mesh
per consecutive pair of snapshots. Each mesh carries the local boid count as
its scalar and the mean displacement as its vector field.

fieldview transform -L boids.log -o o -c 32`,
	Run: func(cmd *cobra.Command, args []string) {
		logFile, _ := cmd.Flags().GetString("log")
		dir, _ := cmd.Flags().GetString("output")
		cells, _ := cmd.Flags().GetInt("cells")
		if len(logFile) == 0 {
			exitOnError(fmt.Errorf("must supply a boids log file (-L, --log)"))
		}
		_, err := RunTransform(logFile, dir, cells, viper.GetBool("verbose"))
		exitOnError(err)
	},
}

func init() {
	rootCmd.AddCommand(TransformCmd)
	TransformCmd.Flags().StringP("log", "L", "", "boids position log to read")
	TransformCmd.Flags().StringP("output", "o", "o", "directory for the PLY meshes")
	TransformCmd.Flags().IntP("cells", "c", 32, "grid cells along each axis")
}

// RunTransform writes the meshes and returns their file names in order, ready
// to be used as MeshFiles
func RunTransform(logFile, dir string, cells int, verbose bool) (files []string, err error) {
	var (
		snaps []readfiles.Snapshot
		qm    *geometry2D.QuadMesh
	)
	if snaps, err = readfiles.ReadBoidsLog(logFile, verbose); err != nil {
		return
	}
	if len(snaps) < 2 {
		return nil, fmt.Errorf("%w: need two snapshots, have %d", readfiles.ErrBadBoidsLog, len(snaps))
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return
	}
	for i := 1; i < len(snaps); i++ {
		if qm, err = readfiles.BoidsToMesh(snaps[i-1], snaps[i], cells); err != nil {
			return
		}
		filename := filepath.Join(dir, fmt.Sprintf("boids_%04d.ply", i-1))
		if err = withOutput(filename, func(w io.Writer) error {
			return readfiles.WritePLY(w, qm)
		}); err != nil {
			return
		}
		files = append(files, filename)
	}
	if verbose {
		fmt.Printf("Wrote %d meshes of %d quads to %s\n", len(files), cells*cells, dir)
	}
	return
}
