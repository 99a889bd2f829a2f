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
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/fieldview/InputParameters"
	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/readfiles"
)

var cfgFile string

var profiler interface{ Stop() }

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fieldview",
	Short: "Vector field visualization on quad meshes",
	Long: `
Reads quad meshes carrying a 2D vector field and a scalar per vertex and
visualizes the field with streamlines, glyphs and image based flow
visualization (IBFV).

fieldview trace -F vortex.ply -o lines.csv`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("profile") {
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fieldview.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print parameters and progress")
	rootCmd.PersistentFlags().Bool("profile", false, "write a CPU profile to the current directory")
	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile")); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Search config in home directory with name ".fieldview" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".fieldview")
	}
	viper.SetEnvPrefix("fieldview")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// ViewModel is what every subcommand reads from its flags
type ViewModel struct {
	MeshFile  string
	InputFile string
	Output    string
	Verbose   bool
}

const exampleInputFile = `
########################################
Title: "Vortex"
MeshFiles:
  - vortex.ply
StepSize: 0.25
MaxSteps: 1500
SeedStride: 3
Locator: grid # Can be "linear"
NoiseSeed: 0 # zero seeds from the clock
########################################
`

func readViewModel(cmd *cobra.Command) (vm *ViewModel) {
	var err error
	vm = &ViewModel{Verbose: viper.GetBool("verbose")}
	if vm.MeshFile, err = cmd.Flags().GetString("meshFile"); err != nil {
		panic(err)
	}
	if vm.InputFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
		panic(err)
	}
	if f := cmd.Flags().Lookup("output"); f != nil {
		vm.Output = f.Value.String()
	}
	return
}

// processInput reads the parameters file over the defaults and puts the mesh
// flag in front of the file's mesh list
func processInput(vm *ViewModel) (vp *InputParameters.ViewParameters, err error) {
	vp = InputParameters.NewViewParameters()
	if len(vm.InputFile) != 0 {
		if vp, err = InputParameters.ReadFile(vm.InputFile); err != nil {
			return
		}
	}
	if len(vm.MeshFile) != 0 {
		vp.MeshFiles = append([]string{vm.MeshFile}, vp.MeshFiles...)
	}
	if len(vp.MeshFiles) == 0 {
		fmt.Printf("Example File:%s\n", exampleInputFile)
		return nil, fmt.Errorf("must supply a mesh file (-F, --meshFile) in ASCII PLY format, " +
			"or an input parameters file (-I, --inputParametersFile) listing MeshFiles")
	}
	if vm.Verbose {
		vp.Print()
	}
	return
}

func loadMesh(vm *ViewModel, vp *InputParameters.ViewParameters) (*geometry2D.QuadMesh, error) {
	return readfiles.ReadPLY(vp.MeshFiles[0], vm.Verbose)
}

func addMeshFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("meshFile", "F", "", "mesh file to read in ASCII PLY format")
	cmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for view parameters like:\n\t- StepSize\n\t- SeedStride")
}

// exitOnError prints and exits the way the solver commands report bad input
func exitOnError(err error) {
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
}
