package InputParameters

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
)

// ViewParameters are the run parameters read from the YAML input file. Keys
// match the field names.
type ViewParameters struct {
	Title          string   `json:"Title"`
	MeshFiles      []string `json:"MeshFiles"`
	StepSize       float64  `json:"StepSize"`
	MaxSteps       int      `json:"MaxSteps"`
	SeedStride     int      `json:"SeedStride"`
	GlyphThreshold float64  `json:"GlyphThreshold"`
	GlyphLength    float64  `json:"GlyphLength"`
	NoisePatterns  int      `json:"NoisePatterns"`
	NoiseSize      int      `json:"NoiseSize"`
	NoiseSeed      int64    `json:"NoiseSeed"` // zero seeds from the clock
	AdvectionScale float64  `json:"AdvectionScale"`
	Locator        string   `json:"Locator"`
	GridCells      int      `json:"GridCells"`  // cells per side, zero picks ceil(sqrt(quads))
	HeightPeak     float64  `json:"HeightPeak"` // grayscale lift at the highest scalar
	Width          int      `json:"Width"`
	Height         int      `json:"Height"`
}

// NewViewParameters returns the defaults used for any key the input omits
func NewViewParameters() *ViewParameters {
	return &ViewParameters{
		Title:          "fieldview",
		StepSize:       0.25,
		MaxSteps:       1500,
		SeedStride:     3,
		GlyphThreshold: 1,
		GlyphLength:    1.5,
		NoisePatterns:  32,
		NoiseSize:      64,
		AdvectionScale: 4,
		Locator:        "linear",
		Width:          800,
		Height:         800,
	}
}

func (vp *ViewParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, vp); err != nil {
		return err
	}
	return vp.Validate()
}

// ReadFile parses the file over the defaults
func ReadFile(filename string) (vp *ViewParameters, err error) {
	var data []byte
	vp = NewViewParameters()
	if data, err = os.ReadFile(filename); err != nil {
		return
	}
	if err = vp.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return
}

func (vp *ViewParameters) Validate() error {
	switch {
	case vp.StepSize <= 0:
		return fmt.Errorf("StepSize must be positive, have %g", vp.StepSize)
	case vp.MaxSteps < 1:
		return fmt.Errorf("MaxSteps must be at least 1, have %d", vp.MaxSteps)
	case vp.SeedStride < 1:
		return fmt.Errorf("SeedStride must be at least 1, have %d", vp.SeedStride)
	case vp.NoisePatterns < 1 || vp.NoiseSize < 1:
		return fmt.Errorf("noise needs at least one pattern of one texel, have %d of %d",
			vp.NoisePatterns, vp.NoiseSize)
	case vp.GlyphThreshold < 0:
		return fmt.Errorf("GlyphThreshold must not be negative, have %g", vp.GlyphThreshold)
	case vp.HeightPeak < 0:
		return fmt.Errorf("HeightPeak must not be negative, have %g", vp.HeightPeak)
	case vp.AdvectionScale <= 0:
		return fmt.Errorf("AdvectionScale must be positive, have %g", vp.AdvectionScale)
	case vp.Width < 1 || vp.Height < 1:
		return fmt.Errorf("window size %dx%d is empty", vp.Width, vp.Height)
	}
	return nil
}

func (vp *ViewParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", vp.Title)
	for i, fn := range vp.MeshFiles {
		fmt.Printf("[%s]\t= MeshFiles[%d]\n", fn, i)
	}
	fmt.Printf("%8.5f\t\t= StepSize\n", vp.StepSize)
	fmt.Printf("[%d]\t\t\t= MaxSteps\n", vp.MaxSteps)
	fmt.Printf("[%d]\t\t\t\t= SeedStride\n", vp.SeedStride)
	fmt.Printf("%8.5f\t\t= GlyphThreshold\n", vp.GlyphThreshold)
	fmt.Printf("%8.5f\t\t= GlyphLength\n", vp.GlyphLength)
	fmt.Printf("[%d x %d]\t\t= Noise Patterns x Size\n", vp.NoisePatterns, vp.NoiseSize)
	fmt.Printf("[%d]\t\t\t\t= NoiseSeed\n", vp.NoiseSeed)
	fmt.Printf("%8.5f\t\t= AdvectionScale\n", vp.AdvectionScale)
	fmt.Printf("[%s]\t\t\t= Locator\n", vp.Locator)
	fmt.Printf("[%d]\t\t\t\t= GridCells\n", vp.GridCells)
	fmt.Printf("%8.5f\t\t= HeightPeak\n", vp.HeightPeak)
	fmt.Printf("[%d x %d]\t\t= Window\n", vp.Width, vp.Height)
}
