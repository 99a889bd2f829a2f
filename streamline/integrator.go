package streamline

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fieldview/field"
	"github.com/notargets/fieldview/types"
	"github.com/notargets/fieldview/utils"
)

const (
	DefaultStepSize = 0.25
	DefaultMaxSteps = 1500
)

// Field is the sampling capability the integrator needs, field.Sampler
// satisfies it
type Field interface {
	Sample(x, y float64) (r2.Vec, error)
}

// Integrator traces fixed step streamlines. A trace only reads the field, so
// one Integrator can serve many goroutines while the mesh is unchanged.
type Integrator struct {
	Field    Field
	BBox     types.BoundingBox
	StepSize float64
	MaxSteps int
}

func NewIntegrator(f Field, bb types.BoundingBox) *Integrator {
	return &Integrator{
		Field:    f,
		BBox:     bb,
		StepSize: DefaultStepSize,
		MaxSteps: DefaultMaxSteps,
	}
}

// Trace integrates forward then backward from the seed. The backward pass
// segments follow the forward ones, each pass is continuous on its own.
func (it *Integrator) Trace(seed r3.Vec) (pl types.PolyLine) {
	pl = it.pass(seed, 1, pl)
	pl = it.pass(seed, -1, pl)
	return
}

// pass ends on the first of: leaving the box, a point no quad holds, a zero
// direction, or the step budget
func (it *Integrator) pass(seed r3.Vec, sign float64, pl types.PolyLine) types.PolyLine {
	var (
		pos = seed
	)
	for i := 0; i < it.MaxSteps; i++ {
		if !it.BBox.Contains(pos.X, pos.Y) {
			break
		}
		v, err := it.Field.Sample(pos.X, pos.Y)
		if err != nil {
			break
		}
		dir, err := field.Normalize(r2.Scale(sign, v))
		if err != nil {
			break
		}
		next := r3.Vec{
			X: pos.X + dir.X*it.StepSize,
			Y: pos.Y + dir.Y*it.StepSize,
			Z: pos.Z,
		}
		if !it.BBox.Contains(next.X, next.Y) {
			break
		}
		pl = append(pl, types.NewLineSegment(pos, next))
		pos = next
	}
	return pl
}

// GatherStreamlines traces from every seedStride-th vertex, fanned out over
// nPar goroutines, zero meaning one per CPU. The result is in seed order.
func (it *Integrator) GatherStreamlines(verts []types.Vertex, seedStride, nPar int) (lines []types.PolyLine) {
	if seedStride < 1 {
		seedStride = 1
	}
	var (
		seeds = make([]r3.Vec, 0, len(verts)/seedStride+1)
	)
	for i := 0; i < len(verts); i += seedStride {
		seeds = append(seeds, verts[i].Pos)
	}
	lines = make([]types.PolyLine, len(seeds))
	if len(seeds) == 0 {
		return
	}
	utils.NewPartitionMap(nPar, len(seeds)).Run(func(_, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			lines[k] = it.Trace(seeds[k])
		}
	})
	return
}
