package glyph

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fieldview/field"
	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/types"
)

type Options struct {
	Threshold float64 // vertices at or below this scalar get no glyph
	Length    float64 // glyph length at the maximum scalar
}

func DefaultOptions() Options {
	return Options{Threshold: 1, Length: 1.5}
}

// Sample emits one glyph per qualifying interior vertex of a structured
// row-major grid. Glyph length is proportional to the vertex scalar relative
// to the mesh maximum, glyph direction is the unit field direction.
func Sample(qm *geometry2D.QuadMesh, s *field.Sampler, opts Options) (glyphs []types.LineSegment, err error) {
	var (
		rowLen    int
		nv        = len(qm.Verts)
		maxScalar float64
	)
	if rowLen, err = qm.RowLength(); err != nil {
		return
	}
	_, maxScalar = qm.ScalarBounds()
	if maxScalar <= 0 {
		// Lengths scale by scalar/maxScalar, no vertex can carry a glyph
		return
	}
	// Skip the outer ring of rows and columns
	for i := rowLen + 1; i < nv-rowLen-1; i++ {
		if i%rowLen == 0 || (i+1)%rowLen == 0 {
			continue
		}
		v := qm.Verts[i]
		if v.Scalar <= opts.Threshold {
			continue
		}
		dir, dErr := s.Direction(v.Pos.X, v.Pos.Y)
		if dErr != nil {
			// A vanishing field has no direction to draw
			continue
		}
		length := (v.Scalar / maxScalar) * opts.Length
		end := r3.Vec{
			X: v.Pos.X + dir.X*length,
			Y: v.Pos.Y + dir.Y*length,
			Z: v.Pos.Z,
		}
		glyphs = append(glyphs, types.NewLineSegment(v.Pos, end))
	}
	return
}
