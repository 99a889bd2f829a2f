package glyph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fieldview/field"
	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/types"
)

func TestSampleGlyphs(t *testing.T) {
	// 5x5 grid, only the 3x3 interior block is eligible
	qm, err := geometry2D.NewGridMesh(5, 5, types.BoundingBox{XMin: 0, XMax: 4, YMin: 0, YMax: 4},
		func(x, y float64) (float64, float64, float64) { return 0, 2, 1 + x })
	require.NoError(t, err)
	s := field.NewSampler(qm, nil)
	glyphs, err := Sample(qm, s, DefaultOptions())
	require.NoError(t, err)
	// Scalar 1+x exceeds 1 for x >= 1, so all nine interior vertices qualify
	require.Equal(t, 9, len(glyphs))
	_, maxScalar := qm.ScalarBounds()
	assert.Equal(t, 5., maxScalar)
	for _, g := range glyphs {
		x := g.Start.X
		assert.True(t, x >= 1 && x <= 3)
		assert.True(t, g.Start.Y >= 1 && g.Start.Y <= 3)
		assert.Equal(t, g.Start.X, g.End.X)
		assert.Equal(t, g.Start.Z, g.End.Z)
		assert.InDelta(t, (1+x)/maxScalar*1.5, g.End.Y-g.Start.Y, 1.e-12)
	}
}

func TestSampleGlyphsThresholdAndDegenerate(t *testing.T) {
	qm, err := geometry2D.NewGridMesh(5, 5, types.BoundingBox{XMin: 0, XMax: 4, YMin: 0, YMax: 4},
		func(x, y float64) (float64, float64, float64) {
			if x == 2 {
				return 0, 0, 4
			}
			return 1, 0, x
		})
	require.NoError(t, err)
	glyphs, err := Sample(qm, field.NewSampler(qm, nil), DefaultOptions())
	require.NoError(t, err)
	// x=1 is at the threshold, x=2 has no direction, x=3 remains
	require.Equal(t, 3, len(glyphs))
	for _, g := range glyphs {
		assert.Equal(t, 3., g.Start.X)
		assert.InDelta(t, 3./4*1.5, g.Length(), 1.e-12)
	}
}

func TestSampleGlyphsUnstructured(t *testing.T) {
	qm, err := geometry2D.NewGridMesh(4, 3, types.BoundingBox{XMin: 0, XMax: 3, YMin: 0, YMax: 2}, nil)
	require.NoError(t, err)
	_, err = Sample(qm, field.NewSampler(qm, nil), DefaultOptions())
	assert.True(t, errors.Is(err, geometry2D.ErrUnstructuredMesh))
}

func TestSampleGlyphsNonPositiveScalars(t *testing.T) {
	for _, scalar := range []float64{0, -2} {
		qm, err := geometry2D.NewGridMesh(5, 5, types.BoundingBox{XMin: 0, XMax: 4, YMin: 0, YMax: 4},
			func(x, y float64) (float64, float64, float64) { return 1, 0, scalar })
		require.NoError(t, err)
		// A threshold below every scalar still yields no glyph
		glyphs, err := Sample(qm, field.NewSampler(qm, nil), Options{Threshold: -10, Length: 1.5})
		require.NoError(t, err)
		assert.Empty(t, glyphs, "scalar %g", scalar)
	}
}
