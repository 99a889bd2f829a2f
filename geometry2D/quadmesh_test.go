package geometry2D

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fieldview/types"
)

func unitBox() types.BoundingBox {
	return types.BoundingBox{XMin: 0, XMax: 3, YMin: 0, YMax: 3}
}

func TestNewGridMesh(t *testing.T) {
	qm, err := NewGridMesh(4, 4, unitBox(), func(x, y float64) (float64, float64, float64) {
		return 1, 0, x + y
	})
	require.NoError(t, err)
	assert.Equal(t, 16, len(qm.Verts))
	assert.Equal(t, 9, len(qm.Quads))
	assert.Equal(t, unitBox(), qm.BBox)
	assert.InDelta(t, 1.5, qm.Center.X, 1.e-12)
	assert.InDelta(t, 1.5, qm.Center.Y, 1.e-12)
	for _, q := range qm.Quads {
		assert.Equal(t, 0, q.MinCorner)
	}
	{ // Corners touch one quad, edges two, interior four
		assert.Equal(t, 1, qm.Valence[0])
		assert.Equal(t, 2, qm.Valence[1])
		assert.Equal(t, 4, qm.Valence[5])
		assert.Equal(t, 1, qm.Valence[15])
	}
	rowLen, err := qm.RowLength()
	require.NoError(t, err)
	assert.Equal(t, 4, rowLen)
	lower, upper := qm.ScalarBounds()
	assert.Equal(t, 0., lower)
	assert.Equal(t, 6., upper)
}

func TestValidateRotatedWinding(t *testing.T) {
	// Corner order of the original datasets: top-right, top-left, bottom-left, bottom-right
	verts := []types.Vertex{
		{Pos: r3.Vec{X: 1, Y: 1}},
		{Pos: r3.Vec{X: 0, Y: 1}},
		{Pos: r3.Vec{X: 0, Y: 0}},
		{Pos: r3.Vec{X: 1, Y: 0}},
	}
	qm, err := NewQuadMesh(verts, []types.Quad{{Verts: [4]int{0, 1, 2, 3}}})
	require.NoError(t, err)
	assert.Equal(t, 2, qm.Quads[0].MinCorner)
	x1, y1, x2, y2 := qm.Bounds(0)
	assert.Equal(t, [4]float64{0, 0, 1, 1}, [4]float64{x1, y1, x2, y2})
}

func TestValidateRejects(t *testing.T) {
	square := func() []types.Vertex {
		return []types.Vertex{
			{Pos: r3.Vec{X: 0, Y: 0}},
			{Pos: r3.Vec{X: 1, Y: 0}},
			{Pos: r3.Vec{X: 1, Y: 1}},
			{Pos: r3.Vec{X: 0, Y: 1}},
		}
	}
	{ // Clockwise winding
		_, err := NewQuadMesh(square(), []types.Quad{{Verts: [4]int{0, 3, 2, 1}}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNonRectangularQuad))
		var qe *QuadError
		require.True(t, errors.As(err, &qe))
		assert.Equal(t, 0, qe.Quad)
	}
	{ // Skewed
		verts := square()
		verts[2].Pos.X = 1.5
		_, err := NewQuadMesh(verts, []types.Quad{{Verts: [4]int{0, 1, 2, 3}}})
		assert.True(t, errors.Is(err, ErrNonRectangularQuad))
	}
	{ // Collapsed
		verts := square()
		verts[2].Pos.Y, verts[3].Pos.Y = 0, 0
		_, err := NewQuadMesh(verts, []types.Quad{{Verts: [4]int{0, 1, 2, 3}}})
		assert.True(t, errors.Is(err, ErrNonRectangularQuad))
	}
	{ // Bad index
		_, err := NewQuadMesh(square(), []types.Quad{{Verts: [4]int{0, 1, 2, 7}}})
		assert.True(t, errors.Is(err, ErrNonRectangularQuad))
	}
	{
		_, err := NewQuadMesh(square(), nil)
		assert.Equal(t, ErrEmptyMesh, err)
	}
}

func TestRowLengthUnstructured(t *testing.T) {
	qm, err := NewGridMesh(3, 2, unitBox(), nil)
	require.NoError(t, err)
	_, err = qm.RowLength()
	assert.True(t, errors.Is(err, ErrUnstructuredMesh))
}

func TestEdges(t *testing.T) {
	qm, err := NewGridMesh(4, 4, unitBox(), nil)
	require.NoError(t, err)
	edges := qm.Edges()
	// Four rows of three horizontal edges and the same count vertically
	assert.Len(t, edges, 24)
	assert.Equal(t, [2]int{0, 1}, edges[0].GetVertices(false))
	seen := make(map[types.EdgeKey]bool)
	for _, ek := range edges {
		assert.False(t, seen[ek])
		seen[ek] = true
		iv := ek.GetVertices(false)
		// Edges are axis aligned and one cell long
		a, b := qm.Verts[iv[0]].Pos, qm.Verts[iv[1]].Pos
		assert.InDelta(t, 1, math.Abs(a.X-b.X)+math.Abs(a.Y-b.Y), 1.e-12)
	}
}
