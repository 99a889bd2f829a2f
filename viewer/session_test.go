package viewer

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fieldview/InputParameters"
	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/ibfv"
	"github.com/notargets/fieldview/raster"
	"github.com/notargets/fieldview/types"
)

func testParams() *InputParameters.ViewParameters {
	vp := InputParameters.NewViewParameters()
	vp.NoiseSeed = 1
	vp.NoisePatterns, vp.NoiseSize = 4, 8
	vp.Width, vp.Height = 64, 48
	vp.StepSize, vp.MaxSteps = 0.1, 50
	return vp
}

func newMesh(t *testing.T, vx, vy float64) *geometry2D.QuadMesh {
	qm, err := geometry2D.NewGridMesh(7, 7, types.BoundingBox{XMin: -3, XMax: 3, YMin: -3, YMax: 3},
		func(x, y float64) (float64, float64, float64) { return vx, vy, x + 3 })
	require.NoError(t, err)
	return qm
}

func TestModeForKey(t *testing.T) {
	m, ok := ModeForKey('1')
	assert.True(t, ok)
	assert.Equal(t, Solid, m)
	m, ok = ModeForKey('8')
	assert.True(t, ok)
	assert.Equal(t, Streamlines, m)
	m, ok = ModeForKey('4')
	assert.True(t, ok)
	assert.Equal(t, Grayscale, m)
	for _, key := range []rune{'0', '9', 'x'} {
		_, ok = ModeForKey(key)
		assert.False(t, ok, string(key))
	}
	assert.Equal(t, "ibfv", IBFV.String())
}

func TestSetModeCaches(t *testing.T) {
	s := NewMeshSession(testParams(), newMesh(t, 1, 0))
	assert.Equal(t, Solid, s.Mode())
	assert.Nil(t, s.Streamlines())

	require.NoError(t, s.SetMode(Streamlines))
	lines := s.Streamlines()
	// One seed every third vertex
	require.Len(t, lines, (49+2)/3)
	require.NoError(t, s.SetMode(Solid))
	require.NoError(t, s.SetMode(Streamlines))
	assert.Same(t, &lines[0], &s.Streamlines()[0])

	require.NoError(t, s.SetMode(Glyphs))
	// Interior of a 7x7 grid is 5x5 vertices, the scalar threshold drops the
	// first interior column
	assert.Len(t, s.Glyphs(), 20)

	err := s.SetMode(Mode(9))
	assert.True(t, errors.Is(err, ErrUnknownMode))
	assert.Equal(t, Glyphs, s.Mode())
}

func TestNextReloads(t *testing.T) {
	var loaded []string
	meshes := map[string]*geometry2D.QuadMesh{
		"a.ply": newMesh(t, 1, 0),
		"b.ply": newMesh(t, 0, 1),
	}
	vp := testParams()
	vp.MeshFiles = []string{"a.ply", "b.ply"}
	s, err := NewSession(vp, func(fn string) (*geometry2D.QuadMesh, error) {
		loaded = append(loaded, fn)
		return meshes[fn], nil
	})
	require.NoError(t, err)
	require.NoError(t, s.SetMode(Streamlines))
	first := s.Streamlines()

	require.NoError(t, s.Next())
	assert.Equal(t, 1, s.Selector())
	assert.Same(t, meshes["b.ply"], s.Mesh)
	// The active mode's overlay is rebuilt for the new field
	require.NotEmpty(t, s.Streamlines())
	assert.NotEqual(t, first[0], s.Streamlines()[0])
	assert.Nil(t, s.Glyphs())
	assert.Nil(t, s.Advector().Pixels())

	require.NoError(t, s.Next())
	assert.Equal(t, 0, s.Selector())
	assert.Equal(t, []string{"a.ply", "b.ply", "a.ply"}, loaded)
	{ // Load failures surface
		s.load = func(string) (*geometry2D.QuadMesh, error) { return nil, geometry2D.ErrEmptyMesh }
		assert.True(t, errors.Is(s.Next(), geometry2D.ErrEmptyMesh))
	}
}

func TestNewSessionErrors(t *testing.T) {
	_, err := NewSession(testParams(), nil)
	assert.Error(t, err)
	vp := testParams()
	vp.MeshFiles = []string{"bad.ply"}
	_, err = NewSession(vp, func(string) (*geometry2D.QuadMesh, error) { return nil, geometry2D.ErrEmptyMesh })
	assert.True(t, errors.Is(err, geometry2D.ErrEmptyMesh))
}

func TestRenderModes(t *testing.T) {
	s := NewMeshSession(testParams(), newMesh(t, 1, 1))
	cv := raster.NewCanvas(1, 1)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for _, m := range []Mode{Solid, Wireframe, Checkerboard, Grayscale, Bicolor, Glyphs, Streamlines} {
		require.NoError(t, s.SetMode(m))
		require.NoError(t, s.Render(cv), m.String())
		w, h := cv.Size()
		require.Equal(t, 64, w)
		require.Equal(t, 48, h)
		var painted int
		for j := 0; j < h; j++ {
			for i := 0; i < w; i++ {
				if cv.At(i, j) != white {
					painted++
				}
			}
		}
		assert.Greater(t, painted, 0, m.String())
	}
	require.NoError(t, s.SetMode(Solid))
	require.NoError(t, s.Render(cv))
	assert.Equal(t, color.RGBA{R: 255, G: 255, A: 255}, cv.At(32, 24))
}

func TestRenderIBFV(t *testing.T) {
	s := NewMeshSession(testParams(), newMesh(t, 1, 0))
	cv := raster.NewCanvas(64, 48)
	require.NoError(t, s.SetMode(IBFV))
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Render(cv))
	}
	assert.Equal(t, 3, s.Advector().FrameCount())
	assert.NoError(t, s.Advector().ResizeErr())

	s.Resize(40, 40)
	require.NoError(t, s.Render(cv))
	w, h := cv.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 40, h)
	assert.True(t, errors.Is(s.Advector().ResizeErr(), ibfv.ErrResizeDuringAdvection))

	s.Resize(0, 40)
	assert.True(t, errors.Is(s.Render(cv), ibfv.ErrInvalidViewport))
}

func TestGrayscaleMode(t *testing.T) {
	vp := testParams()
	vp.HeightPeak = 2
	s := NewMeshSession(vp, newMesh(t, 1, 0))
	require.NoError(t, s.SetMode(Grayscale))
	// Scalar x+3 runs from 0 on the left column to 6 on the right
	assert.Equal(t, [3]float32{0, 0, 0}, s.Mesh.Verts[0].Color)
	assert.Equal(t, [3]float32{1, 1, 1}, s.Mesh.Verts[6].Color)
	cv := raster.NewCanvas(64, 48)
	require.NoError(t, s.Render(cv))
	// Mid column scalar is half way up the ramp
	c := cv.At(32, 24)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.R, c.B)
	assert.InDelta(t, 128, int(c.R), 8)

	// The lift moves vertices along z only, a face-on view keeps x and y
	view := s.Camera.View(s.Mesh.Center, s.Mesh.Radius)
	flat, ok := project(s.Mesh, view, nil)
	require.True(t, ok)
	lifted, ok := project(s.Mesh, view, []float64{0, 0, 0, 0, 0, 0, 2})
	require.True(t, ok)
	assert.InDelta(t, flat[6].X, lifted[6].X, 1.e-9)
	assert.InDelta(t, flat[6].Y, lifted[6].Y, 1.e-9)
	assert.NotEqual(t, flat[6].Z, lifted[6].Z)
	assert.Equal(t, flat[0].Z, lifted[0].Z)

	require.NoError(t, s.SetMode(Glyphs))
	for _, v := range s.Mesh.Verts {
		assert.Equal(t, [3]float32{0, 0, 0}, v.Color)
	}
}
