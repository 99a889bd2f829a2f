package ibfv

import (
	"errors"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fieldview/camera"
	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/types"
)

type call struct {
	op    string
	tex   *PixelBuffer
	quads []TexQuad
	tile  *NoiseTile
	tmax  float64
}

// recorder is a Renderer that logs every call and paints a fixed color on
// readback so the buffer contents can be tracked between frames
type recorder struct {
	w, h  int
	calls []call
	paint uint8
}

func (rc *recorder) Size() (int, int)   { return rc.w, rc.h }
func (rc *recorder) Clear(c color.RGBA) { rc.calls = append(rc.calls, call{op: "clear"}) }
func (rc *recorder) DrawTextured(tex *PixelBuffer, quads []TexQuad) {
	rc.calls = append(rc.calls, call{op: "draw", tex: tex, quads: quads})
}
func (rc *recorder) BlendTile(tile *NoiseTile, tmax float64) {
	rc.calls = append(rc.calls, call{op: "blend", tile: tile, tmax: tmax})
}
func (rc *recorder) ReadPixels(dst *PixelBuffer) {
	rc.calls = append(rc.calls, call{op: "read", tex: dst})
	dst.Fill(rc.paint, rc.paint, rc.paint)
}

func (rc *recorder) ops() (ops []string) {
	for _, c := range rc.calls {
		ops = append(ops, c.op)
	}
	return
}

func newFixture(t *testing.T, w, h int, fieldFn func(x, y float64) (float64, float64, float64)) (
	qm *geometry2D.QuadMesh, cam *camera.Camera, adv *Advector) {
	var err error
	qm, err = geometry2D.NewGridMesh(5, 5, types.BoundingBox{XMin: -1, XMax: 1, YMin: -1, YMax: 1}, fieldFn)
	require.NoError(t, err)
	cam = camera.New(w, h)
	ng := &NoiseGenerator{Patterns: 4, Size: 8, Rand: rand.New(rand.NewSource(1))}
	adv = NewAdvector(ng.Generate())
	return
}

func TestFrameOrder(t *testing.T) {
	qm, cam, adv := newFixture(t, 64, 48, func(x, y float64) (float64, float64, float64) { return 1, 0, 0 })
	rc := &recorder{w: 64, h: 48, paint: 10}
	view := cam.View(qm.Center, qm.Radius)
	for frame := 0; frame < 6; frame++ {
		rc.calls = nil
		require.NoError(t, adv.Frame(qm, view, rc))
		assert.Equal(t, []string{"clear", "draw", "blend", "read", "clear", "draw"}, rc.ops())
		// The advected draw, the readback and the display draw share one buffer
		assert.Same(t, adv.Pixels(), rc.calls[1].tex)
		assert.Same(t, adv.Pixels(), rc.calls[3].tex)
		assert.Same(t, adv.Pixels(), rc.calls[5].tex)
		assert.Same(t, adv.Noise.Tile(frame), rc.calls[2].tile)
		assert.InDelta(t, 64./(DefaultScale*8), rc.calls[2].tmax, 1.e-12)
		assert.Equal(t, frame+1, adv.FrameCount())
		assert.NoError(t, adv.ResizeErr())
	}
	// The buffer keeps what the last readback wrote
	r, g, b := adv.Pixels().RGB(3, 3)
	assert.Equal(t, [3]uint8{10, 10, 10}, [3]uint8{r, g, b})
}

func TestFrameOffsets(t *testing.T) {
	w, h := 80, 80
	qm, cam, adv := newFixture(t, w, h, func(x, y float64) (float64, float64, float64) { return 3, 4, 0 })
	rc := &recorder{w: w, h: h}
	require.NoError(t, adv.Frame(qm, cam.View(qm.Center, qm.Radius), rc))
	fg := adv.LastFrame()
	require.Len(t, fg.Display, len(qm.Quads))
	dmax := adv.MaxDisplacement(w)
	for iq := range fg.Display {
		for j := 0; j < 4; j++ {
			d, a := fg.Display[iq][j], fg.Advected[iq][j]
			assert.Equal(t, d.X, a.X)
			assert.Equal(t, d.Y, a.Y)
			assert.InDelta(t, d.X/float64(w), d.U, 1.e-12)
			assert.InDelta(t, d.Y/float64(h), d.V, 1.e-12)
			// Direction (0.6, 0.8) clamped to dmax
			assert.InDelta(t, 0.6*dmax, a.U-d.U, 1.e-12)
			assert.InDelta(t, 0.8*dmax, a.V-d.V, 1.e-12)
			assert.LessOrEqual(t, math.Hypot(a.U-d.U, a.V-d.V), dmax+1.e-12)
		}
	}
}

func TestFrameZeroField(t *testing.T) {
	qm, cam, adv := newFixture(t, 32, 32, nil)
	rc := &recorder{w: 32, h: 32, paint: 255}
	view := cam.View(qm.Center, qm.Radius)
	for i := 0; i < 3; i++ {
		require.NoError(t, adv.Frame(qm, view, rc))
		fg := adv.LastFrame()
		assert.Equal(t, fg.Display, fg.Advected)
	}
}

func TestFrameResize(t *testing.T) {
	qm, cam, adv := newFixture(t, 32, 32, nil)
	rc := &recorder{w: 32, h: 32, paint: 0}
	require.NoError(t, adv.Frame(qm, cam.View(qm.Center, qm.Radius), rc))
	r, _, _ := adv.Pixels().RGB(0, 0)
	assert.Equal(t, uint8(0), r)
	old := adv.Pixels()

	cam.Resize(40, 20)
	rc.w, rc.h = 40, 20
	rc.calls = nil
	rc.paint = 50
	require.NoError(t, adv.Frame(qm, cam.View(qm.Center, qm.Radius), rc))
	assert.True(t, errors.Is(adv.ResizeErr(), ErrResizeDuringAdvection))
	assert.NotSame(t, old, adv.Pixels())
	assert.Equal(t, 40, adv.Pixels().Width)
	assert.Equal(t, 20, adv.Pixels().Height)
	require.NoError(t, adv.Frame(qm, cam.View(qm.Center, qm.Radius), rc))
	assert.NoError(t, adv.ResizeErr())
}

func TestFrameReloadToWhite(t *testing.T) {
	qm, cam, adv := newFixture(t, 16, 16, nil)
	view := cam.View(qm.Center, qm.Radius)
	rc := &recorder{w: 16, h: 16}
	require.NoError(t, adv.Frame(qm, view, rc))
	require.NoError(t, adv.Frame(qm, view, rc))
	r, _, _ := adv.Pixels().RGB(5, 5)
	assert.Equal(t, uint8(0), r)

	adv.Reload(adv.Noise)
	assert.Nil(t, adv.Pixels())
	// The first draw after a reload sees a white buffer
	wc := &whiteCheck{recorder: rc, t: t}
	require.NoError(t, adv.Frame(qm, view, wc))
	assert.True(t, wc.checked)
	assert.NoError(t, adv.ResizeErr())
}

type whiteCheck struct {
	*recorder
	t       *testing.T
	checked bool
}

func (wc *whiteCheck) DrawTextured(tex *PixelBuffer, quads []TexQuad) {
	if !wc.checked {
		for i := range tex.Pix {
			require.Equal(wc.t, uint8(255), tex.Pix[i])
		}
		wc.checked = true
	}
	wc.recorder.DrawTextured(tex, quads)
}

func TestFrameErrors(t *testing.T) {
	qm, cam, adv := newFixture(t, 32, 32, nil)
	view := cam.View(qm.Center, qm.Radius)
	{ // Renderer and viewport disagree
		err := adv.Frame(qm, view, &recorder{w: 31, h: 32})
		assert.True(t, errors.Is(err, ErrInvalidViewport))
	}
	{ // Empty viewport
		cam.Resize(0, 32)
		err := adv.Frame(qm, cam.View(qm.Center, qm.Radius), &recorder{w: 0, h: 32})
		assert.True(t, errors.Is(err, ErrInvalidViewport))
		cam.Resize(32, 32)
	}
	{ // No noise loaded
		adv.Reload(NoisePatternSet{})
		err := adv.Frame(qm, view, &recorder{w: 32, h: 32})
		assert.True(t, errors.Is(err, ErrNoNoise))
	}
	assert.Equal(t, 0, adv.FrameCount())
}
