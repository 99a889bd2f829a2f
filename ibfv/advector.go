package ibfv

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/notargets/fieldview/camera"
	"github.com/notargets/fieldview/geometry2D"
)

const DefaultScale = 4.0

var (
	// ErrResizeDuringAdvection marks a frame that found the viewport size
	// changed; the frame resets the pixel buffer and carries on
	ErrResizeDuringAdvection = errors.New("viewport resized during advection")
	ErrInvalidViewport       = errors.New("invalid viewport")
	ErrNoNoise               = errors.New("no noise patterns loaded")
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// FrameGeometry is the textured mesh drawn by one frame: Advected pulls the
// previous image along the flow, Display is the image shown
type FrameGeometry struct {
	Advected []TexQuad
	Display  []TexQuad
}

// Advector animates a vector field by image based flow visualization. It
// owns the pixel buffer carried between frames and the frame counter, and
// must not be driven from more than one goroutine.
type Advector struct {
	Scale float64
	Noise NoisePatternSet

	pixels  *PixelBuffer
	frame   int
	resized bool
	last    FrameGeometry
}

func NewAdvector(noise NoisePatternSet) *Advector {
	return &Advector{
		Scale: DefaultScale,
		Noise: noise,
	}
}

// Reload installs a new noise set for a freshly loaded mesh and restarts the
// advected image from white
func (a *Advector) Reload(noise NoisePatternSet) {
	a.Noise = noise
	a.pixels = nil
}

func (a *Advector) FrameCount() int          { return a.frame }
func (a *Advector) Pixels() *PixelBuffer     { return a.pixels }
func (a *Advector) LastFrame() FrameGeometry { return a.last }

// ResizeErr returns ErrResizeDuringAdvection when the last frame found a new
// viewport size and restarted from a white buffer
func (a *Advector) ResizeErr() error {
	if a.resized {
		return ErrResizeDuringAdvection
	}
	return nil
}
func (a *Advector) MaxDisplacement(w int) float64 { return a.Scale / float64(w) }

// Frame runs one advection step and leaves the displayed image in the
// renderer's framebuffer. The steps run in a fixed order: advect the previous
// image, blend noise, read back, redraw without the flow offset.
func (a *Advector) Frame(qm *geometry2D.QuadMesh, view camera.View, r Renderer) (err error) {
	var (
		w, h = view.Width(), view.Height()
	)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, w, h)
	}
	if rw, rh := r.Size(); rw != w || rh != h {
		return fmt.Errorf("%w: renderer is %dx%d, viewport is %dx%d", ErrInvalidViewport, rw, rh, w, h)
	}
	if a.Noise.Len() == 0 {
		return ErrNoNoise
	}
	a.resized = false
	if !a.pixels.SameSize(w, h) {
		a.resized = a.pixels != nil
		a.pixels = NewPixelBuffer(w, h)
	}
	if err = a.project(qm, view); err != nil {
		return
	}
	var (
		tile = a.Noise.Tile(a.frame)
		tmax = float64(w) / (a.Scale * float64(tile.Size))
	)
	r.Clear(white)
	r.DrawTextured(a.pixels, a.last.Advected)
	r.BlendTile(tile, tmax)
	r.ReadPixels(a.pixels)
	r.Clear(white)
	r.DrawTextured(a.pixels, a.last.Display)
	a.frame++
	return
}

// project computes window positions and both sets of texture coordinates.
// The advected coordinates add the unit field direction clamped to dmax.
func (a *Advector) project(qm *geometry2D.QuadMesh, view camera.View) (err error) {
	var (
		w, h    = float64(view.Width()), float64(view.Height())
		dmax    = a.MaxDisplacement(view.Width())
		nv      = len(qm.Verts)
		win     = make([]TexVertex, nv)
		offsets = make([][2]float64, nv)
	)
	for i, v := range qm.Verts {
		wx, wy, _, ok := view.Project(v.Pos)
		if !ok {
			return fmt.Errorf("%w: vertex %d projects to infinity", ErrInvalidViewport, i)
		}
		win[i] = TexVertex{X: wx, Y: wy, U: wx / w, V: wy / h}
		dx, dy := v.Vector.X, v.Vector.Y
		if n := math.Hypot(dx, dy); n > 0 {
			dx, dy = dx/n, dy/n
		}
		if r := dx*dx + dy*dy; r > dmax*dmax {
			r = math.Sqrt(r)
			dx *= dmax / r
			dy *= dmax / r
		}
		offsets[i] = [2]float64{dx, dy}
	}
	a.last = FrameGeometry{
		Advected: make([]TexQuad, len(qm.Quads)),
		Display:  make([]TexQuad, len(qm.Quads)),
	}
	for iq, q := range qm.Quads {
		for j, iv := range q.Verts {
			tv := win[iv]
			a.last.Display[iq][j] = tv
			tv.U += offsets[iv][0]
			tv.V += offsets[iv][1]
			a.last.Advected[iq][j] = tv
		}
	}
	return
}
