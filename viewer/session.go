// Package viewer holds the interactive state shared by the window front ends:
// the loaded mesh, the display mode, cached overlays and the advector.
package viewer

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/notargets/fieldview/InputParameters"
	"github.com/notargets/fieldview/camera"
	"github.com/notargets/fieldview/field"
	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/glyph"
	"github.com/notargets/fieldview/ibfv"
	"github.com/notargets/fieldview/raster"
	"github.com/notargets/fieldview/shading"
	"github.com/notargets/fieldview/streamline"
	"github.com/notargets/fieldview/types"
	"github.com/notargets/fieldview/utils"
)

type Mode uint8

const (
	Solid        Mode = 1
	Wireframe    Mode = 2
	Checkerboard Mode = 3
	Grayscale    Mode = 4
	IBFV         Mode = 5
	Bicolor      Mode = 6
	Glyphs       Mode = 7
	Streamlines  Mode = 8
)

var ErrUnknownMode = errors.New("unknown display mode")

func (m Mode) String() string {
	switch m {
	case Solid:
		return "solid"
	case Wireframe:
		return "wireframe"
	case Checkerboard:
		return "checkerboard"
	case Grayscale:
		return "grayscale"
	case IBFV:
		return "ibfv"
	case Bicolor:
		return "bicolor"
	case Glyphs:
		return "glyphs"
	case Streamlines:
		return "streamlines"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

func (m Mode) Valid() bool {
	switch m {
	case Solid, Wireframe, Checkerboard, Grayscale, IBFV, Bicolor, Glyphs, Streamlines:
		return true
	}
	return false
}

// ModeForKey maps the number keys onto display modes
func ModeForKey(key rune) (m Mode, ok bool) {
	if key < '0' || key > '9' {
		return 0, false
	}
	m = Mode(key - '0')
	return m, m.Valid()
}

// Loader reads one mesh file
type Loader func(filename string) (*geometry2D.QuadMesh, error)

// Session is driven from a single goroutine, the frame loop of its window
type Session struct {
	Params  *InputParameters.ViewParameters
	Camera  *camera.Camera
	Mesh    *geometry2D.QuadMesh
	Sampler *field.Sampler
	Verbose bool

	load        Loader
	selector    int
	mode        Mode
	noise       *ibfv.NoiseGenerator
	advector    *ibfv.Advector
	streamlines []types.PolyLine
	glyphs      []types.LineSegment
	haveLines   bool
	haveGlyphs  bool
}

// NewSession loads the first of the parameter mesh files and starts in the
// solid mode
func NewSession(vp *InputParameters.ViewParameters, load Loader) (s *Session, err error) {
	if len(vp.MeshFiles) == 0 {
		return nil, fmt.Errorf("no mesh files to view")
	}
	var qm *geometry2D.QuadMesh
	if qm, err = load(vp.MeshFiles[0]); err != nil {
		return
	}
	s = newSession(vp, qm)
	s.load = load
	return
}

// NewMeshSession views a single mesh already in memory, Next reloads it
func NewMeshSession(vp *InputParameters.ViewParameters, qm *geometry2D.QuadMesh) *Session {
	return newSession(vp, qm)
}

func newSession(vp *InputParameters.ViewParameters, qm *geometry2D.QuadMesh) (s *Session) {
	seed := vp.NoiseSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s = &Session{
		Params: vp,
		Camera: camera.New(vp.Width, vp.Height),
		mode:   Solid,
		noise: &ibfv.NoiseGenerator{
			Patterns: vp.NoisePatterns,
			Size:     vp.NoiseSize,
			Rand:     rand.New(rand.NewSource(seed)),
		},
	}
	s.advector = ibfv.NewAdvector(ibfv.NoisePatternSet{})
	s.advector.Scale = vp.AdvectionScale
	s.install(qm)
	return
}

// install makes qm current: new sampler, fresh noise, advection restarted
// from white and the overlay caches dropped
func (s *Session) install(qm *geometry2D.QuadMesh) {
	s.Mesh = qm
	s.Sampler = field.NewSampler(qm,
		field.NewLocator(field.NewLocatorType(s.Params.Locator), qm, s.Params.GridCells))
	s.advector.Reload(s.noise.Generate())
	s.streamlines, s.glyphs = nil, nil
	s.haveLines, s.haveGlyphs = false, false
	s.shade()
}

// shade writes the vertex colors of the color mapped modes
func (s *Session) shade() {
	switch s.mode {
	case Checkerboard:
		shading.Checkerboard(s.Mesh)
	case Grayscale:
		shading.Grayscale(s.Mesh)
	case Bicolor:
		shading.Bicolor(s.Mesh, utils.GetFloatColor(utils.Red), utils.GetFloatColor(utils.Blue))
	case Glyphs, Streamlines:
		shading.Fill(s.Mesh, utils.GetFloatColor(utils.Black))
	}
}

func (s *Session) Mode() Mode               { return s.mode }
func (s *Session) Advector() *ibfv.Advector { return s.advector }
func (s *Session) Selector() int            { return s.selector }

// SetMode switches the display mode, building the overlay the mode needs if
// it is not cached
func (s *Session) SetMode(m Mode) (err error) {
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMode, m)
	}
	s.mode = m
	s.shade()
	switch m {
	case Glyphs:
		if !s.haveGlyphs {
			err = s.gatherGlyphs()
		}
	case Streamlines:
		if !s.haveLines {
			s.gatherStreamlines()
		}
	}
	return
}

// Next loads the next mesh file in the list, wrapping around, and rebuilds
// the overlay of the active mode
func (s *Session) Next() (err error) {
	var (
		qm    = s.Mesh
		files = s.Params.MeshFiles
	)
	if s.load != nil && len(files) > 0 {
		s.selector = (s.selector + 1) % len(files)
		if qm, err = s.load(files[s.selector]); err != nil {
			return
		}
	}
	s.install(qm)
	switch s.mode {
	case Glyphs:
		err = s.gatherGlyphs()
	case Streamlines:
		s.gatherStreamlines()
	}
	if s.load != nil && len(files) > 0 {
		log.Printf("Loaded set %d (%s).\n", s.selector, files[s.selector])
		if s.Verbose {
			fmt.Println(utils.ReadMemUsage())
		}
	}
	return
}

// Reset restores the camera to the initial view
func (s *Session) Reset() { s.Camera.Reset() }

func (s *Session) Resize(width, height int) { s.Camera.Resize(width, height) }

func (s *Session) Streamlines() []types.PolyLine { return s.streamlines }
func (s *Session) Glyphs() []types.LineSegment   { return s.glyphs }

func (s *Session) gatherStreamlines() {
	var (
		start = time.Now()
		it    = streamline.NewIntegrator(s.Sampler, s.Mesh.BBox)
	)
	it.StepSize, it.MaxSteps = s.Params.StepSize, s.Params.MaxSteps
	s.streamlines = it.GatherStreamlines(s.Mesh.Verts, s.Params.SeedStride, 0)
	s.haveLines = true
	if s.Verbose {
		fmt.Printf("Traced %d streamlines in %v\n", len(s.streamlines), time.Since(start))
	}
}

func (s *Session) gatherGlyphs() (err error) {
	opts := glyph.Options{Threshold: s.Params.GlyphThreshold, Length: s.Params.GlyphLength}
	if s.glyphs, err = glyph.Sample(s.Mesh, s.Sampler, opts); err != nil {
		// Glyphs stay empty on an unstructured mesh, the mode still shows it
		log.Printf("glyphs: %v\n", err)
		err = nil
	}
	s.haveGlyphs = true
	return
}

// Render draws the active mode into cv, resizing cv to the camera viewport
func (s *Session) Render(cv *raster.Canvas) (err error) {
	if w, h := cv.Size(); w != s.Camera.Width || h != s.Camera.Height {
		cv.Resize(s.Camera.Width, s.Camera.Height)
	}
	if s.Camera.Width < 1 || s.Camera.Height < 1 {
		return fmt.Errorf("%w: %dx%d", ibfv.ErrInvalidViewport, s.Camera.Width, s.Camera.Height)
	}
	view := s.Camera.View(s.Mesh.Center, s.Mesh.Radius)
	if s.mode == IBFV {
		if err = s.advector.Frame(s.Mesh, view, cv); err != nil {
			return
		}
		if rErr := s.advector.ResizeErr(); rErr != nil && s.Verbose {
			fmt.Printf("%v, restarting from white\n", rErr)
		}
		return
	}
	cv.Clear(utils.GetColor(utils.White))
	var lift []float64
	if s.mode == Grayscale {
		lift = shading.HeightMod(s.Mesh, s.Params.HeightPeak)
	}
	win, ok := project(s.Mesh, view, lift)
	if !ok {
		return fmt.Errorf("%w: mesh projects to infinity", ibfv.ErrInvalidViewport)
	}
	var (
		black       = utils.GetColor(utils.Black)
		vertexColor = func(iv int) color.RGBA { return utils.ToRGBA(s.Mesh.Verts[iv].Color) }
	)
	switch s.mode {
	case Solid:
		// Lambert term of the +z face normal against the view direction
		lum := math.Max(0.2, math.Abs(s.Camera.Rotation.At(2, 2)))
		fillMesh(cv, s.Mesh, win, func(int) color.RGBA {
			return utils.ToRGBA([3]float32{float32(lum), float32(lum), 0})
		})
	case Wireframe:
		drawEdges(cv, s.Mesh, win, black)
	case Checkerboard, Grayscale, Bicolor:
		fillMesh(cv, s.Mesh, win, vertexColor)
	case Glyphs:
		fillMesh(cv, s.Mesh, win, vertexColor)
		for _, g := range s.glyphs {
			drawSegment(cv, view, g, utils.GetColor(utils.White))
		}
	case Streamlines:
		fillMesh(cv, s.Mesh, win, vertexColor)
		for _, pl := range s.streamlines {
			for _, ls := range pl {
				drawSegment(cv, view, ls, utils.GetColor(utils.White))
			}
		}
	}
	return
}

// project maps the vertices to window coordinates, lift raises each vertex
// along z when it is not nil
func project(qm *geometry2D.QuadMesh, view camera.View, lift []float64) (win []raster.ColorVertex, ok bool) {
	win = make([]raster.ColorVertex, len(qm.Verts))
	for i, v := range qm.Verts {
		p := v.Pos
		if lift != nil {
			p.Z += lift[i]
		}
		if win[i].X, win[i].Y, win[i].Z, ok = view.Project(p); !ok {
			return
		}
	}
	return win, true
}

func fillMesh(cv *raster.Canvas, qm *geometry2D.QuadMesh, win []raster.ColorVertex,
	colorOf func(iv int) color.RGBA) {
	for _, q := range qm.Quads {
		var cq [4]raster.ColorVertex
		for j, iv := range q.Verts {
			cq[j] = win[iv]
			cq[j].C = colorOf(iv)
		}
		cv.FillQuad(cq)
	}
}

func drawEdges(cv *raster.Canvas, qm *geometry2D.QuadMesh, win []raster.ColorVertex, c color.RGBA) {
	for _, ek := range qm.Edges() {
		iv := ek.GetVertices(false)
		a, b := win[iv[0]], win[iv[1]]
		cv.DrawLine(a.X, a.Y, b.X, b.Y, c, 1)
	}
}

func drawSegment(cv *raster.Canvas, view camera.View, ls types.LineSegment, c color.RGBA) {
	x0, y0, _, ok0 := view.Project(ls.Start)
	x1, y1, _, ok1 := view.Project(ls.End)
	if ok0 && ok1 {
		cv.DrawLine(x0, y0, x1, y1, c, 1)
	}
}
