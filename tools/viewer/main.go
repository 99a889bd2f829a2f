package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/notargets/fieldview/InputParameters"
	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/raster"
	"github.com/notargets/fieldview/readfiles"
	"github.com/notargets/fieldview/viewer"
)

var (
	inputFile string
	verbose   bool
)

func main() {
	inputFilePtr := flag.String("I", inputFile, "YAML file for view parameters, mesh files may follow as arguments")
	verbosePtr := flag.Bool("v", verbose, "print parameters and progress")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-I view.yaml] [mesh.ply ...]\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(),
			"Keys: 1 solid, 2 wireframe, 3 checkerboard, 4 grayscale, 5 IBFV, 6 bicolor, 7 glyphs, 8 streamlines,\n"+
				"      x next mesh, r reset view, Esc quit\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	inputFile, verbose = *inputFilePtr, *verbosePtr

	var (
		err error
		vp  = InputParameters.NewViewParameters()
	)
	if len(inputFile) != 0 {
		if vp, err = InputParameters.ReadFile(inputFile); err != nil {
			log.Fatal(err)
		}
	}
	vp.MeshFiles = append(flag.Args(), vp.MeshFiles...)
	if len(vp.MeshFiles) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if verbose {
		vp.Print()
	}
	s, err := viewer.NewSession(vp, func(filename string) (*geometry2D.QuadMesh, error) {
		return readfiles.ReadPLY(filename, verbose)
	})
	if err != nil {
		log.Fatal(err)
	}
	s.Verbose = verbose

	ebiten.SetWindowTitle(vp.Title)
	ebiten.SetWindowSize(vp.Width, vp.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	if err = ebiten.RunGame(newViewerGame(s)); err != nil {
		log.Fatal(err)
	}
}

// viewerGame adapts a session to the ebiten loop: Update handles input,
// Draw renders one frame, which advances IBFV by one step
type viewerGame struct {
	s       *viewer.Session
	cv      *raster.Canvas
	frame   *ebiten.Image
	lastErr string

	dragX, dragY int
}

func newViewerGame(s *viewer.Session) *viewerGame {
	return &viewerGame{
		s:  s,
		cv: raster.NewCanvas(s.Camera.Width, s.Camera.Height),
	}
}

func (g *viewerGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		g.key(r)
	}
	g.mouse()
	return nil
}

func (g *viewerGame) key(r rune) {
	var err error
	if m, ok := viewer.ModeForKey(r); ok {
		err = g.s.SetMode(m)
	} else {
		switch r {
		case 'x', 'X':
			err = g.s.Next()
		case 'r', 'R':
			g.s.Reset()
		}
	}
	if err != nil {
		log.Printf("error: %v\n", err)
	}
}

// mouse turns a left drag into a trackball rotation, a right drag into a pan
// and the wheel into zoom
func (g *viewerGame) mouse() {
	var (
		c      = g.s.Camera
		cx, cy = ebiten.CursorPosition()
	)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.dragX, g.dragY = cx, cy
	}
	if cx != g.dragX || cy != g.dragY {
		switch {
		case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
			x0, y0 := c.Normalized(float64(g.dragX), float64(g.dragY))
			x1, y1 := c.Normalized(float64(cx), float64(cy))
			c.Rotate(x0, y0, x1, y1)
		case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
			c.PanPixels(float64(cx-g.dragX), float64(g.dragY-cy))
		}
		g.dragX, g.dragY = cx, cy
	}
	switch _, wy := ebiten.Wheel(); {
	case wy > 0:
		c.ZoomBy(1)
	case wy < 0:
		c.ZoomBy(-1)
	}
}

func (g *viewerGame) Draw(screen *ebiten.Image) {
	if err := g.s.Render(g.cv); err != nil {
		if err.Error() != g.lastErr {
			log.Printf("error: %v\n", err)
		}
		g.lastErr = err.Error()
		return
	}
	g.lastErr = ""
	img := g.cv.Image()
	if g.frame == nil || g.frame.Bounds() != img.Bounds() {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(img.Bounds().Dx(), img.Bounds().Dy())
	}
	g.frame.WritePixels(img.Pix)
	screen.DrawImage(g.frame, nil)
}

func (g *viewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.s.Camera.Width || outsideHeight != g.s.Camera.Height {
		g.s.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
