package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/notargets/fieldview/ibfv"
)

// Canvas is a software framebuffer with window coordinates: pixel (0, 0) is
// the lower left and pixel centers sit at half integers. It implements
// ibfv.Renderer and the flat and line drawing the viewer modes need.
type Canvas struct {
	Width, Height int
	Pix           []uint8 // RGBA, row 0 at the bottom
	Depth         []float64
}

var _ ibfv.Renderer = (*Canvas)(nil)

func NewCanvas(width, height int) (cv *Canvas) {
	cv = &Canvas{}
	cv.Resize(width, height)
	return
}

func (cv *Canvas) Size() (int, int) { return cv.Width, cv.Height }

// Resize reallocates the buffers, contents are lost
func (cv *Canvas) Resize(width, height int) {
	cv.Width, cv.Height = width, height
	cv.Pix = make([]uint8, 4*width*height)
	cv.Depth = make([]float64, width*height)
	cv.Clear(color.RGBA{A: 255})
}

func (cv *Canvas) Clear(c color.RGBA) {
	for i := 0; i < len(cv.Pix); i += 4 {
		cv.Pix[i], cv.Pix[i+1], cv.Pix[i+2], cv.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	for i := range cv.Depth {
		cv.Depth[i] = math.Inf(1)
	}
}

func (cv *Canvas) At(i, j int) color.RGBA {
	ind := 4 * (j*cv.Width + i)
	return color.RGBA{R: cv.Pix[ind], G: cv.Pix[ind+1], B: cv.Pix[ind+2], A: cv.Pix[ind+3]}
}

func (cv *Canvas) set(i, j int, r, g, b float64) {
	ind := 4 * (j*cv.Width + i)
	cv.Pix[ind], cv.Pix[ind+1], cv.Pix[ind+2], cv.Pix[ind+3] = toByte(r), toByte(g), toByte(b), 255
}

// DrawTextured replaces the covered pixels with texels from tex. No depth
// test is applied.
func (cv *Canvas) DrawTextured(tex *ibfv.PixelBuffer, quads []ibfv.TexQuad) {
	for _, q := range quads {
		for _, tri := range [2][3]int{{0, 1, 2}, {0, 2, 3}} {
			a, b, c := q[tri[0]], q[tri[1]], q[tri[2]]
			cv.scan(a.X, a.Y, b.X, b.Y, c.X, c.Y, func(i, j int, w0, w1, w2 float64) {
				u := w0*a.U + w1*b.U + w2*c.U
				v := w0*a.V + w1*b.V + w2*c.V
				rgba := bilinear(tex.Pix, 3, tex.Width, tex.Height, u, v)
				cv.set(i, j, rgba[0], rgba[1], rgba[2])
			})
		}
	}
}

// BlendTile covers the whole framebuffer with the tile repeated tmax times
// across each axis, mixing by the tile alpha
func (cv *Canvas) BlendTile(tile *ibfv.NoiseTile, tmax float64) {
	for j := 0; j < cv.Height; j++ {
		v := (float64(j) + 0.5) / float64(cv.Height) * tmax
		for i := 0; i < cv.Width; i++ {
			var (
				u    = (float64(i) + 0.5) / float64(cv.Width) * tmax
				src  = bilinear(tile.Pix, 4, tile.Size, tile.Size, u, v)
				a    = src[3] / 255
				ind  = 4 * (j*cv.Width + i)
				dst  = cv.Pix[ind : ind+3]
				r, g = src[0]*a + float64(dst[0])*(1-a), src[1]*a + float64(dst[1])*(1-a)
				b    = src[2]*a + float64(dst[2])*(1-a)
			)
			cv.set(i, j, r, g, b)
		}
	}
}

func (cv *Canvas) ReadPixels(dst *ibfv.PixelBuffer) {
	for i, k := 0, 0; i < len(cv.Pix); i, k = i+4, k+3 {
		dst.Pix[k], dst.Pix[k+1], dst.Pix[k+2] = cv.Pix[i], cv.Pix[i+1], cv.Pix[i+2]
	}
}

// ColorVertex is a window space vertex with depth and color
type ColorVertex struct {
	X, Y, Z float64
	C       color.RGBA
}

// FillQuad draws a Gouraud shaded quad with a depth test, nearer fragments win
func (cv *Canvas) FillQuad(q [4]ColorVertex) {
	for _, tri := range [2][3]int{{0, 1, 2}, {0, 2, 3}} {
		cv.FillTriangle(q[tri[0]], q[tri[1]], q[tri[2]])
	}
}

func (cv *Canvas) FillTriangle(a, b, c ColorVertex) {
	cv.scan(a.X, a.Y, b.X, b.Y, c.X, c.Y, func(i, j int, w0, w1, w2 float64) {
		z := w0*a.Z + w1*b.Z + w2*c.Z
		if z > cv.Depth[j*cv.Width+i] {
			return
		}
		cv.Depth[j*cv.Width+i] = z
		cv.set(i, j,
			w0*float64(a.C.R)+w1*float64(b.C.R)+w2*float64(c.C.R),
			w0*float64(a.C.G)+w1*float64(b.C.G)+w2*float64(c.C.G),
			w0*float64(a.C.B)+w1*float64(b.C.B)+w2*float64(c.C.B))
	})
}

// DrawLine draws a segment of the given pixel width over everything already
// drawn
func (cv *Canvas) DrawLine(x0, y0, x1, y1 float64, c color.RGBA, width int) {
	var (
		dx, dy = x1 - x0, y1 - y0
		steps  = int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
		half   = (width - 1) / 2
	)
	if width < 1 {
		return
	}
	for s := 0; s <= steps; s++ {
		t := 0.
		if steps > 0 {
			t = float64(s) / float64(steps)
		}
		px, py := int(math.Floor(x0+t*dx)), int(math.Floor(y0+t*dy))
		for oj := -half; oj < width-half; oj++ {
			for oi := -half; oi < width-half; oi++ {
				i, j := px+oi, py+oj
				if i < 0 || j < 0 || i >= cv.Width || j >= cv.Height {
					continue
				}
				cv.set(i, j, float64(c.R), float64(c.G), float64(c.B))
			}
		}
	}
}

// Image returns the framebuffer with row 0 at the top, ready for encoding or
// upload to a window
func (cv *Canvas) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cv.Width, cv.Height))
	stride := 4 * cv.Width
	for j := 0; j < cv.Height; j++ {
		copy(img.Pix[(cv.Height-1-j)*img.Stride:], cv.Pix[j*stride:(j+1)*stride])
	}
	return img
}

// scan visits the pixels whose centers lie inside the triangle, passing the
// barycentric weights of the center
func (cv *Canvas) scan(ax, ay, bx, by, cx, cy float64, frag func(i, j int, w0, w1, w2 float64)) {
	area := edge(ax, ay, bx, by, cx, cy)
	if area == 0 {
		return
	}
	var (
		iMin = clampInt(int(math.Floor(math.Min(ax, math.Min(bx, cx)))), 0, cv.Width)
		iMax = clampInt(int(math.Ceil(math.Max(ax, math.Max(bx, cx)))), 0, cv.Width)
		jMin = clampInt(int(math.Floor(math.Min(ay, math.Min(by, cy)))), 0, cv.Height)
		jMax = clampInt(int(math.Ceil(math.Max(ay, math.Max(by, cy)))), 0, cv.Height)
	)
	for j := jMin; j < jMax; j++ {
		py := float64(j) + 0.5
		for i := iMin; i < iMax; i++ {
			px := float64(i) + 0.5
			w0 := edge(bx, by, cx, cy, px, py) / area
			w1 := edge(cx, cy, ax, ay, px, py) / area
			w2 := edge(ax, ay, bx, by, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			frag(i, j, w0, w1, w2)
		}
	}
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// bilinear samples an interleaved texture with repeat wrapping in both
// directions, texel centers at half integers
func bilinear(pix []uint8, nc, w, h int, u, v float64) (rgba [4]float64) {
	var (
		fx     = u*float64(w) - 0.5
		fy     = v*float64(h) - 0.5
		x0, y0 = math.Floor(fx), math.Floor(fy)
		tx, ty = fx - x0, fy - y0
		i0, j0 = wrap(int(x0), w), wrap(int(y0), h)
		i1, j1 = wrap(i0+1, w), wrap(j0+1, h)
	)
	rgba[3] = 255
	for c := 0; c < nc; c++ {
		p00 := float64(pix[nc*(j0*w+i0)+c])
		p10 := float64(pix[nc*(j0*w+i1)+c])
		p01 := float64(pix[nc*(j1*w+i0)+c])
		p11 := float64(pix[nc*(j1*w+i1)+c])
		rgba[c] = (1-ty)*((1-tx)*p00+tx*p10) + ty*((1-tx)*p01+tx*p11)
	}
	return
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func clampInt(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

func toByte(f float64) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 255:
		return 255
	}
	return uint8(f + 0.5)
}
