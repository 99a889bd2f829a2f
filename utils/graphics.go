package utils

import (
	"image/color"
)

type ColorName uint8

const (
	White ColorName = iota
	Blue
	Red
	Green
	Black
	Cyan
	Magenta
)

func GetColor(name ColorName) (c color.RGBA) {
	switch name {
	case White:
		c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	case Blue:
		c = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	case Red:
		c = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	case Green:
		c = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	case Black:
		c = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	case Cyan:
		c = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	case Magenta:
		c = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	}
	return
}

// GetFloatColor returns the color as unit RGB, the form vertex colors are
// stored in
func GetFloatColor(name ColorName) (rgb [3]float32) {
	c := GetColor(name)
	return [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

// ToRGBA converts a unit RGB vertex color to an opaque 8 bit color
func ToRGBA(rgb [3]float32) color.RGBA {
	cv := func(f float32) uint8 {
		switch {
		case f <= 0:
			return 0
		case f >= 1:
			return 255
		}
		return uint8(f*255 + 0.5)
	}
	return color.RGBA{R: cv(rgb[0]), G: cv(rgb[1]), B: cv(rgb[2]), A: 255}
}

type RenderText struct {
	Color color.RGBA
	Text  string
	Pitch uint32
	X, Y  float32
}

// AddLine appends one segment to the line list drawn in col
func AddLine(x1, y1, x2, y2 float64, col color.RGBA,
	lines map[color.RGBA][]float32) {
	lines[col] = append(lines[col],
		float32(x1), float32(y1),
		float32(x2), float32(y2),
	)
}

// GetMinMax widens the running bounds by the interleaved x, y pairs in xy
func GetMinMax(xy []float32, xMin, xMax, yMin, yMax float32) (xMinO, xMaxO, yMinO, yMaxO float32) {
	xMinO, xMaxO, yMinO, yMaxO = xMin, xMax, yMin, yMax
	for i := 0; i+1 < len(xy); i += 2 {
		x, y := xy[i], xy[i+1]
		if x < xMinO {
			xMinO = x
		}
		if x > xMaxO {
			xMaxO = x
		}
		if y < yMinO {
			yMinO = y
		}
		if y > yMaxO {
			yMaxO = y
		}
	}
	return
}
