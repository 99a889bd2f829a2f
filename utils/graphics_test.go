package utils

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColors(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, A: 255}, GetColor(Red))
	assert.Equal(t, [3]float32{0, 0, 1}, GetFloatColor(Blue))
	for _, name := range []ColorName{White, Blue, Red, Green, Black, Cyan, Magenta} {
		assert.Equal(t, GetColor(name), ToRGBA(GetFloatColor(name)))
	}
	// Out of range components clamp
	assert.Equal(t, color.RGBA{R: 0, G: 128, B: 255, A: 255}, ToRGBA([3]float32{-1, 0.5, 2}))
}

func TestLines(t *testing.T) {
	lines := make(map[color.RGBA][]float32)
	black := GetColor(Black)
	AddLine(0, 1, 2, 3, black, lines)
	AddLine(-1, 5, 4, -2, black, lines)
	assert.Equal(t, []float32{0, 1, 2, 3, -1, 5, 4, -2}, lines[black])
	xMin, xMax, yMin, yMax := GetMinMax(lines[black], 0, 0, 0, 0)
	assert.Equal(t, [4]float32{-1, 4, -2, 5}, [4]float32{xMin, xMax, yMin, yMax})
}
