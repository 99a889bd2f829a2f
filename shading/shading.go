// Package shading assigns vertex colors and heights from the mesh scalar
// field for the flat display modes.
package shading

import (
	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/utils"
)

// CheckerCells is the number of checkerboard cells across the mesh diameter
const CheckerCells = 30

// Ramp maps a scalar onto [0, 1] between the mesh scalar bounds
type Ramp struct {
	Lower, Upper float64
}

func NewRamp(qm *geometry2D.QuadMesh) Ramp {
	lower, upper := qm.ScalarBounds()
	return Ramp{Lower: lower, Upper: upper}
}

// T is 0 at Lower and 1 at Upper. A flat field maps to 0.
func (r Ramp) T(s float64) float64 {
	if r.Upper == r.Lower {
		return 0
	}
	return (s - r.Lower) / (r.Upper - r.Lower)
}

// Checkerboard colors each vertex by the parity of its x and y cell, cells
// are 2*radius/CheckerCells wide. Red is set on even x cells, green on even
// y cells.
func Checkerboard(qm *geometry2D.QuadMesh) {
	L := qm.Radius * 2 / CheckerCells
	if L == 0 {
		L = 1
	}
	parity := func(f float64) float32 {
		if int(f/L)%2 == 0 {
			return 1
		}
		return 0
	}
	for i := range qm.Verts {
		v := &qm.Verts[i]
		v.Color = [3]float32{parity(v.Pos.X), parity(v.Pos.Y), 0}
	}
}

// Bicolor blends each vertex color from lower to upper along the scalar ramp
func Bicolor(qm *geometry2D.QuadMesh, lower, upper [3]float32) {
	r := NewRamp(qm)
	for i := range qm.Verts {
		v := &qm.Verts[i]
		t := float32(r.T(v.Scalar))
		for c := 0; c < 3; c++ {
			v.Color[c] = lower[c]*(1-t) + upper[c]*t
		}
	}
}

func Grayscale(qm *geometry2D.QuadMesh) {
	Bicolor(qm, utils.GetFloatColor(utils.Black), utils.GetFloatColor(utils.White))
}

// HeightMod returns a display height per vertex rising from 0 at the lowest
// scalar to peak at the highest. Vertex positions are not changed.
func HeightMod(qm *geometry2D.QuadMesh, peak float64) (heights []float64) {
	r := NewRamp(qm)
	heights = make([]float64, len(qm.Verts))
	for i, v := range qm.Verts {
		heights[i] = peak * r.T(v.Scalar)
	}
	return
}

// Fill sets every vertex to one color
func Fill(qm *geometry2D.QuadMesh, rgb [3]float32) {
	for i := range qm.Verts {
		qm.Verts[i].Color = rgb
	}
}
