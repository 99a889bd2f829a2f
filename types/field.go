package types

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vertex carries the position and the field data sampled at a mesh node.
// Position, Vector and Scalar are fixed after load, Color is written by the
// shading modes.
type Vertex struct {
	Pos    r3.Vec
	Vector r2.Vec
	Scalar float64
	Color  [3]float32
}

// Quad holds the four vertex indices of a rectangular cell in rotational
// order. MinCorner is the local index of the vertex at the rectangle's
// minimum (x,y) corner, filled in by the mesh validation.
type Quad struct {
	Verts     [4]int
	MinCorner int
}

// Corner returns the vertex index at local offset i from the minimum corner,
// i=0 min corner, 1 (xmax,ymin), 2 max corner, 3 (xmin,ymax)
func (q Quad) Corner(i int) int {
	return q.Verts[(q.MinCorner+i)%4]
}

type BoundingBox struct {
	XMin, XMax float64
	YMin, YMax float64
}

func NewBoundingBox(verts []Vertex) (bb BoundingBox) {
	for i, v := range verts {
		if i == 0 {
			bb = BoundingBox{XMin: v.Pos.X, XMax: v.Pos.X, YMin: v.Pos.Y, YMax: v.Pos.Y}
			continue
		}
		if v.Pos.X < bb.XMin {
			bb.XMin = v.Pos.X
		}
		if v.Pos.X > bb.XMax {
			bb.XMax = v.Pos.X
		}
		if v.Pos.Y < bb.YMin {
			bb.YMin = v.Pos.Y
		}
		if v.Pos.Y > bb.YMax {
			bb.YMax = v.Pos.Y
		}
	}
	return
}

// Contains is inclusive on all four sides
func (bb BoundingBox) Contains(x, y float64) bool {
	return x >= bb.XMin && x <= bb.XMax && y >= bb.YMin && y <= bb.YMax
}

func (bb BoundingBox) Width() float64  { return bb.XMax - bb.XMin }
func (bb BoundingBox) Height() float64 { return bb.YMax - bb.YMin }

func (bb BoundingBox) String() string {
	return fmt.Sprintf("[%8.5f, %8.5f] x [%8.5f, %8.5f]", bb.XMin, bb.XMax, bb.YMin, bb.YMax)
}

type LineSegment struct {
	Start, End r3.Vec
}

func NewLineSegment(start, end r3.Vec) LineSegment {
	return LineSegment{Start: start, End: end}
}

func (ls LineSegment) Length() float64 {
	return r3.Norm(r3.Sub(ls.End, ls.Start))
}

// PolyLine is the output of one streamline trace, forward segments first
type PolyLine []LineSegment

// Flatten packs the segments as x1,y1,x2,y2 pairs, the layout the chart line
// series expect
func (pl PolyLine) Flatten() (xy []float32) {
	xy = make([]float32, 0, 4*len(pl))
	for _, ls := range pl {
		xy = append(xy,
			float32(ls.Start.X), float32(ls.Start.Y),
			float32(ls.End.X), float32(ls.End.Y))
	}
	return
}
