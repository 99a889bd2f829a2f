package field

import (
	"fmt"
	"math"

	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/types"
)

// PointLocatable finds the quad containing a point. Implementations must
// return the lowest index quad whose closed rectangle contains the point, so
// a point on a shared edge resolves the same way for every implementation.
type PointLocatable interface {
	Locate(x, y float64) (quad int, found bool)
}

type LocatorType uint8

const (
	LinearScan LocatorType = iota
	UniformGrid
)

func NewLocatorType(label string) LocatorType {
	switch label {
	case "grid", "Grid", "uniform":
		return UniformGrid
	default:
		return LinearScan
	}
}

func (lt LocatorType) String() string {
	switch lt {
	case LinearScan:
		return "linear"
	case UniformGrid:
		return "grid"
	}
	return fmt.Sprintf("locator(%d)", uint8(lt))
}

func NewLocator(lt LocatorType, qm *geometry2D.QuadMesh, cells int) PointLocatable {
	if lt == UniformGrid {
		return NewGridLocator(qm, cells)
	}
	return NewLinearLocator(qm)
}

// LinearLocator scans every quad in order, O(Q) per query
type LinearLocator struct {
	bounds [][4]float64
}

func NewLinearLocator(qm *geometry2D.QuadMesh) *LinearLocator {
	ll := &LinearLocator{bounds: make([][4]float64, len(qm.Quads))}
	for iq := range qm.Quads {
		x1, y1, x2, y2 := qm.Bounds(iq)
		ll.bounds[iq] = [4]float64{x1, y1, x2, y2}
	}
	return ll
}

func (ll *LinearLocator) Locate(x, y float64) (quad int, found bool) {
	for iq, b := range ll.bounds {
		if inside(b, x, y) {
			return iq, true
		}
	}
	return -1, false
}

func inside(b [4]float64, x, y float64) bool {
	return x >= b[0] && x <= b[2] && y >= b[1] && y <= b[3]
}

// GridLocator buckets quads into a uniform grid over the mesh bounding box.
// A quad is registered in every cell its closed rectangle overlaps and each
// bucket keeps ascending quad order, which preserves the linear scan result.
type GridLocator struct {
	bounds   [][4]float64
	bb       types.BoundingBox
	nx, ny   int
	dx, dy   float64
	buckets  [][]int32
	MaxDepth int // largest bucket
}

// NewGridLocator builds a cells by cells index. A non-positive cell count
// picks sqrt(Q) cells per side.
func NewGridLocator(qm *geometry2D.QuadMesh, cells int) *GridLocator {
	if cells <= 0 {
		cells = int(math.Ceil(math.Sqrt(float64(len(qm.Quads)))))
	}
	gl := &GridLocator{
		bounds: NewLinearLocator(qm).bounds,
		bb:     qm.BBox,
		nx:     cells,
		ny:     cells,
	}
	gl.dx = gl.bb.Width() / float64(gl.nx)
	gl.dy = gl.bb.Height() / float64(gl.ny)
	gl.buckets = make([][]int32, gl.nx*gl.ny)
	for iq, b := range gl.bounds {
		i1, j1 := gl.cell(b[0], b[1])
		i2, j2 := gl.cell(b[2], b[3])
		for j := j1; j <= j2; j++ {
			for i := i1; i <= i2; i++ {
				ind := j*gl.nx + i
				gl.buckets[ind] = append(gl.buckets[ind], int32(iq))
				if len(gl.buckets[ind]) > gl.MaxDepth {
					gl.MaxDepth = len(gl.buckets[ind])
				}
			}
		}
	}
	return gl
}

// cell clamps to the grid, callers check the bounding box first
func (gl *GridLocator) cell(x, y float64) (i, j int) {
	i = int((x - gl.bb.XMin) / gl.dx)
	j = int((y - gl.bb.YMin) / gl.dy)
	i = max(0, min(i, gl.nx-1))
	j = max(0, min(j, gl.ny-1))
	return
}

func (gl *GridLocator) Locate(x, y float64) (quad int, found bool) {
	if !gl.bb.Contains(x, y) {
		return -1, false
	}
	// cell() is monotone in x and y, so every quad whose closed rectangle
	// holds the point is registered in the point's own cell
	i, j := gl.cell(x, y)
	quad = math.MaxInt
	gl.search(i, j, x, y, &quad)
	if quad == math.MaxInt {
		return -1, false
	}
	return quad, true
}

func (gl *GridLocator) search(i, j int, x, y float64, best *int) {
	for _, iq := range gl.buckets[j*gl.nx+i] {
		if int(iq) >= *best {
			return
		}
		if inside(gl.bounds[iq], x, y) {
			*best = int(iq)
			return
		}
	}
}
