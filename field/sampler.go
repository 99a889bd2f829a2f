package field

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/fieldview/geometry2D"
)

var (
	ErrPointOutsideMesh = errors.New("point is not contained in any quad")
	ErrDegenerateField  = errors.New("zero magnitude field direction")
)

// Sampler interpolates the mesh vector field at arbitrary points. It only
// reads the mesh and is safe for concurrent use while the mesh is unchanged.
type Sampler struct {
	Mesh    *geometry2D.QuadMesh
	Locator PointLocatable
}

func NewSampler(qm *geometry2D.QuadMesh, loc PointLocatable) *Sampler {
	if loc == nil {
		loc = NewLinearLocator(qm)
	}
	return &Sampler{Mesh: qm, Locator: loc}
}

// Sample returns the bilinearly interpolated field vector at (x,y)
func (s *Sampler) Sample(x, y float64) (dir r2.Vec, err error) {
	iq, found := s.Locator.Locate(x, y)
	if !found {
		return dir, ErrPointOutsideMesh
	}
	var (
		q              = s.Mesh.Quads[iq]
		verts          = s.Mesh.Verts
		x1, y1, x2, y2 = s.Mesh.Bounds(iq)
		// Corner values: (x1,y1), (x2,y1), (x2,y2), (x1,y2)
		f11 = verts[q.Corner(0)].Vector
		f21 = verts[q.Corner(1)].Vector
		f22 = verts[q.Corner(2)].Vector
		f12 = verts[q.Corner(3)].Vector
	)
	var (
		wx2 = (x2 - x) / (x2 - x1)
		wx1 = (x - x1) / (x2 - x1)
		wy2 = (y2 - y) / (y2 - y1)
		wy1 = (y - y1) / (y2 - y1)
		p1  = wx2 * wy2
		p2  = wx1 * wy2
		p3  = wx2 * wy1
		p4  = wx1 * wy1
	)
	dir.X = p1*f11.X + p2*f21.X + p3*f12.X + p4*f22.X
	dir.Y = p1*f11.Y + p2*f21.Y + p3*f12.Y + p4*f22.Y
	return
}

// Direction returns the unit field direction at (x,y), failing with
// ErrDegenerateField where the field vanishes
func (s *Sampler) Direction(x, y float64) (dir r2.Vec, err error) {
	if dir, err = s.Sample(x, y); err != nil {
		return
	}
	return Normalize(dir)
}

func Normalize(v r2.Vec) (r2.Vec, error) {
	n := r2.Norm(v)
	if n == 0 {
		return r2.Vec{}, ErrDegenerateField
	}
	return r2.Scale(1/n, v), nil
}
