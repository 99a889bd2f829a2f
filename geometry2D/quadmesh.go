package geometry2D

import (
	"errors"
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fieldview/types"
)

var (
	ErrEmptyMesh          = errors.New("mesh has no quads")
	ErrNonRectangularQuad = errors.New("quad is not an axis aligned rectangle")
	ErrUnstructuredMesh   = errors.New("mesh is not a structured row-major grid")
)

// QuadError reports the first quad that fails validation
type QuadError struct {
	Quad   int
	Reason string
}

func (qe *QuadError) Error() string {
	return fmt.Sprintf("quad %d: %s", qe.Quad, qe.Reason)
}

func (qe *QuadError) Unwrap() error { return ErrNonRectangularQuad }

// QuadMesh is a validated quad surface mesh. Every quad is an axis aligned
// rectangle in (x,y) with its corners in counter-clockwise order starting
// from the recorded minimum corner.
type QuadMesh struct {
	Verts  []types.Vertex
	Quads  []types.Quad
	BBox   types.BoundingBox
	Center r3.Vec
	Radius float64
	// Valence is the number of quads that reference each vertex
	Valence []int
}

func NewQuadMesh(verts []types.Vertex, quads []types.Quad) (qm *QuadMesh, err error) {
	if len(quads) == 0 || len(verts) == 0 {
		return nil, ErrEmptyMesh
	}
	qm = &QuadMesh{
		Verts: verts,
		Quads: quads,
	}
	if err = qm.Validate(); err != nil {
		return nil, err
	}
	qm.BBox = types.NewBoundingBox(verts)
	qm.calcBoundingSphere()
	qm.Valence = qm.vertexValence()
	return
}

// Validate checks the rectangle invariant for each quad and records the local
// index of its minimum corner
func (qm *QuadMesh) Validate() (err error) {
	nv := len(qm.Verts)
	for iq := range qm.Quads {
		q := &qm.Quads[iq]
		for _, iv := range q.Verts {
			if iv < 0 || iv >= nv {
				return &QuadError{Quad: iq, Reason: fmt.Sprintf("vertex index %d out of range [0,%d)", iv, nv)}
			}
		}
		var (
			x1, y1 = math.Inf(1), math.Inf(1)
			x2, y2 = math.Inf(-1), math.Inf(-1)
		)
		for _, iv := range q.Verts {
			p := qm.Verts[iv].Pos
			x1, x2 = math.Min(x1, p.X), math.Max(x2, p.X)
			y1, y2 = math.Min(y1, p.Y), math.Max(y2, p.Y)
		}
		if x1 == x2 || y1 == y2 {
			return &QuadError{Quad: iq, Reason: "zero area"}
		}
		k := -1
		for i, iv := range q.Verts {
			p := qm.Verts[iv].Pos
			if p.X == x1 && p.Y == y1 {
				k = i
			}
		}
		if k < 0 {
			return &QuadError{Quad: iq, Reason: "no vertex at the minimum corner"}
		}
		expected := [4][2]float64{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}}
		for i := 0; i < 4; i++ {
			p := qm.Verts[q.Verts[(k+i)%4]].Pos
			if p.X != expected[i][0] || p.Y != expected[i][1] {
				return &QuadError{Quad: iq,
					Reason: fmt.Sprintf("corner %d at (%g,%g), expected (%g,%g)",
						(k+i)%4, p.X, p.Y, expected[i][0], expected[i][1])}
			}
		}
		q.MinCorner = k
	}
	return
}

// Bounds returns the min and max corner of a quad
func (qm *QuadMesh) Bounds(iq int) (x1, y1, x2, y2 float64) {
	q := qm.Quads[iq]
	pMin, pMax := qm.Verts[q.Corner(0)].Pos, qm.Verts[q.Corner(2)].Pos
	return pMin.X, pMin.Y, pMax.X, pMax.Y
}

func (qm *QuadMesh) calcBoundingSphere() {
	var (
		zs = make([]float64, len(qm.Verts))
	)
	for i, v := range qm.Verts {
		zs[i] = v.Pos.Z
	}
	zMin, zMax := floats.Min(zs), floats.Max(zs)
	bb := qm.BBox
	qm.Center = r3.Vec{
		X: 0.5 * (bb.XMin + bb.XMax),
		Y: 0.5 * (bb.YMin + bb.YMax),
		Z: 0.5 * (zMin + zMax),
	}
	qm.Radius = 0.5 * r3.Norm(r3.Vec{X: bb.Width(), Y: bb.Height(), Z: zMax - zMin})
}

// vertexValence counts quads per vertex from the diagonal of the sparse
// vertex to vertex product VToQ * QToV
func (qm *QuadMesh) vertexValence() (valence []int) {
	var (
		nq, nv = len(qm.Quads), len(qm.Verts)
	)
	SpQToV_Tmp := sparse.NewDOK(nq, nv)
	for iq, q := range qm.Quads {
		for _, iv := range q.Verts {
			SpQToV_Tmp.Set(iq, iv, 1)
		}
	}
	SpQToV := SpQToV_Tmp.ToCSR()
	SpVToV := sparse.NewCSR(nv, nv, nil, nil, nil)
	SpVToV.Mul(SpQToV.T(), SpQToV)
	valence = make([]int, nv)
	for i := 0; i < nv; i++ {
		valence[i] = int(SpVToV.At(i, i))
	}
	return
}

// Edges returns each mesh edge once, in the order first met walking the quads
func (qm *QuadMesh) Edges() (edges []types.EdgeKey) {
	seen := make(map[types.EdgeKey]struct{}, 2*len(qm.Quads))
	for _, q := range qm.Quads {
		for _, ek := range q.Edges() {
			if _, ok := seen[ek]; !ok {
				seen[ek] = struct{}{}
				edges = append(edges, ek)
			}
		}
	}
	return
}

// RowLength returns the row length of a structured row-major grid, the grid
// must be square with (n-1)^2 quads and exactly four corner vertices
func (qm *QuadMesh) RowLength() (rowLen int, err error) {
	nv := len(qm.Verts)
	rowLen = int(math.Round(math.Sqrt(float64(nv))))
	if rowLen < 2 || rowLen*rowLen != nv {
		return 0, fmt.Errorf("%w: %d vertices is not a square count", ErrUnstructuredMesh, nv)
	}
	if len(qm.Quads) != (rowLen-1)*(rowLen-1) {
		return 0, fmt.Errorf("%w: expected %d quads, have %d",
			ErrUnstructuredMesh, (rowLen-1)*(rowLen-1), len(qm.Quads))
	}
	var corners int
	for _, val := range qm.Valence {
		if val == 1 {
			corners++
		}
	}
	if corners != 4 {
		return 0, fmt.Errorf("%w: found %d corner vertices", ErrUnstructuredMesh, corners)
	}
	return
}

// ScalarBounds returns the min and max scalar over all vertices
func (qm *QuadMesh) ScalarBounds() (lower, upper float64) {
	s := make([]float64, len(qm.Verts))
	for i, v := range qm.Verts {
		s[i] = v.Scalar
	}
	return floats.Min(s), floats.Max(s)
}

// NewGridMesh builds a row-major nx by ny vertex grid spanning the box, with
// the field and scalar supplied per vertex position. Used by the log
// transformer and by tests.
func NewGridMesh(nx, ny int, bb types.BoundingBox,
	fieldFn func(x, y float64) (vx, vy, s float64)) (qm *QuadMesh, err error) {
	if nx < 2 || ny < 2 {
		return nil, ErrEmptyMesh
	}
	var (
		verts = make([]types.Vertex, nx*ny)
		quads = make([]types.Quad, 0, (nx-1)*(ny-1))
		dx    = bb.Width() / float64(nx-1)
		dy    = bb.Height() / float64(ny-1)
	)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			x, y := bb.XMin+float64(i)*dx, bb.YMin+float64(j)*dy
			if i == nx-1 {
				x = bb.XMax
			}
			if j == ny-1 {
				y = bb.YMax
			}
			v := &verts[j*nx+i]
			v.Pos = r3.Vec{X: x, Y: y}
			if fieldFn != nil {
				v.Vector.X, v.Vector.Y, v.Scalar = fieldFn(x, y)
			}
		}
	}
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			ll := j*nx + i
			quads = append(quads, types.Quad{Verts: [4]int{ll, ll + 1, ll + nx + 1, ll + nx}})
		}
	}
	return NewQuadMesh(verts, quads)
}
