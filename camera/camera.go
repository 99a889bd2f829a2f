package camera

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	ZoomSpeed    = 0.9
	RadiusFactor = 1.0
	SceneDepth   = -3.0
	FitFraction  = 0.9 // the mesh radius fills this fraction of the view
)

// View is what the frame code needs from the camera: the transforms and the
// viewport rectangle (x, y, width, height) in window pixels
type View struct {
	ModelView  *mat.Dense
	Projection *mat.Dense
	Viewport   [4]int
}

func (v View) Width() int  { return v.Viewport[2] }
func (v View) Height() int { return v.Viewport[3] }

// Project maps an object space point to window coordinates with the origin
// at the lower left of the viewport. ok is false when the point projects to
// infinity.
func (v View) Project(p r3.Vec) (wx, wy, wz float64, ok bool) {
	var (
		obj  = mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1})
		eye  = mat.NewVecDense(4, nil)
		clip = mat.NewVecDense(4, nil)
	)
	eye.MulVec(v.ModelView, obj)
	clip.MulVec(v.Projection, eye)
	w := clip.AtVec(3)
	if w == 0 {
		return 0, 0, 0, false
	}
	nx, ny, nz := clip.AtVec(0)/w, clip.AtVec(1)/w, clip.AtVec(2)/w
	wx = float64(v.Viewport[0]) + float64(v.Viewport[2])*(nx+1)/2
	wy = float64(v.Viewport[1]) + float64(v.Viewport[3])*(ny+1)/2
	wz = (nz + 1) / 2
	return wx, wy, wz, true
}

// Camera holds the interactive view state: trackball rotation, pan and zoom
type Camera struct {
	Width, Height int
	Zoom          float64
	Translation   [2]float64
	Rotation      *mat.Dense
}

func New(width, height int) (c *Camera) {
	c = &Camera{Width: width, Height: height}
	c.Reset()
	return
}

func (c *Camera) Reset() {
	c.Zoom = 1
	c.Translation = [2]float64{}
	c.Rotation = Identity()
}

func (c *Camera) Resize(width, height int) {
	c.Width, c.Height = width, height
}

// ZoomBy zooms in for positive steps and out for negative ones
func (c *Camera) ZoomBy(steps int) {
	for ; steps > 0; steps-- {
		c.Zoom *= ZoomSpeed
	}
	for ; steps < 0; steps++ {
		c.Zoom /= ZoomSpeed
	}
}

func (c *Camera) Pan(dx, dy float64) {
	c.Translation[0] += dx
	c.Translation[1] += dy
}

// Rotate applies a virtual trackball drag between two points given in
// normalized window coordinates [-1,1]
func (c *Camera) Rotate(x0, y0, x1, y1 float64) {
	var (
		p0 = trackballPoint(x0, y0)
		p1 = trackballPoint(x1, y1)
	)
	axis := r3.Cross(p0, p1)
	n := r3.Norm(axis)
	if n == 0 {
		return
	}
	d := r3.Norm(r3.Sub(p1, p0)) / 2
	d = math.Min(d, 1)
	angle := 2 * math.Asin(d)
	R := AxisAngle(r3.Scale(1/n, axis), angle)
	var rot mat.Dense
	rot.Mul(R, c.Rotation)
	c.Rotation = &rot
}

// trackballPoint lifts a 2D point onto a sphere blended with a hyperbolic
// sheet away from the center
func trackballPoint(x, y float64) r3.Vec {
	const size = 0.8
	d := math.Hypot(x, y)
	var z float64
	if d < size*math.Sqrt2/2 {
		z = math.Sqrt(size*size - d*d)
	} else {
		t := size / math.Sqrt2
		z = t * t / d
	}
	return r3.Vec{X: x, Y: y, Z: z}
}

// View builds the transforms that fit a mesh with the given bounding sphere
func (c *Camera) View(center r3.Vec, radius float64) View {
	var (
		aspect = float64(c.Width) / float64(c.Height)
		hw, hh = RadiusFactor * c.Zoom, RadiusFactor * c.Zoom
	)
	if aspect >= 1 {
		hw *= aspect
	} else {
		hh /= aspect
	}
	if radius == 0 {
		radius = 1
	}
	var mv, tr, trs mat.Dense
	s := FitFraction / radius
	tr.Mul(Translate(c.Translation[0], c.Translation[1], SceneDepth), c.Rotation)
	trs.Mul(&tr, Scale(s, s, s))
	mv.Mul(&trs, Translate(-center.X, -center.Y, -center.Z))
	return View{
		ModelView:  &mv,
		Projection: Ortho(-hw, hw, -hh, hh, -1000, 1000),
		Viewport:   [4]int{0, 0, c.Width, c.Height},
	}
}

func Identity() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

func Translate(x, y, z float64) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	})
}

func Scale(x, y, z float64) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	})
}

func Ortho(l, r, b, t, n, f float64) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		2 / (r - l), 0, 0, -(r + l) / (r - l),
		0, 2 / (t - b), 0, -(t + b) / (t - b),
		0, 0, -2 / (f - n), -(f + n) / (f - n),
		0, 0, 0, 1,
	})
}

// AxisAngle is the rotation about a unit axis
func AxisAngle(a r3.Vec, angle float64) *mat.Dense {
	var (
		c, s = math.Cos(angle), math.Sin(angle)
		t    = 1 - c
	)
	return mat.NewDense(4, 4, []float64{
		t*a.X*a.X + c, t*a.X*a.Y - s*a.Z, t*a.X*a.Z + s*a.Y, 0,
		t*a.X*a.Y + s*a.Z, t*a.Y*a.Y + c, t*a.Y*a.Z - s*a.X, 0,
		t*a.X*a.Z - s*a.Y, t*a.Y*a.Z + s*a.X, t*a.Z*a.Z + c, 0,
		0, 0, 0, 1,
	})
}

// PanPixels pans by a drag measured in window pixels with y up
func (c *Camera) PanPixels(dx, dy float64) {
	if c.Width < 1 || c.Height < 1 {
		return
	}
	scale := 2 * RadiusFactor * c.Zoom / float64(min(c.Width, c.Height))
	c.Pan(dx*scale, dy*scale)
}

// Normalized maps a window pixel, y down from the top, to [-1,1] with y up
func (c *Camera) Normalized(x, y float64) (nx, ny float64) {
	nx = 2*x/float64(c.Width) - 1
	ny = 1 - 2*y/float64(c.Height)
	return
}
