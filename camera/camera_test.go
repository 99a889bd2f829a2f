package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestProjectCenter(t *testing.T) {
	c := New(800, 600)
	center := r3.Vec{X: 3, Y: -2, Z: 0}
	v := c.View(center, 5)
	wx, wy, _, ok := v.Project(center)
	require.True(t, ok)
	assert.InDelta(t, 400, wx, 1.e-9)
	assert.InDelta(t, 300, wy, 1.e-9)
	{ // One radius to the right lands 0.9 of the half height away, scaled by the wider aspect
		wx, wy, _, _ = v.Project(r3.Vec{X: 8, Y: -2})
		assert.InDelta(t, 400+0.9*300, wx, 1.e-9)
		assert.InDelta(t, 300, wy, 1.e-9)
	}
}

func TestZoomPanReset(t *testing.T) {
	c := New(400, 400)
	c.ZoomBy(1)
	assert.InDelta(t, ZoomSpeed, c.Zoom, 1.e-15)
	c.ZoomBy(-2)
	assert.InDelta(t, 1/ZoomSpeed, c.Zoom, 1.e-12)
	c.Pan(0.5, 0)
	v := c.View(r3.Vec{}, 1)
	wx, _, _, _ := v.Project(r3.Vec{})
	assert.Greater(t, wx, 200.)
	c.Rotate(0, 0, 0.3, 0.1)
	c.Reset()
	assert.Equal(t, 1., c.Zoom)
	assert.True(t, mat.Equal(Identity(), c.Rotation))
}

func TestRotateIsOrthonormal(t *testing.T) {
	c := New(400, 400)
	c.Rotate(-0.2, 0.1, 0.4, 0.3)
	c.Rotate(0.5, -0.5, 0.1, 0.2)
	var rrt mat.Dense
	rrt.Mul(c.Rotation, c.Rotation.T())
	assert.True(t, mat.EqualApprox(Identity(), &rrt, 1.e-12))
	// Dragging to the right turns the scene about +y
	c.Reset()
	c.Rotate(0, 0, 0.2, 0)
	// so the point nearest the viewer moves toward +x
	assert.Greater(t, c.Rotation.At(0, 2), 0.)
	assert.InDelta(t, 0., c.Rotation.At(1, 2), 1.e-15)
}

func TestPanPixels(t *testing.T) {
	c := New(400, 200)
	nx, ny := c.Normalized(0, 0)
	assert.Equal(t, -1., nx)
	assert.Equal(t, 1., ny)
	nx, ny = c.Normalized(200, 100)
	assert.Equal(t, 0., nx)
	assert.Equal(t, 0., ny)
	// A drag of 10 pixels moves the projected center by 10 pixels
	v := c.View(r3.Vec{}, 1)
	x0, y0, _, _ := v.Project(r3.Vec{})
	c.PanPixels(10, -10)
	v = c.View(r3.Vec{}, 1)
	x1, y1, _, _ := v.Project(r3.Vec{})
	assert.InDelta(t, 10, x1-x0, 1.e-9)
	assert.InDelta(t, -10, y1-y0, 1.e-9)
}
