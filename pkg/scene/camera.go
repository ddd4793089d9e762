// Package scene projects terrain layers through a perspective camera onto a
// [surface.Surface].
package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a perspective camera with a vertical field of view.
//
// View space has X to the right, Y up and Z as the distance in front of the
// camera, so visible points have Near <= Z <= Far.
type Camera struct {
	Position r3.Vec
	Target   r3.Vec
	FOV      float64 // vertical, degrees
	Near     float64
	Far      float64
	Aspect   float64

	right, up, forward r3.Vec
	focal              float64
}

// NewCamera returns a camera at pos looking at the origin with aspect 1.
func NewCamera(pos r3.Vec, fov, near, far float64) *Camera {
	c := &Camera{Position: pos, FOV: fov, Near: near, Far: far, Aspect: 1}
	c.LookAt(r3.Vec{})
	return c
}

// LookAt points the camera at target, keeping world +Y as up.
func (c *Camera) LookAt(target r3.Vec) {
	c.Target = target
	c.update()
}

// SetFOV changes the vertical field of view.
func (c *Camera) SetFOV(deg float64) {
	c.FOV = deg
	c.update()
}

// SetAspect sets width/height. Non-positive values are ignored.
func (c *Camera) SetAspect(aspect float64) {
	if aspect > 0 && !math.IsInf(aspect, 0) {
		c.Aspect = aspect
	}
}

func (c *Camera) update() {
	fwd := r3.Sub(c.Target, c.Position)
	if r3.Norm(fwd) == 0 {
		fwd = r3.Vec{Z: -1}
	}
	c.forward = r3.Unit(fwd)

	worldUp := r3.Vec{Y: 1}
	right := r3.Cross(c.forward, worldUp)
	if r3.Norm(right) < 1e-9 {
		// looking straight up or down
		right = r3.Cross(c.forward, r3.Vec{Z: -1})
	}
	c.right = r3.Unit(right)
	c.up = r3.Cross(c.right, c.forward)
	c.focal = 1 / math.Tan(c.FOV*math.Pi/360)
}

// View transforms a world-space point into view space.
func (c *Camera) View(p r3.Vec) r3.Vec {
	d := r3.Sub(p, c.Position)
	return r3.Vec{X: r3.Dot(d, c.right), Y: r3.Dot(d, c.up), Z: r3.Dot(d, c.forward)}
}

// Project maps a view-space point with positive Z to pixel coordinates on a
// width×height target, origin top-left.
func (c *Camera) Project(v r3.Vec, width, height int) (x, y float64) {
	nx := v.X * c.focal / c.Aspect / v.Z
	ny := v.Y * c.focal / v.Z
	return (nx + 1) / 2 * float64(width), (1 - ny) / 2 * float64(height)
}
