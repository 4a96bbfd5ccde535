// SPDX-License-Identifier: GPL-2.0-or-later

// Package camera implements a perspective viewer with frustum tests.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"goq3bsp/math"
	"goq3bsp/math/vec"
)

// Plane is a frustum plane, points p with Dot(Normal, p)+D >= 0 are inside.
type Plane struct {
	Normal vec.Vec3
	D      float32
}

func (p Plane) Distance(v vec.Vec3) float32 {
	return vec.Dot(p.Normal, v) + p.D
}

const (
	Left = iota
	Right
	Bottom
	Top
	Near
	Far
)

type Camera struct {
	position   vec.Vec3
	view       mgl32.Mat4
	projection mgl32.Mat4
	frustum    [6]Plane
}

// New returns a camera at pos looking at target. fovY is the vertical
// field of view in degrees.
func New(pos, target, up vec.Vec3, fovY, aspect, near, far float32) *Camera {
	c := &Camera{
		projection: mgl32.Perspective(math.DegToRad(fovY), aspect, near, far),
	}
	c.LookAt(pos, target, up)
	return c
}

// LookAt moves the camera and updates the frustum.
func (c *Camera) LookAt(pos, target, up vec.Vec3) {
	c.position = pos
	c.view = mgl32.LookAtV(mgl32.Vec3(pos), mgl32.Vec3(target), mgl32.Vec3(up))
	c.update()
}

// update extracts the frustum planes from the rows of the combined matrix.
func (c *Camera) update() {
	clip := c.projection.Mul4(c.view)
	r0, r1, r2, r3 := clip.Row(0), clip.Row(1), clip.Row(2), clip.Row(3)
	rows := [6]mgl32.Vec4{
		Left:   r3.Add(r0),
		Right:  r3.Sub(r0),
		Bottom: r3.Add(r1),
		Top:    r3.Sub(r1),
		Near:   r3.Add(r2),
		Far:    r3.Sub(r2),
	}
	for i, r := range rows {
		n := vec.Vec3{r[0], r[1], r[2]}
		l := n.Length()
		if l == 0 {
			c.frustum[i] = Plane{}
			continue
		}
		c.frustum[i] = Plane{Normal: vec.Scale(1/l, n), D: r[3] / l}
	}
}

func (c *Camera) Position() vec.Vec3 {
	return c.position
}

func (c *Camera) Frustum() [6]Plane {
	return c.frustum
}

func (c *Camera) View() mgl32.Mat4 {
	return c.view
}

func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

// IsBoxInsideFrustum reports false only for boxes completely outside of
// at least one frustum plane.
func (c *Camera) IsBoxInsideFrustum(mins, maxs vec.Vec3) bool {
	for _, p := range c.frustum {
		// corner furthest along the normal
		var v vec.Vec3
		for i := 0; i < 3; i++ {
			if p.Normal[i] >= 0 {
				v[i] = maxs[i]
			} else {
				v[i] = mins[i]
			}
		}
		if p.Distance(v) < 0 {
			return false
		}
	}
	return true
}

// Fixed is a viewer without frustum. Every box is inside.
type Fixed vec.Vec3

func (f Fixed) Position() vec.Vec3 {
	return vec.Vec3(f)
}

func (f Fixed) IsBoxInsideFrustum(mins, maxs vec.Vec3) bool {
	return true
}
