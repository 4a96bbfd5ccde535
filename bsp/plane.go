// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"goq3bsp/math/vec"
)

const (
	PlaneX = iota
	PlaneY
	PlaneZ
	PlaneNonAxial
)

type Plane struct {
	Normal vec.Vec3
	Dist   float32
	// Type is the axis for planes with a positive unit axis normal,
	// else PlaneNonAxial.
	Type     byte
	SignBits byte
}

func newPlane(n vec.Vec3, dist float32) Plane {
	p := Plane{Normal: n, Dist: dist, Type: PlaneNonAxial}
	for i := 0; i < 3; i++ {
		if n[i] == 1 {
			p.Type = byte(i)
		}
		if n[i] < 0 {
			p.SignBits |= 1 << i
		}
	}
	return p
}

// Distance returns the signed distance of v to the plane.
func (p *Plane) Distance(v vec.Vec3) float32 {
	if p.Type < PlaneNonAxial {
		return v[p.Type] - p.Dist
	}
	return vec.Dot(v, p.Normal) - p.Dist
}

// BoxOnPlaneSide returns 1 if the box is in front of the plane, 2 if it is
// behind and 3 if the plane crosses it.
func (p *Plane) BoxOnPlaneSide(mins, maxs vec.Vec3) int {
	if p.Type < PlaneNonAxial {
		if p.Dist <= mins[p.Type] {
			return 1
		}
		if p.Dist >= maxs[p.Type] {
			return 2
		}
		return 3
	}
	// d1 uses the corner furthest along the normal, d2 the nearest one
	var near, far vec.Vec3
	for i := 0; i < 3; i++ {
		if p.SignBits&(1<<i) != 0 {
			far[i], near[i] = mins[i], maxs[i]
		} else {
			far[i], near[i] = maxs[i], mins[i]
		}
	}
	d1 := vec.Dot(p.Normal, far)
	d2 := vec.Dot(p.Normal, near)
	sides := 0
	if d1 >= p.Dist {
		sides = 1
	}
	if d2 < p.Dist {
		sides |= 2
	}
	return sides
}
