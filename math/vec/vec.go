// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"github.com/chewxy/math32"
)

type Vec3 [3]float32

type Vec2 [2]float32

// Length returns the length of the vector
func (v Vec3) Length() float32 {
	return math32.Sqrt(Dot(v, v))
}

// Add returns a + b
func Add(a, b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub returns a - b
func Sub(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale returns the vector multiplied by the skalar s
func Scale(s float32, v Vec3) Vec3 {
	return Vec3{s * v[0], s * v[1], s * v[2]}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// Normalize returns the normalized vector
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Scale(1/l, v)
}

// Dot returns a dot b
func Dot(a, b Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// DoublePrecDot return a dot b calculated in double precision
func DoublePrecDot(a, b Vec3) float32 {
	p := func(x, y float32) float64 {
		return float64(x) * float64(y)
	}
	return float32(p(a[0], b[0]) + p(a[1], b[1]) + p(a[2], b[2]))
}

// Cross returns a cross b
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Lerp computes a weighted average between two points
func Lerp(a, b Vec3, frac float32) Vec3 {
	fi := 1 - frac
	return Vec3{
		fi*a[0] + frac*b[0],
		fi*a[1] + frac*b[1],
		fi*a[2] + frac*b[2],
	}
}

func minmax(a, b float32) (float32, float32) {
	if a < b {
		return a, b
	}
	return b, a
}

// MinMax returns the componentwise minimum and maximum of a and b.
func MinMax(a, b Vec3) (Vec3, Vec3) {
	var r, s Vec3
	r[0], s[0] = minmax(a[0], b[0])
	r[1], s[1] = minmax(a[1], b[1])
	r[2], s[2] = minmax(a[2], b[2])
	return r, s
}

// Bezier evaluates the quadratic bezier curve through the control points
// p0, p1, p2 at t.
func Bezier(p0, p1, p2 Vec3, t float32) Vec3 {
	b := 1 - t
	return Vec3{
		b*b*p0[0] + 2*b*t*p1[0] + t*t*p2[0],
		b*b*p0[1] + 2*b*t*p1[1] + t*t*p2[1],
		b*b*p0[2] + 2*b*t*p1[2] + t*t*p2[2],
	}
}

// Bezier2 is Bezier for texture coordinates.
func Bezier2(p0, p1, p2 Vec2, t float32) Vec2 {
	b := 1 - t
	return Vec2{
		b*b*p0[0] + 2*b*t*p1[0] + t*t*p2[0],
		b*b*p0[1] + 2*b*t*p1[1] + t*t*p2[1],
	}
}

// ZUpToYUp maps a vector of the id tools coordinate system (z up) into the
// engine coordinate system (y up).
func ZUpToYUp(v Vec3) Vec3 {
	return Vec3{v[0], v[2], -v[1]}
}

// YUpToZUp is the inverse of ZUpToYUp.
func YUpToZUp(v Vec3) Vec3 {
	return Vec3{v[0], -v[2], v[1]}
}
