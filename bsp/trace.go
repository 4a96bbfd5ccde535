// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/chewxy/math32"

	"goq3bsp/math"
	"goq3bsp/math/vec"
)

// traceEpsilon keeps trace end points off the brush planes.
const traceEpsilon = 0.125

type TraceResult struct {
	// Fraction of the way to the first impact, 1 without impact.
	Fraction float32
	EndPos   vec.Vec3
	// Normal of the hit plane, undefined for Fraction 1.
	Normal vec.Vec3
	// StartsOut is false if the start point is inside a brush.
	StartsOut bool
	// AllSolid is set if the whole move is inside a brush.
	AllSolid bool
}

type traceKind int

const (
	traceRay traceKind = iota
	traceSphere
	traceBox
)

// tracer is the state of one trace.
type tracer struct {
	g        *Geometry
	kind     traceKind
	contents int
	start    vec.Vec3
	end      vec.Vec3
	radius   float32
	mins     vec.Vec3
	maxs     vec.Vec3
	extents  vec.Vec3
	result   TraceResult
}

// Trace moves a point from start to end against all brushes sharing a
// content flag with contents. contents 0 matches all brushes.
func (m *Map) Trace(start, end vec.Vec3, contents int) TraceResult {
	return m.trace(tracer{kind: traceRay, start: start, end: end, contents: contents})
}

// TraceSphere is Trace for a sphere of the given radius.
func (m *Map) TraceSphere(start, end vec.Vec3, radius float32, contents int) TraceResult {
	return m.trace(tracer{kind: traceSphere, start: start, end: end, radius: radius, contents: contents})
}

// TraceBox is Trace for an axis aligned box given relative to the moved
// point. A zero box is a ray.
func (m *Map) TraceBox(start, end, mins, maxs vec.Vec3, contents int) TraceResult {
	if mins == (vec.Vec3{}) && maxs == (vec.Vec3{}) {
		return m.Trace(start, end, contents)
	}
	t := tracer{kind: traceBox, start: start, end: end, mins: mins, maxs: maxs, contents: contents}
	for i := 0; i < 3; i++ {
		t.extents[i] = max(-mins[i], maxs[i])
	}
	return m.trace(t)
}

func (m *Map) trace(t tracer) TraceResult {
	t.result = TraceResult{Fraction: 1, StartsOut: true}
	if !m.Loaded() {
		t.result.EndPos = t.end
		return t.result
	}
	t.g = m.Geometry
	t.checkNode(m.root(), 0, 1, t.start, t.end)
	if t.result.Fraction == 1 {
		t.result.EndPos = t.end
	} else {
		t.result.EndPos = vec.Lerp(t.start, t.end, t.result.Fraction)
	}
	return t.result
}

// offset is the distance the traced volume reaches towards a plane with
// normal n.
func (t *tracer) offset(n vec.Vec3) float32 {
	switch t.kind {
	case traceSphere:
		return t.radius
	case traceBox:
		return math32.Abs(t.extents[0]*n[0]) +
			math32.Abs(t.extents[1]*n[1]) +
			math32.Abs(t.extents[2]*n[2])
	}
	return 0
}

func (t *tracer) checkNode(c Child, startFrac, endFrac float32, start, end vec.Vec3) {
	if t.result.Fraction <= startFrac {
		// already hit something nearer
		return
	}
	if c.IsLeaf() {
		leaf := &t.g.Leafs[c.Index()]
		for _, bi := range t.g.LeafBrushes[leaf.FirstLeafBrush : leaf.FirstLeafBrush+leaf.NumLeafBrushes] {
			b := &t.g.Brushes[bi]
			if b.NumSides > 0 && (t.contents == 0 || int(t.g.Textures[b.Texture].Contents)&t.contents != 0) {
				t.checkBrush(b)
			}
		}
		return
	}

	node := &t.g.Nodes[c.Index()]
	plane := &t.g.Planes[node.Plane]
	sd := plane.Distance(start)
	ed := plane.Distance(end)
	offset := t.offset(plane.Normal)
	if sd >= offset && ed >= offset {
		t.checkNode(node.Children[0], startFrac, endFrac, start, end)
		return
	}
	if sd < -offset && ed < -offset {
		t.checkNode(node.Children[1], startFrac, endFrac, start, end)
		return
	}

	// the move crosses the plane, split it with both parts reaching a
	// bit over the plane
	side := 0
	frac1 := float32(1)
	frac2 := float32(0)
	if sd < ed {
		side = 1
		inv := 1 / (sd - ed)
		frac1 = (sd - offset + traceEpsilon) * inv
		frac2 = (sd + offset + traceEpsilon) * inv
	} else if sd > ed {
		inv := 1 / (sd - ed)
		frac1 = (sd + offset + traceEpsilon) * inv
		frac2 = (sd - offset - traceEpsilon) * inv
	}
	frac1 = math.Clamp(0, frac1, 1)
	frac2 = math.Clamp(0, frac2, 1)

	midFrac := math.Lerp(startFrac, endFrac, frac1)
	mid := vec.Lerp(start, end, frac1)
	t.checkNode(node.Children[side], startFrac, midFrac, start, mid)

	midFrac = math.Lerp(startFrac, endFrac, frac2)
	mid = vec.Lerp(start, end, frac2)
	t.checkNode(node.Children[side^1], midFrac, endFrac, mid, end)
}

// distances returns the distances of the trace start and end to the
// plane, moved by the volume of the trace.
func (t *tracer) distances(p *Plane) (float32, float32) {
	switch t.kind {
	case traceSphere:
		return p.Distance(t.start) - t.radius, p.Distance(t.end) - t.radius
	case traceBox:
		// the box corner nearest to the plane
		var off vec.Vec3
		for j := 0; j < 3; j++ {
			if p.Normal[j] < 0 {
				off[j] = t.maxs[j]
			} else {
				off[j] = t.mins[j]
			}
		}
		return vec.Dot(vec.Add(t.start, off), p.Normal) - p.Dist,
			vec.Dot(vec.Add(t.end, off), p.Normal) - p.Dist
	}
	return p.Distance(t.start), p.Distance(t.end)
}

func (t *tracer) checkBrush(b *Brush) {
	startFrac := float32(-1)
	endFrac := float32(1)
	startsOut := false
	endsOut := false
	var normal vec.Vec3

	for _, side := range t.g.BrushSides[b.FirstSide : b.FirstSide+b.NumSides] {
		plane := &t.g.Planes[side.Plane]
		sd, ed := t.distances(plane)
		if sd > 0 {
			startsOut = true
		}
		if ed > 0 {
			endsOut = true
		}
		// completely in front of this side, so outside of the brush
		if sd > 0 && (ed >= traceEpsilon || ed >= sd) {
			return
		}
		// completely behind this side
		if sd <= 0 && ed <= 0 {
			continue
		}
		if sd > ed {
			// entering
			f := (sd - traceEpsilon) / (sd - ed)
			if f > startFrac {
				startFrac = f
				normal = plane.Normal
			}
		} else {
			// leaving
			f := (sd + traceEpsilon) / (sd - ed)
			if f < endFrac {
				endFrac = f
			}
		}
	}

	if !startsOut {
		t.result.StartsOut = false
		if !endsOut {
			t.result.AllSolid = true
			t.result.Fraction = 0
		}
		return
	}
	if startFrac < endFrac && startFrac > -1 && startFrac < t.result.Fraction {
		t.result.Fraction = max(startFrac, 0)
		t.result.Normal = normal
	}
}
