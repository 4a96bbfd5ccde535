// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"goq3bsp/math/vec"
)

const (
	DefaultSubdivisions = 8
	MaxSubdivisions     = 64
)

// Patch is one tessellated 3x3 biquadratic bezier patch.
type Patch struct {
	Steps    int
	Vertices []Vertex
	// Rows holds Steps triangle strips of 2*(Steps+1) indices each.
	Rows [][]uint32
}

// PatchSet groups the patches of one patch face.
type PatchSet struct {
	Face int
	// Width and Height are the number of patches along each grid axis.
	Width   int
	Height  int
	Patches []*Patch
}

func bezierVertex(a, b, c *Vertex, t float32) Vertex {
	return Vertex{
		Position: vec.Bezier(a.Position, b.Position, c.Position, t),
		TexCoord: vec.Bezier2(a.TexCoord, b.TexCoord, c.TexCoord, t),
		LightMap: vec.Bezier2(a.LightMap, b.LightMap, c.LightMap, t),
		Normal:   vec.Bezier(a.Normal, b.Normal, c.Normal, t),
	}
}

// Tessellate evaluates the control grid cp, given row by row, into a
// (steps+1)x(steps+1) vertex grid. steps must be at least 1.
func Tessellate(cp [9]Vertex, steps int) *Patch {
	l1 := steps + 1
	p := &Patch{
		Steps:    steps,
		Vertices: make([]Vertex, l1*l1),
	}
	n := float32(steps)

	// first column from the first control column
	for i := 0; i <= steps; i++ {
		p.Vertices[i] = bezierVertex(&cp[0], &cp[3], &cp[6], float32(i)/n)
	}
	for i := 1; i <= steps; i++ {
		a := float32(i) / n
		temp := [3]Vertex{
			bezierVertex(&cp[0], &cp[1], &cp[2], a),
			bezierVertex(&cp[3], &cp[4], &cp[5], a),
			bezierVertex(&cp[6], &cp[7], &cp[8], a),
		}
		for j := 0; j <= steps; j++ {
			p.Vertices[i*l1+j] = bezierVertex(&temp[0], &temp[1], &temp[2], float32(j)/n)
		}
	}
	for i := range p.Vertices {
		p.Vertices[i].Normal = p.Vertices[i].Normal.Normalize()
		p.Vertices[i].Color = cp[0].Color
	}

	p.Rows = make([][]uint32, steps)
	for row := 0; row < steps; row++ {
		r := make([]uint32, 0, 2*l1)
		for point := 0; point <= steps; point++ {
			r = append(r,
				uint32((row+1)*l1+point),
				uint32(row*l1+point))
		}
		p.Rows[row] = r
	}
	return p
}

// degeneratePatch reports patch grids which can not be split into 3x3
// control grids.
func degeneratePatch(w, h int) bool {
	return w < 3 || h < 3 || w%2 == 0 || h%2 == 0
}

// newPatchSet carves the control grid of f into overlapping 3x3 grids.
func newPatchSet(index int, f *Face, verts []Vertex, steps int) *PatchSet {
	w, h := f.PatchSize[0], f.PatchSize[1]
	ps := &PatchSet{
		Face:   index,
		Width:  (w - 1) / 2,
		Height: (h - 1) / 2,
	}
	ps.Patches = make([]*Patch, 0, ps.Width*ps.Height)
	for py := 0; py < ps.Height; py++ {
		for px := 0; px < ps.Width; px++ {
			var cp [9]Vertex
			for r := 0; r < 3; r++ {
				for c := 0; c < 3; c++ {
					cp[r*3+c] = verts[f.FirstVertex+(py*2+r)*w+px*2+c]
				}
			}
			ps.Patches = append(ps.Patches, Tessellate(cp, steps))
		}
	}
	return ps
}
