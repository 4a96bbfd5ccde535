// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"
)

func inRange(i, n int) bool {
	return i >= 0 && i < n
}

func rangeOK(first, count, n int) bool {
	return first >= 0 && count >= 0 && first <= n && count <= n-first
}

// validate checks every index the draw walk and the trace follow. Nodes
// must reference later nodes only, which keeps the tree acyclic.
func (g *Geometry) validate() error {
	if len(g.Leafs) == 0 {
		return errors.Wrap(ErrBadReference, "map has no leafs")
	}
	for i, n := range g.Nodes {
		if !inRange(n.Plane, len(g.Planes)) {
			return errors.Wrapf(ErrBadReference, "node %d: plane %d", i, n.Plane)
		}
		for _, c := range n.Children {
			if c.IsLeaf() {
				if !inRange(c.Index(), len(g.Leafs)) {
					return errors.Wrapf(ErrBadReference, "node %d: %v", i, c)
				}
			} else if c.Index() <= i || c.Index() >= len(g.Nodes) {
				return errors.Wrapf(ErrBadReference, "node %d: %v", i, c)
			}
		}
	}
	for i, l := range g.Leafs {
		if !rangeOK(l.FirstLeafFace, l.NumLeafFaces, len(g.LeafFaces)) {
			return errors.Wrapf(ErrBadReference, "leaf %d: leaf faces %d+%d", i, l.FirstLeafFace, l.NumLeafFaces)
		}
		if !rangeOK(l.FirstLeafBrush, l.NumLeafBrushes, len(g.LeafBrushes)) {
			return errors.Wrapf(ErrBadReference, "leaf %d: leaf brushes %d+%d", i, l.FirstLeafBrush, l.NumLeafBrushes)
		}
		if len(g.Vis.Bits) != 0 && l.Cluster >= g.Vis.NumClusters {
			return errors.Wrapf(ErrBadReference, "leaf %d: cluster %d", i, l.Cluster)
		}
	}
	for i, f := range g.LeafFaces {
		if !inRange(f, len(g.Faces)) {
			return errors.Wrapf(ErrBadReference, "leaf face %d: face %d", i, f)
		}
	}
	for i, b := range g.LeafBrushes {
		if !inRange(b, len(g.Brushes)) {
			return errors.Wrapf(ErrBadReference, "leaf brush %d: brush %d", i, b)
		}
	}
	for i, m := range g.Models {
		if !rangeOK(m.FirstFace, m.NumFaces, len(g.Faces)) ||
			!rangeOK(m.FirstBrush, m.NumBrushes, len(g.Brushes)) {
			return errors.Wrapf(ErrBadReference, "model %d", i)
		}
	}
	for i, b := range g.Brushes {
		if !rangeOK(b.FirstSide, b.NumSides, len(g.BrushSides)) {
			return errors.Wrapf(ErrBadReference, "brush %d: sides %d+%d", i, b.FirstSide, b.NumSides)
		}
		if !inRange(b.Texture, len(g.Textures)) {
			return errors.Wrapf(ErrBadReference, "brush %d: texture %d", i, b.Texture)
		}
	}
	for i, s := range g.BrushSides {
		if !inRange(s.Plane, len(g.Planes)) {
			return errors.Wrapf(ErrBadReference, "brush side %d: plane %d", i, s.Plane)
		}
		if !inRange(s.Texture, len(g.Textures)) {
			return errors.Wrapf(ErrBadReference, "brush side %d: texture %d", i, s.Texture)
		}
	}
	for i, e := range g.Effects {
		if e.Brush != -1 && !inRange(e.Brush, len(g.Brushes)) {
			return errors.Wrapf(ErrBadReference, "effect %d: brush %d", i, e.Brush)
		}
	}
	for i := range g.Faces {
		if err := g.validateFace(&g.Faces[i]); err != nil {
			return errors.Wrapf(err, "face %d", i)
		}
	}
	return nil
}

func (g *Geometry) validateFace(f *Face) error {
	if !inRange(f.Texture, len(g.Textures)) {
		return errors.Wrapf(ErrBadReference, "texture %d", f.Texture)
	}
	if f.Effect != -1 && !inRange(f.Effect, len(g.Effects)) {
		return errors.Wrapf(ErrBadReference, "effect %d", f.Effect)
	}
	if f.Lightmap < -1 || f.Lightmap >= len(g.Lightmaps) {
		return errors.Wrapf(ErrBadReference, "lightmap %d", f.Lightmap)
	}
	if !rangeOK(f.FirstVertex, f.NumVertices, len(g.Vertices)) {
		return errors.Wrapf(ErrBadReference, "vertices %d+%d", f.FirstVertex, f.NumVertices)
	}
	switch f.Type {
	case FacePolygon, FaceMesh:
		if !rangeOK(f.FirstIndex, f.NumIndices, len(g.Indices)) {
			return errors.Wrapf(ErrBadReference, "indices %d+%d", f.FirstIndex, f.NumIndices)
		}
		for _, idx := range g.Indices[f.FirstIndex : f.FirstIndex+f.NumIndices] {
			if int64(idx) >= int64(f.NumVertices) {
				return errors.Wrapf(ErrBadReference, "index %d of %d vertices", idx, f.NumVertices)
			}
		}
	case FacePatch:
		w, h := f.PatchSize[0], f.PatchSize[1]
		if !degeneratePatch(w, h) && w*h > f.NumVertices {
			return errors.Wrapf(ErrBadReference, "patch %dx%d with %d vertices", w, h, f.NumVertices)
		}
	}
	return nil
}
