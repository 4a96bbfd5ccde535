// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"goq3bsp/cvars"
	"goq3bsp/material"
	"goq3bsp/math/vec"
	"goq3bsp/texture"
)

type Primitive int

const (
	Triangles Primitive = iota
	TriangleStrip
)

// Batch describes one draw call. Vertices and Indices are views into map
// owned arrays and must not be modified. A Batch is only valid during the
// DrawBatch call.
type Batch struct {
	Face      int
	Material  *material.Material
	Primitive Primitive
	Vertices  []Vertex
	Indices   []uint32
	// Lightmap is nil if no lightmap is bound. The lightmap coordinates of
	// the vertices go to texture stage LightmapStage.
	Lightmap      *texture.Texture
	LightmapStage int
}

type Renderer interface {
	DrawBatch(b *Batch)
}

type Camera interface {
	Position() vec.Vec3
	IsBoxInsideFrustum(mins, maxs vec.Vec3) bool
}

type DrawStats struct {
	LeafsTested     int
	PVSRejected     int
	FrustumRejected int
	FacesDrawn      int
	NoDraw          int
	Batches         int
}

// Draw renders all faces visible from viewer, each one once.
func (m *Map) Draw(r Renderer, viewer Camera) DrawStats {
	if !m.Loaded() {
		return DrawStats{}
	}
	return m.DrawWith(r, viewer, NewFaceSet(len(m.Faces)))
}

// DrawWith is Draw with a caller owned scratch set, which gets reset.
// A nil set behaves like Draw.
func (m *Map) DrawWith(r Renderer, viewer Camera, visited *FaceSet) DrawStats {
	var stats DrawStats
	if !m.Loaded() {
		return stats
	}
	if visited == nil {
		visited = NewFaceSet(len(m.Faces))
	}
	visited.Reset(len(m.Faces))
	noVis := cvars.RNoVis.Bool()
	noCull := cvars.RNoCull.Bool()
	lightmaps := m.IsDrawingLightmaps()

	cluster := m.Leafs[m.findLeaf(viewer.Position())].Cluster
	var b Batch
	for i := range m.Leafs {
		leaf := &m.Leafs[i]
		stats.LeafsTested++
		if !noVis && !m.isClusterVisible(cluster, leaf.Cluster) {
			stats.PVSRejected++
			continue
		}
		if !noCull && !viewer.IsBoxInsideFrustum(leaf.Mins, leaf.Maxs) {
			stats.FrustumRejected++
			continue
		}
		for _, fi := range m.LeafFaces[leaf.FirstLeafFace : leaf.FirstLeafFace+leaf.NumLeafFaces] {
			if visited.IsSet(fi) {
				continue
			}
			visited.Set(fi)
			m.drawFace(r, fi, lightmaps, &b, &stats)
		}
	}
	return stats
}

func (m *Map) drawFace(r Renderer, fi int, lightmaps bool, b *Batch, stats *DrawStats) {
	f := &m.Faces[fi]
	switch f.Type {
	case FacePolygon, FaceMesh, FacePatch:
	default:
		return
	}
	ti := &m.Textures[f.Texture]
	if ti.Material == nil || ti.Material.NoDraw || ti.Flags&SurfaceNoDraw != 0 {
		stats.NoDraw++
		return
	}
	*b = Batch{
		Face:     fi,
		Material: ti.Material,
	}
	if lightmaps && f.Lightmap >= 0 {
		b.Lightmap = m.Lightmaps[f.Lightmap]
		b.LightmapStage = ti.Material.StageCount()
	}
	stats.FacesDrawn++
	if f.Type != FacePatch {
		b.Primitive = Triangles
		b.Vertices = m.Vertices[f.FirstVertex : f.FirstVertex+f.NumVertices]
		b.Indices = m.Indices[f.FirstIndex : f.FirstIndex+f.NumIndices]
		r.DrawBatch(b)
		stats.Batches++
		return
	}
	b.Primitive = TriangleStrip
	for _, p := range m.Patches[f.Patches].Patches {
		b.Vertices = p.Vertices
		for _, row := range p.Rows {
			b.Indices = row
			r.DrawBatch(b)
			stats.Batches++
		}
	}
}
