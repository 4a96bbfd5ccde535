// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"goq3bsp/cvars"
	"goq3bsp/filesystem"
	"goq3bsp/material"
	"goq3bsp/math"
	"goq3bsp/math/vec"
	"goq3bsp/texture"
)

// Resources are the services a map uses while loading. All fields are
// optional.
type Resources struct {
	Files     *filesystem.Store
	Materials *material.Manager
	Logger    *slog.Logger
}

// Geometry holds the loaded arrays. They are never modified after load,
// renderers and collision code get read only views.
type Geometry struct {
	Textures    []TextureInfo
	Planes      []Plane
	Nodes       []Node
	Leafs       []Leaf
	LeafFaces   []int
	LeafBrushes []int
	Models      []Model
	Brushes     []Brush
	BrushSides  []BrushSide
	Vertices    []Vertex
	// Indices are relative to the FirstVertex of their face.
	Indices   []uint32
	Effects   []Effect
	Faces     []Face
	Lightmaps []*texture.Texture
	LightVols []LightSample
	Vis       VisData
	Patches   []*PatchSet

	entities []*Entity
	grid     lightGrid
	hasGrid  bool
}

type Map struct {
	// Geometry is nil until a load succeeded.
	*Geometry

	res           Resources
	log           *slog.Logger
	name          string
	id            uuid.UUID
	drawLightmaps atomic.Bool
}

func New(res Resources) *Map {
	if res.Logger == nil {
		res.Logger = slog.Default()
	}
	if res.Materials == nil {
		var p material.Prober
		if res.Files != nil {
			p = res.Files
		}
		res.Materials = material.NewManager(p, res.Logger)
	}
	m := &Map{
		res: res,
		log: res.Logger,
	}
	m.drawLightmaps.Store(cvars.RDrawLightmaps.Bool())
	return m
}

func (m *Map) Loaded() bool {
	return m.Geometry != nil
}

func (m *Map) Name() string {
	return m.name
}

// ID identifies the current load of the map.
func (m *Map) ID() uuid.UUID {
	return m.id
}

func (m *Map) Entities() []*Entity {
	if !m.Loaded() {
		return nil
	}
	return m.entities
}

func (m *Map) SetLightmapsDrawing(b bool) {
	m.drawLightmaps.Store(b)
}

func (m *Map) IsDrawingLightmaps() bool {
	return m.drawLightmaps.Load()
}

// Load reads the map file name from the resource store, or from the OS
// without store. On failure the map is left not loaded.
func (m *Map) Load(name string) error {
	var data []byte
	var err error
	if m.res.Files != nil {
		data, err = m.res.Files.ReadFile(name)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		m.Geometry = nil
		m.log.Error("Could not read map", "map", name, "err", err)
		return errors.Wrapf(err, "reading %s", name)
	}
	return m.LoadBytes(name, data)
}

// LoadBytes loads the map from data. name is used for logging and for
// naming textures.
func (m *Map) LoadBytes(name string, data []byte) error {
	return m.load(name, newDecoder(data))
}

func (m *Map) load(name string, d *decoder) error {
	m.Geometry = nil
	id := uuid.Must(uuid.NewV7())
	log := m.log.With("map", name, "id", id)
	g, err := m.decode(name, d, log)
	if err != nil {
		log.Error("Could not load map", "err", err)
		return errors.Wrapf(err, "loading %s", name)
	}
	m.name = name
	m.id = id
	m.Geometry = g
	log.Info("Loaded map", "faces", len(g.Faces), "leafs", len(g.Leafs),
		"brushes", len(g.Brushes), "patches", len(g.Patches))
	return nil
}

func (m *Map) decode(name string, d *decoder, log *slog.Logger) (*Geometry, error) {
	h, err := readHeader(d)
	if err != nil {
		return nil, err
	}
	g := &Geometry{}
	g.decodeTextures(d, h)
	g.decodePlanes(d, h)
	g.decodeNodes(d, h)
	g.decodeLeafs(d, h)
	g.LeafFaces = decodeInts(d, h, lumpLeafFaces)
	g.LeafBrushes = decodeInts(d, h, lumpLeafBrushes)
	g.decodeModels(d, h)
	g.decodeBrushes(d, h)
	g.decodeVertices(d, h)
	g.decodeIndices(d, h)
	g.decodeEffects(d, h)
	g.decodeFaces(d, h)
	g.decodeLightVols(d, h)
	if err := g.decodeVis(d, h); err != nil {
		return nil, errors.Wrap(err, "visdata")
	}
	m.createLightmaps(g, name, d, h)
	if err := g.validate(); err != nil {
		return nil, err
	}

	el := h.Lumps[lumpEntities]
	g.entities, err = ParseEntities(d.buf[el.Offset : el.Offset+el.Length])
	if err != nil {
		return nil, errors.Wrap(err, "entities")
	}

	for i := range g.Textures {
		g.Textures[i].Material = m.res.Materials.Resolve(g.Textures[i].Name)
	}
	g.createPatches(log)

	if len(g.LightVols) > 0 && len(g.Models) > 0 {
		g.grid, g.hasGrid = newLightGrid(g.Models[0], len(g.LightVols))
		if !g.hasGrid {
			log.Warn("Light grid does not match world bounds, ignoring it", "samples", len(g.LightVols))
		}
	}
	return g, nil
}

func decodeInts(d *decoder, h *header, lump int) []int {
	n, off := h.records(lump)
	r := make([]int, n)
	for i := range r {
		r[i] = d.int(off + i*4)
	}
	return r
}

// remapBounds converts file bounds and keeps min <= max.
func remapBounds(mins, maxs vec.Vec3) (vec.Vec3, vec.Vec3) {
	return vec.MinMax(vec.ZUpToYUp(mins), vec.ZUpToYUp(maxs))
}

func (g *Geometry) decodeTextures(d *decoder, h *header) {
	n, off := h.records(lumpTextures)
	g.Textures = make([]TextureInfo, n)
	for i := range g.Textures {
		o := off + i*72
		g.Textures[i] = TextureInfo{
			Name:     d.name(o, 64),
			Flags:    d.int32(o + 64),
			Contents: d.int32(o + 68),
		}
	}
}

func (g *Geometry) decodePlanes(d *decoder, h *header) {
	n, off := h.records(lumpPlanes)
	g.Planes = make([]Plane, n)
	for i := range g.Planes {
		o := off + i*16
		g.Planes[i] = newPlane(vec.ZUpToYUp(d.vec3(o)), d.float(o+12))
	}
}

func (g *Geometry) decodeNodes(d *decoder, h *header) {
	n, off := h.records(lumpNodes)
	g.Nodes = make([]Node, n)
	for i := range g.Nodes {
		o := off + i*36
		mins, maxs := remapBounds(d.ivec3(o+12), d.ivec3(o+24))
		g.Nodes[i] = Node{
			Plane:    d.int(o),
			Children: [2]Child{decodeChild(d.int32(o + 4)), decodeChild(d.int32(o + 8))},
			Mins:     mins,
			Maxs:     maxs,
		}
	}
}

func (g *Geometry) decodeLeafs(d *decoder, h *header) {
	n, off := h.records(lumpLeafs)
	g.Leafs = make([]Leaf, n)
	for i := range g.Leafs {
		o := off + i*48
		mins, maxs := remapBounds(d.ivec3(o+8), d.ivec3(o+20))
		g.Leafs[i] = Leaf{
			Cluster:        d.int(o),
			Area:           d.int(o + 4),
			Mins:           mins,
			Maxs:           maxs,
			FirstLeafFace:  d.int(o + 32),
			NumLeafFaces:   d.int(o + 36),
			FirstLeafBrush: d.int(o + 40),
			NumLeafBrushes: d.int(o + 44),
		}
	}
}

func (g *Geometry) decodeModels(d *decoder, h *header) {
	n, off := h.records(lumpModels)
	g.Models = make([]Model, n)
	for i := range g.Models {
		o := off + i*40
		mins, maxs := remapBounds(d.vec3(o), d.vec3(o+12))
		g.Models[i] = Model{
			Mins:       mins,
			Maxs:       maxs,
			FirstFace:  d.int(o + 24),
			NumFaces:   d.int(o + 28),
			FirstBrush: d.int(o + 32),
			NumBrushes: d.int(o + 36),
		}
	}
}

func (g *Geometry) decodeBrushes(d *decoder, h *header) {
	n, off := h.records(lumpBrushes)
	g.Brushes = make([]Brush, n)
	for i := range g.Brushes {
		o := off + i*12
		g.Brushes[i] = Brush{
			FirstSide: d.int(o),
			NumSides:  d.int(o + 4),
			Texture:   d.int(o + 8),
		}
	}
	n, off = h.records(lumpBrushSides)
	g.BrushSides = make([]BrushSide, n)
	for i := range g.BrushSides {
		o := off + i*8
		g.BrushSides[i] = BrushSide{
			Plane:   d.int(o),
			Texture: d.int(o + 4),
		}
	}
}

func (g *Geometry) decodeVertices(d *decoder, h *header) {
	n, off := h.records(lumpVertices)
	g.Vertices = make([]Vertex, n)
	for i := range g.Vertices {
		o := off + i*44
		v := &g.Vertices[i]
		v.Position = vec.ZUpToYUp(d.vec3(o))
		v.TexCoord = vec.Vec2{d.float(o + 12), d.float(o + 16)}
		v.LightMap = vec.Vec2{d.float(o + 20), d.float(o + 24)}
		v.Normal = vec.ZUpToYUp(d.vec3(o + 28))
		copy(v.Color[:], d.buf[o+40:o+44])
	}
}

func (g *Geometry) decodeIndices(d *decoder, h *header) {
	n, off := h.records(lumpIndices)
	g.Indices = make([]uint32, n)
	for i := range g.Indices {
		g.Indices[i] = d.uint32(off + i*4)
	}
}

func (g *Geometry) decodeEffects(d *decoder, h *header) {
	n, off := h.records(lumpEffects)
	g.Effects = make([]Effect, n)
	for i := range g.Effects {
		o := off + i*72
		g.Effects[i] = Effect{
			Name:        d.name(o, 64),
			Brush:       d.int(o + 64),
			VisibleSide: d.int(o + 68),
		}
	}
}

func (g *Geometry) decodeFaces(d *decoder, h *header) {
	n, off := h.records(lumpFaces)
	g.Faces = make([]Face, n)
	for i := range g.Faces {
		o := off + i*104
		g.Faces[i] = Face{
			Texture:     d.int(o),
			Effect:      d.int(o + 4),
			Type:        FaceType(d.int32(o + 8)),
			FirstVertex: d.int(o + 12),
			NumVertices: d.int(o + 16),
			FirstIndex:  d.int(o + 20),
			NumIndices:  d.int(o + 24),
			Lightmap:    d.int(o + 28),
			LMCorner:    [2]int{d.int(o + 32), d.int(o + 36)},
			LMSize:      [2]int{d.int(o + 40), d.int(o + 44)},
			LMOrigin:    vec.ZUpToYUp(d.vec3(o + 48)),
			LMVecs: [2]vec.Vec3{
				vec.ZUpToYUp(d.vec3(o + 60)),
				vec.ZUpToYUp(d.vec3(o + 72)),
			},
			Normal:    vec.ZUpToYUp(d.vec3(o + 84)),
			PatchSize: [2]int{d.int(o + 96), d.int(o + 100)},
			Patches:   -1,
		}
	}
}

func (g *Geometry) decodeLightVols(d *decoder, h *header) {
	n, off := h.records(lumpLightVols)
	g.LightVols = make([]LightSample, n)
	for i := range g.LightVols {
		b := d.buf[off+i*8 : off+i*8+8]
		s := &g.LightVols[i]
		copy(s.Ambient[:], b[0:3])
		copy(s.Directed[:], b[3:6])
		s.Direction = vec.ZUpToYUp(decodeDirection(b[7], b[6]))
	}
}

func (g *Geometry) decodeVis(d *decoder, h *header) error {
	l := h.Lumps[lumpVisData]
	if l.Length == 0 {
		return nil
	}
	if l.Length < 8 {
		return errors.Wrapf(ErrTruncated, "%d bytes", l.Length)
	}
	nc := d.int(l.Offset)
	bpv := d.int(l.Offset + 4)
	if nc < 0 || bpv < 0 || bpv*8 < nc {
		return errors.Wrapf(ErrLumpSize, "%d clusters with %d bytes per cluster", nc, bpv)
	}
	if int64(nc)*int64(bpv) > int64(l.Length-8) {
		return errors.Wrapf(ErrTruncated, "%d clusters with %d bytes per cluster in %d bytes", nc, bpv, l.Length)
	}
	g.Vis = VisData{
		NumClusters: nc,
		BytesPerVis: bpv,
		Bits:        make([]byte, nc*bpv),
	}
	copy(g.Vis.Bits, d.buf[l.Offset+8:])
	return nil
}

func (m *Map) createLightmaps(g *Geometry, name string, d *decoder, h *header) {
	n, off := h.records(lumpLightmaps)
	size := recordSize[lumpLightmaps]
	g.Lightmaps = make([]*texture.Texture, n)
	for i := range g.Lightmaps {
		data := make([]byte, size)
		copy(data, d.buf[off+i*size:])
		g.Lightmaps[i] = m.res.Materials.CreateRawTexture(
			fmt.Sprintf("%s:lightmap%d", name, i),
			LightmapSize, LightmapSize, data,
			texture.TexPrefLinear|texture.TexPrefClamp|texture.TexPrefNoPicMip)
	}
}

// Retessellate rebuilds the patch meshes with the current r_subdivisions.
// The previous geometry stays valid for callers still holding it.
func (m *Map) Retessellate() error {
	if !m.Loaded() {
		return ErrNotLoaded
	}
	g := *m.Geometry
	g.Faces = append([]Face(nil), g.Faces...)
	g.Patches = nil
	g.createPatches(m.log.With("map", m.name, "id", m.id))
	m.Geometry = &g
	return nil
}

func subdivisions() int {
	return math.Clamp(1, int(cvars.RSubdivisions.Value()), MaxSubdivisions)
}

// createPatches tessellates all patch faces. Degenerate ones get disabled.
func (g *Geometry) createPatches(log *slog.Logger) {
	count := 0
	for i := range g.Faces {
		f := &g.Faces[i]
		if f.Type != FacePatch {
			continue
		}
		if degeneratePatch(f.PatchSize[0], f.PatchSize[1]) {
			log.Debug("Disabling degenerate patch", "face", i,
				"width", f.PatchSize[0], "height", f.PatchSize[1])
			f.Type = FaceDisabled
			continue
		}
		count++
	}
	if count == 0 {
		return
	}
	steps := subdivisions()
	g.Patches = make([]*PatchSet, 0, count)
	for i := range g.Faces {
		f := &g.Faces[i]
		if f.Type != FacePatch {
			continue
		}
		f.Patches = len(g.Patches)
		g.Patches = append(g.Patches, newPatchSet(i, f, g.Vertices, steps))
	}
}
