// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"

	"goq3bsp/math/vec"
)

type rawTexture struct {
	Name     [64]byte
	Flags    int32
	Contents int32
}

type rawPlane struct {
	Normal [3]float32
	Dist   float32
}

type rawNode struct {
	Plane    int32
	Children [2]int32
	Mins     [3]int32
	Maxs     [3]int32
}

type rawLeaf struct {
	Cluster        int32
	Area           int32
	Mins           [3]int32
	Maxs           [3]int32
	FirstLeafFace  int32
	NumLeafFaces   int32
	FirstLeafBrush int32
	NumLeafBrushes int32
}

type rawModel struct {
	Mins       [3]float32
	Maxs       [3]float32
	FirstFace  int32
	NumFaces   int32
	FirstBrush int32
	NumBrushes int32
}

type rawBrush struct {
	FirstSide int32
	NumSides  int32
	Texture   int32
}

type rawBrushSide struct {
	Plane   int32
	Texture int32
}

type rawVertex struct {
	Position [3]float32
	TexCoord [2]float32
	LightMap [2]float32
	Normal   [3]float32
	Color    [4]byte
}

type rawEffect struct {
	Name        [64]byte
	Brush       int32
	VisibleSide int32
}

type rawFace struct {
	Texture     int32
	Effect      int32
	Type        int32
	FirstVertex int32
	NumVertices int32
	FirstIndex  int32
	NumIndices  int32
	Lightmap    int32
	LMCorner    [2]int32
	LMSize      [2]int32
	LMOrigin    [3]float32
	LMVecs      [2][3]float32
	Normal      [3]float32
	PatchSize   [2]int32
}

// mapWriter encodes IBSP files. Geometry is given in engine axes and
// converted to file axes on the way out.
type mapWriter struct {
	entities    string
	textures    []rawTexture
	planes      []rawPlane
	nodes       []rawNode
	leafs       []rawLeaf
	leafFaces   []int32
	leafBrushes []int32
	models      []rawModel
	brushes     []rawBrush
	brushSides  []rawBrushSide
	vertices    []rawVertex
	indices     []uint32
	effects     []rawEffect
	faces       []rawFace
	lightmaps   [][]byte
	lightVols   [][8]byte
	vis         []byte
}

func fileVec(v vec.Vec3) [3]float32 {
	return vec.YUpToZUp(v)
}

func fileBounds(mins, maxs vec.Vec3) ([3]int32, [3]int32) {
	a, b := vec.MinMax(vec.YUpToZUp(mins), vec.YUpToZUp(maxs))
	return [3]int32{int32(a[0]), int32(a[1]), int32(a[2])},
		[3]int32{int32(b[0]), int32(b[1]), int32(b[2])}
}

func (w *mapWriter) texture(name string, flags, contents int32) int32 {
	t := rawTexture{Flags: flags, Contents: contents}
	copy(t.Name[:], name)
	w.textures = append(w.textures, t)
	return int32(len(w.textures) - 1)
}

func (w *mapWriter) plane(n vec.Vec3, dist float32) int32 {
	w.planes = append(w.planes, rawPlane{Normal: fileVec(n), Dist: dist})
	return int32(len(w.planes) - 1)
}

func (w *mapWriter) node(plane int32, front, back int32, mins, maxs vec.Vec3) {
	a, b := fileBounds(mins, maxs)
	w.nodes = append(w.nodes, rawNode{Plane: plane, Children: [2]int32{front, back}, Mins: a, Maxs: b})
}

func (w *mapWriter) leaf(cluster int32, mins, maxs vec.Vec3, faces, brushes []int32) int32 {
	a, b := fileBounds(mins, maxs)
	w.leafs = append(w.leafs, rawLeaf{
		Cluster:        cluster,
		Mins:           a,
		Maxs:           b,
		FirstLeafFace:  int32(len(w.leafFaces)),
		NumLeafFaces:   int32(len(faces)),
		FirstLeafBrush: int32(len(w.leafBrushes)),
		NumLeafBrushes: int32(len(brushes)),
	})
	w.leafFaces = append(w.leafFaces, faces...)
	w.leafBrushes = append(w.leafBrushes, brushes...)
	return int32(len(w.leafs) - 1)
}

// box adds an axis aligned brush.
func (w *mapWriter) box(mins, maxs vec.Vec3, texture int32) int32 {
	b := rawBrush{FirstSide: int32(len(w.brushSides)), NumSides: 6, Texture: texture}
	for i := 0; i < 3; i++ {
		var n vec.Vec3
		n[i] = 1
		w.brushSides = append(w.brushSides, rawBrushSide{Plane: w.plane(n, maxs[i]), Texture: texture})
		w.brushSides = append(w.brushSides, rawBrushSide{Plane: w.plane(n.Neg(), -mins[i]), Texture: texture})
	}
	w.brushes = append(w.brushes, b)
	return int32(len(w.brushes) - 1)
}

func (w *mapWriter) vertex(p vec.Vec3) {
	w.vertices = append(w.vertices, rawVertex{
		Position: fileVec(p),
		Normal:   fileVec(vec.Vec3{0, 1, 0}),
		Color:    [4]byte{255, 255, 255, 255},
	})
}

func (w *mapWriter) face(f rawFace) int32 {
	w.faces = append(w.faces, f)
	return int32(len(w.faces) - 1)
}

func (w *mapWriter) lumps() [numLumps][]byte {
	enc := func(data any) []byte {
		var b bytes.Buffer
		if err := binary.Write(&b, binary.LittleEndian, data); err != nil {
			panic(err)
		}
		return b.Bytes()
	}
	var l [numLumps][]byte
	l[lumpEntities] = append([]byte(w.entities), 0)
	l[lumpTextures] = enc(w.textures)
	l[lumpPlanes] = enc(w.planes)
	l[lumpNodes] = enc(w.nodes)
	l[lumpLeafs] = enc(w.leafs)
	l[lumpLeafFaces] = enc(w.leafFaces)
	l[lumpLeafBrushes] = enc(w.leafBrushes)
	l[lumpModels] = enc(w.models)
	l[lumpBrushes] = enc(w.brushes)
	l[lumpBrushSides] = enc(w.brushSides)
	l[lumpVertices] = enc(w.vertices)
	l[lumpIndices] = enc(w.indices)
	l[lumpEffects] = enc(w.effects)
	l[lumpFaces] = enc(w.faces)
	l[lumpLightmaps] = bytes.Join(w.lightmaps, nil)
	l[lumpLightVols] = enc(w.lightVols)
	l[lumpVisData] = w.vis
	return l
}

func (w *mapWriter) bytes() []byte {
	lumps := w.lumps()
	var b bytes.Buffer
	b.Write(magic[:])
	binary.Write(&b, binary.LittleEndian, int32(Version))
	off := headerSize
	for _, l := range lumps {
		binary.Write(&b, binary.LittleEndian, [2]int32{int32(off), int32(len(l))})
		off += len(l)
	}
	for _, l := range lumps {
		b.Write(l)
	}
	return b.Bytes()
}

// lumpDir returns the position of the directory entry of lump i.
func lumpDir(i int) int {
	return 8 + i*8
}

const (
	texWall = iota
	texWater
	texNoDraw
)

// Faces of the test map.
const (
	facePolygon = iota
	faceNoDraw
	faceMesh
	facePatch
	faceDegenerate
	faceBillboard
)

/*
testMap is a 256 unit world split at x=15 into two leafs.

Leaf 0 (cluster 0, x < 15) holds the solid brush [0,10]^3, leaf 1
(cluster 1, x >= 15) the water brush [20,30]x[0,10]x[0,10]. Cluster 0 only
sees itself, cluster 1 sees both.
*/
func testMap() *mapWriter {
	w := &mapWriter{
		entities: `{
"classname" "worldspawn"
"message" "test map"
}
// players
{
"classname" "info_player_deathmatch"
"origin" "0 0 24"
}
`,
	}
	w.texture("textures/base/wall", 0, ContentsSolid)
	w.texture("textures/liquids/water", 0, ContentsWater)
	w.texture("textures/test/nodraw", 0, ContentsSolid)

	world := [2]vec.Vec3{{-128, -128, -128}, {128, 128, 128}}
	split := w.plane(vec.Vec3{1, 0, 0}, 15)
	solid := w.box(vec.Vec3{0, 0, 0}, vec.Vec3{10, 10, 10}, texWall)
	water := w.box(vec.Vec3{20, 0, 0}, vec.Vec3{30, 10, 10}, texWater)
	w.node(split, ^int32(1), ^int32(0), world[0], world[1])
	w.leaf(0, world[0], vec.Vec3{15, 128, 128},
		[]int32{facePolygon, faceNoDraw, facePatch}, []int32{solid})
	w.leaf(1, vec.Vec3{15, -128, -128}, world[1],
		[]int32{faceNoDraw, faceMesh, facePatch, faceDegenerate, faceBillboard}, []int32{water})

	// polygon, a quad on top of the solid brush
	w.vertex(vec.Vec3{0, 10, 0})
	w.vertex(vec.Vec3{10, 10, 0})
	w.vertex(vec.Vec3{10, 10, 10})
	w.vertex(vec.Vec3{0, 10, 10})
	w.indices = append(w.indices, 0, 1, 2, 0, 2, 3)
	w.face(rawFace{Texture: texWall, Effect: -1, Type: int32(FacePolygon),
		FirstVertex: 0, NumVertices: 4, FirstIndex: 0, NumIndices: 6, Lightmap: 0})
	// no draw triangle
	w.vertex(vec.Vec3{0, 0, 0})
	w.vertex(vec.Vec3{1, 0, 0})
	w.vertex(vec.Vec3{0, 0, 1})
	w.indices = append(w.indices, 0, 1, 2)
	w.face(rawFace{Texture: texNoDraw, Effect: -1, Type: int32(FacePolygon),
		FirstVertex: 4, NumVertices: 3, FirstIndex: 6, NumIndices: 3, Lightmap: -1})
	// mesh triangle
	w.vertex(vec.Vec3{20, 10, 0})
	w.vertex(vec.Vec3{30, 10, 0})
	w.vertex(vec.Vec3{20, 10, 10})
	w.indices = append(w.indices, 0, 1, 2)
	w.face(rawFace{Texture: texWater, Effect: 0, Type: int32(FaceMesh),
		FirstVertex: 7, NumVertices: 3, FirstIndex: 9, NumIndices: 3, Lightmap: -1})
	// 3x3 patch
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			w.vertex(vec.Vec3{float32(c) * 5, 20, float32(r) * 5})
		}
	}
	w.face(rawFace{Texture: texWall, Effect: -1, Type: int32(FacePatch),
		FirstVertex: 10, NumVertices: 9, Lightmap: 0, PatchSize: [2]int32{3, 3}})
	// patch without control grid
	w.face(rawFace{Texture: texWall, Effect: -1, Type: int32(FacePatch),
		FirstVertex: 19, Lightmap: -1})
	// billboard
	w.vertex(vec.Vec3{50, 50, 50})
	w.face(rawFace{Texture: texWall, Effect: -1, Type: int32(FaceBillboard),
		FirstVertex: 19, NumVertices: 1, Lightmap: -1})

	w.effects = append(w.effects, rawEffect{Brush: water, VisibleSide: 4})
	copy(w.effects[0].Name[:], "fogs/water")

	w.models = append(w.models, rawModel{
		FirstFace: 0, NumFaces: int32(len(w.faces)), FirstBrush: 0, NumBrushes: 2,
	})
	w.models[0].Mins, w.models[0].Maxs = vec.MinMax(fileVec(world[0]), fileVec(world[1]))

	lm := make([]byte, LightmapSize*LightmapSize*3)
	for i := range lm {
		lm[i] = byte(i)
	}
	w.lightmaps = append(w.lightmaps, lm)

	// 5x5x3 grid over the world bounds
	for i := 0; i < 5*5*3; i++ {
		w.lightVols = append(w.lightVols, [8]byte{byte(i), 0, 0, 10, 20, 30, 0, 0})
	}

	w.vis = []byte{
		2, 0, 0, 0, // clusters
		1, 0, 0, 0, // bytes per cluster
		0x01,
		0x03,
	}
	return w
}

type fakeFiles map[string]bool

func (f fakeFiles) Exists(name string) bool {
	return f[name]
}

var testImages = fakeFiles{
	"textures/base/wall.tga":     true,
	"textures/liquids/water.jpg": true,
}
