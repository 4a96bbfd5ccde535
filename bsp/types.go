// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"goq3bsp/material"
	"goq3bsp/math/vec"
)

// Content flags of textures and brushes.
const (
	ContentsSolid         = 0x1
	ContentsLava          = 0x8
	ContentsSlime         = 0x10
	ContentsWater         = 0x20
	ContentsFog           = 0x40
	ContentsNotTeam1      = 0x80
	ContentsNotTeam2      = 0x100
	ContentsNoBotClip     = 0x200
	ContentsAreaPortal    = 0x8000
	ContentsPlayerClip    = 0x10000
	ContentsMonsterClip   = 0x20000
	ContentsTeleporter    = 0x40000
	ContentsJumpPad       = 0x80000
	ContentsClusterPortal = 0x100000
	ContentsDoNotEnter    = 0x200000
	ContentsBotClip       = 0x400000
	ContentsMover         = 0x800000
	ContentsOrigin        = 0x1000000
	ContentsBody          = 0x2000000
	ContentsCorpse        = 0x4000000
	ContentsDetail        = 0x8000000
	ContentsStructural    = 0x10000000
	ContentsTranslucent   = 0x20000000
	ContentsTrigger       = 0x40000000
	ContentsNoDrop        = -0x80000000

	MaskAll         = -1
	MaskSolid       = ContentsSolid
	MaskPlayerSolid = ContentsSolid | ContentsPlayerClip | ContentsBody
	MaskWater       = ContentsWater | ContentsLava | ContentsSlime
)

// Surface flags of textures.
const (
	SurfaceNoDamage = 1 << iota
	SurfaceSlick
	SurfaceSky
	SurfaceLadder
	SurfaceNoImpact
	SurfaceNoMarks
	SurfaceFlesh
	SurfaceNoDraw
	SurfaceHint
	SurfaceSkip
	SurfaceNoLightmap
	SurfacePointLight
	SurfaceMetalSteps
	SurfaceNoSteps
	SurfaceNonSolid
)

type FaceType int32

const (
	FaceNone FaceType = iota
	FacePolygon
	FacePatch
	FaceMesh
	FaceBillboard
	// FaceDisabled marks faces which must never be drawn. It never appears
	// in a file.
	FaceDisabled FaceType = -1
)

func (t FaceType) String() string {
	switch t {
	case FaceNone:
		return "none"
	case FacePolygon:
		return "polygon"
	case FacePatch:
		return "patch"
	case FaceMesh:
		return "mesh"
	case FaceBillboard:
		return "billboard"
	case FaceDisabled:
		return "disabled"
	}
	return "unknown"
}

type Color [4]byte

type Vertex struct {
	Position vec.Vec3
	TexCoord vec.Vec2
	LightMap vec.Vec2
	Normal   vec.Vec3
	Color    Color
}

// TextureInfo is a texture lump record. Material is resolved at load.
type TextureInfo struct {
	Name     string
	Flags    int32
	Contents int32
	Material *material.Material
}

type Face struct {
	Texture     int
	Effect      int
	Type        FaceType
	FirstVertex int
	NumVertices int
	FirstIndex  int
	NumIndices  int
	// Lightmap is -1 for faces without lightmap.
	Lightmap  int
	LMCorner  [2]int
	LMSize    [2]int
	LMOrigin  vec.Vec3
	LMVecs    [2]vec.Vec3
	Normal    vec.Vec3
	PatchSize [2]int
	// Patches is the index into Map.Patches for non degenerate patch faces,
	// else -1.
	Patches int
}

type Node struct {
	Plane    int
	Children [2]Child
	Mins     vec.Vec3
	Maxs     vec.Vec3
}

type Leaf struct {
	Cluster        int
	Area           int
	Mins           vec.Vec3
	Maxs           vec.Vec3
	FirstLeafFace  int
	NumLeafFaces   int
	FirstLeafBrush int
	NumLeafBrushes int
}

type Brush struct {
	FirstSide int
	NumSides  int
	Texture   int
}

type BrushSide struct {
	Plane   int
	Texture int
}

// Model is a submodel. Model 0 is the world, the others are doors,
// platforms and similar moving parts.
type Model struct {
	Mins       vec.Vec3
	Maxs       vec.Vec3
	FirstFace  int
	NumFaces   int
	FirstBrush int
	NumBrushes int
}

// Effect is a fog volume reference.
type Effect struct {
	Name        string
	Brush       int
	VisibleSide int
}

// LightSample is one cell of the light grid.
type LightSample struct {
	Ambient  [3]byte
	Directed [3]byte
	// Direction is the unit vector pointing to the light.
	Direction vec.Vec3
}

// VisData is the cluster to cluster visibility bit matrix.
type VisData struct {
	NumClusters int
	BytesPerVis int
	Bits        []byte
}
