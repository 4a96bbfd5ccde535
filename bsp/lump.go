// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"
)

const (
	lumpEntities = iota
	lumpTextures
	lumpPlanes
	lumpNodes
	lumpLeafs
	lumpLeafFaces
	lumpLeafBrushes
	lumpModels
	lumpBrushes
	lumpBrushSides
	lumpVertices
	lumpIndices
	lumpEffects
	lumpFaces
	lumpLightmaps
	lumpLightVols
	lumpVisData
	numLumps
)

var (
	magic = [4]byte{'I', 'B', 'S', 'P'}
)

const (
	Version    = 0x2e
	headerSize = 8 + numLumps*8

	LightmapSize = 128
)

var lumpNames = [numLumps]string{
	"entities", "textures", "planes", "nodes", "leafs", "leaffaces",
	"leafbrushes", "models", "brushes", "brushsides", "vertices",
	"indices", "effects", "faces", "lightmaps", "lightvols", "visdata",
}

// recordSize of 0 means the lump has no fixed record size.
var recordSize = [numLumps]int{
	lumpEntities:    0,
	lumpTextures:    72,
	lumpPlanes:      16,
	lumpNodes:       36,
	lumpLeafs:       48,
	lumpLeafFaces:   4,
	lumpLeafBrushes: 4,
	lumpModels:      40,
	lumpBrushes:     12,
	lumpBrushSides:  8,
	lumpVertices:    44,
	lumpIndices:     4,
	lumpEffects:     72,
	lumpFaces:       104,
	lumpLightmaps:   LightmapSize * LightmapSize * 3,
	lumpLightVols:   8,
	lumpVisData:     0,
}

// called lump_t in c
type directory struct {
	Offset int
	Length int
}

type header struct {
	Version int32
	Lumps   [numLumps]directory
}

func readHeader(d *decoder) (*header, error) {
	if len(d.buf) < headerSize {
		return nil, errors.Wrapf(ErrTruncated, "file has %d bytes, header needs %d", len(d.buf), headerSize)
	}
	if [4]byte(d.buf[0:4]) != magic {
		return nil, errors.Wrapf(ErrBadMagic, "got %q", d.buf[0:4])
	}
	h := &header{Version: d.int32(4)}
	if h.Version != Version {
		return nil, errors.Wrapf(ErrBadVersion, "got %#x, want %#x", h.Version, Version)
	}
	for i := range h.Lumps {
		off := 8 + i*8
		l := directory{Offset: d.int(off), Length: d.int(off + 4)}
		if l.Offset < 0 || l.Length < 0 || l.Offset > len(d.buf) || l.Length > len(d.buf)-l.Offset {
			return nil, errors.Wrapf(ErrLumpBounds, "lump %s at %d+%d, file has %d bytes",
				lumpNames[i], l.Offset, l.Length, len(d.buf))
		}
		if rs := recordSize[i]; rs != 0 && l.Length%rs != 0 {
			return nil, errors.Wrapf(ErrLumpSize, "lump %s has %d bytes, not a multiple of %d",
				lumpNames[i], l.Length, rs)
		}
		h.Lumps[i] = l
	}
	return h, nil
}

// records returns the number of records of lump i and the offset of the
// first one.
func (h *header) records(i int) (int, int) {
	l := h.Lumps[i]
	if recordSize[i] == 0 {
		return 0, l.Offset
	}
	return l.Length / recordSize[i], l.Offset
}
