// SPDX-License-Identifier: GPL-2.0-or-later

// Package texture holds renderer independent texture handles. A backend
// uploads the data and keys its own objects by ID.
package texture

import (
	"github.com/google/uuid"
)

type TexPref uint32

const (
	TexPrefMipMap TexPref = 1 << iota
	TexPrefLinear
	TexPrefNearest
	TexPrefAlpha
	TexPrefClampS
	TexPrefClampT
	TexPrefClampR
	TexPrefPersist
	TexPrefNoPicMip
	TexPrefNone TexPref = 0

	TexPrefClamp = TexPrefClampS | TexPrefClampT | TexPrefClampR
)

type ColorType int

const (
	// ColorTypeFile textures have no pixel data yet; Path names the image
	// inside the resource store.
	ColorTypeFile ColorType = iota
	ColorTypeRGB
	ColorTypeRGBA
)

type Texture struct {
	id     uuid.UUID
	Width  int32
	Height int32
	flags  TexPref
	name   string
	Typ    ColorType
	Path   string
	Data   []byte
}

func NewTexture(w, h int32, flags TexPref, name string, typ ColorType, data []byte) *Texture {
	return &Texture{
		id:     uuid.Must(uuid.NewV7()),
		Width:  w,
		Height: h,
		flags:  flags,
		name:   name,
		Typ:    typ,
		Data:   data,
	}
}

// NewFileTexture returns a texture whose image lives at path in the
// resource store.
func NewFileTexture(name, path string, flags TexPref) *Texture {
	t := NewTexture(0, 0, flags, name, ColorTypeFile, nil)
	t.Path = path
	return t
}

func (t *Texture) ID() uuid.UUID {
	return t.id
}

func (t *Texture) Name() string {
	return t.name
}

func (t *Texture) Texels() int {
	if t.Flags(TexPrefMipMap) {
		return int(t.Width * t.Height * 4 / 3)
	}
	return int(t.Width * t.Height)
}

func (t *Texture) Flags(f TexPref) bool {
	return t.flags&f != 0
}
