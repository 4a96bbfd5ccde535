// SPDX-License-Identifier: GPL-2.0-or-later

// Package material maps the shader names referenced by maps to materials,
// a list of texture stages the renderer applies in order.
package material

import (
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"goq3bsp/filesystem"
	"goq3bsp/texture"
)

type TexEnv int

const (
	TexEnvModulate TexEnv = iota
	TexEnvReplace
	TexEnvAdd
	TexEnvDecal
)

type Stage struct {
	Texture *texture.Texture
	Env     TexEnv
}

type Material struct {
	name   string
	Stages []Stage
	// NoDraw materials are resolved but never produce draw calls.
	NoDraw bool
}

func New(name string) *Material {
	return &Material{name: name}
}

func (m *Material) Name() string {
	return m.name
}

// SetSingleTexture replaces all stages with one replacing stage of t.
func (m *Material) SetSingleTexture(t *texture.Texture) {
	m.Stages = []Stage{{Texture: t, Env: TexEnvReplace}}
}

// StageCount is the number of texture units the material occupies. The
// next free unit is available to the caller.
func (m *Material) StageCount() int {
	return len(m.Stages)
}

// Prober reports whether the resource store holds a file.
type Prober interface {
	Exists(name string) bool
}

// imageExtensions are tried in order when a shader name has no image.
var imageExtensions = []string{".tga", ".jpg", ".jpeg", ".png"}

type Manager struct {
	mutex    sync.Mutex
	files    Prober
	log      *slog.Logger
	byName   map[string]*Material
	byFile   map[string]*Material
	textures map[string]*texture.Texture
}

// NewManager returns a manager probing files for images. files may be nil,
// in which case no texture is ever found.
func NewManager(files Prober, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		files:    files,
		log:      log,
		byName:   make(map[string]*Material),
		byFile:   make(map[string]*Material),
		textures: make(map[string]*texture.Texture),
	}
}

func fileKey(name string) string {
	return filesystem.StripExt(filesystem.CleanName(name))
}

// Add registers m by its name and by the file names of its stage textures.
func (mm *Manager) Add(m *Material) error {
	mm.mutex.Lock()
	defer mm.mutex.Unlock()
	return mm.add(m)
}

func (mm *Manager) add(m *Material) error {
	if _, ok := mm.byName[m.name]; ok {
		return errors.Errorf("material %s already defined", m.name)
	}
	mm.byName[m.name] = m
	for _, s := range m.Stages {
		if s.Texture == nil {
			continue
		}
		p := s.Texture.Path
		if p == "" {
			p = s.Texture.Name()
		}
		if _, ok := mm.byFile[fileKey(p)]; !ok {
			mm.byFile[fileKey(p)] = m
		}
	}
	return nil
}

func (mm *Manager) Get(name string) (*Material, bool) {
	mm.mutex.Lock()
	defer mm.mutex.Unlock()
	m, ok := mm.byName[name]
	return m, ok
}

// GetByFilename returns the material one of whose stages uses the image
// name, with or without extension.
func (mm *Manager) GetByFilename(name string) (*Material, bool) {
	mm.mutex.Lock()
	defer mm.mutex.Unlock()
	if m, ok := mm.byFile[fileKey(name)]; ok {
		return m, true
	}
	m, ok := mm.byName[name]
	return m, ok
}

func (mm *Manager) Create(name string) (*Material, error) {
	m := New(name)
	if err := mm.Add(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Texture returns the image texture for name, probing the common image
// extensions. The second result is false when no image exists.
func (mm *Manager) Texture(name string) (*texture.Texture, bool) {
	mm.mutex.Lock()
	defer mm.mutex.Unlock()
	return mm.texture(name)
}

func (mm *Manager) texture(name string) (*texture.Texture, bool) {
	key := fileKey(name)
	if t, ok := mm.textures[key]; ok {
		return t, true
	}
	if mm.files == nil {
		return nil, false
	}
	clean := filesystem.CleanName(name)
	candidates := make([]string, 0, len(imageExtensions)+1)
	if filesystem.Ext(clean) != "" {
		candidates = append(candidates, clean)
	}
	for _, ext := range imageExtensions {
		candidates = append(candidates, key+ext)
	}
	for _, c := range candidates {
		if mm.files.Exists(c) {
			t := texture.NewFileTexture(key, c, texture.TexPrefMipMap)
			mm.textures[key] = t
			return t, true
		}
	}
	return nil, false
}

// Resolve returns the material for the shader name. An unknown shader with
// an image on disk becomes a single texture material. Without image the
// result is a NoDraw material; Resolve never fails.
func (mm *Manager) Resolve(name string) *Material {
	mm.mutex.Lock()
	defer mm.mutex.Unlock()
	if m, ok := mm.byFile[fileKey(name)]; ok {
		return m
	}
	if m, ok := mm.byName[name]; ok {
		return m
	}
	m := New(name)
	if t, ok := mm.texture(name); ok {
		m.SetSingleTexture(t)
	} else {
		mm.log.Warn("No image for material, not drawing it", "material", name)
		m.NoDraw = true
	}
	if err := mm.add(m); err != nil {
		// unreachable, both lookups above missed
		mm.log.Error("Could not register material", "material", name, "err", err)
	}
	return m
}

// CreateRawTexture wraps RGB pixel data into a texture owned by the caller.
func (mm *Manager) CreateRawTexture(name string, w, h int32, rgb []byte, flags texture.TexPref) *texture.Texture {
	return texture.NewTexture(w, h, flags, name, texture.ColorTypeRGB, rgb)
}
