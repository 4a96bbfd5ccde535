// SPDX-License-Identifier: GPL-2.0-or-later

package material

import (
	"testing"

	"goq3bsp/texture"
)

type files map[string]bool

func (f files) Exists(name string) bool {
	return f[name]
}

func TestResolveExisting(t *testing.T) {
	mm := NewManager(nil, nil)
	wall := New("wall_shader")
	wall.SetSingleTexture(texture.NewFileTexture("wall", "textures/base/wall.tga", texture.TexPrefMipMap))
	if err := mm.Add(wall); err != nil {
		t.Fatal(err)
	}
	if got := mm.Resolve("textures/base/wall"); got != wall {
		t.Errorf("Resolve(textures/base/wall) = %v, want %v", got.Name(), wall.Name())
	}
	if got := mm.Resolve("wall_shader"); got != wall {
		t.Errorf("Resolve(wall_shader) = %v", got.Name())
	}
	if err := mm.Add(New("wall_shader")); err == nil {
		t.Errorf("Add(wall_shader) twice succeeded")
	}
}

func TestResolveProbe(t *testing.T) {
	for _, tc := range []struct {
		name string
		fs   files
		path string
	}{
		{"textures/base/floor", files{"textures/base/floor.tga": true}, "textures/base/floor.tga"},
		{"textures/base/floor", files{"textures/base/floor.jpg": true}, "textures/base/floor.jpg"},
		{"textures/base/floor", files{"textures/base/floor.png": true, "textures/base/floor.jpeg": true}, "textures/base/floor.jpeg"},
		{`textures\base\floor.jpg`, files{"textures/base/floor.tga": true}, "textures/base/floor.tga"},
		{"textures/base/floor.jpg", files{"textures/base/floor.jpg": true}, "textures/base/floor.jpg"},
	} {
		mm := NewManager(tc.fs, nil)
		m := mm.Resolve(tc.name)
		if m.NoDraw {
			t.Errorf("Resolve(%q) = NoDraw", tc.name)
			continue
		}
		if m.StageCount() != 1 {
			t.Errorf("Resolve(%q) has %d stages, want 1", tc.name, m.StageCount())
			continue
		}
		if got := m.Stages[0].Texture.Path; got != tc.path {
			t.Errorf("Resolve(%q) texture = %q, want %q", tc.name, got, tc.path)
		}
		if again := mm.Resolve(tc.name); again != m {
			t.Errorf("Resolve(%q) not cached", tc.name)
		}
	}
}

func TestResolveMissing(t *testing.T) {
	mm := NewManager(files{}, nil)
	m := mm.Resolve("textures/common/caulk")
	if !m.NoDraw {
		t.Errorf("Resolve(caulk).NoDraw = false")
	}
	if m.StageCount() != 0 {
		t.Errorf("NoDraw material has %d stages", m.StageCount())
	}
	if got, ok := mm.Get("textures/common/caulk"); !ok || got != m {
		t.Errorf("Get(caulk) = %v, %v", got, ok)
	}
}

func TestGetByFilename(t *testing.T) {
	mm := NewManager(nil, nil)
	m, err := mm.Create("sky")
	if err != nil {
		t.Fatal(err)
	}
	m.SetSingleTexture(texture.NewFileTexture("env/sky", "env/sky.jpg", texture.TexPrefNone))
	if _, ok := mm.GetByFilename("env/sky"); ok {
		t.Errorf("stages set after Create are not indexed, GetByFilename found one")
	}
	if got, ok := mm.GetByFilename("sky"); !ok || got != m {
		t.Errorf("GetByFilename(sky) = %v, %v", got, ok)
	}
}

func TestTextureProbeCached(t *testing.T) {
	fs := files{"a.tga": true}
	mm := NewManager(fs, nil)
	t1, ok := mm.Texture("a")
	if !ok {
		t.Fatalf("Texture(a) not found")
	}
	delete(fs, "a.tga")
	t2, ok := mm.Texture("a")
	if !ok || t1.ID() != t2.ID() {
		t.Errorf("Texture(a) not cached")
	}
	if _, ok := mm.Texture("b"); ok {
		t.Errorf("Texture(b) found")
	}
}

func TestCreateRawTexture(t *testing.T) {
	mm := NewManager(nil, nil)
	data := make([]byte, 4*4*3)
	tex := mm.CreateRawTexture("lm", 4, 4, data, texture.TexPrefClamp)
	if tex.Typ != texture.ColorTypeRGB || tex.Width != 4 || len(tex.Data) != len(data) {
		t.Errorf("CreateRawTexture = %+v", tex)
	}
}
