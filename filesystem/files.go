// SPDX-License-Identifier: GPL-2.0-or-later

// Package filesystem is the resource store maps and textures are loaded
// from. It is a union of OS directories and pk3 archives; later mounts
// shadow earlier ones.
package filesystem

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/tools/godoc/vfs"
	"golang.org/x/tools/godoc/vfs/zipfs"
)

type File = vfs.ReadSeekCloser

type Store struct {
	mutex    sync.RWMutex
	ns       vfs.NameSpace
	archives []*zip.ReadCloser
	mounts   []string
}

func New() *Store {
	return &Store{ns: vfs.NewNameSpace()}
}

// AddDir mounts the OS directory dir at the root of the store.
func (s *Store) AddDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, "mount %s", dir)
	}
	if !fi.IsDir() {
		return errors.Errorf("mount %s: not a directory", dir)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.ns.Bind("/", vfs.OS(dir), "/", vfs.BindBefore)
	s.mounts = append(s.mounts, dir)
	return nil
}

// AddArchive mounts the zip (pk3) archive at name at the root of the store.
func (s *Store) AddArchive(name string) error {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return errors.Wrapf(err, "mount %s", name)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.ns.Bind("/", zipfs.New(rc, filepath.Base(name)), "/", vfs.BindBefore)
	s.archives = append(s.archives, rc)
	s.mounts = append(s.mounts, name)
	return nil
}

// AddGameDir mounts dir followed by every pk3 inside it in lexical order,
// so pak1.pk3 overrides pak0.pk3 and both override loose files.
func (s *Store) AddGameDir(dir string) error {
	if err := s.AddDir(dir); err != nil {
		return err
	}
	paks, err := filepath.Glob(filepath.Join(dir, "*.pk3"))
	if err != nil {
		return errors.Wrapf(err, "scan %s", dir)
	}
	sort.Strings(paks)
	for _, p := range paks {
		if err := s.AddArchive(p); err != nil {
			return err
		}
	}
	return nil
}

// Mounts returns the mounted directories and archives, oldest first.
func (s *Store) Mounts() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]string(nil), s.mounts...)
}

func (s *Store) Open(name string) (File, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	f, err := s.ns.Open(path.Join("/", filepath.ToSlash(name)))
	if err != nil {
		return nil, errors.Wrapf(os.ErrNotExist, "open %s", name)
	}
	return f, nil
}

func (s *Store) Exists(name string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	fi, err := s.ns.Stat(path.Join("/", filepath.ToSlash(name)))
	return err == nil && !fi.IsDir()
}

func (s *Store) ReadFile(name string) ([]byte, error) {
	file, err := s.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// Close releases all mounted archives.
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var first error
	for _, a := range s.archives {
		if err := a.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.archives = nil
	s.mounts = nil
	s.ns = vfs.NewNameSpace()
	return first
}

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func StripExt(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}

// CleanName turns the backslash separated names found in map files into
// store names.
func CleanName(name string) string {
	return strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "/")
}
