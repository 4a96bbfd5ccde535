// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"
)

var (
	ErrBadMagic     = errors.New("not an IBSP file")
	ErrBadVersion   = errors.New("unsupported IBSP version")
	ErrTruncated    = errors.New("truncated data")
	ErrLumpBounds   = errors.New("lump outside of file")
	ErrLumpSize     = errors.New("lump size is not a multiple of its record size")
	ErrBadReference = errors.New("index out of range")
	ErrEntitySyntax = errors.New("bad entity syntax")
	ErrNotLoaded    = errors.New("map not loaded")
)

// IsFormatError reports whether err was caused by malformed map data.
func IsFormatError(err error) bool {
	for _, e := range []error{
		ErrBadMagic, ErrBadVersion, ErrTruncated, ErrLumpBounds,
		ErrLumpSize, ErrBadReference, ErrEntitySyntax,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
