// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

// FaceSet is a bit set of face indices.
type FaceSet struct {
	bits []uint64
}

func NewFaceSet(n int) *FaceSet {
	s := &FaceSet{}
	s.Reset(n)
	return s
}

// Reset clears the set and sizes it for n faces.
func (s *FaceSet) Reset(n int) {
	words := (n + 63) / 64
	if cap(s.bits) < words {
		s.bits = make([]uint64, words)
		return
	}
	s.bits = s.bits[:words]
	clear(s.bits)
}

func (s *FaceSet) Set(i int) {
	s.bits[i>>6] |= 1 << (i & 63)
}

func (s *FaceSet) Unset(i int) {
	s.bits[i>>6] &^= 1 << (i & 63)
}

func (s *FaceSet) IsSet(i int) bool {
	return s.bits[i>>6]&(1<<(i&63)) != 0
}
