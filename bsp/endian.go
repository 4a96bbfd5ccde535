// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"encoding/binary"
	"math"
	"math/bits"
)

// hostBigEndian reports the byte order of the running machine.
var hostBigEndian = binary.NativeEndian.Uint16([]byte{0, 1}) == 1

// decoder reads the little endian words of a map file. Words are first
// taken in host order, like a plain memory copy would do, and then
// converted by little32. bigHost selects the simulated host order.
type decoder struct {
	buf     []byte
	bigHost bool
}

func newDecoder(buf []byte) *decoder {
	return &decoder{buf: buf, bigHost: hostBigEndian}
}

func (d *decoder) host() binary.ByteOrder {
	if d.bigHost {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (d *decoder) little32(in uint32) uint32 {
	if d.bigHost {
		return bits.ReverseBytes32(in)
	}
	return in
}

func (d *decoder) uint32(off int) uint32 {
	return d.little32(d.host().Uint32(d.buf[off:]))
}

func (d *decoder) int32(off int) int32 {
	return int32(d.uint32(off))
}

func (d *decoder) int(off int) int {
	return int(d.int32(off))
}

func (d *decoder) float(off int) float32 {
	return math.Float32frombits(d.uint32(off))
}

func (d *decoder) vec3(off int) [3]float32 {
	return [3]float32{d.float(off), d.float(off + 4), d.float(off + 8)}
}

func (d *decoder) ivec3(off int) [3]float32 {
	return [3]float32{float32(d.int32(off)), float32(d.int32(off + 4)), float32(d.int32(off + 8))}
}

// name returns the NUL terminated string of at most n bytes at off.
func (d *decoder) name(off, n int) string {
	b := d.buf[off : off+n]
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
