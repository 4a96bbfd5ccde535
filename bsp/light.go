// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/chewxy/math32"

	"goq3bsp/math"
	"goq3bsp/math/vec"
)

// gridSize is the light grid cell size in file axes.
var gridSize = vec.Vec3{64, 64, 128}

// lightGrid places the light volume samples. It works in file axes.
type lightGrid struct {
	origin vec.Vec3
	bounds [3]int
}

// newLightGrid derives the grid from the world bounds. ok is false if the
// sample count does not fit the bounds.
func newLightGrid(world Model, samples int) (lightGrid, bool) {
	mins, maxs := vec.MinMax(vec.YUpToZUp(world.Mins), vec.YUpToZUp(world.Maxs))
	var g lightGrid
	for i := 0; i < 3; i++ {
		g.origin[i] = gridSize[i] * math32.Ceil(mins[i]/gridSize[i])
		top := gridSize[i] * math32.Floor(maxs[i]/gridSize[i])
		g.bounds[i] = int((top-g.origin[i])/gridSize[i]) + 1
		if g.bounds[i] < 1 {
			return lightGrid{}, false
		}
	}
	return g, g.bounds[0]*g.bounds[1]*g.bounds[2] == samples
}

func (g *lightGrid) cell(p vec.Vec3) int {
	f := vec.YUpToZUp(p)
	var c [3]int
	for i := 0; i < 3; i++ {
		v := int(math32.Floor((f[i] - g.origin[i]) / gridSize[i]))
		c[i] = math.Clamp(0, v, g.bounds[i]-1)
	}
	return c[0] + c[1]*g.bounds[0] + c[2]*g.bounds[0]*g.bounds[1]
}

// decodeDirection turns the packed latitude and longitude of a light
// volume into a unit vector in file axes.
func decodeDirection(lat, lng byte) vec.Vec3 {
	const step = 2 * math32.Pi / 256
	a := float32(lat) * step
	b := float32(lng) * step
	return vec.Vec3{
		math32.Cos(a) * math32.Sin(b),
		math32.Sin(a) * math32.Sin(b),
		math32.Cos(b),
	}
}

var fullBright = LightSample{
	Ambient:   [3]byte{255, 255, 255},
	Direction: vec.Vec3{0, 1, 0},
}

// LightAt returns the light grid sample nearest to p. Maps without light
// grid are fully lit.
func (m *Map) LightAt(p vec.Vec3) LightSample {
	if !m.Loaded() || !m.hasGrid {
		return fullBright
	}
	return m.LightVols[m.grid.cell(p)]
}
