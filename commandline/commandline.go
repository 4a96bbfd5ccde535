// SPDX-License-Identifier: GPL-2.0-or-later

package commandline

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"goq3bsp/math/vec"
)

var (
	entities bool

	draw = boolInt{false, 0}

	contents int
	radius   float64

	from vecFlag
	to   vecFlag
	mins vecFlag
	maxs vecFlag

	sets stringList

	basedir string
	game    string
)

type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

// vecFlag parses "x y z", commas are accepted as separators.
type vecFlag struct {
	set bool
	v   vec.Vec3
}

func (f *vecFlag) Set(s string) error {
	fs := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fs) != 3 {
		return fmt.Errorf("want 3 components, got %d", len(fs))
	}
	var v vec.Vec3
	for i, c := range fs {
		x, err := strconv.ParseFloat(c, 32)
		if err != nil {
			return err
		}
		v[i] = float32(x)
	}
	f.v = v
	f.set = true
	return nil
}

func (f *vecFlag) String() string {
	return fmt.Sprintf("%g %g %g", f.v[0], f.v[1], f.v[2])
}

type stringList []string

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func init() {
	flag.BoolVar(&entities, "entities", false, "print the entities as json")
	flag.Var(&draw, "draw", "run the draw walk from a player start, optional index of the start")

	flag.IntVar(&contents, "contents", 1, "content flags of trace, 0 for all brushes")
	flag.Float64Var(&radius, "radius", 0, "trace a sphere of this radius")

	flag.Var(&from, "from", "trace start, \"x y z\"")
	flag.Var(&to, "to", "trace end, \"x y z\"")
	flag.Var(&mins, "mins", "trace a box with these mins")
	flag.Var(&maxs, "maxs", "trace a box with these maxs")

	flag.Var(&sets, "set", "set a cvar with name=value or reset it with name, may be repeated")

	flag.StringVar(&basedir, "basedir", "", "load maps from this install instead of the OS file system")
	flag.StringVar(&game, "game", "baseq3", "game directory below basedir")
}

func BaseDirectory() string {
	return basedir
}

func Game() string {
	return game
}

func Entities() bool {
	return entities
}

func Draw() bool {
	return draw.set
}

func DrawStart() int {
	return draw.num
}

func Contents() int {
	return contents
}

func Radius() float32 {
	return float32(radius)
}

// Trace returns the trace segment and whether it was given.
func Trace() (vec.Vec3, vec.Vec3, bool) {
	return from.v, to.v, from.set && to.set
}

// Box returns the trace box and whether it was given.
func Box() (vec.Vec3, vec.Vec3, bool) {
	return mins.v, maxs.v, mins.set || maxs.set
}

// Assignment is one -set argument. A bare name resets the cvar.
type Assignment struct {
	Name  string
	Value string
	Reset bool
}

func Sets() ([]Assignment, error) {
	var r []Assignment
	for _, s := range sets {
		n, v, ok := strings.Cut(s, "=")
		if n == "" {
			return nil, fmt.Errorf("bad -set %q, want name=value or name", s)
		}
		r = append(r, Assignment{Name: n, Value: v, Reset: !ok})
	}
	return r, nil
}
