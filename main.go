// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"text/tabwriter"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"goq3bsp/bsp"
	"goq3bsp/camera"
	"goq3bsp/commandline"
	"goq3bsp/cvar"
	"goq3bsp/filesystem"
	"goq3bsp/material"
	"goq3bsp/math"
	"goq3bsp/math/vec"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] map.bsp...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)
	if err := run(log, flag.Args(), os.Stdout); err != nil {
		log.Error("goq3bsp failed", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, names []string, w io.Writer) error {
	if len(names) == 0 {
		flag.Usage()
		return errors.New("no map given")
	}
	if err := applySets(log); err != nil {
		return err
	}

	res := bsp.Resources{Logger: log}
	if dir := commandline.BaseDirectory(); dir != "" {
		files := filesystem.New()
		defer files.Close()
		if err := files.AddGameDir(filepath.Join(dir, commandline.Game())); err != nil {
			return err
		}
		res.Files = files
		res.Materials = material.NewManager(files, log)
	} else {
		res.Materials = material.NewManager(nil, log)
	}

	maps := make([]*bsp.Map, len(names))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			m := bsp.New(res)
			if err := m.Load(name); err != nil {
				return errors.Wrap(err, name)
			}
			maps[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, m := range maps {
		printSummary(w, m)
		if commandline.Entities() {
			if err := printEntities(w, m); err != nil {
				return err
			}
		}
		if from, to, ok := commandline.Trace(); ok {
			printTrace(w, m, from, to)
		}
		if commandline.Draw() {
			if err := printDraw(w, m, commandline.DrawStart()); err != nil {
				return err
			}
		}
	}
	return nil
}

func applySets(log *slog.Logger) error {
	sets, err := commandline.Sets()
	if err != nil {
		return err
	}
	for _, s := range sets {
		if s.Reset {
			cv, ok := cvar.Get(s.Name)
			if !ok {
				return errors.Errorf("can not reset unknown cvar %s", s.Name)
			}
			cv.Reset()
			log.Debug("reset cvar", "name", s.Name, "value", cv.DefaultValue())
			continue
		}
		ok, err := cvar.Execute([]string{s.Name, s.Value}, io.Discard)
		if err != nil {
			return err
		}
		if !ok {
			log.Warn("unknown cvar", "name", s.Name)
			cvar.Set(s.Name, s.Value)
		}
	}
	return nil
}

func printSummary(w io.Writer, m *bsp.Map) {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	defer tw.Flush()
	fmt.Fprintf(tw, "%s\t%s\n", m.Name(), m.ID())
	for _, c := range []struct {
		name string
		n    int
	}{
		{"textures", len(m.Textures)},
		{"planes", len(m.Planes)},
		{"nodes", len(m.Nodes)},
		{"leafs", len(m.Leafs)},
		{"leaf faces", len(m.LeafFaces)},
		{"leaf brushes", len(m.LeafBrushes)},
		{"models", len(m.Models)},
		{"brushes", len(m.Brushes)},
		{"brush sides", len(m.BrushSides)},
		{"vertices", len(m.Vertices)},
		{"indices", len(m.Indices)},
		{"effects", len(m.Effects)},
		{"faces", len(m.Faces)},
		{"lightmaps", len(m.Lightmaps)},
		{"light volumes", len(m.LightVols)},
		{"clusters", m.Vis.NumClusters},
		{"patches", len(m.Patches)},
		{"entities", len(m.Entities())},
	} {
		fmt.Fprintf(tw, "  %s\t%d\n", c.name, c.n)
	}
}

func printEntities(w io.Writer, m *bsp.Map) error {
	list := &structpb.ListValue{}
	for _, e := range m.Entities() {
		list.Values = append(list.Values, structpb.NewStructValue(e.Proto()))
	}
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(list)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func printTrace(w io.Writer, m *bsp.Map, from, to vec.Vec3) {
	contents := commandline.Contents()
	var r bsp.TraceResult
	if radius := commandline.Radius(); radius > 0 {
		r = m.TraceSphere(from, to, radius, contents)
	} else if mins, maxs, ok := commandline.Box(); ok {
		r = m.TraceBox(from, to, mins, maxs, contents)
	} else {
		r = m.Trace(from, to, contents)
	}
	fmt.Fprintf(w, "trace %v -> %v\n", from, to)
	fmt.Fprintf(w, "  fraction %g end %v normal %v startsout %v allsolid %v\n",
		r.Fraction, r.EndPos, r.Normal, r.StartsOut, r.AllSolid)
	fmt.Fprintf(w, "  start leaf %d contents %#x, end leaf %d contents %#x\n",
		m.FindLeaf(from), m.PointContents(from), m.FindLeaf(to), m.PointContents(to))
}

type countingRenderer struct {
	vertices  int
	indices   int
	lightmaps int
}

func (c *countingRenderer) DrawBatch(b *bsp.Batch) {
	c.vertices += len(b.Vertices)
	c.indices += len(b.Indices)
	if b.Lightmap != nil {
		c.lightmaps++
	}
}

// viewerAt returns a camera at the n-th player start looking along its angle.
func viewerAt(m *bsp.Map, n int) (*camera.Camera, error) {
	var starts []*bsp.Entity
	for _, e := range m.Entities() {
		switch c, _ := e.ClassName(); c {
		case "info_player_start", "info_player_deathmatch":
			starts = append(starts, e)
		}
	}
	if n < 0 || n >= len(starts) {
		return nil, errors.Errorf("%s: no player start %d, have %d", m.Name(), n, len(starts))
	}
	e := starts[n]
	pos, ok := e.Origin()
	if !ok {
		return nil, errors.Errorf("%s: player start %d has no origin", m.Name(), n)
	}
	var yaw float32
	if a, ok := e.Value("angle"); ok {
		if _, err := fmt.Sscan(a, &yaw); err != nil {
			return nil, errors.Wrapf(err, "%s: bad angle %q", m.Name(), a)
		}
	}
	yaw = math.DegToRad(math.AngleMod32(yaw))
	s, c := math32.Sincos(yaw)
	forward := vec.ZUpToYUp(vec.Vec3{c, s, 0})
	return camera.New(pos, vec.Add(pos, forward), vec.Vec3{0, 1, 0}, 90, 4.0/3.0, 4, 8192), nil
}

func printDraw(w io.Writer, m *bsp.Map, start int) error {
	viewer, err := viewerAt(m, start)
	if err != nil {
		return err
	}
	var r countingRenderer
	stats := m.Draw(&r, viewer)
	fmt.Fprintf(w, "draw from %v leaf %d\n", viewer.Position(), m.FindLeaf(viewer.Position()))
	fmt.Fprintf(w, "  leafs %d pvs rejected %d frustum rejected %d\n",
		stats.LeafsTested, stats.PVSRejected, stats.FrustumRejected)
	fmt.Fprintf(w, "  faces %d nodraw %d batches %d vertices %d indices %d lightmapped %d\n",
		stats.FacesDrawn, stats.NoDraw, stats.Batches, r.vertices, r.indices, r.lightmaps)
	light := m.LightAt(viewer.Position())
	fmt.Fprintf(w, "  light ambient %v directed %v\n", light.Ambient, light.Directed)
	return nil
}
