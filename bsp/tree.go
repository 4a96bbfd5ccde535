// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"fmt"

	"goq3bsp/math/vec"
)

// Child is a node reference, either an inner node or a leaf.
type Child struct {
	leaf  bool
	index int
}

func NodeChild(i int) Child {
	return Child{index: i}
}

func LeafChild(i int) Child {
	return Child{leaf: true, index: i}
}

// decodeChild turns the on disk encoding, negative values being ~leaf,
// into a Child.
func decodeChild(c int32) Child {
	if c < 0 {
		return LeafChild(int(^c))
	}
	return NodeChild(int(c))
}

func (c Child) IsLeaf() bool {
	return c.leaf
}

func (c Child) Index() int {
	return c.index
}

func (c Child) String() string {
	if c.leaf {
		return fmt.Sprintf("leaf %d", c.index)
	}
	return fmt.Sprintf("node %d", c.index)
}

// root is node 0, or leaf 0 for maps without nodes.
func (g *Geometry) root() Child {
	if len(g.Nodes) == 0 {
		return LeafChild(0)
	}
	return NodeChild(0)
}

// FindLeaf returns the index of the leaf containing p or -1 if the map is
// not loaded.
func (m *Map) FindLeaf(p vec.Vec3) int {
	if !m.Loaded() {
		return -1
	}
	return m.findLeaf(p)
}

func (g *Geometry) findLeaf(p vec.Vec3) int {
	c := g.root()
	for !c.IsLeaf() {
		n := &g.Nodes[c.Index()]
		plane := &g.Planes[n.Plane]
		if plane.Distance(p) >= 0 {
			c = n.Children[0]
		} else {
			c = n.Children[1]
		}
	}
	return c.Index()
}

// IsClusterVisible reports whether cluster to can be seen from cluster
// from. Without visibility data everything is visible.
func (m *Map) IsClusterVisible(from, to int) bool {
	if !m.Loaded() {
		return false
	}
	return m.isClusterVisible(from, to)
}

func (g *Geometry) isClusterVisible(from, to int) bool {
	if len(g.Vis.Bits) == 0 || from < 0 {
		return true
	}
	if to < 0 || to >= g.Vis.NumClusters || from >= g.Vis.NumClusters {
		return false
	}
	// a cluster always sees its own leafs
	if from == to {
		return true
	}
	b := g.Vis.Bits[from*g.Vis.BytesPerVis+to>>3]
	return b&(1<<(to&7)) != 0
}

// PointContents returns the ORed contents of all brushes containing p.
func (m *Map) PointContents(p vec.Vec3) int {
	if !m.Loaded() {
		return 0
	}
	leaf := &m.Leafs[m.findLeaf(p)]
	contents := 0
	for _, bi := range m.LeafBrushes[leaf.FirstLeafBrush : leaf.FirstLeafBrush+leaf.NumLeafBrushes] {
		b := &m.Brushes[bi]
		if m.brushContains(b, p) {
			contents |= int(m.Textures[b.Texture].Contents)
		}
	}
	return contents
}

func (g *Geometry) brushContains(b *Brush, p vec.Vec3) bool {
	if b.NumSides == 0 {
		return false
	}
	for _, s := range g.BrushSides[b.FirstSide : b.FirstSide+b.NumSides] {
		if g.Planes[s.Plane].Distance(p) > 0 {
			return false
		}
	}
	return true
}

// BoxLeafs returns the indices of all leafs touched by the box.
func (m *Map) BoxLeafs(mins, maxs vec.Vec3) []int {
	if !m.Loaded() {
		return nil
	}
	var leafs []int
	var walk func(c Child)
	walk = func(c Child) {
		for !c.IsLeaf() {
			n := &m.Nodes[c.Index()]
			switch m.Planes[n.Plane].BoxOnPlaneSide(mins, maxs) {
			case 1:
				c = n.Children[0]
			case 2:
				c = n.Children[1]
			default:
				walk(n.Children[0])
				c = n.Children[1]
			}
		}
		leafs = append(leafs, c.Index())
	}
	walk(m.root())
	return leafs
}
