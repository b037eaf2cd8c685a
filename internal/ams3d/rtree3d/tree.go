// Package rtree3d implements a bulk-loaded 3D R*-tree spatial index over
// Point3D values, supporting vertical-cylinder range queries.
//
// The tree is built once from a filtered point sequence (see package
// pointfilter) via sort-tile-recursive (STR) packing rather than
// one-by-one insertion: packing a sorted sequence bottom-up gives a
// better-balanced tree than repeated single-item insert/split, which is
// the whole reason the filtered iterators in pointfilter exist. Node
// fan-out is fixed at 8: every node holds at most 8 entries, and packing
// may leave some nodes with fewer.
//
// This is a from-scratch 3D adaptation rather than a wrapper around an
// existing R-tree package — see DESIGN.md for why no published R-tree
// module was suitable.
package rtree3d

import (
	"math"
	"sort"

	"github.com/canopymodes/ams3d/geom"
)

// FanOut is the fixed node fan-out (the maximum entries per node, used as
// the bulk-load group size) for the tree, per spec.
const FanOut = 8

type box struct {
	minX, minY, minZ float64
	maxX, maxY, maxZ float64
}

func pointBox(p geom.Point3D) box {
	return box{p.X, p.Y, p.Z, p.X, p.Y, p.Z}
}

func union(a, b box) box {
	return box{
		minX: math.Min(a.minX, b.minX),
		minY: math.Min(a.minY, b.minY),
		minZ: math.Min(a.minZ, b.minZ),
		maxX: math.Max(a.maxX, b.maxX),
		maxY: math.Max(a.maxY, b.maxY),
		maxZ: math.Max(a.maxZ, b.maxZ),
	}
}

func overlaps(a, b box) bool {
	return a.minX <= b.maxX && a.maxX >= b.minX &&
		a.minY <= b.maxY && a.maxY >= b.minY &&
		a.minZ <= b.maxZ && a.maxZ >= b.minZ
}

func center(b box, axis int) float64 {
	switch axis {
	case 0:
		return (b.minX + b.maxX) / 2
	case 1:
		return (b.minY + b.maxY) / 2
	default:
		return (b.minZ + b.maxZ) / 2
	}
}

// entry is a bounding box plus either a point index (leaf) or a child
// node index (internal node).
type entry struct {
	bbox  box
	point int
	child int
}

type node struct {
	isLeaf  bool
	entries []entry
}

// Tree is an immutable, bulk-loaded 3D R*-tree over Point3D values.
type Tree struct {
	points []geom.Point3D
	nodes  []node
	root   int
}

// Build constructs a Tree containing exactly the given points. points is
// typically produced by pointfilter.Collect over one of the filtered
// iterators, so the tree contains no non-finite or below-threshold point.
func Build(points []geom.Point3D) *Tree {
	t := &Tree{points: points}
	if len(points) == 0 {
		t.nodes = []node{{isLeaf: true}}
		t.root = 0
		return t
	}

	items := make([]packedItem, len(points))
	for i, p := range points {
		items[i] = packedItem{bbox: pointBox(p), ref: i}
	}

	level := make([]packedItem, 0)
	for _, group := range strPack(items, FanOut) {
		level = append(level, t.addLeaf(group))
	}
	for len(level) > 1 {
		next := make([]packedItem, 0)
		for _, group := range strPack(level, FanOut) {
			next = append(next, t.addInternal(group))
		}
		level = next
	}
	t.root = level[0].ref
	return t
}

func (t *Tree) addLeaf(group []packedItem) packedItem {
	n := node{isLeaf: true, entries: make([]entry, len(group))}
	bb := group[0].bbox
	for i, it := range group {
		n.entries[i] = entry{bbox: it.bbox, point: it.ref}
		bb = union(bb, it.bbox)
	}
	idx := len(t.nodes)
	t.nodes = append(t.nodes, n)
	return packedItem{bbox: bb, ref: idx}
}

func (t *Tree) addInternal(group []packedItem) packedItem {
	n := node{isLeaf: false, entries: make([]entry, len(group))}
	bb := group[0].bbox
	for i, it := range group {
		n.entries[i] = entry{bbox: it.bbox, child: it.ref}
		bb = union(bb, it.bbox)
	}
	idx := len(t.nodes)
	t.nodes = append(t.nodes, n)
	return packedItem{bbox: bb, ref: idx}
}

// Len returns the number of points contained in the tree.
func (t *Tree) Len() int { return len(t.points) }

// QueryCylinder returns all indexed points whose (x, y) lies within
// radius r of (cx, cy) and whose z lies in the inclusive range
// [zBottom, zTop]. Implemented as a bounding-box candidate query refined
// by the exact predicate, per spec.
func (t *Tree) QueryCylinder(cx, cy, r, zBottom, zTop float64) []geom.Point3D {
	if len(t.points) == 0 {
		return nil
	}
	qbox := box{
		minX: cx - r, minY: cy - r, minZ: zBottom,
		maxX: cx + r, maxY: cy + r, maxZ: zTop,
	}
	r2 := r * r

	var out []geom.Point3D
	var recurse func(idx int)
	recurse = func(idx int) {
		n := &t.nodes[idx]
		for _, e := range n.entries {
			if !overlaps(e.bbox, qbox) {
				continue
			}
			if n.isLeaf {
				p := t.points[e.point]
				if p.Z < zBottom || p.Z > zTop {
					continue
				}
				dx := p.X - cx
				dy := p.Y - cy
				if dx*dx+dy*dy <= r2 {
					out = append(out, p)
				}
				continue
			}
			recurse(e.child)
		}
	}
	recurse(t.root)
	return out
}

// packedItem is a bounding box plus a reference: a point index at the
// leaf-building stage, a node index at every stage above it.
type packedItem struct {
	bbox box
	ref  int
}

// strPack partitions items into groups of at most groupSize via
// sort-tile-recursive slicing generalized to three axes: sort and slice
// by X, then within each X-slice by Y, then within each (X,Y)-slice by Z
// into final groups.
func strPack(items []packedItem, groupSize int) [][]packedItem {
	n := len(items)
	if n == 0 {
		return nil
	}
	groupCount := ceilDiv(n, groupSize)
	if groupCount <= 1 {
		return [][]packedItem{items}
	}

	sliceCount := int(math.Ceil(math.Cbrt(float64(groupCount))))
	if sliceCount < 1 {
		sliceCount = 1
	}

	sortByAxis(items, 0)
	var out [][]packedItem
	for _, xSlice := range sliceInto(items, sliceCount) {
		sortByAxis(xSlice, 1)
		ySliceCount := int(math.Ceil(math.Sqrt(float64(ceilDiv(len(xSlice), groupSize)))))
		for _, ySlice := range sliceInto(xSlice, ySliceCount) {
			sortByAxis(ySlice, 2)
			zGroupCount := ceilDiv(len(ySlice), groupSize)
			out = append(out, sliceInto(ySlice, zGroupCount)...)
		}
	}
	return out
}

func sortByAxis(items []packedItem, axis int) {
	sort.Slice(items, func(i, j int) bool {
		return center(items[i].bbox, axis) < center(items[j].bbox, axis)
	})
}

// sliceInto splits items into at most numSlices contiguous groups of
// ceil(len(items)/numSlices) items each; the last group may be shorter.
func sliceInto(items []packedItem, numSlices int) [][]packedItem {
	if numSlices < 1 {
		numSlices = 1
	}
	n := len(items)
	sliceSize := ceilDiv(n, numSlices)
	if sliceSize < 1 {
		sliceSize = 1
	}
	var out [][]packedItem
	for i := 0; i < n; i += sliceSize {
		end := i + sliceSize
		if end > n {
			end = n
		}
		out = append(out, items[i:end])
	}
	return out
}

func ceilDiv(a, b int) int {
	return int(math.Ceil(float64(a) / float64(b)))
}
