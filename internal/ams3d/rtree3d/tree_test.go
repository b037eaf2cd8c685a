package rtree3d

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/canopymodes/ams3d/geom"
)

func TestBuild_Empty(t *testing.T) {
	tr := Build(nil)
	if tr.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", tr.Len())
	}
	if got := tr.QueryCylinder(0, 0, 10, -10, 10); got != nil {
		t.Fatalf("QueryCylinder() on empty tree = %v, want nil", got)
	}
}

func TestBuild_Contains_ExactlyInput(t *testing.T) {
	pts := []geom.Point3D{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 1},
		{X: -5, Y: 3, Z: 2},
	}
	tr := Build(pts)
	if tr.Len() != len(pts) {
		t.Fatalf("Len() = %d, want %d", tr.Len(), len(pts))
	}
}

func TestQueryCylinder_Basic(t *testing.T) {
	pts := []geom.Point3D{
		{X: 0, Y: 0, Z: 5},  // inside
		{X: 0.5, Y: 0, Z: 5}, // inside
		{X: 10, Y: 10, Z: 5}, // outside horizontally
		{X: 0, Y: 0, Z: 100}, // outside vertically
		{X: 0, Y: 0, Z: -100}, // outside vertically
	}
	tr := Build(pts)
	got := tr.QueryCylinder(0, 0, 1, 0, 10)
	if len(got) != 2 {
		t.Fatalf("QueryCylinder() returned %d points, want 2: %+v", len(got), got)
	}
}

func TestQueryCylinder_InclusiveZBounds(t *testing.T) {
	pts := []geom.Point3D{
		{X: 0, Y: 0, Z: 0},  // bottom boundary
		{X: 0, Y: 0, Z: 10}, // top boundary
	}
	tr := Build(pts)
	got := tr.QueryCylinder(0, 0, 1, 0, 10)
	if len(got) != 2 {
		t.Fatalf("QueryCylinder() returned %d points, want 2 (inclusive bounds)", len(got))
	}
}

func TestQueryCylinder_RadiusBoundary(t *testing.T) {
	pts := []geom.Point3D{
		{X: 1, Y: 0, Z: 0}, // exactly at radius 1
		{X: 1.0001, Y: 0, Z: 0},
	}
	tr := Build(pts)
	got := tr.QueryCylinder(0, 0, 1, -1, 1)
	if len(got) != 1 {
		t.Fatalf("QueryCylinder() returned %d points, want 1 (inclusive radius)", len(got))
	}
}

// brute force reference implementation used to cross-check the index
// against random data.
func bruteForceCylinder(pts []geom.Point3D, cx, cy, r, zBottom, zTop float64) []geom.Point3D {
	var out []geom.Point3D
	r2 := r * r
	for _, p := range pts {
		if p.Z < zBottom || p.Z > zTop {
			continue
		}
		dx, dy := p.X-cx, p.Y-cy
		if dx*dx+dy*dy <= r2 {
			out = append(out, p)
		}
	}
	return out
}

func sortPoints(pts []geom.Point3D) {
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].Z < pts[j].Z
	})
}

func TestQueryCylinder_MatchesBruteForce_RandomData(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pts := make([]geom.Point3D, 500)
	for i := range pts {
		pts[i] = geom.Point3D{
			X: rng.Float64()*200 - 100,
			Y: rng.Float64()*200 - 100,
			Z: rng.Float64() * 30,
		}
	}
	tr := Build(pts)

	for i := 0; i < 20; i++ {
		cx := rng.Float64()*200 - 100
		cy := rng.Float64()*200 - 100
		r := rng.Float64()*10 + 1
		zBottom := rng.Float64() * 15
		zTop := zBottom + rng.Float64()*15

		got := tr.QueryCylinder(cx, cy, r, zBottom, zTop)
		want := bruteForceCylinder(pts, cx, cy, r, zBottom, zTop)
		sortPoints(got)
		sortPoints(want)
		if len(got) != len(want) {
			t.Fatalf("query %d: len(got)=%d, len(want)=%d", i, len(got), len(want))
		}
		for j := range got {
			if got[j] != want[j] {
				t.Fatalf("query %d: got[%d]=%+v, want[%d]=%+v", i, j, got[j], j, want[j])
			}
		}
	}
}

func TestStrPack_GroupSizeBound(t *testing.T) {
	items := make([]packedItem, 137)
	for i := range items {
		items[i] = packedItem{bbox: box{minX: float64(i), maxX: float64(i)}, ref: i}
	}
	groups := strPack(items, FanOut)
	total := 0
	for _, g := range groups {
		if len(g) > FanOut {
			t.Fatalf("group size %d exceeds fan-out %d", len(g), FanOut)
		}
		total += len(g)
	}
	if total != len(items) {
		t.Fatalf("total packed items = %d, want %d", total, len(items))
	}
}
