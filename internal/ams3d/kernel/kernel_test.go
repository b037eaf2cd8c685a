package kernel

import (
	"errors"
	"math"
	"testing"

	"github.com/canopymodes/ams3d/geom"
	"github.com/canopymodes/ams3d/internal/ams3d/rtree3d"
)

func TestNewGeometry(t *testing.T) {
	geo := NewGeometry(20, 0.2, 0.5)
	if got, want := geo.H, 10.0; got != want {
		t.Errorf("H = %v, want %v", got, want)
	}
	if got, want := geo.R, 2.0; got != want {
		t.Errorf("R = %v, want %v", got, want)
	}
	if got, want := geo.HalfH, 5.0; got != want {
		t.Errorf("HalfH = %v, want %v", got, want)
	}
	if got, want := geo.R2, 4.0; got != want {
		t.Errorf("R2 = %v, want %v", got, want)
	}
}

func TestBuild_TruncatesAtGround(t *testing.T) {
	// hAG=20, hRatio=0.5 => H=10, HalfH=5. Candidate near the ground so
	// the symmetric bottom (centerZ - HalfH) would dip below zero.
	geo := NewGeometry(20, 0.2, 0.5)
	k := Build(geo, geom.Point2D{X: 50, Y: 50}, 2 /* currentZ */, 0 /* ground */)

	if k.BottomZ != 0 {
		t.Errorf("BottomZ = %v, want 0 (clamped at ground)", k.BottomZ)
	}
	if k.TopZ != geo.H {
		t.Errorf("TopZ = %v, want %v", k.TopZ, geo.H)
	}
	if k.CenterZ != geo.HalfH {
		t.Errorf("CenterZ = %v, want %v", k.CenterZ, geo.HalfH)
	}
}

func TestBuild_NoTruncationWellAboveGround(t *testing.T) {
	geo := NewGeometry(20, 0.2, 0.5) // H=10, HalfH=5
	// currentZ=15 above ground=0: czAG=15, bottomAG=max(0,15-2.5)=12.5
	k := Build(geo, geom.Point2D{}, 15, 0)
	if got, want := k.BottomZ, 12.5; got != want {
		t.Errorf("BottomZ = %v, want %v", got, want)
	}
	if got, want := k.TopZ, 22.5; got != want {
		t.Errorf("TopZ = %v, want %v", got, want)
	}
}

func TestBuild_GroundOffsetCarriesThrough(t *testing.T) {
	geo := NewGeometry(20, 0.2, 0.5) // H=10
	k := Build(geo, geom.Point2D{}, 102, 100)
	if got, want := k.BottomZ, 100.0; got != want {
		t.Errorf("BottomZ = %v, want %v (clamped at ground=100)", got, want)
	}
	if got, want := k.TopZ, 110.0; got != want {
		t.Errorf("TopZ = %v, want %v", got, want)
	}
}

func TestWeight_CenterPointIsMaximal(t *testing.T) {
	geo := NewGeometry(20, 0.2, 0.5)
	k := Build(geo, geom.Point2D{X: 0, Y: 0}, 10, 0)
	w := k.Weight(geom.Point3D{X: 0, Y: 0, Z: k.CenterZ})
	if w != 1 {
		t.Errorf("Weight() at kernel center = %v, want 1", w)
	}
}

func TestWeight_MatchesPublishedFormula(t *testing.T) {
	geo := NewGeometry(20, 0.2, 0.5)
	k := Build(geo, geom.Point2D{X: 0, Y: 0}, 10, 0)

	p := geom.Point3D{X: 0.5, Y: 0.5, Z: k.CenterZ + 1}
	sH := (0.5*0.5 + 0.5*0.5) / k.R2
	sV := (1.0 * 1.0) / k.HalfH2
	want := (1 - sH) * math.Exp(GaussianGamma*sV)

	got := k.Weight(p)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Weight() = %v, want %v", got, want)
	}
}

func TestCentroid_DegenerateWhenEmpty(t *testing.T) {
	geo := NewGeometry(20, 0.2, 0.5)
	k := Build(geo, geom.Point2D{X: 1000, Y: 1000}, 10, 0)
	idx := rtree3d.Build([]geom.Point3D{{X: 0, Y: 0, Z: 5}})

	_, err := k.Centroid(idx)
	if !errors.Is(err, ErrDegenerateIteration) {
		t.Errorf("Centroid() error = %v, want ErrDegenerateIteration", err)
	}
}

func TestCentroid_SymmetricPointsConverge(t *testing.T) {
	geo := NewGeometry(20, 1.0, 1.0) // large kernel to capture the symmetric points
	k := Build(geo, geom.Point2D{X: 0, Y: 0}, 10, 0)

	pts := []geom.Point3D{
		{X: -1, Y: 0, Z: k.CenterZ},
		{X: 1, Y: 0, Z: k.CenterZ},
		{X: 0, Y: -1, Z: k.CenterZ},
		{X: 0, Y: 1, Z: k.CenterZ},
	}
	idx := rtree3d.Build(pts)

	got, err := k.Centroid(idx)
	if err != nil {
		t.Fatalf("Centroid() error = %v", err)
	}
	if math.Abs(got.X) > 1e-9 || math.Abs(got.Y) > 1e-9 {
		t.Errorf("Centroid() = %v, want ~{0 0 %v}", got, k.CenterZ)
	}
	if math.Abs(got.Z-k.CenterZ) > 1e-9 {
		t.Errorf("Centroid().Z = %v, want %v", got.Z, k.CenterZ)
	}
}
