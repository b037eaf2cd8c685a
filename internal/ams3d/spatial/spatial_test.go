package spatial

import (
	"errors"
	"math"
	"testing"

	"github.com/canopymodes/ams3d/geom"
	"github.com/canopymodes/ams3d/internal/ams3d/rtree3d"
)

func TestWeightedMean(t *testing.T) {
	points := []geom.Point3D{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}}
	weights := []float64{1, 1}
	got, err := WeightedMean(points, weights)
	if err != nil {
		t.Fatalf("WeightedMean() error = %v", err)
	}
	if got != (geom.Point3D{X: 5, Y: 0, Z: 0}) {
		t.Errorf("WeightedMean() = %v, want {5 0 0}", got)
	}
}

func TestWeightedMean_DegenerateSum(t *testing.T) {
	points := []geom.Point3D{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}}
	weights := []float64{1, -1}
	_, err := WeightedMean(points, weights)
	if !errors.Is(err, ErrDegenerateSum) {
		t.Errorf("WeightedMean() error = %v, want ErrDegenerateSum", err)
	}
}

func TestVerticalCylinderQuery(t *testing.T) {
	pts := []geom.Point3D{
		{X: 0, Y: 0, Z: 5},
		{X: 100, Y: 100, Z: 5},
	}
	idx := rtree3d.Build(pts)
	got := VerticalCylinderQuery(idx, geom.Point2D{X: 0, Y: 0}, 1, 0, 10)
	if len(got) != 1 {
		t.Fatalf("VerticalCylinderQuery() returned %d points, want 1", len(got))
	}
}

func TestXYOf(t *testing.T) {
	p := geom.Point3D{X: 1, Y: 2, Z: 3}
	xy := XYOf(p)
	if xy.X != 1 || xy.Y != 2 {
		t.Errorf("XYOf() = %v, want {1 2}", xy)
	}
	if math.IsNaN(xy.X) {
		t.Error("unexpected NaN")
	}
}
