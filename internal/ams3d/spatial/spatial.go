// Package spatial provides the small set of spatial utilities the kernel
// needs on top of the raw index: a vertical-cylinder query wrapper,
// 3D-to-2D projection, and a weighted mean of points.
package spatial

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"github.com/canopymodes/ams3d/geom"
	"github.com/canopymodes/ams3d/internal/ams3d/rtree3d"
)

// ErrDegenerateSum is returned by WeightedMean when the weights sum to
// zero, making the weighted mean undefined.
var ErrDegenerateSum = errors.New("spatial: sum of weights is zero")

// VerticalCylinderQuery returns all points in index within radius rho of
// (xyCenter.X, xyCenter.Y) and with Z in [zBottom, zTop], in any order.
func VerticalCylinderQuery(index *rtree3d.Tree, xyCenter geom.Point2D, rho, zBottom, zTop float64) []geom.Point3D {
	return index.QueryCylinder(xyCenter.X, xyCenter.Y, rho, zBottom, zTop)
}

// XYOf projects a Point3D onto the horizontal plane.
func XYOf(p geom.Point3D) geom.Point2D {
	return p.XY()
}

// WeightedMean returns the componentwise weighted mean of points, i.e.
// (sum_i weights[i]*points[i]) / (sum_i weights[i]). It fails with
// ErrDegenerateSum if the weights sum to zero. len(points) must equal
// len(weights).
func WeightedMean(points []geom.Point3D, weights []float64) (geom.Point3D, error) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}

	sumW := floats.Sum(weights)
	if sumW == 0 {
		return geom.Point3D{}, ErrDegenerateSum
	}
	return geom.Point3D{
		X: floats.Dot(weights, xs) / sumW,
		Y: floats.Dot(weights, ys) / sumW,
		Z: floats.Dot(weights, zs) / sumW,
	}, nil
}
