// Package geom provides the 2D/3D point value types and distance metrics
// shared by the AMS3D spatial index, kernel, and mean-shift driver.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point2D is a point in the horizontal plane.
type Point2D struct {
	X, Y float64
}

// Point3D is a point in world space. A Point3D with a NaN coordinate is the
// sentinel for "no result" throughout AMS3D — see NaNPoint.
type Point3D struct {
	X, Y, Z float64
}

// NaNPoint is the sentinel value used to signal an invalid or unresolved mode.
var NaNPoint = Point3D{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}

// IsNaN reports whether any coordinate of p is NaN.
func (p Point3D) IsNaN() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z)
}

// IsFinite reports whether every coordinate of p is finite (not NaN, not ±Inf).
func (p Point3D) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Z)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// XY projects p onto the horizontal plane.
func (p Point3D) XY() Point2D {
	return Point2D{X: p.X, Y: p.Y}
}

func (p Point3D) vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

func fromVec(v r3.Vec) Point3D {
	return Point3D{X: v.X, Y: v.Y, Z: v.Z}
}

// Add returns p+q componentwise.
func (p Point3D) Add(q Point3D) Point3D {
	return fromVec(r3.Add(p.vec(), q.vec()))
}

// Sub returns p-q componentwise.
func (p Point3D) Sub(q Point3D) Point3D {
	return fromVec(r3.Sub(p.vec(), q.vec()))
}

// Scale returns p scaled by f.
func (p Point3D) Scale(f float64) Point3D {
	return fromVec(r3.Scale(f, p.vec()))
}

// SquaredDistance returns the comparable (squared Euclidean) distance
// between p and q: ordering-equivalent to EuclideanDistance and cheaper
// to compute.
func SquaredDistance(p, q Point3D) float64 {
	d := r3.Sub(p.vec(), q.vec())
	return r3.Dot(d, d)
}

// EuclideanDistance returns the Euclidean distance between p and q.
func EuclideanDistance(p, q Point3D) float64 {
	return r3.Norm(r3.Sub(p.vec(), q.vec()))
}

// SquaredDistance2D returns the squared Euclidean distance between two
// horizontal-plane points.
func SquaredDistance2D(p, q Point2D) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}
