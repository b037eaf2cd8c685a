package raster

import (
	"fmt"

	"github.com/canopymodes/ams3d/geom"
)

// SingleValueRaster is the degenerate Raster variant: a single scalar,
// answering HasValueAt true everywhere. Used to wrap a constant
// ground/d-ratio/h-ratio input so the flexible orchestration variant can
// treat scalars and full rasters uniformly.
type SingleValueRaster[T any] struct {
	value T
}

// NewSingleValueRaster wraps v as a Raster that returns v for every coordinate.
func NewSingleValueRaster[T any](v T) *SingleValueRaster[T] {
	return &SingleValueRaster[T]{value: v}
}

// Values implements Raster; always returns a length-1 slice.
func (s *SingleValueRaster[T]) Values() []T { return []T{s.value} }

// HasValueAt implements Raster; always true.
func (s *SingleValueRaster[T]) HasValueAt(geom.Point2D) bool { return true }

// ValueAt implements Raster; never fails.
func (s *SingleValueRaster[T]) ValueAt(geom.Point2D) (T, error) { return s.value, nil }

// ValueAtUnchecked implements Raster.
func (s *SingleValueRaster[T]) ValueAtUnchecked(geom.Point2D) T { return s.value }

// CopyWithValues implements Raster; requires exactly one entry.
func (s *SingleValueRaster[T]) CopyWithValues(newValues []T) (Raster[T], error) {
	if len(newValues) != 1 {
		return nil, fmt.Errorf("%w: have %d, want 1", ErrShapeMismatch, len(newValues))
	}
	return &SingleValueRaster[T]{value: newValues[0]}, nil
}
