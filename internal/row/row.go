// Package row bins layout entities into horizontal standard-cell rows.
package row

import (
	"math"
	"sort"

	"cell-tracer/pkg/errors"
	"cell-tracer/pkg/geometry"
)

// Count returns the number of row buckets for a layout of the given height:
// floor(height/rowHeight) + 1.
func Count(height, rowHeight float64) int {
	return int(math.Floor(height/rowHeight)) + 1
}

// Of returns the row index floor(y/rowHeight).
func Of(y, rowHeight float64) int {
	return int(math.Floor(y / rowHeight))
}

// Origin returns the bottom edge of row i.
func Origin(i int, rowHeight float64) float64 {
	return float64(i) * rowHeight
}

// Partition assigns every item to row floor(pos(item).Y / rowHeight) and sorts
// each row by x. Items with equal x keep their input order.
//
// The result always has Count(height, rowHeight) rows, some possibly empty.
// An item whose row falls outside that range is reported as INVALID_INPUT;
// the caller must size height to cover the layout.
func Partition[T any](height, rowHeight float64, items []T, pos func(T) geometry.Point2D) ([][]T, error) {
	if rowHeight <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "row height must be positive, got %g", rowHeight)
	}
	if height < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "layout height must not be negative, got %g", height)
	}

	rows := make([][]T, Count(height, rowHeight))
	for _, it := range items {
		p := pos(it)
		dest := Of(p.Y, rowHeight)
		if dest < 0 || dest >= len(rows) {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"entity at (%g, %g) falls in row %d, layout has %d rows", p.X, p.Y, dest, len(rows))
		}
		rows[dest] = append(rows[dest], it)
	}

	for _, r := range rows {
		sort.SliceStable(r, func(a, b int) bool {
			return pos(r[a]).X < pos(r[b]).X
		})
	}
	return rows, nil
}
