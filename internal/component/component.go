// Package component provides placed-cell handling and the macro → label
// library used to derive ground truth.
package component

import (
	"cell-tracer/internal/project"
	"cell-tracer/pkg/geometry"
)

// Component is a placed standard-cell instance.
type Component = project.Component

// Position returns the component's placement. It is the position function
// passed to the row partitioner.
func Position(c Component) geometry.Point2D { return c.Placed }

// Macros returns the macro names of a row, in order.
func Macros(row []Component) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = c.Macro
	}
	return out
}
