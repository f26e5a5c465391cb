// Package via provides the routing-via model, via extraction from routed
// nets, and enumeration of contiguous via clusters that may belong to one
// standard-cell instance.
package via

import (
	"fmt"

	"cell-tracer/pkg/geometry"
)

// Via is a routing via at the end of a routed net segment.
type Via struct {
	Location geometry.Point2D `json:"location"` // Via center in database units
	Name     string           `json:"name"`     // Via type name, e.g. "M2_M1_via"
	Index    int              `json:"index"`    // Global index, unique across the layout, in net-traversal order
	Net      string           `json:"net"`      // Owning net
}

// X returns the via's horizontal position.
func (v Via) X() float64 { return v.Location.X }

// String returns a compact human-readable form.
func (v Via) String() string {
	return fmt.Sprintf("#%d(%.0f,%.0f %s)", v.Index, v.Location.X, v.Location.Y, v.Net)
}

// Position returns the via location. It is the position function passed to
// the row partitioner.
func Position(v Via) geometry.Point2D { return v.Location }

// Group is a contiguous run of vias from one row's x-sorted sequence.
type Group []Via

// Span returns last.x - first.x.
func (g Group) Span() float64 {
	if len(g) == 0 {
		return 0
	}
	return g[len(g)-1].X() - g[0].X()
}

// Indices returns the global indices of the group's vias in order.
func (g Group) Indices() []int {
	out := make([]int, len(g))
	for i, v := range g {
		out[i] = v.Index
	}
	return out
}

// Candidates lists the qualifying groups headed by one starting via.
// Groups are ordered by increasing size.
type Candidates struct {
	Start  int     `json:"start"` // Position of the leading via in the row
	Groups []Group `json:"groups"`
}

// Lead returns the leading via shared by every group.
func (c Candidates) Lead() Via {
	return c.Groups[0][0]
}
