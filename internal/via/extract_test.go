package via

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cell-tracer/internal/project"
	"cell-tracer/pkg/geometry"
)

func TestExtractVias(t *testing.T) {
	nets := []project.Net{
		{Name: "a", Routes: []project.Route{
			{EndVia: "M2_M1_via", EndViaLoc: geometry.NewPoint2D(10, 20)},
			{EndVia: "M3_M2_via", EndViaLoc: geometry.NewPoint2D(11, 21)},
			{EndViaLoc: geometry.NewPoint2D(12, 22)},
		}},
		{Name: "power"},
		{Name: "b", Routes: []project.Route{
			{EndVia: "M2_M1_viaB", EndViaLoc: geometry.NewPoint2D(30, 40)},
			{EndVia: "M2_M1_via", EndViaLoc: geometry.NewPoint2D(50, 60)},
		}},
	}

	vias, netToVia := ExtractVias(nets, "M2_M1_via")

	assert.Equal(t, []Via{
		{Location: geometry.NewPoint2D(10, 20), Name: "M2_M1_via", Index: 0, Net: "a"},
		{Location: geometry.NewPoint2D(30, 40), Name: "M2_M1_viaB", Index: 1, Net: "b"},
		{Location: geometry.NewPoint2D(50, 60), Name: "M2_M1_via", Index: 2, Net: "b"},
	}, vias)
	assert.Equal(t, map[string][]int{
		"a":     {0},
		"power": {},
		"b":     {1, 2},
	}, netToVia)
}

func TestExtractVias_NoMatches(t *testing.T) {
	nets := []project.Net{{Name: "a", Routes: []project.Route{{EndVia: "M3_M2_via"}}}}
	vias, netToVia := ExtractVias(nets, "M2_M1_via")
	assert.Empty(t, vias)
	assert.Equal(t, []int{}, netToVia["a"])
}

func TestGroupHelpers(t *testing.T) {
	g := Group(rowAt(100, 250, 400))
	assert.Equal(t, 300.0, g.Span())
	assert.Equal(t, []int{0, 1, 2}, g.Indices())
	assert.Equal(t, geometry.NewPoint2D(250, 0), g[1].Location)
	assert.Equal(t, 0.0, Group(nil).Span())

	c := Candidates{Start: 4, Groups: []Group{g}}
	assert.Equal(t, 0, c.Lead().Index)
	assert.Equal(t, "#0(100,0 )", g[0].String())
}
