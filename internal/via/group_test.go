package via

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cell-tracer/pkg/errors"
	"cell-tracer/pkg/geometry"
)

func rowAt(xs ...float64) []Via {
	row := make([]Via, len(xs))
	for i, x := range xs {
		row[i] = Via{Location: geometry.NewPoint2D(x, 0), Name: "M2_M1_via", Index: i}
	}
	return row
}

func TestGroupCandidates_WorkedExample(t *testing.T) {
	row := rowAt(0, 100, 500, 1000)

	got, err := GroupCandidates(row, Params{MaxGroupSize: 3, MaxDistance: 600})
	require.NoError(t, err)

	want := []struct {
		start  int
		groups [][]int
	}{
		{0, [][]int{{0, 1}, {0, 1, 2}}},
		{1, [][]int{{1, 2}}},
		{2, [][]int{{2, 3}}},
	}
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, w.start, got[i].Start)
		require.Len(t, got[i].Groups, len(w.groups))
		for j, g := range got[i].Groups {
			assert.Equal(t, w.groups[j], g.Indices(), "start %d group %d", w.start, j)
		}
	}
}

func TestGroupCandidates_Bounds(t *testing.T) {
	row := rowAt(0, 40, 90, 300, 310, 900, 905, 910, 2000)
	params := Params{MaxGroupSize: 4, MaxDistance: 320}

	got, err := GroupCandidates(row, params)
	require.NoError(t, err)

	positions := map[int]int{}
	for i, v := range row {
		positions[v.Index] = i
	}
	for _, c := range got {
		require.NotEmpty(t, c.Groups)
		for _, g := range c.Groups {
			assert.GreaterOrEqual(t, len(g), 2)
			assert.LessOrEqual(t, len(g), params.MaxGroupSize)
			assert.Less(t, g.Span(), params.MaxDistance)
			assert.Equal(t, c.Start, positions[g[0].Index])
			for k := 1; k < len(g); k++ {
				assert.Equal(t, positions[g[k-1].Index]+1, positions[g[k].Index], "group not contiguous")
			}
		}
	}
	// The last via can never head a group.
	assert.NotEqual(t, len(row)-1, got[len(got)-1].Start)
}

func TestGroupCandidates_SizesTestedIndependently(t *testing.T) {
	// Span of size 2 is 0 (qualifies); size 3 span 700 fails; size 4 fails too.
	row := rowAt(0, 0, 700, 701)
	got, err := GroupCandidates(row, Params{MaxGroupSize: 4, MaxDistance: 500})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Start)
	assert.Len(t, got[0].Groups, 1)
	assert.Equal(t, 2, got[1].Start)
}

func TestGroupCandidates_OmitsEmptyStarts(t *testing.T) {
	row := rowAt(0, 5000, 10000)
	got, err := GroupCandidates(row, DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = GroupCandidates(nil, DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGroupCandidates_DoesNotAliasRow(t *testing.T) {
	row := rowAt(0, 10, 20)
	got, err := GroupCandidates(row, DefaultParams())
	require.NoError(t, err)
	got[0].Groups[0][0].Index = 99
	assert.Equal(t, 0, row[0].Index)
}

func TestGroupCandidates_Idempotent(t *testing.T) {
	row := rowAt(0, 100, 150, 400, 2100, 2200, 4000)
	a, err := GroupCandidates(row, DefaultParams())
	require.NoError(t, err)
	b, err := GroupCandidates(row, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGroupCandidates_MonotonicSpan(t *testing.T) {
	row := rowAt(0, 30, 60, 90, 400)
	got, err := GroupCandidates(row, Params{MaxGroupSize: 5, MaxDistance: 1000})
	require.NoError(t, err)
	for _, c := range got {
		for k := 1; k < len(c.Groups); k++ {
			assert.GreaterOrEqual(t, c.Groups[k].Span(), c.Groups[k-1].Span())
		}
	}
}

func TestGroupCandidates_InvalidConfiguration(t *testing.T) {
	cases := []struct {
		name   string
		params Params
	}{
		{"group size one", Params{MaxGroupSize: 1, MaxDistance: 100}},
		{"zero distance", Params{MaxGroupSize: 3, MaxDistance: 0}},
		{"negative distance", Params{MaxGroupSize: 3, MaxDistance: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := GroupCandidates(rowAt(0, 1), tc.params)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfiguration), "got %v", err)
		})
	}
}

func TestParamsBuilders(t *testing.T) {
	p := DefaultParams().WithMaxGroupSize(4).WithMaxDistance(1000)
	assert.Equal(t, Params{MaxGroupSize: 4, MaxDistance: 1000}, p)
	assert.Equal(t, 3, DefaultParams().MaxGroupSize)
}
