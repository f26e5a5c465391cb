package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cell-tracer/internal/cell"
	"cell-tracer/internal/component"
	"cell-tracer/internal/config"
	"cell-tracer/internal/features"
	"cell-tracer/internal/project"
	"cell-tracer/pkg/errors"
	"cell-tracer/pkg/geometry"
)

// testLayout has an INVX1 and a NAND2X1 on rows 0 and 2, and nothing on
// row 1. Each row's vias sit at x = 0, 100 (inverter) and 1000, 1100, 1200
// (nand).
func testLayout() *project.File {
	f := project.New("test")
	f.RowHeightOverride = 1000
	f.DieArea = geometry.NewRect(0, 0, 5000, 2999)
	f.Macros = []project.Macro{
		{Name: "INVX1", Pins: 4},
		{Name: "NAND2X1", Pins: 5},
	}
	for _, y := range []float64{500, 2500} {
		var routes []project.Route
		for _, x := range []float64{1200, 0, 1000, 100, 1100} {
			routes = append(routes, project.Route{EndVia: "M2_M1_via", EndViaLoc: geometry.NewPoint2D(x, y)})
		}
		routes = append(routes, project.Route{EndVia: "M3_M2_via", EndViaLoc: geometry.NewPoint2D(50, y)})
		f.Nets = append(f.Nets, project.Net{Name: "n", Routes: routes})
		f.Components = append(f.Components,
			project.Component{Name: "U2", Macro: "NAND2X1", Placed: geometry.NewPoint2D(900, y-500)},
			project.Component{Name: "U1", Macro: "INVX1", Placed: geometry.NewPoint2D(-100, y-500)},
		)
	}
	return f
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Grouping.MaxDistance = 600
	return cfg
}

func newRunner(t *testing.T, f *project.File, cfg *config.Config) *Runner {
	t.Helper()
	r, err := New(f, cfg, nil, nil)
	require.NoError(t, err)
	return r
}

func TestNew_Partition(t *testing.T) {
	r := newRunner(t, testLayout(), testConfig())

	require.Len(t, r.Rows(), 3)
	assert.Equal(t, 1000.0, r.RowHeight())

	row0 := r.Rows()[0]
	require.Len(t, row0.Vias, 5)
	xs := make([]float64, len(row0.Vias))
	for i, v := range row0.Vias {
		xs[i] = v.X()
	}
	assert.Equal(t, []float64{0, 100, 1000, 1100, 1200}, xs)
	assert.Equal(t, []string{"U1", "U2"}, []string{row0.Components[0].Name, row0.Components[1].Name})

	assert.True(t, r.Rows()[1].Empty())
	assert.Equal(t, 2000.0, r.Rows()[2].Origin)

	_, err := r.Row(3)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestNew_Errors(t *testing.T) {
	f := testLayout()
	f.Components = append(f.Components, project.Component{Name: "far", Macro: "INVX1", Placed: geometry.NewPoint2D(0, 9000)})
	_, err := New(f, testConfig(), nil, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	cfg := testConfig()
	cfg.Grouping.MaxGroupSize = 1
	_, err = New(testLayout(), cfg, nil, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfiguration))

	f = testLayout()
	f.RowHeightOverride = 0
	_, err = New(f, testConfig(), nil, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidLayout))
}

func TestRunner_Groups(t *testing.T) {
	r := newRunner(t, testLayout(), testConfig())
	cands, err := r.Groups(0)
	require.NoError(t, err)

	starts := make([]int, len(cands))
	for i, c := range cands {
		starts[i] = c.Start
	}
	// Position 1 has no group under 600 units and is left out.
	assert.Equal(t, []int{0, 2, 3}, starts)
	assert.Len(t, cands[1].Groups, 2)
}

func TestRunner_Run(t *testing.T) {
	r := newRunner(t, testLayout(), testConfig())
	rep, err := r.Run(context.Background(), cell.SizeClassifier())
	require.NoError(t, err)

	require.Len(t, rep.Summary.Rows, 2)
	assert.Equal(t, 0, rep.Summary.Rows[0].Row)
	assert.Equal(t, 2, rep.Summary.Rows[1].Row)
	for _, rs := range rep.Summary.Rows {
		assert.Equal(t, []string{"invx1", "nand2"}, rs.Predicted)
		assert.Equal(t, []string{"invx1", "nand2"}, rs.Actual)
	}
	assert.Equal(t, 4, rep.Summary.Matches)
	assert.Equal(t, 4, rep.Summary.Total)
	pct, ok := rep.Summary.Percent()
	assert.True(t, ok)
	assert.Equal(t, 100.0, pct)

	assert.Equal(t, 10, rep.Vias)
	assert.Len(t, rep.NetVias["n"], 10)
	require.Len(t, rep.Selections, 2)
	// Row 0 holds vias 0..4 in net order; sorted by x they read 1, 3, 2, 4, 0.
	assert.Equal(t, []int{2, 4, 0}, rep.Selections[0].Selections[1].Group.Indices())
}

func TestRunner_RunExplicitEmptyRow(t *testing.T) {
	cfg := testConfig()
	cfg.Run.Rows = []int{1, 1}
	r := newRunner(t, testLayout(), cfg)

	rep, err := r.Run(context.Background(), cell.SizeClassifier())
	require.NoError(t, err)
	require.Len(t, rep.Summary.Rows, 1)
	_, ok := rep.Summary.Percent()
	assert.False(t, ok)

	cfg = testConfig()
	cfg.Run.Rows = []int{7}
	_, err = newRunner(t, testLayout(), cfg).Run(context.Background(), cell.SizeClassifier())
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestRunner_LabelLibrary(t *testing.T) {
	f := testLayout()
	f.Components = append(f.Components, project.Component{Name: "U9", Macro: "XOR2X1", Placed: geometry.NewPoint2D(3000, 0)})

	libPath := filepath.Join(t.TempDir(), "labels.json")
	require.NoError(t, component.NewLibrary(map[string]string{"XOR2X1": "xor2"}).Save(libPath))
	cfg := testConfig()
	cfg.Run.LabelLibrary = libPath

	truth, err := newRunner(t, f, cfg).Truth(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"invx1", "nand2", "xor2"}, truth)

	cfg.Run.LabelLibrary = filepath.Join(t.TempDir(), "missing.json")
	_, err = New(f, cfg, nil, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfiguration))
}

func TestRunner_RunErrors(t *testing.T) {
	r := newRunner(t, testLayout(), testConfig())
	_, err := r.Run(context.Background(), nil)
	assert.True(t, errors.Is(err, errors.ErrCodeClassifierUnavailable))

	_, err = r.LoadClassifier()
	assert.True(t, errors.Is(err, errors.ErrCodeClassifierUnavailable))

	f := testLayout()
	f.Components = append(f.Components, project.Component{Name: "U9", Macro: "XOR2X1", Placed: geometry.NewPoint2D(3000, 0)})
	_, err = newRunner(t, f, testConfig()).Run(context.Background(), cell.SizeClassifier())
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownMacroType))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, cell.SizeClassifier())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Snippets(t *testing.T) {
	cfg := testConfig()
	cfg.Render.ArtifactDir = t.TempDir()
	cfg.Render.Width, cfg.Render.Height = 20, 40
	r := newRunner(t, testLayout(), cfg)

	snips, err := r.Snippets(context.Background(), []int{0})
	require.NoError(t, err)
	require.Len(t, snips, 2)

	assert.Equal(t, "U1", snips[0].Component)
	assert.Equal(t, "INVX1", snips[0].Macro)
	assert.Len(t, snips[0].Vias, 2)
	assert.Equal(t, filepath.Join(cfg.Render.ArtifactDir, "-350_0_450_1000_INVX1_U1.png"), snips[0].Path)
	assert.Len(t, snips[1].Vias, 3)
	for _, s := range snips {
		_, err := os.Stat(s.Path)
		assert.NoError(t, err)
	}

	assert.Equal(t, "invx1", snips[0].Label)
	assert.NotEmpty(t, snips[0].ID)

	all, err := r.Snippets(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, snips[0].ID, all[0].ID)

	// Re-exporting row 0 replaces its manifest entries.
	manifest, err := features.LoadTrainingSet(filepath.Join(cfg.Render.ArtifactDir, features.ManifestName))
	require.NoError(t, err)
	assert.Equal(t, 4, manifest.Count())
	assert.Equal(t, map[string]int{"invx1": 2, "nand2": 2}, manifest.LabelCounts())
}

func TestRunner_SnippetsErrors(t *testing.T) {
	_, err := newRunner(t, testLayout(), testConfig()).Snippets(context.Background(), nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfiguration))

	cfg := testConfig()
	cfg.Render.ArtifactDir = t.TempDir()
	f := testLayout()
	f.Macros = f.Macros[:1]
	_, err = newRunner(t, f, cfg).Snippets(context.Background(), []int{0})
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownMacroType))
}
