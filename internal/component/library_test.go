package component

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cell-tracer/pkg/errors"
	"cell-tracer/pkg/geometry"
)

func TestDefaultLibrary(t *testing.T) {
	lib := DefaultLibrary()
	cases := map[string]string{
		"AND2X1":  "and2",
		"INVX1":   "invx1",
		"INVX8":   "invx8",
		"NAND2X1": "nand2",
		"NOR2X1":  "nor2",
		"OR2X1":   "or2",
	}
	for macro, want := range cases {
		got, err := lib.Label(macro)
		require.NoError(t, err, macro)
		assert.Equal(t, want, got, macro)
	}
}

func TestLabel_Unknown(t *testing.T) {
	for _, macro := range []string{"XOR2X1", "nand2x1", "Nand2x1", "invx1", ""} {
		label, err := DefaultLibrary().Label(macro)
		assert.True(t, errors.Is(err, errors.ErrCodeUnknownMacroType), macro)
		assert.Empty(t, label, macro)
	}
}

func TestLabels(t *testing.T) {
	row := []Component{
		{Name: "U1", Macro: "INVX1"},
		{Name: "U2", Macro: "OR2X1"},
	}
	labels, err := DefaultLibrary().Labels(row)
	require.NoError(t, err)
	assert.Equal(t, []string{"invx1", "or2"}, labels)
	assert.Equal(t, []string{"INVX1", "OR2X1"}, Macros(row))

	row = append(row, Component{Name: "U3", Macro: "DFFX1"})
	_, err = DefaultLibrary().Labels(row)
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownMacroType))
	assert.Contains(t, err.Error(), "U3")
}

func TestAddSaveLoad(t *testing.T) {
	lib := NewLibrary(map[string]string{"INVX1": "inv"})
	lib.Add("INVX1", "invx1")
	lib.Add("BUFX2", "buf")
	assert.Equal(t, map[string]string{"INVX1": "invx1", "BUFX2": "buf"}, lib.Map())
	assert.Equal(t, "BUFX2", lib.Entries[0].Macro)

	path := filepath.Join(t.TempDir(), "labels.json")
	require.NoError(t, lib.Save(path))
	got, err := LoadLibrary(path)
	require.NoError(t, err)
	assert.Equal(t, lib.Entries, got.Entries)

	_, err = LoadLibrary(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}

func TestPosition(t *testing.T) {
	c := Component{Name: "U1", Placed: geometry.NewPoint2D(3, 4)}
	assert.Equal(t, geometry.NewPoint2D(3, 4), Position(c))
}
