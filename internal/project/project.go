// Package project provides the parsed layout document and its persistence.
//
// The document is the hand-off point from external DEF/LEF parsers: it holds
// the die area, database scale, routed nets with their end vias, placed
// components, and the via and macro definitions needed for rendering and
// ground truth. It is stored as JSON or YAML.
package project

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"cell-tracer/pkg/errors"
	"cell-tracer/pkg/geometry"
)

// File represents a parsed layout document (.json, .yaml or .yml).
type File struct {
	Version  int       `json:"version" yaml:"version"`
	Name     string    `json:"name" yaml:"name"`
	Modified time.Time `json:"modified,omitempty" yaml:"modified,omitempty"`

	// Scale is the number of database units per micron.
	Scale float64 `json:"scale" yaml:"scale"`
	// CellHeight is the standard-cell row height in microns.
	CellHeight float64 `json:"cell_height" yaml:"cell_height"`
	// RowHeightOverride, when positive, is used instead of Scale*CellHeight.
	RowHeightOverride float64 `json:"row_height,omitempty" yaml:"row_height,omitempty"`

	DieArea geometry.Rect `json:"die_area" yaml:"die_area"`

	ViaDefs    []ViaDef    `json:"via_defs,omitempty" yaml:"via_defs,omitempty"`
	Macros     []Macro     `json:"macros,omitempty" yaml:"macros,omitempty"`
	Nets       []Net       `json:"nets" yaml:"nets"`
	Components []Component `json:"components" yaml:"components"`
}

// ViaDef describes the metal shapes of a via type, relative to the via center.
type ViaDef struct {
	Name  string          `json:"name" yaml:"name"`
	Rects []geometry.Rect `json:"rects" yaml:"rects"`
}

// Macro is a cell-library type.
type Macro struct {
	Name  string  `json:"name" yaml:"name"`
	Pins  int     `json:"pins" yaml:"pins"` // includes power pins
	Width float64 `json:"width,omitempty" yaml:"width,omitempty"`
}

// SignalPins returns the pin count without VDD and GND.
func (m Macro) SignalPins() int {
	if m.Pins < 2 {
		return 0
	}
	return m.Pins - 2
}

// Net is a routed net.
type Net struct {
	Name   string  `json:"name" yaml:"name"`
	Routes []Route `json:"routes" yaml:"routes"`
}

// Route is one routed segment. EndVia is empty when the segment ends without a via.
type Route struct {
	EndVia    string           `json:"end_via,omitempty" yaml:"end_via,omitempty"`
	EndViaLoc geometry.Point2D `json:"end_via_loc" yaml:"end_via_loc"`
}

// Component is a placed cell instance.
type Component struct {
	Name   string           `json:"name" yaml:"name"`
	Macro  string           `json:"macro" yaml:"macro"`
	Placed geometry.Point2D `json:"placed" yaml:"placed"`
}

// New creates an empty document.
func New(name string) *File {
	return &File{
		Version:  1,
		Name:     name,
		Modified: time.Now(),
	}
}

// Load loads a layout document. The decoder is chosen by file extension;
// anything other than .yaml/.yml is read as JSON.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "read layout %s", path)
	}

	var f File
	if isYAML(path) {
		err = yaml.Unmarshal(data, &f)
	} else {
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode layout %s", path)
	}
	if f.DieArea.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "layout %s: die area height must be positive", path)
	}

	return &f, nil
}

// Save saves the document, again choosing the encoder by extension.
func (f *File) Save(path string) error {
	f.Modified = time.Now()

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(f)
	} else {
		data, err = json.MarshalIndent(f, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// RowHeight returns the row height in database units.
func (f *File) RowHeight() (float64, error) {
	if f.RowHeightOverride > 0 {
		return f.RowHeightOverride, nil
	}
	h := math.Floor(f.Scale * f.CellHeight)
	if h <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidLayout,
			"row height is not positive (scale %g, cell height %g)", f.Scale, f.CellHeight)
	}
	return h, nil
}

// ViaDefMap indexes via definitions by name.
func (f *File) ViaDefMap() map[string]ViaDef {
	m := make(map[string]ViaDef, len(f.ViaDefs))
	for _, d := range f.ViaDefs {
		m[d.Name] = d
	}
	return m
}

// Macro returns the macro definition with the given name.
func (f *File) Macro(name string) (Macro, bool) {
	for _, m := range f.Macros {
		if m.Name == name {
			return m, true
		}
	}
	return Macro{}, false
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
