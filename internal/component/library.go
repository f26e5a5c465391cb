package component

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"cell-tracer/pkg/errors"
)

// LabelEntry maps one macro type to its canonical cell label.
type LabelEntry struct {
	Macro string `json:"macro"`
	Label string `json:"label"`
}

// Library stores the canonical label of each known macro type.
type Library struct {
	Entries []LabelEntry `json:"entries"`
}

// NewLibrary creates a library from a macro → label map.
func NewLibrary(labels map[string]string) *Library {
	lib := &Library{Entries: make([]LabelEntry, 0, len(labels))}
	for macro, label := range labels {
		lib.Entries = append(lib.Entries, LabelEntry{Macro: macro, Label: label})
	}
	lib.Sort()
	return lib
}

// DefaultLibrary returns the gscl45nm cells the shipped classifier knows.
func DefaultLibrary() *Library {
	return NewLibrary(map[string]string{
		"AND2X1":  "and2",
		"INVX1":   "invx1",
		"INVX8":   "invx8",
		"NAND2X1": "nand2",
		"NOR2X1":  "nor2",
		"OR2X1":   "or2",
	})
}

// Add adds or replaces the label for a macro.
func (lib *Library) Add(macro, label string) {
	for i, e := range lib.Entries {
		if e.Macro == macro {
			lib.Entries[i].Label = label
			return
		}
	}
	lib.Entries = append(lib.Entries, LabelEntry{Macro: macro, Label: label})
	lib.Sort()
}

// Label returns the canonical label for a macro type. Macro names are case
// sensitive; a macro with no entry is an UNKNOWN_MACRO_TYPE error.
func (lib *Library) Label(macro string) (string, error) {
	for _, e := range lib.Entries {
		if e.Macro == macro {
			return e.Label, nil
		}
	}
	return "", errors.New(errors.ErrCodeUnknownMacroType, "no label for macro %q", macro)
}

// Labels maps a row of components to their canonical labels.
func (lib *Library) Labels(row []Component) ([]string, error) {
	out := make([]string, len(row))
	for i, c := range row {
		label, err := lib.Label(c.Macro)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", c.Name, err)
		}
		out[i] = label
	}
	return out, nil
}

// Map returns the library as a macro → label map.
func (lib *Library) Map() map[string]string {
	m := make(map[string]string, len(lib.Entries))
	for _, e := range lib.Entries {
		m[e.Macro] = e.Label
	}
	return m
}

// Sort orders entries by macro name.
func (lib *Library) Sort() {
	sort.Slice(lib.Entries, func(i, j int) bool {
		return lib.Entries[i].Macro < lib.Entries[j].Macro
	})
}

// LoadLibrary reads a library from a JSON file.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read label library: %w", err)
	}
	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse label library: %w", err)
	}
	lib.Sort()
	return &lib, nil
}

// Save writes the library as JSON.
func (lib *Library) Save(path string) error {
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize label library: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
