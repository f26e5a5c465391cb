// Package config loads the cell-tracer run configuration from TOML.
//
// A file only needs the keys it changes; everything else keeps the values
// returned by Default. A minimal file looks like:
//
//	[grouping]
//	max_distance = 2000
//
//	[classifier]
//	model = "models/gscl45nm.json"
//
//	[labels]
//	XOR2X1 = "xor2"
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"cell-tracer/internal/cell"
	"cell-tracer/internal/component"
	"cell-tracer/internal/features"
	"cell-tracer/internal/via"
	"cell-tracer/pkg/errors"
)

// DefaultViaType is the via name prefix that marks cell signal pins.
const DefaultViaType = "M2_M1_via"

// Config is the full run configuration.
type Config struct {
	Grouping   via.Params             `toml:"grouping"`
	Render     features.RenderOptions `toml:"render"`
	Classifier Classifier             `toml:"classifier"`
	Labels     map[string]string      `toml:"labels"` // macro type → canonical label
	Run        Run                    `toml:"run"`
}

// Classifier selects the trained model and its class index → label table.
type Classifier struct {
	Model  string   `toml:"model"`
	Labels []string `toml:"labels"`
}

// Run holds execution settings.
type Run struct {
	ViaType      string        `toml:"via_type"`
	Workers      int           `toml:"workers"`
	CacheDir     string        `toml:"cache_dir"`
	CacheTTL     time.Duration `toml:"cache_ttl"`
	Rows         []int         `toml:"rows"`          // empty means every row
	LabelLibrary string        `toml:"label_library"` // JSON label library merged over [labels]
}

// Default returns the configuration of the gscl45nm cell library.
func Default() *Config {
	return &Config{
		Grouping: via.DefaultParams(),
		Render:   features.DefaultRenderOptions(),
		Classifier: Classifier{
			Labels: append([]string(nil), cell.DefaultLabels...),
		},
		Labels: component.DefaultLibrary().Map(),
		Run: Run{
			ViaType: DefaultViaType,
			Workers: 4,
		},
	}
}

// Load reads a TOML file over the defaults. Unknown keys are rejected so
// that a misspelled threshold never falls back to its default silently.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, err, "load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfiguration,
			"unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Grouping.Validate(); err != nil {
		return err
	}

	r := c.Render
	switch {
	case r.Width <= 0 || r.Height <= 0:
		return invalid("snippet size must be positive, got %dx%d", r.Width, r.Height)
	case r.Margin <= 0:
		return invalid("render margin must be positive, got %g", r.Margin)
	case r.DefaultViaSize <= 0:
		return invalid("default via size must be positive, got %g", r.DefaultViaSize)
	case r.ArtifactScale < 0:
		return invalid("artifact scale must not be negative, got %d", r.ArtifactScale)
	}

	if len(c.Classifier.Labels) < 2 {
		return invalid("classifier label table needs at least 2 entries, has %d", len(c.Classifier.Labels))
	}
	if len(c.Labels) == 0 {
		return invalid("macro label table is empty")
	}

	switch {
	case c.Run.ViaType == "":
		return invalid("via type must not be empty")
	case c.Run.Workers < 1:
		return invalid("workers must be at least 1, got %d", c.Run.Workers)
	case c.Run.CacheTTL < 0:
		return invalid("cache ttl must not be negative, got %s", c.Run.CacheTTL)
	}
	for _, i := range c.Run.Rows {
		if i < 0 {
			return invalid("row index must not be negative, got %d", i)
		}
	}
	return nil
}

// Library returns the macro → label table as a component library. Entries
// of the JSON library named by [run] label_library replace or extend the
// [labels] table.
func (c *Config) Library() (*component.Library, error) {
	lib := component.NewLibrary(c.Labels)
	if c.Run.LabelLibrary == "" {
		return lib, nil
	}
	ext, err := component.LoadLibrary(c.Run.LabelLibrary)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, err, "label library %s", c.Run.LabelLibrary)
	}
	for _, e := range ext.Entries {
		lib.Add(e.Macro, e.Label)
	}
	return lib, nil
}

// RenderOptions returns the render options with the run's cache TTL applied.
func (c *Config) RenderOptions() features.RenderOptions {
	opts := c.Render
	opts.CacheTTL = c.Run.CacheTTL
	return opts
}

// Write encodes the configuration as TOML.
func (c *Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfiguration, format, args...)
}
