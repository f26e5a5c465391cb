package cli

import (
	"context"
	"encoding/json"
	"io"

	"cell-tracer/internal/cache"
	"cell-tracer/internal/config"
	"cell-tracer/internal/pipeline"
	"cell-tracer/internal/project"
)

// tuning holds the flags that override grouping and run settings.
type tuning struct {
	maxGroupSize int
	maxDistance  float64
	margin       float64
	viaType      string
	workers      int
	rows         []int
	labels       string // JSON label library
}

// apply copies every flag the user set onto cfg.
func (t *tuning) apply(cfg *config.Config, changed func(string) bool) {
	if changed("max-group-size") {
		cfg.Grouping = cfg.Grouping.WithMaxGroupSize(t.maxGroupSize)
	}
	if changed("max-distance") {
		cfg.Grouping = cfg.Grouping.WithMaxDistance(t.maxDistance)
	}
	if changed("margin") {
		cfg.Render.Margin = t.margin
	}
	if changed("via-type") {
		cfg.Run.ViaType = t.viaType
	}
	if changed("workers") {
		cfg.Run.Workers = t.workers
	}
	if changed("rows") {
		cfg.Run.Rows = t.rows
	}
	if changed("labels") {
		cfg.Run.LabelLibrary = t.labels
	}
}

// loadConfig reads the config file if one is given, else the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// openRunner loads a layout and partitions it under cfg. The returned close
// function releases the snippet cache.
func openRunner(ctx context.Context, layoutPath string, cfg *config.Config) (*pipeline.Runner, func() error, error) {
	logger := loggerFromContext(ctx)
	prog := newStage(logger)

	f, err := project.Load(layoutPath)
	if err != nil {
		return nil, nil, err
	}

	var c cache.Cache = cache.NewNullCache()
	if cfg.Run.CacheDir != "" {
		fc, err := cache.NewFileCache(cfg.Run.CacheDir)
		if err != nil {
			return nil, nil, err
		}
		c = fc
	}

	r, err := pipeline.New(f, cfg, c, logger)
	if err != nil {
		c.Close()
		return nil, nil, err
	}
	prog.done("Loaded %s", layoutPath)

	closeCache := func() error {
		if fc, ok := c.(*cache.FileCache); ok {
			hits, misses := fc.Stats()
			logger.Debug("snippet cache", "dir", cfg.Run.CacheDir, "hits", hits, "misses", misses)
		}
		return c.Close()
	}
	return r, closeCache, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
