package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"cell-tracer/internal/features"
	"cell-tracer/internal/via"
	"cell-tracer/pkg/errors"
)

// Snippet is a ground-truth window exported for one placed component.
type Snippet struct {
	ID        string `json:"id"`
	Row       int    `json:"row"`
	Component string `json:"component"`
	Macro     string `json:"macro"`
	Label     string `json:"label"`
	Vias      []int  `json:"vias"`
	Path      string `json:"path"`
}

// Snippets exports labelled training snippets. Each row's components are
// walked in x order and each takes the next SignalPins vias of the row; the
// window around those vias is written to the artifact directory, named after
// the macro and the component. Nil rows exports every row with components.
// Exported snippets are recorded in the directory's training manifest.
//
// A row whose vias run out before its components do is logged and cut short.
func (r *Runner) Snippets(ctx context.Context, rows []int) ([]Snippet, error) {
	dir := r.renderer.Options().ArtifactDir
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "snippet export needs an artifact directory")
	}
	manifest, err := features.LoadTrainingSet(filepath.Join(dir, features.ManifestName))
	if err != nil {
		return nil, err
	}
	if rows == nil {
		for _, rw := range r.rows {
			if len(rw.Components) > 0 {
				rows = append(rows, rw.Index)
			}
		}
	}

	var out []Snippet
	for _, i := range rows {
		rw, err := r.Row(i)
		if err != nil {
			return out, err
		}

		next := 0
		for _, comp := range rw.Components {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			m, ok := r.layout.Macro(comp.Macro)
			if !ok {
				return out, errors.New(errors.ErrCodeUnknownMacroType,
					"component %s: macro %q not defined in layout", comp.Name, comp.Macro)
			}
			n := m.SignalPins()
			if n == 0 {
				continue
			}
			if next+n > len(rw.Vias) {
				r.logger.Warn("row out of vias", "row", i, "component", comp.Name,
					"needed", n, "left", len(rw.Vias)-next)
				break
			}

			g := via.Group(rw.Vias[next : next+n])
			next += n

			win := r.renderer.GroupWindow(i, g)
			s, err := r.renderer.Render(ctx, win, g)
			if err != nil {
				return out, fmt.Errorf("render %s: %w", comp.Name, err)
			}
			path, err := r.renderer.WriteArtifact(win, s, comp.Macro, comp.Name)
			if err != nil {
				return out, err
			}
			label, err := r.library.Label(comp.Macro)
			if err != nil {
				r.logger.Debug("snippet without label", "component", comp.Name, "macro", comp.Macro)
			}
			sample := manifest.Add(features.TrainingSample{
				Label:     label,
				Macro:     comp.Macro,
				Component: comp.Name,
				Row:       i,
				Window:    win,
				Vias:      g.Indices(),
				Path:      path,
			})
			out = append(out, Snippet{
				ID:        sample.ID,
				Row:       i,
				Component: comp.Name,
				Macro:     comp.Macro,
				Label:     label,
				Vias:      sample.Vias,
				Path:      path,
			})
			r.logger.Debug("snippet", "row", i, "component", comp.Name, "macro", comp.Macro,
				"coverage", fmt.Sprintf("%.3f", s.Coverage()), "path", path)
		}
	}

	if err := manifest.Save(); err != nil {
		return out, err
	}
	r.logger.Debug("training manifest", "path", manifest.FilePath, "samples", manifest.Count(),
		"labels", manifest.Labels())
	return out, nil
}
