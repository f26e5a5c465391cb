// Package pipeline runs cell recovery over a whole layout: it bins vias and
// components into rows, groups and selects candidates per row, and scores
// the selected labels against the placed components.
package pipeline

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"cell-tracer/internal/alignment"
	"cell-tracer/internal/cache"
	"cell-tracer/internal/cell"
	"cell-tracer/internal/component"
	"cell-tracer/internal/config"
	"cell-tracer/internal/features"
	"cell-tracer/internal/project"
	"cell-tracer/internal/row"
	"cell-tracer/internal/via"
	"cell-tracer/pkg/errors"
)

// Row is one standard-cell row with its entities sorted by x.
type Row struct {
	Index      int                   `json:"index"`
	Origin     float64               `json:"origin"`
	Vias       []via.Via             `json:"vias"`
	Components []component.Component `json:"components"`
}

// Empty reports whether the row has neither vias nor components.
func (r Row) Empty() bool { return len(r.Vias) == 0 && len(r.Components) == 0 }

// Report is the outcome of a run.
type Report struct {
	Summary    alignment.Summary   `json:"summary"`
	Selections []cell.RowSelection `json:"selections"`
	Vias       int                 `json:"vias"`
	NetVias    map[string][]int    `json:"-"` // net → global via indices
}

// Runner holds a partitioned layout and the configuration to process it.
type Runner struct {
	layout    *project.File
	cfg       *config.Config
	library   *component.Library
	renderer  *features.Renderer
	logger    *log.Logger
	rowHeight float64
	rows      []Row
	netVias   map[string][]int
	viaCount  int
}

// New validates the configuration and partitions the layout into rows.
// A nil cache disables snippet caching and a nil logger uses log.Default.
func New(layout *project.File, cfg *config.Config, c cache.Cache, logger *log.Logger) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	rh, err := layout.RowHeight()
	if err != nil {
		return nil, err
	}
	lib, err := cfg.Library()
	if err != nil {
		return nil, err
	}

	vias, netVias := via.ExtractVias(layout.Nets, cfg.Run.ViaType)
	height := layout.DieArea.MaxY()
	viaRows, err := row.Partition(height, rh, vias, via.Position)
	if err != nil {
		return nil, fmt.Errorf("partition vias: %w", err)
	}
	compRows, err := row.Partition(height, rh, layout.Components, component.Position)
	if err != nil {
		return nil, fmt.Errorf("partition components: %w", err)
	}

	rows := make([]Row, len(viaRows))
	for i := range rows {
		rows[i] = Row{
			Index:      i,
			Origin:     row.Origin(i, rh),
			Vias:       viaRows[i],
			Components: compRows[i],
		}
	}

	logger.Debug("partitioned layout", "rows", len(rows), "row_height", rh,
		"vias", len(vias), "components", len(layout.Components))

	return &Runner{
		layout:    layout,
		cfg:       cfg,
		library:   lib,
		renderer:  features.NewRenderer(layout.ViaDefMap(), rh, cfg.RenderOptions(), c),
		logger:    logger,
		rowHeight: rh,
		rows:      rows,
		netVias:   netVias,
		viaCount:  len(vias),
	}, nil
}

// Renderer returns the snippet renderer configured for this layout.
func (r *Runner) Renderer() *features.Renderer { return r.renderer }

// RowHeight returns the row height in database units.
func (r *Runner) RowHeight() float64 { return r.rowHeight }

// Rows returns every row bucket, including empty ones.
func (r *Runner) Rows() []Row { return r.rows }

// Row returns a single row. An index outside the layout is INVALID_INPUT.
func (r *Runner) Row(i int) (Row, error) {
	if i < 0 || i >= len(r.rows) {
		return Row{}, errors.New(errors.ErrCodeInvalidInput, "row %d outside layout with %d rows", i, len(r.rows))
	}
	return r.rows[i], nil
}

// Groups enumerates the candidate groups of one row.
func (r *Runner) Groups(i int) ([]via.Candidates, error) {
	rw, err := r.Row(i)
	if err != nil {
		return nil, err
	}
	return via.GroupCandidates(rw.Vias, r.cfg.Grouping)
}

// Truth returns the canonical labels of a row's placed components.
func (r *Runner) Truth(i int) ([]string, error) {
	rw, err := r.Row(i)
	if err != nil {
		return nil, err
	}
	return r.library.Labels(rw.Components)
}

// LoadClassifier builds the model classifier named by the configuration.
func (r *Runner) LoadClassifier() (cell.Classifier, error) {
	path := r.cfg.Classifier.Model
	if path == "" {
		return nil, errors.New(errors.ErrCodeClassifierUnavailable, "no classifier model configured")
	}
	m, err := cell.LoadModel(path, r.renderer.FeatureCount())
	if err != nil {
		return nil, err
	}
	return cell.NewModelClassifier(r.renderer, m, r.cfg.Classifier.Labels)
}

// selected returns the row indices to process: the configured rows, or
// every row holding a via or a component.
func (r *Runner) selected() ([]int, error) {
	if len(r.cfg.Run.Rows) > 0 {
		out := slices.Clone(r.cfg.Run.Rows)
		slices.Sort(out)
		out = slices.Compact(out)
		for _, i := range out {
			if _, err := r.Row(i); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	var out []int
	for _, rw := range r.rows {
		if !rw.Empty() {
			out = append(out, rw.Index)
		}
	}
	return out, nil
}

// Run selects cells on every processed row and scores them. Rows run
// concurrently up to the configured worker count; selection inside a row is
// sequential. The report lists rows in ascending order.
func (r *Runner) Run(ctx context.Context, c cell.Classifier) (*Report, error) {
	if c == nil {
		return nil, errors.New(errors.ErrCodeClassifierUnavailable, "no classifier")
	}
	indices, err := r.selected()
	if err != nil {
		return nil, err
	}

	scores := make([]alignment.RowScore, len(indices))
	selections := make([]cell.RowSelection, len(indices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Run.Workers)
	for k, i := range indices {
		k, i := k, i
		g.Go(func() error {
			sel, score, err := r.runRow(gctx, i, c)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			selections[k], scores[k] = sel, score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{
		Summary:    alignment.Summarize(scores),
		Selections: selections,
		Vias:       r.viaCount,
		NetVias:    r.netVias,
	}
	if pct, ok := rep.Summary.Percent(); ok {
		r.logger.Info("run complete", "rows", len(indices), "matches", rep.Summary.Matches,
			"total", rep.Summary.Total, "accuracy", fmt.Sprintf("%.2f%%", pct))
	} else {
		r.logger.Info("run complete", "rows", len(indices), "accuracy", "n/a")
	}
	return rep, nil
}

func (r *Runner) runRow(ctx context.Context, i int, c cell.Classifier) (cell.RowSelection, alignment.RowScore, error) {
	actual, err := r.Truth(i)
	if err != nil {
		return cell.RowSelection{}, alignment.RowScore{}, err
	}
	cands, err := r.Groups(i)
	if err != nil {
		return cell.RowSelection{}, alignment.RowScore{}, err
	}
	sel, err := cell.SelectRow(ctx, i, cands, c)
	if err != nil {
		return cell.RowSelection{}, alignment.RowScore{}, err
	}

	predicted := sel.Labels()
	score := alignment.RowScore{
		Row:       i,
		Predicted: predicted,
		Actual:    actual,
		Result:    alignment.Score(predicted, actual),
	}
	r.logger.Debug("row scored", "row", i, "vias", len(r.rows[i].Vias), "positions", len(cands),
		"selected", len(sel.Selections), "matches", score.Matches, "actual", score.TotalActual)
	return sel, score, nil
}
