package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cell-tracer/internal/cell"
	"cell-tracer/internal/config"
	"cell-tracer/internal/pipeline"
)

// predictOpts holds the flags of the predict command.
type predictOpts struct {
	tuning
	model     string // model JSON, overrides [classifier] model
	artifacts string // directory for per-run snippet PNGs
	stub      bool   // use the size heuristic instead of a trained model
	json      bool
}

func newPredictCmd(g *globalOpts) *cobra.Command {
	var opts predictOpts

	cmd := &cobra.Command{
		Use:   "predict [layout]",
		Short: "Recover cells row by row and score them against the placement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g.config)
			if err != nil {
				return err
			}
			opts.tuning.apply(cfg, cmd.Flags().Changed)
			if opts.model != "" {
				cfg.Classifier.Model = opts.model
			}
			return runPredict(cmd.Context(), cmd.OutOrStdout(), args[0], cfg, &opts)
		},
	}

	addTuningFlags(cmd, &opts.tuning)
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "classifier model JSON")
	cmd.Flags().StringVar(&opts.artifacts, "artifacts", "", "write every classified snippet under this directory")
	cmd.Flags().BoolVar(&opts.stub, "stub", false, "classify by via count instead of a trained model")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")

	return cmd
}

func addTuningFlags(cmd *cobra.Command, t *tuning) {
	def := config.Default()
	cmd.Flags().IntVar(&t.maxGroupSize, "max-group-size", def.Grouping.MaxGroupSize, "largest via group per cell")
	cmd.Flags().Float64Var(&t.maxDistance, "max-distance", def.Grouping.MaxDistance, "exclusive bound on a group's x span")
	cmd.Flags().Float64Var(&t.margin, "margin", def.Render.Margin, "window margin around a group")
	cmd.Flags().StringVar(&t.viaType, "via-type", def.Run.ViaType, "via name prefix of cell pins")
	cmd.Flags().IntVarP(&t.workers, "workers", "j", def.Run.Workers, "rows processed in parallel")
	cmd.Flags().IntSliceVar(&t.rows, "rows", nil, "rows to process (default: every non-empty row)")
	cmd.Flags().StringVar(&t.labels, "labels", "", "JSON label library merged over the [labels] table")
}

func runPredict(ctx context.Context, w io.Writer, layoutPath string, cfg *config.Config, opts *predictOpts) error {
	runID := uuid.New()
	logger := loggerFromContext(ctx).With("run", runID.String()[:8])
	ctx = withLogger(ctx, logger)

	if opts.artifacts != "" {
		cfg.Render.ArtifactDir = filepath.Join(opts.artifacts, runID.String())
	}

	r, closeCache, err := openRunner(ctx, layoutPath, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	var c cell.Classifier
	if opts.stub {
		c = cell.SizeClassifier()
	} else if c, err = r.LoadClassifier(); err != nil {
		return err
	}

	prog := newStage(logger)
	rep, err := r.Run(ctx, c)
	if err != nil {
		return err
	}
	prog.done("Scored %d rows", len(rep.Summary.Rows))

	if opts.json {
		return writeJSON(w, struct {
			RunID string `json:"run_id"`
			*pipeline.Report
		}{runID.String(), rep})
	}
	printReport(w, rep)
	return nil
}

func printReport(w io.Writer, rep *pipeline.Report) {
	for _, rs := range rep.Summary.Rows {
		acc := "n/a"
		if pct, ok := rs.Accuracy(); ok {
			acc = fmt.Sprintf("%.1f%%", pct)
		}
		fmt.Fprintf(w, "row %3d  %3d/%-3d %7s\n", rs.Row, rs.Matches, rs.TotalActual, acc)
		fmt.Fprintf(w, "  predicted: %s\n", strings.Join(rs.Predicted, " "))
		fmt.Fprintf(w, "  actual:    %s\n", strings.Join(rs.Actual, " "))
	}
	if pct, ok := rep.Summary.Percent(); ok {
		fmt.Fprintf(w, "total    %d/%d %.2f%%\n", rep.Summary.Matches, rep.Summary.Total, pct)
	} else {
		fmt.Fprintln(w, "total    n/a (no placed components)")
	}
}
