package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSnippetsCmd(g *globalOpts) *cobra.Command {
	var (
		t     tuning
		out   string
		scale int
	)

	cmd := &cobra.Command{
		Use:   "snippets [layout]",
		Short: "Export labelled ground-truth snippets for training",
		Long:  `snippets walks each row's placed components, hands every component the next vias of its row (one per signal pin), and writes the rendered window as a PNG named after its corners, macro, and instance.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g.config)
			if err != nil {
				return err
			}
			t.apply(cfg, cmd.Flags().Changed)
			if out != "" {
				cfg.Render.ArtifactDir = out
			}
			if cmd.Flags().Changed("scale") {
				cfg.Render.ArtifactScale = scale
			}

			ctx := cmd.Context()
			r, closeCache, err := openRunner(ctx, args[0], cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			prog := newStage(loggerFromContext(ctx))
			snips, err := r.Snippets(ctx, cfg.Run.Rows)
			if err != nil {
				return err
			}
			prog.done("Wrote %d snippets to %s", len(snips), cfg.Render.ArtifactDir)
			for _, s := range snips {
				fmt.Fprintln(cmd.OutOrStdout(), s.Path)
			}
			return nil
		},
	}

	addTuningFlags(cmd, &t)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default: [render] artifact_dir)")
	cmd.Flags().IntVar(&scale, "scale", 1, "enlarge PNGs by this factor")
	return cmd
}
