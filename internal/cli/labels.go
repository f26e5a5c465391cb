package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLabelsCmd(g *globalOpts) *cobra.Command {
	var (
		t   tuning
		out string
	)

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Print or export the effective macro → label table",
		Long:  `labels merges the [labels] table with the optional JSON label library and prints the result. With --out the table is written as a JSON label library that --labels and [run] label_library accept.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g.config)
			if err != nil {
				return err
			}
			t.apply(cfg, cmd.Flags().Changed)

			lib, err := cfg.Library()
			if err != nil {
				return err
			}
			if out != "" {
				if err := lib.Save(out); err != nil {
					return err
				}
				loggerFromContext(cmd.Context()).Infof("Wrote %d labels to %s", len(lib.Entries), out)
				return nil
			}
			w := cmd.OutOrStdout()
			for _, e := range lib.Entries {
				fmt.Fprintf(w, "%-12s %s\n", e.Macro, e.Label)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&t.labels, "labels", "", "JSON label library merged over the [labels] table")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the table as a JSON label library")
	return cmd
}
