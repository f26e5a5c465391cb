package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newGroupsCmd(g *globalOpts) *cobra.Command {
	var (
		t      tuning
		rowIdx int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "groups [layout]",
		Short: "Show the candidate via groups of one row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g.config)
			if err != nil {
				return err
			}
			t.apply(cfg, cmd.Flags().Changed)

			r, closeCache, err := openRunner(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			cands, err := r.Groups(rowIdx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, cands)
			}
			rw, _ := r.Row(rowIdx)
			fmt.Fprintf(w, "row %d: %d vias, %d starting positions\n", rowIdx, len(rw.Vias), len(cands))
			for _, c := range cands {
				fmt.Fprintf(w, "%4d %s\n", c.Start, c.Lead())
				for _, grp := range c.Groups {
					parts := make([]string, len(grp))
					for i, v := range grp {
						parts[i] = fmt.Sprintf("%.0f", v.X())
					}
					fmt.Fprintf(w, "       size %d span %-6.0f x=[%s]\n", len(grp), grp.Span(), strings.Join(parts, " "))
				}
			}
			return nil
		},
	}

	addTuningFlags(cmd, &t)
	cmd.Flags().IntVarP(&rowIdx, "row", "r", 0, "row index")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print candidates as JSON")
	return cmd
}
