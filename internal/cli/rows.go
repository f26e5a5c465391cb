package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cell-tracer/internal/component"
)

func newRowsCmd(g *globalOpts) *cobra.Command {
	var (
		t      tuning
		all    bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "rows [layout]",
		Short: "List the standard-cell rows of a layout",
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

			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, r.Rows())
			}
			fmt.Fprintf(w, "row height %.0f, %d rows\n", r.RowHeight(), len(r.Rows()))
			for _, rw := range r.Rows() {
				if rw.Empty() && !all {
					continue
				}
				fmt.Fprintf(w, "row %3d  y=%-8.0f vias %4d  components %4d  %s\n",
					rw.Index, rw.Origin, len(rw.Vias), len(rw.Components),
					strings.Join(component.Macros(rw.Components), " "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&t.viaType, "via-type", "", "via name prefix of cell pins")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include empty rows")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON")
	return cmd
}
