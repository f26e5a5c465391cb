package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cell-tracer/internal/alignment"
)

func newScoreCmd() *cobra.Command {
	var predicted, actual string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a predicted label sequence against the actual one",
		Example: `  cell-tracer score --predicted and2,nand2,or2 --actual and2,invx1,nand2,or2
  2/4 50.00%`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := alignment.Score(splitLabels(predicted), splitLabels(actual))
			w := cmd.OutOrStdout()
			if pct, ok := r.Accuracy(); ok {
				fmt.Fprintf(w, "%d/%d %.2f%%\n", r.Matches, r.TotalActual, pct)
			} else {
				fmt.Fprintf(w, "%d/%d n/a\n", r.Matches, r.TotalActual)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&predicted, "predicted", "p", "", "comma-separated predicted labels")
	cmd.Flags().StringVarP(&actual, "actual", "a", "", "comma-separated actual labels")
	return cmd
}

func splitLabels(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
