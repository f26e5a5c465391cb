// Command viarows prints the signal vias of a layout row by row, with the
// candidate groups of each row, for checking grouping thresholds by eye.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"cell-tracer/internal/config"
	"cell-tracer/internal/project"
	"cell-tracer/internal/row"
	"cell-tracer/internal/via"
)

type options struct {
	layout  string
	viaType string
	params  via.Params
	row     int
}

// parseFlags reads the command line. Defaults match the cell-tracer CLI.
func parseFlags(args []string) (options, error) {
	def := via.DefaultParams()
	fs := flag.NewFlagSet("viarows", flag.ContinueOnError)
	layoutPath := fs.String("layout", "", "Path to layout document (JSON or YAML)")
	viaType := fs.String("via", config.DefaultViaType, "Via name prefix")
	maxSize := fs.Int("size", def.MaxGroupSize, "Max vias per group")
	maxDist := fs.Float64("dist", def.MaxDistance, "Max group span")
	only := fs.Int("row", -1, "Only this row")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if *layoutPath == "" {
		return options{}, fmt.Errorf("missing -layout")
	}
	return options{
		layout:  *layoutPath,
		viaType: *viaType,
		params:  def.WithMaxGroupSize(*maxSize).WithMaxDistance(*maxDist),
		row:     *only,
	}, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Println("Usage: viarows -layout <path> [-via prefix] [-size N] [-dist D] [-row N]")
		os.Exit(1)
	}

	f, err := project.Load(opts.layout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load layout: %v\n", err)
		os.Exit(1)
	}

	rh, err := f.RowHeight()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Row height: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s: die %.0fx%.0f, row height %.0f\n", f.Name, f.DieArea.Width, f.DieArea.Height, rh)

	vias, netVias := via.ExtractVias(f.Nets, opts.viaType)
	fmt.Printf("%d %s vias on %d nets\n", len(vias), opts.viaType, len(netVias))

	rows, err := row.Partition(f.DieArea.MaxY(), rh, vias, via.Position)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Partition failed: %v\n", err)
		os.Exit(1)
	}

	params := opts.params
	fmt.Printf("\nGrouping parameters:\n")
	fmt.Printf("  Max group size: %d\n", params.MaxGroupSize)
	fmt.Printf("  Max distance:   %.0f\n", params.MaxDistance)

	for i, r := range rows {
		if opts.row >= 0 && i != opts.row {
			continue
		}
		if len(r) == 0 {
			continue
		}

		cands, err := via.GroupCandidates(r, params)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Grouping failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\nRow %d (y %.0f-%.0f): %d vias, %d starting positions\n",
			i, row.Origin(i, rh), row.Origin(i+1, rh), len(r), len(cands))
		fmt.Printf("%-6s %-28s %s\n", "Start", "Lead", "Groups")
		fmt.Println(strings.Repeat("-", 72))
		for _, c := range cands {
			sizes := make([]string, len(c.Groups))
			for k, g := range c.Groups {
				sizes[k] = fmt.Sprintf("%d:%.0f", len(g), g.Span())
			}
			fmt.Printf("%-6d %-28s %s\n", c.Start, c.Lead(), strings.Join(sizes, " "))
		}
	}
}
