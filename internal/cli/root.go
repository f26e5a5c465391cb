package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cell-tracer/internal/version"
	"cell-tracer/pkg/errors"
)

// globalOpts holds the persistent flags.
type globalOpts struct {
	verbose bool
	config  string // TOML config file, optional
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var g globalOpts

	root := &cobra.Command{
		Use:          "cell-tracer",
		Short:        "Recover standard cells from routed layout vias",
		Long:         `cell-tracer bins a routed layout into standard-cell rows, groups each row's signal vias into candidate cells, classifies them, and scores the result against the placed components.`,
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), g.verbose)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("cell-tracer %s\ncommit: %s\nbuilt: %s\n",
		version.Version, version.GitCommit, version.BuildTime))
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&g.config, "config", "c", "", "TOML config file")

	root.AddCommand(newPredictCmd(&g))
	root.AddCommand(newRowsCmd(&g))
	root.AddCommand(newGroupsCmd(&g))
	root.AddCommand(newScoreCmd())
	root.AddCommand(newSnippetsCmd(&g))
	root.AddCommand(newConfigCmd(&g))
	root.AddCommand(newLabelsCmd(&g))
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the CLI with the given context.
func Execute(ctx context.Context) error {
	root := NewRootCommand()
	root.SetErr(os.Stderr)
	return root.ExecuteContext(ctx)
}

// ExitCode maps a command error to the process exit status: 2 for bad
// configuration or input, 3 when no classifier is usable, 4 for a macro
// without a label, 1 otherwise.
func ExitCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidConfiguration, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLayout:
		return 2
	case errors.ErrCodeClassifierUnavailable:
		return 3
	case errors.ErrCodeUnknownMacroType:
		return 4
	}
	return 1
}
