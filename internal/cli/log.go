// Package cli implements the cell-tracer command-line interface.
//
// Every command that reads a layout shares the --config flag; values given
// on the command line override the file. All commands support --verbose
// (-v) for debug logging, and the logger travels in the command context.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger logs to w at info level, or debug when verbose. Per-row and
// per-snippet lines are debug only.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stage times one step of a command: loading a layout, scoring rows,
// exporting snippets.
type stage struct {
	logger *log.Logger
	start  time.Time
}

func newStage(l *log.Logger) *stage {
	return &stage{logger: l, start: time.Now()}
}

// done logs the formatted message with the stage's elapsed time,
// e.g. "Scored 12 rows (1.234s)".
func (s *stage) done(format string, args ...any) {
	s.logger.Infof("%s (%s)", fmt.Sprintf(format, args...), time.Since(s.start).Round(time.Millisecond))
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the command's logger, or log.Default outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
