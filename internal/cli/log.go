// Package cli implements the ridgeline command-line interface.
//
// The commands render backdrops offline, host the live animation in a
// terminal, and serve the portfolio API:
//
//   - render: write SVG, PNG or text frames of the backdrop
//   - watch: animate the backdrop inside a bubbletea program
//   - play: animate the backdrop full-screen on a tcell screen
//   - serve: run the HTTP API and backdrop endpoint
//   - content, nav, contact: query the portfolio registry and services
//   - cache: manage the artifact cache
//
// Every command accepts --verbose (-v) and --config. The root command loads
// the configuration once and hands the logger down through the command
// context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
		Prefix:          appName,
	})
}

// progress logs how long an operation took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Info(msg, "took", time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default when no logger is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
