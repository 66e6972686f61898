// Package cli implements the familytree command-line interface.
//
// The commands read and write the members file through the store, so every
// mutation goes through the same validation as the library API. The CLI is
// built with cobra, logs with charmbracelet/log and styles its output with
// lipgloss.
//
// # Commands
//
//   - list, show: print members and their relatives
//   - add, edit, remove: mutate the tree (edit and remove ask before writing)
//   - graph: render the tree with Graphviz (svg, pdf, png, dot, json)
//   - import: convert a legacy file with a relationship list
//   - browse: interactive member browser
//   - cache: manage the rendered diagram cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context; skipped records found while loading the
// members file are reported as warnings.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/familytree/pkg/observability"
)

// newLogger creates a logger with timestamps formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered svg (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports cache and render events at debug level through the
// logger carried by the event's context.
type logHooks struct{}

// RegisterHooks installs debug logging for diagram cache and render events.
func RegisterHooks() {
	observability.SetCacheHooks(logHooks{})
	observability.SetRenderHooks(logHooks{})
}

func (logHooks) OnCacheHit(ctx context.Context, key string) {
	loggerFromContext(ctx).Debug("diagram cache hit", "key", shortKey(key))
}

func (logHooks) OnCacheMiss(ctx context.Context, key string) {
	loggerFromContext(ctx).Debug("diagram cache miss", "key", shortKey(key))
}

func (logHooks) OnCacheSet(ctx context.Context, key string, size int) {
	loggerFromContext(ctx).Debug("diagram cached", "key", shortKey(key), "bytes", size)
}

func (logHooks) OnRenderStart(ctx context.Context, format string, size int) {
	loggerFromContext(ctx).Debug("rendering diagram", "format", format, "dot_bytes", size)
}

func (logHooks) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	l := loggerFromContext(ctx)
	if err != nil {
		l.Debug("render failed", "format", format, "err", err)
		return
	}
	l.Debugf("Rendered %s, %d bytes (%s)", format, size, d.Round(time.Millisecond))
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
