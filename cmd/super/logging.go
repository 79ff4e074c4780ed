package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// newLogger returns a debug-level text logger on w when verbose is set, and
// a logger that discards everything otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// pebbleLogger routes pebble's logging and tracing through slog.
type pebbleLogger struct {
	logger *slog.Logger
}

func (l *pebbleLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "pebble")
}

func (l *pebbleLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...), "component", "pebble")
}

func (l *pebbleLogger) Fatalf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...), "component", "pebble")
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func (l *pebbleLogger) Eventf(ctx context.Context, format string, args ...any) {}

func (l *pebbleLogger) IsTracingEnabled(ctx context.Context) bool {
	return false
}
