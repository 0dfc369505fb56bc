// Package logging builds the slog logger of the swraster command.
//
// Console output goes to the given writer as text or JSON. When a file is
// configured, records are also written as JSON to a size-rotated log file.
package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction. The zero value logs INFO and above
// as text with no file output.
type Options struct {
	Level     string // debug, info, warn or error
	Format    string // text or json
	AddSource bool

	// File enables rotated JSON file logging in addition to the console.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ParseLevel converts a level name to a slog.Level. Unknown names map to
// INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a logger writing to console, and to a rotated file when
// opts.File is set. The returned closer releases the file and must be
// called on exit.
func New(console io.Writer, opts Options) (*slog.Logger, io.Closer) {
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level), AddSource: opts.AddSource}

	var handlers []slog.Handler
	if console != nil {
		if strings.EqualFold(opts.Format, "json") {
			handlers = append(handlers, slog.NewJSONHandler(console, hopts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(console, hopts))
		}
	}

	var closer io.Closer = nopCloser{}
	if f := strings.TrimSpace(opts.File); f != "" {
		lj := &lumberjack.Logger{
			Filename:   f,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     orDefault(opts.MaxAgeDays, 28),
		}
		handlers = append(handlers, slog.NewJSONHandler(lj, hopts))
		closer = lj
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.NewTextHandler(io.Discard, hopts)), closer
	case 1:
		return slog.New(handlers[0]), closer
	}
	return slog.New(multi(handlers)), closer
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// multi fans records out to several handlers.
type multi []slog.Handler

func (m multi) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multi) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multi) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multi, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multi) WithGroup(name string) slog.Handler {
	out := make(multi, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
