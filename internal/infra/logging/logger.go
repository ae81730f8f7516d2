// Package logging provides file-based logging for zentasks.
// Entries go to a single rotating log file (<state dir>/logs/zentasks.log) in a
// bracketed line format: [2025-12-30 09:32:51] [INFO] [apiclient] message key=value
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ComponentKey is the attribute that fills the [category] column.
const ComponentKey = "component"

// Options configures the file logger.
type Options struct {
	Path       string // Log file path; empty disables logging
	Level      slog.Level
	MaxSizeMB  int
	MaxBackups int
}

// Logger wraps slog.Logger with a rotating file output.
// Fields are ordered to minimize memory padding.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// New creates a Logger writing to opts.Path.
// If the path is empty, logging is disabled (the returned logger discards everything).
func New(opts Options) (*Logger, error) {
	if opts.Path == "" {
		return Discard(), nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	w := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}
	return &Logger{
		Logger: slog.New(NewHandler(w, opts.Level)),
		closer: w,
	}, nil
}

// Discard returns a Logger that writes nothing.
func Discard() *Logger {
	return &Logger{Logger: slog.New(NewHandler(io.Discard, slog.LevelError+1))}
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Handler is a slog.Handler producing one bracketed line per record.
type Handler struct {
	w         io.Writer
	mu        *sync.Mutex
	component string
	prefix    string // group prefix for attribute keys
	attrs     []slog.Attr
	level     slog.Level
}

// NewHandler creates a Handler writing to w.
func NewHandler(w io.Writer, level slog.Level) *Handler {
	return &Handler{w: w, mu: &sync.Mutex{}, level: level, component: "global"}
}

// Enabled reports whether level is at or above the handler's minimum.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes the record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	component := h.component
	var b strings.Builder
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		if h.prefix == "" && a.Key == ComponentKey {
			component = a.Value.String()
			return true
		}
		writeAttr(&b, h.prefix, a)
		return true
	})

	line := fmt.Sprintf("[%s] [%s] [%s] %s%s\n",
		r.Time.Format("2006-01-02 15:04:05"),
		levelToString(r.Level),
		component,
		r.Message,
		b.String(),
	)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line)
	return err
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		if h.prefix == "" && a.Key == ComponentKey {
			h2.component = a.Value.String()
			continue
		}
		a.Key = h.prefix + a.Key
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

// WithGroup returns a handler that prefixes later attribute keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, prefix+a.Key+".", ga)
		}
		return
	}
	val := a.Value.String()
	if val == "" || strings.ContainsAny(val, " \t\n\"=") {
		val = strconv.Quote(val)
	}
	b.WriteString(" ")
	b.WriteString(prefix + a.Key)
	b.WriteString("=")
	b.WriteString(val)
}

func levelToString(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
