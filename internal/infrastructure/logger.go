package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"complaintreport/internal/config"
)

// Log outputs accepted in LoggingConfig.Output.
const (
	OutputConsole = "console"
	OutputFile    = "file"
	OutputBoth    = "both"
)

// OpenLogger builds the server logger described by cfg. Closing the returned
// closer releases the log file for the file and both outputs; for console
// output it does nothing.
func OpenLogger(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	output := strings.ToLower(strings.TrimSpace(cfg.Output))
	if output != OutputFile && output != OutputBoth {
		return NewLogger(os.Stdout, cfg.Level), noopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", cfg.FilePath, err)
	}

	var w io.Writer = file
	if output == OutputBoth {
		w = io.MultiWriter(os.Stdout, file)
	}
	return NewLogger(w, cfg.Level), file, nil
}

// NewLogger returns a JSON logger writing to w at level. Records logged with
// a context carrying a trace id get a trace_id attribute.
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(traceHandler{slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     ParseLevel(level),
	})})
}

// ParseLevel maps debug, info, warn (or warning) and error, in any case, to
// a slog level. Anything else is info.
func ParseLevel(level string) slog.Level {
	s := strings.ToLower(strings.TrimSpace(level))
	if s == "warning" {
		s = "warn"
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

type traceHandler struct {
	slog.Handler
}

func (h traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := GetTraceID(ctx); id != "" {
		r.AddAttrs(slog.String("trace_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceHandler{h.Handler.WithAttrs(attrs)}
}

func (h traceHandler) WithGroup(name string) slog.Handler {
	return traceHandler{h.Handler.WithGroup(name)}
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }
