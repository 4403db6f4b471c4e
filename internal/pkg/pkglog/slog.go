package pkglog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const serviceName = "vendorcafe"

// InitLogging configures the default slog logger for the application.
//
// The logger writes JSON to stdout and renames a few keys ("ts", "severity",
// "file") so records look the same across services.
func InitLogging(level string) {
	InitLoggingTo(os.Stdout, level)
}

// InitLoggingTo is InitLogging writing to w, e.g. stderr for CLI commands
// whose stdout is their output.
func InitLoggingTo(w io.Writer, level string) {
	slog.SetDefault(New(w, level))
}

// New builds the application logger writing to w at the given level name.
func New(w io.Writer, level string) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(level),
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	})

	return slog.New(&contextHandler{Handler: jsonHandler})
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		if strings.Contains(src.File, "/internal/") {
			relPath := filepath.Join("internal", strings.SplitAfter(src.File, "/internal/")[1])
			return slog.Attr{
				Key:   "file",
				Value: slog.StringValue(fmt.Sprintf("%s:%d", relPath, src.Line)),
			}
		}
		return slog.Attr{}
	}
	return a
}

type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if cID := GetCorrelationID(ctx); cID != "" && cID != "[invalid_chain_id]" {
		r.AddAttrs(slog.String("_cID", cID))
	}
	r.AddAttrs(slog.String("service", serviceName))

	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}
