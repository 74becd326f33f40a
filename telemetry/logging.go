package telemetry

import (
	"context"
	"io"
	"log/slog"
	"math"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// ConfigureSlog installs a text or JSON slog logger as the process default.
// Records logged with a context carrying a recording span get trace_id and
// span_id attributes.
func ConfigureSlog(w io.Writer, level, format string) *slog.Logger {
	logger := slog.New(NewHandler(w, level, format))
	slog.SetDefault(logger)
	return logger
}

// NewHandler returns the trace-aware handler without touching the default
// logger.
func NewHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var base slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		base = slog.NewJSONHandler(w, opts)
	} else {
		base = slog.NewTextHandler(w, opts)
	}
	return &spanHandler{next: base}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
}

// ParseLevel maps a level name to slog.Level; unknown names mean Info.
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

type spanHandler struct {
	next slog.Handler
}

func (h *spanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *spanHandler) Handle(ctx context.Context, rec slog.Record) error {
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			if !hasAttr(rec, "trace_id") {
				rec.AddAttrs(slog.String("trace_id", sc.TraceID().String()))
			}
			if !hasAttr(rec, "span_id") {
				rec.AddAttrs(slog.String("span_id", sc.SpanID().String()))
			}
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *spanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &spanHandler{next: h.next.WithAttrs(attrs)}
}

func (h *spanHandler) WithGroup(name string) slog.Handler {
	return &spanHandler{next: h.next.WithGroup(name)}
}

func hasAttr(rec slog.Record, key string) bool {
	found := false
	rec.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			found = true
			return false
		}
		return true
	})
	return found
}
