package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/ahlemhorchani/smart-interventions/internal/config"
)

// ParseLevel maps a config level, unknown values are info / Convertit le niveau, info par défaut
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// NewLogger builds the console handler plus optional Loki / Construit le handler console et Loki optionnel
// The returned closer flushes Loki and must be called on shutdown.
func NewLogger(conf *config.Config, w io.Writer) (*slog.Logger, io.Closer) {
	level := ParseLevel(conf.Logging.Level)

	var console slog.Handler
	if strings.ToLower(conf.Logging.Format) == "json" {
		console = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: conf.IsProduction(),
		})
	} else {
		console = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}

	if !conf.Logging.LokiEnabled {
		return slog.New(console), io.NopCloser(nil)
	}

	loki := NewLokiHandler(
		conf.Logging.LokiURL,
		conf.Logging.LokiLabels,
		conf.Logging.LokiBatchSize,
		true,
		level,
	)
	return slog.New(&multiHandler{handlers: []slog.Handler{console, loki}}), loki
}

// multiHandler fans a record out to every handler enabled for its level.
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, record.Level) {
			errs = append(errs, hh.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		out[i] = hh.WithAttrs(attrs)
	}
	return &multiHandler{handlers: out}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		out[i] = hh.WithGroup(name)
	}
	return &multiHandler{handlers: out}
}
