package logger

import (
	"context"
	"errors"
	"log/slog"
)

// FanoutHandler is a slog.Handler that forwards every record to each of
// its child handlers, e.g. the console and a rotating log file.
type FanoutHandler struct {
	handlers []slog.Handler
}

// NewFanoutHandler returns a handler writing to all of handlers. Nil
// entries are skipped.
func NewFanoutHandler(handlers ...slog.Handler) *FanoutHandler {
	hs := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			hs = append(hs, h)
		}
	}
	return &FanoutHandler{handlers: hs}
}

// Enabled implements the slog.Handler interface.
// A record is enabled if any child handler wants it.
func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, child := range h.handlers {
		if child.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle implements the slog.Handler interface.
func (h *FanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, child := range h.handlers {
		if !child.Enabled(ctx, record.Level) {
			continue
		}
		// Each child gets its own clone; handlers may retain the record.
		if err := child.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs implements the slog.Handler interface.
func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(h.handlers))
	for i, child := range h.handlers {
		hs[i] = child.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: hs}
}

// WithGroup implements the slog.Handler interface.
func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	hs := make([]slog.Handler, len(h.handlers))
	for i, child := range h.handlers {
		hs[i] = child.WithGroup(name)
	}
	return &FanoutHandler{handlers: hs}
}
