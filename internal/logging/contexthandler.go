package logging

import (
	"context"
	"log/slog"
)

// AttrsFunc returns attributes evaluated at log time, such as the current
// campaign turn.
type AttrsFunc func() []slog.Attr

// ContextHandler wraps another handler and appends AttrsFunc output to every
// record it handles.
type ContextHandler struct {
	inner slog.Handler
	attrs AttrsFunc
}

func NewContextHandler(inner slog.Handler, attrs AttrsFunc) *ContextHandler {
	return &ContextHandler{
		inner: inner,
		attrs: attrs,
	}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.attrs != nil {
		r.AddAttrs(h.attrs()...)
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{
		inner: h.inner.WithAttrs(attrs),
		attrs: h.attrs,
	}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{
		inner: h.inner.WithGroup(name),
		attrs: h.attrs,
	}
}
