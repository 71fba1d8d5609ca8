package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
)

// ColorTextHandler renders records with slog.TextHandler and wraps each line in
// an ANSI color picked from the record level. The text handler would quote
// escape codes placed in the message, so the line is colored after formatting.
type ColorTextHandler struct {
	inner slog.Handler
	buf   *bytes.Buffer
	mu    *sync.Mutex
	w     io.Writer
}

// NewColorTextHandler creates a new ColorTextHandler
func NewColorTextHandler(w io.Writer, opts *slog.HandlerOptions) *ColorTextHandler {
	buf := &bytes.Buffer{}
	return &ColorTextHandler{
		inner: slog.NewTextHandler(buf, opts),
		buf:   buf,
		mu:    &sync.Mutex{},
		w:     w,
	}
}

func (h *ColorTextHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.inner.Enabled(ctx, l)
}

// Handle implements slog.Handler
func (h *ColorTextHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf.Reset()
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	line := bytes.TrimRight(h.buf.Bytes(), "\n")
	out := make([]byte, 0, len(line)+16)
	out = append(out, levelColor(r.Level)...)
	out = append(out, line...)
	out = append(out, "\033[0m\n"...)
	_, err := h.w.Write(out)
	return err
}

func (h *ColorTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ColorTextHandler{inner: h.inner.WithAttrs(attrs), buf: h.buf, mu: h.mu, w: h.w}
}

func (h *ColorTextHandler) WithGroup(name string) slog.Handler {
	return &ColorTextHandler{inner: h.inner.WithGroup(name), buf: h.buf, mu: h.mu, w: h.w}
}

func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "\033[31m" // Red
	case l >= slog.LevelWarn:
		return "\033[33m" // Yellow
	case l >= slog.LevelInfo:
		return "\033[32m" // Green
	default:
		return "\033[36m" // Cyan
	}
}
