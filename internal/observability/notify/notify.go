// Package notify delivers user-facing failure notifications raised by the API
// client. Every failed call produces one notification; sinks never deduplicate.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/target/storefront/internal/ports"
)

var (
	_ ports.Notifier = NotifierFunc(nil)
	_ ports.Notifier = (*Logger)(nil)
	_ ports.Notifier = (*Writer)(nil)
	_ ports.Notifier = Multi(nil)
)

// NotifierFunc adapts a function to ports.Notifier (useful for tests).
type NotifierFunc func(ctx context.Context, n ports.Notification)

// Notify implements ports.Notifier.
func (f NotifierFunc) Notify(ctx context.Context, n ports.Notification) {
	if f == nil {
		return
	}
	f(ctx, n)
}

// Logger records notifications as structured warnings.
type Logger struct {
	logger *slog.Logger
}

// NewLogger returns a Logger. A nil logger uses slog.Default.
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger.With("component", "notify")}
}

// Notify implements ports.Notifier.
func (l *Logger) Notify(ctx context.Context, n ports.Notification) {
	attrs := []any{"code", string(n.Code), "message", n.Message}
	if n.Status != 0 {
		attrs = append(attrs, "status", n.Status)
	}
	l.logger.WarnContext(ctx, "request failed", attrs...)
}

// Writer prints one line per notification, e.g. for a terminal.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a Writer printing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Notify implements ports.Notifier.
func (w *Writer) Notify(_ context.Context, n ports.Notification) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintf(w.w, "error: %s\n", n.Message)
}

// Multi fans a notification out to every non-nil notifier in order.
type Multi []ports.Notifier

// Notify implements ports.Notifier.
func (m Multi) Notify(ctx context.Context, n ports.Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}
