package logging

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler writes each record to every sink whose level admits it. A sink
// that fails does not stop the others; their errors are joined.
type teeHandler []slog.Handler

func newTeeHandler(sinks ...slog.Handler) slog.Handler {
	var tee teeHandler
	for _, sink := range sinks {
		if sink != nil {
			tee = append(tee, sink)
		}
	}
	if len(tee) == 0 {
		return NoopHandler{}
	}
	if len(tee) == 1 {
		return tee[0]
	}
	return tee
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sink := range t {
		if sink.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, sink := range t {
		if sink.Enabled(ctx, record.Level) {
			errs = append(errs, sink.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.derive(func(sink slog.Handler) slog.Handler { return sink.WithAttrs(attrs) })
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return t.derive(func(sink slog.Handler) slog.Handler { return sink.WithGroup(name) })
}

func (t teeHandler) derive(fn func(slog.Handler) slog.Handler) teeHandler {
	next := make(teeHandler, len(t))
	for i, sink := range t {
		next[i] = fn(sink)
	}
	return next
}
