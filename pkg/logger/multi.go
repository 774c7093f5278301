package logger

import (
	"context"
	"log/slog"
)

// Multi builds a *slog.Logger that fans every record out to the handlers
// behind the given loggers. The serve command uses it to pair pretty console
// output with a JSON log file.
func Multi(loggers ...*slog.Logger) *slog.Logger {
	fan := &fanoutHandler{}
	for _, l := range loggers {
		fan.handlers = append(fan.handlers, l.Handler())
	}
	return slog.New(fan)
}

// fanoutHandler dispatches records to every wrapped handler that accepts the
// record's level.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range f.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range f.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	children := make([]slog.Handler, len(f.handlers))
	for i, handler := range f.handlers {
		children[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: children}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	children := make([]slog.Handler, len(f.handlers))
	for i, handler := range f.handlers {
		children[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: children}
}
