package render

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger used by the render package. The package is
// silent by default; nil restores that. Safe for concurrent use.
//
// Levels:
//   - [slog.LevelDebug]: per-call pipeline statistics
//   - [slog.LevelInfo]: surface allocation
//   - [slog.LevelWarn]: recoverable input problems such as unreadable matcaps
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current render logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
