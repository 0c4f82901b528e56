// Package logger provides a structured, levelled logger built on log/slog.
//
// The key extension over plain slog is WithCtx: it creates a logger with the
// request ID already attached, so every log line from a handler is
// automatically correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("quote approved", "quote_id", id)
//	// → time=... level=INFO msg="quote approved" request_id=a1b2c3d4 quote_id=17
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/duolink/cotizador/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler
	opts := &slog.HandlerOptions{}

	switch config.AppEnv() {
	case "production", "prod":
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, opts) // structured JSON for log aggregators
	default:
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts) // human-readable for dev
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// AttachMongoSink fans the base logger out to a MongoDB collection in
// addition to stdout. Called at boot when LOG_MONGO_URI is configured.
// Returns the handler so the caller can Close() it on shutdown.
func AttachMongoSink(uri, db, collection string) (*MongoHandler, error) {
	mh, err := NewMongoHandler(uri, db, collection)
	if err != nil {
		return nil, err
	}
	L = slog.New(newFanout(L.Handler(), mh))
	slog.SetDefault(L)
	return mh, nil
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the *slog.Logger injected by the Logger middleware
// (pre-tagged with the request_id), or the base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware — not usually needed in application code.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
