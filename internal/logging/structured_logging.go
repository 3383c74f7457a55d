package logging

import (
	"context"
	"io"
	"log/slog"
	"time"
)

type loggerKey struct{}

type requestIDKey struct{}

// NewStructuredLogger creates a JSON logger writing to w at the given level
func NewStructuredLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// LogError logs an error with structured context
func LogError(logger *slog.Logger, message string, err error, attrs ...slog.Attr) {
	logWithError(logger, slog.LevelError, message, err, attrs)
}

// LogWarn logs a recoverable problem, such as a skipped input record
func LogWarn(logger *slog.Logger, message string, err error, attrs ...slog.Attr) {
	logWithError(logger, slog.LevelWarn, message, err, attrs)
}

func logWithError(logger *slog.Logger, level slog.Level, message string, err error, attrs []slog.Attr) {
	if logger == nil {
		return
	}

	all := make([]slog.Attr, 0, len(attrs)+1)
	if err != nil {
		all = append(all, slog.String("error", err.Error()))
	}
	all = append(all, attrs...)

	logger.LogAttrs(context.Background(), level, message, all...)
}

// LogOperation logs an operation with structured context
func LogOperation(logger *slog.Logger, operation string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}

	kept := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		// Skip zero-value durations
		if attr.Key == "duration" && attr.Value.Kind() == slog.KindDuration && attr.Value.Duration() == 0 {
			continue
		}
		kept = append(kept, attr)
	}

	logger.LogAttrs(context.Background(), slog.LevelInfo, operation, kept...)
}

// LogHTTPRequest logs HTTP request details
func LogHTTPRequest(logger *slog.Logger, method, path string, status int, durationMs float64, attrs ...slog.Attr) {
	if logger == nil {
		return
	}

	all := make([]slog.Attr, 0, len(attrs)+4)
	all = append(all,
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("duration_ms", durationMs),
	)
	all = append(all, attrs...)

	logger.LogAttrs(context.Background(), slog.LevelInfo, "http_request", all...)
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext retrieves a logger from the context, or returns the default logger
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithRequestID stores the id of the request being served
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Time starts timing an operation. Call the returned function when it ends,
// passing the address of the operation's error:
//
//	defer logging.Time(ctx, "graph_search")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	logger := FromContext(ctx)

	return func(errp *error) {
		attrs := []slog.Attr{
			slog.String("op", name),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if id := RequestID(ctx); id != "" {
			attrs = append(attrs, slog.String("request_id", id))
		}

		if errp != nil && *errp != nil {
			LogError(logger, "operation_failed", *errp, attrs...)
			return
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "operation_finished", attrs...)
	}
}
