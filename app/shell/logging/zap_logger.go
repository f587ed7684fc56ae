package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

const (
	logAttrTraceID = "trace_id"
	logAttrSpanID  = "span_id"
)

// NewZapLogger builds a production zap logger writing JSON to stderr.
// debug overrides level with the debug level.
func NewZapLogger(level string, debug bool) (*zap.Logger, error) {
	logger, _, err := NewZapLoggerWithLevel(level, debug)

	return logger, err
}

// NewZapLoggerWithLevel works like NewZapLogger and also returns the level handle,
// so the level can be raised to debug once the persisted debug flag is known.
func NewZapLoggerWithLevel(level string, debug bool) (*zap.Logger, zap.AtomicLevel, error) {
	config := zap.NewProductionConfig()

	parsedLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}

	if debug {
		parsedLevel = zapcore.DebugLevel
	}

	config.Level = zap.NewAtomicLevelAt(parsedLevel)

	logger, err := config.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}

	return logger, config.Level, nil
}

// ZapLogger implements recordstore.Logger and recordstore.ContextualLogger.
// Arguments are slog-style key/value pairs, as zap's sugared logger expects them.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger wraps logger.
func NewLogger(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: logger.Sugar()}
}

// Debug logs at debug level.
func (l *ZapLogger) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

// Info logs at info level.
func (l *ZapLogger) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

// Warn logs at warn level.
func (l *ZapLogger) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

// Error logs at error level.
func (l *ZapLogger) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

// DebugContext logs at debug level and adds the trace and span ids found in ctx.
func (l *ZapLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.sugar.Debugw(msg, withTraceIDs(ctx, args)...)
}

// InfoContext logs at info level and adds the trace and span ids found in ctx.
func (l *ZapLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.sugar.Infow(msg, withTraceIDs(ctx, args)...)
}

// WarnContext logs at warn level and adds the trace and span ids found in ctx.
func (l *ZapLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.sugar.Warnw(msg, withTraceIDs(ctx, args)...)
}

// ErrorContext logs at error level and adds the trace and span ids found in ctx.
func (l *ZapLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.sugar.Errorw(msg, withTraceIDs(ctx, args)...)
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

func withTraceIDs(ctx context.Context, args []any) []any {
	spanContext := trace.SpanContextFromContext(ctx)
	if !spanContext.IsValid() {
		return args
	}

	return append(
		append(make([]any, 0, len(args)+4), args...),
		logAttrTraceID, spanContext.TraceID().String(),
		logAttrSpanID, spanContext.SpanID().String(),
	)
}

var (
	_ recordstore.Logger           = (*ZapLogger)(nil)
	_ recordstore.ContextualLogger = (*ZapLogger)(nil)
)
