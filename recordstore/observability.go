package recordstore

import (
	"context"
	"time"
)

// The Store reports what it does through the interfaces below. None of them pulls in a
// third-party package; recordstore/oteladapters provides OpenTelemetry implementations.
type (
	// Logger receives the Store's operational log lines. *slog.Logger satisfies it.
	Logger interface {
		Debug(msg string, args ...any)
		Info(msg string, args ...any)
		Warn(msg string, args ...any)
		Error(msg string, args ...any)
	}

	// ContextualLogger takes precedence over Logger when both are configured, so that
	// log lines can be correlated with the active span.
	ContextualLogger interface {
		DebugContext(ctx context.Context, msg string, args ...any)
		InfoContext(ctx context.Context, msg string, args ...any)
		WarnContext(ctx context.Context, msg string, args ...any)
		ErrorContext(ctx context.Context, msg string, args ...any)
	}

	// MetricsCollector records operation durations, operation and error counters and the
	// size of the collection.
	MetricsCollector interface {
		RecordDuration(metric string, duration time.Duration, labels map[string]string)
		IncrementCounter(metric string, labels map[string]string)
		RecordValue(metric string, value float64, labels map[string]string)
	}

	// ContextualMetricsCollector is detected at runtime; its methods are preferred when present.
	ContextualMetricsCollector interface {
		MetricsCollector
		RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
		IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
		RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
	}

	// SpanContext is the handle of a span started by a TracingCollector.
	SpanContext interface {
		SetStatus(status string)
		AddAttribute(key, value string)
	}

	// TracingCollector opens one span per Store operation.
	TracingCollector interface {
		StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
		FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
	}
)
