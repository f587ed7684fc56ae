package recordstore

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"
)

const (
	metricOperationDuration  = "bookshelf_store_operation_duration_seconds"
	metricOperationsTotal    = "bookshelf_store_operations_total"
	metricErrorsTotal        = "bookshelf_store_errors_total"
	metricRecordsTotal       = "bookshelf_store_records_total"
	spanNamePrefix           = "recordstore."
	spanAttrOperation        = "operation"
	spanAttrRecordCount      = "record_count"
	spanAttrDurationMS       = "duration_ms"
	spanAttrErrorType        = "error_type"
	labelStatus              = "status"
	statusSuccess            = "success"
	statusError              = "error"
	statusCanceled           = "canceled"
	statusNotFound           = "not_found"
	errorTypeRead            = "storage_read"
	errorTypeWrite           = "storage_write"
	errorTypeEncode          = "encode"
	errorTypeNotFound        = "not_found"
	errorTypeMalformedImport = "malformed_import"
)

// operationObserver wraps one Store operation with tracing and metrics.
type operationObserver struct {
	s         *Store
	ctx       context.Context
	operation string
	span      SpanContext
	start     time.Time
}

// startObservation starts a span (if tracing is configured) and the duration measurement.
func (s *Store) startObservation(ctx context.Context, operation string) (*operationObserver, context.Context) {
	var span SpanContext

	if s.tracingCollector != nil {
		ctx, span = s.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, map[string]string{
			spanAttrOperation: operation,
		})
	}

	return &operationObserver{
		s:         s,
		ctx:       ctx,
		operation: operation,
		span:      span,
		start:     time.Now(),
	}, ctx
}

// finishSuccess completes a read-only operation.
func (o *operationObserver) finishSuccess(recordCount int) {
	duration := time.Since(o.start)

	o.s.logDebug(o.ctx, logMsgOperation+o.operation,
		logAttrRecordCount, recordCount,
		logAttrDurationMS, toMilliseconds(duration))

	o.recordDuration(duration, statusSuccess)
	o.incrementCounter(metricOperationsTotal, statusSuccess, "")
	o.finishSpan(statusSuccess, map[string]string{
		spanAttrRecordCount: strconv.Itoa(recordCount),
		spanAttrDurationMS:  formatMilliseconds(duration),
	})
}

// finishMutation completes a successful mutation and records the new collection size.
func (o *operationObserver) finishMutation(recordCount int) {
	o.finishSuccess(recordCount)
	o.recordValue(metricRecordsTotal, float64(recordCount))
}

// finishError completes an operation that failed or found nothing to work on.
func (o *operationObserver) finishError(err error, errorType string) {
	duration := time.Since(o.start)

	status := statusError
	switch {
	case isCancellationError(err):
		status = statusCanceled
	case errors.Is(err, ErrRecordNotFound):
		status = statusNotFound
	}

	o.recordDuration(duration, status)
	o.incrementCounter(metricOperationsTotal, status, "")

	if status != statusNotFound {
		o.incrementCounter(metricErrorsTotal, status, errorType)
	}

	o.finishSpan(status, map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrDurationMS: formatMilliseconds(duration),
	})
}

func (o *operationObserver) recordDuration(duration time.Duration, status string) {
	collector := o.s.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: o.operation, labelStatus: status}

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(o.ctx, metricOperationDuration, duration, labels)
		return
	}

	collector.RecordDuration(metricOperationDuration, duration, labels)
}

func (o *operationObserver) incrementCounter(metric, status, errorType string) {
	collector := o.s.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: o.operation, labelStatus: status}
	if errorType != "" {
		labels[spanAttrErrorType] = errorType
	}

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(o.ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

func (o *operationObserver) recordValue(metric string, value float64) {
	collector := o.s.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: o.operation}

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(o.ctx, metric, value, labels)
		return
	}

	collector.RecordValue(metric, value, labels)
}

func (o *operationObserver) finishSpan(status string, attrs map[string]string) {
	if o.s.tracingCollector == nil || o.span == nil {
		return
	}

	o.span.SetStatus(status)
	o.s.tracingCollector.FinishSpan(o.span, status, attrs)
}

// isCancellationError reports whether err stems from a canceled or expired context.
func isCancellationError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMilliseconds(d time.Duration) string {
	return strconv.FormatFloat(toMilliseconds(d), 'f', 2, 64)
}

// logDebug, logWarn and logError prefer the contextual logger over the plain one.

func (s *Store) logDebug(ctx context.Context, msg string, args ...any) {
	switch {
	case s.contextualLogger != nil:
		s.contextualLogger.DebugContext(ctx, msg, args...)
	case s.logger != nil:
		s.logger.Debug(msg, args...)
	}
}

func (s *Store) logOperation(ctx context.Context, operation string, args ...any) {
	switch {
	case s.contextualLogger != nil:
		s.contextualLogger.InfoContext(ctx, logMsgOperation+operation, args...)
	case s.logger != nil:
		s.logger.Info(logMsgOperation+operation, args...)
	}
}

func (s *Store) logWarn(ctx context.Context, msg string, args ...any) {
	switch {
	case s.contextualLogger != nil:
		s.contextualLogger.WarnContext(ctx, msg, args...)
	case s.logger != nil:
		s.logger.Warn(msg, args...)
	}
}

func (s *Store) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	switch {
	case s.contextualLogger != nil:
		s.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	case s.logger != nil:
		s.logger.Error(msg, allArgs...)
	}
}
