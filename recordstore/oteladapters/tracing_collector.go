package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

const (
	spanAttrStatus        = "status"
	spanStatusSuccess     = "success"
	spanStatusError       = "error"
	spanStatusCanceled    = "canceled"
	spanStatusNotFound    = "not_found"
	spanDescFailed        = "Operation failed"
	spanDescCanceled      = "Operation canceled"
	spanAttrRecordMissing = "record_missing"
)

// TracingCollector implements recordstore.TracingCollector with the OpenTelemetry tracing API.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a collector whose spans come from tracer.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a span carrying attrs and returns the context holding it.
func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, recordstore.SpanContext) {
	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attrs)...))

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan adds attrs, maps status onto the span status and ends the span.
// Span contexts not created by this collector are ignored.
func (t *TracingCollector) FinishSpan(spanCtx recordstore.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(toAttributes(attrs)...)
	otelSpanCtx.setSpanStatus(status)
	otelSpanCtx.span.End()
}

var _ recordstore.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext implements recordstore.SpanContext by wrapping an OpenTelemetry span.
type OTelSpanContext struct {
	span trace.Span
}

// SetStatus maps status onto the span status.
func (s *OTelSpanContext) SetStatus(status string) {
	s.setSpanStatus(status)
}

// AddAttribute adds a string attribute to the span.
func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

// setSpanStatus maps the store's status strings to OpenTelemetry codes.
// A missing record is an expected outcome, so the span stays unset and is only flagged.
func (s *OTelSpanContext) setSpanStatus(status string) {
	switch status {
	case spanStatusSuccess:
		s.span.SetStatus(codes.Ok, "")
	case spanStatusError:
		s.span.SetStatus(codes.Error, spanDescFailed)
	case spanStatusCanceled:
		s.span.SetStatus(codes.Error, spanDescCanceled)
	case spanStatusNotFound:
		s.span.SetAttributes(attribute.Bool(spanAttrRecordMissing, true))
	default:
		s.span.SetAttributes(attribute.String(spanAttrStatus, status))
	}
}

var _ recordstore.SpanContext = (*OTelSpanContext)(nil)
