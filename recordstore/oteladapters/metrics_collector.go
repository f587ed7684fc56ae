package oteladapters

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

// MetricsCollector implements recordstore.ContextualMetricsCollector with the OpenTelemetry metrics API.
//   - RecordDuration -> Float64Histogram in seconds
//   - IncrementCounter -> Int64Counter
//   - RecordValue -> Float64Gauge
//
// Instruments are created on first use of a metric name. It is safe for concurrent use.
type MetricsCollector struct {
	meter      metric.Meter
	histograms instruments[metric.Float64Histogram]
	counters   instruments[metric.Int64Counter]
	gauges     instruments[metric.Float64Gauge]
}

// NewMetricsCollector creates a collector whose instruments come from meter.
func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{meter: meter}
}

func (m *MetricsCollector) RecordDuration(metricName string, duration time.Duration, labels map[string]string) {
	m.RecordDurationContext(context.Background(), metricName, duration, labels)
}

// RecordDurationContext records duration in seconds, correlated with the span in ctx.
func (m *MetricsCollector) RecordDurationContext(ctx context.Context, metricName string, duration time.Duration, labels map[string]string) {
	histogram, ok := m.histograms.get(m.meter, metricName, func(meter metric.Meter, name string) (metric.Float64Histogram, error) {
		return meter.Float64Histogram(name, metric.WithDescription("Bookshelf store operation duration"), metric.WithUnit("s"))
	})
	if ok {
		histogram.Record(ctx, duration.Seconds(), metric.WithAttributes(toAttributes(labels)...))
	}
}

func (m *MetricsCollector) IncrementCounter(metricName string, labels map[string]string) {
	m.IncrementCounterContext(context.Background(), metricName, labels)
}

func (m *MetricsCollector) IncrementCounterContext(ctx context.Context, metricName string, labels map[string]string) {
	counter, ok := m.counters.get(m.meter, metricName, func(meter metric.Meter, name string) (metric.Int64Counter, error) {
		return meter.Int64Counter(name, metric.WithDescription("Bookshelf store operation counter"))
	})
	if ok {
		counter.Add(ctx, 1, metric.WithAttributes(toAttributes(labels)...))
	}
}

func (m *MetricsCollector) RecordValue(metricName string, value float64, labels map[string]string) {
	m.RecordValueContext(context.Background(), metricName, value, labels)
}

func (m *MetricsCollector) RecordValueContext(ctx context.Context, metricName string, value float64, labels map[string]string) {
	gauge, ok := m.gauges.get(m.meter, metricName, func(meter metric.Meter, name string) (metric.Float64Gauge, error) {
		return meter.Float64Gauge(name, metric.WithDescription("Bookshelf store current value"))
	})
	if ok {
		gauge.Record(ctx, value, metric.WithAttributes(toAttributes(labels)...))
	}
}

// instruments caches one kind of instrument by metric name. Failed creations are not cached.
type instruments[T any] struct {
	mu     sync.Mutex
	byName map[string]T
}

func (c *instruments[T]) get(meter metric.Meter, name string, create func(metric.Meter, string) (T, error)) (T, bool) {
	var zero T
	if meter == nil {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if instrument, found := c.byName[name]; found {
		return instrument, true
	}

	instrument, err := create(meter, name)
	if err != nil {
		return zero, false
	}

	if c.byName == nil {
		c.byName = make(map[string]T)
	}
	c.byName[name] = instrument

	return instrument, true
}

func toAttributes(labels map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for key, value := range labels {
		attrs = append(attrs, attribute.String(key, value))
	}

	return attrs
}

var _ recordstore.ContextualMetricsCollector = (*MetricsCollector)(nil)
