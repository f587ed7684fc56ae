package helper

import (
	"maps"
	"sync"
	"time"
)

const (
	metricKindDuration = "duration"
	metricKindCounter  = "counter"
	metricKindValue    = "value"
)

// SpyMetricRecord is one captured metrics call. Durations are kept in seconds, counter increments as 1.
type SpyMetricRecord struct {
	Kind   string
	Metric string
	Value  float64
	Labels map[string]string
}

// MetricsCollectorSpy captures the calls of a recordstore.MetricsCollector.
type MetricsCollectorSpy struct {
	records []SpyMetricRecord
	mu      sync.Mutex
}

// NewMetricsCollectorSpy creates an empty MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.capture(metricKindDuration, metric, duration.Seconds(), labels)
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.capture(metricKindCounter, metric, 1, labels)
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.capture(metricKindValue, metric, value, labels)
}

// Records returns a copy of everything captured so far.
func (s *MetricsCollectorSpy) Records() []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpyMetricRecord, len(s.records))
	copy(records, s.records)

	return records
}

// Reset forgets everything captured so far.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}

// HasDurationRecordForMetric matches the durations recorded for metric.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return s.match(metricKindDuration, metric)
}

// HasCounterRecordForMetric matches the counter increments of metric.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return s.match(metricKindCounter, metric)
}

// HasValueRecordForMetric matches the gauge values recorded for metric.
func (s *MetricsCollectorSpy) HasValueRecordForMetric(metric string) *MetricRecordMatcher {
	return s.match(metricKindValue, metric)
}

func (s *MetricsCollectorSpy) capture(kind, metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyMetricRecord{Kind: kind, Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) match(kind, metric string) *MetricRecordMatcher {
	matcher := &MetricRecordMatcher{}

	for _, record := range s.Records() {
		if record.Kind == kind && record.Metric == metric {
			matcher.candidates = append(matcher.candidates, record)
		}
	}

	return matcher
}

// MetricRecordMatcher narrows captured records down step by step.
type MetricRecordMatcher struct {
	candidates []SpyMetricRecord
}

func (m *MetricRecordMatcher) WithOperation(operation string) *MetricRecordMatcher {
	return m.WithLabel("operation", operation)
}

func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

func (m *MetricRecordMatcher) WithErrorType(errorType string) *MetricRecordMatcher {
	return m.WithLabel("error_type", errorType)
}

// WithLabel keeps the records whose label key equals value.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	return m.keep(func(record SpyMetricRecord) bool { return record.Labels[key] == value })
}

// WithValue keeps the records with exactly value.
func (m *MetricRecordMatcher) WithValue(value float64) *MetricRecordMatcher {
	return m.keep(func(record SpyMetricRecord) bool { return record.Value == value })
}

// Count is the number of records left.
func (m *MetricRecordMatcher) Count() int {
	return len(m.candidates)
}

// Assert reports whether any record is left.
func (m *MetricRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

func (m *MetricRecordMatcher) keep(predicate func(SpyMetricRecord) bool) *MetricRecordMatcher {
	kept := m.candidates[:0:0]

	for _, record := range m.candidates {
		if predicate(record) {
			kept = append(kept, record)
		}
	}

	m.candidates = kept

	return m
}
