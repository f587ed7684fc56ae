package helper

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

// SpySpanRecord is one span started through a TracingCollectorSpy.
type SpySpanRecord struct {
	Name            string
	StartAttributes map[string]string
	EndAttributes   map[string]string
	Status          string
	Finished        bool
}

// spySpan is the recordstore.SpanContext handed out by the spy. It points back to its record.
type spySpan struct {
	spy   *TracingCollectorSpy
	index int
}

func (c *spySpan) SetStatus(status string) {
	c.spy.update(c.index, func(record *SpySpanRecord) { record.Status = status })
}

func (c *spySpan) AddAttribute(key, value string) {
	c.spy.update(c.index, func(record *SpySpanRecord) {
		if record.EndAttributes == nil {
			record.EndAttributes = make(map[string]string)
		}
		record.EndAttributes[key] = value
	})
}

// TracingCollectorSpy captures the spans of a recordstore.TracingCollector in start order.
type TracingCollectorSpy struct {
	spans []SpySpanRecord
	mu    sync.Mutex
}

// NewTracingCollectorSpy creates an empty TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, recordstore.SpanContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spans = append(s.spans, SpySpanRecord{Name: name, StartAttributes: maps.Clone(attrs)})

	return ctx, &spySpan{spy: s, index: len(s.spans) - 1}
}

// FinishSpan ignores span contexts it did not hand out.
func (s *TracingCollectorSpy) FinishSpan(spanCtx recordstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*spySpan)
	if !ok || span.spy != s {
		return
	}

	s.update(span.index, func(record *SpySpanRecord) {
		record.Status = status
		record.Finished = true

		if record.EndAttributes == nil {
			record.EndAttributes = make(map[string]string, len(attrs))
		}
		maps.Copy(record.EndAttributes, attrs)
	})
}

// Spans returns a copy of all spans in start order.
func (s *TracingCollectorSpy) Spans() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	spans := make([]SpySpanRecord, len(s.spans))
	copy(spans, s.spans)

	return spans
}

// FindSpan returns the first span named name.
func (s *TracingCollectorSpy) FindSpan(name string) (SpySpanRecord, bool) {
	for _, span := range s.Spans() {
		if span.Name == name {
			return span, true
		}
	}

	return SpySpanRecord{}, false
}

func (s *TracingCollectorSpy) update(index int, change func(record *SpySpanRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change(&s.spans[index])
}
