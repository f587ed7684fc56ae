package helper

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// SpyLogEntry is a captured log line with its attributes flattened into a slice.
type SpyLogEntry struct {
	Level   slog.Level
	Message string
	Attrs   []slog.Attr
}

// LogHandlerSpy is a slog.Handler that keeps every entry it handles.
type LogHandlerSpy struct {
	entries []SpyLogEntry
	echo    slog.Handler
	mu      sync.Mutex
}

// NewLogHandlerSpy creates a LogHandlerSpy. With echoToStdout the entries are also written as JSON,
// which helps when a test fails for a reason the assertions do not show.
func NewLogHandlerSpy(echoToStdout bool) *LogHandlerSpy {
	spy := &LogHandlerSpy{}
	if echoToStdout {
		spy.echo = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	return spy
}

func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	entry := SpyLogEntry{Level: record.Level, Message: record.Message}
	record.Attrs(func(attr slog.Attr) bool {
		entry.Attrs = append(entry.Attrs, attr)
		return true
	})

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()

	if s.echo != nil {
		return s.echo.Handle(ctx, record)
	}

	return nil
}

func (s *LogHandlerSpy) Enabled(context.Context, slog.Level) bool { return true }

func (s *LogHandlerSpy) WithAttrs([]slog.Attr) slog.Handler { return s }

func (s *LogHandlerSpy) WithGroup(string) slog.Handler { return s }

// Entries returns a copy of everything captured so far.
func (s *LogHandlerSpy) Entries() []SpyLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]SpyLogEntry, len(s.entries))
	copy(entries, s.entries)

	return entries
}

// GetRecordCount returns how many entries were captured.
func (s *LogHandlerSpy) GetRecordCount() int {
	return len(s.Entries())
}

// HasLog selects the entries with level and message for further narrowing.
func (s *LogHandlerSpy) HasLog(level slog.Level, message string) *SpyLogRecordMatcher {
	matcher := &SpyLogRecordMatcher{}

	for _, entry := range s.Entries() {
		if entry.Level == level && entry.Message == message {
			matcher.candidates = append(matcher.candidates, entry)
		}
	}

	return matcher
}

func (s *LogHandlerSpy) HasDebugLog(message string) *SpyLogRecordMatcher {
	return s.HasLog(slog.LevelDebug, message)
}

func (s *LogHandlerSpy) HasInfoLog(message string) *SpyLogRecordMatcher {
	return s.HasLog(slog.LevelInfo, message)
}

func (s *LogHandlerSpy) HasWarnLog(message string) *SpyLogRecordMatcher {
	return s.HasLog(slog.LevelWarn, message)
}

func (s *LogHandlerSpy) HasErrorLog(message string) *SpyLogRecordMatcher {
	return s.HasLog(slog.LevelError, message)
}

// SpyLogRecordMatcher narrows the selected entries by their attributes.
type SpyLogRecordMatcher struct {
	candidates []SpyLogEntry
}

// WithAttr keeps the entries that carry key, whatever its value.
func (m *SpyLogRecordMatcher) WithAttr(key string) *SpyLogRecordMatcher {
	return m.keepIfAny(func(attr slog.Attr) bool { return attr.Key == key })
}

// WithAttrValue keeps the entries whose key renders as value.
func (m *SpyLogRecordMatcher) WithAttrValue(key, value string) *SpyLogRecordMatcher {
	return m.keepIfAny(func(attr slog.Attr) bool { return attr.Key == key && attr.Value.String() == value })
}

// WithDurationMS keeps the entries with a numeric, non-negative duration_ms.
func (m *SpyLogRecordMatcher) WithDurationMS() *SpyLogRecordMatcher {
	return m.keepIfAny(func(attr slog.Attr) bool {
		if attr.Key != "duration_ms" {
			return false
		}

		value := attr.Value.Resolve()

		return (value.Kind() == slog.KindFloat64 && value.Float64() >= 0) ||
			(value.Kind() == slog.KindInt64 && value.Int64() >= 0)
	})
}

// Assert reports whether any entry survived the chain.
func (m *SpyLogRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

func (m *SpyLogRecordMatcher) keepIfAny(match func(slog.Attr) bool) *SpyLogRecordMatcher {
	var kept []SpyLogEntry

	for _, entry := range m.candidates {
		for _, attr := range entry.Attrs {
			if match(attr) {
				kept = append(kept, entry)
				break
			}
		}
	}

	m.candidates = kept

	return m
}
