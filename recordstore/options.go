package recordstore

import "time"

// Option defines a functional option for configuring a Store.
type Option func(*Store) error

// WithStorageKey sets the key the collection is stored under. The default is BooksKey.
func WithStorageKey(key string) Option {
	return func(s *Store) error {
		if key == "" {
			return ErrEmptyStorageKeySupplied
		}

		s.storageKey = key

		return nil
	}
}

// WithClock sets the time source used for creation timestamps and ids.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) error {
		if clock != nil {
			s.clock = clock
		}

		return nil
	}
}

// WithIDGenerator replaces GenerateID, mostly useful for deterministic tests.
func WithIDGenerator(generate func() string) Option {
	return func(s *Store) error {
		if generate != nil {
			s.generateID = generate
		}

		return nil
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: every operation with its duration (development use)
// Info level: mutations with record counts (production-safe)
// Warn level: skipped records, rejected imports, a corrupt collection
// Error level: storage failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
// It takes precedence over the plain Logger and receives the operation context,
// which enables trace correlation when tracing is enabled.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
// It receives operation durations, operation and error counts, and the collection size.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Store.
// Every Store operation is wrapped in one span.
func WithTracing(collector TracingCollector) Option {
	return func(s *Store) error {
		s.tracingCollector = collector
		return nil
	}
}
