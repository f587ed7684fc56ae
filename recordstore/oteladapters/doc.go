// Package oteladapters provides OpenTelemetry implementations of the recordstore observability interfaces.
//
// Wire them into a Store with recordstore.WithMetrics, recordstore.WithTracing and recordstore.WithContextualLogger:
//
//	store, err := recordstore.NewStore(
//		storage,
//		recordstore.WithMetrics(oteladapters.NewMetricsCollector(meterProvider.Meter("bookshelf"))),
//		recordstore.WithTracing(oteladapters.NewTracingCollector(tracerProvider.Tracer("bookshelf"))),
//		recordstore.WithContextualLogger(oteladapters.NewSlogBridgeLogger("bookshelf", nil)),
//	)
package oteladapters
