// Package helper provides testing utilities shared by the test suites of this module:
// a slog handler spy, metrics and tracing collector spies, a storage wrapper that injects
// failures, and book fixtures.
package helper
