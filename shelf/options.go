package shelf

import (
	"errors"
	"time"

	"github.com/AntonStoeckl/bookshelf-store-go/preferences"
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

// ErrNilClock is returned by WithClock for a nil clock.
var ErrNilClock = errors.New("nil clock supplied")

// Option defines a functional option for configuring a Coordinator.
type Option func(*Coordinator) error

// WithValidationGuard makes AddBook validate the input before it reaches the store.
func WithValidationGuard() Option {
	return func(c *Coordinator) error {
		c.validate = true
		return nil
	}
}

// WithPreferences enables the welcome notification on the first visit.
func WithPreferences(prefs *preferences.Preferences) Option {
	return func(c *Coordinator) error {
		c.prefs = prefs
		return nil
	}
}

// WithClock sets the time source for validation and export file names.
func WithClock(clock func() time.Time) Option {
	return func(c *Coordinator) error {
		if clock == nil {
			return ErrNilClock
		}

		c.clock = clock

		return nil
	}
}

// WithLogger sets the logger for failed operations.
func WithLogger(logger recordstore.Logger) Option {
	return func(c *Coordinator) error {
		c.logger = logger
		return nil
	}
}
