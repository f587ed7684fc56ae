package memoryengine

import (
	"context"
	"errors"
	"sync"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

// ErrQuotaExceeded is returned by SetItem when the write would exceed the configured quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// ErrNegativeQuota is returned by WithQuota for a negative size.
var ErrNegativeQuota = errors.New("negative quota supplied")

// Storage keeps string items in memory. It is safe for concurrent use.
type Storage struct {
	mu         sync.RWMutex
	items      map[string]string
	quotaBytes int
}

// Option defines a functional option for configuring Storage.
type Option func(*Storage) error

// WithQuota limits the summed byte length of all keys and values. Zero means unlimited.
func WithQuota(bytes int) Option {
	return func(s *Storage) error {
		if bytes < 0 {
			return ErrNegativeQuota
		}

		s.quotaBytes = bytes

		return nil
	}
}

// WithItems seeds the storage, e.g. with a previously exported state.
func WithItems(items map[string]string) Option {
	return func(s *Storage) error {
		for key, value := range items {
			s.items[key] = value
		}

		return nil
	}
}

// NewStorage creates an empty Storage with optional configuration.
func NewStorage(options ...Option) (*Storage, error) {
	s := &Storage{items: make(map[string]string)}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// GetItem returns the value stored under key.
func (s *Storage) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, found := s.items[key]

	return value, found, nil
}

// SetItem stores value under key unless that would exceed the quota.
func (s *Storage) SetItem(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quotaBytes > 0 {
		size := s.usedBytes() + len(key) + len(value)
		if previous, found := s.items[key]; found {
			size -= len(key) + len(previous)
		}

		if size > s.quotaBytes {
			return ErrQuotaExceeded
		}
	}

	s.items[key] = value

	return nil
}

// RemoveItem deletes key. Removing a missing key is not an error.
func (s *Storage) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)

	return nil
}

// Snapshot returns a copy of all items.
func (s *Storage) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make(map[string]string, len(s.items))
	for key, value := range s.items {
		items[key] = value
	}

	return items
}

func (s *Storage) usedBytes() int {
	used := 0
	for key, value := range s.items {
		used += len(key) + len(value)
	}

	return used
}

var _ recordstore.KeyValueStorage = (*Storage)(nil)
