package helper

import (
	"context"
	"errors"
	"sync"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

// ErrInjected is the failure returned by a StorageSpy that was told to fail.
var ErrInjected = errors.New("injected storage failure")

// StorageSpy wraps a KeyValueStorage, counts writes and can be switched to fail reads or writes.
type StorageSpy struct {
	inner      recordstore.KeyValueStorage
	mu         sync.Mutex
	failReads  bool
	failWrites bool
	writes     int
}

// NewStorageSpy wraps inner.
func NewStorageSpy(inner recordstore.KeyValueStorage) *StorageSpy {
	return &StorageSpy{inner: inner}
}

// FailReads switches read failures on or off.
func (s *StorageSpy) FailReads(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads = fail
}

// FailWrites switches write and remove failures on or off.
func (s *StorageSpy) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = fail
}

// WriteCount returns the number of successful SetItem and RemoveItem calls.
func (s *StorageSpy) WriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// GetItem implements recordstore.KeyValueStorage.
func (s *StorageSpy) GetItem(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	fail := s.failReads
	s.mu.Unlock()

	if fail {
		return "", false, ErrInjected
	}

	return s.inner.GetItem(ctx, key)
}

// SetItem implements recordstore.KeyValueStorage.
func (s *StorageSpy) SetItem(ctx context.Context, key string, value string) error {
	return s.mutate(func() error { return s.inner.SetItem(ctx, key, value) })
}

// RemoveItem implements recordstore.KeyValueStorage.
func (s *StorageSpy) RemoveItem(ctx context.Context, key string) error {
	return s.mutate(func() error { return s.inner.RemoveItem(ctx, key) })
}

func (s *StorageSpy) mutate(write func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return ErrInjected
	}

	if err := write(); err != nil {
		return err
	}

	s.writes++

	return nil
}
