// Package memoryengine provides an in-process implementation of recordstore.KeyValueStorage.
//
// It mirrors browser-local storage: string keys and values, and an optional quota on the
// total size of all keys and values. A write that would exceed the quota fails with
// ErrQuotaExceeded and leaves the previous value in place.
//
// Usage:
//
//	storage, _ := memoryengine.NewStorage(memoryengine.WithQuota(5 << 20))
//	store, _ := recordstore.NewStore(storage)
package memoryengine
