package recordstore

import (
	"errors"
)

// ErrNilStorage is returned when a Store is constructed without a KeyValueStorage.
var ErrNilStorage = errors.New("nil storage supplied")

// ErrEmptyStorageKeySupplied is returned by WithStorageKey for an empty key.
var ErrEmptyStorageKeySupplied = errors.New("empty storage key supplied")

// ErrStorageReadFailed wraps failures of the backing storage while reading the collection.
var ErrStorageReadFailed = errors.New("reading the book collection from storage failed")

// ErrStorageWriteFailed wraps failures while persisting the collection.
// When it is returned, the attempted mutation was not applied.
var ErrStorageWriteFailed = errors.New("writing the book collection to storage failed")

// ErrEncodingCollectionFailed wraps serialization failures of the collection.
var ErrEncodingCollectionFailed = errors.New("encoding the book collection failed")

// ErrCorruptCollection signals that the stored collection is not a JSON array.
var ErrCorruptCollection = errors.New("stored book collection is corrupt")

// ErrRecordNotFound is returned when no record matches the given id.
var ErrRecordNotFound = errors.New("book record not found")

// ErrMalformedImport signals that import text is not valid JSON or not a JSON array.
var ErrMalformedImport = errors.New("import data is not a JSON array")
