package helper

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore/memoryengine"
)

// FakeClock is a fixed point in time used by the fixtures.
var FakeClock = time.Date(2024, time.March, 14, 9, 26, 53, 589_000_000, time.UTC)

// FixtureDune returns valid input for an unread book.
func FixtureDune() recordstore.BookInput {
	return recordstore.BookInput{Title: "Dune", Author: "Frank Herbert", Year: 1965}
}

// FixtureNeuromancer returns valid input for an unread book.
func FixtureNeuromancer() recordstore.BookInput {
	return recordstore.BookInput{Title: "Neuromancer", Author: "William Gibson", Year: 1984}
}

// FixtureLearningDDD returns valid input for a book that is already read.
func FixtureLearningDDD() recordstore.BookInput {
	return recordstore.BookInput{Title: "Learning Domain-Driven Design", Author: "Vlad Khononov", Year: 2021, IsComplete: true}
}

// SequentialIDs returns an id generator yielding "book-1", "book-2", and so on.
func SequentialIDs() func() string {
	var counter atomic.Int64

	return func() string {
		return fmt.Sprintf("book-%d", counter.Add(1))
	}
}

// GivenMemoryStorage returns an unlimited in-memory storage.
func GivenMemoryStorage(t testing.TB) *memoryengine.Storage {
	storage, err := memoryengine.NewStorage()
	require.NoError(t, err, "error in arranging test data")

	return storage
}

// GivenStore returns a Store with a fixed clock and sequential ids on top of storage.
func GivenStore(t testing.TB, storage recordstore.KeyValueStorage, options ...recordstore.Option) *recordstore.Store {
	allOptions := []recordstore.Option{
		recordstore.WithClock(func() time.Time { return FakeClock }),
		recordstore.WithIDGenerator(SequentialIDs()),
	}
	allOptions = append(allOptions, options...)

	store, err := recordstore.NewStore(storage, allOptions...)
	require.NoError(t, err, "error in arranging test data")

	return store
}

// GivenBooksWereAdded adds all inputs in order and returns the created records.
func GivenBooksWereAdded(t testing.TB, ctx context.Context, store *recordstore.Store, inputs ...recordstore.BookInput) recordstore.BookRecords {
	records := make(recordstore.BookRecords, 0, len(inputs))

	for _, input := range inputs {
		record, err := store.Add(ctx, input)
		require.NoError(t, err, "error in arranging test data")
		records = append(records, record)
	}

	return records
}
