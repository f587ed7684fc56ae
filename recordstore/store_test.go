package recordstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/AntonStoeckl/bookshelf-store-go/recordstore"
	. "github.com/AntonStoeckl/bookshelf-store-go/testutil/helper"
)

func Test_NewStore_When_StorageIsNil(t *testing.T) {
	// act
	store, err := NewStore(nil)

	// assert
	assert.ErrorIs(t, err, ErrNilStorage)
	assert.Nil(t, store)
}

func Test_NewStore_When_StorageKeyIsEmpty(t *testing.T) {
	// act
	_, err := NewStore(GivenMemoryStorage(t), WithStorageKey(""))

	// assert
	assert.ErrorIs(t, err, ErrEmptyStorageKeySupplied)
}

func Test_Add_Then_GetAll_ContainsExactlyTheNewRecord(t *testing.T) {
	// setup
	ctx := context.Background()
	store := GivenStore(t, GivenMemoryStorage(t))

	// act
	added, err := store.Add(ctx, BookInput{Title: "  Dune ", Author: " Frank Herbert  ", Year: 1965})

	// assert
	require.NoError(t, err)
	all := store.GetAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, added, all[0])
	assert.Equal(t, "book-1", all[0].ID)
	assert.Equal(t, "Dune", all[0].Title)
	assert.Equal(t, "Frank Herbert", all[0].Author)
	assert.Equal(t, 1965, all[0].Year)
	assert.False(t, all[0].IsComplete)
	assert.True(t, FakeClock.Equal(all[0].CreatedAt))
}

func Test_Add_AssignsDistinctIDs_WithTheDefaultGenerator(t *testing.T) {
	// setup
	ctx := context.Background()
	store, err := NewStore(GivenMemoryStorage(t))
	require.NoError(t, err)

	// act
	first, err1 := store.Add(ctx, FixtureDune())
	second, err2 := store.Add(ctx, FixtureDune())

	// assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func Test_Add_DoesNotValidate(t *testing.T) {
	// setup
	ctx := context.Background()
	store := GivenStore(t, GivenMemoryStorage(t))

	// act
	record, err := store.Add(ctx, BookInput{Title: "X", Author: "", Year: 42})

	// assert
	require.NoError(t, err)
	assert.Equal(t, "X", record.Title)
	assert.Len(t, store.GetAll(ctx), 1)
}

func Test_Add_When_StorageWriteFails(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := NewStorageSpy(GivenMemoryStorage(t))
	store := GivenStore(t, storage)

	// arrange
	GivenBooksWereAdded(t, ctx, store, FixtureDune())
	storage.FailWrites(true)

	// act
	_, err := store.Add(ctx, FixtureNeuromancer())

	// assert
	assert.ErrorIs(t, err, ErrStorageWriteFailed)
	assert.ErrorIs(t, err, ErrInjected)
	storage.FailWrites(false)
	assert.Len(t, store.GetAll(ctx), 1, "the failed add must not be committed")
}

func Test_Add_When_StorageReadFails(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := NewStorageSpy(GivenMemoryStorage(t))
	store := GivenStore(t, storage)

	// arrange
	GivenBooksWereAdded(t, ctx, store, FixtureDune())
	storage.FailReads(true)

	// act
	_, err := store.Add(ctx, FixtureNeuromancer())

	// assert
	assert.ErrorIs(t, err, ErrStorageReadFailed)
	assert.Equal(t, 1, storage.WriteCount(), "nothing may be written on top of an unreadable collection")
}

func Test_Update_TogglingIsComplete_RoundTrips(t *testing.T) {
	// setup
	ctx := context.Background()
	store := GivenStore(t, GivenMemoryStorage(t))
	done, notDone := true, false

	// arrange
	original := GivenBooksWereAdded(t, ctx, store, FixtureDune())[0]

	// act
	completed, err1 := store.Update(ctx, original.ID, BookPatch{IsComplete: &done})
	reverted, err2 := store.Update(ctx, original.ID, BookPatch{IsComplete: &notDone})

	// assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.True(t, completed.IsComplete)
	assert.Equal(t, original, reverted)
	assert.Equal(t, BookRecords{original}, store.GetAll(ctx))
}

func Test_Update_MergesOnlyTheGivenFields(t *testing.T) {
	// setup
	ctx := context.Background()
	store := GivenStore(t, GivenMemoryStorage(t))
	newTitle := "Dune Messiah"
	newYear := 1969

	// arrange
	original := GivenBooksWereAdded(t, ctx, store, FixtureDune())[0]

	// act
	updated, err := store.Update(ctx, original.ID, BookPatch{Title: &newTitle, Year: &newYear})

	// assert
	require.NoError(t, err)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.Author, updated.Author)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, 1969, updated.Year)
}

func Test_Update_When_IDIsUnknown(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := NewStorageSpy(GivenMemoryStorage(t))
	store := GivenStore(t, storage)
	done := true

	// arrange
	GivenBooksWereAdded(t, ctx, store, FixtureDune())

	// act
	_, err := store.Update(ctx, "unknown", BookPatch{IsComplete: &done})

	// assert
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.Equal(t, 1, storage.WriteCount())
}

func Test_Delete_RemovesTheRecord(t *testing.T) {
	// setup
	ctx := context.Background()
	store := GivenStore(t, GivenMemoryStorage(t))

	// arrange
	records := GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureNeuromancer(), FixtureLearningDDD())

	// act
	removed, err := store.Delete(ctx, records[1].ID)

	// assert
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, BookRecords{records[0], records[2]}, store.GetAll(ctx))
}

func Test_Delete_When_ImportedRecordsShareTheID(t *testing.T) {
	// setup
	ctx := context.Background()
	store := GivenStore(t, GivenMemoryStorage(t))

	// arrange
	imported, err := store.ImportAll(ctx, `[
		{"id": "dup", "title": "First copy", "author": "A", "year": 2001, "isComplete": false},
		{"id": "keep", "title": "Other", "author": "B", "year": 2002, "isComplete": true},
		{"id": "dup", "title": "Second copy", "author": "C", "year": 2003, "isComplete": false}
	]`)
	require.NoError(t, err)
	require.True(t, imported)

	// act
	removed, err := store.Delete(ctx, "dup")

	// assert
	require.NoError(t, err)
	assert.True(t, removed)
	remaining := store.GetAll(ctx)
	require.Len(t, remaining, 1)
	assert.Equal(t, "keep", remaining[0].ID)
}

func Test_Delete_When_IDIsUnknown(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := NewStorageSpy(GivenMemoryStorage(t))
	store := GivenStore(t, storage)

	// arrange
	records := GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureNeuromancer())

	// act
	removed, err := store.Delete(ctx, "unknown")

	// assert
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, records, store.GetAll(ctx))
	assert.Equal(t, 2, storage.WriteCount())
}

func Test_Delete_When_StorageWriteFails(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := NewStorageSpy(GivenMemoryStorage(t))
	store := GivenStore(t, storage)

	// arrange
	records := GivenBooksWereAdded(t, ctx, store, FixtureDune())
	storage.FailWrites(true)

	// act
	removed, err := store.Delete(ctx, records[0].ID)

	// assert
	assert.ErrorIs(t, err, ErrStorageWriteFailed)
	assert.False(t, removed)
	storage.FailWrites(false)
	assert.Equal(t, records, store.GetAll(ctx))
}

func Test_Search(t *testing.T) {
	// setup
	ctx := context.Background()
	store := GivenStore(t, GivenMemoryStorage(t))
	records := GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureNeuromancer(), FixtureLearningDDD())

	testCases := []struct {
		name     string
		keyword  string
		expected BookRecords
	}{
		{name: "empty keyword returns all", keyword: "", expected: records},
		{name: "blank keyword returns all", keyword: "   ", expected: records},
		{name: "partial title ignoring case", keyword: "NEURO", expected: BookRecords{records[1]}},
		{name: "partial author", keyword: "herb", expected: BookRecords{records[0]}},
		{name: "year substring", keyword: "198", expected: BookRecords{records[1]}},
		{name: "trimmed keyword", keyword: "  dune ", expected: BookRecords{records[0]}},
		{name: "matches several", keyword: "n", expected: records},
		{name: "no match", keyword: "tolkien", expected: BookRecords{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			found := store.Search(ctx, tc.keyword)

			// assert
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_Search_WithEmptyKeyword_EqualsGetAll(t *testing.T) {
	// setup
	ctx := context.Background()
	store := GivenStore(t, GivenMemoryStorage(t))
	GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureNeuromancer())

	// act + assert
	assert.Equal(t, store.GetAll(ctx), store.Search(ctx, ""))
}

func Test_Stats_For_One_UnreadBook(t *testing.T) {
	// setup
	ctx := context.Background()
	store := GivenStore(t, GivenMemoryStorage(t))

	// arrange
	GivenBooksWereAdded(t, ctx, store, BookInput{Title: "Dune", Author: "Herbert", Year: 1965})

	// act
	stats := store.Stats(ctx)

	// assert
	assert.Equal(t, Stats{Total: 1, Completed: 0, Uncompleted: 1}, stats)
}

func Test_Stats_After_OneOfTwoBooksWasCompleted(t *testing.T) {
	// setup
	ctx := context.Background()
	store := GivenStore(t, GivenMemoryStorage(t))
	done := true

	// arrange
	records := GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureNeuromancer())
	_, err := store.Update(ctx, records[0].ID, BookPatch{IsComplete: &done})
	require.NoError(t, err)

	// act
	stats := store.Stats(ctx)

	// assert
	assert.Equal(t, Stats{Total: 2, Completed: 1, Uncompleted: 1}, stats)
}

func Test_Clear_RemovesTheCollection(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := GivenMemoryStorage(t)
	store := GivenStore(t, storage)

	// arrange
	GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureNeuromancer())

	// act
	err := store.Clear(ctx)

	// assert
	require.NoError(t, err)
	assert.Empty(t, store.GetAll(ctx))
	_, found := storage.Snapshot()[BooksKey]
	assert.False(t, found, "the collection key must be removed")
}

func Test_Clear_When_StorageFails(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := NewStorageSpy(GivenMemoryStorage(t))
	store := GivenStore(t, storage)

	// arrange
	GivenBooksWereAdded(t, ctx, store, FixtureDune())
	storage.FailWrites(true)

	// act
	err := store.Clear(ctx)

	// assert
	assert.ErrorIs(t, err, ErrStorageWriteFailed)
}

func Test_GetAll_When_StorageReadFails_ReturnsEmpty(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := NewStorageSpy(GivenMemoryStorage(t))
	logSpy := NewLogHandlerSpy(false)
	store := GivenStore(t, storage, WithLogger(slogLogger(logSpy)))

	// arrange
	GivenBooksWereAdded(t, ctx, store, FixtureDune())
	storage.FailReads(true)

	// act
	all := store.GetAll(ctx)

	// assert
	assert.NotNil(t, all)
	assert.Empty(t, all)
	assert.True(t, logSpy.HasErrorLog("book collection unreadable, continuing with an empty collection").WithAttr("error").Assert())
}

func Test_GetAll_When_CollectionIsCorrupt_ReturnsEmpty(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := GivenMemoryStorage(t)
	logSpy := NewLogHandlerSpy(false)
	store := GivenStore(t, storage, WithLogger(slogLogger(logSpy)))

	// arrange
	require.NoError(t, storage.SetItem(ctx, BooksKey, "{this is not json"))

	// act
	all := store.GetAll(ctx)

	// assert
	assert.Empty(t, all)
	assert.True(t, logSpy.HasWarnLog("stored book collection is corrupt, continuing with an empty collection").Assert())
}

func Test_Add_When_CollectionIsCorrupt_StartsOver(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := GivenMemoryStorage(t)
	store := GivenStore(t, storage)

	// arrange
	require.NoError(t, storage.SetItem(ctx, BooksKey, `{"not":"array"}`))

	// act
	record, err := store.Add(ctx, FixtureDune())

	// assert
	require.NoError(t, err)
	assert.Equal(t, BookRecords{record}, store.GetAll(ctx))
}

func Test_GetAll_ReadsStoredElementsLeniently(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := GivenMemoryStorage(t)
	logSpy := NewLogHandlerSpy(false)
	store := GivenStore(t, storage, WithLogger(slogLogger(logSpy)))

	// arrange
	stored := `[
		{"id":"a","title":"Dune","author":"Frank Herbert","year":"1965","isComplete":true,"createdAt":"2024-01-02T03:04:05.000Z"},
		42,
		{"id":"b","title":"X"}
	]`
	require.NoError(t, storage.SetItem(ctx, BooksKey, stored))

	// act
	all := store.GetAll(ctx)

	// assert
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, 1965, all[0].Year)
	assert.True(t, all[0].IsComplete)
	assert.True(t, time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC).Equal(all[0].CreatedAt))
	assert.Equal(t, BookRecord{ID: "b", Title: "X"}, all[1])
	assert.True(t, logSpy.HasWarnLog("skipped stored elements that are not book records").WithAttrValue("skipped_count", "1").Assert())
}

func Test_WithStorageKey_UsesTheGivenKey(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := GivenMemoryStorage(t)
	store := GivenStore(t, storage, WithStorageKey("other_books"))

	// act
	GivenBooksWereAdded(t, ctx, store, FixtureDune())

	// assert
	items := storage.Snapshot()
	assert.Contains(t, items, "other_books")
	assert.NotContains(t, items, BooksKey)
}
