package shelf_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/bookshelf-store-go/preferences"
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
	. "github.com/AntonStoeckl/bookshelf-store-go/shelf"
	. "github.com/AntonStoeckl/bookshelf-store-go/testutil/helper"
)

func Test_New_When_DependenciesAreMissing(t *testing.T) {
	// setup
	store := GivenStore(t, GivenMemoryStorage(t))

	// act
	_, errStore := New(nil, NewNotifierSpy())
	_, errNotifier := New(store, nil)
	_, errClock := New(store, NewNotifierSpy(), WithClock(nil))

	// assert
	assert.ErrorIs(t, errStore, ErrNilStore)
	assert.ErrorIs(t, errNotifier, ErrNilNotifier)
	assert.ErrorIs(t, errClock, ErrNilClock)
}

func Test_AddBook_Then_StatsAndView_ShowTheUnreadBook(t *testing.T) {
	// setup
	ctx := context.Background()
	coordinator, _, notifier := GivenCoordinator(t, GivenMemoryStorage(t))

	// act
	added, err := coordinator.AddBook(ctx, recordstore.BookInput{Title: "Dune", Author: "Herbert", Year: 1965})

	// assert
	require.NoError(t, err)
	assert.Equal(t, recordstore.Stats{Total: 1, Completed: 0, Uncompleted: 1}, coordinator.Stats(ctx))

	expected := View{
		Unread: recordstore.BookRecords{added},
		Read:   recordstore.BookRecords{},
		Counts: Counts{Unread: 1, Read: 0},
	}
	assert.Empty(t, cmp.Diff(expected, coordinator.CurrentView(ctx)))

	rendered, ok := notifier.LastView()
	require.True(t, ok)
	assert.Empty(t, cmp.Diff(expected, rendered))

	notification, ok := notifier.LastNotification()
	require.True(t, ok)
	assert.Equal(t, KindBookAdded, notification.Kind)
	assert.Equal(t, SeveritySuccess, notification.Severity)
	assert.Equal(t, `Book "Dune" added`, notification.Message)
	require.NotNil(t, notification.Record)
	assert.Equal(t, added, *notification.Record)
}

func Test_MoveBook_PutsTheBookOnTheReadShelf(t *testing.T) {
	// setup
	ctx := context.Background()
	coordinator, store, notifier := GivenCoordinator(t, GivenMemoryStorage(t))

	// arrange
	books := GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureNeuromancer())

	// act
	moved, err := coordinator.MoveBook(ctx, books[0].ID)

	// assert
	require.NoError(t, err)
	assert.True(t, moved.IsComplete)
	assert.Equal(t, books[0].Title, moved.Title)
	assert.Equal(t, recordstore.Stats{Total: 2, Completed: 1, Uncompleted: 1}, coordinator.Stats(ctx))

	view := coordinator.CurrentView(ctx)
	assert.Empty(t, cmp.Diff(recordstore.BookRecords{moved}, view.Read))
	assert.Empty(t, cmp.Diff(recordstore.BookRecords{books[1]}, view.Unread))

	notification, _ := notifier.LastNotification()
	assert.Equal(t, KindBookMoved, notification.Kind)
	assert.Equal(t, `Book "Dune" moved to Read`, notification.Message)
}

func Test_MoveBook_Twice_RestoresTheShelf(t *testing.T) {
	// setup
	ctx := context.Background()
	coordinator, store, notifier := GivenCoordinator(t, GivenMemoryStorage(t))

	// arrange
	books := GivenBooksWereAdded(t, ctx, store, FixtureLearningDDD())

	// act
	_, errFirst := coordinator.MoveBook(ctx, books[0].ID)
	restored, errSecond := coordinator.MoveBook(ctx, books[0].ID)

	// assert
	require.NoError(t, errFirst)
	require.NoError(t, errSecond)
	assert.Equal(t, books[0], restored)

	notification, _ := notifier.LastNotification()
	assert.Equal(t, `Book "Learning Domain-Driven Design" moved to Read`, notification.Message)
}

func Test_MoveBook_When_BookIsMissing(t *testing.T) {
	// setup
	ctx := context.Background()
	coordinator, _, notifier := GivenCoordinator(t, GivenMemoryStorage(t))

	// act
	_, err := coordinator.MoveBook(ctx, "missing")

	// assert
	assert.ErrorIs(t, err, recordstore.ErrRecordNotFound)
	assert.Equal(t, 0, notifier.RenderCount())
	assert.Equal(t, []Notification{{Kind: KindBookNotFound, Severity: SeverityError, Message: "Book not found"}}, notifier.Notifications())
}

func Test_DeleteBook_NamesTheDeletedTitle(t *testing.T) {
	// setup
	ctx := context.Background()
	coordinator, store, notifier := GivenCoordinator(t, GivenMemoryStorage(t))

	// arrange
	books := GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureNeuromancer())

	// act
	err := coordinator.DeleteBook(ctx, books[1].ID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, recordstore.BookRecords{books[0]}, store.GetAll(ctx))

	notification, _ := notifier.LastNotification()
	assert.Equal(t, KindBookDeleted, notification.Kind)
	assert.Equal(t, `Book "Neuromancer" deleted`, notification.Message)

	view, _ := notifier.LastView()
	assert.Equal(t, Counts{Unread: 1, Read: 0}, view.Counts)
}

func Test_DeleteBook_When_BookIsMissing(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := NewStorageSpy(GivenMemoryStorage(t))
	coordinator, store, notifier := GivenCoordinator(t, storage)

	// arrange
	GivenBooksWereAdded(t, ctx, store, FixtureDune())
	writesBefore := storage.WriteCount()

	// act
	err := coordinator.DeleteBook(ctx, "missing")

	// assert
	assert.ErrorIs(t, err, recordstore.ErrRecordNotFound)
	assert.Equal(t, writesBefore, storage.WriteCount())
	assert.Len(t, store.GetAll(ctx), 1)

	notification, _ := notifier.LastNotification()
	assert.Equal(t, KindBookNotFound, notification.Kind)
}

func Test_AddBook_When_StorageWriteFails(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := NewStorageSpy(GivenMemoryStorage(t))
	coordinator, store, notifier := GivenCoordinator(t, storage)

	// arrange
	storage.FailWrites(true)

	// act
	_, err := coordinator.AddBook(ctx, FixtureDune())

	// assert
	assert.ErrorIs(t, err, recordstore.ErrStorageWriteFailed)
	assert.Empty(t, store.GetAll(ctx))
	assert.Equal(t, 0, notifier.RenderCount())

	notification, _ := notifier.LastNotification()
	assert.Equal(t, KindFailure, notification.Kind)
	assert.Equal(t, SeverityError, notification.Severity)
}

func Test_Mutations_When_StorageWriteFails(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(ctx context.Context, coordinator *Coordinator, id string) error
	}{
		{
			name: "delete",
			mutate: func(ctx context.Context, coordinator *Coordinator, id string) error {
				return coordinator.DeleteBook(ctx, id)
			},
		},
		{
			name: "move",
			mutate: func(ctx context.Context, coordinator *Coordinator, id string) error {
				_, err := coordinator.MoveBook(ctx, id)
				return err
			},
		},
		{
			name: "import",
			mutate: func(ctx context.Context, coordinator *Coordinator, _ string) error {
				return coordinator.ImportBooks(ctx, `[]`)
			},
		},
		{
			name: "reset",
			mutate: func(ctx context.Context, coordinator *Coordinator, _ string) error {
				return coordinator.ResetAll(ctx, true)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			ctx := context.Background()
			storage := NewStorageSpy(GivenMemoryStorage(t))
			coordinator, store, notifier := GivenCoordinator(t, storage)

			// arrange
			records := GivenBooksWereAdded(t, ctx, store, FixtureDune())
			storage.FailWrites(true)

			// act
			err := tc.mutate(ctx, coordinator, records[0].ID)

			// assert
			assert.ErrorIs(t, err, recordstore.ErrStorageWriteFailed)
			assert.Equal(t, records, store.GetAll(ctx))
			assert.Equal(t, 0, notifier.RenderCount())

			notification, found := notifier.LastNotification()
			require.True(t, found)
			assert.Equal(t, KindFailure, notification.Kind)
			assert.Equal(t, SeverityError, notification.Severity)
		})
	}
}

func Test_AddBook_WithValidationGuard_RejectsInvalidInput(t *testing.T) {
	// setup
	ctx := context.Background()
	coordinator, store, notifier := GivenCoordinator(t, GivenMemoryStorage(t), WithValidationGuard())

	// act
	_, err := coordinator.AddBook(ctx, recordstore.BookInput{Title: "D", Author: "Frank Herbert", Year: 999})

	// assert
	var violations recordstore.ValidationErrors
	require.True(t, errors.As(err, &violations))
	assert.Len(t, violations, 2)
	assert.Empty(t, store.GetAll(ctx))
	assert.Equal(t, 0, notifier.RenderCount())

	notification, _ := notifier.LastNotification()
	assert.Equal(t, KindInvalidInput, notification.Kind)
	assert.Equal(t, SeverityError, notification.Severity)
}

func Test_AddBook_WithoutValidationGuard_AcceptsAnyInput(t *testing.T) {
	// setup
	ctx := context.Background()
	coordinator, store, _ := GivenCoordinator(t, GivenMemoryStorage(t))

	// act
	_, err := coordinator.AddBook(ctx, recordstore.BookInput{Title: "D", Author: "", Year: 0})

	// assert
	require.NoError(t, err)
	assert.Len(t, store.GetAll(ctx), 1)
}

func Test_SetSearchTerm_FiltersButKeepsWholeCollectionCounts(t *testing.T) {
	// setup
	ctx := context.Background()
	coordinator, store, notifier := GivenCoordinator(t, GivenMemoryStorage(t))

	// arrange
	books := GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureNeuromancer(), FixtureLearningDDD())

	// act
	view := coordinator.SetSearchTerm(ctx, "GIBSON")

	// assert
	assert.Equal(t, "GIBSON", coordinator.SearchTerm())
	expected := View{
		SearchTerm: "GIBSON",
		Unread:     recordstore.BookRecords{books[1]},
		Read:       recordstore.BookRecords{},
		Counts:     Counts{Unread: 2, Read: 1},
	}
	assert.Empty(t, cmp.Diff(expected, view))

	rendered, _ := notifier.LastView()
	assert.Empty(t, cmp.Diff(expected, rendered))
	assert.Equal(t, `No read books with keyword "GIBSON"`, rendered.EmptyReadMessage())
}

func Test_UseSearchTerm_FiltersTheNextViewWithoutRendering(t *testing.T) {
	// setup
	ctx := context.Background()
	coordinator, store, notifier := GivenCoordinator(t, GivenMemoryStorage(t))
	GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureNeuromancer())

	// act
	coordinator.UseSearchTerm("dune")

	// assert
	assert.Equal(t, 0, notifier.RenderCount())
	assert.Equal(t, "dune", coordinator.SearchTerm())
	assert.Equal(t, []string{"book-1"}, ids(coordinator.CurrentView(ctx).Unread))
}

func Test_SetSearchTerm_ToBlank_ShowsAllBooks(t *testing.T) {
	// setup
	ctx := context.Background()
	coordinator, store, _ := GivenCoordinator(t, GivenMemoryStorage(t))

	// arrange
	books := GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureLearningDDD())
	coordinator.SetSearchTerm(ctx, "dune")

	// act
	view := coordinator.SetSearchTerm(ctx, "   ")

	// assert
	assert.Equal(t, recordstore.BookRecords{books[0]}, view.Unread)
	assert.Equal(t, recordstore.BookRecords{books[1]}, view.Read)
	assert.Equal(t, "No unread books yet", Project(nil, recordstore.Stats{}, "  ").EmptyUnreadMessage())
}

func Test_ExportBooks_NamesTheFileAfterTheDay(t *testing.T) {
	// setup
	ctx := context.Background()
	coordinator, store, notifier := GivenCoordinator(t, GivenMemoryStorage(t))

	// arrange
	GivenBooksWereAdded(t, ctx, store, FixtureDune())
	expectedData, err := store.ExportAll(ctx)
	require.NoError(t, err)

	// act
	export, err := coordinator.ExportBooks(ctx)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "bookshelf-backup-2024-03-14.json", export.Filename)
	assert.Equal(t, expectedData, export.Data)

	notification, _ := notifier.LastNotification()
	assert.Equal(t, KindBooksExported, notification.Kind)
}

func Test_ImportBooks_RoundTrip_IntoAnEmptyShelf(t *testing.T) {
	// setup
	ctx := context.Background()
	source, sourceStore, _ := GivenCoordinator(t, GivenMemoryStorage(t))
	target, targetStore, notifier := GivenCoordinator(t, GivenMemoryStorage(t))

	// arrange
	GivenBooksWereAdded(t, ctx, sourceStore, FixtureDune(), FixtureLearningDDD())
	export, err := source.ExportBooks(ctx)
	require.NoError(t, err)

	// act
	err = target.ImportBooks(ctx, export.Data)

	// assert
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(sourceStore.GetAll(ctx), targetStore.GetAll(ctx)))

	notification, _ := notifier.LastNotification()
	assert.Equal(t, KindBooksImported, notification.Kind)
	assert.Equal(t, SeveritySuccess, notification.Severity)
}

func Test_ImportBooks_When_TextIsNotAnArray(t *testing.T) {
	// setup
	ctx := context.Background()
	coordinator, store, notifier := GivenCoordinator(t, GivenMemoryStorage(t))

	// arrange
	books := GivenBooksWereAdded(t, ctx, store, FixtureDune())

	// act
	err := coordinator.ImportBooks(ctx, `{"not":"array"}`)

	// assert
	assert.ErrorIs(t, err, ErrImportRejected)
	assert.Equal(t, books, store.GetAll(ctx))
	assert.Equal(t, 0, notifier.RenderCount())

	notification, _ := notifier.LastNotification()
	assert.Equal(t, Notification{Kind: KindImportRejected, Severity: SeverityError, Message: "Invalid file format"}, notification)
}

func Test_ResetAll_RequiresConfirmation(t *testing.T) {
	// setup
	ctx := context.Background()
	coordinator, store, notifier := GivenCoordinator(t, GivenMemoryStorage(t))

	// arrange
	GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureNeuromancer())

	// act
	errUnconfirmed := coordinator.ResetAll(ctx, false)

	// assert
	assert.ErrorIs(t, errUnconfirmed, ErrResetNotConfirmed)
	assert.Len(t, store.GetAll(ctx), 2)
	assert.Empty(t, notifier.Notifications())

	// act
	errConfirmed := coordinator.ResetAll(ctx, true)

	// assert
	require.NoError(t, errConfirmed)
	assert.Empty(t, store.GetAll(ctx))

	notification, _ := notifier.LastNotification()
	assert.Equal(t, Notification{Kind: KindBooksReset, Severity: SeverityWarning, Message: "All book data deleted"}, notification)

	view, _ := notifier.LastView()
	assert.Equal(t, Counts{}, view.Counts)
}

func Test_Start_WelcomesOnlyOnTheFirstVisit(t *testing.T) {
	// setup
	ctx := context.Background()
	storage := GivenMemoryStorage(t)
	prefs, err := preferences.New(storage)
	require.NoError(t, err)
	first, _, firstNotifier := GivenCoordinator(t, storage, WithPreferences(prefs))
	second, _, secondNotifier := GivenCoordinator(t, storage, WithPreferences(prefs))

	// act
	first.Start(ctx)
	second.Start(ctx)

	// assert
	assert.Equal(t, 1, firstNotifier.RenderCount())
	require.Len(t, firstNotifier.Notifications(), 1)
	assert.Equal(t, KindWelcome, firstNotifier.Notifications()[0].Kind)
	assert.Equal(t, SeverityInfo, firstNotifier.Notifications()[0].Severity)
	assert.Equal(t, 1, secondNotifier.RenderCount())
	assert.Empty(t, secondNotifier.Notifications())
}

func Test_Project_KeepsInsertionOrderWithinShelves(t *testing.T) {
	// setup
	records := recordstore.BookRecords{
		{ID: "a", IsComplete: true},
		{ID: "b"},
		{ID: "c", IsComplete: true},
		{ID: "d"},
	}

	// act
	view := Project(records, recordstore.StatsOf(records), "")

	// assert
	assert.Equal(t, []string{"b", "d"}, ids(view.Unread))
	assert.Equal(t, []string{"a", "c"}, ids(view.Read))
	assert.Equal(t, Counts{Unread: 2, Read: 2}, view.Counts)
}

func Test_ExportFilename(t *testing.T) {
	assert.Equal(t, "bookshelf-backup-2025-01-02.json", ExportFilename(time.Date(2025, time.January, 2, 23, 0, 0, 0, time.UTC)))
}

func GivenCoordinator(
	t testing.TB,
	storage recordstore.KeyValueStorage,
	options ...Option,
) (*Coordinator, *recordstore.Store, *NotifierSpy) {
	store := GivenStore(t, storage)
	notifier := NewNotifierSpy()

	allOptions := []Option{WithClock(func() time.Time { return FakeClock })}
	allOptions = append(allOptions, options...)

	coordinator, err := New(store, notifier, allOptions...)
	require.NoError(t, err, "error in arranging test data")

	return coordinator, store, notifier
}

func ids(records recordstore.BookRecords) []string {
	result := make([]string, 0, len(records))
	for _, record := range records {
		result = append(result, record.ID)
	}

	return result
}
