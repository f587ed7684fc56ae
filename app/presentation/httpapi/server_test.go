package httpapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	. "github.com/AntonStoeckl/bookshelf-store-go/app/presentation/httpapi"
	"github.com/AntonStoeckl/bookshelf-store-go/preferences"
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
	"github.com/AntonStoeckl/bookshelf-store-go/shelf"
	. "github.com/AntonStoeckl/bookshelf-store-go/testutil/helper"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testNotification struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type testResponse struct {
	View          *shelf.View             `json:"view"`
	Book          *recordstore.BookRecord `json:"book"`
	Notifications []testNotification      `json:"notifications"`
	Errors        map[string]string       `json:"errors"`
	Error         string                  `json:"error"`
}

type testPreferences struct {
	Theme string `json:"theme"`
	Debug bool   `json:"debug"`
}

func GivenServer(t *testing.T, storage recordstore.KeyValueStorage) (*Server, *recordstore.Store) {
	t.Helper()

	store := GivenStore(t, storage)
	prefs, err := preferences.New(storage)
	require.NoError(t, err, "error in arranging test data")

	server, err := NewServer(store, prefs)
	require.NoError(t, err, "error in arranging test data")

	return server, store
}

func serve(t *testing.T, server http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out))

	return out
}

func Test_NewServer_When_PreferencesAreMissing(t *testing.T) {
	// act
	_, err := NewServer(GivenStore(t, GivenMemoryStorage(t)), nil)

	// assert
	assert.ErrorIs(t, err, ErrNilPreferences)
}

func Test_Healthz(t *testing.T) {
	// setup
	server, _ := GivenServer(t, GivenMemoryStorage(t))

	// act
	rec := serve(t, server, http.MethodGet, "/healthz", "")

	// assert
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_PostSession_GreetsOnlyOnTheFirstVisit(t *testing.T) {
	// setup
	server, _ := GivenServer(t, GivenMemoryStorage(t))

	// act
	first := serve(t, server, http.MethodPost, "/api/session", "")
	second := serve(t, server, http.MethodPost, "/api/session", "")

	// assert
	firstResp := decode[testResponse](t, first)
	require.Len(t, firstResp.Notifications, 1)
	assert.Equal(t, string(shelf.KindWelcome), firstResp.Notifications[0].Kind)
	assert.Equal(t, string(shelf.SeverityInfo), firstResp.Notifications[0].Severity)
	require.NotNil(t, firstResp.View)

	assert.Empty(t, decode[testResponse](t, second).Notifications)
}

func Test_PostBook_Then_GetBooks_ShowsTheBook(t *testing.T) {
	// setup
	server, _ := GivenServer(t, GivenMemoryStorage(t))

	// act
	postRec := serve(t, server, http.MethodPost, "/api/books", `{"title":"Dune","author":"Frank Herbert","year":1965}`)
	getRec := serve(t, server, http.MethodGet, "/api/books", "")

	// assert
	require.Equal(t, http.StatusOK, postRec.Code)
	posted := decode[testResponse](t, postRec)
	require.NotNil(t, posted.Book)
	assert.Equal(t, "book-1", posted.Book.ID)
	require.Len(t, posted.Notifications, 1)
	assert.Equal(t, string(shelf.KindBookAdded), posted.Notifications[0].Kind)
	assert.Equal(t, `Book "Dune" added`, posted.Notifications[0].Message)
	require.NotNil(t, posted.View)
	assert.Equal(t, 1, posted.View.Counts.Unread)

	require.Equal(t, http.StatusOK, getRec.Code)
	listed := decode[testResponse](t, getRec)
	require.NotNil(t, listed.View)
	require.Len(t, listed.View.Unread, 1)
	assert.Equal(t, "Dune", listed.View.Unread[0].Title)
	assert.Empty(t, listed.View.Read)
}

func Test_GetBooks_FiltersByKeyword(t *testing.T) {
	// setup
	ctx := context.Background()
	server, store := GivenServer(t, GivenMemoryStorage(t))
	GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureNeuromancer(), FixtureLearningDDD())

	// act
	rec := serve(t, server, http.MethodGet, "/api/books?q=gibson", "")

	// assert
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[testResponse](t, rec)
	require.NotNil(t, resp.View)
	assert.Equal(t, "gibson", resp.View.SearchTerm)
	require.Len(t, resp.View.Unread, 1)
	assert.Equal(t, "Neuromancer", resp.View.Unread[0].Title)
	assert.Equal(t, shelf.Counts{Unread: 2, Read: 1}, resp.View.Counts)
}

func Test_SearchTerm_IsScopedToTheRequest(t *testing.T) {
	// setup
	ctx := context.Background()
	server, store := GivenServer(t, GivenMemoryStorage(t))
	records := GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureNeuromancer(), FixtureLearningDDD())

	// arrange
	require.Equal(t, http.StatusOK, serve(t, server, http.MethodGet, "/api/books?q=gibson", "").Code)

	// act
	unfiltered := serve(t, server, http.MethodPost, "/api/books/"+records[0].ID+"/move", "")
	filtered := serve(t, server, http.MethodPost, "/api/books/"+records[0].ID+"/move?q=herbert", "")

	// assert
	require.Equal(t, http.StatusOK, unfiltered.Code)
	unfilteredResp := decode[testResponse](t, unfiltered)
	require.NotNil(t, unfilteredResp.View)
	assert.Empty(t, unfilteredResp.View.SearchTerm)
	assert.Len(t, unfilteredResp.View.Unread, 1)
	assert.Len(t, unfilteredResp.View.Read, 2)

	require.Equal(t, http.StatusOK, filtered.Code)
	filteredResp := decode[testResponse](t, filtered)
	require.NotNil(t, filteredResp.View)
	assert.Equal(t, "herbert", filteredResp.View.SearchTerm)
	require.Len(t, filteredResp.View.Unread, 1)
	assert.Equal(t, "Dune", filteredResp.View.Unread[0].Title)
	assert.Empty(t, filteredResp.View.Read)
}

func Test_PostBook_When_InputIsInvalid(t *testing.T) {
	// setup
	server, store := GivenServer(t, GivenMemoryStorage(t))

	// act
	rec := serve(t, server, http.MethodPost, "/api/books", `{"title":"","author":"Frank Herbert","year":1965}`)

	// assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[testResponse](t, rec)
	assert.Contains(t, resp.Errors, recordstore.FieldTitle)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, string(shelf.KindInvalidInput), resp.Notifications[0].Kind)
	assert.Empty(t, store.GetAll(context.Background()))
}

func Test_PostBook_When_BodyIsMalformed(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `title=Dune`},
		{name: "unknown field", body: `{"title":"Dune","publisher":"Chilton"}`},
		{name: "year as text", body: `{"title":"Dune","author":"Frank Herbert","year":"1965"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			server, _ := GivenServer(t, GivenMemoryStorage(t))

			// act
			rec := serve(t, server, http.MethodPost, "/api/books", tc.body)

			// assert
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func Test_DeleteBook(t *testing.T) {
	// setup
	ctx := context.Background()
	server, store := GivenServer(t, GivenMemoryStorage(t))
	GivenBooksWereAdded(t, ctx, store, FixtureDune())

	// act
	rec := serve(t, server, http.MethodDelete, "/api/books/book-1", "")

	// assert
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[testResponse](t, rec)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, `Book "Dune" deleted`, resp.Notifications[0].Message)
	assert.Empty(t, store.GetAll(ctx))
}

func Test_DeleteBook_When_BookDoesNotExist(t *testing.T) {
	// setup
	server, _ := GivenServer(t, GivenMemoryStorage(t))

	// act
	rec := serve(t, server, http.MethodDelete, "/api/books/missing", "")

	// assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode[testResponse](t, rec)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, string(shelf.KindBookNotFound), resp.Notifications[0].Kind)
}

func Test_MoveBook(t *testing.T) {
	// setup
	ctx := context.Background()
	server, store := GivenServer(t, GivenMemoryStorage(t))
	GivenBooksWereAdded(t, ctx, store, FixtureDune())

	// act
	rec := serve(t, server, http.MethodPost, "/api/books/book-1/move", "")

	// assert
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[testResponse](t, rec)
	require.NotNil(t, resp.Book)
	assert.True(t, resp.Book.IsComplete)
	require.NotNil(t, resp.View)
	assert.Equal(t, shelf.Counts{Unread: 0, Read: 1}, resp.View.Counts)
}

func Test_GetStats(t *testing.T) {
	// setup
	ctx := context.Background()
	server, store := GivenServer(t, GivenMemoryStorage(t))
	GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureLearningDDD())

	// act
	rec := serve(t, server, http.MethodGet, "/api/stats", "")

	// assert
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, recordstore.Stats{Total: 2, Completed: 1, Uncompleted: 1}, decode[recordstore.Stats](t, rec))
}

func Test_GetExport_Then_PostImport_RestoresTheCollection(t *testing.T) {
	// setup
	ctx := context.Background()
	server, store := GivenServer(t, GivenMemoryStorage(t))
	added := GivenBooksWereAdded(t, ctx, store, FixtureDune(), FixtureLearningDDD())

	// act
	exportRec := serve(t, server, http.MethodGet, "/api/export", "")
	resetRec := serve(t, server, http.MethodPost, "/api/reset?confirm=true", "")
	importRec := serve(t, server, http.MethodPost, "/api/import", exportRec.Body.String())

	// assert
	require.Equal(t, http.StatusOK, exportRec.Code)
	assert.Contains(t, exportRec.Header().Get("Content-Disposition"), "bookshelf-backup-")
	require.Equal(t, http.StatusOK, resetRec.Code)
	require.Equal(t, http.StatusOK, importRec.Code)
	assert.Equal(t, added, store.GetAll(ctx))
}

func Test_PostImport_When_TextIsNotAnArray(t *testing.T) {
	// setup
	ctx := context.Background()
	server, store := GivenServer(t, GivenMemoryStorage(t))
	GivenBooksWereAdded(t, ctx, store, FixtureDune())

	// act
	rec := serve(t, server, http.MethodPost, "/api/import", `{"title":"Dune"}`)

	// assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[testResponse](t, rec)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "Invalid file format", resp.Notifications[0].Message)
	assert.Len(t, store.GetAll(ctx), 1)
}

func Test_PostReset_When_NotConfirmed(t *testing.T) {
	// setup
	ctx := context.Background()
	server, store := GivenServer(t, GivenMemoryStorage(t))
	GivenBooksWereAdded(t, ctx, store, FixtureDune())

	// act
	rec := serve(t, server, http.MethodPost, "/api/reset", "")

	// assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, store.GetAll(ctx), 1)
}

func Test_PostBook_When_StorageFails(t *testing.T) {
	// setup
	storage := NewStorageSpy(GivenMemoryStorage(t))
	server, _ := GivenServer(t, storage)
	storage.FailWrites(true)

	// act
	rec := serve(t, server, http.MethodPost, "/api/books", `{"title":"Dune","author":"Frank Herbert","year":1965}`)

	// assert
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode[testResponse](t, rec)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, string(shelf.KindFailure), resp.Notifications[0].Kind)
	assert.Nil(t, resp.View)
}

func Test_Preferences(t *testing.T) {
	// setup
	server, _ := GivenServer(t, GivenMemoryStorage(t))

	// act
	initial := serve(t, server, http.MethodGet, "/api/preferences", "")
	toggledTheme := serve(t, server, http.MethodPost, "/api/preferences/theme/toggle", "")
	toggledDebug := serve(t, server, http.MethodPost, "/api/preferences/debug/toggle", "")
	put := serve(t, server, http.MethodPut, "/api/preferences", `{"theme":"light","debug":false}`)
	rejected := serve(t, server, http.MethodPut, "/api/preferences", `{"theme":"sepia"}`)

	// assert
	assert.Equal(t, testPreferences{Theme: "light", Debug: false}, decode[testPreferences](t, initial))
	assert.Equal(t, testPreferences{Theme: "dark", Debug: false}, decode[testPreferences](t, toggledTheme))
	assert.Equal(t, testPreferences{Theme: "dark", Debug: true}, decode[testPreferences](t, toggledDebug))
	assert.Equal(t, testPreferences{Theme: "light", Debug: false}, decode[testPreferences](t, put))
	assert.Equal(t, http.StatusBadRequest, rejected.Code)
}

func Test_Server_ServesConcurrentRequestsOverHTTP(t *testing.T) {
	// setup
	server, store := GivenServer(t, GivenMemoryStorage(t))
	ts := httptest.NewServer(server)
	defer ts.Close()

	const requests = 10
	done := make(chan int, requests)

	// act
	for i := 0; i < requests; i++ {
		go func() {
			resp, err := ts.Client().Post(ts.URL+"/api/books", "application/json",
				strings.NewReader(`{"title":"Dune","author":"Frank Herbert","year":1965}`))
			if err != nil {
				done <- 0
				return
			}
			_ = resp.Body.Close()
			done <- resp.StatusCode
		}()
	}

	// assert
	for i := 0; i < requests; i++ {
		assert.Equal(t, http.StatusOK, <-done)
	}
	assert.Len(t, store.GetAll(context.Background()), requests)
}
