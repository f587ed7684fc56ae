package httpapi

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/AntonStoeckl/bookshelf-store-go/preferences"
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
	"github.com/AntonStoeckl/bookshelf-store-go/shelf"
)

const (
	logMsgRequestFailed = "http request failed: "
	logMsgServerStopped = "http server stopped"
	logAttrError        = "error"
	logAttrPath         = "path"
)

// ErrNilPreferences is returned by NewServer when no preferences are supplied.
var ErrNilPreferences = errors.New("nil preferences supplied")

// Option defines a functional option for configuring a Server.
type Option func(*Server) error

// WithLogger sets the logger for failed requests.
func WithLogger(logger recordstore.Logger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// WithCoordinatorOptions passes options through to the shelf coordinator.
func WithCoordinatorOptions(options ...shelf.Option) Option {
	return func(s *Server) error {
		s.coordinatorOptions = append(s.coordinatorOptions, options...)
		return nil
	}
}

// Server serves the bookshelf JSON API.
type Server struct {
	echo               *echo.Echo
	coordinator        *shelf.Coordinator
	prefs              *preferences.Preferences
	collector          *collector
	logger             recordstore.Logger
	coordinatorOptions []shelf.Option
	mu                 sync.Mutex
}

// NewServer creates a Server over store. Book input is always validated before it reaches the store.
func NewServer(store shelf.RecordStore, prefs *preferences.Preferences, options ...Option) (*Server, error) {
	if prefs == nil {
		return nil, ErrNilPreferences
	}

	s := &Server{
		prefs:     prefs,
		collector: &collector{},
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	coordinatorOptions := append([]shelf.Option{
		shelf.WithValidationGuard(),
		shelf.WithPreferences(prefs),
		shelf.WithLogger(s.logger),
	}, s.coordinatorOptions...)

	coordinator, err := shelf.New(store, s.collector, coordinatorOptions...)
	if err != nil {
		return nil, err
	}

	s.coordinator = coordinator

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	s.register(e)
	s.echo = e

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		s.logInfo(logMsgServerStopped)
		return nil
	}

	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) register(e *echo.Echo) {
	e.GET("/healthz", healthz())

	api := e.Group("/api")
	api.POST("/session", s.startSession())
	api.GET("/books", s.getBooks())
	api.POST("/books", s.postBook())
	api.DELETE("/books/:id", s.deleteBook())
	api.POST("/books/:id/move", s.moveBook())
	api.GET("/stats", s.getStats())
	api.GET("/export", s.getExport())
	api.POST("/import", s.postImport())
	api.POST("/reset", s.postReset())
	api.GET("/preferences", s.getPreferences())
	api.PUT("/preferences", s.putPreferences())
	api.POST("/preferences/theme/toggle", s.toggleTheme())
	api.POST("/preferences/debug/toggle", s.toggleDebug())
}

// exchange runs action exclusively and collects the notifications and the view it produced.
// The coordinator's search term is taken from the request's q parameter, so no request sees
// the filter of another one.
func (s *Server) exchange(c echo.Context, action func() error) (response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.coordinator.UseSearchTerm(c.QueryParam(queryKeyword))
	s.collector.reset()
	err := action()

	return response{
		View:          s.collector.view,
		Notifications: toNotificationResponses(s.collector.notifications),
	}, err
}

func (s *Server) respond(c echo.Context, resp response, err error) error {
	status := statusFor(err)

	if err != nil {
		resp.Error = err.Error()

		var violations recordstore.ValidationErrors
		if errors.As(err, &violations) {
			resp.Errors = make(map[string]string, len(violations))
			for _, fe := range violations {
				resp.Errors[fe.Field] = fe.Message
			}
		}

		if status == http.StatusInternalServerError {
			s.logError(logMsgRequestFailed+c.Request().Method, err, logAttrPath, c.Path())
		}
	}

	return c.JSON(status, resp)
}

func statusFor(err error) int {
	var violations recordstore.ValidationErrors

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &violations):
		return http.StatusBadRequest
	case errors.Is(err, recordstore.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, shelf.ErrImportRejected),
		errors.Is(err, shelf.ErrResetNotConfirmed),
		errors.Is(err, preferences.ErrUnknownTheme),
		errors.Is(err, errInvalidBody):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Server) logError(msg string, err error, args ...any) {
	if s.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		s.logger.Error(msg, allArgs...)
	}
}
