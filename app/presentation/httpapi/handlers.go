package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/bookshelf-store-go/preferences"
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

const (
	maxBookBodySize   = 16 << 10
	maxImportBodySize = 8 << 20

	paramID      = "id"
	queryKeyword = "q"
	queryConfirm = "confirm"

	mimeJSON = "application/json"
)

var errInvalidBody = errors.New("invalid body")

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

// startSession renders the initial view and greets a first-time visitor.
func (s *Server) startSession() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		resp, err := s.exchange(c, func() error {
			s.coordinator.Start(ctx)
			return nil
		})

		return s.respond(c, resp, err)
	}
}

func (s *Server) getBooks() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		keyword := c.QueryParam(queryKeyword)

		resp, err := s.exchange(c, func() error {
			s.coordinator.SetSearchTerm(ctx, keyword)
			return nil
		})

		return s.respond(c, resp, err)
	}
}

func (s *Server) postBook() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, maxBookBodySize))
		dec.DisallowUnknownFields()

		var req bookRequest
		if err := dec.Decode(&req); err != nil {
			return s.respond(c, response{Notifications: []notificationResponse{}}, errors.Join(errInvalidBody, err))
		}

		var record recordstore.BookRecord
		resp, err := s.exchange(c, func() error {
			var addErr error
			record, addErr = s.coordinator.AddBook(ctx, req.toInput())
			return addErr
		})

		if err == nil {
			resp.Book = &record
		}

		return s.respond(c, resp, err)
	}
}

func (s *Server) deleteBook() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param(paramID)

		resp, err := s.exchange(c, func() error {
			return s.coordinator.DeleteBook(ctx, id)
		})

		return s.respond(c, resp, err)
	}
}

func (s *Server) moveBook() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param(paramID)

		var record recordstore.BookRecord
		resp, err := s.exchange(c, func() error {
			var moveErr error
			record, moveErr = s.coordinator.MoveBook(ctx, id)
			return moveErr
		})

		if err == nil {
			resp.Book = &record
		}

		return s.respond(c, resp, err)
	}
}

func (s *Server) getStats() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var stats recordstore.Stats
		_, _ = s.exchange(c, func() error {
			stats = s.coordinator.Stats(ctx)
			return nil
		})

		return c.JSON(http.StatusOK, stats)
	}
}

func (s *Server) getExport() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var data, filename string
		resp, err := s.exchange(c, func() error {
			export, exportErr := s.coordinator.ExportBooks(ctx)
			data, filename = export.Data, export.Filename
			return exportErr
		})

		if err != nil {
			return s.respond(c, resp, err)
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

		return c.Blob(http.StatusOK, mimeJSON, []byte(data))
	}
}

func (s *Server) postImport() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		body, readErr := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBodySize))
		if readErr != nil {
			return s.respond(c, response{Notifications: []notificationResponse{}}, errors.Join(errInvalidBody, readErr))
		}

		resp, err := s.exchange(c, func() error {
			return s.coordinator.ImportBooks(ctx, string(body))
		})

		return s.respond(c, resp, err)
	}
}

func (s *Server) postReset() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		confirmed, _ := strconv.ParseBool(c.QueryParam(queryConfirm))

		resp, err := s.exchange(c, func() error {
			return s.coordinator.ResetAll(ctx, confirmed)
		})

		return s.respond(c, resp, err)
	}
}

func (s *Server) getPreferences() echo.HandlerFunc {
	return func(c echo.Context) error {
		return s.preferencesResult(c, nil)
	}
}

func (s *Server) putPreferences() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, maxBookBodySize))
		dec.DisallowUnknownFields()

		var req preferencesRequest
		if err := dec.Decode(&req); err != nil {
			return s.respond(c, response{Notifications: []notificationResponse{}}, errors.Join(errInvalidBody, err))
		}

		_, err := s.exchange(c, func() error {
			if req.Theme != nil {
				if themeErr := s.prefs.SetTheme(ctx, preferences.Theme(*req.Theme)); themeErr != nil {
					return themeErr
				}
			}

			if req.Debug != nil {
				return s.prefs.SetDebug(ctx, *req.Debug)
			}

			return nil
		})

		return s.preferencesResult(c, err)
	}
}

func (s *Server) toggleTheme() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		_, err := s.exchange(c, func() error {
			_, toggleErr := s.prefs.ToggleTheme(ctx)
			return toggleErr
		})

		return s.preferencesResult(c, err)
	}
}

func (s *Server) toggleDebug() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		_, err := s.exchange(c, func() error {
			_, toggleErr := s.prefs.ToggleDebug(ctx)
			return toggleErr
		})

		return s.preferencesResult(c, err)
	}
}

func (s *Server) preferencesResult(c echo.Context, err error) error {
	if err != nil {
		return s.respond(c, response{Notifications: []notificationResponse{}}, err)
	}

	ctx := c.Request().Context()

	s.mu.Lock()
	resp := preferencesResponse{
		Theme: string(s.prefs.Theme(ctx)),
		Debug: s.prefs.DebugEnabled(ctx),
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, resp)
}
