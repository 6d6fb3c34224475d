package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/edelweiss/pkg/context"
)

func newEcho(messages *[]ectologger.EctoLogMessage) *echo.Echo {
	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		*messages = append(*messages, msg)
	})
	e := echo.New()
	e.HTTPErrorHandler = Error(logger)
	e.Use(Context())
	e.Use(Logger(logger))
	return e
}

func TestContextSetsRequestID(t *testing.T) {
	var messages []ectologger.EctoLogMessage
	e := newEcho(&messages)

	var seen string
	e.GET("/ping", func(c echo.Context) error {
		seen = context.GetRequestID(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(echo.HeaderXRequestID))
	})

	t.Run("from header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(echo.HeaderXRequestID, "abc-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
	})

	require.NotEmpty(t, messages)
	last := messages[len(messages)-1]
	assert.Equal(t, "Request", last.Message)
	assert.Equal(t, "abc-123", context.GetRequestID(last.Ctx))
	assert.Equal(t, http.StatusNoContent, last.Fields["status"])
}

func TestContextSetsRouteAndResort(t *testing.T) {
	var messages []ectologger.EctoLogMessage
	e := newEcho(&messages)

	var route, resortID string
	e.GET("/resorts/:resort_id/catalog", func(c echo.Context) error {
		route = context.GetRoute(c.Request().Context())
		resortID = context.GetResortID(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resorts/la-plagne/catalog", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/resorts/:resort_id/catalog", route)
	assert.Equal(t, "la-plagne", resortID)
}

func TestLoggerLevels(t *testing.T) {
	var messages []ectologger.EctoLogMessage
	e := newEcho(&messages)
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "gone")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.NotEmpty(t, messages)
	assert.Equal(t, "Request rejected", messages[len(messages)-1].Message)
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"http error", httperror.NewHTTPError(http.StatusConflict, "already exists"), http.StatusConflict, "already exists"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "nope"},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var messages []ectologger.EctoLogMessage
			e := newEcho(&messages)
			e.GET("/fail", func(c echo.Context) error { return tt.err })

			req := httptest.NewRequest(http.MethodGet, "/fail", nil)
			req.Header.Set(echo.HeaderXRequestID, "req-9")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, "req-9", body.RequestID)
		})
	}
}
