package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, c *Checker, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	c.RegisterRoutes(e)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealth(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("all healthy", func(t *testing.T) {
		c := NewChecker("1.0.0", map[string]Pinger{"database": ok, "redis": ok, "kafka": nil})
		rec, body := serve(t, c, "/api/v1/health")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "1.0.0", body["version"])
		checks := body["checks"].(map[string]any)
		assert.Len(t, checks, 2)
	})

	t.Run("one failing", func(t *testing.T) {
		c := NewChecker("1.0.0", map[string]Pinger{"database": ok, "redis": down})
		rec, body := serve(t, c, "/api/v1/health")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "unhealthy", body["status"])
		redis := body["checks"].(map[string]any)["redis"].(map[string]any)
		assert.Equal(t, "connection refused", redis["message"])
	})
}

func TestLiveAndReady(t *testing.T) {
	c := NewChecker("dev", nil)

	rec, body := serve(t, c, "/api/v1/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", body["status"])

	rec, _ = serve(t, c, "/api/v1/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	c.SetReady(true)
	rec, body = serve(t, c, "/api/v1/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])
}

func TestReadyFollowsDependencies(t *testing.T) {
	up := true
	redis := PingFunc(func(context.Context) error {
		if !up {
			return errors.New("i/o timeout")
		}
		return nil
	})
	c := NewChecker("dev", map[string]Pinger{"redis": redis})
	c.SetReady(true)

	rec, _ := serve(t, c, "/api/v1/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	up = false
	rec, body := serve(t, c, "/api/v1/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", body["status"])
}
