package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Duke0404/react-reader-backend/internal/blobstore"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type nopStore struct{}

func (nopStore) Put(context.Context, []byte, string) (string, error) { return "id", nil }
func (nopStore) Get(context.Context, string) ([]byte, error)         { return nil, blobstore.ErrNotFound }
func (nopStore) Delete(context.Context, string) error                { return nil }

func readyHandle(t *testing.T) *blobstore.Handle {
	t.Helper()
	h := blobstore.NewHandle()
	require.NoError(t, h.Init(nopStore{}, "memory"))
	return h
}

func serveHealth(controller *HealthController, path string) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/health", controller.Live)
	router.GET("/health/ready", controller.Ready)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthController_Live(t *testing.T) {
	w := serveHealth(NewHealthController(nil, nil, ""), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Server is healthy", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestHealthController_Ready(t *testing.T) {
	t.Run("returns healthy when database and blob store are up", func(t *testing.T) {
		w := serveHealth(NewHealthController(stubPinger{}, readyHandle(t), "1.0.0"), "/health/ready")

		assert.Equal(t, http.StatusOK, w.Code)

		var response HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, "ok", response.Checks["database"])
		assert.Equal(t, "ok", response.Checks["blobstore"])
		assert.NotEmpty(t, response.Time)
	})

	t.Run("returns unhealthy when the database ping fails", func(t *testing.T) {
		w := serveHealth(NewHealthController(stubPinger{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")}, readyHandle(t), ""), "/health/ready")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "unhealthy", response.Status)
		assert.Equal(t, "error", response.Checks["database"])
		assert.NotContains(t, w.Body.String(), "connection refused")
		assert.NotContains(t, w.Body.String(), "10.0.0.5")
	})

	t.Run("returns unhealthy before the blob store is initialized", func(t *testing.T) {
		w := serveHealth(NewHealthController(stubPinger{}, blobstore.NewHandle(), ""), "/health/ready")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "not initialized", response.Checks["blobstore"])
	})

	t.Run("omits version when empty", func(t *testing.T) {
		w := serveHealth(NewHealthController(stubPinger{}, readyHandle(t), ""), "/health/ready")

		var raw map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		_, hasVersion := raw["version"]
		assert.False(t, hasVersion)
	})
}
