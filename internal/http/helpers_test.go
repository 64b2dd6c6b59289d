package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Duke0404/react-reader-backend/internal/auth"
	"github.com/Duke0404/react-reader-backend/internal/blobstore"
	"github.com/Duke0404/react-reader-backend/internal/library"
	"github.com/Duke0404/react-reader-backend/internal/speech"
	"github.com/Duke0404/react-reader-backend/internal/translate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", auth.ErrCredentialsRequired, http.StatusBadRequest, CodeBadRequest, "Username and password are required"},
		{"user exists", auth.ErrUserExists, http.StatusConflict, CodeConflict, "User already exists"},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials"},
		{"account missing", fmt.Errorf("load: %w", library.ErrAccountNotFound), http.StatusNotFound, CodeNotFound, "User not found"},
		{"bad payload", fmt.Errorf("%w: cover of book 1", library.ErrInvalidPayload), http.StatusBadRequest, CodeBadRequest, "Invalid base64 payload"},
		{"unsupported language", fmt.Errorf("%w: %q", translate.ErrUnsupportedLanguage, "xx"), http.StatusBadRequest, CodeBadRequest, "Unsupported target language"},
		{"translate upstream", fmt.Errorf("%w: status 503", translate.ErrUpstream), http.StatusBadGateway, CodeBadGateway, "Failed to translate text"},
		{"tts upstream", fmt.Errorf("%w: dial tcp", speech.ErrUpstream), http.StatusBadGateway, CodeBadGateway, "Failed to synthesize speech"},
		{"blob store not ready", blobstore.ErrNotInitialized, http.StatusInternalServerError, CodeServerError, "Server error"},
		{"anything else", errors.New("connection reset"), http.StatusInternalServerError, CodeServerError, "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondServiceError(c, tt.err, "test")

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestRespondInternalError_HidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondInternalError(c, errors.New("pq: password authentication failed"), "test")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password authentication")
}

func TestBindJSON(t *testing.T) {
	t.Run("decodes valid body", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"hi"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		var req readAloudRequest
		ok := bindJSON(c, &req)

		assert.True(t, ok)
		assert.Equal(t, "hi", req.Text)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":`))

		var req readAloudRequest
		ok := bindJSON(c, &req)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeBadRequest, decodeError(t, w).Code)
	})

	t.Run("reports oversized body", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"`+strings.Repeat("a", 64)+`"}`))
		c.Request.Body = http.MaxBytesReader(w, c.Request.Body, 16)

		var req readAloudRequest
		ok := bindJSON(c, &req)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Request body too large", decodeError(t, w).Message)
	})
}
