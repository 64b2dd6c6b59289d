package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Duke0404/react-reader-backend/internal/config"
)

func TestClient_Synthesize(t *testing.T) {
	var got synthesizeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/synthesize", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFF....WAVE"))
	}))
	defer server.Close()

	client := NewClient(config.TTS{BaseURL: server.URL, Voice: "en-gb"})

	audio, err := client.Synthesize(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF....WAVE"), audio)
	assert.Equal(t, synthesizeRequest{Text: "hello", Voice: "en-gb"}, got)
}

func TestClient_Synthesize_UpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("partial"))
	}))
	defer server.Close()

	audio, err := NewClient(config.TTS{BaseURL: server.URL}).Synthesize(context.Background(), "hello")

	assert.ErrorIs(t, err, ErrUpstream)
	assert.Nil(t, audio)
}

func TestClient_Synthesize_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(config.TTS{BaseURL: url}).Synthesize(context.Background(), "hello")

	assert.ErrorIs(t, err, ErrUpstream)
}

func TestClient_Synthesize_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := NewClient(config.TTS{BaseURL: server.URL, Timeout: 50 * time.Millisecond})

	_, err := client.Synthesize(context.Background(), "hello")

	assert.ErrorIs(t, err, ErrUpstream)
}

func TestClient_Synthesize_EmptyText(t *testing.T) {
	_, err := NewClient(config.TTS{BaseURL: "http://unused"}).Synthesize(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyText)
}
