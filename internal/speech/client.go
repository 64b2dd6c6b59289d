// Package speech calls the text-to-speech service that renders read-aloud
// audio.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/Duke0404/react-reader-backend/internal/config"
	"github.com/Duke0404/react-reader-backend/internal/metrics"
)

const serviceName = "tts"

// maxAudioBytes caps a single synthesized response.
const maxAudioBytes = 100 << 20

var (
	ErrUpstream    = errors.New("speech service failed")
	ErrEmptyText   = errors.New("text is required")
	ErrAudioTooBig = errors.New("synthesized audio exceeds size limit")
)

// Client talks to a TTS server exposing POST /synthesize.
type Client struct {
	httpClient *http.Client
	baseURL    string
	voice      string
	limiter    *rate.Limiter
}

// NewClient creates a client from the TTS settings. A rate limit of zero
// means unlimited.
func NewClient(cfg config.TTS) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		voice:      cfg.Voice,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// Synthesize returns the complete audio for text. The body is read in full
// before returning, so callers never see partial audio.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	audio, err := c.synthesize(ctx, text)
	metrics.UpstreamRequestsTotal.WithLabelValues(serviceName, metrics.Result(err)).Inc()
	return audio, err
}

func (c *Client) synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: wait for rate limit: %v", ErrUpstream, err)
	}

	payload, err := json.Marshal(synthesizeRequest{Text: text, Voice: c.voice})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/synthesize", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read audio: %v", ErrUpstream, err)
	}
	if len(audio) > maxAudioBytes {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, ErrAudioTooBig)
	}

	return audio, nil
}
