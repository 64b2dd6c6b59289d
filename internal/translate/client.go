// Package translate calls a LibreTranslate-compatible translation service.
package translate

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

const serviceName = "translate"

// maxResponseBytes caps decoded upstream responses.
const maxResponseBytes = 10 << 20

var (
	ErrUpstream            = errors.New("translation service failed")
	ErrUnsupportedLanguage = errors.New("unsupported target language")
	ErrMissingFields       = errors.New("text and targetLang are required")
)

// Language is one entry of the upstream language list.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Client talks to GET /languages and POST /translate.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a client from the translation settings. A rate limit
// of zero means unlimited.
func NewClient(cfg config.Translate) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Languages fetches the supported languages. The list is never cached.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	langs, err := c.languages(ctx)
	metrics.UpstreamRequestsTotal.WithLabelValues(serviceName, metrics.Result(err)).Inc()
	return langs, err
}

func (c *Client) languages(ctx context.Context) ([]Language, error) {
	body, err := c.do(ctx, http.MethodGet, "/languages", nil)
	if err != nil {
		return nil, err
	}

	var langs []Language
	if err := json.Unmarshal(body, &langs); err != nil {
		return nil, fmt.Errorf("%w: decode languages: %v", ErrUpstream, err)
	}
	return langs, nil
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

// Translate checks target against a freshly fetched language list, then
// translates text with automatic source detection.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	if text == "" || target == "" {
		return "", ErrMissingFields
	}

	langs, err := c.Languages(ctx)
	if err != nil {
		return "", err
	}
	if !supports(langs, target) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, target)
	}

	translated, err := c.translate(ctx, text, target)
	metrics.UpstreamRequestsTotal.WithLabelValues(serviceName, metrics.Result(err)).Inc()
	return translated, err
}

func (c *Client) translate(ctx context.Context, text, target string) (string, error) {
	payload, err := json.Marshal(translateRequest{Q: text, Source: "auto", Target: target, Format: "text"})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/translate", payload)
	if err != nil {
		return "", err
	}

	var result struct {
		TranslatedText any `json:"translatedText"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: decode translation: %v", ErrUpstream, err)
	}
	translated, ok := result.TranslatedText.(string)
	if !ok || translated == "" {
		return "", fmt.Errorf("%w: response has no translatedText", ErrUpstream)
	}
	return translated, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: wait for rate limit: %v", ErrUpstream, err)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUpstream, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}
	return body, nil
}

func supports(langs []Language, code string) bool {
	for _, l := range langs {
		if l.Code == code {
			return true
		}
	}
	return false
}
