package http

import (
	"context"
	"log/slog"

	"github.com/Duke0404/react-reader-backend/internal/auth"
	"github.com/Duke0404/react-reader-backend/internal/blobstore"
	"github.com/Duke0404/react-reader-backend/internal/config"
	"github.com/Duke0404/react-reader-backend/internal/library"
	"github.com/Duke0404/react-reader-backend/internal/translate"
)

// Pinger reports database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Synthesizer renders text to audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Translator translates text and lists supported languages.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
	Languages(ctx context.Context) ([]translate.Language, error)
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Settings
	Version string
	Logger  *slog.Logger // defaults to slog.Default()
	HTTP    config.HTTP
	Auth    config.Auth
	CORS    config.CORS

	// Authentication
	Accounts     *auth.Service
	Tokens       *auth.TokenService
	LoginLimiter *auth.LoginLimiter // optional

	// Library sync
	Library *library.Service

	// Upstream proxies
	Speech     Synthesizer
	Translator Translator

	// Readiness checks
	Database Pinger
	Blobs    *blobstore.Handle
}
