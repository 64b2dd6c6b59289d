package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Duke0404/react-reader-backend/internal/auth"
	"github.com/Duke0404/react-reader-backend/internal/logging"
	"github.com/Duke0404/react-reader-backend/internal/metrics"
)

// hstsMaxAge is one year.
const hstsMaxAge = 31536000

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.GinMiddleware(logger))
	router.Use(metrics.GinMiddleware())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.Auth.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware(hstsMaxAge))
	}

	// CORS runs globally so preflights for any path are answered
	router.Use(CORSMiddleware(cfg.CORS))
	router.Use(BodyLimitMiddleware(cfg.HTTP.MaxBodyBytes))

	health := NewHealthController(cfg.Database, cfg.Blobs, cfg.Version)
	authController := NewAuthController(cfg.Accounts, cfg.Tokens, cfg.LoginLimiter, cfg.Auth)
	libraryController := NewLibraryController(cfg.Library)
	readAloud := NewReadAloudController(cfg.Speech)
	translateController := NewTranslateController(cfg.Translator)
	requireToken := auth.NewMiddleware(cfg.Tokens).RequireToken()

	// Health endpoints
	router.GET("/health", health.Live)
	router.GET("/health/ready", health.Ready)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Auth endpoints
	authGroup := router.Group("/auth")
	if cfg.HTTP.AuthRateLimit > 0 {
		authGroup.Use(IPRateLimitMiddleware(cfg.HTTP.AuthRateLimit))
	}
	authGroup.POST("/register", authController.Register)
	if cfg.LoginLimiter != nil {
		authGroup.POST("/login", cfg.LoginLimiter.Middleware(), authController.Login)
	} else {
		authGroup.POST("/login", authController.Login)
	}
	authGroup.POST("/logout", authController.Logout)
	authGroup.GET("/validate", requireToken, authController.Validate)

	// Token-protected endpoints
	protected := router.Group("/", requireToken)
	protected.GET("/library", libraryController.GetLibrary)
	protected.PUT("/library", libraryController.ReplaceLibrary)
	protected.GET("/library/timestamp", libraryController.GetTimestamp)
	protected.POST("/readAloud", readAloud.Synthesize)
	protected.POST("/translate", translateController.Translate)
	protected.GET("/translate/languages", translateController.Languages)

	return router
}
