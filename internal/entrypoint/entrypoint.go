package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Duke0404/react-reader-backend/internal/auth"
	"github.com/Duke0404/react-reader-backend/internal/blobstore"
	"github.com/Duke0404/react-reader-backend/internal/config"
	"github.com/Duke0404/react-reader-backend/internal/database"
	"github.com/Duke0404/react-reader-backend/internal/database/accounts"
	librarydb "github.com/Duke0404/react-reader-backend/internal/database/library"
	http_controllers "github.com/Duke0404/react-reader-backend/internal/http"
	"github.com/Duke0404/react-reader-backend/internal/library"
	"github.com/Duke0404/react-reader-backend/internal/logging"
	"github.com/Duke0404/react-reader-backend/internal/metrics"
	"github.com/Duke0404/react-reader-backend/internal/scheduler"
	"github.com/Duke0404/react-reader-backend/internal/speech"
	"github.com/Duke0404/react-reader-backend/internal/translate"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String(), "timeout", timeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before draining requests
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server exiting")
	return nil
}

// Run wires every component from cfg and serves until shutdown.
func Run(cfg *config.Config, version string) error {
	logger := logging.Setup(logging.Config{
		ServiceName: config.ServiceName,
		Environment: cfg.Global.Environment,
		Level:       cfg.Global.LogLevel,
		Format:      cfg.Global.LogFormat,
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !cfg.Global.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("starting reader sync backend", "version", version, "environment", cfg.Global.Environment)

	if err := metrics.Register(prometheus.DefaultRegisterer, config.ServiceName); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	// The blob store attaches only once the database is open
	blobs, err := blobstore.OpenHandle(context.Background(), cfg.BlobStore, db.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}

	libraryRepo := librarydb.NewRepository(db.DB)
	tokens := auth.NewTokenService(cfg.Auth)
	loginLimiter := auth.NewLoginLimiter(cfg.Auth)
	defer loginLimiter.Stop()

	var sweepScheduler *scheduler.BlobSweepScheduler
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	if cfg.BlobSweep.Enabled {
		sweeper := scheduler.NewSweeper(blobs, libraryRepo, cfg.BlobSweep.Grace)
		sweepScheduler = scheduler.NewBlobSweepScheduler(sweeper, cfg.BlobSweep.Schedule)
		if err := sweepScheduler.Start(schedulerCtx); err != nil {
			return err
		}
	} else {
		slog.Info("blob sweep disabled")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Version:      version,
		Logger:       logger,
		HTTP:         cfg.HTTP,
		Auth:         cfg.Auth,
		CORS:         cfg.CORS,
		Accounts:     auth.NewService(accounts.NewRepository(db.DB), cfg.Auth.BcryptCost),
		Tokens:       tokens,
		LoginLimiter: loginLimiter,
		Library:      library.NewService(libraryRepo, blobs),
		Speech:       speech.NewClient(cfg.TTS),
		Translator:   translate.NewClient(cfg.Translate),
		Database:     db,
		Blobs:        blobs,
	})

	onShutdown := func(context.Context) {
		// cancel first so an in-flight sweep returns promptly
		schedulerCancel()
		if sweepScheduler != nil && sweepScheduler.IsRunning() {
			sweepScheduler.Stop()
		}
	}

	return Serve(router, cfg, onShutdown)
}
