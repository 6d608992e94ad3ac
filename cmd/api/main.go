package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/cache"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/catalog"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/config"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/logging"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/metrics"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/middleware"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/playout"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/service"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/tracing"
)

// API holds the handler dependencies
type API struct {
	svc    *service.Service
	logger *logging.Logger
}

func main() {
	// Load configuration; an unset CONFIG_PATH means defaults plus env
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Initialize tracing
	tracerCloser, err := tracing.Setup(cfg.Tracing.Enabled, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
	if err != nil {
		logger.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer tracerCloser.Close()

	// Initialize store
	store, err := cache.NewStore(cache.StoreOptions{
		Driver:    cfg.Store.Driver,
		KeyPrefix: cfg.Store.KeyPrefix,
		Host:      cfg.Redis.Host,
		Port:      cfg.Redis.Port,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize %s store: %v", cfg.Store.Driver, err)
	}
	defer store.Close()

	api := newAPI(cfg, store, logger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	router := setupRouter(ctx, api, cfg, logger)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port, logger)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.ErrorWithErr("Metrics server failed", err)
			}
		}()
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Starting API server on %s (store=%s, catalog=%d items)", addr, cfg.Store.Driver, cfg.Mock.CatalogSize)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr("Server forced to shutdown", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.ErrorWithErr("Metrics server forced to shutdown", err)
		}
	}

	logger.Info("Server stopped")
}

// newAPI builds the catalog, resolver and service from configuration
func newAPI(cfg *config.Config, store cache.Store, logger *logging.Logger) *API {
	cat := catalog.Generate(cfg.Mock.Seed, cfg.Mock.CatalogSize)

	resolver := playout.NewResolver(cat, playout.Config{
		CDNBaseURL:              cfg.Playout.CDNBaseURL,
		DRMBaseURL:              cfg.Playout.DRMBaseURL,
		FairplayCertificateURL:  cfg.Playout.FairplayCertificateURL,
		AdServerURL:             cfg.Playout.AdServerURL,
		SubtitleFallbackBaseURL: cfg.Subtitles.FallbackBaseURL,
	})

	return &API{
		svc:    service.New(cfg, cat, store, resolver, logger),
		logger: logger,
	}
}

func setupRouter(ctx context.Context, api *API, cfg *config.Config, logger *logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.DeviceDetection(),
	)

	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		go rl.Cleanup(ctx, 10*time.Minute)
		router.Use(middleware.RateLimit(rl))
	}

	// Health check
	router.GET("/health", api.healthCheck)

	setupRoutes(router.Group("/api/v1"), api)

	return router
}
