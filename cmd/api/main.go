package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storeadmin/infrastructure/config"
	"storeadmin/infrastructure/di"
	"storeadmin/interfaces/http/rest"
	"storeadmin/pkg/ratelimit"

	"go.uber.org/zap"
)

const limiterPruneInterval = 5 * time.Minute

func main() {
	// Initialize context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimitPerMinute > 0 {
		keyed := ratelimit.NewKeyedLimiter(cfg.RateLimitPerMinute, time.Minute, container.Clock)
		go keyed.Run(ctx, limiterPruneInterval)
		limiter = keyed
	}

	router := rest.NewRouter(
		container.CommandBus,
		container.QueryBus,
		container.Cache,
		container.Metrics,
		container.Logger,
		rest.Options{EnableCORS: cfg.EnableCORS, Debug: cfg.IsDevelopment(), RateLimiter: limiter},
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("store_backend", cfg.StoreBackend),
			zap.String("cache_backend", cfg.CacheBackend),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	container.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	// The cache goes last so in-flight requests can still invalidate
	if err := container.Close(); err != nil {
		log.Printf("Failed to close container: %v", err)
	}

	log.Println("Server stopped")
}
