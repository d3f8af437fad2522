package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minibar/internal/archive"
	"minibar/internal/catalog"
	"minibar/internal/config"
	"minibar/internal/database"
	"minibar/internal/events"
	"minibar/internal/handler"
	"minibar/internal/router"
	"minibar/internal/service"
	"minibar/internal/session"
	"minibar/internal/store"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting minibar API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the product catalogue
	products, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info().Int("products", products.Len()).Msg("catalog loaded")

	// Optional store listeners
	var listeners []store.Listener

	if cfg.Archive.Enabled {
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		if _, err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		repo := archive.NewRepository(pool, logger)
		timeout := time.Duration(cfg.Archive.WriteTimeout) * time.Second
		listeners = append(listeners, archive.NewListener(repo, timeout, logger).Handle)
		logger.Info().Msg("order archive enabled")
	}

	if cfg.Events.Enabled {
		publisher := events.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic, cfg.Events.BufferSize, logger)
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer closeCancel()
			if err := publisher.Close(closeCtx); err != nil {
				logger.Error().Err(err).Msg("failed to drain event publisher")
			}
		}()
		listeners = append(listeners, publisher.Handle)
		logger.Info().
			Strs("brokers", cfg.Events.Brokers).
			Str("topic", cfg.Events.Topic).
			Msg("event publishing enabled")
	}

	// Initialize sessions
	registry := session.NewRegistry(products.Products(), logger, listeners...)

	// Initialize services
	sessionService := service.NewSessionService(registry, logger)
	productService := service.NewProductService(products, logger)
	orderService := service.NewOrderService(registry, products, logger)
	scheduleService := service.NewScheduleService(registry, logger)

	// Initialize HTTP handlers and router
	handlers := router.Handlers{
		Session:  handler.NewSessionHandler(sessionService, logger),
		Product:  handler.NewProductHandler(productService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Schedule: handler.NewScheduleHandler(scheduleService, logger),
	}
	signedIn := func(room string) bool { return registry.Get(room) != nil }
	mux := router.New(handlers, signedIn, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Strs("rooms", registry.Rooms()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadCatalog reads the catalogue from S3 or the local file system, or falls
// back to the built-in menu when no catalog file is configured.
func loadCatalog(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*catalog.Catalog, error) {
	fileLoader := catalog.NewFileLoader(logger)

	var s3Loader catalog.Loader
	if cfg.S3.Enabled {
		loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	} else if cfg.Catalog.File != "" {
		logger.Info().Msg("using local file system for catalog file (S3 disabled)")
	}

	loader := catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, logger)
	return catalog.Open(ctx, loader, cfg.Catalog.File)
}
