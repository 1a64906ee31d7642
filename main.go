package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"overlaysvc/config"
	"overlaysvc/config/database"
	"overlaysvc/internal/overlay/repository"
	"overlaysvc/internal/overlay/service"
	"overlaysvc/middleware"
	"overlaysvc/pkg/logger"
	"overlaysvc/router"
	"overlaysvc/socket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Sugar.Fatalf("Could not connect to %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()

	metrics := middleware.NewMetrics()

	hub := socket.NewHub()
	hub.OnClientCount = metrics.SetFeedClients
	go hub.Run(ctx)

	svc := service.NewOverlayService(repo, hub, cfg.StoreTimeout)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(svc, hub, metrics),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Sugar.Infof("Overlay backend listening on %s (store: %s)", srv.Addr, cfg.StoreDriver)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Sugar.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar.Errorf("Graceful shutdown failed: %v", err)
	}
}

// openStore connects the configured backend and returns its repository plus a
// cleanup func.
func openStore(ctx context.Context, cfg *config.Config) (repository.OverlayRepository, func(), error) {
	policy := database.RetryPolicy{Attempts: cfg.ConnectRetries, Interval: cfg.ConnectRetryInterval}

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := database.ConnectMongo(ctx, cfg.MongoURI, policy)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Sugar.Errorf("Failed to disconnect from document store: %v", err)
			}
		}
		return repository.NewMongoRepository(coll), closeFn, nil

	case config.DriverPostgres:
		db, err := database.ConnectPostgres(ctx, cfg.DatabaseURL, policy)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { db.Close() }, nil

	case config.DriverMemory:
		logger.Sugar.Warn("Using in-memory store, overlays will not survive a restart")
		return repository.NewMemoryRepository(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
