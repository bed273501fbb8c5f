package cmd

import (
	"context"
	"fmt"
	"time"

	"mgzdb/core/codec"
	"mgzdb/core/config"
	"mgzdb/core/database"
	"mgzdb/core/logger"
	"mgzdb/core/platform"
	"mgzdb/core/storage"
	"mgzdb/feature/coordinator"
	"mgzdb/feature/ingest"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// retryDelay is the pause between integrity-conflict retries.
const retryDelay = 100 * time.Millisecond

// app holds the resources every command shares.
type app struct {
	cfg         *config.Config
	log         *zap.Logger
	db          *gorm.DB
	store       *storage.BlobStore
	codec       *codec.Codec
	platforms   *platform.Registry
	coordinator *coordinator.Coordinator
}

// newApp loads configuration and connects to the database and the store.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}

	c, err := codec.New(cfg.Codec)
	if err != nil {
		database.Close(db)
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		log:       l,
		db:        db,
		store:     storage.NewBlobStore(client, cfg.Storage, codec.Extension),
		codec:     c,
		platforms: platform.NewRegistry(cfg.Platform),
	}

	settings := ingest.Settings{
		Database: cfg.Database,
		Storage:  cfg.Storage,
		Codec:    cfg.Codec,
		Parser:   cfg.Parser,
		Platform: cfg.Platform,
	}
	a.coordinator, err = coordinator.New(coordinator.Deps{
		DB:        db,
		Store:     a.store,
		Codec:     c,
		Platforms: a.platforms,
		Provision: func(ctx context.Context, _ int) (*ingest.Resources, error) {
			return ingest.Provision(ctx, settings)
		},
	}, coordinator.Options{
		Pool:       cfg.Pipeline,
		RetryDelay: retryDelay,
		Logger:     l,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	_ = a.codec.Close()
	_ = database.Close(a.db)
	_ = a.log.Sync()
}

// ingest runs fn between Start and Finished and reports the tallies.
func (a *app) ingest(ctx context.Context, fn func(ctx context.Context, c *coordinator.Coordinator) error) error {
	if err := a.coordinator.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	runErr := fn(ctx, a.coordinator)
	if err := a.coordinator.Finished(ctx); err != nil && runErr == nil {
		runErr = err
	}

	stats := a.coordinator.Stats()
	if runErr == nil && stats.Critical > 0 {
		runErr = fmt.Errorf("%d tasks failed critically", stats.Critical)
	}
	return runErr
}
