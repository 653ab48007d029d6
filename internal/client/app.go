package client

import (
	"context"
	"fmt"

	"github.com/cardkeep/cardkeep/internal/account"
	"github.com/cardkeep/cardkeep/internal/adapter"
	"github.com/cardkeep/cardkeep/internal/cache"
	"github.com/cardkeep/cardkeep/internal/config"
	"github.com/cardkeep/cardkeep/internal/events"
	"github.com/cardkeep/cardkeep/internal/logger"
	"github.com/cardkeep/cardkeep/internal/scanner"
	"github.com/cardkeep/cardkeep/internal/store"
	"github.com/cardkeep/cardkeep/internal/workers"
)

// App is the assembled client runtime. Construction loads the persisted
// collection snapshot; Close flushes and releases every resource.
type App struct {
	cfg *config.ClientConfig
	log *logger.Logger

	Bus      *events.Bus
	Remote   adapter.RemoteClient
	Account  account.Provider
	Store    *store.CollectionStore
	Pipeline *scanner.Pipeline

	jobs  *workers.Workers
	cache *cache.Cache
}

// NewApp wires every component from the given config. capture is the
// frame producer the identification pipeline polls; it is injected so
// the runtime stays independent of any camera implementation.
func NewApp(ctx context.Context, cfg *config.ClientConfig, capture scanner.CaptureSource, log *logger.Logger) (*App, error) {
	bus := events.NewBus()

	remote := adapter.NewHTTPRemoteClient(adapter.HTTPClientConfig{
		BaseURL:         cfg.Remote.BaseURL,
		Token:           cfg.App.AuthToken,
		Timeout:         cfg.Remote.RequestTimeout,
		IdentifyTimeout: cfg.Remote.IdentifyTimeout,
	})

	provider := account.NewTokenProvider(cfg.App.AuthToken, log)

	offlineCache, err := cache.New(cfg.Storage.CachePath, cfg.Cache.TTL)
	if err != nil {
		return nil, fmt.Errorf("open offline cache: %w", err)
	}

	var repo store.SnapshotRepository
	if cfg.Storage.SnapshotPath != "" {
		db, err := store.NewConnectSQLite(ctx, cfg.Storage, log)
		if err != nil {
			offlineCache.Close()
			return nil, fmt.Errorf("open snapshot database: %w", err)
		}
		if err = db.Migrate(); err != nil {
			db.Close()
			offlineCache.Close()
			return nil, fmt.Errorf("migrate snapshot database: %w", err)
		}
		repo = store.NewSnapshotRepository(db, log)
	}

	collection, err := store.NewCollectionStore(ctx, store.Config{
		Tier:     provider.CurrentTier(),
		AutoPush: true,
	}, repo, remote, offlineCache, bus, log)
	if err != nil {
		offlineCache.Close()
		return nil, fmt.Errorf("build collection store: %w", err)
	}

	pipeline := scanner.NewPipeline(scanner.Config{
		ScanInterval:  cfg.Scanner.ScanInterval,
		DedupCooldown: cfg.Scanner.DedupCooldown,
		DedupCapacity: cfg.Scanner.DedupCapacity,
	}, capture, remote, collection, bus, log)

	jobs := workers.NewWorkers(
		pipeline,
		store.NewSyncJob(collection, 0, log),
	)

	return &App{
		cfg:      cfg,
		log:      log,
		Bus:      bus,
		Remote:   remote,
		Account:  provider,
		Store:    collection,
		Pipeline: pipeline,
		jobs:     jobs,
		cache:    offlineCache,
	}, nil
}

// Run starts the background jobs (identification pipeline, sync retry)
// and blocks until ctx is cancelled, then tears everything down in
// reverse order.
func (a *App) Run(ctx context.Context) error {
	a.jobs.StartAll(ctx)
	a.log.Info().Msg("collection tracker running")

	<-ctx.Done()
	a.log.Info().Msg("shutting down")

	return a.Close(context.Background())
}

// Close stops the background jobs, flushes the collection snapshot and
// closes storage. Safe to call after a failed Run.
func (a *App) Close(ctx context.Context) error {
	a.jobs.StopAll()

	var firstErr error
	if err := a.Store.Close(ctx); err != nil {
		a.log.Err(err).Msg("closing collection store")
		firstErr = err
	}
	if err := a.cache.Close(); err != nil {
		a.log.Err(err).Msg("closing offline cache")
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
