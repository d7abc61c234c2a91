// Package app assembles storage and services from configuration. Both
// binaries build their dependency graph through Open.
package app

import (
	"context"
	"fmt"

	"github.com/vytor/flashdeck/internal/config"
	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/repository/memory"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/shuffle"
)

type App struct {
	Store  repository.Store
	Deck   services.DeckService
	Import services.ImportService

	database *db.DB
}

// Open builds the storage engine named by cfg.StorageEngine and the services
// on top of it. A nil src shuffles with shuffle.Default.
func Open(ctx context.Context, cfg config.Config, src shuffle.Source) (*App, error) {
	log := logger.FromContext(ctx).WithPrefix("app")

	a := &App{}
	switch cfg.StorageEngine {
	case config.EngineSQLite:
		database, err := db.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.database = database
		a.Store = sqlite.NewStore(database.DB)
	case config.EngineMemory:
		log.Warn("using in-memory storage, data is lost on exit")
		a.Store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.StorageEngine)
	}

	a.Deck = services.NewDeckService(a.Store, src)
	a.Import = services.NewImportService(a.Deck, nil)
	log.Debug("services ready on %s engine", cfg.StorageEngine)
	return a, nil
}

// Ping checks storage reachability. The memory engine is always reachable.
func (a *App) Ping(ctx context.Context) error {
	if a.database == nil {
		return nil
	}
	return a.database.PingContext(ctx)
}

func (a *App) Close() error {
	if a.database == nil {
		return nil
	}
	return a.database.Close()
}
