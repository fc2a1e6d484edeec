package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/exp/slog"

	"lemonpunch/internal/app/server/config"
	"lemonpunch/internal/domain/record"
	"lemonpunch/internal/domain/session"
	"lemonpunch/internal/domain/sync"
	"lemonpunch/internal/infrastructure/migration"
	"lemonpunch/internal/infrastructure/storage/postgres"
	"lemonpunch/internal/infrastructure/storage/sqlite"
)

// Backend - набор репозиториев поверх выбранной СУБД
type Backend struct {
	Records  record.Repository
	Sessions session.Repository
	// Broker == nil означает рассылку изменений только внутри процесса
	Broker sync.Broker

	db database
}

type database interface {
	Ping(ctx context.Context) error
	Close() error
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.db.Ping(ctx)
}

func (b *Backend) Close() error {
	return b.db.Close()
}

// Open накатывает миграции и открывает хранилище драйвера из конфигурации
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Backend, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.DB.Driver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Backend, error) {
	dir := filepath.Join(cfg.DB.Migrations, config.DriverPostgres)
	if err := migration.NewMigration(dir, cfg.DB.DatabaseURI, migration.DefaultEngine).Up(); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	db, err := postgres.New(ctx, cfg.DB.DatabaseURI)
	if err != nil {
		return nil, err
	}

	log.Info("storage ready", "driver", config.DriverPostgres)
	return &Backend{
		Records:  postgres.NewRecordRepository(db.Pool(), log),
		Sessions: postgres.NewSessionRepository(db, log),
		Broker:   postgres.NewChangeBroker(db, log),
		db:       db,
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Backend, error) {
	dir := filepath.Join(cfg.DB.Migrations, config.DriverSQLite)
	if err := migration.NewMigration(dir, sqlite.MigrateURL(cfg.DB.SQLitePath), migration.DefaultEngine).Up(); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	db, err := sqlite.New(ctx, cfg.DB.SQLitePath)
	if err != nil {
		return nil, err
	}

	log.Info("storage ready", "driver", config.DriverSQLite, "path", cfg.DB.SQLitePath)
	return &Backend{
		Records:  sqlite.NewRecordRepository(db, log),
		Sessions: sqlite.NewSessionRepository(db, log),
		db:       db,
	}, nil
}
