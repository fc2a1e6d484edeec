package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/app/server/config"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{Env: config.EnvLocal}
	cfg.DB.Driver = config.DriverSQLite
	cfg.DB.SQLitePath = filepath.Join(t.TempDir(), "lemon.db")
	cfg.DB.Migrations = "../../../migrations"

	backend, err := Open(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	defer backend.Close()

	assert.NotNil(t, backend.Records)
	assert.NotNil(t, backend.Sessions)
	assert.Nil(t, backend.Broker)

	records, err := backend.Records.List(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Driver = "mysql"

	_, err := Open(context.Background(), cfg, slog.Default())
	assert.Error(t, err)
}
