package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, ":8080", cfg.Server.RunAddress)
	assert.Equal(t, "http://localhost:8080", cfg.Server.PublicURL)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 1024, cfg.Session.CacheSize)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("STORAGE_DRIVER", DriverPostgres)
	t.Setenv("DATABASE_URI", "postgres://u:p@localhost:5432/lemon?sslmode=disable")
	t.Setenv("RUN_ADDRESS", ":9090")
	t.Setenv("PUBLIC_URL", "https://lemon.example.com")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, EnvProd, cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, ":9090", cfg.Server.RunAddress)
	assert.Equal(t, "https://lemon.example.com", cfg.Server.PublicURL)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown env", env: map[string]string{"APP_ENV": "staging"}},
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "mysql"}},
		{name: "postgres without uri", env: map[string]string{"STORAGE_DRIVER": DriverPostgres}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(viper.New())
			assert.Error(t, err)
		})
	}
}
