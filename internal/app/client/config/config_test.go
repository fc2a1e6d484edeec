package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	v := viper.New()
	v.Set("config_dir", dir)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, defaultServerAddress, cfg.ServerAddress)
	assert.Equal(t, defaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, filepath.Join(dir, deviceFileName), cfg.DevicePath)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL())
	assert.True(t, cfg.IsLocal())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "server_address: lemon.example.com\nenable_tls: true\nrequest_timeout: 5s\napp_env: prod\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0600))

	v := viper.New()
	v.Set("config_dir", dir)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "https://lemon.example.com", cfg.BaseURL())
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.IsProd())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server_address: from-file:1\n"), 0600))
	t.Setenv("SERVER_ADDRESS", "http://from-env:2/")

	v := viper.New()
	v.Set("config_dir", dir)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:2", cfg.BaseURL())
}

func TestLoad_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("config_dir", t.TempDir())
	v.Set("app_env", "staging")

	_, err := Load(v)
	assert.Error(t, err)
}

func TestLoadWithEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(".env", []byte("REQUEST_TIMEOUT=7s\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("REQUEST_TIMEOUT") })

	v := viper.New()
	v.Set("config_dir", dir)

	cfg, err := LoadWithEnv(v)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
}
