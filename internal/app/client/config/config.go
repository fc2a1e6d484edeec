package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress  = "localhost:8080"
	defaultLogLevel       = "info"
	defaultEnv            = "local"
	defaultConfigDir      = ".lemonpunch"
	defaultRequestTimeout = 30 * time.Second

	configFileName = "config"
	deviceFileName = "device.json"
)

type Config struct {
	Env            string        `mapstructure:"app_env"`
	ServerAddress  string        `mapstructure:"server_address"`
	LogLevel       string        `mapstructure:"log_level"`
	ConfigDir      string        `mapstructure:"config_dir"`
	DevicePath     string        `mapstructure:"device_path"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	EnableTLS      bool          `mapstructure:"enable_tls"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", defaultEnv)
	v.SetDefault("server_address", defaultServerAddress)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("config_dir", defaultConfigDir)
	v.SetDefault("request_timeout", defaultRequestTimeout)
	v.SetDefault("enable_tls", false)
}

// Load собирает конфигурацию: значения по умолчанию, <config_dir>/config.yaml,
// переменные окружения и флаги, привязанные к v.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	configDir, err := resolveDir(v.GetString("config_dir"))
	if err != nil {
		return nil, err
	}

	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// config_dir мог быть переопределен файлом, но файл ищется только в исходном каталоге
	cfg := &Config{
		Env:            v.GetString("app_env"),
		ServerAddress:  v.GetString("server_address"),
		LogLevel:       v.GetString("log_level"),
		ConfigDir:      configDir,
		DevicePath:     v.GetString("device_path"),
		RequestTimeout: v.GetDuration("request_timeout"),
		EnableTLS:      v.GetBool("enable_tls"),
	}
	if cfg.DevicePath == "" {
		cfg.DevicePath = filepath.Join(configDir, deviceFileName)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithEnv подгружает .env из текущего каталога, если он есть, и вызывает Load
func LoadWithEnv(v *viper.Viper) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}
	return Load(v)
}

// resolveDir: относительный путь по умолчанию кладется в домашний каталог
func resolveDir(dir string) (string, error) {
	if dir == defaultConfigDir {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, dir)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address не может быть пустым")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout должен быть положительным")
	}
	switch c.Env {
	case "local", "dev", "prod":
	default:
		return fmt.Errorf("неизвестное окружение %q", c.Env)
	}
	return nil
}

// BaseURL возвращает адрес сервера со схемой
func (c *Config) BaseURL() string {
	if strings.HasPrefix(c.ServerAddress, "http://") || strings.HasPrefix(c.ServerAddress, "https://") {
		return strings.TrimRight(c.ServerAddress, "/")
	}
	scheme := "http://"
	if c.EnableTLS {
		scheme = "https://"
	}
	return scheme + strings.TrimRight(c.ServerAddress, "/")
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
