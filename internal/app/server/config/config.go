package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env     string
	DB      db
	Server  server
	Blob    blob
	Session session
}

type db struct {
	Driver      string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	DatabaseURI string `env:"DATABASE_URI"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"lemonpunch.db"`
	Migrations  string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS" envDefault:":8080"`
	PublicURL  string `env:"PUBLIC_URL"`
}

type blob struct {
	Dir     string `env:"BLOB_DIR" envDefault:"blobs"`
	MaxSize int64  `env:"BLOB_MAX_SIZE"`
}

type session struct {
	TTL       time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	CacheSize int           `env:"SESSION_CACHE_SIZE" envDefault:"1024"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("run_address", ":8080")
	v.SetDefault("storage_driver", DriverSQLite)
	v.SetDefault("sqlite_path", "lemonpunch.db")
	v.SetDefault("migrations_path", "migrations")
	v.SetDefault("blob_dir", "blobs")
	v.SetDefault("blob_max_size", 64<<20)
	v.SetDefault("session_ttl", 30*24*time.Hour)
	v.SetDefault("session_cache_size", 1024)
}

// Load читает конфигурацию из окружения (и .env, если он есть)
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		Env: v.GetString("app_env"),
		DB: db{
			Driver:      v.GetString("storage_driver"),
			DatabaseURI: v.GetString("database_uri"),
			SQLitePath:  v.GetString("sqlite_path"),
			Migrations:  v.GetString("migrations_path"),
		},
		Server: server{
			RunAddress: v.GetString("run_address"),
			PublicURL:  v.GetString("public_url"),
		},
		Blob: blob{
			Dir:     v.GetString("blob_dir"),
			MaxSize: v.GetInt64("blob_max_size"),
		},
		Session: session{
			TTL:       v.GetDuration("session_ttl"),
			CacheSize: v.GetInt("session_cache_size"),
		},
	}

	if cfg.Server.PublicURL == "" {
		cfg.Server.PublicURL = "http://localhost" + cfg.Server.RunAddress
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown APP_ENV %q", c.Env)
	}

	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.DatabaseURI == "" {
			return errors.New("DATABASE_URI is required for postgres storage")
		}
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for sqlite storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.DB.Driver)
	}

	if c.Blob.Dir == "" {
		return errors.New("BLOB_DIR is required")
	}
	return nil
}

func MustLoad() *Config {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := Load(viper.New())
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
