package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

const dsnOptions = "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"

// sqlb - построитель запросов с плейсхолдерами "?"
var sqlb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type Storage struct {
	db *sql.DB
}

func New(ctx context.Context, path string) (*Storage, error) {
	db, err := sql.Open("sqlite3", "file:"+path+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Storage{db: db}, nil
}

// MigrateURL возвращает URL базы для golang-migrate
func MigrateURL(path string) string {
	return "sqlite3://" + path + dsnOptions
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) DB() *sql.DB {
	return s.db
}
