package client

import (
	"context"
	"time"

	"lemonpunch/internal/domain/record"
)

// ChangeEvent означает только "что-то изменилось": после него нужно перечитать все записи.
type ChangeEvent struct {
	RecordID string          `json:"record_id"`
	Op       record.ChangeOp `json:"op"`
	At       time.Time       `json:"at"`
}

// SessionProvider выдает идентификатор сессии, при необходимости устанавливая ее
type SessionProvider interface {
	SessionReady(ctx context.Context) (record.SessionID, error)
}

// Store - удаленное хранилище документов записей
type Store interface {
	Subscribe(ctx context.Context, sid record.SessionID) (<-chan ChangeEvent, error)
	ReadAll(ctx context.Context, sid record.SessionID) ([]record.Record, error)
	Insert(ctx context.Context, in record.Input) (string, error)
	Update(ctx context.Context, id string, in record.Input) error
	Delete(ctx context.Context, id string) error
}

// BlobStore - хранилище файлов образцов
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}

// Seeder наполняет пустое хранилище начальными данными
type Seeder interface {
	Seed(ctx context.Context, sid record.SessionID) error
}
