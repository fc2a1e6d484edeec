package record

import (
	"context"
)

// Repository хранилище документов записей, все операции ограничены владельцем
type Repository interface {
	List(ctx context.Context, owner SessionID) ([]Record, error)
	Get(ctx context.Context, owner SessionID, id string) (*Record, error)
	Create(ctx context.Context, rec *Record) error
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, owner SessionID, id string) error
}

type ChangeOp string

const (
	OpInsert ChangeOp = "insert"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// Notifier announces that a record of the owner changed.
type Notifier interface {
	Notify(ctx context.Context, owner SessionID, recordID string, op ChangeOp) error
}
