package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/domain/sync"
)

const (
	ChangesChannel = "record_changes"
	reconnectDelay = 2 * time.Second
)

// ChangeBroker разносит события изменений между экземплярами сервера
// через NOTIFY/LISTEN.
type ChangeBroker struct {
	db  *Storage
	log *slog.Logger
}

func NewChangeBroker(db *Storage, log *slog.Logger) *ChangeBroker {
	return &ChangeBroker{
		db:  db,
		log: log.With("component", "change_broker"),
	}
}

func (b *ChangeBroker) Publish(ctx context.Context, ev sync.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}
	if _, err := b.db.Pool().Exec(ctx, "SELECT pg_notify($1, $2)", ChangesChannel, string(payload)); err != nil {
		return fmt.Errorf("notify change: %w", err)
	}
	return nil
}

// Listen держит выделенное соединение с LISTEN и переподключается при обрыве.
func (b *ChangeBroker) Listen(ctx context.Context, fn func(sync.Event)) error {
	for {
		err := b.listenOnce(ctx, fn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.log.Warn("change listener disconnected, reconnecting", "error", err, "delay", reconnectDelay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (b *ChangeBroker) listenOnce(ctx context.Context, fn func(sync.Event)) error {
	conn, err := b.db.Pool().Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listener conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ChangesChannel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				// соединение в неопределенном состоянии, в пул его не возвращаем
				_ = conn.Conn().Close(context.Background())
			}
			return fmt.Errorf("wait notification: %w", err)
		}

		var ev sync.Event
		if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
			b.log.Warn("malformed change payload", "payload", n.Payload, "error", err)
			continue
		}
		fn(ev)
	}
}
