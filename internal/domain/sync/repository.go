package sync

import "context"

// Broker разносит события между экземплярами сервера (например, через
// PostgreSQL LISTEN/NOTIFY). Без брокера события доставляются только внутри процесса.
type Broker interface {
	Publish(ctx context.Context, ev Event) error
	// Listen блокируется до отмены ctx, передавая каждое входящее событие в fn.
	Listen(ctx context.Context, fn func(Event)) error
}
