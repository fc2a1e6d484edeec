package sync

import (
	"time"

	"lemonpunch/internal/domain/record"
)

// Event - уведомление об изменении записи. Получатели трактуют его только как
// сигнал "что-то изменилось" и перечитывают набор записей целиком.
type Event struct {
	Owner    record.SessionID `json:"owner"`
	RecordID string           `json:"record_id"`
	Op       record.ChangeOp  `json:"op"`
	At       time.Time        `json:"at"`
}
