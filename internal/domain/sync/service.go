package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"lemonpunch/internal/domain/record"
)

// Servicer интерфейс сервиса уведомлений об изменениях
type Servicer interface {
	record.Notifier
	Subscribe(owner record.SessionID) (<-chan Event, func(), error)
	Run(ctx context.Context) error
}

// Service публикует изменения записей и раздает их подписчикам
type Service struct {
	hub    *Hub
	broker Broker
	log    *slog.Logger
	now    func() time.Time
}

// NewService создает сервис. broker может быть nil, тогда рассылка идет
// только внутри процесса.
func NewService(hub *Hub, broker Broker, log *slog.Logger) *Service {
	return &Service{
		hub:    hub,
		broker: broker,
		log:    log.With("component", "sync_service"),
		now:    time.Now,
	}
}

// Notify реализует record.Notifier
func (s *Service) Notify(ctx context.Context, owner record.SessionID, recordID string, op record.ChangeOp) error {
	ev := Event{Owner: owner, RecordID: recordID, Op: op, At: s.now().UTC()}
	if err := validateEvent(ev); err != nil {
		return err
	}

	if s.broker == nil {
		n := s.hub.Publish(ev)
		s.log.Debug("change published", "owner", owner, "record_id", recordID, "op", op, "subscribers", n)
		return nil
	}

	// через брокер событие вернется и в этот процесс, в hub его доставит Run
	if err := s.broker.Publish(ctx, ev); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Subscribe подписывает на изменения записей владельца
func (s *Service) Subscribe(owner record.SessionID) (<-chan Event, func(), error) {
	if owner == "" {
		return nil, nil, fmt.Errorf("%w: owner is required", ErrInvalidEvent)
	}
	ch, cancel, err := s.hub.Subscribe(owner)
	if err != nil {
		return nil, nil, err
	}
	s.log.Debug("subscriber attached", "owner", owner)
	return ch, cancel, nil
}

// Run слушает брокер до отмены ctx. Без брокера просто ждет отмены.
func (s *Service) Run(ctx context.Context) error {
	defer s.hub.Close()

	if s.broker == nil {
		<-ctx.Done()
		return nil
	}

	s.log.Info("listening for changes")
	err := s.broker.Listen(ctx, func(ev Event) {
		if err := validateEvent(ev); err != nil {
			s.log.Warn("dropping change event", "error", err)
			return
		}
		s.hub.Publish(ev)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("listen changes: %w", err)
	}
	return nil
}

func validateEvent(ev Event) error {
	if ev.Owner == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidEvent)
	}
	switch ev.Op {
	case record.OpInsert, record.OpUpdate, record.OpDelete:
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidEvent, ev.Op)
	}
	return nil
}
