package client

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/exp/slog"

	"lemonpunch/internal/app/client/cache"
	"lemonpunch/internal/domain/record"
)

type SyncState int32

const (
	Unsynced SyncState = iota
	Synced
)

func (s SyncState) String() string {
	if s == Synced {
		return "synced"
	}
	return "unsynced"
}

// SyncUpdate сообщает слушателю результат очередного перечитывания
type SyncUpdate struct {
	Records int
	Seeded  bool
	Err     error
}

// Syncer держит кэш в соответствии с удаленным хранилищем: на каждое
// уведомление об изменении перечитывает все записи и заменяет снимок целиком.
type Syncer struct {
	sessions SessionProvider
	store    Store
	cache    *cache.Cache
	seeder   Seeder
	log      *slog.Logger

	listener func(SyncUpdate)
	state    atomic.Int32
	seeded   bool
}

// NewSyncer создает синхронизатор. seeder может быть nil.
func NewSyncer(sessions SessionProvider, store Store, c *cache.Cache, seeder Seeder, log *slog.Logger) *Syncer {
	return &Syncer{
		sessions: sessions,
		store:    store,
		cache:    c,
		seeder:   seeder,
		log:      log.With("component", "syncer"),
		listener: func(SyncUpdate) {},
	}
}

// OnUpdate задает слушателя; вызывается из горутины Run после каждого перечитывания
func (s *Syncer) OnUpdate(fn func(SyncUpdate)) {
	if fn == nil {
		fn = func(SyncUpdate) {}
	}
	s.listener = fn
}

func (s *Syncer) State() SyncState {
	return SyncState(s.state.Load())
}

// Run подписывается на изменения и синхронизирует кэш до отмены ctx.
// Возвращает ctx.Err() при отмене, ErrAuth если сессия не установлена,
// ErrStore если подписка не удалась или поток изменений закрылся.
func (s *Syncer) Run(ctx context.Context) error {
	sid, err := s.sessions.SessionReady(ctx)
	if err != nil {
		if errors.Is(err, ErrAuth) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrAuth, err)
	}

	events, err := s.store.Subscribe(ctx, sid)
	if err != nil {
		if errors.Is(err, ErrStore) {
			return err
		}
		return fmt.Errorf("%w: subscribe: %w", ErrStore, err)
	}

	s.state.Store(int32(Synced))
	defer s.state.Store(int32(Unsynced))
	s.log.Info("synchronization started", "session_id", sid)

	s.listener(s.refresh(ctx, sid))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("synchronization stopped")
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("%w: change stream closed", ErrStore)
			}
			s.log.Debug("change received", "record_id", ev.RecordID, "op", ev.Op)
			s.listener(s.refresh(ctx, sid))
		}
	}
}

// Refresh выполняет одно полное перечитывание вне цикла Run
func (s *Syncer) Refresh(ctx context.Context) error {
	return s.readOnce(ctx, true)
}

// Reload перечитывает записи, но никогда не наполняет пустое хранилище.
// Нужен перед изменением или удалением, где наполнение было бы побочным эффектом.
func (s *Syncer) Reload(ctx context.Context) error {
	return s.readOnce(ctx, false)
}

func (s *Syncer) readOnce(ctx context.Context, seed bool) error {
	sid, err := s.sessions.SessionReady(ctx)
	if err != nil {
		if errors.Is(err, ErrAuth) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrAuth, err)
	}
	if !seed {
		return s.read(ctx, sid).Err
	}
	return s.refresh(ctx, sid).Err
}

// read не меняет кэш при ошибке чтения: остается предыдущий снимок.
func (s *Syncer) read(ctx context.Context, sid record.SessionID) SyncUpdate {
	records, err := s.store.ReadAll(ctx, sid)
	if err != nil {
		s.log.Error("failed to read records", "error", err)
		if !errors.Is(err, ErrStore) {
			err = fmt.Errorf("%w: read all: %w", ErrStore, err)
		}
		return SyncUpdate{Records: s.cache.Len(), Err: err}
	}
	s.cache.ReplaceAll(records)
	return SyncUpdate{Records: len(records)}
}

// refresh перечитывает записи и один раз наполняет пустое хранилище.
func (s *Syncer) refresh(ctx context.Context, sid record.SessionID) SyncUpdate {
	wasEmpty := s.cache.IsEmpty()
	upd := s.read(ctx, sid)
	if upd.Err != nil {
		return upd
	}

	if upd.Records == 0 && wasEmpty && !s.seeded && s.seeder != nil {
		// один раз за время жизни синхронизатора; записи придут следующим уведомлением
		s.seeded = true
		upd.Seeded = true
		s.log.Info("store is empty, seeding initial data")
		if err := s.seeder.Seed(ctx, sid); err != nil {
			s.log.Error("failed to seed initial data", "error", err)
			upd.Err = err
		}
	}
	return upd
}
