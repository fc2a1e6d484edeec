package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/domain/record"
	"lemonpunch/internal/domain/session"
)

type SessionRepository struct {
	db  *Storage
	log *slog.Logger
	now func() time.Time
}

func NewSessionRepository(db *Storage, log *slog.Logger) *SessionRepository {
	return &SessionRepository{
		db:  db,
		log: log.With("component", "session_repository"),
		now: time.Now,
	}
}

func (r *SessionRepository) FindDevice(ctx context.Context, deviceID string) (*session.Device, error) {
	query, args, err := sqlb.Select("id", "secret_hash", "session_id", "created_at").
		From("devices").
		Where(sq.Eq{"id": deviceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build device query: %w", err)
	}

	var d session.Device
	var sid string
	err = r.db.DB().QueryRowContext(ctx, query, args...).Scan(&d.ID, &d.SecretHash, &sid, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("find device: %w", err)
	}
	d.SessionID = record.SessionID(sid)
	return &d, nil
}

func (r *SessionRepository) CreateDevice(ctx context.Context, d *session.Device) error {
	query, args, err := sqlb.Insert("devices").
		Columns("id", "secret_hash", "session_id", "created_at").
		Values(d.ID, d.SecretHash, d.SessionID.String(), d.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build device insert: %w", err)
	}
	if _, err := r.db.DB().ExecContext(ctx, query, args...); err != nil {
		r.log.Error("failed to register device", "device_id", d.ID, "error", err)
		return fmt.Errorf("create device: %w", mapError(err))
	}
	return nil
}

func (r *SessionRepository) CreateToken(ctx context.Context, sessionID record.SessionID, tokenHash string, expiresAt time.Time) error {
	query, args, err := sqlb.Insert("sessions").
		Columns("session_id", "token_hash", "expires_at").
		Values(sessionID.String(), tokenHash, expiresAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build session insert: %w", err)
	}
	if _, err := r.db.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) ValidateToken(ctx context.Context, tokenHash string) (record.SessionID, time.Time, error) {
	query, args, err := sqlb.Select("session_id", "expires_at").
		From("sessions").
		Where(sq.Eq{"token_hash": tokenHash}).
		Where(sq.Gt{"expires_at": r.now().UTC()}).
		ToSql()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build session query: %w", err)
	}

	var (
		sid       string
		expiresAt time.Time
	)
	if err := r.db.DB().QueryRowContext(ctx, query, args...).Scan(&sid, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, session.ErrInvalidToken
		}
		return "", time.Time{}, fmt.Errorf("validate session: %w", err)
	}
	return record.SessionID(sid), expiresAt, nil
}
