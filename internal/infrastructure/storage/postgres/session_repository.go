package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/domain/record"
	"lemonpunch/internal/domain/session"
)

type SessionRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewSessionRepository(db *Storage, log *slog.Logger) *SessionRepository {
	return &SessionRepository{
		db:  db,
		log: log.With("component", "session_repository"),
	}
}

func (r *SessionRepository) FindDevice(ctx context.Context, deviceID string) (*session.Device, error) {
	query, args, err := psql.Select("id", "secret_hash", "session_id", "created_at").
		From("devices").
		Where(sq.Eq{"id": deviceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build device query: %w", err)
	}

	var d session.Device
	var sid string
	err = r.db.Pool().QueryRow(ctx, query, args...).Scan(&d.ID, &d.SecretHash, &sid, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("find device: %w", err)
	}
	d.SessionID = record.SessionID(sid)
	return &d, nil
}

func (r *SessionRepository) CreateDevice(ctx context.Context, d *session.Device) error {
	query, args, err := psql.Insert("devices").
		Columns("id", "secret_hash", "session_id", "created_at").
		Values(d.ID, d.SecretHash, d.SessionID.String(), d.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build device insert: %w", err)
	}
	if _, err := r.db.Pool().Exec(ctx, query, args...); err != nil {
		r.log.Error("failed to register device", "device_id", d.ID, "error", err)
		return fmt.Errorf("create device: %w", err)
	}
	return nil
}

func (r *SessionRepository) CreateToken(ctx context.Context, sessionID record.SessionID, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.Pool().Exec(ctx,
		`INSERT INTO sessions (session_id, token_hash, expires_at)
         VALUES ($1, decode($2, 'hex'), $3)`,
		sessionID.String(), tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) ValidateToken(ctx context.Context, tokenHash string) (record.SessionID, time.Time, error) {
	var (
		sid       string
		expiresAt time.Time
	)
	err := r.db.Pool().QueryRow(ctx,
		`SELECT session_id, expires_at FROM sessions
         WHERE token_hash = decode($1, 'hex') AND expires_at > NOW()`,
		tokenHash).Scan(&sid, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, session.ErrInvalidToken
		}
		return "", time.Time{}, fmt.Errorf("validate session: %w", err)
	}
	return record.SessionID(sid), expiresAt, nil
}
