package session

import (
	"context"
	"time"

	"lemonpunch/internal/domain/record"
)

type Repository interface {
	FindDevice(ctx context.Context, deviceID string) (*Device, error)
	CreateDevice(ctx context.Context, device *Device) error
	CreateToken(ctx context.Context, sessionID record.SessionID, tokenHash string, expiresAt time.Time) error
	// ValidateToken возвращает сессию действующего токена и срок его действия
	ValidateToken(ctx context.Context, tokenHash string) (record.SessionID, time.Time, error)
}
