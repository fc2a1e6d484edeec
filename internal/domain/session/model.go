package session

import (
	"time"

	"lemonpunch/internal/domain/record"
)

// Device - анонимное устройство. Секрет хранится только в виде bcrypt-хэша.
type Device struct {
	ID         string
	SecretHash string
	SessionID  record.SessionID
	CreatedAt  time.Time
}

// Token - выданный устройству bearer-токен
type Token struct {
	Token     string           `json:"token"`
	SessionID record.SessionID `json:"session_id"`
	ExpiresAt time.Time        `json:"expires_at"`
	Resumed   bool             `json:"resumed"`
}
