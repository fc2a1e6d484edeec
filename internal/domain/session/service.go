package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/domain/record"
)

const (
	DefaultTTL       = 30 * 24 * time.Hour
	DefaultCacheSize = 1024
	cacheTTL         = 5 * time.Minute
)

type Servicer interface {
	Bootstrap(ctx context.Context, deviceID, secret string) (Token, error)
	Validate(ctx context.Context, token string) (record.SessionID, error)
}

type Service struct {
	repo      Repository
	validator Validator
	log       *slog.Logger
	ttl       time.Duration
	cache     *expirable.LRU[string, cachedToken]
	now       func() time.Time
}

// cachedToken - запись кэша; истекший токен не отдается даже до вытеснения из LRU
type cachedToken struct {
	sessionID record.SessionID
	expiresAt time.Time
}

func NewService(repo Repository, validator Validator, log *slog.Logger, ttl time.Duration, cacheSize int) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log.With("component", "session_service"),
		ttl:       ttl,
		cache:     expirable.NewLRU[string, cachedToken](cacheSize, nil, min(cacheTTL, ttl)),
		now:       time.Now,
	}
}

// Bootstrap выдает токен анонимному устройству. Первое обращение регистрирует
// устройство и создает новую сессию, повторные возвращают ту же сессию.
func (s *Service) Bootstrap(ctx context.Context, deviceID, secret string) (Token, error) {
	if err := s.validator.ValidateDevice(deviceID, secret); err != nil {
		s.log.Debug("validation failed", "device_id", deviceID, "error", err)
		return Token{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	device, resumed, err := s.resolveDevice(ctx, deviceID, secret)
	if err != nil {
		return Token{}, err
	}

	// Генерация токена
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return Token{}, fmt.Errorf("generate token: %w", err)
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	expiresAt := s.now().Add(s.ttl)
	if err := s.repo.CreateToken(ctx, device.SessionID, hashToken(token), expiresAt); err != nil {
		return Token{}, fmt.Errorf("save session: %w", err)
	}

	s.log.Info("session bootstrapped", "device_id", deviceID, "session_id", device.SessionID, "resumed", resumed)

	return Token{
		Token:     token,
		SessionID: device.SessionID,
		ExpiresAt: expiresAt,
		Resumed:   resumed,
	}, nil
}

func (s *Service) resolveDevice(ctx context.Context, deviceID, secret string) (*Device, bool, error) {
	device, err := s.repo.FindDevice(ctx, deviceID)
	if err == nil {
		if err := bcrypt.CompareHashAndPassword([]byte(device.SecretHash), []byte(secret)); err != nil {
			s.log.Warn("device secret mismatch", "device_id", deviceID)
			return nil, false, ErrInvalidCredentials
		}
		return device, true, nil
	}
	if !errors.Is(err, ErrDeviceNotFound) {
		return nil, false, fmt.Errorf("find device: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash device secret: %w", err)
	}

	device = &Device{
		ID:         deviceID,
		SecretHash: string(hash),
		SessionID:  record.SessionID(uuid.NewString()),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.CreateDevice(ctx, device); err != nil {
		return nil, false, fmt.Errorf("register device: %w", err)
	}
	return device, false, nil
}

// Validate возвращает сессию владельца токена
func (s *Service) Validate(ctx context.Context, token string) (record.SessionID, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	tokenHash := hashToken(token)
	if cached, ok := s.cache.Get(tokenHash); ok {
		if s.now().Before(cached.expiresAt) {
			return cached.sessionID, nil
		}
		s.cache.Remove(tokenHash)
		return "", ErrInvalidToken
	}

	sid, expiresAt, err := s.repo.ValidateToken(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("validate session: %w", err)
	}

	s.cache.Add(tokenHash, cachedToken{sessionID: sid, expiresAt: expiresAt})
	return sid, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
