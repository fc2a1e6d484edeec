package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/domain/record"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindDevice(ctx context.Context, deviceID string) (*Device, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Device), args.Error(1)
}

func (m *MockRepository) CreateDevice(ctx context.Context, device *Device) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *MockRepository) CreateToken(ctx context.Context, sessionID record.SessionID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, sessionID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockRepository) ValidateToken(ctx context.Context, tokenHash string) (record.SessionID, time.Time, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(record.SessionID), args.Get(1).(time.Time), args.Error(2)
}

const (
	deviceID = "dev-7f3a9c21"
	secret   = "0123456789abcdef0123456789abcdef"
)

func newTestService(repo Repository) *Service {
	return NewService(repo, NewCredentialsValidator(), slog.Default(), time.Hour, 16)
}

func TestService_Bootstrap_NewDevice(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	var registered *Device
	mockRepo.On("FindDevice", mock.Anything, deviceID).Return(nil, ErrDeviceNotFound)
	mockRepo.On("CreateDevice", mock.Anything, mock.MatchedBy(func(d *Device) bool {
		registered = d
		return d.ID == deviceID && d.SessionID != "" &&
			bcrypt.CompareHashAndPassword([]byte(d.SecretHash), []byte(secret)) == nil
	})).Return(nil)
	mockRepo.On("CreateToken", mock.Anything, mock.AnythingOfType("record.SessionID"), mock.MatchedBy(func(hash string) bool {
		// sha256 hex
		return len(hash) == 64
	}), mock.MatchedBy(func(expiresAt time.Time) bool {
		return expiresAt.After(time.Now())
	})).Return(nil)

	tok, err := service.Bootstrap(context.Background(), deviceID, secret)
	require.NoError(t, err)
	// base64 encoded 32 bytes is 44 characters with padding
	assert.Len(t, tok.Token, 44)
	assert.False(t, tok.Resumed)
	require.NotNil(t, registered)
	assert.Equal(t, registered.SessionID, tok.SessionID)

	mockRepo.AssertExpectations(t)
}

func TestService_Bootstrap_KnownDeviceKeepsSession(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)

	sid := record.SessionID("3c1d2b9e-6f0a-4d7e-8d1b-2f9a0c6e4b11")
	mockRepo.On("FindDevice", mock.Anything, deviceID).Return(&Device{
		ID:         deviceID,
		SecretHash: string(hash),
		SessionID:  sid,
	}, nil)
	mockRepo.On("CreateToken", mock.Anything, sid, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

	first, err := service.Bootstrap(context.Background(), deviceID, secret)
	require.NoError(t, err)
	second, err := service.Bootstrap(context.Background(), deviceID, secret)
	require.NoError(t, err)

	assert.Equal(t, sid, first.SessionID)
	assert.Equal(t, sid, second.SessionID)
	assert.True(t, second.Resumed)
	assert.NotEqual(t, first.Token, second.Token)
	mockRepo.AssertNotCalled(t, "CreateDevice", mock.Anything, mock.Anything)
}

func TestService_Bootstrap_WrongSecret(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)

	mockRepo.On("FindDevice", mock.Anything, deviceID).Return(&Device{
		ID:         deviceID,
		SecretHash: string(hash),
		SessionID:  "s",
	}, nil)

	_, err = service.Bootstrap(context.Background(), deviceID, "ffffffffffffffffffffffffffffffff")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	mockRepo.AssertNotCalled(t, "CreateToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Bootstrap_InvalidInput(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	_, err := service.Bootstrap(context.Background(), "x", secret)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Bootstrap(context.Background(), deviceID, "short")
	assert.ErrorIs(t, err, ErrInvalidInput)

	mockRepo.AssertNotCalled(t, "FindDevice", mock.Anything, mock.Anything)
}

func TestService_Bootstrap_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("FindDevice", mock.Anything, deviceID).Return(nil, errors.New("database error"))

	_, err := service.Bootstrap(context.Background(), deviceID, secret)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Validate(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	sid := record.SessionID("3c1d2b9e-6f0a-4d7e-8d1b-2f9a0c6e4b11")
	token := "test_token_123"
	mockRepo.On("ValidateToken", mock.Anything, hashToken(token)).Return(sid, time.Now().Add(time.Hour), nil).Once()

	got, err := service.Validate(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, sid, got)

	// второй вызов обслуживается из кэша
	got, err = service.Validate(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, sid, got)

	mockRepo.AssertNumberOfCalls(t, "ValidateToken", 1)
}

func TestService_Validate_CachedTokenExpires(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	sid := record.SessionID("3c1d2b9e-6f0a-4d7e-8d1b-2f9a0c6e4b11")
	token := "short_lived"
	mockRepo.On("ValidateToken", mock.Anything, hashToken(token)).Return(sid, now.Add(time.Minute), nil).Once()

	got, err := service.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, sid, got)

	// срок токена истек раньше, чем запись кэша
	now = now.Add(2 * time.Minute)
	_, err = service.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	mockRepo.AssertNumberOfCalls(t, "ValidateToken", 1)
}

func TestService_Validate_InvalidToken(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("ValidateToken", mock.Anything, mock.AnythingOfType("string")).Return(record.SessionID(""), time.Time{}, ErrInvalidToken)

	_, err := service.Validate(context.Background(), "expired")
	assert.Equal(t, ErrInvalidToken, err)

	_, err = service.Validate(context.Background(), "")
	assert.Equal(t, ErrInvalidToken, err)
	mockRepo.AssertNumberOfCalls(t, "ValidateToken", 1)
}

func TestService_Validate_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("ValidateToken", mock.Anything, mock.AnythingOfType("string")).Return(record.SessionID(""), time.Time{}, errors.New("database error"))

	_, err := service.Validate(context.Background(), "tok")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}
