package client

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lemonpunch/internal/domain/record"
)

type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) SessionReady(ctx context.Context) (record.SessionID, error) {
	args := m.Called(ctx)
	return args.Get(0).(record.SessionID), args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Subscribe(ctx context.Context, sid record.SessionID) (<-chan ChangeEvent, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(chan ChangeEvent), args.Error(1)
}

func (m *MockStore) ReadAll(ctx context.Context, sid record.SessionID) ([]record.Record, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]record.Record), args.Error(1)
}

func (m *MockStore) Insert(ctx context.Context, in record.Input) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, id string, in record.Input) error {
	args := m.Called(ctx, id, in)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBlobs struct {
	mock.Mock
}

func (m *MockBlobs) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, path, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockBlobs) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

type MockSeeder struct {
	mock.Mock
}

func (m *MockSeeder) Seed(ctx context.Context, sid record.SessionID) error {
	args := m.Called(ctx, sid)
	return args.Error(0)
}
