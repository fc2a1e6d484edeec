package migration

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMigrator - мок для интерфейса Migrator
type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMigrator) Close() (error, error) {
	args := m.Called()
	return args.Error(0), args.Error(1)
}

func TestMigration_Up_Success(t *testing.T) {
	mockM := new(MockMigrator)

	// Настраиваем поведение
	mockM.On("Up").Return(nil)
	mockM.On("Close").Return(nil, nil)

	var gotSource, gotDB string
	engine := func(source, db string) (Migrator, error) {
		gotSource, gotDB = source, db
		return mockM, nil
	}

	mg := NewMigration("migrations/sqlite", "sqlite3://lemon.db", engine)
	err := mg.Up()

	assert.NoError(t, err)
	assert.Equal(t, "file://migrations/sqlite", gotSource)
	assert.Equal(t, "sqlite3://lemon.db", gotDB)
	mockM.AssertExpectations(t)
}

func TestMigration_Up_NoChange(t *testing.T) {
	mockM := new(MockMigrator)

	// ErrNoChange не должна считаться ошибкой в методе Up()
	mockM.On("Up").Return(migrate.ErrNoChange)
	mockM.On("Close").Return(nil, nil)

	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	mg := NewMigration("migrations/postgres", "postgres://localhost/lemon", engine)
	assert.NoError(t, mg.Up())
}

func TestMigration_Up_Failure(t *testing.T) {
	mockM := new(MockMigrator)

	upErr := errors.New("syntax error at line 3")
	mockM.On("Up").Return(upErr)
	mockM.On("Close").Return(nil, errors.New("db close failed"))

	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	err := NewMigration("m", "postgres://localhost/lemon", engine).Up()
	assert.ErrorIs(t, err, upErr)
	assert.Contains(t, err.Error(), "db close failed")
}

func TestMigration_Up_EngineError(t *testing.T) {
	// Ошибка на этапе создания мигратора (например, неверный драйвер)
	engine := func(source, db string) (Migrator, error) {
		return nil, errors.New("engine crash")
	}

	err := NewMigration("m", "bogus://", engine).Up()

	assert.Error(t, err)
	assert.Equal(t, "engine crash", err.Error())
}
