package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDevice(t *testing.T) {
	d, err := NewDevice()
	require.NoError(t, err)

	// ограничения сервера: id 8-64 символа, секрет 32-72
	assert.Len(t, d.ID, 4+2*deviceIDBytes)
	assert.Len(t, d.Secret, 2*deviceSecretBytes)
	assert.False(t, d.CreatedAt.IsZero())
}

func TestLoadOrCreateDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "device.json")

	_, err := LoadDevice(path)
	assert.ErrorIs(t, err, ErrDeviceNotInitialized)

	first, created, err := LoadOrCreateDevice(path)
	require.NoError(t, err)
	assert.True(t, created)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(devicePermissions), info.Mode().Perm())

	second, created, err := LoadOrCreateDevice(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Secret, second.Secret)

	require.NoError(t, RemoveDevice(path))
	require.NoError(t, RemoveDevice(path))
	_, err = LoadDevice(path)
	assert.ErrorIs(t, err, ErrDeviceNotInitialized)
}

func TestLoadDevice_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.json")

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	_, err := LoadDevice(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"device_id":""}`), 0600))
	_, _, err = LoadOrCreateDevice(path)
	assert.Error(t, err)
}

func TestNewDevice_Unique(t *testing.T) {
	a, err := NewDevice()
	require.NoError(t, err)
	b, err := NewDevice()
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.Secret, b.Secret)
}
