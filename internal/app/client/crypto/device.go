package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	devicePermissions = 0600
	deviceIDBytes     = 8
	deviceSecretBytes = 24
)

var ErrDeviceNotInitialized = errors.New("device is not initialized")

// Device - учетные данные устройства для анонимной сессии.
// Секрет не покидает устройство иначе как в запросе на установку сессии.
type Device struct {
	ID        string    `json:"device_id"`
	Secret    string    `json:"device_secret"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDevice генерирует новые учетные данные
func NewDevice() (*Device, error) {
	id, err := randomHex(deviceIDBytes)
	if err != nil {
		return nil, fmt.Errorf("generate device id: %w", err)
	}
	secret, err := randomHex(deviceSecretBytes)
	if err != nil {
		return nil, fmt.Errorf("generate device secret: %w", err)
	}
	return &Device{
		ID:        "dev-" + id,
		Secret:    secret,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func randomHex(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// LoadDevice читает учетные данные из файла
func LoadDevice(path string) (*Device, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDeviceNotInitialized
		}
		return nil, fmt.Errorf("read device file: %w", err)
	}

	var d Device
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode device file: %w", err)
	}
	if d.ID == "" || d.Secret == "" {
		return nil, fmt.Errorf("decode device file: empty credentials")
	}
	return &d, nil
}

// SaveDevice записывает учетные данные с правами 0600
func SaveDevice(path string, d *Device) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create device dir: %w", err)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode device: %w", err)
	}
	if err := os.WriteFile(path, data, devicePermissions); err != nil {
		return fmt.Errorf("write device file: %w", err)
	}
	return nil
}

// LoadOrCreateDevice возвращает сохраненное устройство или создает новое.
// created == true, если файл был создан сейчас.
func LoadOrCreateDevice(path string) (d *Device, created bool, err error) {
	d, err = LoadDevice(path)
	if err == nil {
		return d, false, nil
	}
	if !errors.Is(err, ErrDeviceNotInitialized) {
		return nil, false, err
	}

	if d, err = NewDevice(); err != nil {
		return nil, false, err
	}
	if err = SaveDevice(path, d); err != nil {
		return nil, false, err
	}
	return d, true, nil
}

// RemoveDevice удаляет файл учетных данных; записи прежнего владельца станут недоступны
func RemoveDevice(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove device file: %w", err)
	}
	return nil
}
