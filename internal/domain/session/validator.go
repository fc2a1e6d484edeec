package session

import (
	"fmt"
	"unicode"
)

const (
	MinDeviceIDLen = 8
	MaxDeviceIDLen = 64
	MinSecretLen   = 32
	// bcrypt ignores input past 72 bytes
	MaxSecretLen = 72
)

// Validator - интерфейс для валидации учетных данных устройства
type Validator interface {
	ValidateDevice(deviceID, secret string) error
}

type CredentialsValidator struct{}

func NewCredentialsValidator() *CredentialsValidator {
	return &CredentialsValidator{}
}

// ValidateDevice валидирует идентификатор и секрет устройства
func (v *CredentialsValidator) ValidateDevice(deviceID, secret string) error {
	if len(deviceID) < MinDeviceIDLen {
		return fmt.Errorf("device id must be at least %d characters", MinDeviceIDLen)
	}
	if len(deviceID) > MaxDeviceIDLen {
		return fmt.Errorf("device id must be at most %d characters", MaxDeviceIDLen)
	}
	for _, r := range deviceID {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return fmt.Errorf("device id can only contain letters, digits, '_', '-'")
		}
	}

	if len(secret) < MinSecretLen {
		return fmt.Errorf("device secret must be at least %d characters", MinSecretLen)
	}
	if len(secret) > MaxSecretLen {
		return fmt.Errorf("device secret must be at most %d characters", MaxSecretLen)
	}

	return nil
}
