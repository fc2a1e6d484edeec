package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsValidator_ValidateDevice(t *testing.T) {
	validator := NewCredentialsValidator()
	validSecret := strings.Repeat("a", MinSecretLen)

	tests := []struct {
		name        string
		deviceID    string
		secret      string
		wantErr     bool
		expectedErr string
	}{
		{
			name:     "valid",
			deviceID: "dev-7f3a9c21",
			secret:   validSecret,
		},
		{
			name:     "valid with underscore",
			deviceID: "device_0001",
			secret:   validSecret,
		},
		{
			name:        "device id too short",
			deviceID:    "dev",
			secret:      validSecret,
			wantErr:     true,
			expectedErr: "device id must be at least 8 characters",
		},
		{
			name:        "device id too long",
			deviceID:    strings.Repeat("d", MaxDeviceIDLen+1),
			secret:      validSecret,
			wantErr:     true,
			expectedErr: "device id must be at most 64 characters",
		},
		{
			name:        "device id with space",
			deviceID:    "my device 1",
			secret:      validSecret,
			wantErr:     true,
			expectedErr: "device id can only contain letters, digits, '_', '-'",
		},
		{
			name:        "secret too short",
			deviceID:    "dev-7f3a9c21",
			secret:      "abc",
			wantErr:     true,
			expectedErr: "device secret must be at least 32 characters",
		},
		{
			name:        "secret too long",
			deviceID:    "dev-7f3a9c21",
			secret:      strings.Repeat("s", MaxSecretLen+1),
			wantErr:     true,
			expectedErr: "device secret must be at most 72 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateDevice(tt.deviceID, tt.secret)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.expectedErr, err.Error())
				return
			}
			assert.NoError(t, err)
		})
	}
}
