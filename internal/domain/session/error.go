package session

import "errors"

var (
	ErrDeviceNotFound     = errors.New("device not found")
	ErrInvalidCredentials = errors.New("invalid device credentials")
	ErrInvalidToken       = errors.New("invalid session")
	ErrInvalidInput       = errors.New("invalid input")
)
