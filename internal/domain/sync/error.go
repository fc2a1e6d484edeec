package sync

import "errors"

var (
	ErrHubClosed    = errors.New("change hub closed")
	ErrInvalidEvent = errors.New("invalid change event")
)
