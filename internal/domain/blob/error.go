package blob

import "errors"

var (
	ErrNotFound      = errors.New("blob not found")
	ErrInvalidPath   = errors.New("invalid blob path")
	ErrForbiddenPath = errors.New("blob path outside owner namespace")
	ErrTooLarge      = errors.New("blob too large")
)
