package record

import (
	"errors"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrInvalidData    = errors.New("invalid record data")
	ErrForeignSample  = errors.New("sample path outside owner namespace")
	ErrDuplicateEntry = errors.New("duplicate sample path")
)
