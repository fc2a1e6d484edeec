package client

import "errors"

var (
	// ErrAuth - сессия устройства не установлена. Фатально для сессии.
	ErrAuth = errors.New("session bootstrap failed")
	// ErrStore - операция с документами записей не выполнена
	ErrStore = errors.New("record store operation failed")
	// ErrBlob - операция с файлом образца не выполнена
	ErrBlob = errors.New("blob operation failed")

	ErrNotFound = errors.New("record not found")
)
