package blob

import (
	"context"
	"io"
)

// Store - хранилище содержимого, адресуемого путем
type Store interface {
	// Put записывает содержимое целиком или не записывает ничего и возвращает размер.
	Put(ctx context.Context, path string, r io.Reader) (int64, error)
	Delete(ctx context.Context, path string) error
}
