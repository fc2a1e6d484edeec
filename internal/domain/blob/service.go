package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/slog"

	"lemonpunch/internal/domain/record"
)

const DefaultMaxSize = 64 << 20

type Servicer interface {
	Upload(ctx context.Context, owner record.SessionID, path string, r io.Reader) (string, error)
	Delete(ctx context.Context, owner record.SessionID, path string) error
}

type Service struct {
	store     Store
	publicURL string
	maxSize   int64
	log       *slog.Logger
}

func NewService(store Store, publicURL string, maxSize int64, log *slog.Logger) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Service{
		store:     store,
		publicURL: publicURL,
		maxSize:   maxSize,
		log:       log.With("component", "blob_service"),
	}
}

// Upload сохраняет содержимое по пути владельца и возвращает публичный URL
func (s *Service) Upload(ctx context.Context, owner record.SessionID, path string, r io.Reader) (string, error) {
	if err := CheckPath(owner, path); err != nil {
		s.log.Warn("rejected blob path", "owner", owner, "path", path, "error", err)
		return "", err
	}

	lr := &limitedReader{r: r, n: s.maxSize}
	size, err := s.store.Put(ctx, path, lr)
	if err != nil {
		if lr.exceeded {
			return "", fmt.Errorf("%w: limit %d bytes", ErrTooLarge, s.maxSize)
		}
		s.log.Error("failed to store blob", "path", path, "error", err)
		return "", fmt.Errorf("store blob: %w", err)
	}

	s.log.Info("blob stored", "owner", owner, "path", path, "size", size)
	return PublicURL(s.publicURL, path), nil
}

// Delete удаляет блоб владельца
func (s *Service) Delete(ctx context.Context, owner record.SessionID, path string) error {
	if err := CheckPath(owner, path); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, path); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("failed to delete blob", "path", path, "error", err)
		return fmt.Errorf("delete blob: %w", err)
	}
	s.log.Info("blob deleted", "owner", owner, "path", path)
	return nil
}

// limitedReader в отличие от io.LimitReader отдает ошибку при превышении лимита
type limitedReader struct {
	r        io.Reader
	n        int64
	exceeded bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n < 0 {
		l.exceeded = true
		return 0, ErrTooLarge
	}
	if int64(len(p)) > l.n+1 {
		p = p[:l.n+1]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		l.exceeded = true
		return n, ErrTooLarge
	}
	return n, err
}
