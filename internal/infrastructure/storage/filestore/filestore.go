// Пакет filestore хранит блобы образцов файлами на диске.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"lemonpunch/internal/domain/blob"
)

// FileStore реализует blob.Store поверх каталога.
type FileStore struct {
	dataDir string
}

// New создаёт FileStore, при необходимости создавая каталог данных.
func New(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dataDir, err)
	}
	return &FileStore{dataDir: dataDir}, nil
}

// Put записывает содержимое по пути.
//
// Паттерн: temp файл → запись → fsync → atomic rename.
// При ошибке temp файл удаляется, предыдущая версия файла не затрагивается.
func (s *FileStore) Put(ctx context.Context, path string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	fullPath := s.FullPath(path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return 0, fmt.Errorf("create blob dir: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("write blob: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("fsync blob: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("close blob: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("rename blob: %w", err)
	}

	return size, nil
}

// Delete удаляет файл. Отсутствующий файл - blob.ErrNotFound.
func (s *FileStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.FullPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return blob.ErrNotFound
		}
		return fmt.Errorf("delete blob %s: %w", path, err)
	}
	return nil
}

// FullPath возвращает путь к файлу на диске.
func (s *FileStore) FullPath(path string) string {
	return filepath.Join(s.dataDir, filepath.FromSlash(path))
}

// DataDir возвращает путь к директории данных.
func (s *FileStore) DataDir() string {
	return s.dataDir
}
