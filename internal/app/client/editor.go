package client

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/oklog/ulid/v2"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"lemonpunch/internal/app/client/cache"
	"lemonpunch/internal/domain/record"
)

// NewFile - файл, который будет загружен при сохранении
type NewFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Draft копит изменения образцов до сохранения записи
type Draft struct {
	files   []NewFile
	removed []string
}

func (d *Draft) AddFile(f NewFile) {
	d.files = append(d.files, f)
}

// MarkForDeletion помечает существующий образец к удалению по его path
func (d *Draft) MarkForDeletion(samplePath string) {
	if !slices.Contains(d.removed, samplePath) {
		d.removed = append(d.removed, samplePath)
	}
}

func (d *Draft) Files() []NewFile {
	return d.files
}

func (d *Draft) Removed() []string {
	return d.removed
}

func (d *Draft) IsEmpty() bool {
	return len(d.files) == 0 && len(d.removed) == 0
}

func (d *Draft) Reset() {
	d.files = nil
	d.removed = nil
}

// SaveError описывает неудачное сохранение. Удаления образцов, выполненные
// до ошибки, не откатываются: их пути перечислены в DeletedPaths.
type SaveError struct {
	Op            string
	Err           error
	DeletedPaths  []string
	UploadedPaths []string
}

func (e *SaveError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// Editor выполняет сохранение и удаление записей вместе с их образцами
type Editor struct {
	sessions SessionProvider
	store    Store
	blobs    BlobStore
	cache    *cache.Cache
	log      *slog.Logger
	newKey   func() string
}

func NewEditor(sessions SessionProvider, store Store, blobs BlobStore, c *cache.Cache, log *slog.Logger) *Editor {
	return &Editor{
		sessions: sessions,
		store:    store,
		blobs:    blobs,
		cache:    c,
		log:      log.With("component", "editor"),
		newKey:   func() string { return ulid.Make().String() },
	}
}

// Save создает запись (id == "") или обновляет существующую из кэша.
// Черновик очищается при любом исходе.
func (e *Editor) Save(ctx context.Context, draft *Draft, id string, fields record.Fields) (string, error) {
	defer draft.Reset()

	sid, err := e.sessions.SessionReady(ctx)
	if err != nil {
		if !errors.Is(err, ErrAuth) {
			err = fmt.Errorf("%w: %w", ErrAuth, err)
		}
		return "", err
	}

	var (
		samples []record.Sample
		deleted []string
	)

	if id != "" {
		existing, ok := e.cache.Find(id)
		if !ok {
			return "", &SaveError{Op: "update", Err: fmt.Errorf("%w: %w: %s", ErrStore, ErrNotFound, id)}
		}
		samples = existing.Samples
		samples, deleted = e.removeSamples(ctx, samples, draft.Removed())
	}

	uploaded, err := e.upload(ctx, sid, id, draft.Files())
	if err != nil {
		return "", &SaveError{Op: "upload", Err: err, DeletedPaths: deleted, UploadedPaths: paths(uploaded)}
	}

	in := record.Input{Fields: fields, Samples: append(slices.Clip(samples), uploaded...)}
	if in.Samples == nil {
		in.Samples = []record.Sample{}
	}

	if id == "" {
		newID, err := e.store.Insert(ctx, in)
		if err != nil {
			return "", &SaveError{Op: "insert", Err: storeErr("insert", err), UploadedPaths: paths(uploaded)}
		}
		e.log.Info("record created", "record_id", newID, "uploaded", len(uploaded))
		return newID, nil
	}

	if err := e.store.Update(ctx, id, in); err != nil {
		return "", &SaveError{
			Op:            "update",
			Err:           storeErr("update", err),
			DeletedPaths:  deleted,
			UploadedPaths: paths(uploaded),
		}
	}
	e.log.Info("record updated", "record_id", id, "uploaded", len(uploaded), "deleted", len(deleted))
	return id, nil
}

// Delete удаляет файлы образцов записи (ошибки только логируются), затем документ
func (e *Editor) Delete(ctx context.Context, id string) error {
	if _, err := e.sessions.SessionReady(ctx); err != nil {
		if !errors.Is(err, ErrAuth) {
			err = fmt.Errorf("%w: %w", ErrAuth, err)
		}
		return err
	}

	if rec, ok := e.cache.Find(id); ok {
		for _, smp := range rec.Samples {
			if err := e.blobs.Delete(ctx, smp.Path); err != nil {
				e.log.Warn("failed to delete sample", "record_id", id, "path", smp.Path, "error", err)
			}
		}
	}

	if err := e.store.Delete(ctx, id); err != nil {
		return storeErr("delete", err)
	}
	e.log.Info("record deleted", "record_id", id)
	return nil
}

// removeSamples удаляет помеченные файлы и убирает их из samples даже при ошибке удаления.
// Пути, которых нет среди образцов записи, пропускаются: блоб может принадлежать другой записи.
func (e *Editor) removeSamples(ctx context.Context, samples []record.Sample, removed []string) ([]record.Sample, []string) {
	if len(removed) == 0 {
		return samples, nil
	}

	var deleted []string
	kept := make([]record.Sample, 0, len(samples))
	for _, smp := range samples {
		if !slices.Contains(removed, smp.Path) {
			kept = append(kept, smp)
			continue
		}
		if err := e.blobs.Delete(ctx, smp.Path); err != nil {
			e.log.Warn("failed to delete sample", "path", smp.Path, "error", err)
			continue
		}
		deleted = append(deleted, smp.Path)
	}

	for _, p := range removed {
		if !slices.ContainsFunc(samples, func(smp record.Sample) bool { return smp.Path == p }) {
			e.log.Warn("sample is not attached to the record, skipping", "path", p)
		}
	}
	return kept, deleted
}

// upload загружает все файлы параллельно; любая ошибка отменяет пакет.
// Вместе с ошибкой возвращаются образцы, которые успели загрузиться.
func (e *Editor) upload(ctx context.Context, sid record.SessionID, id string, files []NewFile) ([]record.Sample, error) {
	if len(files) == 0 {
		return nil, nil
	}

	recordKey := id
	if recordKey == "" {
		recordKey = e.newKey()
	}

	out := make([]record.Sample, len(files))
	g, gctx := errgroup.WithContext(ctx)

	for i, f := range files {
		p := fmt.Sprintf("%s/%s/%s-%s", sid, recordKey, e.newKey(), fileName(f.Name))
		g.Go(func() error {
			url, err := e.blobs.Upload(gctx, p, f.Data, f.ContentType)
			if err != nil {
				if errors.Is(err, ErrBlob) {
					return err
				}
				return fmt.Errorf("%w: upload %s: %w", ErrBlob, f.Name, err)
			}
			out[i] = record.Sample{URL: url, Path: p, Type: f.ContentType, Name: f.Name}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		done := slices.DeleteFunc(out, func(smp record.Sample) bool { return smp.Path == "" })
		e.log.Error("sample upload failed", "error", err, "uploaded", len(done))
		return done, err
	}
	return out, nil
}

// fileName оставляет от имени файла только последний сегмент
func fileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.ReplaceAll(name, "\x00", "")
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." || base == "" {
		return "file"
	}
	return base
}

func storeErr(op string, err error) error {
	if errors.Is(err, ErrStore) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

func paths(samples []record.Sample) []string {
	out := make([]string, len(samples))
	for i, s := range samples {
		out[i] = s.Path
	}
	return out
}
