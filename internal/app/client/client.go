package client

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/exp/slog"

	"lemonpunch/internal/app/client/cache"
	"lemonpunch/internal/app/client/config"
	"lemonpunch/internal/app/client/crypto"
	"lemonpunch/internal/domain/record"
)

// App связывает сессию устройства, удаленное хранилище, кэш и модель представления
type App struct {
	config  *config.Config
	log     *slog.Logger
	device  *crypto.Device
	http    *httpClient
	session *DeviceSession
	store   *RemoteStore
	blobs   *RemoteBlobs
	cache   *cache.Cache
	view    *cache.View
	syncer  *Syncer
	editor  *Editor
}

// New собирает клиента для уже инициализированного устройства
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	device, err := crypto.LoadDevice(cfg.DevicePath)
	if err != nil {
		if errors.Is(err, crypto.ErrDeviceNotInitialized) {
			return nil, fmt.Errorf("%w: выполните lemonpunch init", err)
		}
		return nil, err
	}
	return newApp(cfg, log, device), nil
}

// Init создает учетные данные устройства (force - пересоздает) и собирает клиента.
// created == true, если устройство новое.
func Init(cfg *config.Config, log *slog.Logger, force bool) (app *App, created bool, err error) {
	if force {
		if err := crypto.RemoveDevice(cfg.DevicePath); err != nil {
			return nil, false, err
		}
	}

	device, created, err := crypto.LoadOrCreateDevice(cfg.DevicePath)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка инициализации устройства: %w", err)
	}
	return newApp(cfg, log, device), created, nil
}

func newApp(cfg *config.Config, log *slog.Logger, device *crypto.Device) *App {
	h := NewHTTPClient(cfg, log)
	session := NewDeviceSession(h, device, log)
	store := NewRemoteStore(h, log)
	blobs := NewRemoteBlobs(h)
	c := cache.New()

	return &App{
		config:  cfg,
		log:     log,
		device:  device,
		http:    h,
		session: session,
		store:   store,
		blobs:   blobs,
		cache:   c,
		view:    cache.NewView(c),
		syncer:  NewSyncer(session, store, c, NewStoreSeeder(store), log),
		editor:  NewEditor(session, store, blobs, c, log),
	}
}

// SessionInfo - сведения о текущей сессии для вывода пользователю
type SessionInfo struct {
	DeviceID  string           `json:"device_id"`
	SessionID record.SessionID `json:"session_id"`
	Resumed   bool             `json:"resumed"`
	Server    string           `json:"server"`
}

// Session устанавливает сессию устройства
func (a *App) Session(ctx context.Context) (*SessionInfo, error) {
	sid, err := a.session.SessionReady(ctx)
	if err != nil {
		return nil, err
	}
	return &SessionInfo{
		DeviceID:  a.device.ID,
		SessionID: sid,
		Resumed:   a.session.Resumed(),
		Server:    a.config.BaseURL(),
	}, nil
}

// CheckConnection проверяет соединение с сервером
func (a *App) CheckConnection(ctx context.Context) error {
	return a.http.HealthCheck(ctx)
}

// Load выполняет полное чтение записей в кэш
func (a *App) Load(ctx context.Context) error {
	return a.syncer.Refresh(ctx)
}

func (a *App) View() *cache.View {
	return a.view
}

// Rows возвращает текущую проекцию для запроса и сортировки
func (a *App) Rows(query string, key cache.SortKey) []record.Record {
	a.view.SetQuery(query)
	a.view.SetSort(key)
	return a.view.Rows()
}

// Get читает запись с сервера, минуя кэш
func (a *App) Get(ctx context.Context, id string) (*record.Record, error) {
	if _, err := a.session.SessionReady(ctx); err != nil {
		return nil, err
	}
	return a.store.Get(ctx, id)
}

// Find ищет запись в кэше; кэш должен быть загружен через Load
func (a *App) Find(id string) (record.Record, bool) {
	return a.cache.Find(id)
}

// Create сохраняет новую запись с файлами образцов
func (a *App) Create(ctx context.Context, fields record.Fields, files []string) (string, error) {
	draft := &Draft{}
	if err := addFiles(draft, files); err != nil {
		return "", err
	}
	return a.editor.Save(ctx, draft, "", fields)
}

// Update перечитывает кэш и сохраняет изменения записи id
func (a *App) Update(ctx context.Context, id string, patch func(*record.Fields), files, removeSamples []string) error {
	if err := a.syncer.Reload(ctx); err != nil {
		return err
	}
	current, ok := a.cache.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	fields := current.Fields()
	if patch != nil {
		patch(&fields)
	}

	draft := &Draft{}
	if err := addFiles(draft, files); err != nil {
		return err
	}
	for _, p := range removeSamples {
		draft.MarkForDeletion(p)
	}

	_, err := a.editor.Save(ctx, draft, id, fields)
	return err
}

// Delete удаляет запись вместе с файлами образцов
func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.syncer.Reload(ctx); err != nil {
		return err
	}
	return a.editor.Delete(ctx, id)
}

// Watch синхронизирует кэш до отмены ctx и вызывает render после каждого перечитывания
func (a *App) Watch(ctx context.Context, render func(rows []record.Record, upd SyncUpdate)) error {
	a.syncer.OnUpdate(func(upd SyncUpdate) {
		render(a.view.Rows(), upd)
	})
	defer a.syncer.OnUpdate(nil)

	err := a.syncer.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func addFiles(draft *Draft, files []string) error {
	for _, p := range files {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("ошибка чтения файла %s: %w", p, err)
		}
		draft.AddFile(NewFile{
			Name:        filepath.Base(p),
			ContentType: contentType(p, data),
			Data:        data,
		})
	}
	return nil
}

// contentType: по расширению, иначе по содержимому
func contentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
