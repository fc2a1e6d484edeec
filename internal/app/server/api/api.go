//анонимные сессии устройств;
//хранение записей торговых контактов и файлов образцов;
//рассылка уведомлений об изменениях всем клиентам владельца.

//GET    /api/v1/health        # Проверка (публичный)
//POST   /api/v1/sessions      # Сессия устройства (публичный)
//GET    /api/v1/records       # Список записей (auth)
//POST   /api/v1/records       # Создать запись (auth)
//GET    /api/v1/records/{id}  # Получить запись (auth)
//PUT    /api/v1/records/{id}  # Обновить запись (auth)
//DELETE /api/v1/records/{id}  # Удалить запись (auth)
//PUT    /api/v1/blobs?path=   # Загрузить файл (auth)
//DELETE /api/v1/blobs?path=   # Удалить файл (auth)
//GET    /api/v1/changes       # Websocket поток изменений (auth, заголовок или ?token=)
//GET    /files/*              # Скачать файл (публичный)
//GET    /metrics              # Prometheus

package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"

	blobAPI "lemonpunch/internal/app/server/api/http/blob"
	healthAPI "lemonpunch/internal/app/server/api/http/health"
	"lemonpunch/internal/app/server/api/http/middleware"
	"lemonpunch/internal/app/server/api/http/middleware/auth"
	"lemonpunch/internal/app/server/api/http/middleware/logger"
	"lemonpunch/internal/app/server/api/http/middleware/metrics"
	recordAPI "lemonpunch/internal/app/server/api/http/record"
	sessionAPI "lemonpunch/internal/app/server/api/http/session"
	syncAPI "lemonpunch/internal/app/server/api/http/sync"
	"lemonpunch/internal/app/server/config"
	"lemonpunch/internal/domain/blob"
	"lemonpunch/internal/domain/record"
	"lemonpunch/internal/domain/session"
	"lemonpunch/internal/domain/sync"
	"lemonpunch/internal/infrastructure/storage"
	"lemonpunch/internal/infrastructure/storage/filestore"
)

type Handlers struct {
	Health  *healthAPI.Handler
	Session *sessionAPI.Handler
	Record  *recordAPI.Handler
	Blob    *blobAPI.Handler
	Changes *syncAPI.Handler

	auth *auth.Auth
}

// Deps - инфраструктура, собранная в main
type Deps struct {
	Config  *config.Config
	Backend *storage.Backend
	Files   *filestore.FileStore
	Changes sync.Servicer
}

// New создает *chi.Mux: huma операции, websocket поток изменений, раздача файлов и метрики
func New(deps Deps, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()
	mux.Use(metrics.Middleware)

	cfg := huma.DefaultConfig("LemonPunch API", "1.0.0")
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, cfg)

	h := handlers(deps, log)
	h.Health.SetupRoutes(API)
	h.Session.SetupRoutes(API)
	h.Record.SetupRoutes(API)
	h.Blob.SetupRoutes(API)

	mux.Method(http.MethodGet, "/api/v1/changes", h.auth.HTTP(h.Changes))
	mux.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(deps.Files.DataDir()))))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func handlers(deps Deps, log *slog.Logger) *Handlers {
	cfg := deps.Config

	sessionService := session.NewService(
		deps.Backend.Sessions,
		session.NewCredentialsValidator(),
		log,
		cfg.Session.TTL,
		cfg.Session.CacheSize,
	)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(deps.Backend, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	sessionHandler := sessionAPI.NewHandler(sessionService, log, middlewares.GetAllAndClear())

	recordService := record.NewService(deps.Backend.Records, deps.Changes, log)
	middlewares.Add(authMW.Middleware(), loggerMW.Middleware())
	recordHandler := recordAPI.NewHandler(recordService, log, middlewares.GetAllAndClear())

	blobService := blob.NewService(deps.Files, cfg.Server.PublicURL, cfg.Blob.MaxSize, log)
	middlewares.Add(authMW.Middleware(), loggerMW.Middleware())
	blobHandler := blobAPI.NewHandler(blobService, cfg.Blob.MaxSize, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:  healthHandler,
		Session: sessionHandler,
		Record:  recordHandler,
		Blob:    blobHandler,
		Changes: syncAPI.NewHandler(deps.Changes, log),
		auth:    authMW,
	}
}
