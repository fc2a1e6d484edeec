package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"lemonpunch/internal/app/server/api"
	"lemonpunch/internal/app/server/config"
	"lemonpunch/internal/domain/sync"
	"lemonpunch/internal/infrastructure/storage"
	"lemonpunch/internal/infrastructure/storage/filestore"
	"lemonpunch/internal/utils/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	files, err := filestore.New(cfg.Blob.Dir)
	if err != nil {
		return err
	}

	changes := sync.NewService(sync.NewHub(), backend.Broker, log)

	srv := &http.Server{
		Addr: cfg.Server.RunAddress,
		Handler: api.New(api.Deps{
			Config:  cfg,
			Backend: backend,
			Files:   files,
			Changes: changes,
		}, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return changes.Run(gctx)
	})

	g.Go(func() error {
		log.Info("starting server", "address", cfg.Server.RunAddress, "env", cfg.Env, "driver", cfg.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
