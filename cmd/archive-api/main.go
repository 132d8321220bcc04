package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-archive-api/internal/app"
	"github.com/noah-isme/edu-archive-api/pkg/cache"
	"github.com/noah-isme/edu-archive-api/pkg/config"
	"github.com/noah-isme/edu-archive-api/pkg/database"
	"github.com/noah-isme/edu-archive-api/pkg/logger"
	"github.com/noah-isme/edu-archive-api/pkg/storage"
)

// @title Edu Archive API
// @version 1.0.0
// @description Course, subject, note and question paper archive with a single administrator.
// @BasePath /
// @schemes http

const staleUploadTTL = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	rdb, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	store, err := storage.NewLocalStorage(cfg.Uploads.Dir, cfg.Uploads.MaxFileSizeBytes)
	if err != nil {
		return err
	}
	if removed, err := store.CleanupStaleUploads(staleUploadTTL); err != nil {
		logr.Warn("stale upload cleanup failed", zap.Error(err))
	} else if len(removed) > 0 {
		logr.Info("removed stale uploads", zap.Int("count", len(removed)))
	}

	application := app.New(app.Dependencies{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Store:  store,
		Logger: logr,
	})

	generated, created, err := application.Auth.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.BootstrapPassword)
	if err != nil {
		return err
	}
	if created && generated != "" {
		// Shown once on stdout, never written to the log.
		fmt.Printf("admin account %q created with password: %s\n", cfg.Admin.Username, generated)
	}

	application.Start(ctx)
	defer application.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
