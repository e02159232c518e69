package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edatlas/edatlas/internal/api"
	"github.com/edatlas/edatlas/internal/config"
	"github.com/edatlas/edatlas/internal/db"
	"github.com/edatlas/edatlas/internal/logger"
	"github.com/edatlas/edatlas/internal/reminder"
	"github.com/edatlas/edatlas/internal/repository"
	"github.com/edatlas/edatlas/internal/repository/memory"
	"github.com/edatlas/edatlas/internal/repository/redis"
	"github.com/edatlas/edatlas/internal/repository/sqlite"
	"github.com/edatlas/edatlas/internal/services"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("EdAtlas Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("storage_driver=%s", cfg.StorageDriver)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("storage_key=%s", cfg.StorageKey)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("reminder_interval=%v", cfg.ReminderInterval())
	log.Debug("cors_allowed_origins=%v", cfg.CORSAllowedOrigins)

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), log))
	defer cancel()

	kv, err := openStorage(ctx, cfg)
	if err != nil {
		log.Error("failed to open storage: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing storage")
		if err := kv.Close(); err != nil {
			log.Warn("failed to close storage: %v", err)
		}
	}()

	repo := repository.NewMistakeRepository(kv, cfg.StorageKey)
	store, err := services.NewMistakeStore(ctx, repo)
	if err != nil {
		log.Error("failed to load mistakes: %v", err)
		os.Exit(1)
	}

	reminders := reminder.NewScheduler(store, cfg.ReminderInterval(), log)
	reminders.Start()

	srv := &api.Server{
		Store:          store,
		Storage:        kv,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		log.Info("received signal %v, initiating graceful shutdown", sig)
	case err := <-serveErr:
		log.Error("HTTP server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping reminder scheduler")
	reminders.Stop()

	if err := store.Flush(logger.NewContext(shutdownCtx, log)); err != nil {
		log.Error("failed to flush pending mistakes: %v", err)
	}

	log.Info("===========================================")
	log.Info("EdAtlas Server Stopped")
	log.Info("===========================================")
}

// openStorage connects the key-value backend selected by STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg config.Config) (repository.KeyValueStore, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		database, err := db.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return sqlite.NewKeyValueStore(database.DB), nil
	case config.DriverRedis:
		return redis.Open(ctx, cfg.RedisURL)
	case config.DriverMemory:
		logger.FromContext(ctx).Warn("memory storage selected, mistakes will not survive a restart")
		return memory.NewKeyValueStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
