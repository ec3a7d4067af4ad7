package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Noah-Bakr/Teach-Team-sub001/config"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/api/handler"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/api/router"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/lookup"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/repository"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/review"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/seed"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/service"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/database"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/events"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/jwt"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/kv"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/redis"
)

func runServe(_ *cobra.Command, _ []string) error {
	// 1. config + logger
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting teachteam",
		zap.Int("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. database + migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer sqlDB.Close()
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return err
	}

	// 3. snapshot store (+ redis for rate limiting)
	store, rdb, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores(store, rdb, logger)

	// 4. repositories, lookup directory, review workflow
	repo := repository.NewRepository(db, store)

	directory := lookup.NewDirectory(ctx, repo, logger)
	if cfg.Lookup.RefreshOnStart {
		directory.StartBackground(ctx, cfg.Lookup.RefreshTimeout)
	}

	applicants := review.NewStore(ctx, repo.Snapshots.Applicants, seed.Applicants, logger)
	workflow := review.NewWorkflow(applicants)

	// 5. review events
	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	// 6. Service → Handler → Router
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(cfg, repo, jwtMgr, directory, workflow, publisher, logger)
	h := handler.NewHandler(svc, cfg.Server.CORS.AllowOrigins, logger)

	engine, err := router.Setup(cfg, h, jwtMgr, rdb, logger)
	if err != nil {
		return err
	}

	// 7. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	srv.RegisterOnShutdown(h.Applicant.CloseStreams)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
	return nil
}

func newPublisher(cfg *config.Config, logger *zap.Logger) events.Publisher {
	if !cfg.Events.Enabled {
		return events.Nop{}
	}
	p, err := events.NewAMQP(cfg.Events.AMQPURL, cfg.Events.Queue, logger)
	if err != nil {
		logger.Warn("rabbitmq unavailable, review events are not published", zap.Error(err))
		return events.Nop{}
	}
	return p
}

// closeStores closes the snapshot store and, when it is a separate
// connection, the rate-limit redis client.
func closeStores(store kv.Store, rdb *redis.Client, logger *zap.Logger) {
	if err := store.Close(); err != nil {
		logger.Warn("close snapshot store", zap.Error(err))
	}
	if rdb != nil && kv.Store(rdb) != store {
		if err := rdb.Close(); err != nil {
			logger.Warn("close redis", zap.Error(err))
		}
	}
}
