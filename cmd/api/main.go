package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"milestone-api/core"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := core.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, logCloser, err := core.SetupLogging(cfg, "api.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("server failed", "error", err)
	}
	logCloser.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg core.Config, logger *slog.Logger) error {
	db, err := core.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := core.Migrate(ctx, db, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	userRepo := core.NewPgUserRepository(db)
	taskRepo := core.NewPgTaskRepository(db)

	var permissions core.PermissionLoader = core.NewPgPermissionStore(db)
	deps := core.RouterDeps{
		Logger: logger,
		Users:  userRepo,
		Tasks:  taskRepo,
		DB:     db,
	}
	if cfg.RedisURL != "" {
		redisClient, err := core.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		deps.Redis = redisClient
		if cfg.PermissionCacheEnabled() {
			permissions = core.NewRedisPermissionCache(redisClient, permissions, cfg.PermissionCacheTTL(), logger)
			logger.Info("permission cache enabled", "ttl", cfg.PermissionCacheTTL())
		}
	}

	strategy, err := core.NewStrategy(cfg, userRepo, permissions)
	if err != nil {
		return err
	}
	deps.Strategy = strategy

	if err := core.BootstrapAdmin(ctx, userRepo, cfg, logger); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           core.NewRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting api server", "addr", srv.Addr, "auth_strategy", strategy.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
