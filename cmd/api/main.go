package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/abplan/abplan-backend/config"
	"github.com/abplan/abplan-backend/internal/auth"
	"github.com/abplan/abplan-backend/internal/bootstrap"
	"github.com/abplan/abplan-backend/internal/logging"
	"github.com/abplan/abplan-backend/internal/storage/postgres"
)

const serviceName = "abplan-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.App.LogLevel, cfg.App.LogFormat, serviceName)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("failed to open sql connection", zap.Error(err))
	}
	defer sqlDB.Close()

	deps := bootstrap.RouterDeps{
		ServiceName: serviceName,
		Config:      cfg,
		Pool:        pool,
		SQL:         sqlDB,
		Logger:      logger,
	}

	redisClient, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, verdict cache disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		deps.Redis = redisClient
	}

	if auth.Enabled(&cfg.Auth) {
		client, err := auth.InitializeFirebase(ctx, &cfg.Auth)
		if err != nil {
			logger.Fatal("failed to initialize firebase", zap.Error(err))
		}
		deps.Verifier = client
	} else {
		logger.Warn("firebase credentials not set, requests use X-User-Id")
	}

	sessionCtx, cancelSessions := context.WithCancel(context.Background())
	defer cancelSessions()

	rt := bootstrap.BuildRouter(sessionCtx, deps)

	evictor, err := rt.Sessions.StartEviction(cfg.Session.EvictSchedule)
	if err != nil {
		logger.Fatal("failed to schedule session eviction", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           rt.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	<-evictor.Stop().Done()

	if err := rt.Sessions.Close(shutdownCtx); err != nil {
		logger.Error("pending session writes were not saved", zap.Error(err))
	}
	logger.Info("server stopped")
}
