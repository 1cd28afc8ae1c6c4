package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"turnario/backend/config"
	"turnario/backend/internal/api/handler"
	"turnario/backend/internal/api/router"
	"turnario/backend/internal/repository"
	"turnario/backend/internal/service"
	"turnario/backend/pkg/database"
	"turnario/backend/pkg/jwt"
	"turnario/backend/pkg/logger"
	"turnario/backend/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.NewDB(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLogger.Fatal("getting sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, zapLogger); err != nil {
		zapLogger.Fatal("running migrations", zap.Error(err))
	}

	rdb, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		zapLogger.Warn("redis unavailable, run markers degrade to database probing", zap.Error(err))
		rdb = nil
	}
	defer rdb.Close()

	repo := repository.New(db)
	svc := service.New(repo, rdb, cfg, zapLogger)

	scheduler := service.NewScheduler(svc.Reconciliation, &cfg.Recon, zapLogger)
	scheduler.Start()

	jwtManager := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	h := handler.New(svc, zapLogger)
	engine := router.New(h, jwtManager, cfg, zapLogger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		zapLogger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("shutting down")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}

	zapLogger.Info("bye")
}
