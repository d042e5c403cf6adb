package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	docs "main/docs"
	appaccounts "main/internal/application/service/accounts"
	appdemo "main/internal/application/service/demo"
	appsnapshots "main/internal/application/service/snapshots"
	apptransactions "main/internal/application/service/transactions"
	"main/internal/config"
	infraaccounts "main/internal/infrastructure/accounts"
	infrasnapshots "main/internal/infrastructure/snapshots"
	infratransactions "main/internal/infrastructure/transactions"
	infrahttp "main/internal/interfaces/http"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()

	accountRepo, err := infraaccounts.NewRepository(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatalf("failed to init accounts repo: %v", err)
	}
	defer accountRepo.Close()

	transactionRepo, err := infratransactions.NewRepository(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatalf("failed to init transactions repo: %v", err)
	}
	defer transactionRepo.Close()

	snapshotRepo, err := infrasnapshots.NewRepository(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatalf("failed to init snapshots repo: %v", err)
	}
	defer snapshotRepo.Close()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	accountService := appaccounts.NewService(accountRepo, transactionRepo)
	transactionService := apptransactions.NewService(transactionRepo, accountRepo, logger)
	snapshotService := appsnapshots.NewService(snapshotRepo, accountRepo, transactionRepo)
	demoService := appdemo.NewService(accountRepo, transactionRepo, snapshotRepo, logger)

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	handler := infrahttp.NewHandler(accountService, transactionService, snapshotService, demoService, redisClient, cacheTTL)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: handler,
	}

	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown error: %v", err)
	}
	logger.Info("server stopped")
}
