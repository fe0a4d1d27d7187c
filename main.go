package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dankdeals/dankdeals-backend-go/config"
	"github.com/dankdeals/dankdeals-backend-go/database"
	"github.com/dankdeals/dankdeals-backend-go/handlers"
	"github.com/dankdeals/dankdeals-backend-go/notify"
	"github.com/dankdeals/dankdeals-backend-go/routes"
	"github.com/dankdeals/dankdeals-backend-go/storage"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	logger := newLogger(cfg.Server.AppEnv)
	defer logger.Sync()

	if err := database.ConnectDB(&cfg.Postgres); err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("connected to postgres", zap.String("host", cfg.Postgres.Host))

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	publisher := notify.NewPublisher(cfg.Kafka, logger)
	defer publisher.Close()

	smsClient := notify.NewSMSClient(cfg.Twilio)
	emailClient := notify.NewEmailClient(cfg.Resend)
	store := storage.NewClient(cfg.Storage)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := notify.NewWorker(cfg.Kafka, smsClient, emailClient, logger)
	defer worker.Close()
	go worker.Start(ctx)

	handlers.Init(cfg, logger, publisher, smsClient, store, rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	routes.SetupRoutes(e)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.Server.Port))

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

func newLogger(appEnv string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if appEnv == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
