package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/zjoart/instantpay-wallet/cmd/routes"
	"github.com/zjoart/instantpay-wallet/internal/app"
	"github.com/zjoart/instantpay-wallet/internal/notification"
	"github.com/zjoart/instantpay-wallet/internal/store"
	"github.com/zjoart/instantpay-wallet/pkg/config"
	"github.com/zjoart/instantpay-wallet/pkg/database"
	"github.com/zjoart/instantpay-wallet/pkg/events"
	"github.com/zjoart/instantpay-wallet/pkg/logger"
)

func main() {
	defer logger.Sync()

	cfg := config.LoadConfig()

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn("Ignoring LOG_LEVEL", logger.WithError(err))
	}

	db, err := database.Connect(cfg.DBUrl, cfg.DBLogMode)
	if err != nil {
		logger.Fatal("Could not connect to database", logger.WithError(err))
	}
	defer database.Close(db)

	if err := store.Migrate(db); err != nil {
		logger.Fatal("Could not migrate database", logger.WithError(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedDemo {
		if _, err := store.SeedDemo(ctx, db, cfg); err != nil {
			logger.Fatal("Could not seed demo user", logger.WithError(err))
		}
	}

	// a nil *RedisClient must not reach the sink as a non-nil interface
	var publisher notification.Publisher
	redisClient := events.NewRedisClient(cfg)
	if redisClient != nil {
		defer redisClient.Close()
		publisher = redisClient

		worker := notification.NewPushWorker(redisClient, notification.LogPusher{})
		worker.Start(ctx)
	}

	a := app.New(cfg, db, publisher)

	r := mux.NewRouter()
	handler := routes.RegisterRoutes(ctx, r, a)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("Server starting", logger.Fields{"port": cfg.Port, "env": cfg.Env})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Could not listen", logger.Fields{"port": cfg.Port, "error": err.Error()})
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", logger.WithError(err))
	}
	logger.Info("Server gracefully shut down")
}
