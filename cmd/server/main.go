package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zihao-lin/photoframe/internal/pkg/logger"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger.InitBootstrap()

	app, err := initializeApplication()
	if err != nil {
		logger.L().Fatal("failed to initialize application", zap.Error(err))
	}

	if err := logger.Init(logger.OptionsFromConfig(app.Config.Log)); err != nil {
		logger.L().Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync()

	if err := app.Scheduler.Start(); err != nil {
		logger.L().Fatal("failed to start refresh scheduler", zap.Error(err))
	}

	go func() {
		logger.L().Info("server listening", zap.String("addr", app.Server.Addr))
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.L().Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Server.Shutdown(ctx); err != nil {
		logger.L().Error("server shutdown failed", zap.Error(err))
	}

	app.Cleanup()
	logger.L().Info("server stopped")
}
