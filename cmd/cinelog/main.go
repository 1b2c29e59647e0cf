package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/database"
	"github.com/cinelog/cinelog/internal/logger"
	"github.com/cinelog/cinelog/internal/server"
	"github.com/cinelog/cinelog/internal/storage"
)

func main() {
	cfg := config.Load()

	if err := database.Initialize(&cfg.Database); err != nil {
		logger.Error("failed to initialize database", logger.Err(err))
		os.Exit(1)
	}
	db := database.GetDB()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	posters, err := storage.NewPosterStore(ctx, &cfg.Storage)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			logger.Warn("poster storage not configured, poster uploads disabled")
		} else {
			logger.Error("failed to initialize poster storage", logger.Err(err))
			os.Exit(1)
		}
	}

	r := server.SetupRouter(cfg, db, posters)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down gracefully")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", logger.Err(err))
		}
		cancel()
	}()

	logger.Info("starting cinelog server",
		logger.String("addr", srv.Addr),
		logger.String("database", cfg.Database.Type),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("failed to start server", logger.Err(err))
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server shutdown complete")
}
