package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mori5600/yarukoto/internal/audit"
	"github.com/mori5600/yarukoto/internal/cache"
	"github.com/mori5600/yarukoto/internal/config"
	"github.com/mori5600/yarukoto/internal/controller"
	"github.com/mori5600/yarukoto/internal/database"
	"github.com/mori5600/yarukoto/internal/render"
	"github.com/mori5600/yarukoto/internal/repository"
	"github.com/mori5600/yarukoto/internal/routes"
	"github.com/mori5600/yarukoto/internal/service"
	"github.com/mori5600/yarukoto/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Get()

	db, err := database.Open(ctx)
	if err != nil {
		logger.Error(ctx, "Database not available", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db); err != nil {
		logger.Error(ctx, "Schema setup failed", "error", err)
		os.Exit(1)
	}

	redisClient := cache.Connect(ctx)

	publisher := audit.NewPublisher(ctx)
	defer publisher.Close()
	audit.EnsureTopic(ctx)

	repo := repository.NewTaskRepository(db)
	counts := cache.NewCompletedTodayCache(redisClient, time.Duration(cfg.CacheTTL)*time.Second, repo.CountCompletedToday)
	svc := service.NewTaskService(repo, cfg.MaxTasksPerOwner, publisher, counts)

	renderer, err := render.New()
	if err != nil {
		logger.Error(ctx, "Template parse failed", "error", err)
		os.Exit(1)
	}

	ready := func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
	ctrl := controller.NewTaskController(repo, svc, renderer, counts, cfg.PageSize, ready)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      routes.Router(ctrl),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server shutdown error", "error", err)
	}
	logger.Info(ctx, "Server stopped")
}
