package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/cache"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/config"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/handlers"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/middleware"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories/postgres"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/services"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/utils"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/validator"
	"github.com/himanshudube97/Assessment-builder-sub000/pkg"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewLogger("development").Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger) error {
	ctx := context.Background()

	db, err := pkg.InitDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := postgres.AutoMigrate(db); err != nil {
		return err
	}

	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	publisher, err := cfg.Events.CreateEventPublisher(logger.Slog())
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	var runOpts []services.RunServiceOption
	if !cfg.IsProduction() {
		runOpts = append(runOpts, services.WithDebugLogging())
	}
	serviceManager := services.NewServiceManager(services.ServiceDeps{
		Repo:              postgres.NewRepository(db),
		Runs:              cache.NewRunStore(redisClient, cache.WithRunTTL(cfg.RunTTL)),
		Cache:             cache.NewRedisCache(redisClient, logger.Slog()),
		Publisher:         publisher,
		Validator:         validator.New(),
		Logger:            logger.Slog(),
		AnalyticsCacheTTL: cfg.AnalyticsCacheTTL,
	}, runOpts...)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestLogger(logger))

	auth := middleware.Auth(middleware.NewCasdoorParser(cfg.Auth), logger)
	if !cfg.Auth.Enabled() {
		logger.Warn("Authentication disabled, authoring routes are open")
	}
	handlers.NewHandlerManager(serviceManager, logger).SetupRoutes(router, auth)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", srv.Addr, "environment", cfg.Environment)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case sig := <-shutdown:
		logger.Info("Shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		logger.Info("Server stopped")
	}

	return nil
}
