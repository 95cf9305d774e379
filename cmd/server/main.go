package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"jobboard/docs" // swagger docs
	"jobboard/internal/auth"
	"jobboard/internal/cache"
	"jobboard/internal/config"
	"jobboard/internal/db"
	"jobboard/internal/handler"
	"jobboard/internal/logging"
	"jobboard/internal/policy"
	"jobboard/internal/repository"
	"jobboard/internal/router"
	"jobboard/internal/service"
)

// @title Job Board API
// @version 1.0
// @description Job board API: employers post listings, students apply, employers review applicants. JWT bearer authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.AppEnv, os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if cacheClient == nil {
		logger.Info("REDIS_ADDR not set, caching disabled")
	} else if err := cacheClient.Ping(context.Background()); err != nil {
		logger.Warn("redis unreachable, serving without cache", "addr", cfg.RedisAddr, "error", err)
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB set, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
		// Cached users and jobs would outlive the dropped rows.
		if err := cacheClient.Flush(context.Background(), cache.UserPrefix, cache.JobPrefix); err != nil {
			return fmt.Errorf("flush cache after reset: %w", err)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	jobRepo := repository.NewJobRepository(gormDB)
	applicationRepo := repository.NewApplicationRepository(gormDB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	userService := service.NewUserService(userRepo, cacheClient, cfg.CacheTTL)
	authService := service.NewAuthService(userRepo, userService, jwtService, cfg.BcryptCost)
	jobService := service.NewJobService(jobRepo, cacheClient, cfg.CacheTTL)
	applicationService := service.NewApplicationService(applicationRepo, jobService)

	authorizer, err := policy.NewAuthorizer(policy.Rules, map[policy.Resource]policy.OwnerResolver{
		policy.ResourceJob:         jobService.OwnerOf,
		policy.ResourceApplication: applicationService.OwnerOf,
	})
	if err != nil {
		return err
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	err = router.Register(e, cfg, router.Dependencies{
		Logger:             logger,
		AuthService:        authService,
		Authorizer:         authorizer,
		AuthHandler:        handler.NewAuthHandler(authService),
		UserHandler:        handler.NewUserHandler(),
		JobHandler:         handler.NewJobHandler(jobService),
		ApplicationHandler: handler.NewApplicationHandler(applicationService),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"addr", srv.Addr,
			"env", cfg.AppEnv,
			"db", cfg.DBDriver,
			"swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html",
		)
		errCh <- e.StartServer(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
