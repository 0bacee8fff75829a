package main

// @title           Book Catalog API
// @version         1.0
// @description     API for managing books, authors, genres, reviews and users.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookcatalog/internal/auth"
	"github.com/snnyvrz/bookcatalog/internal/config"
	"github.com/snnyvrz/bookcatalog/internal/db"
	docs "github.com/snnyvrz/bookcatalog/internal/docs"
	"github.com/snnyvrz/bookcatalog/internal/handler"
	"github.com/snnyvrz/bookcatalog/internal/logging"
	"github.com/snnyvrz/bookcatalog/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

const (
	appVersion      = "0.1.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	startTime := time.Now()

	cfg := config.Load()

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}

	if err := db.Migrate(database); err != nil {
		return err
	}

	if cfg.SeedOnStart {
		if err := db.Seed(ctx, database); err != nil {
			return err
		}
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	e := newRouter(cfg, logger, database, tokens, limiter, startTime)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", srv.Addr, "version", appVersion, "driver", cfg.DBDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func newRouter(
	cfg *config.Config,
	logger *slog.Logger,
	database *gorm.DB,
	tokens *auth.Issuer,
	limiter *middleware.RateLimiter,
	startTime time.Time,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	e := gin.New()
	e.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(logger),
	)

	e.SetTrustedProxies([]string{
		"127.0.0.1",
		"::1",
	})

	docs.SwaggerInfo.BasePath = "/api"

	healthHandler := handler.NewHealthHandler(func(ctx context.Context) error {
		return db.Ping(ctx, database)
	}, startTime, appVersion)
	healthHandler.RegisterRoutes(e)

	api := e.Group("/api", limiter.Middleware())
	handler.RegisterAPI(api, handler.NewServices(database, tokens))

	e.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return e
}
