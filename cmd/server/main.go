package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/unireg/registrar/internal/config"
	"github.com/unireg/registrar/internal/database"
	"github.com/unireg/registrar/internal/events"
	"github.com/unireg/registrar/internal/handler"
	"github.com/unireg/registrar/internal/logger"
	"github.com/unireg/registrar/internal/metrics"
	"github.com/unireg/registrar/internal/repository"
	"github.com/unireg/registrar/internal/response"
	"github.com/unireg/registrar/internal/router"
	"github.com/unireg/registrar/internal/service"
	"github.com/unireg/registrar/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("Invalid configuration")
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Bool("strict_status", cfg.StrictStatus).
		Msg("Starting registrar")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis (optional) ───────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	var publisher service.EventPublisher = events.Nop{}
	if rdb != nil {
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb, log)
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	catalogRepo := repository.NewCatalogRepository(pool)
	registrationRepo := repository.NewRegistrationRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	catalogService := service.NewCatalogService(catalogRepo, registrationRepo)
	registrationService := service.NewRegistrationService(registrationRepo, publisher, cfg.DefaultSemester, log)
	reportService := service.NewReportService(reportRepo, cfg.SpotlightInstructorID)

	// ─── Initialize Handlers ──────────────────────────────────────────
	resp := response.NewResponder(cfg.StrictStatus)
	m := metrics.New()

	handlers := &router.Handlers{
		Catalog:      handler.NewCatalogHandler(catalogService, resp),
		Registration: handler.NewRegistrationHandler(registrationService, resp, m),
		Report:       handler.NewReportHandler(reportService, resp),
		Health:       handler.NewHealthHandler(pool, nil),
		Metrics:      m.Handler(),
	}
	if rdb != nil {
		handlers.Feed = handler.NewFeedHandler(rdb, resp, log, cfg.Origins())
		handlers.Health = handler.NewHealthHandler(pool, handler.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}))
	}

	deps := router.Deps{Responder: resp, Observer: m, Log: log}
	if cfg.StaffAuthEnabled() {
		deps.Tokens = service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	} else {
		log.Warn().Msg("JWT_SECRET not set, staff routes are open")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, handlers, deps, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Stops the rate limiter cleanup; websocket feeds end with their connections.
	cancel()

	log.Info().Msg("Shutdown complete")
}
