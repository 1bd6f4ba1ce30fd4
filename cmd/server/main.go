package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/student-records/internal/config"
	"github.com/stemsi/student-records/internal/database"
	"github.com/stemsi/student-records/internal/handler"
	"github.com/stemsi/student-records/internal/logger"
	"github.com/stemsi/student-records/internal/middleware"
	"github.com/stemsi/student-records/internal/repository"
	"github.com/stemsi/student-records/internal/router"
	"github.com/stemsi/student-records/internal/service"
	"github.com/stemsi/student-records/internal/session"
	"github.com/stemsi/student-records/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Str("sessions", cfg.SessionStore).
		Msg("Starting Student Records")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// ─── Connect Student Store ─────────────────────────────────────────
	studentRepo, closeStore, err := repository.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not connect to database")
	}
	defer closeStore()

	// ─── Connect Redis (sessions) ──────────────────────────────────────
	var rdb *redis.Client
	if cfg.SessionStore == config.SessionRedis {
		rdb, err = database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
	}
	flash := session.NewFlash(session.NewStore(cfg, rdb), log)

	// ─── Initialize Services & Handlers ────────────────────────────────
	studentService := service.NewStudentService(studentRepo, log)

	handlers := &router.Handlers{
		Home:    handler.NewHomeHandler(studentService, flash, log),
		Student: handler.NewStudentHandler(studentService, flash, log),
		System:  handler.NewSystemHandler(cfg),
	}

	limiter := middleware.NewRateLimiter(cfg.WriteRateLimit, time.Minute)
	limiterDone := make(chan struct{})
	go limiter.Run(limiterDone)

	// ─── Setup Router ──────────────────────────────────────────────────
	r, err := router.SetupRouter(handlers, cfg, limiter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
	close(limiterDone)

	log.Info().Msg("Shutdown complete")
}
