package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/config"
	"github.com/rubiane-edu/finedu-web/internal/service"
	"github.com/rubiane-edu/finedu-web/internal/session"
	"github.com/rubiane-edu/finedu-web/internal/web"
	"github.com/rubiane-edu/finedu-web/pkg/logger"
)

func main() {
	// A missing .env is fine, the environment wins either way
	envErr := godotenv.Load()

	// Initialize logger
	log := logger.New("finedu-web")
	log.Info().Msg("Starting finedu web server...")
	if envErr != nil && !os.IsNotExist(envErr) {
		log.Warn().Err(envErr).Msg("Failed to read .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Backend client and cookie sessions
	client := backend.New(cfg.Backend, log)
	store := session.NewStore(cfg.Session)

	// Initialize services
	services := service.NewServices(cfg, log)

	// Initialize router
	router := web.NewRouter(services, client, store, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("backend", cfg.Backend.BaseURL).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
