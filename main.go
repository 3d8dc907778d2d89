package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/okravets/calendar-be/internal/api"
	"github.com/okravets/calendar-be/internal/auth"
	"github.com/okravets/calendar-be/internal/config"
	"github.com/okravets/calendar-be/internal/database"
	"github.com/okravets/calendar-be/internal/logger"
	"github.com/okravets/calendar-be/internal/reminder"
	"github.com/okravets/calendar-be/internal/services"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database migrations")
	}

	// Set up services
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db)
	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authMw := auth.NewMiddleware(tokenService, userService)

	// Set up and run the background reminder scanner
	scanner, err := reminder.NewScanner(eventService, cfg.ReminderCron)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize reminder scanner")
	}
	go scanner.Run()

	// Set up router
	router := api.NewRouter(cfg.CORSOrigin, authMw, tokenService, userService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	scanner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}
