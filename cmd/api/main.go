package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tinyhearts/records-service/internal/clinic"
	"github.com/tinyhearts/records-service/internal/db"
	internalhttp "github.com/tinyhearts/records-service/internal/http"
	"github.com/tinyhearts/records-service/internal/messaging"
	"github.com/tinyhearts/records-service/internal/report"
	"github.com/tinyhearts/records-service/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().Msg("Starting records-service")

	ctx := context.Background()

	telemetryProvider, err := telemetry.InitProvider(ctx, telemetry.LoadConfig())
	if err != nil {
		log.Warn().Err(err).Msg("Telemetry disabled, continuing without it")
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	conn, err := db.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	publisher, err := messaging.NewPublisher()
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ unavailable, events will not be published")
		publisher = nil
	}

	clinics, err := clinic.Load(os.Getenv("CLINIC_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load clinic configuration")
	}

	webDir := os.Getenv("WEB_DIR")
	if webDir == "" {
		webDir = "./web"
	}
	assets := report.LoadAssets(webDir)
	renderer := report.NewChromeRenderer(os.Getenv("CHROME_PATH"))

	router := internalhttp.SetupRouter(conn, clinics, publisher, renderer, assets, metrics, webDir)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close RabbitMQ publisher")
		}
	}

	if telemetryProvider != nil {
		if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down telemetry")
		}
	}

	log.Info().Msg("Server stopped")
}
