package main

import (
	"context"
	"itinera/config"
	"itinera/di"
	"itinera/helper"
	"itinera/shared/logger"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const traceFlushTimeout = 5 * time.Second

// @title Itinera API
// @version 1.0
// @description Merges travel bookings into trip itineraries.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey APIKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Migrate(cfg, helper.MigrationUp); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := di.InitializeService()

	var wg sync.WaitGroup

	if cfg.Kafka.Enable {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := app.Consumer.Run(ctx); err != nil {
				log.Error().Err(err).Msg("Booking consumer stopped")
			}
		}()
	}

	if err := app.HTTP.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server stopped")
	}

	stop()
	wg.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), traceFlushTimeout)
	defer cancel()

	if err := app.Otel.Shutdown(flushCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}
}
