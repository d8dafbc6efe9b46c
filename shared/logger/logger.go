package logger

import (
	"itinera/config"
	"itinera/shared/constant"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.TraceLevel

// InitLogger installs a human readable console logger. Configure replaces it once the
// configuration is known.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(defaultLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// ErrorWithStack logs err with the stack of the caller attached.
func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// Configure applies SERVER_LOG_LEVEL and, in production, switches to JSON lines tagged with
// the service name and environment.
func Configure(cfg *config.Config) {
	level := parseLevel(cfg.Server.LogLevel)
	zerolog.SetGlobalLevel(level)

	if cfg.Server.Env == constant.ServerEnvProduction {
		log.Logger = zerolog.New(os.Stdout).With().
			Timestamp().
			Str("service", cfg.App.Name).
			Str("env", cfg.Server.Env).
			Logger()
	}

	log.Debug().Str("loglevel", level.String()).Msg("Log level configured.")
}

func parseLevel(value string) zerolog.Level {
	if value == "" {
		return defaultLevel
	}

	level, err := zerolog.ParseLevel(value)
	if err != nil {
		log.Warn().Str("loglevel", value).Msg("Unknown log level, using default.")

		return defaultLevel
	}

	return level
}
