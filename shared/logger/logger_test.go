package logger_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"itinera/config"
	"itinera/shared/constant"
	"itinera/shared/logger"
)

// capture redirects the global logger into a buffer for the duration of the test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	originalLogger := log.Logger
	originalLevel := zerolog.GlobalLevel()
	originalFormat := zerolog.TimeFieldFormat

	t.Cleanup(func() {
		log.Logger = originalLogger
		zerolog.SetGlobalLevel(originalLevel)
		zerolog.TimeFieldFormat = originalFormat
	})

	var buf bytes.Buffer
	log.Logger = log.Output(&buf)

	return &buf
}

func TestInitLogger(t *testing.T) {
	capture(t)

	logger.InitLogger()

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestErrorWithStack(t *testing.T) {
	buf := capture(t)

	logger.ErrorWithStack(errors.New("trip version moved"))

	assert.Contains(t, buf.String(), "trip version moved")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestConfigure_Level(t *testing.T) {
	tests := []struct {
		value string
		want  zerolog.Level
	}{
		{value: "debug", want: zerolog.DebugLevel},
		{value: "info", want: zerolog.InfoLevel},
		{value: "warn", want: zerolog.WarnLevel},
		{value: "error", want: zerolog.ErrorLevel},
		{value: "disabled", want: zerolog.Disabled},
		{value: "verbose", want: zerolog.TraceLevel},
		{value: "", want: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run("level "+tt.value, func(t *testing.T) {
			capture(t)

			cfg := &config.Config{}
			cfg.Server.LogLevel = tt.value

			logger.Configure(cfg)

			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestConfigure_ProductionWritesJSON(t *testing.T) {
	capture(t)

	cfg := &config.Config{}
	cfg.App.Name = "itinera"
	cfg.Server.Env = constant.ServerEnvProduction
	cfg.Server.LogLevel = "info"

	logger.Configure(cfg)

	var buf bytes.Buffer
	log.Logger = log.Logger.Output(&buf)
	log.Info().Msg("booking merged")

	assert.Contains(t, buf.String(), `"service":"itinera"`)
	assert.Contains(t, buf.String(), `"env":"production"`)
	assert.Contains(t, buf.String(), "booking merged")
}

func TestConfigure_DevelopmentKeepsLogger(t *testing.T) {
	buf := capture(t)

	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvDevelopment
	cfg.Server.LogLevel = "info"

	logger.Configure(cfg)
	log.Info().Msg("still buffered")

	assert.Contains(t, buf.String(), "still buffered")
}
