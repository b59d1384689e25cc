package logger

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fileflux/fileflux-manager-webapp/internal/config"
)

// New constructs a zerolog logger based on level and format configuration.
func New(cfg *config.Config) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return zerolog.Logger{}, err
	}

	var log zerolog.Logger
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		log = zerolog.New(os.Stdout).With().Timestamp().Logger()
	case "console":
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		log = zerolog.New(consoleWriter).With().Timestamp().Logger()
	default:
		return zerolog.Logger{}, errors.New("unsupported log format")
	}

	zerolog.SetGlobalLevel(lvl)

	return log.Level(lvl).With().Str("service", cfg.ServiceName).Logger(), nil
}
