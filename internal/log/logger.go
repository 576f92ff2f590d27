package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service-wide logger. Outside production it runs at debug
// level with colored console output.
func New(environment string) zerolog.Logger {
	level := zerolog.InfoLevel
	if environment != "production" {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    environment == "production",
	}

	return zerolog.New(output).With().
		Timestamp().
		Str("service", "stagelink-api").
		Str("env", environment).
		Logger()
}
