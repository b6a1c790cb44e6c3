// Package logging provides structured logging for keyprobe using zerolog.
// Logs are written to stderr by default so they never mix with the probe
// report printed on stdout.
//
// Example usage:
//
//	logger, closer := logging.NewLoggerFromConfig(&logging.Config{Level: "debug"})
//	defer closer.Close()
//
//	ctx := logging.WithLogger(context.Background(), &logger)
//	logging.FromContext(ctx).Debug().Str("model", "gpt-4o-mini").Msg("Sending probe")
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// defaultLogger backs FromContext when no logger travels in the context.
var defaultLogger zerolog.Logger

func init() {
	defaultLogger, _ = NewLoggerFromConfig(&Config{
		Level:      getEnvOrDefault("LOG_LEVEL", "info"),
		Format:     getEnvOrDefault("LOG_FORMAT", "auto"),
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	})
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
