package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger set by InitLogger
var Logger *logrus.Logger

// InitLogger builds the relay's logger and stores it in Logger.
// An empty logLevel falls back to LOG_LEVEL, then to debug in development
// and info elsewhere. Output is JSON unless running in development without
// LOG_FORMAT=json.
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(newFormatter(isDevelopment))

	level, err := resolveLevel(logLevel, isDevelopment)
	log.SetLevel(level)
	if err != nil {
		log.WithError(err).Warn("Falling back to info level")
	}

	Logger = log
	return log
}

func resolveLevel(explicit string, isDevelopment bool) (logrus.Level, error) {
	name := strings.TrimSpace(explicit)
	if name == "" {
		name = strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	}
	if name == "" {
		if isDevelopment {
			return logrus.DebugLevel, nil
		}
		return logrus.InfoLevel, nil
	}

	level, err := logrus.ParseLevel(strings.ToLower(name))
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

func newFormatter(isDevelopment bool) logrus.Formatter {
	if isDevelopment && !strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		return &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.DateTime,
		}
	}
	return &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
}

// GetLogger returns Logger, initializing a production logger on first use
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("", false)
	}
	return Logger
}

// WithService tags entries with the emitting service
func WithService(serviceName string) *logrus.Entry {
	return GetLogger().WithField("service", serviceName)
}

// PlayerFields returns the log fields identifying a single player lookup.
// Empty values are omitted.
func PlayerFields(correlationID, player string) logrus.Fields {
	fields := logrus.Fields{}
	if correlationID != "" {
		fields["correlation_id"] = correlationID
	}
	if player != "" {
		fields["player"] = player
	}
	return fields
}
