// Package logger holds the process-wide zap logger for the portal gateway.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loggerName prefixes every entry so portal logs are recognizable when
// multiple services share a sink.
const loggerName = "portal"

var globalLogger *zap.Logger

// Init builds the global logger for the given environment: colored console
// output in development, JSON in production. Unrecognized levels keep the
// preset's default instead of failing startup.
func Init(environment string, level string) error {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if parsed, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(parsed)
	}

	logger, err := config.Build()
	if err != nil {
		return err
	}

	globalLogger = logger.Named(loggerName)
	return nil
}

// Get returns the global logger instance.
// If not initialized, it returns a no-op logger to prevent panics.
func Get() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// Sync flushes any buffered log entries.
func Sync() {
	if globalLogger != nil {
		globalLogger.Sync()
	}
}
