// Package olog builds the zap loggers used across orgsync.
//
// Levels are plain strings so they can come straight from a flag or a
// config file without conversion.
package olog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels understood by GetLogger. Any other value is handed to zap
// for parsing.
const (
	LogLevelInfo  = "info"
	LogLevelDebug = "debug"
	LogLevelNone  = "none"
)

// GetLogger builds a production zap logger at the given level.
// LogLevelNone yields a no-op logger.
func GetLogger(logLevel string) (*zap.Logger, error) {
	if logLevel == LogLevelNone {
		return zap.NewNop(), nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// MustGetLogger is GetLogger, panicking on an invalid level.
func MustGetLogger(logLevel string) *zap.Logger {
	l, err := GetLogger(logLevel)
	if err != nil {
		panic(err)
	}
	return l
}
