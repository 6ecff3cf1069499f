// Package logging builds the application logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugLogPath is the fixed path for debug logs.
const DebugLogPath = "rota-debug.log"

// New returns a production logger at debug level writing to path when
// debug is set, and a no-op logger otherwise. The terminal UI owns stdout,
// so log output never goes there.
func New(debug bool, path string) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	if path == "" {
		path = DebugLogPath
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Sampling = nil

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("creating debug log: %w", err)
	}
	return logger.With(zap.String("app", "rota")), nil
}
