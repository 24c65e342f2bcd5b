// Package logging builds the zap loggers used by the command line hosts.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger at info level, or debug when verbose.
// An empty path writes to stderr. Terminal hosts pass a file because the
// screen belongs to the UI.
func New(verbose bool, path string) (*zap.Logger, zap.AtomicLevel, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	cfg.Sampling = nil
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if path != "" {
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, cfg.Level, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named("orbitfield"), cfg.Level, nil
}

// SetLevel switches level to the named one. An empty name leaves it alone.
func SetLevel(level zap.AtomicLevel, name string) error {
	if name == "" {
		return nil
	}
	l, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	level.SetLevel(l)
	return nil
}
