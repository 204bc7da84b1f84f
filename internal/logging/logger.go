// Package logging builds the zap logger used by the adbundle command.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Settings selects the logger level and encoding.
type Settings struct {
	Level   string // debug, info, warn, error
	Format  string // json, console
	Verbose bool   // forces debug
	// OutputPaths defaults to stderr so bundle output on stdout stays clean.
	OutputPaths []string
}

// New builds a logger. JSON format uses the production config and console
// format the development config.
func New(s Settings) (*zap.Logger, error) {
	var config zap.Config
	switch strings.ToLower(s.Format) {
	case "", "console":
		config = zap.NewDevelopmentConfig()
		config.DisableStacktrace = true
	case "json":
		config = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q (must be json or console)", s.Format)
	}

	level := zapcore.InfoLevel
	if s.Level != "" {
		var err error
		if level, err = zapcore.ParseLevel(s.Level); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}
	if s.Verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)

	config.OutputPaths = []string{"stderr"}
	if len(s.OutputPaths) > 0 {
		config.OutputPaths = s.OutputPaths
	}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
