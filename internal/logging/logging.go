// Package logging builds the zap loggers used across the tool.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Mode names accepted by New
const (
	ModeCLI   = "cli"
	ModeStdio = "stdio"
)

// ParseLevel maps a level name to its zap level
func ParseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// New builds a logger for the given mode. In stdio mode stdout carries the
// MCP protocol, so logs go to stderr as JSON and only warnings and errors
// are kept unless debug is requested.
func New(level, mode string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var zapConfig zap.Config

	switch mode {
	case ModeStdio:
		zapConfig = zap.NewProductionConfig()
		if lvl > zapcore.DebugLevel && lvl < zapcore.WarnLevel {
			lvl = zapcore.WarnLevel
		}
		zapConfig.OutputPaths = []string{"stderr"}
	case ModeCLI, "":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.DisableStacktrace = true
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("invalid mode: %s", mode)
	}

	zapConfig.Level.SetLevel(lvl)
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	zapConfig.InitialFields = map[string]interface{}{
		"service": "acta-generator",
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	return logger, nil
}
