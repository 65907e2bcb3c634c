package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config describes CLI logging options.
type Config struct {
	Level  string
	Format string
	// Outputs defaults to stderr so stdout stays machine readable.
	Outputs []string
}

// New creates a zap logger.
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoding := "console"
	encoder := zap.NewDevelopmentEncoderConfig()
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		encoder.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	case "json":
		encoding = "json"
		encoder = zap.NewProductionEncoderConfig()
		encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}
	zcfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          encoding,
		EncoderConfig:     encoder,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     level > zapcore.DebugLevel,
		DisableStacktrace: true,
	}
	return zcfg.Build()
}

// ParseLevel maps a level name to a zap level; empty means warn.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return zapcore.WarnLevel, nil
	case "warning":
		return zapcore.WarnLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}
