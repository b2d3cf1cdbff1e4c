// Package logging builds the process logger.
//
// The backend is zap; callers receive a logr.Logger so that library packages
// depend only on the logr interface and tests can pass logr.Discard().
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level"`

	// Format is the output format (console, json).
	Format string `json:"format"`

	// Output is stdout, stderr or a file path.
	Output string `json:"output"`

	// Development enables caller/stacktrace annotations.
	Development bool `json:"development"`
}

// DefaultConfig returns the CLI defaults.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

// New builds a logr.Logger backed by zap. The returned sync function flushes
// buffered entries and should be deferred by the caller.
func New(cfg Config) (logr.Logger, func(), error) {
	zl, err := newZap(cfg, nil)
	if err != nil {
		return logr.Discard(), func() {}, err
	}
	return zapr.NewLogger(zl), func() { _ = zl.Sync() }, nil
}

// NewWithWriter is New with an explicit destination, used by tests.
func NewWithWriter(cfg Config, w io.Writer) (logr.Logger, error) {
	zl, err := newZap(cfg, zapcore.AddSync(w))
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(zl), nil
}

func newZap(cfg Config, sink zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "", "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format %q: must be console or json", cfg.Format)
	}

	if sink == nil {
		switch cfg.Output {
		case "", "stderr":
			sink = zapcore.AddSync(os.Stderr)
		case "stdout":
			sink = zapcore.AddSync(os.Stdout)
		default:
			// #nosec G304
			file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err != nil {
				return nil, fmt.Errorf("failed to open log file: %w", err)
			}
			sink = zapcore.AddSync(file)
		}
	}

	// logr V(n) maps to zap level -n, so debug enables V(1).
	core := zapcore.NewCore(encoder, sink, level)
	if cfg.Development {
		return zap.New(core, zap.Development(), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
	}
	return zap.New(core), nil
}
