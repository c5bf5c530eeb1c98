// Package logging wires meshctl's zap logger and installs it as meshkit's
// error handler.
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/go-mesh/meshkit/cmd/meshctl/internal/config"
	"github.com/go-mesh/meshkit/pkg/errors"
)

var (
	mu     sync.Mutex
	logger *zap.Logger
)

// Init builds the logger from config and routes meshkit's internal error
// reports through it. Safe to call once per process.
func Init(cfg config.LoggingConfig) (*zap.Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var sink zapcore.WriteSyncer
	if cfg.File != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    20, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	} else {
		sink = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, level)
	logger = zap.New(core)

	errors.SetHandler(errors.NewZapHandler(logger))
	return logger, nil
}

// Sync flushes buffered log entries.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		_ = logger.Sync()
	}
}
