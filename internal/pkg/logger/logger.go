// Package logger wraps zap behind a small process-wide facade with optional
// file rotation. Call Init once from main; everything else reads L().
package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey struct{}

var (
	mu            sync.RWMutex
	global        *zap.Logger
	sugar         *zap.SugaredLogger
	bootstrapOnce sync.Once
)

// InitBootstrap installs a console-only logger so code that runs before
// config is loaded can still log.
func InitBootstrap() {
	bootstrapOnce.Do(func() {
		if err := Init(bootstrapOptions()); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "logger bootstrap init failed: %v\n", err)
		}
	})
}

// Init replaces the global logger with one built from options.
func Init(options InitOptions) error {
	mu.Lock()
	defer mu.Unlock()

	normalized := options.normalized()
	zl, err := buildLogger(normalized)
	if err != nil {
		return err
	}

	prev := global
	global = zl
	sugar = zl.Sugar()

	if prev != nil {
		_ = prev.Sync()
	}
	return nil
}

// L returns the global logger. InitBootstrap is invoked lazily so tests get
// a working logger without any setup.
func L() *zap.Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}
	InitBootstrap()
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// S returns the global sugared logger.
func S() *zap.SugaredLogger {
	L()
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		_ = global.Sync()
	}
}

// WithContext stores a request-scoped logger in ctx.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the request-scoped logger, falling back to the global.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return L()
}

func buildLogger(options InitOptions) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(options.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", options.Level, err)
	}
	al := zap.NewAtomicLevelAt(level)

	var cores []zapcore.Core
	if options.Output.ToStdout {
		cores = append(cores, zapcore.NewCore(newEncoder(options.Format), zapcore.Lock(os.Stdout), al))
	}
	if options.Output.ToFile {
		if err := os.MkdirAll(filepath.Dir(options.Output.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		fileSink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   options.Output.FilePath,
			MaxSize:    options.Rotation.MaxSizeMB,
			MaxBackups: options.Rotation.MaxBackups,
			MaxAge:     options.Rotation.MaxAgeDays,
			Compress:   options.Rotation.Compress,
		})
		// File output is always JSON so rotated logs stay machine-readable.
		cores = append(cores, zapcore.NewCore(newEncoder("json"), fileSink, al))
	}

	zapOptions := []zap.Option{
		zap.Fields(
			zap.String("service", options.ServiceName),
			zap.String("env", options.Environment),
		),
	}
	if options.Caller {
		zapOptions = append(zapOptions, zap.AddCaller())
	}

	return zap.New(zapcore.NewTee(cores...), zapOptions...), nil
}

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "console" {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewJSONEncoder(cfg)
}
