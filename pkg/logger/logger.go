// Package logger wraps zap behind a package-level instance configured
// once at startup from config.LogConfig, with JSON or console encoding
// and optional file rotation via lumberjack. It also owns the
// request-id context key so a request id attached in the HTTP layer
// (api/ctxutil) and a request id logged out of a gorm query (via
// GormLoggerAdapter) always refer to the same context value.
//
// Usage:
//
//	logger.Info("order committed", zap.Int64("entity_id", id))
//	logger.Error("journal append failed", zap.Error(err))
//	reqLogger := logger.With(zap.String("request_id", requestID))
//	reqLogger.Info("handling request")
package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ordercore/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	log       *zap.Logger
	atomLevel zap.AtomicLevel
)

type requestIDContextKey struct{}

// ContextWithRequestID returns ctx carrying requestID, retrievable later
// with RequestIDFromContext. api/ctxutil attaches the id a request
// arrived with or generated; this package only needs to read it back
// out when a gorm query logs against that same context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the request id ContextWithRequestID
// attached, or "" if ctx carries none.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey{}).(string); ok {
		return id
	}
	return ""
}

// Init configures the package-level logger from cfg. Format is either
// "json" or "console"; anything else falls back to console in
// development and json otherwise, since that is the one distinction
// this project's deployments actually care about.
func Init(cfg *config.LogConfig, env string) error {
	atomLevel = zap.NewAtomicLevelAt(parseLevel(cfg.Level))

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		if env == "development" {
			encoder = zapcore.NewConsoleEncoder(encoderConfig)
		} else {
			encoder = zapcore.NewJSONEncoder(encoderConfig)
		}
	}

	var writeSyncer zapcore.WriteSyncer
	switch cfg.Output {
	case "file":
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		writeSyncer = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     7,
			Compress:   true,
		})
	default:
		writeSyncer = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(encoder, writeSyncer, atomLevel)
	log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Get returns the package-level logger instance.
func Get() *zap.Logger {
	return log
}

// UpdateLevel adjusts the logger's level at runtime.
func UpdateLevel(level string) {
	atomLevel.SetLevel(parseLevel(level))
}

// Sync flushes any buffered log entries.
func Sync() error {
	if log != nil {
		if err := log.Sync(); err != nil {
			// these sync errors are harmless on most stdout/stderr targets
			errStr := err.Error()
			if !strings.Contains(errStr, "inappropriate ioctl for device") &&
				!strings.Contains(errStr, "invalid argument") &&
				!strings.Contains(errStr, "bad file descriptor") {
				return err
			}
		}
	}
	return nil
}

// With returns a child logger carrying the given fields.
func With(fields ...zap.Field) *zap.Logger {
	if log != nil {
		return log.With(fields...)
	}
	return zap.NewNop()
}

// WithRequestID returns a child logger that tags every entry with
// requestID, for carrying through a single request's handling.
func WithRequestID(requestID string) *zap.Logger {
	if log != nil {
		return log.With(zap.String("request_id", requestID))
	}
	return zap.NewNop()
}

// WithContext returns a child logger carrying fields of mixed types.
func WithContext(fields map[string]any) *zap.Logger {
	if log != nil {
		zapFields := make([]zap.Field, 0, len(fields))
		for k, v := range fields {
			switch val := v.(type) {
			case string:
				zapFields = append(zapFields, zap.String(k, val))
			case int:
				zapFields = append(zapFields, zap.Int(k, val))
			case int64:
				zapFields = append(zapFields, zap.Int64(k, val))
			case int32:
				zapFields = append(zapFields, zap.Int32(k, val))
			case uint:
				zapFields = append(zapFields, zap.Uint(k, val))
			case uint64:
				zapFields = append(zapFields, zap.Uint64(k, val))
			case uint32:
				zapFields = append(zapFields, zap.Uint32(k, val))
			case float64:
				zapFields = append(zapFields, zap.Float64(k, val))
			case float32:
				zapFields = append(zapFields, zap.Float32(k, val))
			case bool:
				zapFields = append(zapFields, zap.Bool(k, val))
			case error:
				zapFields = append(zapFields, zap.Error(val))
			default:
				zapFields = append(zapFields, zap.Any(k, val))
			}
		}
		return log.With(zapFields...)
	}
	return zap.NewNop()
}

func Debug(msg string, fields ...zap.Field) {
	if log != nil {
		log.Debug(msg, fields...)
	}
}

func Info(msg string, fields ...zap.Field) {
	if log != nil {
		log.Info(msg, fields...)
	}
}

func Warn(msg string, fields ...zap.Field) {
	if log != nil {
		log.Warn(msg, fields...)
	}
}

func Error(msg string, fields ...zap.Field) {
	if log != nil {
		log.Error(msg, fields...)
	}
}

func Fatal(msg string, fields ...zap.Field) {
	if log != nil {
		log.Fatal(msg, fields...)
	}
}
