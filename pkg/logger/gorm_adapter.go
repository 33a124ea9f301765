// This file adapts the relational journal's gorm connection to log
// through the same zap core as the rest of the process, so a slow
// journal append and the request that triggered it land in the same
// sink with a shared request id.
package logger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// GormLoggerConfig tunes how the adapter reports on journal queries.
type GormLoggerConfig struct {
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
	AddCaller                 bool
}

// DefaultGormLoggerConfig matches the relational journal's own sense
// of "slow": an append or restore query taking longer than 200ms is
// worth a warning, and a miss on a read is routine, not an error.
func DefaultGormLoggerConfig() *GormLoggerConfig {
	return &GormLoggerConfig{
		SlowThreshold:             200 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
		AddCaller:                 true,
	}
}

// GormLoggerAdapter satisfies gorm.io/gorm/logger.Interface by routing
// every call through the package-level zap logger.
type GormLoggerAdapter struct {
	logLevel logger.LogLevel
	logger   *zap.Logger
	config   *GormLoggerConfig
}

// NewGormLoggerAdapter creates a new GORM logger adapter
func NewGormLoggerAdapter(logLevel logger.LogLevel) *GormLoggerAdapter {
	return NewGormLoggerAdapterWithConfig(logLevel, DefaultGormLoggerConfig())
}

// NewGormLoggerAdapterWithConfig creates a new GORM logger adapter with custom configuration
func NewGormLoggerAdapterWithConfig(logLevel logger.LogLevel, config *GormLoggerConfig) *GormLoggerAdapter {
	return &GormLoggerAdapter{
		logLevel: logLevel,
		logger:   log,
		config:   config,
	}
}

// LogMode sets the log level for the adapter
func (l *GormLoggerAdapter) LogMode(logLevel logger.LogLevel) logger.Interface {
	return &GormLoggerAdapter{
		logLevel: logLevel,
		logger:   l.logger,
		config:   l.config,
	}
}

// extractContextFields recovers the request id a gin handler attached
// to ctx via api/ctxutil (itself backed by ContextWithRequestID), so a
// journal query triggered by a request can be correlated with that
// request's other log lines.
func (l *GormLoggerAdapter) extractContextFields(ctx context.Context) []zap.Field {
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		return nil
	}
	return []zap.Field{zap.String("request_id", requestID)}
}

// getLoggerWithFields returns logger with additional fields and caller info if configured
func (l *GormLoggerAdapter) getLoggerWithFields(ctx context.Context) *zap.Logger {
	logger := l.logger

	if ctxFields := l.extractContextFields(ctx); len(ctxFields) > 0 {
		logger = logger.With(ctxFields...)
	}

	if l.config.AddCaller {
		logger = logger.WithOptions(zap.AddCaller())
	}

	return logger
}

// Info logs information messages
func (l *GormLoggerAdapter) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.logLevel <= logger.Info {
		logger := l.getLoggerWithFields(ctx)
		logger.Info(fmt.Sprintf(msg, args...))
	}
}

// Warn logs warning messages
func (l *GormLoggerAdapter) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.logLevel <= logger.Warn {
		logger := l.getLoggerWithFields(ctx)
		logger.Warn(fmt.Sprintf(msg, args...))
	}
}

// Error logs error messages
func (l *GormLoggerAdapter) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.logLevel <= logger.Error {
		logger := l.getLoggerWithFields(ctx)
		logger.Error(fmt.Sprintf(msg, args...))
	}
}

// Trace logs SQL queries and their execution details
func (l *GormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	// Only log trace at Info level or higher (Info/Debug)
	if l.logLevel < logger.Info {
		return
	}

	sql, rows := fc()
	elapsed := time.Since(begin)

	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
	}

	log := l.getLoggerWithFields(ctx)

	if err != nil {
		// Skip record not found error if configured
		if err == logger.ErrRecordNotFound && l.config.IgnoreRecordNotFoundError {
			return
		}
		log.Error("Database operation failed", append(fields, zap.Error(err))...)
		return
	}

	// Log slow queries as warnings
	if elapsed > l.config.SlowThreshold {
		log.Warn("Slow SQL query", append(fields, zap.String("type", "slow_query"))...)
	} else {
		log.Debug("SQL query executed", fields...)
	}
}
