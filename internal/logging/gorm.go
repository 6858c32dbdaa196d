package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger implements gorm's logger.Interface on top of slog.
type GormLogger struct {
	log           *slog.Logger
	SlowThreshold time.Duration
}

// NewGormLogger returns a gorm logger writing through log.
func NewGormLogger(log *slog.Logger) *GormLogger {
	return &GormLogger{
		log:           log.With("component", "gorm"),
		SlowThreshold: defaultSlowThreshold,
	}
}

// LogMode implements logger.Interface. Levels come from the slog handler.
func (l *GormLogger) LogMode(_ logger.LogLevel) logger.Interface {
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.log.InfoContext(ctx, fmt.Sprintf(msg, data...))
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.log.WarnContext(ctx, fmt.Sprintf(msg, data...))
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.log.ErrorContext(ctx, fmt.Sprintf(msg, data...))
}

// Trace implements logger.Interface.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []any{
		"elapsed", elapsed,
		"rows", rows,
		"sql", sql,
	}

	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		l.log.DebugContext(ctx, "database query - no records found", fields...)
	case err != nil:
		l.log.ErrorContext(ctx, "database query failed", append(fields, "error", err)...)
	case elapsed > l.SlowThreshold:
		l.log.WarnContext(ctx, "slow query detected",
			append(fields,
				"threshold", l.SlowThreshold,
				"exceeded_by", elapsed-l.SlowThreshold,
			)...,
		)
	default:
		l.log.DebugContext(ctx, "database query completed", fields...)
	}
}
