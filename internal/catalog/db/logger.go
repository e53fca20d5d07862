package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowQuery = 200 * time.Millisecond

// Logger routes GORM's logging through zap. Record-not-found errors are
// expected control flow and are not logged.
type Logger struct {
	logger    *zap.Logger
	level     gormlogger.LogLevel
	slowQuery time.Duration
}

// NewLogger returns a GORM logger writing warnings and errors to logger.
func NewLogger(logger *zap.Logger, slowQuery time.Duration) *Logger {
	if slowQuery <= 0 {
		slowQuery = defaultSlowQuery
	}
	return &Logger{
		logger:    logger.Named("gorm"),
		level:     gormlogger.Warn,
		slowQuery: slowQuery,
	}
}

func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *Logger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.logger.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.logger.Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.logger.Error(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rowsAffected := fc()
		l.logger.Error("query failed",
			zap.Error(err),
			zap.String("sql", sql),
			zap.Int64("rows", rowsAffected),
			zap.Duration("elapsed", elapsed),
		)
	case elapsed > l.slowQuery && l.level >= gormlogger.Warn:
		sql, rowsAffected := fc()
		l.logger.Warn("slow query",
			zap.String("sql", sql),
			zap.Int64("rows", rowsAffected),
			zap.Duration("elapsed", elapsed),
		)
	case l.level >= gormlogger.Info:
		sql, rowsAffected := fc()
		l.logger.Debug("query",
			zap.String("sql", sql),
			zap.Int64("rows", rowsAffected),
			zap.Duration("elapsed", elapsed),
		)
	}
}
