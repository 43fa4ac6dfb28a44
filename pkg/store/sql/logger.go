//nolint:goprintffuncname
package sql

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/prediction-registry/registry/pkg/utils"
)

// gormLogger forwards gorm's SQL tracing into logrus.
type gormLogger struct {
	logger *logrus.Logger
	config LoggerConfig
}

type LoggerConfig struct {
	// Queries slower than this are logged at warn level. Zero disables it.
	SlowThreshold time.Duration
}

//nolint:ireturn
func NewLogger(l *logrus.Logger, cfg LoggerConfig) logger.Interface {
	return &gormLogger{logger: l, config: cfg}
}

// LogMode is a no-op, the level is owned by the logrus logger.
//
//nolint:ireturn
func (l *gormLogger) LogMode(_ logger.LogLevel) logger.Interface {
	return l
}

const (
	maximumCallerDepth int = 15
	minimumCallerDepth int = 4
)

// entry reports the first caller outside of gorm, and the request being
// served when the context carries one.
func (l *gormLogger) entry(ctx context.Context) *logrus.Entry {
	entry := l.logger.WithContext(ctx)

	if requestID, ok := utils.RequestID(ctx); ok {
		entry = entry.WithField("request_id", requestID)
	}

	pcs := make([]uintptr, maximumCallerDepth)
	depth := runtime.Callers(minimumCallerDepth, pcs)
	frames := runtime.CallersFrames(pcs[:depth])

	for f, again := frames.Next(); again; f, again = frames.Next() {
		if !strings.HasPrefix(f.Function, "gorm.io/") {
			entry = entry.WithField("caller", fmt.Sprintf("%s:%d", f.File, f.Line))

			break
		}
	}

	return entry
}

func (l *gormLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.entry(ctx).Infof(format, args...)
}

func (l *gormLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.entry(ctx).Warnf(format, args...)
}

func (l *gormLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.entry(ctx).Errorf(format, args...)
}

// Trace logs the statement with its row count and duration. Missing records
// are part of normal lookups and are not reported as errors.
func (l *gormLogger) Trace(
	ctx context.Context,
	begin time.Time,
	fc func() (sql string, rowsAffected int64),
	err error,
) {
	elapsed := time.Since(begin)

	withSQL := func() *logrus.Entry {
		sql, rows := fc()

		return l.entry(ctx).WithFields(logrus.Fields{
			"elapsed": elapsed.String(),
			"rows":    rows,
			"sql":     sql,
		})
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.logger.IsLevelEnabled(logrus.ErrorLevel):
		withSQL().WithError(err).Error("SQL error")
	case l.config.SlowThreshold != 0 && elapsed > l.config.SlowThreshold && l.logger.IsLevelEnabled(logrus.WarnLevel):
		withSQL().Warnf("slow SQL >= %v", l.config.SlowThreshold)
	case l.logger.IsLevelEnabled(logrus.TraceLevel):
		withSQL().Trace("SQL")
	}
}
