// Package logging provides the structured logger used across the orderbot service.
package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields carries structured key/value pairs attached to a log entry.
type Fields map[string]interface{}

var (
	baseMu sync.Mutex
	base   *zap.Logger
)

// SetBase replaces the process-wide zap logger. Loggers created before the call keep
// the previous one. Tests install zap.NewNop() from TestMain.
func SetBase(l *zap.Logger) {
	baseMu.Lock()
	defer baseMu.Unlock()
	base = l
}

func root() *zap.Logger {
	baseMu.Lock()
	defer baseMu.Unlock()
	if base == nil {
		base = newProductionLogger()
	}
	return base
}

func newProductionLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// LoggerV2 is a named, leveled logger.
type LoggerV2 struct {
	zl *zap.Logger
}

// NewLoggerV2 creates a logger tagged with the given service or component name.
func NewLoggerV2(service string) *LoggerV2 {
	return &LoggerV2{zl: root().With(zap.String("service", service))}
}

func (l *LoggerV2) Debug(msg string, fields ...Fields) { l.zl.Debug(msg, toZap(fields)...) }
func (l *LoggerV2) Info(msg string, fields ...Fields)  { l.zl.Info(msg, toZap(fields)...) }
func (l *LoggerV2) Warn(msg string, fields ...Fields)  { l.zl.Warn(msg, toZap(fields)...) }
func (l *LoggerV2) Error(msg string, fields ...Fields) { l.zl.Error(msg, toZap(fields)...) }

// Fatal logs and exits the process.
func (l *LoggerV2) Fatal(msg string, fields ...Fields) { l.zl.Fatal(msg, toZap(fields)...) }

// Sync flushes buffered entries.
func (l *LoggerV2) Sync() error { return l.zl.Sync() }

func toZap(fields []Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields[0]))
	for _, f := range fields {
		for k, v := range f {
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}
