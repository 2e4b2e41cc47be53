// Package logging provides a zap-backed heroku.Logger for the CLI and relay.
package logging

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fivetwenty-io/heroku-client/pkg/heroku"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ heroku.Logger = (*Logger)(nil)

// Logger adapts a zap.Logger to heroku.Logger.
type Logger struct {
	zap *zap.Logger
}

// ParseLevel maps a level name to a zap level. Unknown names mean info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a JSON logger writing to w at the named level. A nil writer
// means stderr, keeping stdout free for command output.
func New(w io.Writer, level string) *Logger {
	if w == nil {
		w = os.Stderr
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		ParseLevel(level),
	)

	return &Logger{zap: zap.New(core)}
}

// FromZap wraps an existing zap logger.
func FromZap(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Logger{zap: logger}
}

// Debug implements heroku.Logger.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.zap.Debug(msg, toFields(fields)...)
}

// Info implements heroku.Logger.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.zap.Info(msg, toFields(fields)...)
}

// Warn implements heroku.Logger.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.zap.Warn(msg, toFields(fields)...)
}

// Error implements heroku.Logger.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.zap.Error(msg, toFields(fields)...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// toFields converts a field map into zap fields in key order.
func toFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		out = append(out, zap.Any(key, fields[key]))
	}

	return out
}
