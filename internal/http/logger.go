package http

import (
	"fmt"

	"github.com/fivetwenty-io/heroku-client/pkg/heroku"
	"github.com/hashicorp/go-retryablehttp"
)

var _ retryablehttp.LeveledLogger = (*leveledLogger)(nil)

// leveledLogger forwards retryablehttp log lines to a heroku.Logger.
// Debug lines are dropped unless debug logging is enabled.
type leveledLogger struct {
	logger heroku.Logger
	debug  bool
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	if !l.debug {
		return
	}

	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	if len(keysAndValues)%2 == 1 {
		fields["extra"] = keysAndValues[len(keysAndValues)-1]
	}

	return fields
}
