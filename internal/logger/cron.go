package logger

import (
	"fmt"
	"strings"
)

// CronLogger adapts this package to the robfig/cron Logger interface.
type CronLogger struct{}

// Info logs routine scheduler messages at debug level.
func (CronLogger) Info(msg string, keysAndValues ...any) {
	Debug("cron: %s%s", msg, formatKeysAndValues(keysAndValues))
}

// Error logs scheduler failures, such as recovered panics.
func (CronLogger) Error(err error, msg string, keysAndValues ...any) {
	Error("cron: %s: %v%s", msg, err, formatKeysAndValues(keysAndValues))
}

func formatKeysAndValues(kv []any) string {
	if len(kv) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < len(kv); i += 2 {
		sb.WriteString(" ")
		if i+1 < len(kv) {
			sb.WriteString(fmt.Sprintf("%v=%v", kv[i], kv[i+1]))
		} else {
			sb.WriteString(fmt.Sprintf("%v", kv[i]))
		}
	}
	return sb.String()
}
