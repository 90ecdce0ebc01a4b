package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// LevelTrace is a custom slog level below [slog.LevelDebug]. The LLM
// clients log their full JSON request and response bodies at this level,
// which is the only way to see exactly what a model was asked and what
// it returned. The numeric value -8 follows the convention used by
// OpenTelemetry and other Go projects that extend slog with Trace.
//
// Trace logs include complete meeting notes and completions, so expect
// large lines and keep it off outside debugging sessions.
const LevelTrace = slog.Level(-8)

// ParseLogLevel converts the log_level config value (case-insensitive)
// to an [slog.Level].
//
// Accepted values:
//   - "trace" → [LevelTrace] (full request/response bodies)
//   - "debug" → [slog.LevelDebug]
//   - "info" or "" → [slog.LevelInfo] (normal operation)
//   - "warn" or "warning" → [slog.LevelWarn]
//   - "error" → [slog.LevelError] (what -quiet selects)
//
// Returns an error for unrecognized values. Leading and trailing
// whitespace is trimmed before matching.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (valid: trace, debug, info, warn, error)", s)
	}
}

// ReplaceLogLevelNames is an [slog.HandlerOptions.ReplaceAttr] function
// that renders [LevelTrace] as "TRACE". slog only names its built-in
// levels and would otherwise print "DEBUG-4". Every handler recap
// constructs passes this as its ReplaceAttr field.
func ReplaceLogLevelNames(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		level, ok := a.Value.Any().(slog.Level)
		if ok && level == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}
