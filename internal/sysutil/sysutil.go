// Package sysutil holds the small process-level helpers the server entry
// point needs before config-driven components exist.
package sysutil

import (
	"strings"

	"github.com/rs/zerolog"
)

// SetLogLevel sets the global zerolog level from LOG_LEVEL and returns the
// level applied. "warning" is accepted for warn; anything unknown, including
// "", falls back to info. Trace and disabled are not reachable from config.
func SetLogLevel(lvl string) zerolog.Level {
	level := zerolog.InfoLevel
	switch s := strings.ToLower(strings.TrimSpace(lvl)); s {
	case "warning":
		level = zerolog.WarnLevel
	case "debug", "info", "warn", "error", "fatal", "panic":
		level, _ = zerolog.ParseLevel(s)
	}
	zerolog.SetGlobalLevel(level)
	return level
}

// IsTruthy reports whether a flag-like environment value is set, e.g.
// NO_COLOR=1 or REJECT_DECREMENTS_LOAD=yes.
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// FirstNonEmpty returns the first value that is not blank, or "".
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
