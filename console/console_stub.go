//go:build !(js || wasm)

package console

import (
	"fmt"
	"log/slog"
	"strings"
)

// Native builds (tests, the plugin backend, server-side prerendering) have no
// browser console, so the same calls go to the default slog logger instead.

// Log writes args at debug level.
func Log(args ...any) {
	slog.Debug(join(args))
}

// Warn writes args at warn level.
func Warn(args ...any) {
	slog.Warn(join(args))
}

// Error writes args at error level.
func Error(args ...any) {
	slog.Error(join(args))
}

func join(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, " ")
}
