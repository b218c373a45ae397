package router

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRoutes is returned by NewMount when the route table is empty.
	// A plugin with zero routes has nothing to render for any location.
	ErrNoRoutes = errors.New("route table is empty")

	// ErrNoHistory is returned by NewMount when no History is supplied.
	ErrNoHistory = errors.New("history is nil")

	// ErrInvalidRoute is returned by NewMount for a route with an empty path or nil page.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrOutsideBase is returned by Navigate for a path that would leave the base path.
	ErrOutsideBase = errors.New("path escapes the base path")

	// ErrNotStarted is returned by Navigate before Start or after Stop.
	ErrNotStarted = errors.New("mount is not started")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("mount is already started")
)

// ConfigError reports a route table or mount configuration mistake found at
// construction time. Index is the offending route, or -1 for the table as a whole.
type ConfigError struct {
	Index int
	Path  string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("router: %v", e.Err)
	}
	return fmt.Sprintf("router: route %d (%q): %v", e.Index, e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
