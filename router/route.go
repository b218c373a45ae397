package router

import (
	"strings"

	"github.com/vcrobe/otsdebugger/runtime"
)

// Route binds a path pattern, relative to the mount's base path, to the
// factory of the page rendered for it.
type Route struct {
	Path string
	Page runtime.ComponentFactory
}

// Match is the outcome of resolving a browser path against the route table.
type Match struct {
	Route   *Route            // nil when nothing matched
	Index   int               // position of Route in the table
	Params  map[string]string // values of {name} segments
	RelPath string            // path with the base stripped
	Outside bool              // the path does not lie under the base path
}

// Found reports whether a route matched.
func (m Match) Found() bool {
	return m.Route != nil
}

// matchPattern checks if an actual path matches a route pattern and returns
// the extracted parameters. Static patterns must match exactly; a segment
// written as "{name}" matches any single segment.
func matchPattern(pattern, path string) (map[string]string, bool) {
	pattern = trimTrailingSlash(pattern)
	path = trimTrailingSlash(path)

	if pattern == path {
		return map[string]string{}, true
	}
	if !strings.Contains(pattern, "{") {
		return nil, false
	}

	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")
	if len(patternParts) != len(pathParts) {
		return nil, false
	}

	params := make(map[string]string)
	for i := range patternParts {
		if strings.HasPrefix(patternParts[i], "{") && strings.HasSuffix(patternParts[i], "}") {
			if pathParts[i] == "" {
				return nil, false
			}
			params[strings.Trim(patternParts[i], "{}")] = pathParts[i]
			continue
		}
		if patternParts[i] != pathParts[i] {
			return nil, false
		}
	}
	return params, true
}

func trimTrailingSlash(p string) string {
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "/"
	}
	return p
}
