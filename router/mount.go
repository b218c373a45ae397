package router

import (
	"fmt"
	"sync"

	"github.com/vcrobe/otsdebugger/console"
	"github.com/vcrobe/otsdebugger/runtime"
)

// Config describes a Mount.
type Config struct {
	// BasePath is the prefix the host reserved for this plugin, e.g.
	// "/api/plugins/ots_debugger_plugin". Empty means no prefix.
	BasePath string

	// Routes is the ordered route table; the first matching route wins.
	Routes []Route

	// History is the navigation history to read and subscribe to.
	History History

	// NotFound builds the page rendered when no route matches.
	// Defaults to NewNotFoundPage.
	NotFound runtime.ComponentFactory
}

// Mount is the navigation context of a plugin UI: it resolves browser
// locations under a base path against an ordered route table and reports
// the active page to a single onChange callback.
//
// A Mount is Unmounted until Start and again after Stop.
type Mount struct {
	mu       sync.Mutex
	basePath string
	routes   []Route
	history  History
	notFound runtime.ComponentFactory

	started     bool
	release     func()
	onChange    func(page runtime.Component, key string)
	currentPath string
	active      runtime.Component
}

// Compile-time assertion that Mount can drive a renderer's navigation.
var _ runtime.NavigationManager = (*Mount)(nil)

// NewMount validates cfg and builds a Mount. Configuration mistakes are
// reported here as *ConfigError rather than at navigation time.
func NewMount(cfg Config) (*Mount, error) {
	if len(cfg.Routes) == 0 {
		return nil, &ConfigError{Index: -1, Err: ErrNoRoutes}
	}
	if cfg.History == nil {
		return nil, &ConfigError{Index: -1, Err: ErrNoHistory}
	}

	routes := make([]Route, len(cfg.Routes))
	for i, r := range cfg.Routes {
		if r.Path == "" || r.Page == nil {
			return nil, &ConfigError{Index: i, Path: r.Path, Err: ErrInvalidRoute}
		}
		if r.Path[0] != '/' {
			r.Path = "/" + r.Path
		}
		routes[i] = r
	}

	notFound := cfg.NotFound
	if notFound == nil {
		notFound = NewNotFoundPage
	}

	return &Mount{
		basePath: NormalizeBasePath(cfg.BasePath),
		routes:   routes,
		history:  cfg.History,
		notFound: notFound,
	}, nil
}

// BasePath returns the normalized base path.
func (m *Mount) BasePath() string {
	return m.basePath
}

// Routes returns a copy of the route table.
func (m *Mount) Routes() []Route {
	out := make([]Route, len(m.routes))
	copy(out, m.routes)
	return out
}

// Href returns the full URL path for a path relative to the base path.
func (m *Mount) Href(rel string) string {
	return JoinBase(m.basePath, rel)
}

// CurrentPath returns the full path of the page currently rendered, without
// query, fragment or trailing slash, or "" when unmounted.
func (m *Mount) CurrentPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentPath
}

// Started reports whether the mount is listening for navigation.
func (m *Mount) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Resolve matches a full browser path against the route table.
func (m *Mount) Resolve(full string) Match {
	rel, ok := StripBase(m.basePath, full)
	if !ok {
		return Match{Outside: true, Index: -1}
	}
	for i := range m.routes {
		if params, ok := matchPattern(m.routes[i].Path, rel); ok {
			return Match{Route: &m.routes[i], Index: i, Params: params, RelPath: rel}
		}
	}
	return Match{Index: -1, RelPath: rel}
}

// Start subscribes to history changes and renders the current location.
// onChange receives every newly activated page instance together with a
// key identifying the location it was built for.
func (m *Mount) Start(onChange func(page runtime.Component, key string)) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.onChange = onChange
	m.release = m.history.Listen(m.show)
	m.mu.Unlock()

	console.Log("[Mount.Start] base path:", m.basePath)
	m.show(m.history.Location())
	return nil
}

// Stop releases the history subscription and forgets the active page.
// It is idempotent, so callers can defer it on every exit path.
func (m *Mount) Stop() {
	m.mu.Lock()
	release := m.release
	wasStarted := m.started
	m.started = false
	m.release = nil
	m.onChange = nil
	m.active = nil
	m.currentPath = ""
	m.mu.Unlock()

	if release != nil {
		release()
	}
	if wasStarted {
		console.Log("[Mount.Stop] navigation listener released")
	}
}

// Navigate moves to path, which is relative to the base path, pushing the
// full URL onto history. Navigating to the active location does nothing.
func (m *Mount) Navigate(path string) error {
	rel, err := cleanRelative(path)
	if err != nil {
		return fmt.Errorf("navigate to %q: %w", path, err)
	}
	full := JoinBase(m.basePath, rel)

	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return ErrNotStarted
	}
	if locationKey(full) == m.currentPath && m.active != nil {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	m.history.Push(full)
	m.show(full)
	return nil
}

// show resolves full and activates the resulting page unless it is already active.
func (m *Mount) show(full string) {
	path := locationKey(full)

	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	if path == m.currentPath && m.active != nil {
		m.mu.Unlock()
		return
	}

	match := m.Resolve(path)
	var page runtime.Component
	if match.Found() {
		page = match.Route.Page(match.Params)
	} else {
		if match.Outside {
			console.Warn("[Mount] path outside base path", m.basePath+":", path)
		} else {
			console.Warn("[Mount] no route for path:", path)
		}
		page = m.notFound(map[string]string{"path": path})
	}

	m.currentPath = path
	m.active = page
	onChange := m.onChange
	m.mu.Unlock()

	if onChange != nil {
		onChange(page, path)
	}
}

// locationKey identifies a location the way matching sees it, so "/ui/" and
// "/ui?x=1" are the same location as "/ui".
func locationKey(full string) string {
	return trimTrailingSlash(pathOnly(full))
}
