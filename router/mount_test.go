//go:build !wasm

package router

import (
	"errors"
	"testing"

	"github.com/vcrobe/otsdebugger/runtime"
	"github.com/vcrobe/otsdebugger/testcomponents"
	"github.com/vcrobe/otsdebugger/vdom"
)

const pluginBase = "/api/plugins/ots_debugger_plugin"

// probe counts how often pages bound to one route are built, initialized and destroyed.
type probe struct {
	built     int
	inits     int
	destroys  int
	lastParam map[string]string
}

type probePage struct {
	runtime.ComponentBase
	name  string
	probe *probe
}

func (p *probePage) OnInit()    { p.probe.inits++ }
func (p *probePage) OnDestroy() { p.probe.destroys++ }

func (p *probePage) Render(r runtime.Renderer) *vdom.VNode {
	return vdom.Div(map[string]any{"data-page": p.name}, vdom.Paragraph(p.name, nil))
}

func (p *probe) factory(name string) runtime.ComponentFactory {
	return func(params map[string]string) runtime.Component {
		p.built++
		p.lastParam = params
		return &probePage{name: name, probe: p}
	}
}

// harness wires a Mount, Provider and TestRenderer over an in-memory history.
type harness struct {
	history  *MemoryHistory
	mount    *Mount
	provider *Provider
	renderer *testcomponents.TestRenderer
}

func newHarness(t *testing.T, base, initial string, routes []Route) *harness {
	t.Helper()
	history := NewMemoryHistory(initial)
	mount, err := NewMount(Config{BasePath: base, Routes: routes, History: history})
	if err != nil {
		t.Fatalf("NewMount failed: %v", err)
	}
	provider := NewProvider(mount)
	renderer := testcomponents.NewTestRenderer(provider)
	renderer.SetNavigationManager(mount)
	return &harness{history: history, mount: mount, provider: provider, renderer: renderer}
}

func hasPage(v *vdom.VNode, name string) bool {
	return v.Find(func(n *vdom.VNode) bool { return n.Attributes["data-page"] == name }) != nil
}

func hasNotFound(v *vdom.VNode) bool {
	return v.Find(func(n *vdom.VNode) bool { return n.Attributes["class"] == "not-found" }) != nil
}

func TestNewMount_EmptyRouteTableFailsFast(t *testing.T) {
	_, err := NewMount(Config{BasePath: pluginBase, History: NewMemoryHistory("/")})

	if !errors.Is(err, ErrNoRoutes) {
		t.Fatalf("Expected ErrNoRoutes, got %v", err)
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected *ConfigError, got %T", err)
	}
	if cfgErr.Index != -1 {
		t.Errorf("Expected index -1 for a table-level error, got %d", cfgErr.Index)
	}
}

func TestNewMount_InvalidConfiguration(t *testing.T) {
	page := (&probe{}).factory("home")

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"nil history", Config{Routes: []Route{{Path: "/ui", Page: page}}}, ErrNoHistory},
		{"empty path", Config{Routes: []Route{{Path: "", Page: page}}, History: NewMemoryHistory("/")}, ErrInvalidRoute},
		{"nil page", Config{Routes: []Route{{Path: "/ui"}}, History: NewMemoryHistory("/")}, ErrInvalidRoute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMount(tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNewMount_NormalizesInputs(t *testing.T) {
	m, err := NewMount(Config{
		BasePath: "api/plugins/x/",
		Routes:   []Route{{Path: "ui", Page: (&probe{}).factory("home")}},
		History:  NewMemoryHistory("/"),
	})
	if err != nil {
		t.Fatalf("NewMount failed: %v", err)
	}
	if m.BasePath() != "/api/plugins/x" {
		t.Errorf("Expected base '/api/plugins/x', got '%s'", m.BasePath())
	}
	if m.Routes()[0].Path != "/ui" {
		t.Errorf("Expected route path '/ui', got '%s'", m.Routes()[0].Path)
	}
	if m.Href("/ui") != "/api/plugins/x/ui" {
		t.Errorf("Expected href '/api/plugins/x/ui', got '%s'", m.Href("/ui"))
	}
}

// TestMount_PluginScenario covers the plugin's own configuration: a single
// "/ui" route under the plugin's base path.
func TestMount_PluginScenario(t *testing.T) {
	tests := []struct {
		name     string
		location string
		wantHome bool
	}{
		{"ui route", pluginBase + "/ui", true},
		{"ui route with trailing slash", pluginBase + "/ui/", true},
		{"ui route with query", pluginBase + "/ui?tab=cot", true},
		{"other sub-path", pluginBase + "/other", false},
		{"base path only", pluginBase, false},
		{"missing base path", "/ui", false},
		{"sibling plugin", "/api/plugins/ots_debugger_plugin2/ui", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := &probe{}
			h := newHarness(t, pluginBase, tt.location, []Route{{Path: "/ui", Page: home.factory("home")}})

			if err := h.provider.Mount(); err != nil {
				t.Fatalf("Mount failed: %v", err)
			}
			defer h.provider.Unmount()

			vnode := h.renderer.GetCurrentVDOM()
			if vnode == nil {
				t.Fatalf("Expected a render after Mount")
			}
			if got := hasPage(vnode, "home"); got != tt.wantHome {
				t.Errorf("Expected home rendered=%v, got %v", tt.wantHome, got)
			}
			if tt.wantHome {
				if home.inits != 1 || home.built != 1 {
					t.Errorf("Expected home built and initialized once, got built=%d inits=%d", home.built, home.inits)
				}
			} else {
				if home.built != 0 {
					t.Errorf("Expected home never built, got %d", home.built)
				}
				if !hasNotFound(vnode) {
					t.Errorf("Expected the not-found fallback to render")
				}
			}
		})
	}
}

func TestMount_IsolationAcrossBasePaths(t *testing.T) {
	bases := []string{pluginBase, "/api/plugins/other", "/x", ""}
	foreign := []string{"/elsewhere/ui", "/api/ui", "/api/plugins/ui", "/xy/ui"}

	for _, base := range bases {
		for _, path := range foreign {
			home := &probe{}
			h := newHarness(t, base, path, []Route{{Path: "/ui", Page: home.factory("home")}})
			match := h.mount.Resolve(path)

			if base == "" {
				// No prefix: every path is under the base, only "/ui" itself matches.
				if match.Outside {
					t.Errorf("base %q: expected %q to be inside an empty base", base, path)
				}
				continue
			}
			if !match.Outside || match.Found() {
				t.Errorf("base %q: expected %q outside and unmatched, got %+v", base, path, match)
			}
			if err := h.provider.Mount(); err != nil {
				t.Fatalf("Mount failed: %v", err)
			}
			if home.built != 0 {
				t.Errorf("base %q: %q rendered the plugin page", base, path)
			}
			h.provider.Unmount()
		}
	}
}

func TestMount_RepeatedNavigationIsIdempotent(t *testing.T) {
	home := &probe{}
	h := newHarness(t, pluginBase, pluginBase+"/ui", []Route{{Path: "/ui", Page: home.factory("home")}})
	if err := h.provider.Mount(); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer h.provider.Unmount()

	renders := h.renderer.RenderCount()
	entries := h.history.Len()

	for i := 0; i < 3; i++ {
		if err := h.mount.Navigate("/ui"); err != nil {
			t.Fatalf("Navigate failed: %v", err)
		}
	}
	h.history.Visit(pluginBase + "/ui")

	if home.built != 1 || home.inits != 1 || home.destroys != 0 {
		t.Errorf("Expected a single home instance, got built=%d inits=%d destroys=%d", home.built, home.inits, home.destroys)
	}
	if h.renderer.RenderCount() != renders {
		t.Errorf("Expected no extra renders, got %d (was %d)", h.renderer.RenderCount(), renders)
	}
	if h.history.Len() != entries+1 {
		// Only the Visit adds an entry; Navigate to the active path pushes nothing.
		t.Errorf("Expected %d history entries, got %d", entries+1, h.history.Len())
	}
}

func TestMount_TrailingSlashIsSameLocation(t *testing.T) {
	home := &probe{}
	h := newHarness(t, pluginBase, pluginBase+"/ui/", []Route{{Path: "/ui", Page: home.factory("home")}})
	if err := h.provider.Mount(); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer h.provider.Unmount()

	renders := h.renderer.RenderCount()
	entries := h.history.Len()

	if err := h.mount.Navigate("/ui"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if err := h.mount.Navigate("/ui/"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	h.history.Visit(pluginBase + "/ui?tab=1")

	if home.built != 1 || home.inits != 1 || home.destroys != 0 {
		t.Errorf("Expected a single home instance, got built=%d inits=%d destroys=%d", home.built, home.inits, home.destroys)
	}
	if h.renderer.RenderCount() != renders {
		t.Errorf("Expected no extra renders, got %d (was %d)", h.renderer.RenderCount(), renders)
	}
	if h.history.Len() != entries+1 {
		t.Errorf("Expected %d history entries, got %d", entries+1, h.history.Len())
	}
	if h.mount.CurrentPath() != pluginBase+"/ui" {
		t.Errorf("Expected current path '%s', got '%s'", pluginBase+"/ui", h.mount.CurrentPath())
	}
}

func TestProvider_UnmountClearsRenderedPage(t *testing.T) {
	home := &probe{}
	h := newHarness(t, pluginBase, pluginBase+"/ui", []Route{{Path: "/ui", Page: home.factory("home")}})
	if err := h.provider.Mount(); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	if !hasPage(h.renderer.GetCurrentVDOM(), "home") {
		t.Fatalf("Expected home page rendered")
	}

	h.provider.Unmount()

	if hasPage(h.renderer.GetCurrentVDOM(), "home") {
		t.Errorf("Expected home page gone from the tree after Unmount")
	}
	if home.destroys != 1 {
		t.Errorf("Expected home destroyed once, got %d", home.destroys)
	}
	if h.renderer.LiveInstances() != 0 {
		t.Errorf("Expected no live instances, got %d", h.renderer.LiveInstances())
	}

	renders := h.renderer.RenderCount()
	h.provider.Unmount()
	if h.renderer.RenderCount() != renders {
		t.Errorf("Expected a second Unmount not to render, got %d more", h.renderer.RenderCount()-renders)
	}
}

func TestMount_UnmountReleasesSubscription(t *testing.T) {
	home := &probe{}
	h := newHarness(t, pluginBase, pluginBase+"/other", []Route{{Path: "/ui", Page: home.factory("home")}})
	if err := h.provider.Mount(); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	if h.history.Listeners() != 1 {
		t.Fatalf("Expected 1 history listener while mounted, got %d", h.history.Listeners())
	}

	h.provider.Unmount()
	h.provider.Unmount()

	if h.history.Listeners() != 0 {
		t.Errorf("Expected no history listeners after Unmount, got %d", h.history.Listeners())
	}

	renders := h.renderer.RenderCount()
	h.history.Visit(pluginBase + "/ui")
	h.history.Back()

	if h.renderer.RenderCount() != renders {
		t.Errorf("Expected no renders after Unmount, got %d more", h.renderer.RenderCount()-renders)
	}
	if home.built != 0 {
		t.Errorf("Expected home never built after Unmount, got %d", home.built)
	}
	if err := h.mount.Navigate("/ui"); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Expected ErrNotStarted, got %v", err)
	}
}

func TestProvider_OnDestroyStopsNavigation(t *testing.T) {
	home := &probe{}
	h := newHarness(t, pluginBase, pluginBase+"/ui", []Route{{Path: "/ui", Page: home.factory("home")}})
	if err := h.provider.Mount(); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}

	h.provider.OnDestroy()

	if h.mount.Started() {
		t.Errorf("Expected mount stopped after OnDestroy")
	}
	if h.history.Listeners() != 0 {
		t.Errorf("Expected no history listeners, got %d", h.history.Listeners())
	}
	if h.provider.Page() != nil {
		t.Errorf("Expected no active page after OnDestroy")
	}
}

func TestMount_StartTwice(t *testing.T) {
	h := newHarness(t, pluginBase, pluginBase+"/ui", []Route{{Path: "/ui", Page: (&probe{}).factory("home")}})
	if err := h.provider.Mount(); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer h.provider.Unmount()

	if err := h.provider.Mount(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Expected ErrAlreadyStarted, got %v", err)
	}
	if h.history.Listeners() != 1 {
		t.Errorf("Expected 1 history listener, got %d", h.history.Listeners())
	}
}

func TestMount_NavigateAndHistoryTraversal(t *testing.T) {
	home, logs := &probe{}, &probe{}
	h := newHarness(t, pluginBase, pluginBase+"/ui", []Route{
		{Path: "/ui", Page: home.factory("home")},
		{Path: "/ui/logs", Page: logs.factory("logs")},
	})
	if err := h.provider.Mount(); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer h.provider.Unmount()

	// Act: navigate through the renderer, as a component would.
	if err := h.renderer.Navigate("/ui/logs"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	if h.history.Location() != pluginBase+"/ui/logs" {
		t.Errorf("Expected pushed location under the base path, got '%s'", h.history.Location())
	}
	if !hasPage(h.renderer.GetCurrentVDOM(), "logs") {
		t.Errorf("Expected logs page after Navigate")
	}
	if home.destroys != 1 {
		t.Errorf("Expected home destroyed once, got %d", home.destroys)
	}

	// Act: back button.
	if !h.history.Back() {
		t.Fatalf("Expected Back to succeed")
	}

	if !hasPage(h.renderer.GetCurrentVDOM(), "home") {
		t.Errorf("Expected home page after Back")
	}
	if home.inits != 2 || logs.destroys != 1 {
		t.Errorf("Expected home re-initialized and logs destroyed, got home.inits=%d logs.destroys=%d", home.inits, logs.destroys)
	}
	if h.mount.CurrentPath() != pluginBase+"/ui" {
		t.Errorf("Expected current path '%s', got '%s'", pluginBase+"/ui", h.mount.CurrentPath())
	}
	if h.renderer.LiveInstances() != 1 {
		t.Errorf("Expected 1 live page instance, got %d", h.renderer.LiveInstances())
	}
}

func TestMount_NavigateRefusesPathsOutsideBase(t *testing.T) {
	h := newHarness(t, pluginBase, pluginBase+"/ui", []Route{{Path: "/ui", Page: (&probe{}).factory("home")}})
	if err := h.provider.Mount(); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer h.provider.Unmount()
	entries := h.history.Len()

	for _, target := range []string{"../../other_plugin/ui", "/ui/../../x", "https://example.com/ui", "//example.com/ui"} {
		if err := h.mount.Navigate(target); !errors.Is(err, ErrOutsideBase) {
			t.Errorf("Navigate(%q): expected ErrOutsideBase, got %v", target, err)
		}
	}
	if h.history.Len() != entries {
		t.Errorf("Expected no history entries pushed, got %d new", h.history.Len()-entries)
	}
}

func TestMount_RouteOrderAndParams(t *testing.T) {
	item, create := &probe{}, &probe{}
	h := newHarness(t, pluginBase, pluginBase+"/items/new", []Route{
		{Path: "/items/new", Page: create.factory("create")},
		{Path: "/items/{id}", Page: item.factory("item")},
	})
	if err := h.provider.Mount(); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer h.provider.Unmount()

	if !hasPage(h.renderer.GetCurrentVDOM(), "create") {
		t.Errorf("Expected the first matching route to win")
	}

	if err := h.mount.Navigate("/items/42"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if item.lastParam["id"] != "42" {
		t.Errorf("Expected param id=42, got %v", item.lastParam)
	}
}

func TestMount_EmptyBasePath(t *testing.T) {
	home := &probe{}
	h := newHarness(t, "", "/ui", []Route{{Path: "/ui", Page: home.factory("home")}})
	if err := h.provider.Mount(); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer h.provider.Unmount()

	if !hasPage(h.renderer.GetCurrentVDOM(), "home") {
		t.Errorf("Expected home rendered without a base path")
	}
}

func TestMount_CustomNotFound(t *testing.T) {
	fallback := &probe{}
	history := NewMemoryHistory(pluginBase + "/missing")
	m, err := NewMount(Config{
		BasePath: pluginBase,
		Routes:   []Route{{Path: "/ui", Page: (&probe{}).factory("home")}},
		History:  history,
		NotFound: fallback.factory("fallback"),
	})
	if err != nil {
		t.Fatalf("NewMount failed: %v", err)
	}

	var got runtime.Component
	if err := m.Start(func(page runtime.Component, key string) { got = page }); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer m.Stop()

	if _, ok := got.(*probePage); !ok || fallback.built != 1 {
		t.Fatalf("Expected the custom fallback page, got %T", got)
	}
	if fallback.lastParam["path"] != pluginBase+"/missing" {
		t.Errorf("Expected fallback to receive the path, got %v", fallback.lastParam)
	}
}
