package testcomponents

import (
	"github.com/vcrobe/otsdebugger/runtime"
	"github.com/vcrobe/otsdebugger/vdom"
)

// TestRenderer is a minimal test harness that implements runtime.Renderer
// for in-memory testing without browser or WASM dependencies.
//
// It keeps child instances by key the way the browser renderer does, so
// tests can observe OnInit/OnDestroy and render counts:
// - Attach a root component to the renderer
// - Trigger re-renders via StateHasChanged()
// - Inspect the resulting VDOM tree
type TestRenderer struct {
	currentVDOM *vdom.VNode
	component   runtime.Component
	nav         runtime.NavigationManager
	instances   map[string]runtime.Component
	activeKeys  map[string]bool
	renders     int
}

// Compile-time assertion to ensure TestRenderer implements runtime.Renderer interface.
var _ runtime.Renderer = (*TestRenderer)(nil)

// NewTestRenderer creates a test renderer attached to the given component.
func NewTestRenderer(comp runtime.Component) *TestRenderer {
	r := &TestRenderer{
		component:  comp,
		instances:  make(map[string]runtime.Component),
		activeKeys: make(map[string]bool),
	}
	comp.SetRenderer(r)
	return r
}

// SetNavigationManager routes Navigate calls to nav.
func (r *TestRenderer) SetNavigationManager(nav runtime.NavigationManager) {
	r.nav = nav
}

// RenderRoot renders the root component and returns the resulting VDOM.
// Children not rendered in this pass are destroyed.
func (r *TestRenderer) RenderRoot() *vdom.VNode {
	r.activeKeys = make(map[string]bool)
	r.currentVDOM = r.component.Render(r)
	r.renders++

	for key, instance := range r.instances {
		if !r.activeKeys[key] {
			if cleaner, ok := instance.(runtime.Cleaner); ok {
				cleaner.OnDestroy()
			}
			delete(r.instances, key)
		}
	}
	return r.currentVDOM
}

// ReRender is called by StateHasChanged() when a component requests a re-render.
func (r *TestRenderer) ReRender() {
	r.RenderRoot()
}

// GetCurrentVDOM returns the most recently rendered VDOM tree.
func (r *TestRenderer) GetCurrentVDOM() *vdom.VNode {
	return r.currentVDOM
}

// RenderCount returns how many root renders have happened.
func (r *TestRenderer) RenderCount() int {
	return r.renders
}

// LiveInstances returns how many child instances are currently kept.
func (r *TestRenderer) LiveInstances() int {
	return len(r.instances)
}

// RenderChild renders a child, reusing the instance stored under key and
// calling OnInit the first time a key is seen.
func (r *TestRenderer) RenderChild(key string, child runtime.Component) *vdom.VNode {
	r.activeKeys[key] = true

	instance, exists := r.instances[key]
	if !exists {
		instance = child
		r.instances[key] = instance
	}
	instance.SetRenderer(r)
	if !exists {
		if initializer, ok := instance.(runtime.Initializer); ok {
			initializer.OnInit()
		}
	}
	return instance.Render(r)
}

// Navigate delegates to the navigation manager when one is set.
func (r *TestRenderer) Navigate(path string) error {
	if r.nav == nil {
		return nil
	}
	return r.nav.Navigate(path)
}
