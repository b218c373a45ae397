//go:build js || wasm

package runtime

import (
	"errors"

	"github.com/vcrobe/otsdebugger/vdom"
)

// ErrNoNavigation is returned by Navigate when the renderer was built without a router.
var ErrNoNavigation = errors.New("no router configured for navigation")

// Compile-time assertion to ensure the concrete RendererImpl implements the Renderer interface.
var _ Renderer = (*RendererImpl)(nil)

// RendererImpl is the concrete implementation of the Renderer interface.
// It manages the component instance tree and handles rendering lifecycle.
type RendererImpl struct {
	instances        map[string]Component
	activeKeys       map[string]bool   // Components rendered in the current cycle
	currentComponent Component         // The root component (usually the router provider)
	navManager       NavigationManager // Optional: router for client-side navigation
	mountID          string
	prevVDOM         *vdom.VNode
	rootInitialized  bool
}

// NewRenderer creates a new runtime renderer.
// If navManager is nil, the renderer works without routing.
func NewRenderer(navManager NavigationManager, mountID string) *RendererImpl {
	return &RendererImpl{
		instances:  make(map[string]Component),
		activeKeys: make(map[string]bool),
		navManager: navManager,
		mountID:    mountID,
	}
}

// SetNavigationManager attaches the router after construction.
func (r *RendererImpl) SetNavigationManager(nav NavigationManager) {
	r.navManager = nav
}

// SetCurrentComponent sets the root component to be rendered.
func (r *RendererImpl) SetCurrentComponent(comp Component) {
	r.currentComponent = comp
	r.rootInitialized = false
}

// RenderRoot starts the rendering process for the entire application.
func (r *RendererImpl) RenderRoot() {
	if r.currentComponent == nil {
		return
	}
	r.activeKeys = make(map[string]bool)

	r.currentComponent.SetRenderer(r)
	if !r.rootInitialized {
		if initializer, ok := r.currentComponent.(Initializer); ok {
			r.callOnInit(initializer, "__root__")
		}
		r.rootInitialized = true
	}

	newVDOM := r.currentComponent.Render(r)

	if r.prevVDOM == nil {
		vdom.Clear(r.mountID)
		vdom.RenderToSelector(r.mountID, newVDOM)
	} else {
		vdom.Patch(r.mountID, r.prevVDOM, newVDOM)
	}
	r.prevVDOM = newVDOM

	r.cleanupUnmountedComponents()
}

// RenderChild renders a child component, reusing the instance stored under key.
func (r *RendererImpl) RenderChild(key string, childWithProps Component) *vdom.VNode {
	r.activeKeys[key] = true

	instance, exists := r.instances[key]
	if !exists {
		instance = childWithProps
		r.instances[key] = instance
	}

	instance.SetRenderer(r)

	if !exists {
		if initializer, ok := instance.(Initializer); ok {
			r.callOnInit(initializer, key)
		}
	}

	return instance.Render(r)
}

// cleanupUnmountedComponents removes components that are no longer in the tree
// and calls their OnDestroy lifecycle method if they implement Cleaner.
func (r *RendererImpl) cleanupUnmountedComponents() {
	for key, instance := range r.instances {
		if !r.activeKeys[key] {
			if cleaner, ok := instance.(Cleaner); ok {
				r.callOnDestroy(cleaner, key)
			}
			delete(r.instances, key)
		}
	}
}

// ReRender patches the DOM with the current component tree.
func (r *RendererImpl) ReRender() {
	r.RenderRoot()
}

// Navigate delegates to the NavigationManager (router).
func (r *RendererImpl) Navigate(path string) error {
	if r.navManager == nil {
		return ErrNoNavigation
	}
	return r.navManager.Navigate(path)
}

// Unmount destroys every live component and clears the mount element.
func (r *RendererImpl) Unmount() {
	r.activeKeys = make(map[string]bool)
	r.cleanupUnmountedComponents()
	if cleaner, ok := r.currentComponent.(Cleaner); ok {
		r.callOnDestroy(cleaner, "__root__")
	}
	r.currentComponent = nil
	r.prevVDOM = nil
	vdom.Clear(r.mountID)
}
