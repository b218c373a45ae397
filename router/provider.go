package router

import (
	"fmt"

	"github.com/vcrobe/otsdebugger/console"
	"github.com/vcrobe/otsdebugger/runtime"
	"github.com/vcrobe/otsdebugger/vdom"
)

// Provider is the root component handed to the renderer. It owns the Mount
// for its lifetime and renders whichever page the Mount reports as active.
type Provider struct {
	runtime.ComponentBase

	mount *Mount
	page  runtime.Component
	key   string
}

// Compile-time assertions for the lifecycle hooks the renderer calls.
var (
	_ runtime.Component = (*Provider)(nil)
	_ runtime.Cleaner   = (*Provider)(nil)
)

// NewProvider wraps m in a renderable root.
func NewProvider(m *Mount) *Provider {
	return &Provider{mount: m}
}

// Mount starts navigation. The renderer should already be attached so the
// first page can be rendered immediately.
func (p *Provider) Mount() error {
	return p.mount.Start(p.SetPage)
}

// Unmount stops navigation and drops the active page. When a renderer is
// attached the provider re-renders empty, so the page leaves the DOM and
// receives OnDestroy.
func (p *Provider) Unmount() {
	if p.stop() && p.GetRenderer() != nil {
		p.StateHasChanged()
	}
}

// OnDestroy releases the navigation subscription when the renderer tears
// the provider down. The renderer clears the DOM itself.
func (p *Provider) OnDestroy() {
	p.stop()
}

// stop reports whether a page was active.
func (p *Provider) stop() bool {
	p.mount.Stop()
	hadPage := p.page != nil
	p.page = nil
	p.key = ""
	return hadPage
}

// Navigator returns the Mount so a renderer can delegate Navigate calls.
func (p *Provider) Navigator() *Mount {
	return p.mount
}

// SetPage replaces the active page and triggers a re-render.
func (p *Provider) SetPage(page runtime.Component, key string) {
	console.Log("[Provider.SetPage] key:", key, "type:", fmt.Sprintf("%T", page))
	p.page = page
	p.key = key
	p.StateHasChanged()
}

// Page returns the active page instance, or nil.
func (p *Provider) Page() runtime.Component {
	return p.page
}

// Render composes the active page under a container element.
func (p *Provider) Render(r runtime.Renderer) *vdom.VNode {
	attrs := map[string]any{"data-base-path": p.mount.BasePath()}
	if p.page == nil {
		return vdom.Div(attrs)
	}
	attrs["data-route"] = p.key

	slotKey := fmt.Sprintf("route-%s-%T-%p", p.key, p.page, p.page)
	return vdom.Div(attrs, r.RenderChild(slotKey, p.page))
}
