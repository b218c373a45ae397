package pages

import (
	"github.com/vcrobe/otsdebugger/console"
	"github.com/vcrobe/otsdebugger/runtime"
	"github.com/vcrobe/otsdebugger/vdom"
)

// NotFoundPage is rendered for any location the route table does not cover.
type NotFoundPage struct {
	runtime.ComponentBase
	Path     string
	HomeHref string
}

// GoHome navigates back to the plugin's home page.
func (p *NotFoundPage) GoHome() {
	if err := p.Navigate("/ui"); err != nil {
		console.Error("Navigation failed:", err.Error())
	}
}

func (p *NotFoundPage) Render(r runtime.Renderer) *vdom.VNode {
	return vdom.Div(map[string]any{"class": "not-found", "data-page": "not-found"},
		vdom.Heading(1, "Page not found", nil),
		vdom.Paragraph("Nothing is registered for "+p.Path, nil),
		vdom.Anchor(p.HomeHref, "Back to the debugger", map[string]any{
			"onClick": func() { p.GoHome() },
		}),
	)
}
