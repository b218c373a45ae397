package pages

import (
	"github.com/vcrobe/otsdebugger/runtime"
	"github.com/vcrobe/otsdebugger/vdom"
)

// HomePage is the component rendered for the "/ui" route.
type HomePage struct {
	runtime.ComponentBase
	BasePath string

	// Title is filled in on init so the header can be swapped later.
	Title string
}

func (h *HomePage) OnInit() {
	h.Title = "OTS Debugger"
}

func (h *HomePage) Render(r runtime.Renderer) *vdom.VNode {
	return vdom.Div(map[string]any{"class": "home-page", "data-page": "home"},
		vdom.Heading(1, h.Title, nil),
		vdom.Paragraph("Inspect the Cursor on Target traffic flowing through OpenTAKServer.", nil),
		vdom.Paragraph("Mounted at "+h.BasePath, map[string]any{"class": "base-path"}),
	)
}
