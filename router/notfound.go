package router

import (
	"github.com/vcrobe/otsdebugger/runtime"
	"github.com/vcrobe/otsdebugger/vdom"
)

// NotFoundPage is the default fallback rendered when no route matches.
type NotFoundPage struct {
	runtime.ComponentBase
	Path string
}

// NewNotFoundPage is the default Config.NotFound factory.
func NewNotFoundPage(params map[string]string) runtime.Component {
	return &NotFoundPage{Path: params["path"]}
}

func (p *NotFoundPage) Render(r runtime.Renderer) *vdom.VNode {
	return vdom.Div(map[string]any{"class": "not-found"},
		vdom.Heading(1, "Page not found", nil),
		vdom.Paragraph("Nothing is registered for "+p.Path, nil),
	)
}
