// Package ui declares the plugin's browser routes and where they are mounted.
package ui

import (
	"strings"

	"github.com/vcrobe/otsdebugger/internal/ui/pages"
	"github.com/vcrobe/otsdebugger/router"
	"github.com/vcrobe/otsdebugger/runtime"
)

// PluginName is the distribution name the host registers the plugin under.
const PluginName = "ots_debugger_plugin"

// DefaultBasePath is the prefix OpenTAKServer assigns to this plugin.
var DefaultBasePath = BasePathFor(PluginName)

// BasePathFor returns the prefix the host reserves for a plugin name.
func BasePathFor(name string) string {
	return "/api/plugins/" + strings.ToLower(name)
}

// Routes returns the plugin's route table, relative to its base path.
// basePath is handed to pages that need to build links.
func Routes(basePath string) []router.Route {
	return []router.Route{
		{
			Path: "/ui",
			Page: func(params map[string]string) runtime.Component {
				return &pages.HomePage{BasePath: basePath}
			},
		},
	}
}

// NewMount builds the plugin's navigation context over history.
func NewMount(basePath string, history router.History) (*router.Mount, error) {
	base := router.NormalizeBasePath(basePath)
	return router.NewMount(router.Config{
		BasePath: base,
		Routes:   Routes(base),
		History:  history,
		NotFound: func(params map[string]string) runtime.Component {
			return &pages.NotFoundPage{Path: params["path"], HomeHref: router.JoinBase(base, "/ui")}
		},
	})
}
