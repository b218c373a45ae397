//go:build (js || wasm) && !dev

package runtime

import (
	"fmt"

	"github.com/vcrobe/otsdebugger/console"
)

// callOnInit invokes the OnInit lifecycle method in production mode.
// Panics are recovered and logged so one component cannot take down the host page.
func (r *RendererImpl) callOnInit(initializer Initializer, key string) {
	defer func() {
		if rec := recover(); rec != nil {
			console.Error(fmt.Sprintf("OnInit panic in component %s: %v", key, rec))
		}
	}()
	initializer.OnInit()
}

// callOnDestroy invokes the OnDestroy lifecycle method in production mode.
func (r *RendererImpl) callOnDestroy(cleaner Cleaner, key string) {
	defer func() {
		if rec := recover(); rec != nil {
			console.Error(fmt.Sprintf("OnDestroy panic in component %s: %v", key, rec))
		}
	}()
	cleaner.OnDestroy()
}
