//go:build js || wasm

package main

import (
	"syscall/js"

	"github.com/vcrobe/otsdebugger/console"
	"github.com/vcrobe/otsdebugger/internal/ui"
	"github.com/vcrobe/otsdebugger/router"
	"github.com/vcrobe/otsdebugger/runtime"
)

const mountSelector = "#app"

// basePath reads the prefix the backend wrote into the mount element, so the
// same binary works under whatever path the host assigns.
func basePath() string {
	el := js.Global().Get("document").Call("querySelector", mountSelector)
	if el.Truthy() {
		if v := el.Call("getAttribute", "data-base-path"); v.Truthy() && v.String() != "" {
			return v.String()
		}
	}
	return ui.DefaultBasePath
}

func main() {
	base := basePath()
	console.Log("[main] mounting plugin UI under", base)

	mount, err := ui.NewMount(base, router.NewBrowserHistory())
	if err != nil {
		console.Error("Invalid route configuration:", err.Error())
		panic(err)
	}

	provider := router.NewProvider(mount)
	renderer := runtime.NewRenderer(mount, mountSelector)
	renderer.SetCurrentComponent(provider)
	provider.SetRenderer(renderer)

	if err := provider.Mount(); err != nil {
		console.Error("Failed to start router:", err.Error())
		panic(err)
	}

	// The host tears the iframe down on unmount; pagehide is the last chance
	// to release the popstate listener.
	var onPageHide js.Func
	onPageHide = js.FuncOf(func(this js.Value, args []js.Value) any {
		renderer.Unmount()
		js.Global().Call("removeEventListener", "pagehide", onPageHide)
		onPageHide.Release()
		return nil
	})
	js.Global().Call("addEventListener", "pagehide", onPageHide)

	// Keep the Go program running
	select {}
}
