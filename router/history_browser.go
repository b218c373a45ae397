//go:build js || wasm

package router

import (
	"sync"
	"syscall/js"

	"github.com/vcrobe/otsdebugger/console"
)

// BrowserHistory adapts window.history and window.location.
type BrowserHistory struct{}

// Compile-time assertion that BrowserHistory implements History.
var _ History = BrowserHistory{}

// NewBrowserHistory returns a History backed by the page's window.
func NewBrowserHistory() BrowserHistory {
	return BrowserHistory{}
}

// Location returns window.location.pathname plus any query string.
func (BrowserHistory) Location() string {
	loc := js.Global().Get("location")
	return loc.Get("pathname").String() + loc.Get("search").String()
}

// Push calls history.pushState.
func (BrowserHistory) Push(path string) {
	js.Global().Get("history").Call("pushState", nil, "", path)
}

// Listen registers a popstate listener. The release func removes it and
// frees the js.Func; it is safe to call more than once.
func (h BrowserHistory) Listen(fn func(path string)) (release func()) {
	listener := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn(h.Location())
		return nil
	})
	js.Global().Call("addEventListener", "popstate", listener)
	console.Log("[BrowserHistory] popstate listener registered")

	var once sync.Once
	return func() {
		once.Do(func() {
			js.Global().Call("removeEventListener", "popstate", listener)
			listener.Release()
			console.Log("[BrowserHistory] popstate listener released")
		})
	}
}
