//go:build js || wasm

package vdom

import (
	"fmt"
	"syscall/js"

	"github.com/vcrobe/otsdebugger/console"
)

// listeners holds the click callbacks created for the mounted tree so they can
// be released when the tree is cleared.
var listeners []js.Func

// RenderToSelector mounts the VNode under the first element matching the CSS selector.
func RenderToSelector(selector string, n *VNode) {
	mount, ok := mountElement(selector)
	if !ok || n == nil {
		return
	}
	RenderTo(mount, n)
}

// RenderTo appends the rendered node to a specific mount element.
func RenderTo(mount js.Value, n *VNode) {
	if n == nil {
		return
	}
	el := createElement(n)
	if el.Truthy() {
		mount.Call("appendChild", el)
	}
}

// Clear removes every child of the element matching selector.
func Clear(selector string) {
	mount, ok := mountElement(selector)
	if !ok {
		return
	}
	mount.Set("innerHTML", "")
	for _, fn := range listeners {
		fn.Release()
	}
	listeners = listeners[:0]
}

// Patch brings the DOM under selector from prev to next.
// The tree is small enough that a full replacement is used.
func Patch(selector string, prev, next *VNode) {
	if prev == next {
		return
	}
	Clear(selector)
	RenderToSelector(selector, next)
}

func mountElement(selector string) (js.Value, bool) {
	if selector == "" {
		return js.Undefined(), false
	}
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return js.Undefined(), false
	}
	mount := doc.Call("querySelector", selector)
	if !mount.Truthy() {
		console.Error("Mount element not found for selector:", selector)
		return js.Undefined(), false
	}
	return mount, true
}

func createElement(n *VNode) js.Value {
	doc := js.Global().Get("document")
	if !doc.Truthy() || n == nil {
		return js.Undefined()
	}

	if n.Tag == "" {
		return doc.Call("createTextNode", n.Content)
	}

	el := doc.Call("createElement", n.Tag)
	for k, v := range n.Attributes {
		el.Call("setAttribute", k, fmt.Sprint(v))
	}

	switch {
	case n.Tag == "input":
		if n.Content != "" {
			el.Set("value", n.Content)
		}
	case n.Content != "":
		el.Set("textContent", n.Content)
	default:
		for _, child := range n.Children {
			childEl := createElement(child)
			if childEl.Truthy() {
				el.Call("appendChild", childEl)
			}
		}
	}

	if n.OnClick != nil {
		onClick := n.OnClick
		cb := js.FuncOf(func(this js.Value, args []js.Value) any {
			if len(args) > 0 {
				args[0].Call("preventDefault")
			}
			onClick()
			return nil
		})
		el.Call("addEventListener", "click", cb)
		listeners = append(listeners, cb)
	}
	return el
}
