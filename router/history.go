package router

import (
	"sync"

	"github.com/vcrobe/otsdebugger/signals"
)

// History is the navigation history a Mount reads and subscribes to.
// In the browser it is window.history; it is owned by the host page, so a
// Mount only pushes entries under its own base path.
type History interface {
	// Location returns the current full path.
	Location() string

	// Push adds path as the new current entry. Like history.pushState it
	// does not notify listeners.
	Push(path string)

	// Listen registers fn for location changes the Mount did not initiate
	// (back/forward, host navigation). The returned release func removes it.
	Listen(fn func(path string)) (release func())
}

// MemoryHistory is an in-memory History for tests and non-browser builds.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
	index   int
	changes *signals.Signal[string]
}

// Compile-time assertion that MemoryHistory implements History.
var _ History = (*MemoryHistory)(nil)

// NewMemoryHistory creates a history whose single entry is initial.
func NewMemoryHistory(initial string) *MemoryHistory {
	if initial == "" {
		initial = "/"
	}
	return &MemoryHistory{
		entries: []string{initial},
		changes: signals.NewSignal(initial),
	}
}

// Location returns the current entry.
func (h *MemoryHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Push drops any forward entries and appends path.
func (h *MemoryHistory) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], path)
	h.index++
}

// Listen subscribes fn to externally triggered location changes.
func (h *MemoryHistory) Listen(fn func(path string)) (release func()) {
	return h.changes.Subscribe(fn)
}

// Visit pushes path and notifies listeners, the way a navigation made by
// the host page or the address bar reaches the plugin.
func (h *MemoryHistory) Visit(path string) {
	h.Push(path)
	h.changes.Set(path)
}

// Back moves one entry back and notifies listeners, like a popstate event.
// It reports false when already at the first entry.
func (h *MemoryHistory) Back() bool {
	return h.Go(-1)
}

// Forward moves one entry forward and notifies listeners.
func (h *MemoryHistory) Forward() bool {
	return h.Go(1)
}

// Go moves delta entries and notifies listeners. Out of range moves are ignored.
func (h *MemoryHistory) Go(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if delta == 0 || next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	loc := h.entries[next]
	h.mu.Unlock()

	h.changes.Set(loc)
	return true
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Listeners returns the number of active listeners.
func (h *MemoryHistory) Listeners() int {
	return h.changes.Subscribers()
}
