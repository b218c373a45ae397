package runtime

// Initializer is implemented by components that need setup before their first render.
type Initializer interface {
	OnInit()
}

// Cleaner is implemented by components that hold resources which must be
// released when they leave the tree.
type Cleaner interface {
	OnDestroy()
}

// NavigationManager performs client-side navigation on behalf of the renderer.
// The router's Mount implements it.
type NavigationManager interface {
	Navigate(path string) error
}
