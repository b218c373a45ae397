// Package plugin is the OpenTAKServer-facing side of the debugger: its
// metadata, URL prefix and activation lifecycle.
package plugin

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vcrobe/otsdebugger/internal/config"
	"github.com/vcrobe/otsdebugger/internal/cot"
	"github.com/vcrobe/otsdebugger/internal/ui"
)

// Metadata describes the plugin distribution, as shown on the host's about page.
type Metadata struct {
	Name        string `json:"name"`
	Distro      string `json:"distro"`
	Version     string `json:"version"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
}

// DefaultMetadata is the metadata of this build.
var DefaultMetadata = Metadata{
	Name:    "OTS Debugger Plugin",
	Distro:  ui.PluginName,
	Version: "0.1.0",
	Summary: "Live view of the CoT traffic routed through OpenTAKServer",
}

// Info is what the host lists for an installed plugin.
type Info struct {
	Name   string   `json:"name"`
	Distro string   `json:"distro"`
	Routes []string `json:"routes"`
}

// Plugin ties configuration, the CoT relay and metadata together.
type Plugin struct {
	meta   Metadata
	cfg    *config.Config
	hub    *cot.Hub
	dial   cot.DialFunc
	logger *slog.Logger

	mu      sync.Mutex
	routes  []string
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// Option customises a Plugin.
type Option func(*Plugin)

// WithDialer replaces the RabbitMQ dialer, mainly for tests.
func WithDialer(dial cot.DialFunc) Option {
	return func(p *Plugin) { p.dial = dial }
}

// New creates a plugin around an existing config and hub.
func New(meta Metadata, cfg *config.Config, hub *cot.Hub, logger *slog.Logger, opts ...Option) *Plugin {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Plugin{
		meta:   meta,
		cfg:    cfg,
		hub:    hub,
		logger: logger.With("plugin", meta.Distro),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Metadata returns the plugin metadata.
func (p *Plugin) Metadata() Metadata {
	return p.meta
}

// Config returns the live configuration.
func (p *Plugin) Config() *config.Config {
	return p.cfg
}

// Hub returns the CoT fanout.
func (p *Plugin) Hub() *cot.Hub {
	return p.hub
}

// URLPrefix is the path the host mounts the plugin's HTTP routes and UI under.
func (p *Plugin) URLPrefix() string {
	return ui.BasePathFor(p.meta.Distro)
}

// SetRoutes records the routes registered for the plugin.
func (p *Plugin) SetRoutes(routes []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes = append([]string(nil), routes...)
}

// Info returns the summary the host lists for the plugin.
func (p *Plugin) Info() Info {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Info{Name: p.meta.Name, Distro: p.meta.Distro, Routes: append([]string(nil), p.routes...)}
}

// Activate starts the CoT listener when the plugin is enabled. Listener
// failures are logged and retried in the background; they never fail the host.
// A stopped plugin stays stopped, since its hub no longer accepts clients.
func (p *Plugin) Activate(ctx context.Context, enabled bool) {
	if !enabled || !p.cfg.Bool(config.KeyEnabled) {
		p.logger.Info("plugin is disabled", "name", p.meta.Name)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		p.logger.Warn("activate after stop ignored", "name", p.meta.Name)
		return
	}
	if p.cancel != nil {
		return
	}

	p.logger.Info("loading", "name", p.meta.Name)
	listener := cot.NewListener(cot.ListenerConfig{
		URL:         p.cfg.String(config.KeyRabbitURL),
		Exchange:    p.cfg.String(config.KeyExchange),
		Queue:       p.cfg.String(config.KeyQueue),
		ConsumerTag: p.cfg.String(config.KeyConsumerTag),
	}, p.hub, p.dial, p.logger)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		listener.Serve(ctx)
	}()
	p.cancel = cancel
	p.done = done
	p.logger.Info("successfully loaded", "name", p.meta.Name)
}

// Active reports whether the listener is running.
func (p *Plugin) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Stop stops the listener and disconnects UI clients for good.
func (p *Plugin) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.stopped = true
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	p.hub.Close()
}
