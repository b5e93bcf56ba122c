// Package plugin wires the persona provider and tools into a host runtime
// for the lifetime of one registration.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dotsetgreg/dotsoul/pkg/config"
	"github.com/dotsetgreg/dotsoul/pkg/host"
	"github.com/dotsetgreg/dotsoul/pkg/logger"
	"github.com/dotsetgreg/dotsoul/pkg/provider"
	"github.com/dotsetgreg/dotsoul/pkg/sessions"
	"github.com/dotsetgreg/dotsoul/pkg/soul"
	"github.com/dotsetgreg/dotsoul/pkg/tools"
)

const pluginName = "soul"

type state int

const (
	stateNew state = iota
	stateStarted
	stateStopped
)

// Plugin registers the soul context provider and tool server with a host.
// The lifecycle is one-shot: a stopped plugin cannot be started again.
type Plugin struct {
	version string
	store   *soul.Store

	mu       sync.Mutex
	state    state
	cleanups []func()
}

func New(cfg *config.Config, version string) *Plugin {
	resolver := soul.NewResolver(cfg.IdentityPath(), cfg.SessionsRoot(), cfg.SoulFile)
	return &Plugin{
		version: version,
		store:   soul.NewStore(resolver),
	}
}

// Store exposes the document store so an embedding host can share it.
func (p *Plugin) Store() *soul.Store {
	return p.store
}

// Start registers the context provider and the tool server. A partial
// failure deregisters whatever was already registered before returning.
func (p *Plugin) Start(ctx context.Context, h host.Host) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case stateStarted:
		return errors.New("soul plugin already started")
	case stateStopped:
		return errors.New("soul plugin already stopped")
	}

	renderer := provider.NewRenderer(p.store)
	unregisterProvider, err := h.RegisterContextProvider(renderer.Provider())
	if err != nil {
		return fmt.Errorf("register context provider: %w", err)
	}
	p.cleanups = append(p.cleanups, unregisterProvider)

	registry := tools.NewRegistry()
	source := sessionSource(h)
	registry.Register(tools.NewGetTool(p.store, source))
	registry.Register(tools.NewUpdateTool(p.store, source))

	unregisterTools, err := h.RegisterTools(tools.ServerSpec(pluginName, p.version, registry))
	if err != nil {
		p.runCleanupsLocked()
		return fmt.Errorf("register tools: %w", err)
	}
	p.cleanups = append(p.cleanups, unregisterTools)

	p.state = stateStarted
	logger.InfoCF("plugin", "Soul plugin started", map[string]interface{}{
		"tools":   registry.Count(),
		"version": p.version,
	})
	return nil
}

// Stop deregisters everything Start registered. Calling it in any other
// state is a no-op, so shutdown paths can call it unconditionally.
func (p *Plugin) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != stateStarted {
		return
	}
	p.runCleanupsLocked()
	p.state = stateStopped
	logger.InfoC("plugin", "Soul plugin stopped")
}

// runCleanupsLocked consumes the deregistration callbacks in reverse
// registration order. Callers must hold p.mu.
func (p *Plugin) runCleanupsLocked() {
	for i := len(p.cleanups) - 1; i >= 0; i-- {
		p.cleanups[i]()
	}
	p.cleanups = nil
}

// sessionSource resolves the active session from the host's enumeration:
// first listed session, or the default id when none exist.
func sessionSource(h host.Host) tools.SessionSource {
	return func(ctx context.Context) string {
		ids, err := h.Sessions(ctx)
		if err != nil || len(ids) == 0 {
			return sessions.DefaultID
		}
		return ids[0]
	}
}
