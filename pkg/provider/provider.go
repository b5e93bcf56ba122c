// Package provider renders the resolved persona document into the context
// fragment a host injects at the start of each conversation turn.
package provider

import (
	"context"
	"strings"

	"github.com/dotsetgreg/dotsoul/pkg/host"
	"github.com/dotsetgreg/dotsoul/pkg/logger"
	"github.com/dotsetgreg/dotsoul/pkg/soul"
)

const providerName = "soul"

// Renderer builds persona context fragments. Every call re-reads disk; a
// tier that is missing, unreadable, or blank falls through to the next.
type Renderer struct {
	store *soul.Store
}

func NewRenderer(store *soul.Store) *Renderer {
	return &Renderer{store: store}
}

// GetContext returns the persona fragment for a session, or nil when no
// tier has renderable content. Nil means "no contribution this turn", not
// an error.
func (r *Renderer) GetContext(ctx context.Context, sessionID string) *host.Fragment {
	for _, candidate := range r.store.Resolver.Candidates(sessionID) {
		content, ok := r.store.ReadCandidate(candidate)
		if !ok {
			continue
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		logger.DebugCF("provider", "Persona context rendered", map[string]interface{}{
			"session": sessionID,
			"tier":    string(candidate.Tier),
			"chars":   len(content),
		})
		return r.fragment(candidate.Tier, content)
	}
	logger.DebugCF("provider", "No persona context for session", map[string]interface{}{
		"session": sessionID,
	})
	return nil
}

func (r *Renderer) fragment(tier soul.Tier, content string) *host.Fragment {
	source := r.store.Resolver.Filename
	if tier == soul.TierGlobal {
		source += " (Global)"
	}
	return &host.Fragment{
		Content: content,
		Role:    "system",
		Metadata: host.FragmentMetadata{
			Source:   source,
			Priority: host.PersonaPriority,
			Location: string(tier),
		},
	}
}

// Provider wraps the renderer in a host registration object.
func (r *Renderer) Provider() host.ContextProvider {
	return host.ContextProvider{
		Name:     providerName,
		Priority: host.PersonaPriority,
		Enabled:  true,
		Provide: func(ctx context.Context, sessionID string, _ host.MessageInfo) (*host.Fragment, error) {
			return r.GetContext(ctx, sessionID), nil
		},
	}
}
