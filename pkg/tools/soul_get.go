package tools

import (
	"context"
	"fmt"

	"github.com/dotsetgreg/dotsoul/pkg/soul"
)

// GetTool reads the resolved persona document for the active session.
type GetTool struct {
	store    *soul.Store
	sessions SessionSource
}

func NewGetTool(store *soul.Store, sessions SessionSource) *GetTool {
	return &GetTool{store: store, sessions: sessions}
}

func (t *GetTool) Name() string {
	return "soul.get"
}

func (t *GetTool) Description() string {
	return "Read the current SOUL.md persona document. The response is tagged with the tier it came from (global or session)."
}

func (t *GetTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *GetTool) Execute(ctx context.Context, args map[string]interface{}) (*Result, error) {
	sessionID := t.sessions(ctx)
	content, loc, ok := t.store.Load(sessionID)
	if !ok {
		return Text("No SOUL.md found. Use soul.update to create one."), nil
	}
	return Text(fmt.Sprintf("[Source: %s]\n\n%s", loc.Tier, content)), nil
}
