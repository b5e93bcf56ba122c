package tools

import (
	"context"
	"fmt"

	"github.com/dotsetgreg/dotsoul/pkg/soul"
)

// UpdateTool rewrites the persona document, in full or one section at a
// time. Writes always land on the session tier; a global document stays
// untouched and keeps precedence on later reads.
type UpdateTool struct {
	store    *soul.Store
	sessions SessionSource
}

func NewUpdateTool(store *soul.Store, sessions SessionSource) *UpdateTool {
	return &UpdateTool{store: store, sessions: sessions}
}

func (t *UpdateTool) Name() string {
	return "soul.update"
}

func (t *UpdateTool) Description() string {
	return "Update the SOUL.md persona document. Pass content to replace the whole document, or section plus sectionContent to rewrite one \"##\" section."
}

func (t *UpdateTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Full replacement text for the document",
			},
			"section": map[string]interface{}{
				"type":        "string",
				"description": "Name of the \"##\" section to update or create",
			},
			"sectionContent": map[string]interface{}{
				"type":        "string",
				"description": "New body for the section",
			},
		},
	}
}

func (t *UpdateTool) Execute(ctx context.Context, args map[string]interface{}) (*Result, error) {
	sessionID := t.sessions(ctx)

	// content wins over section edits when both are supplied.
	if content := stringArg(args, "content"); content != "" {
		path, err := t.store.WriteSession(sessionID, content)
		if err != nil {
			return nil, err
		}
		return UserText(
			"SOUL.md replaced entirely.",
			fmt.Sprintf("SOUL.md replaced entirely: %s", path),
		), nil
	}

	section := stringArg(args, "section")
	body := stringArg(args, "sectionContent")
	if section != "" && body != "" {
		path, err := t.store.Upsert(sessionID, section, body)
		if err != nil {
			return nil, err
		}
		return UserText(
			fmt.Sprintf("Updated section %q in SOUL.md.", section),
			fmt.Sprintf("Updated section %q in SOUL.md: %s", section, path),
		), nil
	}

	return Text("No update performed. Please provide content for a full replacement, or both section and sectionContent to rewrite one section."), nil
}
