// Package soul resolves, reads, and edits SOUL.md persona documents.
//
// A document can live at two tiers: a global identity directory managed by
// the operator, and a per-session directory owned by the agent. The global
// tier always wins on read; writes only ever touch the session tier.
package soul

import (
	"os"
	"path/filepath"
)

// Tier identifies which storage location holds a persona document.
type Tier string

const (
	TierGlobal  Tier = "global"
	TierSession Tier = "session"
)

// DefaultFilename is the document name looked up at each tier.
const DefaultFilename = "SOUL.md"

// Candidate is one (path, tier) pair in the resolution order.
type Candidate struct {
	Path string
	Tier Tier
}

// Location is the outcome of resolving a document for a session. Exists
// reports whether a file was actually found; a missing document is a
// normal state, not an error.
type Location struct {
	Path   string
	Tier   Tier
	Exists bool
}

// Resolver maps a session id to the ordered candidate paths for its
// persona document.
type Resolver struct {
	GlobalDir    string
	SessionsRoot string
	Filename     string
}

func NewResolver(globalDir, sessionsRoot, filename string) *Resolver {
	if filename == "" {
		filename = DefaultFilename
	}
	return &Resolver{
		GlobalDir:    globalDir,
		SessionsRoot: sessionsRoot,
		Filename:     filename,
	}
}

// Candidates returns the lookup order for a session: global first, then
// the session copy. The final entry doubles as the write target when no
// document exists yet.
func (r *Resolver) Candidates(sessionID string) []Candidate {
	return []Candidate{
		{Path: filepath.Join(r.GlobalDir, r.Filename), Tier: TierGlobal},
		{Path: r.SessionPath(sessionID), Tier: TierSession},
	}
}

// SessionPath returns the session-tier path, the canonical write target.
func (r *Resolver) SessionPath(sessionID string) string {
	return filepath.Join(r.SessionsRoot, sessionID, r.Filename)
}

// Resolve picks the first candidate whose file exists. When none does, the
// session path is returned with Exists=false so callers still know where a
// write would land.
func (r *Resolver) Resolve(sessionID string) Location {
	candidates := r.Candidates(sessionID)
	for _, c := range candidates {
		if fileExists(c.Path) {
			return Location{Path: c.Path, Tier: c.Tier, Exists: true}
		}
	}
	last := candidates[len(candidates)-1]
	return Location{Path: last.Path, Tier: last.Tier, Exists: false}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
