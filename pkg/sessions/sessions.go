// Package sessions enumerates and validates the per-session directories
// that hold session-tier persona documents.
package sessions

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultID is the fallback session identifier used when no session
// directory exists yet.
const DefaultID = "default"

// Lister enumerates session directories under a root, newest activity
// first.
type Lister struct {
	Root string
}

func NewLister(root string) *Lister {
	return &Lister{Root: root}
}

// List returns known session ids ordered by most recent modification, with
// name as the tiebreaker. A missing root yields an empty list, not an
// error.
func (l *Lister) List() ([]string, error) {
	entries, err := os.ReadDir(l.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	type sessionDir struct {
		name string
		mod  time.Time
	}
	dirs := make([]sessionDir, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		dirs = append(dirs, sessionDir{name: entry.Name(), mod: info.ModTime()})
	}

	sort.Slice(dirs, func(i, j int) bool {
		if !dirs[i].mod.Equal(dirs[j].mod) {
			return dirs[i].mod.After(dirs[j].mod)
		}
		return dirs[i].name < dirs[j].name
	})

	ids := make([]string, 0, len(dirs))
	for _, d := range dirs {
		ids = append(ids, d.name)
	}
	return ids, nil
}

// First returns the most recently active session id, or DefaultID when no
// sessions exist.
func (l *Lister) First() string {
	ids, err := l.List()
	if err != nil || len(ids) == 0 {
		return DefaultID
	}
	return ids[0]
}

// Ensure creates the directory for a session id and returns its path.
func (l *Lister) Ensure(id string) (string, error) {
	if err := ValidID(id); err != nil {
		return "", err
	}
	dir := filepath.Join(l.Root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session %s: %w", id, err)
	}
	return dir, nil
}

// NewID returns a fresh random session identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID rejects ids that cannot safely become a path segment.
func ValidID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("missing session id")
	}
	if id == "." || id == ".." {
		return fmt.Errorf("session id %q is reserved", id)
	}
	if strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("session id %q contains a path separator", id)
	}
	return nil
}
