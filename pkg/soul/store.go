package soul

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dotsetgreg/dotsoul/pkg/logger"
)

// Store performs document I/O around a Resolver. Nothing is cached: every
// call re-reads disk, so edits made by other processes are visible on the
// next read.
type Store struct {
	Resolver *Resolver
}

func NewStore(r *Resolver) *Store {
	return &Store{Resolver: r}
}

// Load resolves and reads the document for a session. ok is false when no
// document exists at either tier or the resolved file cannot be read; both
// count as absence, not failure.
func (s *Store) Load(sessionID string) (string, Location, bool) {
	loc := s.Resolver.Resolve(sessionID)
	if !loc.Exists {
		return "", loc, false
	}
	data, err := os.ReadFile(loc.Path)
	if err != nil {
		logger.WarnCF("soul", "Resolved document unreadable", map[string]interface{}{
			"path":  loc.Path,
			"error": err.Error(),
		})
		return "", loc, false
	}
	return string(data), loc, true
}

// ReadCandidate reads one candidate file. ok is false for any read
// failure, including plain absence.
func (s *Store) ReadCandidate(c Candidate) (string, bool) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// LoadSession reads only the session-tier document, the base for
// read-modify-write edits. The global tier is never consulted here.
func (s *Store) LoadSession(sessionID string) (string, bool) {
	data, err := os.ReadFile(s.Resolver.SessionPath(sessionID))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// WriteSession replaces the session-tier document and returns the path
// written. Parent directories are created as needed.
func (s *Store) WriteSession(sessionID, content string) (string, error) {
	path := s.Resolver.SessionPath(sessionID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create session dir for %s: %w", sessionID, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	logger.InfoCF("soul", "Document written", map[string]interface{}{
		"path":    path,
		"session": sessionID,
		"bytes":   len(content),
	})
	return path, nil
}

// Upsert rewrites one section of the session-tier document. A missing or
// empty session document is seeded from DefaultDocument first; a global
// document is never used as the edit base.
//
// The read-modify-write here is unlocked. Concurrent upserts against the
// same session race and the last writer wins.
func (s *Store) Upsert(sessionID, section, body string) (string, error) {
	doc, ok := s.LoadSession(sessionID)
	if !ok || doc == "" {
		doc = DefaultDocument(s.Resolver.Filename)
	}
	return s.WriteSession(sessionID, UpsertSection(doc, section, body))
}
