package soul

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	base := t.TempDir()
	return NewResolver(
		filepath.Join(base, "identity"),
		filepath.Join(base, "sessions"),
		"SOUL.md",
	)
}

func TestResolver_GlobalWins(t *testing.T) {
	r := testResolver(t)
	writeFile(t, filepath.Join(r.GlobalDir, "SOUL.md"), "global")
	writeFile(t, r.SessionPath("abc"), "session")

	loc := r.Resolve("abc")
	if loc.Tier != TierGlobal {
		t.Errorf("Tier = %q, want global", loc.Tier)
	}
	if !loc.Exists {
		t.Error("Exists should be true")
	}
	if loc.Path != filepath.Join(r.GlobalDir, "SOUL.md") {
		t.Errorf("Path = %q, want global path", loc.Path)
	}
}

func TestResolver_FallsBackToSession(t *testing.T) {
	r := testResolver(t)
	writeFile(t, r.SessionPath("abc"), "session")

	loc := r.Resolve("abc")
	if loc.Tier != TierSession {
		t.Errorf("Tier = %q, want session", loc.Tier)
	}
	if !loc.Exists {
		t.Error("Exists should be true")
	}
}

func TestResolver_MissingEverywhere(t *testing.T) {
	r := testResolver(t)

	loc := r.Resolve("abc")
	if loc.Exists {
		t.Error("Exists should be false when no document is present")
	}
	// Even with nothing on disk the location names the write target.
	if loc.Tier != TierSession {
		t.Errorf("Tier = %q, want session", loc.Tier)
	}
	if loc.Path != r.SessionPath("abc") {
		t.Errorf("Path = %q, want session path", loc.Path)
	}
}

func TestResolver_DirectoryDoesNotCount(t *testing.T) {
	r := testResolver(t)
	if err := os.MkdirAll(filepath.Join(r.GlobalDir, "SOUL.md"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, r.SessionPath("abc"), "session")

	loc := r.Resolve("abc")
	if loc.Tier != TierSession {
		t.Errorf("a directory at the global path should be skipped, got tier %q", loc.Tier)
	}
}

func TestResolver_CandidateOrder(t *testing.T) {
	r := testResolver(t)

	candidates := r.Candidates("abc")
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Tier != TierGlobal || candidates[1].Tier != TierSession {
		t.Errorf("candidate order = %q, %q; want global then session",
			candidates[0].Tier, candidates[1].Tier)
	}
}

func TestNewResolver_DefaultFilename(t *testing.T) {
	r := NewResolver("/g", "/s", "")
	if r.Filename != DefaultFilename {
		t.Errorf("Filename = %q, want %q", r.Filename, DefaultFilename)
	}
}
