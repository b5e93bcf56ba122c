package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestDefaultConfig_SoulFile verifies the default document name
func TestDefaultConfig_SoulFile(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SoulFile != "SOUL.md" {
		t.Errorf("SoulFile = %q, want %q", cfg.SoulFile, "SOUL.md")
	}
}

// TestDefaultConfig_IdentityDir verifies the global identity directory default
func TestDefaultConfig_IdentityDir(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.IdentityDir == "" {
		t.Error("IdentityDir should not be empty")
	}
	if cfg.IdentityDir != "/etc/dotsoul/identity" {
		t.Errorf("IdentityDir = %q, want %q", cfg.IdentityDir, "/etc/dotsoul/identity")
	}
}

func TestDefaultConfig_Paths(t *testing.T) {
	cfg := DefaultConfig()

	// Just verify the paths resolve to something, don't compare exact
	// values since expandHome behavior depends on the environment.
	if cfg.HomePath() == "" {
		t.Error("HomePath should not be empty")
	}
	if !strings.HasSuffix(cfg.DataDir(), ".dotsoul") {
		t.Errorf("DataDir = %q, want .dotsoul suffix", cfg.DataDir())
	}
	if !strings.HasSuffix(cfg.SessionsRoot(), filepath.Join(".dotsoul", "sessions")) {
		t.Errorf("SessionsRoot = %q, want sessions under the data dir", cfg.SessionsRoot())
	}
}

func TestDefaultConfig_Session(t *testing.T) {
	cfg := DefaultConfig()

	// Empty means "pick the most recent session at call time".
	if cfg.Session != "" {
		t.Errorf("Session = %q, want empty default", cfg.Session)
	}
}

func TestSaveConfig_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file permission bits are not enforced on Windows")
	}

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")

	cfg := DefaultConfig()
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("config file has permission %04o, want 0600", perm)
	}
}

func TestLoadConfig_EnvOverridesWithoutFile(t *testing.T) {
	t.Setenv("DOTSOUL_FILE", "PERSONA.md")
	path := filepath.Join(t.TempDir(), "missing-config.json")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got := cfg.SoulFile; got != "PERSONA.md" {
		t.Fatalf("expected env override soul file, got %q", got)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"identity_dir": "/srv/identity", "session": "work"}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.IdentityDir != "/srv/identity" {
		t.Errorf("IdentityDir = %q, want file value", cfg.IdentityDir)
	}
	if cfg.Session != "work" {
		t.Errorf("Session = %q, want file value", cfg.Session)
	}
	// Untouched fields keep their defaults.
	if cfg.SoulFile != "SOUL.md" {
		t.Errorf("SoulFile = %q, want default", cfg.SoulFile)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("DOTSOUL_IDENTITY_DIR", "/override/identity")
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"identity_dir": "/srv/identity"}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got := cfg.IdentityDir; got != "/override/identity" {
		t.Fatalf("expected env to beat file, got %q", got)
	}
}

func TestLoadConfig_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	if got := expandHome("~"); got != home {
		t.Errorf("expandHome(~) = %q, want %q", got, home)
	}
	if got := expandHome("~/x"); got != home+"/x" {
		t.Errorf("expandHome(~/x) = %q, want %q", got, home+"/x")
	}
	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expandHome should leave absolute paths alone, got %q", got)
	}
	if got := expandHome(""); got != "" {
		t.Errorf("expandHome(\"\") = %q, want empty", got)
	}
}
