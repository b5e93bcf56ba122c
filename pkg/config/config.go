package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for dotsoul. Values resolve in three
// layers: compiled defaults, then the optional JSON config file, then
// DOTSOUL_* environment variables. Later layers win.
type Config struct {
	HomeDir     string `json:"home_dir" env:"DOTSOUL_HOME"`
	IdentityDir string `json:"identity_dir" env:"DOTSOUL_IDENTITY_DIR"`
	SoulFile    string `json:"soul_file" env:"DOTSOUL_FILE"`
	Session     string `json:"session" env:"DOTSOUL_SESSION"`
	LogLevel    string `json:"log_level" env:"DOTSOUL_LOG_LEVEL"`
}

func DefaultConfig() *Config {
	return &Config{
		HomeDir:     "~",
		IdentityDir: "/etc/dotsoul/identity",
		SoulFile:    "SOUL.md",
		Session:     "",
		LogLevel:    "info",
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfigPath is where the CLI reads and writes its JSON config.
func DefaultConfigPath() string {
	return filepath.Join(expandHome("~"), ".dotsoul", "config.json")
}

// HomePath returns the expanded base directory for dotsoul state.
func (c *Config) HomePath() string {
	return expandHome(c.HomeDir)
}

// DataDir is the per-user state directory.
func (c *Config) DataDir() string {
	return filepath.Join(c.HomePath(), ".dotsoul")
}

// SessionsRoot holds one subdirectory per session.
func (c *Config) SessionsRoot() string {
	return filepath.Join(c.DataDir(), "sessions")
}

// IdentityPath returns the expanded global identity directory. Documents
// under it are treated as read-only operator policy.
func (c *Config) IdentityPath() string {
	return expandHome(c.IdentityDir)
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
