package config

import (
	"os"
	"path/filepath"

	"github.com/logitrack/clients/pkg/config"
)

type Config struct {
	APIBaseURL string
	StateDir   string
	LogLevel   string
}

func Load() Config {
	cfg := Config{
		APIBaseURL: os.Getenv("LOGITRACK_API_URL"),
		StateDir:   config.EnvDefault("LOGITRACK_STATE_DIR", defaultStateDir()),
		LogLevel:   config.EnvDefault("LOG_LEVEL", "warn"),
	}
	config.MustNonEmpty(cfg.APIBaseURL, "LOGITRACK_API_URL")
	return cfg
}

// StatePath is the session database location.
func (c Config) StatePath() string {
	return filepath.Join(c.StateDir, "state.db")
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".logitrack"
	}
	return filepath.Join(home, ".logitrack")
}
