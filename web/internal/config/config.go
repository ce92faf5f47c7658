package config

import (
	"os"

	"github.com/logitrack/clients/pkg/config"
)

type Config struct {
	ListenAddr string
	APIBaseURL string
	LogLevel   string
}

func Load() Config {
	cfg := Config{
		ListenAddr: config.EnvDefault("WEB_ADDR", ":3000"),
		APIBaseURL: os.Getenv("LOGITRACK_API_URL"),
		LogLevel:   config.EnvDefault("LOG_LEVEL", "info"),
	}
	config.MustNonEmpty(cfg.APIBaseURL, "LOGITRACK_API_URL")
	return cfg
}
