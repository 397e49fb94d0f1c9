package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Config holds the frontend settings.
type Config struct {
	// APIURL is the backend base URL.
	APIURL string `env:"API_URL" envDefault:"http://localhost:8080"`
	// StateDir holds client-local state such as the registration marker.
	// Defaults to <user config dir>/chatboard.
	StateDir string `env:"CHATBOARD_STATE_DIR"`
	// Colours enables ANSI colours in the terminal views.
	Colours bool `env:"CHATBOARD_COLOURS" envDefault:"true"`
}

// LoadConfig reads the client configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse client config: %w", err)
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	if cfg.StateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		cfg.StateDir = filepath.Join(base, "chatboard")
	}

	return cfg, nil
}
