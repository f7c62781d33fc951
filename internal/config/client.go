package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ClientConfig holds the terminal client configuration
type ClientConfig struct {
	Server  ServerEndpoint `toml:"server"`
	Display DisplayConfig  `toml:"display"`
}

// ServerEndpoint locates the REST API
type ServerEndpoint struct {
	URL   string `toml:"url"`
	Token string `toml:"token,omitempty"`
}

// DisplayConfig holds presentation preferences
type DisplayConfig struct {
	Currency      string `toml:"currency"`
	DefaultMonths int    `toml:"default_months"`
	ChartHeight   int    `toml:"chart_height"`
}

// DefaultClientConfig returns the client defaults
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Server: ServerEndpoint{
			URL:   "http://localhost:8081",
			Token: defaultAPIToken,
		},
		Display: DisplayConfig{
			Currency:      "USD",
			DefaultMonths: 6,
			ChartHeight:   10,
		},
	}
}

// ClientConfigDir returns the XDG-compliant config directory
func ClientConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stockplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stockplan")
}

// ClientConfigPath returns the full path to the client config file
func ClientConfigPath() string {
	return filepath.Join(ClientConfigDir(), "config.toml")
}

// LoadClient reads the client config at path, returning defaults if it doesn't exist
// STOCKPLAN_URL and STOCKPLAN_TOKEN override the file.
func LoadClient(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if v := os.Getenv("STOCKPLAN_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("STOCKPLAN_TOKEN"); v != "" {
		cfg.Server.Token = v
	}

	if cfg.Display.DefaultMonths < 1 || cfg.Display.DefaultMonths > 60 {
		return cfg, fmt.Errorf("display.default_months must be between 1 and 60, got %d", cfg.Display.DefaultMonths)
	}
	if cfg.Display.ChartHeight < 3 {
		cfg.Display.ChartHeight = 3
	}

	return cfg, nil
}

// SaveClient writes the client config to path
func SaveClient(path string, cfg ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
