package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// Capacity bounds the number of retained log entries.
	Capacity int `json:"capacity"`
	// HTTPAddr is the listen address for the HTTP API.
	HTTPAddr string `json:"httpAddr"`
	// CursorTTLMs expires idle client cursors; 0 keeps them forever.
	CursorTTLMs int64 `json:"cursorTtlMs"`
	// ClientRatePerSec caps poll calls per client per second; 0 disables.
	ClientRatePerSec float64 `json:"clientRatePerSec"`
	// ClientRateBurst is the poll token-bucket burst; 0 defaults to the rate.
	ClientRateBurst int `json:"clientRateBurst"`
	// SelfLog feeds the process's own structured logs into the store.
	SelfLog bool `json:"selfLog"`
	// Categories maps namespace prefixes to category names, applied at boot.
	Categories map[string]string `json:"categories"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Capacity: 1024,
		HTTPAddr: ":8080",
	}
}

// Load reads configuration from a JSON file. If path is empty, returns
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return Config{}, errors.New("yaml config not supported; use JSON")
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
