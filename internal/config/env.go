package config

import (
	"os"
	"strconv"
)

// FromEnv overlays LOGTAIL_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("LOGTAIL_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Capacity = n
		}
	}
	if v := os.Getenv("LOGTAIL_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("LOGTAIL_CURSOR_TTL_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			cfg.CursorTTLMs = n
		}
	}
	if v := os.Getenv("LOGTAIL_CLIENT_RATE_PER_SEC"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.ClientRatePerSec = f
		}
	}
	if v := os.Getenv("LOGTAIL_CLIENT_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ClientRateBurst = n
		}
	}
	if v := os.Getenv("LOGTAIL_SELF_LOG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SelfLog = b
		}
	}
}
