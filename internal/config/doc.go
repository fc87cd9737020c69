// Package config loads logtail configuration from a JSON file with
// LOGTAIL_* environment variable overlays.
package config
