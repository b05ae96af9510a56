// Package config loads, normalizes, and validates epidash configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// EPIDASH_BASE_URL. The Config type centralizes every knob the dashboard and
// CLI need: where the statistics backend lives, how often the clock and the
// datasets refresh, how counters animate, and where logs and chart exports go.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
