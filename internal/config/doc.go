// Package config loads, normalizes, and validates Greenroom configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GEMINI_API_KEY, including values sourced from a .env file next to the
// config. The Config type centralizes every knob the daemon and CLI need,
// allowing data/report directories and oracle credentials to be discovered
// in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
