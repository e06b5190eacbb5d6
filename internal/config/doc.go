// Package config loads, normalizes, and validates pizzahunt configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and overlays environment variables such as
// PORT and PIZZAHUNT_API_URL. The Config type centralizes every knob the API
// server, the CLI, and the offline agent need, so state directories, database
// files, and remote endpoints are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
