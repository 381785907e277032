// Package config loads the mhwork TOML configuration.
//
// A missing file is not an error: Load falls back to Default, then expands
// paths and validates the result.
package config
