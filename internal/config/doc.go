// Package config loads, validates, and normalizes the yongent TOML
// configuration file.
package config
