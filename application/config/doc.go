// Package config loads, validates, publishes and persists toolforge settings.
//
// Settings are read with viper from a JSON, YAML or TOML file, overlaid with
// TOOLFORGE_* environment variables and checked with validator tags. A Provider
// publishes immutable snapshots; Watch swaps in a new snapshot whenever the file
// changes and keeps the previous one when the new content is invalid.
package config
