// Package config loads the damascout runtime configuration from defaults, a
// YAML file, and DAMASCOUT_* environment variables.
package config
