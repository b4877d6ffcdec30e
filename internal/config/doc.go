// Package config loads the application configuration into a single
// immutable Config value.
//
// Configuration is sourced from a local .env file (via godotenv) and the
// process environment (via viper). The resulting Config is constructed once
// at startup and passed by reference into each component; no component reads
// environment variables ad hoc.
package config
