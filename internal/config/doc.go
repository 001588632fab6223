// Package config loads the exporter configuration from the environment,
// optionally seeded from a .env file in the working directory.
package config
