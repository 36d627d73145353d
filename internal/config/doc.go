// Package config manages user-level settings stored at ~/.dmpack/config.yaml.
// Values may be overridden with DMPACK_* environment variables, e.g.
// DMPACK_LOG_LEVEL=debug.
package config
