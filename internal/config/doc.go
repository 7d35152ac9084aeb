// Package config handles YAML configuration loading with environment variable
// substitution.
//
// Configuration files support ${VAR} syntax for environment variable
// interpolation, which is how secrets (API key, warehouse password) reach the
// process. The resolved Config is built once at startup and passed down
// explicitly; no component reads the environment on its own.
package config
