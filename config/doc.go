// Package config handles application configuration loading and validation.
//
// Configuration is loaded from a YAML file, overlaid with environment
// variables and validated using struct tags. Credentials are never stored in
// the file; the file only names the environment variables that hold them.
package config
