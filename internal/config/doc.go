// Package config manages user-level settings stored at ~/.appforge/config.yaml.
// Values can be overridden with APPFORGE_* environment variables and are
// surfaced to the rest of the CLI as a typed Settings struct.
package config
