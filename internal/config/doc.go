// Package config manages user-level settings stored at ~/.x2doc/config.yaml.
// These are machine-level overrides layered beneath the project manifest,
// such as the preferred interpreter or the environment directory name.
package config
