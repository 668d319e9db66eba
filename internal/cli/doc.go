// Package cli defines the Cobra command tree for the x2doc CLI. Each file
// in this package registers one top-level command (run, tasks, doctor, etc.)
// with the root command; the root command itself carries the environment
// bootstrap. Command implementations delegate to internal packages for
// business logic and only handle flag parsing, I/O formatting, and user
// interaction.
package cli
