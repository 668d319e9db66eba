// Package env bootstraps the project's Python virtual environment: it
// resets or creates the environment directory, activates it for child
// processes, upgrades pip, installs the dependency manifest, and hands
// the session over to an interactive shell. Failures carry the exit
// status of the external step that caused them.
package env
