//go:build darwin || linux

package env

import "syscall"

const (
	binDirName    = "bin"
	pythonExeName = "python"
	fallbackShell = "/bin/bash"
)

// execReplace replaces the current process image with the shell. It does
// not return on success; the shell inherits the activated environment and
// its exit status becomes the process's own.
func execReplace(path string, argv []string, environ []string) error {
	return syscall.Exec(path, argv, environ)
}
