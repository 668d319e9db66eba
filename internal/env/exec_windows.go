//go:build windows

package env

import (
	"errors"
	"os"
	"os/exec"
)

const (
	binDirName    = "Scripts"
	pythonExeName = "python.exe"
	fallbackShell = "cmd.exe"
)

// execReplace approximates process replacement on Windows: the shell runs
// as a child wired to this process's terminal, and a non-zero exit is
// forwarded as a ShellExitError so the parent terminates with the same
// status.
func execReplace(path string, argv []string, environ []string) error {
	cmd := exec.Command(path, argv[1:]...)
	cmd.Env = environ
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ShellExitError{Code: exitErr.ExitCode()}
		}
		return err
	}
	return nil
}
