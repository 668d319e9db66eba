package env

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner executes external commands on behalf of the bootstrapper. It
// exists so tests can substitute a fake without spawning processes.
type Runner interface {
	// Run executes name with args and the given environment (nil means
	// inherit) and waits for completion. A command that exited non-zero
	// reports its exit status alongside the error; a command that never
	// started reports -1.
	Run(ctx context.Context, name string, args []string, environ []string) (int, error)
}

type execRunner struct {
	stdout io.Writer
	stderr io.Writer
}

func (r *execRunner) Run(ctx context.Context, name string, args []string, environ []string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if environ != nil {
		cmd.Env = environ
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), err
		}
		return -1, err
	}
	return 0, nil
}

// StepError records which bootstrap step failed and the exit status the
// process should terminate with.
type StepError struct {
	Step string
	Code int
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ShellExitError carries a non-zero status out of the interactive shell on
// platforms where the process cannot be replaced. It is a forwarded status
// rather than a bootstrap failure and warrants no diagnostic of its own.
type ShellExitError struct {
	Code int
}

func (e *ShellExitError) Error() string {
	return fmt.Sprintf("shell exited with status %d", e.Code)
}

// ShellStatus reports whether err is a forwarded interactive-shell exit.
// Such an exit carries no diagnostic of its own; the caller should
// terminate with the code and print nothing.
func ShellStatus(err error) (code int, ok bool) {
	var shellErr *ShellExitError
	if errors.As(err, &shellErr) {
		return shellErr.Code, true
	}
	return 0, false
}

// ExitCode returns the exit status carried by err, defaulting to 1 for
// errors that did not originate in an external command. A nil error maps
// to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var shellErr *ShellExitError
	if errors.As(err, &shellErr) {
		return shellErr.Code
	}
	var stepErr *StepError
	if errors.As(err, &stepErr) && stepErr.Code > 0 {
		return stepErr.Code
	}
	return 1
}
