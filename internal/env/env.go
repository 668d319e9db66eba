package env

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/x2doc-labs/x2doc/internal/logger"
)

const (
	// DefaultDir is the environment directory created in the working directory.
	DefaultDir = "myenv"
	// DefaultPython is the interpreter used to create the environment.
	DefaultPython = "python3"
	// DefaultRequirements is the dependency manifest installed into the environment.
	DefaultRequirements = "requirements.txt"
)

// Bootstrapper prepares a virtual environment and launches a shell inside
// it. The zero value is not usable; construct one with New and override
// fields as needed.
type Bootstrapper struct {
	// Dir is the environment directory, relative to the working directory
	// unless absolute.
	Dir string
	// Python is the interpreter used to create the environment.
	Python string
	// Requirements is the manifest passed to pip install -r.
	Requirements string
	// Shell overrides the interactive shell. Empty means $SHELL, falling
	// back to the platform default.
	Shell string
	// Out receives progress messages. Defaults to os.Stdout.
	Out io.Writer

	runner Runner
	execFn func(path string, argv []string, environ []string) error
	isTTY  func() bool
}

// New returns a Bootstrapper with defaults filled in.
func New() *Bootstrapper {
	return &Bootstrapper{
		Dir:          DefaultDir,
		Python:       DefaultPython,
		Requirements: DefaultRequirements,
		Out:          os.Stdout,
		runner:       &execRunner{stdout: os.Stdout, stderr: os.Stderr},
		execFn:       execReplace,
		isTTY:        stdinIsTTY,
	}
}

// Run executes the bootstrap sequence: optional reset, create the
// environment if absent, activate it, upgrade pip, install the manifest,
// then hand the session to an interactive shell. On unix a successful
// hand-off replaces the process and Run does not return.
func (b *Bootstrapper) Run(ctx context.Context, reset bool) error {
	if reset {
		if err := b.Reset(); err != nil {
			return err
		}
	}
	if err := b.Ensure(ctx); err != nil {
		return err
	}
	environ := b.Activate(os.Environ())
	if err := b.UpgradePip(ctx, environ); err != nil {
		return err
	}
	if err := b.InstallRequirements(ctx, environ); err != nil {
		return err
	}
	return b.Exec(environ)
}

// Reset deletes the environment directory. Resetting an environment that
// does not exist is not an error; it only reports that there was nothing
// to remove.
func (b *Bootstrapper) Reset() error {
	if _, err := os.Stat(b.Dir); os.IsNotExist(err) {
		fmt.Fprintf(b.out(), "Environment %s does not exist; nothing to reset.\n", b.Dir)
		return nil
	}
	if err := os.RemoveAll(b.Dir); err != nil {
		return &StepError{Step: "reset environment", Code: 1, Err: err}
	}
	fmt.Fprintf(b.out(), "Removed environment %s.\n", b.Dir)
	return nil
}

// Ensure creates the environment if it is absent. An existing directory
// is reused as-is, whatever its state.
func (b *Bootstrapper) Ensure(ctx context.Context) error {
	if _, err := os.Stat(b.Dir); err == nil {
		logger.Debug("environment already present", "dir", b.Dir)
		return nil
	}
	fmt.Fprintf(b.out(), "Creating environment %s...\n", b.Dir)
	return b.step(ctx, "create environment", b.Python, []string{"-m", "venv", b.Dir}, nil)
}

// Activate returns a copy of base with the environment active: VIRTUAL_ENV
// points at the environment, its script directory is prepended to PATH,
// PYTHONHOME is dropped, and VIRTUAL_ENV_PROMPT is set. Only processes
// started with the returned slice observe the change; the parent session
// is untouched.
func (b *Bootstrapper) Activate(base []string) []string {
	root := b.root()
	bin := ScriptsDir(root)

	environ := make([]string, 0, len(base)+3)
	path := ""
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		switch key {
		case "PYTHONHOME":
			// Must not leak into the environment's interpreter.
			continue
		case "PATH":
			path = strings.TrimPrefix(kv, "PATH=")
			continue
		}
		environ = append(environ, kv)
	}
	if path == "" {
		path = bin
	} else {
		path = bin + string(os.PathListSeparator) + path
	}
	return append(environ,
		"VIRTUAL_ENV="+root,
		"VIRTUAL_ENV_PROMPT="+filepath.Base(root),
		"PATH="+path,
	)
}

// UpgradePip upgrades the package installer inside the environment. The
// environment's own interpreter runs the upgrade so a system pip is never
// touched.
func (b *Bootstrapper) UpgradePip(ctx context.Context, environ []string) error {
	fmt.Fprintln(b.out(), "Upgrading pip...")
	return b.step(ctx, "upgrade pip", b.pythonPath(),
		[]string{"-m", "pip", "install", "--upgrade", "pip"}, environ)
}

// InstallRequirements installs the dependency manifest into the
// environment. A missing or malformed manifest surfaces as the
// installer's own failure.
func (b *Bootstrapper) InstallRequirements(ctx context.Context, environ []string) error {
	fmt.Fprintf(b.out(), "Installing dependencies from %s...\n", b.Requirements)
	return b.step(ctx, "install requirements", b.pythonPath(),
		[]string{"-m", "pip", "install", "-r", b.Requirements}, environ)
}

// Exec hands the session over to an interactive shell with the environment
// active. On unix the current process is replaced and Exec does not return
// on success. Without a terminal on stdin the hand-off is skipped so
// scripted invocations terminate.
func (b *Bootstrapper) Exec(environ []string) error {
	shell := b.shell()
	path, err := exec.LookPath(shell)
	if err != nil {
		return &StepError{Step: "launch shell", Code: 1, Err: err}
	}
	if !b.isTTY() {
		fmt.Fprintf(b.out(), "Environment %s is ready. No terminal attached; skipping shell.\n", b.Dir)
		return nil
	}
	fmt.Fprintf(b.out(), "Starting %s inside %s. Exit the shell to leave the environment.\n", shell, b.Dir)
	if err := b.execFn(path, []string{shell}, environ); err != nil {
		var shellErr *ShellExitError
		if errors.As(err, &shellErr) {
			return err
		}
		return &StepError{Step: "launch shell", Code: 1, Err: err}
	}
	return nil
}

// step runs one external command and converts a failure into a StepError
// carrying the command's exit status.
func (b *Bootstrapper) step(ctx context.Context, step, name string, args, environ []string) error {
	code, err := b.runner.Run(ctx, name, args, environ)
	if err == nil {
		return nil
	}
	if code <= 0 {
		code = 1
	}
	return &StepError{Step: step, Code: code, Err: err}
}

// ScriptsDir returns the executable directory of the environment rooted
// at root ("bin" on unix, "Scripts" on Windows).
func ScriptsDir(root string) string {
	return filepath.Join(root, binDirName)
}

// InterpreterPath returns the environment's own python executable.
func InterpreterPath(root string) string {
	return filepath.Join(root, binDirName, pythonExeName)
}

// root is the absolute environment directory.
func (b *Bootstrapper) root() string {
	abs, err := filepath.Abs(b.Dir)
	if err != nil {
		return b.Dir
	}
	return abs
}

// pythonPath is the environment's own interpreter.
func (b *Bootstrapper) pythonPath() string {
	return InterpreterPath(b.root())
}

func (b *Bootstrapper) shell() string {
	if b.Shell != "" {
		return b.Shell
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return fallbackShell
}

func (b *Bootstrapper) out() io.Writer {
	if b.Out != nil {
		return b.Out
	}
	return os.Stdout
}

func stdinIsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
