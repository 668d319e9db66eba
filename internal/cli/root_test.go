package cli

import (
	"testing"

	"github.com/x2doc-labs/x2doc/internal/config"
	"github.com/x2doc-labs/x2doc/internal/project"
)

func TestResetRequested(t *testing.T) {
	tests := []struct {
		name     string
		flag     bool
		args     []string
		expected bool
	}{
		{"no flag, no args", false, nil, false},
		{"flag set", true, nil, true},
		{"long form as first arg", false, []string{"--reset"}, true},
		{"short form as first arg", false, []string{"-r"}, true},
		{"flag set and args present", true, []string{"whatever"}, true},
		{"other first arg ignored", false, []string{"install"}, false},
		{"reset not in first position", false, []string{"x", "--reset"}, false},
		{"lookalike arg", false, []string{"--reset-all"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resetRequested(tt.flag, tt.args)
			if got != tt.expected {
				t.Errorf("resetRequested(%v, %v) = %v, want %v", tt.flag, tt.args, got, tt.expected)
			}
		})
	}
}

func TestNewBootstrapper_ProjectOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("X2DOC_HOME", "")
	config.Load()

	proj := project.Default()
	proj.Env.Dir = "env310"
	proj.Env.Python = "python3.10"
	proj.Env.Requirements = "dev-requirements.txt"
	proj.Env.Shell = "zsh"

	b := newBootstrapper(proj)
	if b.Dir != "env310" {
		t.Errorf("Dir = %q, want %q", b.Dir, "env310")
	}
	if b.Python != "python3.10" {
		t.Errorf("Python = %q, want %q", b.Python, "python3.10")
	}
	if b.Requirements != "dev-requirements.txt" {
		t.Errorf("Requirements = %q, want %q", b.Requirements, "dev-requirements.txt")
	}
	if b.Shell != "zsh" {
		t.Errorf("Shell = %q, want %q", b.Shell, "zsh")
	}
}

func TestNewBootstrapper_UserConfigFillsDefaults(t *testing.T) {
	// Point the config loader at an empty home so only the environment
	// overrides below are visible.
	t.Setenv("HOME", t.TempDir())
	t.Setenv("X2DOC_HOME", "")
	t.Setenv("X2DOC_ENV_DIR", ".venv")
	t.Setenv("X2DOC_ENV_PYTHON", "python3.12")
	config.Load()

	b := newBootstrapper(project.Default())
	if b.Dir != ".venv" {
		t.Errorf("Dir = %q, want user config %q", b.Dir, ".venv")
	}
	if b.Python != "python3.12" {
		t.Errorf("Python = %q, want user config %q", b.Python, "python3.12")
	}

	// A project manifest value beats user config.
	proj := project.Default()
	proj.Env.Python = "python3.9"
	b = newBootstrapper(proj)
	if b.Python != "python3.9" {
		t.Errorf("Python = %q, want project %q", b.Python, "python3.9")
	}
}
