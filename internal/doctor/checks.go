package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/x2doc-labs/x2doc/internal/document"
	"github.com/x2doc-labs/x2doc/internal/env"
	"github.com/x2doc-labs/x2doc/internal/project"
	"github.com/x2doc-labs/x2doc/internal/reqs"
)

// Doctor runs health checks against one project directory.
type Doctor struct {
	Dir     string
	Project *project.Project
	Out     io.Writer

	lookPath      func(string) (string, error)
	versionOutput func(ctx context.Context, python string) (string, error)
}

// New returns a Doctor for the project rooted at dir.
func New(dir string, proj *project.Project) *Doctor {
	return &Doctor{
		Dir:           dir,
		Project:       proj,
		Out:           os.Stdout,
		lookPath:      exec.LookPath,
		versionOutput: pythonVersionOutput,
	}
}

// pythonVersionOutput runs `python --version`. Older interpreters print
// the version to stderr, so both streams are captured.
func pythonVersionOutput(ctx context.Context, python string) (string, error) {
	out, err := exec.CommandContext(ctx, python, "--version").CombinedOutput()
	return string(out), err
}

// RunAll executes every check. Problems show up as report lines, not as
// errors; RunAll itself only fails when a check could not run at all.
func (d *Doctor) RunAll(ctx context.Context) error {
	if err := d.CheckPython(ctx); err != nil {
		fmt.Fprintf(d.Out, "  [WARN] Python check incomplete: %v\n", err)
	}
	d.CheckRequirements()
	d.CheckEnv()
	// Validation failures are already on the report as [FAIL] lines.
	_ = d.CheckManifest()
	_ = d.CheckDocuments()
	return nil
}

// CheckPython verifies the configured interpreter exists and, when the
// manifest sets a minimum, that its version satisfies it.
func (d *Doctor) CheckPython(ctx context.Context) error {
	fmt.Fprintln(d.Out, "Python check:")

	python := d.Project.Env.Python
	path, err := d.lookPath(python)
	if err != nil {
		fmt.Fprintf(d.Out, "  [MISS] %s not found in PATH\n", python)
		return nil
	}

	out, err := d.versionOutput(ctx, python)
	if err != nil {
		fmt.Fprintf(d.Out, "  [WARN] %s --version failed: %v\n", python, err)
		return nil
	}
	version, err := ParsePythonVersion(out)
	if err != nil {
		fmt.Fprintf(d.Out, "  [WARN] %s: %v\n", python, err)
		return nil
	}

	min := d.Project.Env.MinPython
	if min != "" {
		ok, err := MinVersionSatisfied(version, min)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(d.Out, "  [FAIL] %s %s is older than required %s\n", python, version, min)
			return nil
		}
	}
	fmt.Fprintf(d.Out, "  [ OK ] %s %s at %s\n", python, version, path)
	return nil
}

// CheckRequirements verifies the dependency manifest exists and counts
// its entries.
func (d *Doctor) CheckRequirements() {
	fmt.Fprintln(d.Out, "Requirements check:")

	path := filepath.Join(d.Dir, d.Project.Env.Requirements)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(d.Out, "  [MISS] %s does not exist\n", d.Project.Env.Requirements)
		return
	}

	list, err := reqs.ParseFile(path)
	if err != nil {
		fmt.Fprintf(d.Out, "  [FAIL] %s: %v\n", d.Project.Env.Requirements, err)
		return
	}
	fmt.Fprintf(d.Out, "  [ OK ] %s (%d dependencies)\n", d.Project.Env.Requirements, len(list))
}

// CheckEnv verifies the virtual environment directory looks like one.
func (d *Doctor) CheckEnv() {
	fmt.Fprintln(d.Out, "Environment check:")

	root := filepath.Join(d.Dir, d.Project.Env.Dir)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		fmt.Fprintf(d.Out, "  [MISS] %s does not exist (run 'x2doc' to create it)\n", d.Project.Env.Dir)
		return
	}

	if _, err := os.Stat(filepath.Join(root, "pyvenv.cfg")); os.IsNotExist(err) {
		fmt.Fprintf(d.Out, "  [WARN] %s exists but has no pyvenv.cfg; not a virtual environment?\n", d.Project.Env.Dir)
		return
	}
	interp := env.InterpreterPath(root)
	if _, err := os.Stat(interp); os.IsNotExist(err) {
		fmt.Fprintf(d.Out, "  [WARN] %s has no interpreter at %s\n", d.Project.Env.Dir, interp)
		return
	}
	fmt.Fprintf(d.Out, "  [ OK ] %s (interpreter present)\n", d.Project.Env.Dir)
}

// CheckManifest validates x2doc.yaml against its schema. The returned
// error reflects validation issues so scripted callers can fail on it.
func (d *Doctor) CheckManifest() error {
	fmt.Fprintln(d.Out, "Project manifest check:")

	path := filepath.Join(d.Dir, project.ManifestName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(d.Out, "  [INFO] %s not found; defaults in use\n", project.ManifestName)
		return nil
	}

	result, err := project.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(d.Out, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}
	if result.Valid {
		fmt.Fprintf(d.Out, "  [ OK ] %s is valid\n", project.ManifestName)
		return nil
	}

	fmt.Fprintf(d.Out, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(d.Out, "    - %s\n", issue)
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(result.Issues))
}

// CheckDocuments expands the manifest's document patterns and parses each
// match. The returned error counts the documents that failed to parse.
func (d *Doctor) CheckDocuments() error {
	fmt.Fprintln(d.Out, "Documents check:")

	if len(d.Project.Documents) == 0 {
		fmt.Fprintln(d.Out, "  [INFO] no documents configured")
		return nil
	}

	failed := 0
	for _, pattern := range d.Project.Documents {
		paths, err := project.ExpandDocuments(d.Dir, []string{pattern})
		if err != nil {
			fmt.Fprintf(d.Out, "  [FAIL] %s: %v\n", pattern, err)
			failed++
			continue
		}
		if len(paths) == 0 {
			fmt.Fprintf(d.Out, "  [WARN] %s matched nothing\n", pattern)
			continue
		}
		fmt.Fprintf(d.Out, "  [INFO] %s: %d document(s)\n", pattern, len(paths))
		for _, path := range paths {
			doc, err := document.ParseFile(path)
			if err != nil {
				fmt.Fprintf(d.Out, "  [FAIL] %s: %v\n", d.rel(path), err)
				failed++
				continue
			}
			counts := doc.Count()
			fmt.Fprintf(d.Out, "  [ OK ] %s (%d chapters, %d tables)\n", d.rel(path), counts.Chapters, counts.Tables)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed validation", failed)
	}
	return nil
}

// rel makes report paths relative to the project root where possible.
func (d *Doctor) rel(path string) string {
	if r, err := filepath.Rel(d.Dir, path); err == nil {
		return r
	}
	return path
}
