package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/x2doc-labs/x2doc/internal/branding"
	"github.com/x2doc-labs/x2doc/internal/docx"
	"github.com/x2doc-labs/x2doc/internal/env"
	"github.com/x2doc-labs/x2doc/internal/project"
)

//go:embed templates
var templateFS embed.FS

// Data holds the template variables available to project templates.
type Data struct {
	ProjectName  string  // e.g., "release-notes"
	CLIName      string  // root command name, for usage hints in comments
	EnvDir       string  // virtual environment directory
	Python       string  // interpreter used to create the environment
	Requirements string  // dependency manifest name
	MinPython    string  // doctor's minimum interpreter version, may be empty
	TableWidthCm float64 // total table width for document conversion
}

// Result holds the outcome of a project generation.
type Result struct {
	OutputDir string
	Files     []string // written, relative to OutputDir
	Skipped   []string // already present, left untouched
	Warnings  []string
}

// NewData returns template data for a project named name, with every
// other field at its built-in default.
func NewData(name string) *Data {
	return &Data{
		ProjectName:  name,
		CLIName:      branding.CLIName(),
		EnvDir:       env.DefaultDir,
		Python:       env.DefaultPython,
		Requirements: env.DefaultRequirements,
		TableWidthCm: docx.DefaultTableWidthCm,
	}
}

// Generate writes a starter project (manifest, requirements, sample
// document) into dir. An existing project manifest aborts the whole
// generation; any other file that already exists is skipped rather than
// overwritten.
func Generate(dir string, data *Data) (*Result, error) {
	if _, err := os.Stat(filepath.Join(dir, project.ManifestName)); err == nil {
		return nil, fmt.Errorf("project already initialized: %s exists", filepath.Join(dir, project.ManifestName))
	}

	templatesDir := "templates/project"
	entries, err := fs.ReadDir(templateFS, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", templatesDir, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{OutputDir: dir}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		tmplBytes, err := fs.ReadFile(templateFS, templatesDir+"/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", entry.Name(), err)
		}

		outName := outputPath(entry.Name())
		outPath := filepath.Join(dir, outName)

		if _, err := os.Stat(outPath); err == nil {
			result.Skipped = append(result.Skipped, outName)
			continue
		}

		tmpl, err := template.New(entry.Name()).Parse(string(tmplBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", entry.Name(), err)
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", filepath.Dir(outPath), err)
		}
		if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}

		result.Files = append(result.Files, outName)
	}

	// Validate the generated manifest against its JSON Schema.
	manifestPath := filepath.Join(dir, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		valResult, valErr := project.ValidateFile(manifestPath)
		if valErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Could not validate manifest: %v", valErr))
		} else if !valResult.Valid {
			for _, issue := range valResult.Issues {
				result.Warnings = append(result.Warnings, issue.String())
			}
		}
	}

	return result, nil
}

// outputPath maps a template name to its location in the generated
// project: sample documents land in docs/, everything else at the root.
func outputPath(templateName string) string {
	name := strings.TrimSuffix(templateName, ".tmpl")
	if strings.HasSuffix(name, ".x2doc") {
		return filepath.Join("docs", name)
	}
	return name
}
