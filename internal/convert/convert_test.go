package convert

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/x2doc-labs/x2doc/internal/docx"
	"github.com/x2doc-labs/x2doc/internal/document"
	"github.com/x2doc-labs/x2doc/internal/project"
)

const sampleX2doc = `<?xml version="1.0" encoding="UTF-8"?>
<document title="Release Notes">
  <chapter title="Overview" id="ch-overview">
    <paragraph>What changed this release.</paragraph>
    <table>
      <columns>
        <column width="30">Component</column>
        <column width="70">Change</column>
      </columns>
      <rows>
        <row><cell>parser</cell><cell>faster</cell></row>
      </rows>
    </table>
    <chapter title="Details" id="ch-details">
      <paragraph>All the small things.</paragraph>
    </chapter>
  </chapter>
</document>
`

func testRegistry(t *testing.T, mutate func(*project.Project)) (dir string, out *bytes.Buffer, run func(name string, args ...string) error) {
	t.Helper()
	dir = t.TempDir()
	proj := project.Default()
	if mutate != nil {
		mutate(proj)
	}
	out = &bytes.Buffer{}
	reg := NewRegistry(dir, proj, out)
	run = func(name string, args ...string) error {
		return reg.Run(context.Background(), name, args)
	}
	return dir, out, run
}

func TestWordFromX2doc_EndToEnd(t *testing.T) {
	dir, out, run := testRegistry(t, nil)
	input := filepath.Join(dir, "notes.x2doc")
	output := filepath.Join(dir, "notes.docx")
	if err := os.WriteFile(input, []byte(sampleX2doc), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run("word-from-x2doc", input, output); err != nil {
		t.Fatalf("run: %v", err)
	}

	report := out.String()
	validateAt := strings.Index(report, "Executing task: validate-x2doc")
	convertAt := strings.Index(report, "Executing task: word-from-x2doc")
	if validateAt < 0 || convertAt < 0 || validateAt > convertAt {
		t.Errorf("pre-task did not run first:\n%s", report)
	}
	if !strings.Contains(report, "2 chapters, 2 paragraphs, 1 tables") {
		t.Errorf("no validation report:\n%s", report)
	}
	if !strings.Contains(report, "Created "+output) {
		t.Errorf("no completion message:\n%s", report)
	}

	doc, err := docx.ReadFile(output)
	if err != nil {
		t.Fatalf("reading produced docx: %v", err)
	}
	if doc.Title != "Release Notes" {
		t.Errorf("Title = %q", doc.Title)
	}
	if len(doc.Chapters) != 1 || doc.Chapters[0].Title != "Overview" {
		t.Fatalf("chapters = %+v", doc.Chapters)
	}
}

func TestWordFromX2doc_MissingInput(t *testing.T) {
	dir, out, run := testRegistry(t, nil)
	input := filepath.Join(dir, "absent.x2doc")
	output := filepath.Join(dir, "absent.docx")

	if err := run("word-from-x2doc", input, output); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Count(out.String(), "File "+input+" does not exist"); got != 1 {
		t.Errorf("missing-input message printed %d times:\n%s", got, out.String())
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("output created despite missing input, stat err = %v", err)
	}
}

func TestWordFromX2doc_OverwritesExistingOutput(t *testing.T) {
	dir, out, run := testRegistry(t, nil)
	input := filepath.Join(dir, "notes.x2doc")
	output := filepath.Join(dir, "notes.docx")
	if err := os.WriteFile(input, []byte(sampleX2doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(output, []byte("stale bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run("word-from-x2doc", input, output); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "File "+output+" already exists. Will be overwritten.") {
		t.Errorf("no overwrite notice:\n%s", out.String())
	}
	if _, err := docx.ReadFile(output); err != nil {
		t.Errorf("output not replaced with a valid document: %v", err)
	}
}

func TestX2docFromWord_EndToEnd(t *testing.T) {
	dir, out, run := testRegistry(t, nil)
	input := filepath.Join(dir, "in.docx")
	output := filepath.Join(dir, "out.x2doc")

	src := &document.Document{
		Title: "Deployment Analysis",
		Chapters: []*document.Chapter{
			{
				Title: "Topology",
				ID:    "ignored-on-word-side",
				Elements: []document.Element{
					&document.Paragraph{Text: "Two regions."},
					&document.Chapter{
						Title:    "Failover",
						ID:       "also-ignored",
						Elements: []document.Element{&document.Paragraph{Text: "Automatic."}},
					},
				},
			},
		},
	}
	w := docx.Writer{}
	if err := w.WriteFile(src, input); err != nil {
		t.Fatal(err)
	}

	if err := run("x2doc-from-word", input, output); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Created "+output) {
		t.Errorf("no completion message:\n%s", out.String())
	}

	doc, err := document.ParseFile(output)
	if err != nil {
		t.Fatalf("parsing produced x2doc: %v", err)
	}
	if doc.Title != "Deployment Analysis" {
		t.Errorf("Title = %q", doc.Title)
	}
	if len(doc.Chapters) != 1 || doc.Chapters[0].Title != "Topology" {
		t.Fatalf("chapters = %+v", doc.Chapters)
	}
	// Word carries no chapter IDs, so the reader assigns block-indexed ones.
	if doc.Chapters[0].ID != "chapter-1" {
		t.Errorf("ID = %q, want chapter-1", doc.Chapters[0].ID)
	}
}

func TestX2docFromWord_MissingInput(t *testing.T) {
	dir, out, run := testRegistry(t, nil)
	input := filepath.Join(dir, "absent.docx")

	if err := run("x2doc-from-word", input, filepath.Join(dir, "out.x2doc")); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "File "+input+" does not exist") {
		t.Errorf("output = %q", out.String())
	}
}

func TestValidateDocs(t *testing.T) {
	dir, out, run := testRegistry(t, func(p *project.Project) {
		p.Documents = []string{"docs/*.x2doc"}
	})
	docsDir := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docsDir, "good.x2doc"), []byte(sampleX2doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docsDir, "bad.x2doc"), []byte("<document"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := run("validate-docs")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 documents failed validation") {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out.String(), "good.x2doc") {
		t.Errorf("no report for the valid document:\n%s", out.String())
	}
}

func TestValidateDocs_NoneConfigured(t *testing.T) {
	_, out, run := testRegistry(t, nil)

	if err := run("validate-docs"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "No documents configured") {
		t.Errorf("output = %q", out.String())
	}
}

func TestValidateX2doc_UsageError(t *testing.T) {
	_, _, run := testRegistry(t, nil)

	err := run("validate-x2doc")
	if err == nil || !strings.Contains(err.Error(), "usage: validate-x2doc") {
		t.Errorf("err = %v", err)
	}
}
