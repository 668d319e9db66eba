// Package convert registers the document conversion tasks: x2doc XML to
// Word, Word to x2doc XML, and validation of project documents. The
// tasks share one convention: a missing input file stops the task with a
// message rather than an error, and an existing output file is announced
// and replaced.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/x2doc-labs/x2doc/internal/document"
	"github.com/x2doc-labs/x2doc/internal/docx"
	"github.com/x2doc-labs/x2doc/internal/project"
	"github.com/x2doc-labs/x2doc/internal/task"
)

var printer = message.NewPrinter(language.English)

type tasks struct {
	dir  string
	proj *project.Project
	out  io.Writer
}

// NewRegistry builds the task registry for the project rooted at dir.
// Progress and reports go to out.
func NewRegistry(dir string, proj *project.Project, out io.Writer) *task.Registry {
	t := &tasks{dir: dir, proj: proj, out: out}

	reg := task.NewRegistry()
	reg.Out = out
	reg.Register(&task.Task{
		Name:    "validate-x2doc",
		Summary: "Parse an x2doc XML file and report its element counts",
		Action:  t.validateX2doc,
	})
	reg.Register(&task.Task{
		Name:    "word-from-x2doc",
		Summary: "Convert an x2doc XML file to a Word document",
		Pre:     []string{"validate-x2doc"},
		Action:  t.wordFromX2doc,
	})
	reg.Register(&task.Task{
		Name:    "x2doc-from-word",
		Summary: "Convert a Word document to an x2doc XML file",
		Action:  t.x2docFromWord,
	})
	reg.Register(&task.Task{
		Name:    "validate-docs",
		Summary: "Validate every document matched by the project manifest",
		Action:  t.validateDocs,
	})
	return reg
}

func (t *tasks) validateX2doc(_ context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: validate-x2doc <file.x2doc>")
	}
	input := args[0]
	if _, err := os.Stat(input); os.IsNotExist(err) {
		fmt.Fprintf(t.out, "File %s does not exist\n", input)
		return nil
	}
	doc, err := document.ParseFile(input)
	if err != nil {
		return fmt.Errorf("validating %s: %w", input, err)
	}
	t.report(input, doc)
	return nil
}

func (t *tasks) wordFromX2doc(_ context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: word-from-x2doc <input.x2doc> <output.docx>")
	}
	input, output := args[0], args[1]

	doc, err := document.ParseFile(input)
	if errors.Is(err, os.ErrNotExist) {
		// The validate-x2doc pre-task already reported the missing input.
		return nil
	}
	if err != nil {
		return err
	}
	if err := t.clearOutput(output); err != nil {
		return err
	}

	w := docx.Writer{TableWidthCm: t.proj.Document.TableWidthCm}
	if err := w.WriteFile(doc, output); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(t.out, "Created %s\n", output)
	return nil
}

func (t *tasks) x2docFromWord(_ context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: x2doc-from-word <input.docx> <output.x2doc>")
	}
	input, output := args[0], args[1]

	if _, err := os.Stat(input); os.IsNotExist(err) {
		fmt.Fprintf(t.out, "File %s does not exist\n", input)
		return nil
	}
	if err := t.clearOutput(output); err != nil {
		return err
	}

	doc, err := docx.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}
	data, err := document.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(t.out, "Created %s\n", output)
	return nil
}

func (t *tasks) validateDocs(_ context.Context, args []string) error {
	if len(t.proj.Documents) == 0 {
		fmt.Fprintln(t.out, "No documents configured in "+project.ManifestName)
		return nil
	}
	paths, err := project.ExpandDocuments(t.dir, t.proj.Documents)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(t.out, "No documents matched")
		return nil
	}

	failed := 0
	for _, path := range paths {
		doc, err := document.ParseFile(path)
		if err != nil {
			fmt.Fprintf(t.out, "%v\n", err)
			failed++
			continue
		}
		t.report(path, doc)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed validation", failed, len(paths))
	}
	return nil
}

// clearOutput announces and removes an existing output file so the
// conversion always writes a fresh one.
func (t *tasks) clearOutput(path string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(t.out, "File %s already exists. Will be overwritten.\n", path)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}

func (t *tasks) report(label string, doc *document.Document) {
	counts := doc.Count()
	printer.Fprintf(t.out, "%s: %q, %d chapters, %d paragraphs, %d tables\n",
		label, doc.Title, counts.Chapters, counts.Paragraphs, counts.Tables)
}
