package reqs

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	manifest := strings.Join([]string{
		"# generated by pip-compile",
		"",
		"python-docx==1.1.2",
		"lxml>=4.9,<6  # transitive pin",
		"typing-extensions; python_version < \"3.11\"",
		"requests[security]~=2.31",
		"-r extra-requirements.txt",
		"--index-url https://pypi.example.com/simple",
		"tomli @ https://files.example.com/tomli-2.0.1.tar.gz",
		"invoke",
	}, "\n")

	got, err := Parse(strings.NewReader(manifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []Requirement{
		{Name: "python-docx", Spec: "==1.1.2"},
		{Name: "lxml", Spec: ">=4.9,<6"},
		{Name: "typing-extensions", Marker: "python_version < \"3.11\""},
		{Name: "requests[security]", Spec: "~=2.31"},
		{Name: "tomli"},
		{Name: "invoke"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestParse_CommentHandling(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Requirement
	}{
		{"whole line", "# nothing here", nil},
		{"trailing", "pyyaml  # keep in sync with ci", []Requirement{{Name: "pyyaml"}}},
		{"hash inside url stays", "pkg @ https://example.com/a#sha256=abc", []Requirement{{Name: "pkg"}}},
		{"marker only", "; python_version > \"3\"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.line))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRequirement_String(t *testing.T) {
	if got := (Requirement{Name: "invoke"}).String(); got != "invoke" {
		t.Errorf("String() = %q", got)
	}
	if got := (Requirement{Name: "lxml", Spec: ">=4.9"}).String(); got != "lxml>=4.9" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requirements.txt")
	if err := os.WriteFile(path, []byte("python-docx==1.1.2\ninvoke\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d requirements, want 2", len(got))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("ParseFile succeeded on a missing manifest")
	}
}
