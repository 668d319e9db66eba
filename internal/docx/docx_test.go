package docx

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/x2doc-labs/x2doc/internal/document"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	orig := &document.Document{
		Title: "Deployment Analysis",
		Chapters: []*document.Chapter{
			{
				Title: "Overview",
				ID:    "chapter-1",
				Elements: []document.Element{
					&document.Paragraph{Text: "The system consists of three nodes."},
					&document.Table{
						Columns: []document.Column{{Name: "Node", Width: "30"}, {Name: "Role", Width: "70"}},
						Rows:    [][]string{{"alpha", "primary"}, {"beta", "replica"}},
					},
					&document.Chapter{
						Title: "Details",
						ID:    "chapter-4",
						Elements: []document.Element{
							&document.Paragraph{Text: "Further reading."},
						},
					},
				},
			},
			{
				Title: "Outro",
				ID:    "chapter-6",
				Elements: []document.Element{
					&document.Paragraph{Text: "Done."},
				},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "out.docx")
	w := &Writer{}
	if err := w.WriteFile(orig, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	// Widths do not survive the trip to Word; clear them for comparison.
	want := orig
	tbl := want.Chapters[0].Elements[1].(*document.Table)
	for i := range tbl.Columns {
		tbl.Columns[i].Width = ""
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestWrite_SkipsTableWithoutColumns(t *testing.T) {
	doc := &document.Document{
		Title: "t",
		Chapters: []*document.Chapter{{
			Title: "c",
			ID:    "chapter-1",
			Elements: []document.Element{
				&document.Table{Rows: [][]string{{"orphan"}}},
				&document.Paragraph{Text: "kept"},
			},
		}},
	}

	path := filepath.Join(t.TempDir(), "out.docx")
	if err := (&Writer{}).WriteFile(doc, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	els := got.Chapters[0].Elements
	if len(els) != 1 {
		t.Fatalf("elements = %d, want 1 (table skipped)", len(els))
	}
	if p, ok := els[0].(*document.Paragraph); !ok || p.Text != "kept" {
		t.Errorf("surviving element = %#v", els[0])
	}
}

func TestRead_MissingDocumentPart(t *testing.T) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	f, err := zw.Create("word/other.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("<x/>")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len())); err == nil {
		t.Error("expected error for archive without word/document.xml")
	}
}

func TestRead_StyleIDFallback(t *testing.T) {
	// No styles.xml: heading detection falls back to raw style ids.
	// Also exercises run concatenation across split runs.
	body := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>My Doc</w:t></w:r></w:p>
    <w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Chap</w:t></w:r><w:r><w:t>ter</w:t></w:r></w:p>
    <w:p><w:r><w:t>Body text.</w:t></w:r></w:p>
    <w:sectPr/>
  </w:body>
</w:document>`

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(body)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	doc, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if doc.Title != "My Doc" {
		t.Errorf("title = %q, want %q", doc.Title, "My Doc")
	}
	if len(doc.Chapters) != 1 || doc.Chapters[0].Title != "Chapter" {
		t.Fatalf("chapters = %#v", doc.Chapters)
	}
	p, ok := doc.Chapters[0].Elements[0].(*document.Paragraph)
	if !ok || p.Text != "Body text." {
		t.Errorf("paragraph = %#v", doc.Chapters[0].Elements[0])
	}
}

func TestParseChapters_Nesting(t *testing.T) {
	blocks := []block{
		{kind: paragraphBlock, style: "heading 1", text: "A"},
		{kind: paragraphBlock, style: "heading 2", text: "A.1"},
		{kind: paragraphBlock, text: "deep text"},
		{kind: paragraphBlock, style: "heading 2", text: "A.2"},
		{kind: paragraphBlock, style: "heading 1", text: "B"},
	}

	chapters, idx := parseChapters(blocks, 0, 1)
	if idx != len(blocks) {
		t.Errorf("idx = %d, want %d", idx, len(blocks))
	}
	if len(chapters) != 2 {
		t.Fatalf("chapters = %d, want 2", len(chapters))
	}

	a := chapters[0]
	if a.Title != "A" || len(a.Elements) != 2 {
		t.Fatalf("chapter A = %#v", a)
	}
	a1, ok := a.Elements[0].(*document.Chapter)
	if !ok || a1.Title != "A.1" {
		t.Fatalf("A.1 = %#v", a.Elements[0])
	}
	if p, ok := a1.Elements[0].(*document.Paragraph); !ok || p.Text != "deep text" {
		t.Errorf("A.1 content = %#v", a1.Elements)
	}
	if a2, ok := a.Elements[1].(*document.Chapter); !ok || a2.Title != "A.2" {
		t.Errorf("A.2 = %#v", a.Elements[1])
	}
	if chapters[1].Title != "B" {
		t.Errorf("chapter B = %#v", chapters[1])
	}
}

func TestParseChapters_DropsOrphanContent(t *testing.T) {
	// A deeper heading before any same-level heading has no parent;
	// its subtree parses but attaches nowhere.
	blocks := []block{
		{kind: paragraphBlock, style: "heading 2", text: "Orphan"},
		{kind: paragraphBlock, style: "heading 1", text: "Top"},
		{kind: tableBlock, rows: [][]string{{"H"}, {"v"}}},
	}

	chapters, _ := parseChapters(blocks, 0, 1)
	if len(chapters) != 1 || chapters[0].Title != "Top" {
		t.Fatalf("chapters = %#v", chapters)
	}
	if len(chapters[0].Elements) != 1 {
		t.Fatalf("Top elements = %#v", chapters[0].Elements)
	}
	tbl, ok := chapters[0].Elements[0].(*document.Table)
	if !ok {
		t.Fatalf("element = %T, want *document.Table", chapters[0].Elements[0])
	}
	if tbl.Columns[0].Name != "H" || tbl.Rows[0][0] != "v" {
		t.Errorf("table = %#v", tbl)
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		level int
		ok    bool
	}{
		{"heading 1", 1, true},
		{"Heading 3", 3, true},
		{"Heading9", 9, true},
		{"heading  2", 2, true},
		{"HeadingX", 0, false},
		{"heading", 0, false},
		{"Normal", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		level, ok := headingLevel(tt.style)
		if level != tt.level || ok != tt.ok {
			t.Errorf("headingLevel(%q) = (%d, %v), want (%d, %v)", tt.style, level, ok, tt.level, tt.ok)
		}
	}
}

func TestColumnTwips(t *testing.T) {
	tests := []struct {
		name    string
		widthCm float64
		cols    []document.Column
		want    []int
	}{
		{
			name: "declared widths",
			cols: []document.Column{{Name: "a", Width: "30"}, {Name: "b", Width: "70"}},
			want: []int{2552, 5954}, // 30% and 70% of 15cm in twips
		},
		{
			name:    "custom table width",
			widthCm: 10,
			cols:    []document.Column{{Name: "a", Width: "50"}, {Name: "b", Width: "50"}},
			want:    []int{2835, 2835},
		},
		{
			name: "missing widths share the remainder",
			cols: []document.Column{{Name: "a", Width: "50"}, {Name: "b"}, {Name: "c"}},
			want: []int{4253, 2126, 2126},
		},
		{
			name: "invalid width treated as missing",
			cols: []document.Column{{Name: "a", Width: "wide"}},
			want: []int{8505},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Writer{TableWidthCm: tt.widthCm}
			got := w.columnTwips(tt.cols)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("columnTwips = %v, want %v", got, tt.want)
			}
		})
	}
}
