package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/x2doc-labs/x2doc/internal/document"
	"github.com/x2doc-labs/x2doc/internal/logger"
)

// DefaultTableWidthCm is the total width a table's columns divide up.
const DefaultTableWidthCm = 15.0

// twipsPerCm converts centimeters to twentieths of a point.
const twipsPerCm = 567

// Writer renders documents into .docx archives. The document title becomes
// a Title-styled paragraph, chapters become HeadingN paragraphs by depth,
// and tables get a header row built from the column names.
type Writer struct {
	// TableWidthCm overrides the total table width in centimeters.
	// Zero means DefaultTableWidthCm.
	TableWidthCm float64
}

// WriteFile renders doc and writes the archive to path.
func (w *Writer) WriteFile(doc *document.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := w.Write(doc, f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// Write renders doc as a .docx archive to out.
func (w *Writer) Write(doc *document.Document, out io.Writer) error {
	zw := zip.NewWriter(out)

	static := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
	}
	for _, part := range static {
		fw, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("creating archive entry %s: %w", part.name, err)
		}
		if _, err := io.WriteString(fw, part.content); err != nil {
			return fmt.Errorf("writing archive entry %s: %w", part.name, err)
		}
	}

	fw, err := zw.Create("word/document.xml")
	if err != nil {
		return fmt.Errorf("creating archive entry word/document.xml: %w", err)
	}
	if err := w.writeDocumentXML(fw, doc); err != nil {
		return fmt.Errorf("writing word/document.xml: %w", err)
	}

	return zw.Close()
}

func (w *Writer) writeDocumentXML(out io.Writer, doc *document.Document) error {
	if _, err := io.WriteString(out, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(out)

	root := xml.StartElement{
		Name: xml.Name{Local: "w:document"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns:w"}, Value: wordMLNamespace}},
	}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	body := xml.StartElement{Name: xml.Name{Local: "w:body"}}
	if err := enc.EncodeToken(body); err != nil {
		return err
	}

	if err := enc.Encode(styledParagraph("Title", doc.Title)); err != nil {
		return err
	}
	for _, ch := range doc.Chapters {
		if err := w.encodeChapter(enc, ch, 1); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(body.End()); err != nil {
		return err
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	return enc.Flush()
}

func (w *Writer) encodeChapter(enc *xml.Encoder, ch *document.Chapter, level int) error {
	if err := enc.Encode(styledParagraph(headingStyleID(level), ch.Title)); err != nil {
		return err
	}
	for _, el := range ch.Elements {
		switch v := el.(type) {
		case *document.Paragraph:
			if err := enc.Encode(plainParagraph(v.Text)); err != nil {
				return err
			}
		case *document.Table:
			if len(v.Columns) == 0 {
				logger.Warn("table has no columns, skipping", "component", "docx", "chapter", ch.Title)
				continue
			}
			if err := enc.Encode(w.buildTable(v)); err != nil {
				return err
			}
		case *document.Chapter:
			if err := w.encodeChapter(enc, v, level+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// headingStyleID caps the depth at Heading9, the deepest style Word defines.
func headingStyleID(level int) string {
	if level > 9 {
		level = 9
	}
	return fmt.Sprintf("Heading%d", level)
}

// Marshal shapes for WordprocessingML. Prefixed names are emitted verbatim.
type wP struct {
	XMLName xml.Name `xml:"w:p"`
	Props   *wPPr    `xml:"w:pPr,omitempty"`
	Runs    []wR     `xml:"w:r"`
}

type wPPr struct {
	Style *wVal `xml:"w:pStyle,omitempty"`
}

type wVal struct {
	Val string `xml:"w:val,attr"`
}

type wR struct {
	Text *wT `xml:"w:t,omitempty"`
}

type wT struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Text  string `xml:",chardata"`
}

type wTbl struct {
	XMLName xml.Name `xml:"w:tbl"`
	Props   wTblPr   `xml:"w:tblPr"`
	Grid    wTblGrid `xml:"w:tblGrid"`
	Rows    []wTr    `xml:"w:tr"`
}

type wTblPr struct {
	Style *wVal  `xml:"w:tblStyle,omitempty"`
	Width *wTblW `xml:"w:tblW,omitempty"`
}

type wTblW struct {
	W    string `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type wTblGrid struct {
	Cols []wGridCol `xml:"w:gridCol"`
}

type wGridCol struct {
	W string `xml:"w:w,attr"`
}

type wTr struct {
	Cells []wTc `xml:"w:tc"`
}

type wTc struct {
	Props *wTcPr `xml:"w:tcPr,omitempty"`
	Paras []wP   `xml:"w:p"`
}

type wTcPr struct {
	Width *wTblW `xml:"w:tcW,omitempty"`
}

func plainParagraph(text string) wP {
	return wP{Runs: runs(text)}
}

func styledParagraph(styleID, text string) wP {
	return wP{Props: &wPPr{Style: &wVal{Val: styleID}}, Runs: runs(text)}
}

func runs(text string) []wR {
	if text == "" {
		return nil
	}
	t := &wT{Text: text}
	if text != strings.TrimSpace(text) {
		t.Space = "preserve"
	}
	return []wR{{Text: t}}
}

func (w *Writer) buildTable(t *document.Table) *wTbl {
	twips := w.columnTwips(t.Columns)

	tbl := &wTbl{
		Props: wTblPr{Style: &wVal{Val: "TableGrid"}},
	}
	for _, tw := range twips {
		tbl.Grid.Cols = append(tbl.Grid.Cols, wGridCol{W: strconv.Itoa(tw)})
	}

	header := wTr{}
	for i, col := range t.Columns {
		header.Cells = append(header.Cells, wTc{
			Props: &wTcPr{Width: &wTblW{W: strconv.Itoa(twips[i]), Type: "dxa"}},
			Paras: []wP{plainParagraph(col.Name)},
		})
	}
	tbl.Rows = append(tbl.Rows, header)

	// Data rows are padded or truncated to the column count, so every
	// row in the archive has the full set of cells.
	for _, row := range t.Rows {
		tr := wTr{}
		for i := range t.Columns {
			text := ""
			if i < len(row) {
				text = row[i]
			}
			tr.Cells = append(tr.Cells, wTc{Paras: []wP{plainParagraph(text)}})
		}
		tbl.Rows = append(tbl.Rows, tr)
	}
	return tbl
}

// columnTwips distributes the total table width across the columns.
// Declared percentage widths are honored; columns without one (or with an
// unparseable one) split the remaining percentage evenly.
func (w *Writer) columnTwips(cols []document.Column) []int {
	widthCm := w.TableWidthCm
	if widthCm <= 0 {
		widthCm = DefaultTableWidthCm
	}
	totalTwips := widthCm * twipsPerCm

	pcts := make([]float64, len(cols))
	var declared float64
	var undeclared int
	for i, col := range cols {
		if col.Width == "" {
			pcts[i] = -1
			undeclared++
			continue
		}
		pct, err := strconv.ParseFloat(col.Width, 64)
		if err != nil || pct < 0 {
			logger.Warn("invalid column width", "component", "docx", "column", col.Name, "width", col.Width)
			pcts[i] = -1
			undeclared++
			continue
		}
		pcts[i] = pct
		declared += pct
	}

	share := 0.0
	if undeclared > 0 {
		if remaining := 100 - declared; remaining > 0 {
			share = remaining / float64(undeclared)
		}
	}

	twips := make([]int, len(cols))
	for i, pct := range pcts {
		if pct < 0 {
			pct = share
		}
		twips[i] = int(totalTwips*pct/100 + 0.5)
	}
	return twips
}
