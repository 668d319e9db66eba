package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/x2doc-labs/x2doc/internal/document"
	"github.com/x2doc-labs/x2doc/internal/logger"
)

// ReadFile parses a .docx archive into the document model.
func ReadFile(path string) (*document.Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer zr.Close()
	return readArchive(&zr.Reader)
}

// Read parses a .docx archive from r.
func Read(r io.ReaderAt, size int64) (*document.Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening docx archive: %w", err)
	}
	return readArchive(zr)
}

func readArchive(zr *zip.Reader) (*document.Document, error) {
	styles, err := readStyles(zr)
	if err != nil {
		return nil, err
	}

	part := findPart(zr, "word/document.xml")
	if part == nil {
		return nil, errors.New("invalid docx: missing word/document.xml")
	}
	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("opening word/document.xml: %w", err)
	}
	defer rc.Close()

	blocks, err := parseBody(rc, styles)
	if err != nil {
		return nil, fmt.Errorf("parsing word/document.xml: %w", err)
	}
	return assemble(blocks), nil
}

// blockKind discriminates the two block-level members of a docx body.
type blockKind int

const (
	paragraphBlock blockKind = iota
	tableBlock
)

// block is one body-level item in document order.
type block struct {
	kind  blockKind
	style string     // resolved style name, or raw style id when unmapped
	text  string     // paragraphBlock only
	rows  [][]string // tableBlock only
}

// assemble turns the flat block list into a titled chapter tree. A
// Title-styled paragraph seen before the chapters begin sets the document
// title; everything else is handed to the heading-level parser.
func assemble(blocks []block) *document.Document {
	log := logger.ForComponent("docx")

	title := ""
	var chapters []*document.Chapter

	i := 0
	for i < len(blocks) {
		b := blocks[i]
		if b.kind == paragraphBlock && isTitleStyle(b.style) {
			title = strings.TrimSpace(b.text)
			i++
			continue
		}
		var parsed []*document.Chapter
		parsed, i = parseChapters(blocks, i, 1)
		chapters = append(chapters, parsed...)
	}

	if title == "" {
		title = document.DefaultDocumentTitle
		log.Warn("no title paragraph found, using default")
	}
	log.Debug("assembled document", "title", title, "chapters", len(chapters))
	return &document.Document{Title: title, Chapters: chapters}
}

// parseChapters consumes blocks starting at index at the given heading
// level. It returns when a shallower heading appears or the blocks end,
// along with the index of the first unconsumed block.
func parseChapters(blocks []block, index, level int) ([]*document.Chapter, int) {
	var chapters []*document.Chapter
	var current *document.Chapter

	for index < len(blocks) {
		b := blocks[index]

		if b.kind == tableBlock {
			if current != nil {
				current.Elements = append(current.Elements, tableFromRows(b.rows))
			}
			index++
			continue
		}

		if !hasHeadingPrefix(b.style) {
			if text := strings.TrimSpace(b.text); text != "" && current != nil {
				current.Elements = append(current.Elements, &document.Paragraph{Text: text})
			}
			index++
			continue
		}

		hl, ok := headingLevel(b.style)
		if !ok {
			logger.Warn("invalid heading style", "component", "docx", "style", b.style)
			index++
			continue
		}

		switch {
		case hl < level:
			// Belongs to an ancestor chapter.
			if current != nil {
				chapters = append(chapters, current)
			}
			return chapters, index
		case hl == level:
			if current != nil {
				chapters = append(chapters, current)
			}
			current = &document.Chapter{
				Title: strings.TrimSpace(b.text),
				ID:    fmt.Sprintf("chapter-%d", index),
			}
			index++
		default:
			// Deeper heading starts a subchapter run. Content before
			// any same-level heading has no parent and is dropped.
			var subs []*document.Chapter
			subs, index = parseChapters(blocks, index, hl)
			if current != nil {
				for _, sub := range subs {
					current.Elements = append(current.Elements, sub)
				}
			}
		}
	}

	if current != nil {
		chapters = append(chapters, current)
	}
	return chapters, index
}

// tableFromRows maps the first row to column names and the rest to data.
// Column widths are not recoverable from Word and stay empty.
func tableFromRows(rows [][]string) *document.Table {
	t := &document.Table{}
	if len(rows) == 0 {
		return t
	}
	for _, name := range rows[0] {
		t.Columns = append(t.Columns, document.Column{Name: strings.TrimSpace(name)})
	}
	for _, row := range rows[1:] {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func isTitleStyle(style string) bool {
	return strings.EqualFold(strings.TrimSpace(style), "Title")
}

func hasHeadingPrefix(style string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(style)), "heading")
}

// headingLevel parses the outline level from a style name such as
// "heading 1", "Heading 2", or a bare "Heading3" style id.
func headingLevel(style string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(style))
	rest := strings.TrimSpace(strings.TrimPrefix(s, "heading"))
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// parseBody locates the body element and returns its blocks in order.
func parseBody(r io.Reader, styles map[string]string) ([]block, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, errors.New("invalid docx: no body element")
		}
		if err != nil {
			return nil, err
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "body" {
			return parseBlocks(dec, styles)
		}
	}
}

// parseBlocks consumes the children of the current element until its end
// tag, collecting paragraphs and tables and skipping everything else
// (section properties, bookmarks, and the like).
func parseBlocks(dec *xml.Decoder, styles map[string]string) ([]block, error) {
	var blocks []block
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				styleID, text, err := parseParagraph(dec)
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, block{
					kind:  paragraphBlock,
					style: resolveStyle(styleID, styles),
					text:  text,
				})
			case "tbl":
				rows, err := parseTable(dec)
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, block{kind: tableBlock, rows: rows})
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			return blocks, nil
		}
	}
}

// parseParagraph consumes a w:p element, returning its style id and the
// concatenated run text. Tabs and breaks map to "\t" and "\n".
func parseParagraph(dec *xml.Decoder) (styleID, text string, err error) {
	var sb strings.Builder
	depth := 1
	inText := 0

	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "pStyle":
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						styleID = attr.Value
					}
				}
			case "t":
				inText++
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "t" {
				inText--
			}
		case xml.CharData:
			if inText > 0 {
				sb.Write(t)
			}
		}
	}
	return styleID, sb.String(), nil
}

// parseTable consumes a w:tbl element and returns its cell text by row.
// A cell's paragraphs are joined with newlines. Nested tables are
// flattened away, matching how cell text has always been extracted.
func parseTable(dec *xml.Decoder) ([][]string, error) {
	var rows [][]string
	var row []string
	var cell []string
	inRow := false
	inCell := false
	depth := 1

	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case "tr":
				depth++
				inRow = true
				row = []string{}
			case "tc":
				depth++
				inCell = true
				cell = nil
			case "p":
				if !inCell {
					if err := dec.Skip(); err != nil {
						return nil, err
					}
					continue
				}
				_, text, err := parseParagraph(dec)
				if err != nil {
					return nil, err
				}
				cell = append(cell, text)
			default:
				depth++
			}
		case xml.EndElement:
			depth--
			switch t.Name.Local {
			case "tc":
				if inCell && inRow {
					row = append(row, strings.Join(cell, "\n"))
				}
				inCell = false
			case "tr":
				if inRow {
					rows = append(rows, row)
				}
				inRow = false
			}
		}
	}
	return rows, nil
}

// resolveStyle maps a style id to its display name via styles.xml,
// falling back to the raw id when the archive carries no mapping.
func resolveStyle(styleID string, styles map[string]string) string {
	if styleID == "" {
		return ""
	}
	if name, ok := styles[styleID]; ok {
		return name
	}
	return styleID
}

// readStyles maps style ids to display names from word/styles.xml.
// A missing part is tolerated; headings then resolve by style id.
func readStyles(zr *zip.Reader) (map[string]string, error) {
	part := findPart(zr, "word/styles.xml")
	if part == nil {
		return nil, nil
	}
	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("opening word/styles.xml: %w", err)
	}
	defer rc.Close()

	var parsed struct {
		Styles []struct {
			ID   string `xml:"styleId,attr"`
			Name struct {
				Val string `xml:"val,attr"`
			} `xml:"name"`
		} `xml:"style"`
	}
	if err := xml.NewDecoder(rc).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing word/styles.xml: %w", err)
	}

	m := make(map[string]string, len(parsed.Styles))
	for _, s := range parsed.Styles {
		if s.ID != "" && s.Name.Val != "" {
			m[s.ID] = s.Name.Val
		}
	}
	return m, nil
}

func findPart(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}
