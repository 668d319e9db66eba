package document

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/x2doc-labs/x2doc/internal/logger"
)

// Parse decodes x2doc XML into a Document. Missing title/id attributes
// fall back to the package defaults; unknown elements inside a chapter
// are skipped with a warning.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing x2doc XML: %w", err)
	}
	return &doc, nil
}

// ParseFile reads path and decodes it as x2doc XML.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Marshal renders the document as indented x2doc XML with an XML header.
func Marshal(d *Document) ([]byte, error) {
	out, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding x2doc XML: %w", err)
	}
	out = append(out, '\n')
	return append([]byte(xml.Header), out...), nil
}

// xmlTable is the wire shape of a table element.
type xmlTable struct {
	Columns []xmlColumn `xml:"columns>column"`
	Rows    []xmlRow    `xml:"rows>row"`
}

type xmlColumn struct {
	Width string `xml:"width,attr,omitempty"`
	Name  string `xml:",chardata"`
}

type xmlRow struct {
	Cells []string `xml:"cell"`
}

type xmlParagraph struct {
	Text string `xml:",chardata"`
}

// UnmarshalXML accepts any root element carrying a title attribute and
// chapter children, matching the tolerant reader this format always had.
func (d *Document) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	d.Title = DefaultDocumentTitle
	for _, attr := range start.Attr {
		if attr.Name.Local == "title" {
			d.Title = strings.TrimSpace(attr.Value)
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "chapter" {
				// Only chapters are meaningful at document level.
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}
			ch := &Chapter{}
			if err := ch.UnmarshalXML(dec, t); err != nil {
				return err
			}
			d.Chapters = append(d.Chapters, ch)
		case xml.EndElement:
			return nil
		}
	}
}

func (c *Chapter) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	c.Title = DefaultChapterTitle
	c.ID = DefaultChapterID
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "title":
			c.Title = strings.TrimSpace(attr.Value)
		case "id":
			c.ID = attr.Value
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "chapter":
				sub := &Chapter{}
				if err := sub.UnmarshalXML(dec, t); err != nil {
					return err
				}
				c.Elements = append(c.Elements, sub)
			case "paragraph":
				var raw xmlParagraph
				if err := dec.DecodeElement(&raw, &t); err != nil {
					return err
				}
				c.Elements = append(c.Elements, &Paragraph{Text: strings.TrimSpace(raw.Text)})
			case "table":
				var raw xmlTable
				if err := dec.DecodeElement(&raw, &t); err != nil {
					return err
				}
				c.Elements = append(c.Elements, tableFromXML(raw))
			default:
				logger.Warn("unknown element in chapter", "component", "document", "tag", t.Name.Local, "chapter", c.Title)
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

func tableFromXML(raw xmlTable) *Table {
	t := &Table{}
	for _, col := range raw.Columns {
		t.Columns = append(t.Columns, Column{Name: col.Name, Width: col.Width})
	}
	for _, row := range raw.Rows {
		cells := row.Cells
		if cells == nil {
			cells = []string{}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func tableToXML(t *Table) xmlTable {
	var raw xmlTable
	for _, col := range t.Columns {
		raw.Columns = append(raw.Columns, xmlColumn{Name: col.Name, Width: col.Width})
	}
	for _, row := range t.Rows {
		raw.Rows = append(raw.Rows, xmlRow{Cells: row})
	}
	return raw
}

func (d *Document) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "document"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "title"}, Value: d.Title}},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, ch := range d.Chapters {
		if err := enc.Encode(ch); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func (c *Chapter) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "chapter"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "title"}, Value: c.Title},
			{Name: xml.Name{Local: "id"}, Value: c.ID},
		},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, el := range c.Elements {
		switch v := el.(type) {
		case *Chapter:
			if err := enc.Encode(v); err != nil {
				return err
			}
		case *Paragraph:
			para := xml.StartElement{Name: xml.Name{Local: "paragraph"}}
			if err := enc.EncodeElement(xmlParagraph{Text: v.Text}, para); err != nil {
				return err
			}
		case *Table:
			tbl := xml.StartElement{Name: xml.Name{Local: "table"}}
			if err := enc.EncodeElement(tableToXML(v), tbl); err != nil {
				return err
			}
		}
	}
	return enc.EncodeToken(start.End())
}
