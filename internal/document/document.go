package document

// Defaults applied when the XML omits the corresponding attribute.
const (
	DefaultDocumentTitle = "Untitled Document"
	DefaultChapterTitle  = "Untitled Chapter"
	DefaultChapterID     = "unknown-id"
)

// Document is the root of the model: a title plus top-level chapters.
type Document struct {
	Title    string
	Chapters []*Chapter
}

// Chapter groups paragraphs, tables, and subchapters under a heading.
// Element order is significant and preserved through both encodings.
type Chapter struct {
	Title    string
	ID       string
	Elements []Element
}

// Element is one block inside a chapter: *Paragraph, *Table, or a
// nested *Chapter.
type Element interface {
	isElement()
}

// Paragraph is a plain block of text.
type Paragraph struct {
	Text string
}

// Table holds a header of named columns and string-valued data rows.
type Table struct {
	Columns []Column
	Rows    [][]string
}

// Column describes one table column. Width is a percentage of the total
// table width (e.g. "30"), or empty when unknown.
type Column struct {
	Name  string
	Width string
}

func (*Chapter) isElement()   {}
func (*Paragraph) isElement() {}
func (*Table) isElement()     {}

// Walk visits every chapter in the document depth-first, in document order.
func (d *Document) Walk(visit func(c *Chapter)) {
	for _, ch := range d.Chapters {
		ch.walk(visit)
	}
}

func (c *Chapter) walk(visit func(c *Chapter)) {
	visit(c)
	for _, el := range c.Elements {
		if sub, ok := el.(*Chapter); ok {
			sub.walk(visit)
		}
	}
}

// Counts tallies the document's chapters, paragraphs, and tables.
type Counts struct {
	Chapters   int
	Paragraphs int
	Tables     int
}

// Count returns element totals across the whole document.
func (d *Document) Count() Counts {
	var n Counts
	d.Walk(func(c *Chapter) {
		n.Chapters++
		for _, el := range c.Elements {
			switch el.(type) {
			case *Paragraph:
				n.Paragraphs++
			case *Table:
				n.Tables++
			}
		}
	})
	return n
}
