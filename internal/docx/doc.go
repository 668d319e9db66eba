// Package docx reads and writes Word (.docx) archives for the document
// model. The writer emits a minimal WordprocessingML package (content
// types, relationships, styles, document body); the reader walks the body
// blocks of any .docx and rebuilds the chapter tree from heading styles.
package docx
