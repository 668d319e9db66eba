// Package document defines the x2doc document model (documents, chapters,
// paragraphs, tables) and its XML encoding. The model is the hub the
// converters share: the docx package renders it to Word archives and reads
// it back, and this package handles the .x2doc XML form.
package document
