// Package project loads and validates the x2doc.yaml project manifest.
// The manifest configures the Python environment bootstrap, document
// conversion defaults, and the document patterns the validate tasks
// operate on. A directory without a manifest gets sensible defaults.
package project
