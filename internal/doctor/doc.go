// Package doctor diagnoses a project setup: the Python interpreter, the
// dependency manifest, the virtual environment, the project manifest,
// and the configured documents. Checks print a report and keep going;
// only checks whose outcome callers act on return errors.
package doctor
