// Package reqs reads pip requirements manifests far enough to report
// which dependencies an environment will install. It is a line reader,
// not a resolver: options, markers, and comments are recognized and set
// aside rather than interpreted.
package reqs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Requirement is one dependency line from a requirements manifest.
type Requirement struct {
	// Name is the distribution as written, including any extras.
	Name string
	// Spec is the version constraint, for example ">=2.31,<3".
	Spec string
	// Marker is the environment marker after ";", if any.
	Marker string
}

func (r Requirement) String() string {
	if r.Spec == "" {
		return r.Name
	}
	return r.Name + r.Spec
}

// ParseFile reads the manifest at path.
func ParseFile(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	list, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return list, nil
}

// Parse reads dependency lines from r. Blank lines, comments, and pip
// options (lines starting with "-") are skipped.
func Parse(r io.Reader) ([]Requirement, error) {
	var list []Requirement
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		req, ok := parseLine(scanner.Text())
		if ok {
			list = append(list, req)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func parseLine(line string) (Requirement, bool) {
	line = stripComment(line)
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "-") {
		return Requirement{}, false
	}

	var req Requirement
	if body, marker, ok := strings.Cut(line, ";"); ok {
		req.Marker = strings.TrimSpace(marker)
		line = strings.TrimSpace(body)
		if line == "" {
			return Requirement{}, false
		}
	}

	// URL requirements ("pkg @ https://..." or bare VCS URLs) carry no
	// parseable version constraint.
	if name, _, ok := strings.Cut(line, "@"); ok && strings.Contains(line, "://") {
		req.Name = strings.TrimSpace(name)
		if req.Name == "" {
			req.Name = line
		}
		return req, true
	}

	if i := strings.IndexAny(line, "<>=!~"); i >= 0 {
		req.Name = strings.TrimSpace(line[:i])
		req.Spec = strings.TrimSpace(line[i:])
	} else {
		req.Name = line
	}
	return req, true
}

// stripComment removes a trailing "#" comment. The marker only counts at
// the start of the line or after whitespace, matching pip.
func stripComment(line string) string {
	if strings.HasPrefix(line, "#") {
		return ""
	}
	for i := 1; i < len(line); i++ {
		if line[i] == '#' && (line[i-1] == ' ' || line[i-1] == '\t') {
			return line[:i]
		}
	}
	return line
}
