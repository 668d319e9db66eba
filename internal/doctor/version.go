package doctor

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinVersionSatisfied reports whether version meets the minimum. Partial
// versions such as "3.9" are accepted on both sides.
func MinVersionSatisfied(version, min string) (bool, error) {
	v, err := parseSemver(version)
	if err != nil {
		return false, fmt.Errorf("parsing version %q: %w", version, err)
	}
	m, err := parseSemver(min)
	if err != nil {
		return false, fmt.Errorf("parsing minimum %q: %w", min, err)
	}
	return !v.LessThan(m), nil
}

// ParsePythonVersion extracts the version from `python --version` output,
// which looks like "Python 3.12.4".
func ParsePythonVersion(output string) (string, error) {
	fields := strings.Fields(output)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Python") {
		return "", fmt.Errorf("unrecognized version output %q", strings.TrimSpace(output))
	}
	version := fields[1]
	if _, err := parseSemver(version); err != nil {
		return "", fmt.Errorf("unrecognized version %q: %w", version, err)
	}
	return version, nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
