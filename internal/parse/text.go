package parse

import (
	"regexp"
	"strings"
)

var (
	// AIS 6-bit text pads unused characters with '@'.
	padRe   = regexp.MustCompile(`@+\s*$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Text cleans an AIS text field (name, call sign, destination): trailing '@'
// padding is removed and runs of whitespace collapse to one space. The
// result is "" when nothing meaningful remains.
func Text(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		trimmed := strings.TrimSpace(padRe.ReplaceAllString(s, ""))
		if trimmed == s {
			break
		}
		s = trimmed
	}
	return spaceRe.ReplaceAllString(s, " ")
}

// TextPtr is Text for optional fields; it returns nil for absent or blank input.
func TextPtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	s := Text(*raw)
	if s == "" {
		return nil
	}
	return &s
}
