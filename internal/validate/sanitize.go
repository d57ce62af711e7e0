package validate

import (
	"regexp"
	"strings"
)

var (
	htmlCharsRe    = regexp.MustCompile("[<>\"'`]")
	schemeRe       = regexp.MustCompile(`(?i)(javascript|vbscript|data)\s*:`)
	eventHandlerRe = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)
)

// Sanitize strips HTML-significant characters, script-capable URL schemes,
// inline event handler fragments, and control characters from free-text
// input. It never fails: hostile or malformed input comes back reduced, not
// rejected.
func Sanitize(input string) string {
	out := htmlCharsRe.ReplaceAllString(input, "")
	out = schemeRe.ReplaceAllString(out, "")
	out = eventHandlerRe.ReplaceAllString(out, "")
	out = strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		if r == 0x7f {
			return -1
		}
		return r
	}, out)
	return strings.TrimSpace(out)
}
