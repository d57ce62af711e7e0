package antispam

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	urlRe = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)

	spamKeywords = []string{
		"viagra",
		"casino",
		"lottery",
		"bitcoin",
		"crypto investment",
		"free money",
		"work from home",
		"click here",
		"limited offer",
		"seo services",
	}
)

// Detection is the outcome of a suspicious-content scan.
type Detection struct {
	Suspicious bool
	Reasons    []string
}

// DetectSuspicious scans every form field for URL patterns, long runs of a
// repeated character, and known spam keywords. All triggered reasons are
// collected so they can be logged together. The scan deliberately fails open:
// malformed input reads as not suspicious rather than blocking a human.
func DetectSuspicious(form map[string]string) Detection {
	var det Detection
	for field, value := range form {
		if value == "" {
			continue
		}
		if urlRe.MatchString(value) {
			det.Reasons = append(det.Reasons, fmt.Sprintf("field %q contains a URL", field))
		}
		if hasRepeatedRun(value, 10) {
			det.Reasons = append(det.Reasons, fmt.Sprintf("field %q contains a repeated character run", field))
		}
		lower := strings.ToLower(value)
		for _, kw := range spamKeywords {
			if strings.Contains(lower, kw) {
				det.Reasons = append(det.Reasons, fmt.Sprintf("field %q contains keyword %q", field, kw))
			}
		}
	}
	det.Suspicious = len(det.Reasons) > 0
	return det
}

// hasRepeatedRun reports whether the string contains a run of min identical
// consecutive runes.
func hasRepeatedRun(s string, min int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= min {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}
