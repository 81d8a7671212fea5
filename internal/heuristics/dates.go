package heuristics

import (
	"regexp"
	"strings"

	"github.com/jonathan/profile-extractor/internal/types"
)

var (
	currentPattern = regexp.MustCompile(`(?i)\b(present|current|ongoing|now)\b`)
	yearPattern    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	monthPattern   = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)\b`)

	monthNames = map[string]string{
		"jan": "January", "feb": "February", "mar": "March", "apr": "April",
		"may": "May", "jun": "June", "jul": "July", "aug": "August",
		"sep": "September", "sept": "September", "oct": "October",
		"nov": "November", "dec": "December",
	}
)

// ParseDate parses "Month Year" text. Full and abbreviated month names are
// normalized to full names. "Present", "current", "ongoing" and "now" mean an
// open-ended date with no month or year.
func ParseDate(s string) types.DateParts {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.DateParts{}
	}
	if currentPattern.MatchString(s) {
		return types.DateParts{IsCurrent: true}
	}

	var d types.DateParts
	d.Year = yearPattern.FindString(s)
	if m := monthPattern.FindString(s); m != "" {
		d.Month = NormalizeMonth(m)
	}
	return d
}

// NormalizeMonth maps a full or abbreviated month name to its full name.
func NormalizeMonth(m string) string {
	lower := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(m), "."))
	if full, ok := monthNames[lower]; ok {
		return full
	}
	for _, full := range monthNames {
		if strings.ToLower(full) == lower {
			return full
		}
	}
	return ""
}
