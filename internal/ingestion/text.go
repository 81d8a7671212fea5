package ingestion

import (
	"regexp"
	"strings"
)

var (
	caseBoundary   = regexp.MustCompile(`(\p{Ll})(\p{Lu})`)
	excessiveBlank = regexp.MustCompile(`\n\n\n+`)
)

// NormalizeText cleans extracted document text line by line: line endings
// are unified, runs of horizontal whitespace become one space, and a space is
// inserted where a lowercase letter runs into an uppercase one ("JohnDoe").
// Line breaks are kept because the heuristic extractors work per line.
func NormalizeText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\f", "\n\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = excessiveBlank.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.Join(strings.Fields(line), " ")
	if line == "" {
		return ""
	}
	return caseBoundary.ReplaceAllString(line, "$1 $2")
}

// CollapseText reduces all whitespace, line breaks included, to single spaces.
func CollapseText(content string) string {
	return strings.Join(strings.Fields(content), " ")
}
