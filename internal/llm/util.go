package llm

import (
	"encoding/json"
	"strings"
)

// maxJSONCandidates bounds how many opening delimiters CleanJSONBlock tries.
const maxJSONCandidates = 64

// CleanJSONBlock strips markdown fences and surrounding chatter from a JSON
// completion. Models often wrap JSON in ```json fences or add a preamble even
// when told not to. The first balanced object or array that is valid JSON
// wins; bracketed prose such as "[Note]" is skipped. Text with no JSON value
// is returned trimmed.
func CleanJSONBlock(text string) string {
	text = unfence(strings.TrimSpace(text))

	first := ""
	tried := 0
	for i := 0; i < len(text) && tried < maxJSONCandidates; i++ {
		var v string
		switch text[i] {
		case '{':
			v = extractBalanced(text[i:], '{', '}')
		case '[':
			v = extractBalanced(text[i:], '[', ']')
		default:
			continue
		}
		tried++
		if v == "" {
			continue
		}
		if json.Valid([]byte(v)) {
			return v
		}
		if first == "" {
			first = v
		}
	}
	if first != "" {
		return first
	}
	return text
}

// unfence returns the body of the first ``` fenced block in text, dropping a
// language identifier on the opening line. Text without a fence is returned
// unchanged.
func unfence(text string) string {
	start := strings.Index(text, "```")
	if start < 0 {
		return text
	}
	body := text[start+3:]
	if idx := strings.Index(body, "\n"); idx >= 0 {
		firstLine := body[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.ContainsAny(firstLine, "{[") {
			body = body[idx+1:]
		}
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// extractBalanced returns the prefix of s spanning the first balanced
// open/close pair, ignoring delimiters inside string literals.
func extractBalanced(s string, open, close byte) string {
	if s == "" || s[0] != open {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
