package heuristics

import (
	"regexp"
	"strings"
)

var (
	emailPattern  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+\d{1,3}[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	}
	linkedInPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)linkedin\.com/in/([A-Za-z0-9_%-]+)`),
		regexp.MustCompile(`(?i)linkedin\s*[:\-]\s*(?:https?://)?(?:www\.)?(?:linkedin\.com/in/)?([A-Za-z0-9_%-]{3,})`),
	}
	labeledWebsite   = regexp.MustCompile(`(?i)\b(?:portfolio|website|web|site|blog)\s*:\s*(\S+)`)
	bareWebsite      = regexp.MustCompile(`(?:https?://)?(?:www\.)?[A-Za-z0-9-]+(?:\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}(?:/\S*)?`)
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)*\s*,\s*[A-Z][a-z]+(?: [A-Z][a-z]+)*\s*,\s*[A-Z]{2})\b`),
		regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)*,\s*[A-Z]{2})\b`),
		regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)*,\s*(?:` + usStateNames + `))\b`),
	}

	websiteTLDs = wordSet(`com org net io dev me co ai app edu gov us uk ca de info tech xyz site page blog design`)
	websiteSkip = []string{"linkedin.com", "gmail.com", "github.io/", "yahoo.com", "outlook.com", "hotmail.com"}
)

const usStateNames = `Alabama|Alaska|Arizona|Arkansas|California|Colorado|Connecticut|Delaware|Florida|Georgia|Hawaii|Idaho|Illinois|Indiana|Iowa|Kansas|Kentucky|Louisiana|Maine|Maryland|Massachusetts|Michigan|Minnesota|Mississippi|Missouri|Montana|Nebraska|Nevada|New Hampshire|New Jersey|New Mexico|New York|North Carolina|North Dakota|Ohio|Oklahoma|Oregon|Pennsylvania|Rhode Island|South Carolina|South Dakota|Tennessee|Texas|Utah|Vermont|Virginia|Washington|West Virginia|Wisconsin|Wyoming`

// ExtractEmail returns the first email address in text.
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ExtractPhone returns the first phone number in text, preferring numbers
// with a country code.
func ExtractPhone(text string) string {
	for _, p := range phonePatterns {
		if m := p.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// ExtractLocation returns the first "City, ST", "City, County, ST" or
// "City, State" phrase.
func ExtractLocation(text string) string {
	for _, p := range locationPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// ExtractLinkedIn returns a "linkedin.com/in/<handle>" profile path.
func ExtractLinkedIn(text string) string {
	for _, p := range linkedInPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return "linkedin.com/in/" + m[1]
		}
	}
	return ""
}

// ExtractWebsite returns a personal website. Labeled values ("Portfolio: …")
// win over bare domains. Email domains, LinkedIn and webmail hosts are skipped.
func ExtractWebsite(text string) string {
	for _, m := range labeledWebsite.FindAllStringSubmatch(text, -1) {
		if candidate := strings.TrimRight(m[1], ".,;)"); acceptableWebsite(candidate) {
			return candidate
		}
	}

	for _, loc := range bareWebsite.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && strings.ContainsRune("@.", rune(text[start-1])) {
			continue
		}
		if end < len(text) && text[end] == '@' {
			continue
		}
		candidate := strings.TrimRight(text[start:end], ".,;)")
		if acceptableWebsite(candidate) && hasKnownTLD(candidate) {
			return candidate
		}
	}
	return ""
}

func acceptableWebsite(candidate string) bool {
	if len(candidate) < 5 || strings.Contains(candidate, "@") {
		return false
	}
	lower := strings.ToLower(candidate)
	for _, skip := range websiteSkip {
		if strings.Contains(lower, skip) {
			return false
		}
	}
	return true
}

func hasKnownTLD(candidate string) bool {
	host := strings.ToLower(candidate)
	host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	i := strings.LastIndexByte(host, '.')
	return i >= 0 && websiteTLDs[host[i+1:]]
}
