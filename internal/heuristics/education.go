package heuristics

import (
	"regexp"
	"strings"

	"github.com/jonathan/profile-extractor/internal/types"
)

var (
	institutionPattern = regexp.MustCompile(`(?i)\b(?:university|college|institute|school|academy|polytechnic|conservatory)\b`)
	degreeWords        = regexp.MustCompile(`(?i)\b(?:bachelor(?:'s)?|master(?:'s)?|associate(?:'s)?|doctor(?:ate)?|diploma)\b`)
	degreeTokens       = regexp.MustCompile(`\b(?:B\.?S\.?|B\.?A\.?|M\.?S\.?|M\.?A\.?|MBA|Ph\.?D\.?|B\.?Sc\.?|M\.?Sc\.?|B\.?Eng\.?|M\.?Eng\.?)(?:\s|$|,)`)
	degreeCut          = regexp.MustCompile(`(?i)\b(?:gpa|honors program|graduation|graduating|expected|anticipated|class of)\b`)
	gpaPattern         = regexp.MustCompile(`(?i)\bGPA\s*:?\s*(\d\.\d{1,2})`)
	honorsPattern      = regexp.MustCompile(`(?i)\b(?:summa cum laude|magna cum laude|cum laude|dean's list|honors program|with honors|with distinction)`)
	graduationLabeled  = regexp.MustCompile(`(?i)(?:graduation|graduating|expected|anticipated)\s*:?\s*(` + monthAlternatives + `)\.?\s+((?:19|20)\d{2})`)
	monthYear          = regexp.MustCompile(`(?i)\b(` + monthAlternatives + `)\.?\s+((?:19|20)\d{2})\b`)
	segmentSplit       = regexp.MustCompile(`\s*(?:,|\||\s[-–—]\s|\n)\s*`)
)

// ExtractEducation groups an education section by institution lines and
// parses each group. A section with no recognizable institution line is
// treated as a single entry whose institution leads the first line.
func ExtractEducation(section string) []types.Education {
	entries := []types.Education{}
	var groups [][]string
	for _, line := range nonEmptyLines(section) {
		opens := institutionPattern.MatchString(line) && !isBulletLine(line)
		if opens || len(groups) == 0 {
			groups = append(groups, []string{line})
			continue
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], line)
	}

	for _, group := range groups {
		if e, ok := parseEducation(group); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

func parseEducation(lines []string) (types.Education, bool) {
	var e types.Education
	text := strings.Join(lines, "\n")
	segments := segmentSplit.Split(text, -1)

	for _, seg := range segments {
		if institutionPattern.MatchString(seg) {
			e.Institution = strings.TrimSpace(seg)
			break
		}
	}
	if e.Institution == "" && len(segments) > 0 {
		first := strings.TrimSpace(segments[0])
		if !degreeWords.MatchString(first) && !degreeTokens.MatchString(first+" ") {
			e.Institution = first
		}
	}

	e.Degree, e.Major = findDegree(segments)

	if m := gpaPattern.FindStringSubmatch(text); m != nil {
		e.GPA = m[1]
	}
	e.Honors = honorsPattern.FindString(text)

	switch m := graduationLabeled.FindStringSubmatch(text); {
	case m != nil:
		e.GraduationMonth, e.GraduationYear = NormalizeMonth(m[1]), m[2]
	default:
		if m := monthYear.FindStringSubmatch(text); m != nil {
			e.GraduationMonth, e.GraduationYear = NormalizeMonth(m[1]), m[2]
		} else if years := yearPattern.FindAllString(text, -1); len(years) > 0 {
			e.GraduationYear = years[len(years)-1]
		}
	}

	return e, e.Institution != "" || e.Degree != ""
}

// findDegree returns the degree and major from the first segment naming a
// degree. Spelled-out degrees win over abbreviations.
func findDegree(segments []string) (degree, major string) {
	for _, seg := range segments {
		if degreeWords.MatchString(seg) && !institutionPattern.MatchString(seg) {
			return splitDegree(seg)
		}
	}
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		// A bare two-letter token is more likely a state code.
		if seg == "MA" || seg == "MS" {
			continue
		}
		if loc := degreeTokens.FindStringIndex(seg + " "); loc != nil && loc[0] == 0 {
			return splitDegree(seg)
		}
	}
	return "", ""
}

func splitDegree(seg string) (degree, major string) {
	if loc := degreeCut.FindStringIndex(seg); loc != nil {
		seg = seg[:loc[0]]
	}
	seg = monthYear.ReplaceAllString(seg, "")
	seg = yearPattern.ReplaceAllString(seg, "")
	seg = strings.Trim(collapse(seg), " ,-–—:()")

	lower := strings.ToLower(seg)
	if i := strings.Index(lower, " in "); i > 0 {
		return strings.TrimSpace(seg[:i]), strings.TrimSpace(seg[i+4:])
	}
	if loc := degreeTokens.FindStringIndex(seg + " "); loc != nil && loc[0] == 0 {
		token := strings.TrimRight(seg[:min(loc[1], len(seg))], " ,")
		rest := strings.Trim(seg[len(token):], " ,-–—:")
		return token, rest
	}
	return seg, ""
}
