package heuristics

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/profile-extractor/internal/types"
)

// Length bounds for an explicit summary section, and the last-resort sentence.
const (
	minSummaryLen  = 30
	maxSummaryLen  = 500
	defaultSummary = "Experienced professional with technical and business background."
)

var (
	nameSkip      = regexp.MustCompile(`(?i)linkedin|github|portfolio|https?://|www\.`)
	locationLike  = regexp.MustCompile(`^\w+,\s*\w+`)
	nameNoise     = regexp.MustCompile(`[^\p{L}\s.'-]`)
	namePrefix    = regexp.MustCompile(`(?i)^(?:dr|mr|mrs|ms|miss|prof|professor)\.?\s+`)
	nameSuffix    = regexp.MustCompile(`(?i),?\s+(?:jr\.?|sr\.?|i{2,3}|iv|v|phd|ph\.d\.?|md|m\.d\.?|esq\.?)$`)
	educationLike = regexp.MustCompile(`(?i)university|college|graduation|bachelor|master|degree|gpa`)
	summaryYear   = regexp.MustCompile(`\b\d{4}\b`)
	csBusiness    = regexp.MustCompile(`(?i)bachelor.*computer science.*business`)
	computerSci   = regexp.MustCompile(`(?i)computer science`)
	pmIntern      = regexp.MustCompile(`(?i)product.*management.*intern`)
	pdIntern      = regexp.MustCompile(`(?i)product.*development.*intern`)
	softwareRole  = regexp.MustCompile(`(?i)software.*(?:developer|engineer)`)
	summarySkills = regexp.MustCompile(`(?i)\b(?:java|python|javascript|sql|ruby|rails|typescript|react)\b`)
)

// DefaultSummary is used when neither a summary section nor enough signals exist.
func DefaultSummary() string {
	return defaultSummary
}

// ExtractResume builds the heuristic resume profile from normalized text.
// Fields that cannot be found are left empty.
func ExtractResume(text string) *types.ResumeProfile {
	sections := Sections(text)

	name := ExtractName(text)
	first, last := SplitName(name)

	profile := &types.ResumeProfile{
		PersonalInfo: types.PersonalInfo{
			FullName:  name,
			FirstName: first,
			LastName:  last,
			Email:     ExtractEmail(text),
			Phone:     ExtractPhone(text),
			Location:  ExtractLocation(text),
			LinkedIn:  ExtractLinkedIn(text),
			Website:   ExtractWebsite(text),
		},
		Education:      ExtractEducation(sections[SectionEducation]),
		Experience:     ExtractExperience(sections[SectionExperience]),
		Certifications: ExtractCertifications(sections[SectionCertifications]),
		Projects:       ExtractProjects(sections[SectionProjects]),
	}

	skillsText := strings.TrimSpace(sections[SectionSkills] + "\n" + sections[SectionLanguages])
	if skillsText != "" {
		profile.Skills = CategorizeSkills(skillsText)
	} else {
		profile.Skills = types.Skills{Technical: ScanTechnicalSkills(text), Soft: []string{}, Languages: []string{}}
	}

	profile.Summary = ExtractSummary(sections[SectionSummary], text, profile.Education)
	return profile
}

// ExtractName looks at the first five non-empty lines for a line of two to
// four capitalized words, skipping contact lines and section headers. When
// none qualifies, a first line of two to four words is used.
func ExtractName(text string) string {
	lines := nonEmptyLines(text)
	if len(lines) > 5 {
		lines = lines[:5]
	}

	for _, line := range lines {
		if skipNameLine(line) {
			continue
		}
		clean := collapse(nameNoise.ReplaceAllString(line, ""))
		words := strings.Fields(clean)
		if len(words) >= 2 && len(words) <= 4 && allNameWords(words) {
			return clean
		}
	}

	if len(lines) > 0 {
		clean := collapse(nameNoise.ReplaceAllString(lines[0], ""))
		if n := len(strings.Fields(clean)); n >= 2 && n <= 4 && !skipNameLine(lines[0]) {
			return clean
		}
	}
	return ""
}

func skipNameLine(line string) bool {
	if emailPattern.MatchString(line) || ExtractPhone(line) != "" || nameSkip.MatchString(line) || locationLike.MatchString(line) {
		return true
	}
	_, _, isHeader := matchHeader(line)
	return isHeader
}

func allNameWords(words []string) bool {
	for _, w := range words {
		if !isNameWord(w) {
			return false
		}
	}
	return true
}

// isNameWord accepts "John", "O'Brien", "Mary-Jane" and initials like "J.".
func isNameWord(w string) bool {
	runes := []rune(strings.TrimSuffix(w, "."))
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}
	hasLower := false
	for _, r := range runes[1:] {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r), r == '\'', r == '-':
		default:
			return false
		}
	}
	return hasLower || len(runes) == 1
}

// SplitName splits a full name into first and last names after removing
// honorific prefixes and generational or degree suffixes. With three or more
// parts, everything after the first is the last name.
func SplitName(full string) (first, last string) {
	name := strings.TrimSpace(full)
	name = namePrefix.ReplaceAllString(name, "")
	name = nameSuffix.ReplaceAllString(name, "")

	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// ExtractSummary returns the summary section when it reads like a summary,
// otherwise a sentence assembled from degree, role and skill signals in text.
// It returns "" when there are no signals.
func ExtractSummary(section, text string, education []types.Education) string {
	if summary := collapse(section); summary != "" {
		plausible := !educationLike.MatchString(summary) &&
			!(summaryYear.MatchString(summary) && len(summary) < 100)
		if plausible && len(summary) > minSummaryLen && len(summary) < maxSummaryLen {
			return summary
		}
	}

	var field string
	switch {
	case csBusiness.MatchString(text):
		field = "Computer Science and Business student"
	case computerSci.MatchString(text):
		field = "Computer Science student"
	default:
		for _, e := range education {
			if e.Major != "" {
				field = e.Major + " student"
				break
			}
		}
	}
	if field == "" {
		return ""
	}

	parts := []string{field}
	switch {
	case pmIntern.MatchString(text) && pdIntern.MatchString(text):
		parts = append(parts, "with experience in product management and development")
	case softwareRole.MatchString(text):
		parts = append(parts, "with software development experience")
	}

	var skills []string
	seen := make(map[string]bool)
	for _, m := range summarySkills.FindAllString(text, -1) {
		if key := strings.ToLower(m); !seen[key] {
			seen[key] = true
			skills = append(skills, m)
		}
	}
	if len(skills) > 3 {
		parts = append(parts, "skilled in "+strings.Join(skills[:3], ", "))
	}

	return strings.Join(parts, " ") + "."
}
