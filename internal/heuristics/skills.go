package heuristics

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/profile-extractor/internal/types"
)

// Bucket caps for categorized skills.
const (
	MaxTechnicalSkills = 10
	MaxSoftSkills      = 8
	MaxLanguages       = 5
)

var (
	technicalKeywords = wordSet(`programming coding software development web mobile database cloud aws azure gcp
		javascript python java react node vue angular rails django flask sql mysql
		postgresql mongodb docker kubernetes git github html css php ruby swift kotlin
		typescript nosql redis elasticsearch microservices api rest graphql golang linux`)
	softKeywords = wordSet(`leadership communication teamwork collaboration creative analytical
		management presentation negotiation adaptability mentoring organization`)
	softPhrases = []string{
		"problem solving", "strategic planning", "public speaking", "time management", "critical thinking",
	}
	languageKeywords = wordSet(`english spanish french german chinese japanese portuguese italian russian
		mandarin cantonese hindi arabic korean vietnamese thai dutch swedish
		español français deutsch português italiano nederlands svenska polski türkçe
		русский українська 中文 普通话 日本語 한국어 हिन्दी العربية עברית ไทย`)

	skillSeparators  = regexp.MustCompile(`[,|;•·▪▫◦‣⁃\n]`)
	skillStopWords   = regexp.MustCompile(`(?i)^(?:and|or|with|using|including|such as|etc\.?)$`)
	skillLabel       = regexp.MustCompile(`^[A-Za-z][A-Za-z &/]{0,30}:\s*`)
	technicalExtra   = regexp.MustCompile(`(?i)(?:^|[^\w])(?:html5?|css3?|js|php|c\+\+|c#|\.net|node\.?js)(?:$|[^\w])`)
	acronym          = regexp.MustCompile(`[A-Z]{2,}`)
	proficiency      = regexp.MustCompile(`(?i)\b(?:native|fluent|conversational|proficient|bilingual)\b`)
	hasUpperOrDigit  = regexp.MustCompile(`[\p{Lu}\p{Nd}]`)
	skillPunctuation = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s+#.]`)
	technicalScan    = regexp.MustCompile(`(?i)\b(?:java|python|javascript|typescript|react|node\.?js|html|css|sql|ruby|php|swift|kotlin|git|docker|kubernetes|aws|azure|mongodb|postgresql)\b|\bc\+\+|\bc#`)
)

func wordSet(words string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		out[w] = true
	}
	return out
}

// SkillKind is the bucket a skill is filed under.
type SkillKind string

// Skill buckets.
const (
	SkillTechnical SkillKind = "technical"
	SkillSoft      SkillKind = "soft"
	SkillLanguage  SkillKind = "language"
)

// CategorizeSkill files one skill. Checks run technical, language, soft; anything
// left is technical when short and containing an uppercase letter or digit.
func CategorizeSkill(skill string) SkillKind {
	lower := strings.ToLower(skill)
	words := strings.Fields(skillPunctuation.ReplaceAllString(lower, " "))

	if anyWord(words, technicalKeywords) || technicalExtra.MatchString(lower) || acronym.MatchString(skill) {
		return SkillTechnical
	}
	if anyWord(words, languageKeywords) || proficiency.MatchString(skill) {
		return SkillLanguage
	}
	if anyWord(words, softKeywords) || containsAny(lower, softPhrases) {
		return SkillSoft
	}
	if utf8.RuneCountInString(skill) < 15 && hasUpperOrDigit.MatchString(skill) {
		return SkillTechnical
	}
	return SkillSoft
}

func anyWord(words []string, set map[string]bool) bool {
	for _, w := range words {
		if set[strings.Trim(w, ".")] {
			return true
		}
	}
	return false
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// SplitSkills splits a skills section into individual skills, dropping inline
// labels such as "Languages:" and connective stop-words.
func SplitSkills(text string) []string {
	var out []string
	for _, line := range nonEmptyLines(text) {
		line = skillLabel.ReplaceAllString(stripBullet(line), "")
		for _, s := range skillSeparators.Split(line, -1) {
			s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "."))
			if s == "" || skillStopWords.MatchString(s) {
				continue
			}
			out = append(out, s)
		}
	}
	return out
}

// CategorizeSkills splits and buckets a skills section. Duplicates are dropped
// case-insensitively and each bucket is capped.
func CategorizeSkills(text string) types.Skills {
	skills := types.Skills{Technical: []string{}, Soft: []string{}, Languages: []string{}}
	seen := make(map[string]bool)
	for _, s := range SplitSkills(text) {
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true

		switch CategorizeSkill(s) {
		case SkillTechnical:
			skills.Technical = appendCapped(skills.Technical, s, MaxTechnicalSkills)
		case SkillLanguage:
			skills.Languages = appendCapped(skills.Languages, s, MaxLanguages)
		default:
			skills.Soft = appendCapped(skills.Soft, s, MaxSoftSkills)
		}
	}
	return skills
}

// ScanTechnicalSkills finds well-known technologies anywhere in text, for
// documents without a skills section.
func ScanTechnicalSkills(text string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, m := range technicalScan.FindAllString(text, -1) {
		key := strings.ToLower(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = appendCapped(out, m, MaxTechnicalSkills)
	}
	return out
}

func appendCapped(list []string, item string, limit int) []string {
	if len(list) >= limit {
		return list
	}
	return append(list, item)
}
