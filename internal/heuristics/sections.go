package heuristics

import (
	"regexp"
	"strings"
)

// Section is a resume section kind.
type Section string

// Known resume sections.
const (
	SectionSummary        Section = "summary"
	SectionEducation      Section = "education"
	SectionExperience     Section = "experience"
	SectionSkills         Section = "skills"
	SectionLanguages      Section = "languages"
	SectionCertifications Section = "certifications"
	SectionProjects       Section = "projects"
	SectionOther          Section = "other"
)

// A header is a line holding only a known heading, optionally followed by a
// colon and inline content.
var sectionHeaders = []struct {
	section Section
	pattern *regexp.Regexp
}{
	{SectionSummary, header(`professional summary|career summary|summary|objective|career objective|profile|about me|about`)},
	{SectionEducation, header(`education|academic background|education and training`)},
	{SectionExperience, header(`work experience|professional experience|relevant experience|experience|employment history|employment|work history`)},
	{SectionSkills, header(`technical skills|skills|core competencies|programming languages|skills & interests|skills and interests`)},
	{SectionLanguages, header(`languages|spoken languages`)},
	{SectionCertifications, header(`certifications|certification|certificates|certificate|licenses & certifications|licenses and certifications`)},
	{SectionProjects, header(`projects|project|personal projects|academic projects`)},
	{SectionOther, header(`leadership|leadership experience|activities|awards|honors & awards|interests|volunteer experience|volunteering|references|publications`)},
}

func header(alternatives string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(?:` + alternatives + `)\s*(?::\s*(.*))?$`)
}

// matchHeader reports the section a line opens and any inline content after
// the colon.
func matchHeader(line string) (Section, string, bool) {
	line = strings.TrimSpace(line)
	for _, h := range sectionHeaders {
		if m := h.pattern.FindStringSubmatch(line); m != nil {
			return h.section, strings.TrimSpace(m[1]), true
		}
	}
	return "", "", false
}

// Sections splits text into sections keyed by kind. Each section runs from its
// header to the next known header or the end of the document. The first
// occurrence of a kind wins.
func Sections(text string) map[Section]string {
	out := make(map[Section]string)
	var current Section
	var body []string

	flush := func() {
		if current == "" {
			return
		}
		if _, seen := out[current]; !seen {
			out[current] = strings.TrimSpace(strings.Join(body, "\n"))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if section, inline, ok := matchHeader(line); ok {
			flush()
			current = section
			body = body[:0]
			if inline != "" {
				body = append(body, inline)
			}
			continue
		}
		if current != "" {
			body = append(body, line)
		}
	}
	flush()
	return out
}

// nonEmptyLines returns the trimmed non-blank lines of text.
func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// collapse reduces whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
