package parsing

import (
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/profile-extractor/internal/heuristics"
	"github.com/jonathan/profile-extractor/internal/schemas"
	"github.com/jonathan/profile-extractor/internal/types"
	"github.com/jonathan/profile-extractor/internal/validation"
)

var (
	// labelLine matches a line opening with an upper-case marker label.
	labelLine = regexp.MustCompile(`^([A-Z][A-Z_]+):`)
	// instruction matches template instruction lines echoed back by the model.
	instruction = regexp.MustCompile(`^\(.*\)$`)
	// templateEcho matches bracketed template placeholders echoed back verbatim.
	templateEcho = regexp.MustCompile(`^\[.*\]$`)
	anyCaseLabel = regexp.MustCompile(`^([A-Za-z][A-Za-z_ ]{0,40}?)\s*:`)
	entryKey     = regexp.MustCompile(`^([A-Za-z][A-Za-z ]*?)\s*:\s*(.*)$`)
	bullet       = regexp.MustCompile(`^[•\-*▪◦]\s*`)
	majorInDeg   = regexp.MustCompile(`(?i)\bin\s+(.+?)(?:\s+from\b|\s+at\b|$)`)
)

// blockKeys are entry keys inside resume blocks. GPA is upper case but never
// ends a marker field.
var blockKeys = map[string]bool{"GPA": true}

// ExtractField returns the value following "LABEL:" in raw. The value runs to
// the next line opening with another label, or the end of the text. When the
// label occurs more than once the first non-empty value wins. A completion
// without any upper-case label is read case-insensitively, so "Name:" and
// "Year Founded:" stand for NAME and YEAR_FOUNDED.
func ExtractField(raw, label string) (string, bool) {
	return extractField(raw, label, nil)
}

// extractField is ExtractField where, in a case-insensitive read, only lines
// naming one of known end a value. A nil known lets any "Label:" line end it.
func extractField(raw, label string, known map[string]bool) (string, bool) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	return scanField(lines, label, !hasUpperLabel(lines, known), known)
}

// hasUpperLabel reports whether any line opens with an upper-case label, or
// with one of known when known is set.
func hasUpperLabel(lines []string, known map[string]bool) bool {
	for _, line := range lines {
		m := labelLine.FindStringSubmatch(strings.TrimSpace(line))
		if m != nil && (known == nil || known[m[1]]) {
			return true
		}
	}
	return false
}

func scanField(lines []string, label string, anyCase bool, known map[string]bool) (string, bool) {
	found := false
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		name, rest, ok := leadingLabel(line, anyCase)
		if !ok || name != label {
			continue
		}
		found = true

		var parts []string
		if first := strings.TrimSpace(rest); first != "" {
			parts = append(parts, first)
		}
		for j := i + 1; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if endsValue(next, anyCase, known) {
				break
			}
			parts = append(parts, next)
		}

		if value := cleanValue(parts); value != "" {
			return value, true
		}
	}
	return "", found
}

// leadingLabel splits line into its label and the rest. With anyCase the
// label is upper-cased and inner spaces become underscores.
func leadingLabel(line string, anyCase bool) (string, string, bool) {
	if !anyCase {
		m := labelLine.FindStringSubmatch(line)
		if m == nil {
			return "", "", false
		}
		return m[1], line[len(m[0]):], true
	}
	m := anyCaseLabel.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	name := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(m[1])), " ", "_")
	return name, line[len(m[0]):], true
}

func endsValue(line string, anyCase bool, known map[string]bool) bool {
	if m := labelLine.FindStringSubmatch(line); m != nil && !blockKeys[m[1]] {
		return true
	}
	if !anyCase {
		return false
	}
	name, _, ok := leadingLabel(line, true)
	return ok && (known == nil || known[name])
}

func labelSet(domain types.Domain) map[string]bool {
	set := make(map[string]bool)
	for _, label := range schemas.Labels(domain) {
		set[label] = true
	}
	return set
}

// cleanValue drops instruction lines and echoed placeholders, then joins.
func cleanValue(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if instruction.MatchString(p) || templateEcho.MatchString(p) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// ParseMarker parses a marker-contract completion. Fields that are missing or
// fail validation stay empty; failures are listed in Rejections.
func ParseMarker(raw string, domain types.Domain, now time.Time) *types.AIRecord {
	rec := Skeleton(domain)
	r := recorder{rec: rec}
	known := labelSet(domain)

	if domain != types.DomainResume {
		values := make(map[string]string)
		for _, label := range schemas.Labels(domain) {
			if v, ok := extractField(raw, label, known); ok {
				values[label] = v
			}
		}
		applyOrganization(r, rec.Organization, domain, values, now)
		return rec
	}

	res := rec.Resume
	if v, ok := extractField(raw, "PROFESSIONAL_SUMMARY", known); ok {
		res.Summary = r.text("PROFESSIONAL_SUMMARY", v)
	}
	if v, ok := extractField(raw, "EDUCATION", known); ok {
		res.Education = parseEducation(r, v)
	}
	if v, ok := extractField(raw, "EXPERIENCE", known); ok {
		res.Experience = parseExperience(r, v)
	}
	if v, ok := extractField(raw, "CERTIFICATIONS", known); ok {
		res.Certifications = parseCertifications(r, v)
	}
	if v, ok := extractField(raw, "PROJECTS", known); ok {
		res.Projects = parseProjects(r, v)
	}
	res.Skills.Technical = commaList(r, raw, "TECHNICAL_SKILLS", known)
	res.Skills.Soft = commaList(r, raw, "SOFT_SKILLS", known)
	res.Skills.Languages = commaList(r, raw, "LANGUAGES", known)
	return rec
}

func commaList(r recorder, raw, label string, known map[string]bool) []string {
	v, ok := extractField(raw, label, known)
	if !ok {
		return nil
	}
	items, err := validation.CommaList(v)
	r.note(label, err)
	return items
}

// entry is one "---" separated block entry.
type entry struct {
	values  map[string]string
	bullets []string
}

func (e entry) get(key string) string {
	return e.values[strings.ToLower(key)]
}

// splitEntries splits a block value into entries of "Key: value" lines.
// Bullet lines are collected separately; other unkeyed lines continue the
// previous key's value.
func splitEntries(block string) []entry {
	var entries []entry
	for _, chunk := range strings.Split(block, "---") {
		e := entry{values: make(map[string]string)}
		last := ""
		for _, line := range strings.Split(chunk, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if bullet.MatchString(line) {
				if b := strings.TrimSpace(bullet.ReplaceAllString(line, "")); b != "" {
					e.bullets = append(e.bullets, b)
				}
				continue
			}
			if m := entryKey.FindStringSubmatch(line); m != nil && len(m[1]) <= 20 {
				last = strings.ToLower(m[1])
				e.values[last] = strings.TrimSpace(m[2])
				continue
			}
			if last != "" {
				e.values[last] = strings.TrimSpace(e.values[last] + " " + line)
			}
		}
		if len(e.values) > 0 || len(e.bullets) > 0 {
			entries = append(entries, e)
		}
	}
	return entries
}

func parseEducation(r recorder, block string) []types.Education {
	var out []types.Education
	for _, e := range splitEntries(block) {
		edu := types.Education{
			Institution: r.text("EDUCATION", e.get("University")),
			Degree:      r.text("EDUCATION", e.get("Degree")),
			GPA:         r.text("EDUCATION", e.get("GPA")),
			Honors:      r.text("EDUCATION", e.get("Honors")),
		}
		if edu.Institution == "" {
			edu.Institution = r.text("EDUCATION", e.get("Institution"))
		}
		if edu.Institution == "" && edu.Degree == "" {
			continue
		}
		if m := majorInDeg.FindStringSubmatch(edu.Degree); m != nil {
			edu.Major = strings.TrimSpace(m[1])
		}
		grad := parseDate(e.get("Graduation"))
		edu.GraduationMonth, edu.GraduationYear = grad.Month, grad.Year
		out = append(out, edu)
	}
	return out
}

func parseExperience(r recorder, block string) []types.Experience {
	var out []types.Experience
	for _, e := range splitEntries(block) {
		exp := types.Experience{
			Title:       r.text("EXPERIENCE", e.get("Position")),
			Company:     r.text("EXPERIENCE", e.get("Company")),
			Location:    r.text("EXPERIENCE", e.get("Location")),
			Description: r.text("EXPERIENCE", e.get("Description")),
			Start:       parseDate(e.get("Start Date")),
			End:         parseDate(e.get("End Date")),
		}
		if exp.Title == "" {
			exp.Title = r.text("EXPERIENCE", e.get("Title"))
		}
		if exp.Title == "" && exp.Company == "" {
			continue
		}
		exp.IsCurrent = exp.End.IsCurrent
		if inline := e.get("Achievements"); inline != "" {
			e.bullets = append([]string{inline}, e.bullets...)
		}
		for _, b := range e.bullets {
			if v := r.text("EXPERIENCE", b); v != "" {
				exp.Achievements = append(exp.Achievements, v)
			}
		}
		out = append(out, exp)
	}
	return out
}

func parseCertifications(r recorder, block string) []types.Certification {
	var out []types.Certification
	for _, e := range splitEntries(block) {
		c := types.Certification{
			Name:   r.text("CERTIFICATIONS", e.get("Name")),
			Issuer: r.text("CERTIFICATIONS", e.get("Issuer")),
			Date:   r.text("CERTIFICATIONS", e.get("Date")),
		}
		if c.Name != "" {
			out = append(out, c)
		}
	}
	return out
}

func parseProjects(r recorder, block string) []types.Project {
	var out []types.Project
	for _, e := range splitEntries(block) {
		p := types.Project{
			Name:        r.text("PROJECTS", e.get("Name")),
			Description: r.text("PROJECTS", e.get("Description")),
		}
		if p.Name == "" {
			continue
		}
		if tech := e.get("Technologies"); tech != "" {
			items, err := validation.CommaList(tech)
			r.note("PROJECTS", err)
			p.Technologies = items
		}
		out = append(out, p)
	}
	return out
}

// parseDate accepts "Month/Year", "Month Year", "Year" and "Current".
func parseDate(s string) types.DateParts {
	return heuristics.ParseDate(strings.ReplaceAll(s, "/", " "))
}
