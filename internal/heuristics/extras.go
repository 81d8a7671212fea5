package heuristics

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/profile-extractor/internal/types"
)

var (
	technologiesLabel = regexp.MustCompile(`(?i)^(?:technologies|tech stack|tools|built with|stack)\s*:\s*(.*)$`)
	parenthesized     = regexp.MustCompile(`\(\s*\)`)
)

// ExtractCertifications reads one certification per line. "Name - Issuer" and
// "Name | Issuer" lines carry the issuer; a month and year or a bare year is
// the date.
func ExtractCertifications(section string) []types.Certification {
	certs := []types.Certification{}
	for _, line := range nonEmptyLines(section) {
		line = stripBullet(line)

		var date string
		if m := monthYear.FindString(line); m != "" {
			date = m
			line = strings.Replace(line, m, "", 1)
		} else if y := yearPattern.FindString(line); y != "" {
			date = y
			line = strings.Replace(line, y, "", 1)
		}
		line = strings.Trim(collapse(parenthesized.ReplaceAllString(line, "")), " ,-–—|")
		if line == "" {
			continue
		}

		name, issuer, _ := splitPair(line)
		certs = append(certs, types.Certification{Name: name, Issuer: issuer, Date: date})
	}
	return certs
}

// ExtractProjects treats short unbulleted lines as project titles and the
// lines that follow as the description, with a "Technologies:" line listing
// the stack.
func ExtractProjects(section string) []types.Project {
	projects := []types.Project{}
	var current *types.Project
	var description []string

	flush := func() {
		if current == nil {
			return
		}
		current.Description = collapse(strings.Join(description, " "))
		projects = append(projects, *current)
		current, description = nil, nil
	}

	for _, line := range nonEmptyLines(section) {
		if m := technologiesLabel.FindStringSubmatch(line); m != nil && current != nil {
			current.Technologies = append(current.Technologies, SplitSkills(m[1])...)
			continue
		}
		if !isBulletLine(line) && isProjectTitle(line) {
			flush()
			name, rest, _ := splitPair(line)
			name = strings.Trim(collapse(dateRange.ReplaceAllString(name, "")), " ,-–—|")
			current = &types.Project{Name: name}
			if rest != "" {
				if strings.Contains(rest, ",") {
					current.Technologies = SplitSkills(rest)
				} else {
					description = append(description, rest)
				}
			}
			continue
		}
		if current != nil {
			description = append(description, stripBullet(line))
		}
	}
	flush()
	return projects
}

func isProjectTitle(line string) bool {
	if len(line) >= 100 || len(strings.Fields(line)) >= 10 || strings.HasSuffix(line, ".") {
		return false
	}
	r, _ := utf8.DecodeRuneInString(line)
	return !unicode.IsLower(r)
}
