package heuristics

import (
	"regexp"
	"strings"

	"github.com/jonathan/profile-extractor/internal/types"
)

const monthAlternatives = `january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec`

var (
	dateRange      = regexp.MustCompile(`(?i)\b((?:(?:` + monthAlternatives + `)\.?\s+)?(?:19|20)\d{2})\s*(?:-|–|—|to)\s*((?:(?:` + monthAlternatives + `)\.?\s+)?(?:19|20)\d{2}|present|current|now|ongoing)\b`)
	pairSeparators = []string{" - ", " – ", " — ", " | ", " at "}
)

// splitPair splits "Left - Right" style lines on the first known separator.
func splitPair(line string) (left, right string, ok bool) {
	for _, sep := range pairSeparators {
		if i := strings.Index(line, sep); i > 0 {
			return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+len(sep):]), true
		}
	}
	return strings.TrimSpace(line), "", false
}

type experienceDraft struct {
	entry types.Experience
	body  []string
}

// ExtractExperience splits an experience section into entries. An entry opens
// at each line holding a date range; text on the date line is the title, and
// the following "Title - Company" and "Company - Location" lines fill the
// remaining header fields. Unbulleted lines between the last bullet of one
// entry and the next date range, or before the first date range, head the
// following entry. Bulleted lines become achievements.
func ExtractExperience(section string) []types.Experience {
	entries := []types.Experience{}
	var current *experienceDraft
	var pending []string

	for _, line := range nonEmptyLines(section) {
		loc := dateRange.FindStringSubmatchIndex(line)
		if loc == nil {
			if current == nil {
				pending = append(pending, line)
			} else {
				current.body = append(current.body, line)
			}
			continue
		}

		var lead []string
		if current != nil {
			current.body, lead = splitTrailingHeaders(current.body)
			entries = append(entries, current.finish())
		}
		start := ParseDate(line[loc[2]:loc[3]])
		end := ParseDate(line[loc[4]:loc[5]])
		current = &experienceDraft{entry: types.Experience{
			Start:     start,
			End:       end,
			IsCurrent: end.IsCurrent,
		}}

		rest := strings.Trim(collapse(line[:loc[0]]+" "+line[loc[1]:]), " -–—|,()")
		if rest != "" {
			current.entry.Title, current.entry.Company, _ = splitPair(rest)
		}
		current.body = append(append(current.body, pending...), lead...)
		pending = nil
	}
	if current != nil {
		entries = append(entries, current.finish())
	}
	return entries
}

func (d *experienceDraft) finish() types.Experience {
	e := d.entry
	body := d.body

	if e.Title == "" {
		if i := firstHeaderLine(body); i >= 0 {
			e.Title, e.Company, _ = splitPair(body[i])
			body = remove(body, i)
		}
	}
	if i := firstHeaderLine(body); i >= 0 {
		line := body[i]
		left, right, ok := splitPair(line)
		switch {
		case e.Company == "":
			e.Company, e.Location = left, right
			body = remove(body, i)
		case ok && strings.EqualFold(left, e.Company):
			e.Location = right
			body = remove(body, i)
		case ExtractLocation(line) == line:
			e.Location = line
			body = remove(body, i)
		}
	}
	if e.Location == "" {
		if company, location, ok := splitPair(e.Company); ok {
			e.Company, e.Location = company, location
		}
	}

	var description []string
	for _, line := range body {
		description = append(description, stripBullet(line))
	}
	e.Description = collapse(strings.Join(description, " "))
	e.Achievements = SplitList(strings.Join(body, "\n"), MaxAchievements)
	return e
}

// splitTrailingHeaders separates unbulleted lines after the last bullet of an
// entry. Those lines head the next entry rather than describe this one.
func splitTrailingHeaders(body []string) (kept, trailing []string) {
	last := -1
	for i, line := range body {
		if isBulletLine(line) {
			last = i
		}
	}
	if last < 0 {
		return body, nil
	}
	return body[:last+1], body[last+1:]
}

// firstHeaderLine finds a leading short, unbulleted line that reads like a
// title or company rather than a sentence.
func firstHeaderLine(lines []string) int {
	if len(lines) == 0 {
		return -1
	}
	line := lines[0]
	if isBulletLine(line) || len(line) > 80 || strings.HasSuffix(line, ".") {
		return -1
	}
	return 0
}

func remove(lines []string, i int) []string {
	out := make([]string, 0, len(lines)-1)
	out = append(out, lines[:i]...)
	return append(out, lines[i+1:]...)
}
