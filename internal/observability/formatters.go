// Package observability provides logging, metrics and formatted console output
// for extraction runs.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/profile-extractor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// clip shortens s to n runes, marking the cut with "...".
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes a titled bullet list, showing at most maxItemsToShow items.
func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	for _, item := range items[:min(len(items), maxItemsToShow)] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
	sb.WriteString("\n")
}

func writeField(sb *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(sb, "%-10s%s\n", label+":", value)
	}
}

// PrintProfile outputs a human-readable summary of a normalized profile.
func (p *Printer) PrintProfile(profile *types.NormalizedProfile) {
	if profile == nil {
		return
	}
	switch {
	case profile.Resume != nil:
		p.printResume(profile.Resume, profile.Enhanced)
	case profile.Organization != nil:
		p.printOrganization(profile.Organization, profile.Enhanced)
	}
}

func source(enhanced bool) string {
	if enhanced {
		return "heuristics + AI"
	}
	return "heuristics only"
}

func (p *Printer) printResume(r *types.ResumeProfile, enhanced bool) {
	var sb strings.Builder
	writeField(&sb, "Name", r.PersonalInfo.FullName)
	writeField(&sb, "Email", r.PersonalInfo.Email)
	writeField(&sb, "Phone", r.PersonalInfo.Phone)
	writeField(&sb, "Location", r.PersonalInfo.Location)
	writeField(&sb, "Source", source(enhanced))
	sb.WriteString("\n")

	var lines []string
	for _, e := range r.Experience {
		line := e.Title
		if e.Company != "" {
			line += " at " + e.Company
		}
		lines = append(lines, line)
	}
	writeList(&sb, "Experience", lines)

	lines = lines[:0]
	for _, e := range r.Education {
		lines = append(lines, strings.TrimSpace(e.Degree+" "+e.Institution))
	}
	writeList(&sb, "Education", lines)
	writeList(&sb, "Technical Skills", r.Skills.Technical)

	p.printBox("RESUME PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

func (p *Printer) printOrganization(o *types.OrganizationProfile, enhanced bool) {
	var sb strings.Builder
	writeField(&sb, "Name", o.Name)
	writeField(&sb, "Website", o.Website)
	writeField(&sb, "Type", o.OrganizationType)
	writeField(&sb, "Founded", o.YearFounded)
	writeField(&sb, "Size", o.EmployeesCount)
	writeField(&sb, "Stage", o.GrowthStage)
	writeField(&sb, "Source", source(enhanced))
	sb.WriteString("\n")

	if o.ShortDescription != "" {
		sb.WriteString(clip(o.ShortDescription, boxWidth-4) + "\n\n")
	}

	var social []string
	for _, s := range []struct{ name, url string }{
		{"LinkedIn", o.Social.LinkedIn},
		{"Facebook", o.Social.Facebook},
		{"Twitter", o.Social.Twitter},
		{"Instagram", o.Social.Instagram},
		{"YouTube", o.Social.YouTube},
	} {
		if s.url != "" {
			social = append(social, s.name+": "+s.url)
		}
	}
	writeList(&sb, "Social", social)
	writeList(&sb, "Skills", o.Tags.Skills)

	var departments []string
	for _, d := range o.Departments {
		departments = append(departments, d.Name)
	}
	writeList(&sb, "Departments", departments)

	title := "COMPANY PROFILE"
	if o.Category == string(types.DomainSchool) {
		title = "SCHOOL PROFILE"
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRejections outputs AI values dropped by validation.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRejections(rejections []string) {
	if len(rejections) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO REJECTED FIELDS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Dropped %d values:\n\n", len(rejections))
	for _, r := range rejections {
		fmt.Fprintf(&sb, "⚠ %s\n", r)
	}
	p.printBox("REJECTED AI FIELDS", strings.TrimSuffix(sb.String(), "\n"))
}
