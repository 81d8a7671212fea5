package heuristics

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/profile-extractor/internal/fetch"
	"github.com/jonathan/profile-extractor/internal/types"
)

const (
	maxLongDescription = 1000
	maxDepartments     = 20
)

var (
	titleSeparators  = regexp.MustCompile(`\s+[|\-–—:·•»]\s+`)
	welcomePrefix    = regexp.MustCompile(`(?i)^welcome to\s+`)
	foundedPattern   = regexp.MustCompile(`(?i)\b(?:founded|established|since|est\.?)\s*(?:in\s+)?((?:1[5-9]|20)\d{2})\b`)
	employeesPattern = regexp.MustCompile(`(?i)\b(\d{1,3}(?:,\d{3})+|\d+)\s*\+?\s*(?:employees|staff|team members|people|professionals)\b`)
	departmentName   = regexp.MustCompile(`\b(?:Department|School|College) of (?:[A-Z][\w&'-]*)(?:\s+(?:and|&|of|the|[A-Z][\w&'-]*))*`)

	genericTitles = map[string]bool{"home": true, "homepage": true, "welcome": true, "official site": true, "official website": true}
)

// ExtractOrganization builds the heuristic organization profile from a parsed
// page. Fields that cannot be found are left empty.
func ExtractOrganization(page *types.WebPage, siteURL string, domain types.Domain) *types.OrganizationProfile {
	if page == nil {
		page = &types.WebPage{}
	}

	profile := &types.OrganizationProfile{
		Name:             OrganizationName(page.Title, siteURL),
		Category:         string(domain),
		ShortDescription: organizationDescription(page),
		LongDescription:  longDescription(page.Paragraphs),
		YearFounded:      ExtractYearFounded(page.RawText),
		EmployeesCount:   ExtractEmployeeCount(page.RawText),
		Social:           page.Social,
		Tags: types.OrgTags{
			DevelopmentInterests: []string{},
			AreasOfExpertise:     []string{},
			Skills:               ScanTechnicalSkills(page.RawText),
		},
		SimilarOrgs: []string{},
		Departments: []types.Department{},
	}
	if siteURL != "" {
		profile.Website = fetch.NormalizeURL(siteURL)
	}
	if len(page.Contact.Addresses) > 0 {
		profile.Address = page.Contact.Addresses[0]
		profile.Headquarter = page.Contact.Addresses[0]
	}
	if domain == types.DomainSchool {
		profile.Departments = ExtractDepartments(page)
	}
	return profile
}

// OrganizationName takes the first meaningful part of a page title, dropping
// site suffixes such as " | Home". Without a usable title the capitalized
// domain label stands in.
func OrganizationName(title, siteURL string) string {
	for _, part := range titleSeparators.Split(strings.TrimSpace(title), -1) {
		part = strings.TrimSpace(welcomePrefix.ReplaceAllString(strings.TrimSpace(part), ""))
		if part != "" && !genericTitles[strings.ToLower(part)] {
			return part
		}
	}
	if label := fetch.DomainLabel(siteURL); label != "" {
		return cases.Title(language.English).String(label)
	}
	return ""
}

func organizationDescription(page *types.WebPage) string {
	if page.MetaDescription != "" {
		return page.MetaDescription
	}
	if len(page.Paragraphs) > 0 {
		return page.Paragraphs[0]
	}
	return ""
}

func longDescription(paragraphs []string) string {
	var b strings.Builder
	for _, p := range paragraphs {
		if b.Len()+len(p)+1 > maxLongDescription {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}

// ExtractYearFounded returns the year from the first "founded in", "since" or
// "est." phrase.
func ExtractYearFounded(text string) string {
	if m := foundedPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractEmployeeCount returns the largest headcount mentioned as
// "N employees" (or staff, people), without separators.
func ExtractEmployeeCount(text string) string {
	best := -1
	for _, m := range employeesPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err == nil && n > best {
			best = n
		}
	}
	if best <= 0 {
		return ""
	}
	return strconv.Itoa(best)
}

// ExtractDepartments collects "Department of X", "School of X" and
// "College of X" names from headings and link text.
func ExtractDepartments(page *types.WebPage) []types.Department {
	departments := []types.Department{}
	seen := make(map[string]bool)

	candidates := append([]string{}, page.Headings...)
	for _, l := range page.Links {
		candidates = append(candidates, l.Text)
	}
	for _, c := range candidates {
		for _, name := range departmentName.FindAllString(c, -1) {
			name = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(name, " and"), " of"))
			key := strings.ToLower(name)
			if seen[key] || len(departments) >= maxDepartments {
				continue
			}
			seen[key] = true
			departments = append(departments, types.Department{Name: name})
		}
	}
	return departments
}
