package schemas

import (
	"github.com/jonathan/profile-extractor/internal/fetch"
	"github.com/jonathan/profile-extractor/internal/types"
)

// Field is one entry of a domain's closed field schema.
type Field struct {
	// Label is the marker-contract label, e.g. "YEAR_FOUNDED".
	Label string
	// Key is the JSON-contract key.
	Key      string
	Type     types.SemanticType
	Hint     string
	Allowed  []string
	Platform fetch.Platform
}

// Constrained value sets for enum fields.
var (
	OrganizationTypes = []string{
		"For Profit",
		"Non Profit",
		"Bcorp",
		"Private For Profit",
		"Public For Profit",
		"Government Organization",
		"Political Organization",
		"Academic",
	}
	EmployeeBrackets = []string{
		"1-10",
		"11-50",
		"51-100",
		"101-500",
		"501-1000",
		"1001-5000",
		"5001-10000",
		"10001-50000",
		"50001+",
	}
	GrowthStages = []string{
		"Large Enterprise",
		"Established Startup",
		"Pre-Revenue Startup",
		"Small Business",
		"Medium Business",
		"High-Growth Startup",
	}
)

var resumeFields = []Field{
	{Label: "PROFESSIONAL_SUMMARY", Key: "professionalSummary", Type: types.TypeFreeText, Hint: "2-3 sentence professional summary"},
	{Label: "EDUCATION", Key: "education", Type: types.TypeBlock, Hint: "University, Degree, Graduation, GPA, Honors per entry"},
	{Label: "EXPERIENCE", Key: "experience", Type: types.TypeBlock, Hint: "Position, Company, Location, Start Date, End Date, Description, Achievements per entry"},
	{Label: "TECHNICAL_SKILLS", Key: "skills.technical", Type: types.TypeCommaList, Hint: "programming languages, frameworks, tools"},
	{Label: "SOFT_SKILLS", Key: "skills.soft", Type: types.TypeCommaList, Hint: "interpersonal and leadership skills"},
	{Label: "LANGUAGES", Key: "skills.languages", Type: types.TypeCommaList, Hint: "spoken languages"},
	{Label: "CERTIFICATIONS", Key: "certifications", Type: types.TypeBlock, Hint: "Name, Issuer, Date per entry"},
	{Label: "PROJECTS", Key: "projects", Type: types.TypeBlock, Hint: "Name, Description, Technologies per entry"},
}

func organizationHead() []Field {
	return []Field{
		{Label: "NAME", Key: "name", Type: types.TypeFreeText, Hint: "official organization name"},
		{Label: "SHORT_DESCRIPTION", Key: "short_description", Type: types.TypeFreeText, Hint: "one sentence"},
		{Label: "LONG_DESCRIPTION", Key: "long_description", Type: types.TypeFreeText, Hint: "one detailed paragraph"},
		{Label: "TAGLINE", Key: "tagline", Type: types.TypeFreeText, Hint: "slogan or motto"},
		{Label: "OVERVIEW", Key: "overview", Type: types.TypeFreeText, Hint: "mission and activities"},
		{Label: "YEAR_FOUNDED", Key: "year_founded", Type: types.TypeYear, Hint: "four digit year"},
		{Label: "ADDRESS", Key: "address", Type: types.TypeFreeText, Hint: "full street address"},
		{Label: "EMPLOYEES_COUNT", Key: "employees_count", Type: types.TypeEnum, Allowed: EmployeeBrackets},
		{Label: "ORGANIZATION_TYPE", Key: "organization_type", Type: types.TypeEnum, Allowed: OrganizationTypes},
	}
}

func socialFields() []Field {
	const hint = "Provide ONLY the complete URL or leave this line blank"
	return []Field{
		{Label: "LINKEDIN", Key: "linkedin", Type: types.TypeURL, Platform: fetch.PlatformLinkedIn, Hint: hint},
		{Label: "FACEBOOK", Key: "facebook", Type: types.TypeURL, Platform: fetch.PlatformFacebook, Hint: hint},
		{Label: "TWITTER", Key: "twitter", Type: types.TypeURL, Platform: fetch.PlatformTwitter, Hint: hint},
		{Label: "INSTAGRAM", Key: "instagram", Type: types.TypeURL, Platform: fetch.PlatformInstagram, Hint: hint},
		{Label: "YOUTUBE", Key: "youtube", Type: types.TypeURL, Platform: fetch.PlatformYouTube, Hint: hint},
	}
}

func tagFields() []Field {
	return []Field{
		{Label: "DEVELOPMENT_INTERESTS", Key: "development_interests", Type: types.TypePipeList, Hint: "separated by |"},
		{Label: "AREAS_OF_EXPERTISE", Key: "areas_of_expertise", Type: types.TypePipeList, Hint: "separated by |"},
		{Label: "SKILLS", Key: "skills", Type: types.TypePipeList, Hint: "separated by |"},
		{Label: "HEADQUARTER", Key: "headquarter", Type: types.TypeFreeText, Hint: "city and country"},
	}
}

var (
	companyFields = concat(
		organizationHead(),
		[]Field{{Label: "BUSINESS_MODEL", Key: "business_model", Type: types.TypeFreeText, Hint: "how the organization makes money"}},
		socialFields(),
		tagFields(),
		[]Field{
			{Label: "GROWTH_STAGE", Key: "growth_stage", Type: types.TypeEnum, Allowed: GrowthStages},
			{Label: "SIMILAR_ORGANIZATIONS", Key: "similar_organizations", Type: types.TypePipeList, Hint: "separated by |"},
		},
	)
	schoolFields = concat(
		organizationHead(),
		[]Field{
			{Label: "ADMINISTRATORS", Key: "administrators", Type: types.TypePipeList, Hint: "key leaders separated by |"},
			{Label: "STUDENT_INFO", Key: "student_info", Type: types.TypeFreeText, Hint: "enrollment and student body"},
		},
		socialFields(),
		tagFields(),
		[]Field{
			{Label: "DEPARTMENTS", Key: "departments", Type: types.TypePipeList, Hint: "schools and departments separated by |"},
			{Label: "SIMILAR_ORGANIZATIONS", Key: "similar_organizations", Type: types.TypePipeList, Hint: "separated by |"},
		},
	)
)

func concat(groups ...[]Field) []Field {
	var out []Field
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Fields returns the closed field schema for domain in prompt order.
// The returned slice must not be modified.
func Fields(domain types.Domain) []Field {
	switch domain {
	case types.DomainResume:
		return resumeFields
	case types.DomainCompany:
		return companyFields
	case types.DomainSchool:
		return schoolFields
	default:
		return nil
	}
}

// Lookup returns the field with the given marker label.
func Lookup(domain types.Domain, label string) (Field, bool) {
	for _, f := range Fields(domain) {
		if f.Label == label {
			return f, true
		}
	}
	return Field{}, false
}

// Labels returns the marker labels of domain in prompt order.
func Labels(domain types.Domain) []string {
	fields := Fields(domain)
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = f.Label
	}
	return labels
}
