package prompts

import (
	"fmt"
	"strings"

	"github.com/jonathan/profile-extractor/internal/fetch"
	"github.com/jonathan/profile-extractor/internal/llm"
	"github.com/jonathan/profile-extractor/internal/schemas"
	"github.com/jonathan/profile-extractor/internal/types"
)

// ExcerptLimit caps the source text embedded in a prompt, in characters.
const ExcerptLimit = 3000

// Generation parameters per contract.
const (
	MarkerMaxTokens   = 3500
	MarkerTemperature = 0.2
	JSONMaxTokens     = 8000
	JSONTemperature   = 0.05
)

// Prompt is a fully rendered generation request.
type Prompt struct {
	System      string
	User        string
	Contract    types.Contract
	Tier        llm.ModelTier
	MaxTokens   int
	Temperature float32
}

// Request converts p into a gateway request.
func (p *Prompt) Request() llm.Request {
	return llm.Request{
		Tier:        p.Tier,
		System:      p.System,
		User:        p.User,
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		JSON:        p.Contract == types.ContractJSON,
	}
}

// Builder renders prompts from the embedded templates.
type Builder struct {
	// ExcerptLimit overrides the default excerpt size when positive.
	ExcerptLimit int
}

// NewBuilder returns a Builder with default settings.
func NewBuilder() *Builder {
	return &Builder{ExcerptLimit: ExcerptLimit}
}

// Build renders the prompt for record under contract. src supplies the
// excerpt and, for organizations, the scraped page data.
func (b *Builder) Build(record *types.HeuristicRecord, src *types.RawSource, contract types.Contract) (*Prompt, error) {
	if record == nil {
		return nil, fmt.Errorf("heuristic record is required")
	}
	if src == nil {
		src = &types.RawSource{}
	}
	if contract != types.ContractMarker && contract != types.ContractJSON {
		return nil, fmt.Errorf("unknown contract %q", contract)
	}

	limit := b.ExcerptLimit
	if limit <= 0 {
		limit = ExcerptLimit
	}

	var (
		system, user string
		err          error
	)
	switch {
	case record.Domain == types.DomainResume:
		system, user, err = b.resume(record, src, contract, limit)
	case record.Domain.IsOrganization():
		system, user, err = b.organization(record, src, contract, limit)
	default:
		return nil, fmt.Errorf("unknown domain %q", record.Domain)
	}
	if err != nil {
		return nil, err
	}

	p := &Prompt{System: system, User: user, Contract: contract}
	if contract == types.ContractJSON {
		p.Tier, p.MaxTokens, p.Temperature = llm.TierStandard, JSONMaxTokens, JSONTemperature
	} else {
		p.Tier, p.MaxTokens, p.Temperature = llm.TierLite, MarkerMaxTokens, MarkerTemperature
	}
	return p, nil
}

func (b *Builder) resume(record *types.HeuristicRecord, src *types.RawSource, contract types.Contract, limit int) (string, string, error) {
	data := map[string]string{
		"Excerpt": Excerpt(src.Text, limit),
	}

	if contract == types.ContractJSON {
		schema, err := schemas.Source(types.DomainResume)
		if err != nil {
			return "", "", err
		}
		data["Schema"] = schema
		data["Example"] = MustGet(TemplateFile, "resume-json-example")
		data["Rules"] = MustGet(TemplateFile, "rules-json")
		return MustGet(TemplateFile, "resume-system-json"), Format(MustGet(TemplateFile, "resume-json"), data), nil
	}

	data["Baseline"] = resumeBaseline(record.Resume)
	data["Fields"] = markerFields(types.DomainResume)
	data["Rules"] = MustGet(TemplateFile, "rules-marker")
	return MustGet(TemplateFile, "resume-system-marker"), Format(MustGet(TemplateFile, "resume-marker"), data), nil
}

func (b *Builder) organization(record *types.HeuristicRecord, src *types.RawSource, contract types.Contract, limit int) (string, string, error) {
	page := src.Page
	if page == nil {
		page = &types.WebPage{RawText: src.Text}
	}
	org := record.Organization
	if org == nil {
		org = &types.OrganizationProfile{}
	}

	social := page.Social
	if social.IsEmpty() {
		social = org.Social
	}

	title := page.Title
	if title == "" {
		title = org.Name
	}
	description := page.MetaDescription
	if description == "" {
		description = org.ShortDescription
	}
	text := page.RawText
	if text == "" {
		text = src.Text
	}

	category := "company"
	system := MustGet(TemplateFile, "company-system")
	if record.Domain == types.DomainSchool {
		category = "university"
		system = MustGet(TemplateFile, "school-system")
	}

	url := src.URL
	if url == "" {
		url = org.Website
	}

	data := map[string]string{
		"Category":        category,
		"URL":             url,
		"Title":           title,
		"MetaDescription": description,
		"Headings":        strings.Join(page.Headings, ", "),
		"Excerpt":         Excerpt(text, limit),
		"Social":          SocialHints(social),
	}

	if contract == types.ContractJSON {
		schema, err := schemas.Source(record.Domain)
		if err != nil {
			return "", "", err
		}
		data["Schema"] = schema
		data["Allowed"] = allowedValues(record.Domain)
		data["Rules"] = MustGet(TemplateFile, "rules-json")
		return system, Format(MustGet(TemplateFile, "organization-json"), data), nil
	}

	data["Fields"] = markerFields(record.Domain)
	data["Rules"] = MustGet(TemplateFile, "rules-marker")
	return system, Format(MustGet(TemplateFile, "organization-marker"), data), nil
}

// Excerpt returns at most limit characters of text.
func Excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// SocialHints renders scraped social links for the prompt.
func SocialHints(s types.SocialLinks) string {
	if s.IsEmpty() {
		return "None found"
	}
	var sb strings.Builder
	sb.WriteString("Use these URLs EXACTLY as shown below. Copy the full URL for each platform.\n")
	for _, p := range []struct{ label, url string }{
		{"LINKEDIN", s.LinkedIn},
		{"FACEBOOK", s.Facebook},
		{"TWITTER", s.Twitter},
		{"INSTAGRAM", s.Instagram},
		{"YOUTUBE", s.YouTube},
	} {
		if p.url != "" {
			fmt.Fprintf(&sb, "%s: %s\n", p.label, p.url)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

var platformExamples = map[fetch.Platform]string{
	fetch.PlatformLinkedIn:  "https://linkedin.com/company/example",
	fetch.PlatformFacebook:  "https://facebook.com/example",
	fetch.PlatformTwitter:   "https://twitter.com/example OR https://x.com/example",
	fetch.PlatformInstagram: "https://instagram.com/example",
	fetch.PlatformYouTube:   "https://youtube.com/@example",
}

var blockFormats = map[string]string{
	"EDUCATION": `University: [Full institution name]
Degree: [Full degree name with major]
Graduation: [Month Year or Year]
GPA: [GPA if available, otherwise omit this line]
Honors: [Honors or distinctions, otherwise omit this line]
---`,
	"EXPERIENCE": `Position: [Job title]
Company: [Company name]
Location: [City, State or City, Country]
Start Date: [Month/Year, e.g. "January/2023"]
End Date: [Month/Year or "Current"]
Description: [1-2 sentence overview]
Achievements:
• [Achievement with metrics]
---`,
	"CERTIFICATIONS": `Name: [Full certification name]
Issuer: [Issuing organization]
Date: [Year or Month Year]
---`,
	"PROJECTS": `Name: [Project name]
Description: [1-2 sentence description]
Technologies: [Comma-separated list]
---`,
}

func markerFields(domain types.Domain) string {
	var sb strings.Builder
	for i, f := range schemas.Fields(domain) {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		switch f.Type {
		case types.TypeEnum:
			fmt.Fprintf(&sb, "%s: [Choose ONE from: %s]", f.Label, quoteAll(f.Allowed))
		case types.TypeURL:
			fmt.Fprintf(&sb, "%s:\n(%s)\n(Example: %s)\n(DO NOT write %s:, \"Not found\", or any other text)",
				f.Label, f.Hint, platformExamples[f.Platform], f.Label)
		case types.TypeBlock:
			fmt.Fprintf(&sb, "%s: [%s, separated by \"---\" between entries:\n%s]", f.Label, f.Hint, blockFormats[f.Label])
		case types.TypeCommaList:
			fmt.Fprintf(&sb, "%s: [Comma-separated list of %s]", f.Label, f.Hint)
		case types.TypePipeList:
			fmt.Fprintf(&sb, "%s: [Items %s]", f.Label, f.Hint)
		default:
			fmt.Fprintf(&sb, "%s: [%s]", f.Label, f.Hint)
		}
	}
	return sb.String()
}

func allowedValues(domain types.Domain) string {
	var lines []string
	for _, f := range schemas.Fields(domain) {
		if f.Type == types.TypeEnum {
			lines = append(lines, fmt.Sprintf("%s: %s", f.Key, quoteAll(f.Allowed)))
		}
	}
	return strings.Join(lines, "\n")
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}

func resumeBaseline(r *types.ResumeProfile) string {
	if r == nil {
		return "None extracted"
	}
	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}

	p := r.PersonalInfo
	add("Name", p.FullName)
	add("Email", p.Email)
	add("Phone", p.Phone)
	add("Location", p.Location)
	add("LinkedIn", p.LinkedIn)
	add("Website", p.Website)
	add("Summary", r.Summary)
	for _, e := range r.Education {
		add("Education", joinNonEmpty(", ", e.Degree, e.Major, e.Institution, e.GraduationYear))
	}
	for _, e := range r.Experience {
		add("Experience", joinNonEmpty(" at ", e.Title, e.Company))
	}
	add("Technical Skills", strings.Join(r.Skills.Technical, ", "))
	add("Soft Skills", strings.Join(r.Skills.Soft, ", "))
	add("Languages", strings.Join(r.Skills.Languages, ", "))

	if len(lines) == 0 {
		return "None extracted"
	}
	return strings.Join(lines, "\n")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
