package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-extractor/internal/types"
)

const sampleResume = "John Doe\njohn@x.com\nEDUCATION\nMIT, BS Comp Sci, 2020\nEXPERIENCE\nJune 2020 - Present\nEngineer - Acme Corp"

const fullResume = `Jane A. Smith
jane.smith@example.com | (555) 123-4567 | Austin, TX
linkedin.com/in/janesmith | Portfolio: janesmith.dev

SUMMARY
Backend engineer with eight years building payment systems and data pipelines for growing teams.

EDUCATION
University of Texas at Austin
Bachelor of Science in Computer Science, GPA: 3.8
Magna Cum Laude, Graduation: May 2016

EXPERIENCE
Senior Software Engineer | Stripe | Jan 2019 - Present
San Francisco, CA
• Led migration of the ledger service to Go
• Cut p99 latency by 40%
• Mentored four engineers
• Ran the on-call rotation
Software Engineer - Initech
Jun 2016 - Dec 2018
Initech - Austin, TX
- Built reporting APIs in Python

SKILLS
Go, Python, PostgreSQL, Kubernetes, Leadership, Communication, Spanish (Fluent)

CERTIFICATIONS
AWS Certified Solutions Architect - Amazon Web Services (2021)
Certified Kubernetes Administrator | CNCF | March 2022

PROJECTS
Ledger Toolkit | Go, gRPC, Postgres
• Open-source double-entry bookkeeping library
Weekend Planner
Technologies: React, TypeScript`

func TestExtract_SampleDocument(t *testing.T) {
	record := Extract(&types.RawSource{Kind: types.SourceDocument, Text: sampleResume}, types.DomainResume)
	require.NotNil(t, record.Resume)
	assert.Nil(t, record.Organization)

	r := record.Resume
	assert.Equal(t, "John Doe", r.PersonalInfo.FullName)
	assert.Equal(t, "John", r.PersonalInfo.FirstName)
	assert.Equal(t, "Doe", r.PersonalInfo.LastName)
	assert.Equal(t, "john@x.com", r.PersonalInfo.Email)
	assert.Empty(t, r.PersonalInfo.Website)

	require.Len(t, r.Education, 1)
	assert.Equal(t, "MIT", r.Education[0].Institution)
	assert.Equal(t, "BS", r.Education[0].Degree)
	assert.Equal(t, "Comp Sci", r.Education[0].Major)
	assert.Equal(t, "2020", r.Education[0].GraduationYear)

	require.Len(t, r.Experience, 1)
	exp := r.Experience[0]
	assert.True(t, exp.IsCurrent)
	assert.Equal(t, "Engineer", exp.Title)
	assert.Equal(t, "Acme Corp", exp.Company)
	assert.Equal(t, types.DateParts{Month: "June", Year: "2020"}, exp.Start)
	assert.Equal(t, types.DateParts{IsCurrent: true}, exp.End)
}

func TestExtract_Deterministic(t *testing.T) {
	src := &types.RawSource{Kind: types.SourceDocument, Text: fullResume}
	first := Extract(src, types.DomainResume)
	for range 5 {
		assert.Equal(t, first, Extract(src, types.DomainResume))
	}
}

func TestExtractResume_Full(t *testing.T) {
	r := ExtractResume(fullResume)

	info := r.PersonalInfo
	assert.Equal(t, "Jane A. Smith", info.FullName)
	assert.Equal(t, "Jane", info.FirstName)
	assert.Equal(t, "A. Smith", info.LastName)
	assert.Equal(t, "jane.smith@example.com", info.Email)
	assert.Equal(t, "(555) 123-4567", info.Phone)
	assert.Equal(t, "Austin, TX", info.Location)
	assert.Equal(t, "linkedin.com/in/janesmith", info.LinkedIn)
	assert.Equal(t, "janesmith.dev", info.Website)

	assert.Equal(t, "Backend engineer with eight years building payment systems and data pipelines for growing teams.", r.Summary)

	require.Len(t, r.Education, 1)
	edu := r.Education[0]
	assert.Equal(t, "University of Texas at Austin", edu.Institution)
	assert.Equal(t, "Bachelor of Science", edu.Degree)
	assert.Equal(t, "Computer Science", edu.Major)
	assert.Equal(t, "3.8", edu.GPA)
	assert.Equal(t, "Magna Cum Laude", edu.Honors)
	assert.Equal(t, "May", edu.GraduationMonth)
	assert.Equal(t, "2016", edu.GraduationYear)

	require.Len(t, r.Experience, 2)
	stripe := r.Experience[0]
	assert.Equal(t, "Senior Software Engineer", stripe.Title)
	assert.Equal(t, "Stripe", stripe.Company)
	assert.True(t, stripe.IsCurrent)
	assert.Equal(t, "January", stripe.Start.Month)
	assert.Len(t, stripe.Achievements, MaxAchievements)
	assert.Equal(t, "Led migration of the ledger service to Go", stripe.Achievements[0])

	initech := r.Experience[1]
	assert.Equal(t, "Software Engineer", initech.Title)
	assert.Equal(t, "Initech", initech.Company)
	assert.Equal(t, "Austin, TX", initech.Location)
	assert.False(t, initech.IsCurrent)
	assert.Equal(t, types.DateParts{Month: "December", Year: "2018"}, initech.End)
	assert.Equal(t, []string{"Built reporting APIs in Python"}, initech.Achievements)

	assert.Contains(t, r.Skills.Technical, "Go")
	assert.Contains(t, r.Skills.Technical, "PostgreSQL")
	assert.Contains(t, r.Skills.Soft, "Leadership")
	assert.Contains(t, r.Skills.Languages, "Spanish (Fluent)")

	require.Len(t, r.Certifications, 2)
	assert.Equal(t, types.Certification{Name: "AWS Certified Solutions Architect", Issuer: "Amazon Web Services", Date: "2021"}, r.Certifications[0])
	assert.Equal(t, "March 2022", r.Certifications[1].Date)

	require.Len(t, r.Projects, 2)
	assert.Equal(t, "Ledger Toolkit", r.Projects[0].Name)
	assert.Equal(t, []string{"Go", "gRPC", "Postgres"}, r.Projects[0].Technologies)
	assert.Equal(t, "Open-source double-entry bookkeeping library", r.Projects[0].Description)
	assert.Equal(t, []string{"React", "TypeScript"}, r.Projects[1].Technologies)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want types.DateParts
	}{
		{"January 2023", types.DateParts{Month: "January", Year: "2023"}},
		{"Sept 2019", types.DateParts{Month: "September", Year: "2019"}},
		{"2021", types.DateParts{Year: "2021"}},
		{"Present", types.DateParts{IsCurrent: true}},
		{"current", types.DateParts{IsCurrent: true}},
		{"", types.DateParts{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDate(tt.in))
		})
	}
}

func TestSections(t *testing.T) {
	text := "Header line\nSkills: Go, SQL\nEducation\nState College\nEXPERIENCE\nWork\nEducation\nIgnored"
	sections := Sections(text)

	assert.Equal(t, "Go, SQL", sections[SectionSkills])
	assert.Equal(t, "State College", sections[SectionEducation])
	assert.Equal(t, "Work", sections[SectionExperience])
	assert.NotContains(t, sections, SectionProjects)
}

func TestSplitList(t *testing.T) {
	text := "Intro sentence\n• one\n- two\n1. three\n* four"
	assert.Equal(t, []string{"one", "two", "three"}, SplitList(text, MaxAchievements))
	assert.Len(t, SplitList(text, 0), 4)
}

func TestCategorizeSkill(t *testing.T) {
	tests := []struct {
		skill string
		want  SkillKind
	}{
		{"Python", SkillTechnical},
		{"Node.js", SkillTechnical},
		{"AWS", SkillTechnical},
		{"Problem Solving", SkillSoft},
		{"Teamwork", SkillSoft},
		{"French", SkillLanguage},
		{"Native Korean speaker", SkillLanguage},
		{"Figma", SkillTechnical},
		{"patience under pressure", SkillSoft},
		{"Русский", SkillLanguage},
		{"日本語", SkillLanguage},
		{"Español (nativo)", SkillLanguage},
		{"Kubernetes-операторы", SkillTechnical},
		{"Ölçeklenebilirlik", SkillSoft},
	}
	for _, tt := range tests {
		t.Run(tt.skill, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeSkill(tt.skill))
		})
	}
}

func TestCategorizeSkills_DedupesAndCaps(t *testing.T) {
	skills := CategorizeSkills("Languages: Go, go, SQL | Rust, etc.\nEnglish; Spanish")
	assert.Equal(t, []string{"Go", "SQL", "Rust"}, skills.Technical)
	assert.Equal(t, []string{"English", "Spanish"}, skills.Languages)
	assert.Empty(t, skills.Soft)
}

func TestCategorizeSkills_NonLatin(t *testing.T) {
	skills := CategorizeSkills("C++, C#, Python, Русский, Français")
	assert.Equal(t, []string{"C++", "C#", "Python"}, skills.Technical)
	assert.Equal(t, []string{"Русский", "Français"}, skills.Languages)
	assert.Empty(t, skills.Soft)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		full, first, last string
	}{
		{"John Doe", "John", "Doe"},
		{"Dr. Maria de la Cruz", "Maria", "de la Cruz"},
		{"Robert Smith Jr.", "Robert", "Smith"},
		{"Prof Alan Turing, PhD", "Alan", "Turing"},
		{"Cher", "Cher", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.full, func(t *testing.T) {
			first, last := SplitName(tt.full)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestExtractName_SkipsContactLines(t *testing.T) {
	text := "jane@example.com\nlinkedin.com/in/jane\nAustin, TX\nJane Q Public\nEXPERIENCE"
	assert.Equal(t, "Jane Q Public", ExtractName(text))
	assert.Empty(t, ExtractName("EDUCATION\nsome lowercase words here"))
}

func TestExtractWebsite(t *testing.T) {
	tests := []struct {
		text, want string
	}{
		{"Website: https://jane.dev", "https://jane.dev"},
		{"contact jane@gmail.com or www.janedoe.com", "www.janedoe.com"},
		{"Skills: Node.js, Vue.js", ""},
		{"linkedin.com/in/jane", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractWebsite(tt.text))
		})
	}
}

func TestExtractSummary_Synthesized(t *testing.T) {
	text := "Bachelor of Science in Computer Science and Business\nSoftware Engineer intern\nJava, Python, SQL, React"
	got := ExtractSummary("", text, nil)
	assert.Equal(t, "Computer Science and Business student with software development experience skilled in Java, Python, SQL.", got)

	assert.Empty(t, ExtractSummary("", "Barista at a coffee shop", nil))
	assert.Equal(t, "History student.", ExtractSummary("", "no signals", []types.Education{{Major: "History"}}))
}

func TestExtractSummary_RejectsEducationLikeSection(t *testing.T) {
	got := ExtractSummary("Senior at State University majoring in finance and economics", "", nil)
	assert.Empty(t, got)
}

func TestExtractOrganization_Company(t *testing.T) {
	page := &types.WebPage{
		Title:           "Acme Robotics | Home",
		MetaDescription: "Industrial robots for small factories.",
		Paragraphs:      []string{"Founded in 1998, Acme builds robots.", "We employ 1,200 employees and 40 contractors."},
		Social:          types.SocialLinks{LinkedIn: "https://www.linkedin.com/company/acme"},
		Contact:         types.ContactInfo{Addresses: []string{"1 Main St, Springfield"}},
		RawText:         "Founded in 1998, Acme builds robots with Python and Kubernetes. We employ 1,200 employees and 300 staff.",
	}
	org := ExtractOrganization(page, "acme.com", types.DomainCompany)

	assert.Equal(t, "Acme Robotics", org.Name)
	assert.Equal(t, "company", org.Category)
	assert.Equal(t, "https://acme.com", org.Website)
	assert.Equal(t, "Industrial robots for small factories.", org.ShortDescription)
	assert.Equal(t, "Founded in 1998, Acme builds robots. We employ 1,200 employees and 40 contractors.", org.LongDescription)
	assert.Equal(t, "1998", org.YearFounded)
	assert.Equal(t, "1200", org.EmployeesCount)
	assert.Equal(t, "1 Main St, Springfield", org.Address)
	assert.Equal(t, org.Address, org.Headquarter)
	assert.Equal(t, "https://www.linkedin.com/company/acme", org.Social.LinkedIn)
	assert.Equal(t, []string{"Python", "Kubernetes"}, org.Tags.Skills)
	assert.Empty(t, org.Departments)
	assert.Empty(t, org.OrganizationType)
}

func TestExtractOrganization_School(t *testing.T) {
	page := &types.WebPage{
		Title:    "Welcome to Springfield University",
		Headings: []string{"College of Engineering", "News"},
		Links:    []types.Link{{Text: "Department of Computer Science and Engineering"}, {Text: "College of Engineering"}},
	}
	org := ExtractOrganization(page, "https://www.springfield.edu", types.DomainSchool)

	assert.Equal(t, "Springfield University", org.Name)
	assert.Equal(t, []types.Department{
		{Name: "College of Engineering"},
		{Name: "Department of Computer Science and Engineering"},
	}, org.Departments)
}

func TestOrganizationName_FallsBackToDomainLabel(t *testing.T) {
	assert.Equal(t, "Globex", OrganizationName("Home", "https://www.globex.com/about"))
	assert.Equal(t, "Globex", OrganizationName("", "globex.com"))
}

func TestExtract_OrganizationFromText(t *testing.T) {
	src := &types.RawSource{Kind: types.SourceDocument, Text: "Established 1875. Over 500 staff."}
	record := Extract(src, types.DomainSchool)
	require.NotNil(t, record.Organization)
	assert.Nil(t, record.Resume)
	assert.Equal(t, "1875", record.Organization.YearFounded)
	assert.Equal(t, "500", record.Organization.EmployeesCount)
	assert.Equal(t, "school", record.Organization.Category)
}
