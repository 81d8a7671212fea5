// Package merging combines the heuristic baseline with validated AI output.
//
// Every scalar resolves as: validated AI value, else baseline value, else a
// default for the few fields a profile cannot be without. Sub-record lists
// merge by position and value lists concatenate without case-insensitive
// duplicates.
package merging

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/profile-extractor/internal/heuristics"
	"github.com/jonathan/profile-extractor/internal/types"
	"github.com/jonathan/profile-extractor/internal/validation"
)

// NameNotFound stands in for a resume name neither source produced.
const NameNotFound = "Name not found"

// ErrNoBaseline is returned when Merge is called without a heuristic record.
var ErrNoBaseline = errors.New("merge requires a heuristic record")

var emailCheck = validator.New()

// Merge produces the normalized profile for h, overlaid with ai when it is
// non-nil and of the same domain. Enhanced reports whether ai took part.
func Merge(h *types.HeuristicRecord, ai *types.AIRecord) (*types.NormalizedProfile, error) {
	if h == nil {
		return nil, ErrNoBaseline
	}
	if ai != nil && ai.Domain != h.Domain {
		ai = nil
	}

	out := &types.NormalizedProfile{Domain: h.Domain, Enhanced: ai != nil}
	if h.Domain == types.DomainResume {
		var overlay *types.ResumeProfile
		if ai != nil {
			overlay = ai.Resume
		}
		out.Resume = mergeResume(h.Resume, overlay)
	} else {
		var overlay *types.OrganizationProfile
		if ai != nil {
			overlay = ai.Organization
		}
		out.Organization = mergeOrganization(h.Organization, overlay, h.Domain)
	}
	return out, nil
}

// pick returns the first non-blank value.
func pick(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// union concatenates lists, keeping the first spelling of each item.
func union(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, item := range list {
			item = strings.TrimSpace(item)
			key := strings.ToLower(item)
			if item == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, item)
		}
	}
	return out
}

// positional overlays ai onto base index by index. Extra ai entries append.
func positional[T any](base, ai []T, merge func(base, ai T) T) []T {
	out := make([]T, 0, max(len(base), len(ai)))
	for i := 0; i < len(base) || i < len(ai); i++ {
		switch {
		case i >= len(ai):
			out = append(out, base[i])
		case i >= len(base):
			out = append(out, ai[i])
		default:
			out = append(out, merge(base[i], ai[i]))
		}
	}
	return out
}

func mergeResume(h, ai *types.ResumeProfile) *types.ResumeProfile {
	if h == nil {
		h = &types.ResumeProfile{}
	}
	if ai == nil {
		ai = &types.ResumeProfile{}
	}

	out := &types.ResumeProfile{
		PersonalInfo: mergePersonalInfo(h.PersonalInfo, ai.PersonalInfo),
		Summary:      pick(ai.Summary, h.Summary, heuristics.DefaultSummary()),
		Education:    positional(h.Education, ai.Education, mergeEducation),
		Experience:   positional(h.Experience, ai.Experience, mergeExperience),
		Skills: types.Skills{
			Technical: union(h.Skills.Technical, ai.Skills.Technical),
			Soft:      union(h.Skills.Soft, ai.Skills.Soft),
			Languages: union(h.Skills.Languages, ai.Skills.Languages),
		},
		Certifications: positional(h.Certifications, ai.Certifications, mergeCertification),
		Projects:       positional(h.Projects, ai.Projects, mergeProject),
	}
	return out
}

func mergePersonalInfo(h, ai types.PersonalInfo) types.PersonalInfo {
	out := types.PersonalInfo{
		FullName: pick(ai.FullName, h.FullName),
		Phone:    pick(ai.Phone, h.Phone),
		Location: pick(ai.Location, h.Location),
		LinkedIn: pick(ai.LinkedIn, h.LinkedIn),
		Website:  pick(ai.Website, h.Website),
	}
	out.Email = pick(validEmail(ai.Email), validEmail(h.Email))

	if out.FullName == "" {
		out.FullName = NameNotFound
		return out
	}
	out.FirstName, out.LastName = h.FirstName, h.LastName
	if ai.FullName != "" || out.FirstName == "" {
		out.FirstName, out.LastName = heuristics.SplitName(out.FullName)
	}
	return out
}

func validEmail(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || emailCheck.Var(v, "email") != nil {
		return ""
	}
	return v
}

func mergeEducation(h, ai types.Education) types.Education {
	return types.Education{
		Institution:     pick(ai.Institution, h.Institution),
		Degree:          pick(ai.Degree, h.Degree),
		Major:           pick(ai.Major, h.Major),
		GraduationMonth: pick(ai.GraduationMonth, h.GraduationMonth),
		GraduationYear:  pick(ai.GraduationYear, h.GraduationYear),
		GPA:             pick(ai.GPA, h.GPA),
		Honors:          pick(ai.Honors, h.Honors),
	}
}

func mergeDate(h, ai types.DateParts) types.DateParts {
	if ai.IsCurrent || ai.Year != "" {
		if ai.Month == "" && ai.Year == h.Year {
			ai.Month = h.Month
		}
		return ai
	}
	return h
}

func mergeExperience(h, ai types.Experience) types.Experience {
	out := types.Experience{
		Title:       pick(ai.Title, h.Title),
		Company:     pick(ai.Company, h.Company),
		Location:    pick(ai.Location, h.Location),
		Start:       mergeDate(h.Start, ai.Start),
		End:         mergeDate(h.End, ai.End),
		Description: pick(ai.Description, h.Description),
	}
	out.IsCurrent = out.End.IsCurrent
	out.Achievements = h.Achievements
	if len(ai.Achievements) > 0 {
		out.Achievements = ai.Achievements
	}
	return out
}

func mergeCertification(h, ai types.Certification) types.Certification {
	return types.Certification{
		Name:   pick(ai.Name, h.Name),
		Issuer: pick(ai.Issuer, h.Issuer),
		Date:   pick(ai.Date, h.Date),
	}
}

func mergeProject(h, ai types.Project) types.Project {
	return types.Project{
		Name:         pick(ai.Name, h.Name),
		Description:  pick(ai.Description, h.Description),
		Technologies: union(h.Technologies, ai.Technologies),
	}
}

func mergeOrganization(h, ai *types.OrganizationProfile, domain types.Domain) *types.OrganizationProfile {
	if h == nil {
		h = &types.OrganizationProfile{}
	}
	if ai == nil {
		ai = &types.OrganizationProfile{}
	}

	out := &types.OrganizationProfile{
		Name:             pick(ai.Name, h.Name, heuristics.OrganizationName("", h.Website)),
		Website:          pick(h.Website, ai.Website),
		Category:         string(domain),
		Address:          pick(ai.Address, h.Address),
		YearFounded:      pick(ai.YearFounded, h.YearFounded),
		ShortDescription: pick(ai.ShortDescription, h.ShortDescription),
		LongDescription:  pick(ai.LongDescription, h.LongDescription),
		Tagline:          pick(ai.Tagline, h.Tagline),
		Overview:         pick(ai.Overview, h.Overview),
		BusinessModel:    pick(ai.BusinessModel, h.BusinessModel),
		Headquarter:      pick(ai.Headquarter, h.Headquarter),
		Administrators:   pick(ai.Administrators, h.Administrators),
		StudentInfo:      pick(ai.StudentInfo, h.StudentInfo),
		Social: types.SocialLinks{
			LinkedIn:  pick(ai.Social.LinkedIn, h.Social.LinkedIn),
			Facebook:  pick(ai.Social.Facebook, h.Social.Facebook),
			Twitter:   pick(ai.Social.Twitter, h.Social.Twitter),
			Instagram: pick(ai.Social.Instagram, h.Social.Instagram),
			YouTube:   pick(ai.Social.YouTube, h.Social.YouTube),
		},
		Tags: types.OrgTags{
			DevelopmentInterests: union(h.Tags.DevelopmentInterests, ai.Tags.DevelopmentInterests),
			AreasOfExpertise:     union(h.Tags.AreasOfExpertise, ai.Tags.AreasOfExpertise),
			Skills:               union(h.Tags.Skills, ai.Tags.Skills),
		},
		SimilarOrgs: union(h.SimilarOrgs, ai.SimilarOrgs),
		Departments: mergeDepartments(h.Departments, ai.Departments),
	}

	out.OrganizationType = pick(
		validation.MapOrganizationType(ai.OrganizationType, domain),
		validation.MapOrganizationType(h.OrganizationType, domain),
		validation.DefaultOrganizationType(domain),
	)
	out.EmployeesCount = pick(
		validation.MapEmployeeCount(ai.EmployeesCount),
		validation.MapEmployeeCount(h.EmployeesCount),
	)
	out.GrowthStage = pick(
		validation.MapGrowthStage(ai.GrowthStage),
		validation.MapGrowthStage(h.GrowthStage),
	)
	if domain != types.DomainCompany {
		out.GrowthStage = ""
		out.BusinessModel = ""
	}
	return out
}

func mergeDepartments(h, ai []types.Department) []types.Department {
	names := make([]string, 0, len(h)+len(ai))
	for _, d := range h {
		names = append(names, d.Name)
	}
	for _, d := range ai {
		names = append(names, d.Name)
	}
	var out []types.Department
	for _, name := range union(names) {
		out = append(out, types.Department{Name: name})
	}
	return out
}
