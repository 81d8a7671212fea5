// Package parsing turns raw completions into validated AIRecords. Marker-text
// and JSON completions end up in the same shape; every value passes through
// the validation package and rejected values are left empty.
package parsing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/profile-extractor/internal/schemas"
	"github.com/jonathan/profile-extractor/internal/types"
	"github.com/jonathan/profile-extractor/internal/validation"
)

// Parse parses resp for domain. now bounds year validation.
func Parse(resp *types.AIResponse, domain types.Domain, now time.Time) (*types.AIRecord, error) {
	if resp == nil {
		return nil, &ParseError{Message: "no response"}
	}
	switch resp.Contract {
	case types.ContractMarker:
		return ParseMarker(resp.RawText, domain, now), nil
	case types.ContractJSON:
		return ParseJSON(resp.RawText, domain, now), nil
	default:
		return nil, &ParseError{Message: fmt.Sprintf("unknown contract %q", resp.Contract)}
	}
}

// Skeleton returns an AIRecord with no values for domain.
func Skeleton(domain types.Domain) *types.AIRecord {
	rec := &types.AIRecord{Domain: domain}
	if domain == types.DomainResume {
		rec.Resume = &types.ResumeProfile{}
	} else {
		rec.Organization = &types.OrganizationProfile{Category: string(domain)}
	}
	return rec
}

// recorder collects rejections for one record.
type recorder struct {
	rec *types.AIRecord
}

func (r recorder) note(label string, err error) {
	if err == nil || errors.Is(err, validation.ErrEmpty) {
		return
	}
	r.rec.Rejections = append(r.rec.Rejections, label+": "+err.Error())
}

// text validates an entry value, returning "" for blank or rejected input.
func (r recorder) text(label, raw string) string {
	if templateEcho.MatchString(strings.TrimSpace(raw)) {
		return ""
	}
	v, err := validation.FreeText(raw)
	r.note(label, err)
	return v
}

// applyOrganization validates raw values keyed by marker label into org.
func applyOrganization(r recorder, org *types.OrganizationProfile, domain types.Domain, raw map[string]string, now time.Time) {
	for _, f := range schemas.Fields(domain) {
		value, ok := raw[f.Label]
		if !ok {
			continue
		}

		if f.Type == types.TypePipeList {
			items, err := validation.PipeList(value)
			r.note(f.Label, err)
			if err == nil {
				setOrganizationList(org, f.Label, items)
			}
			continue
		}

		vf, err := validation.Scalar(f, domain, value, now)
		r.note(f.Label, err)
		if vf.Valid {
			setOrganizationScalar(org, f.Label, vf.Value)
		}
	}
}

func setOrganizationScalar(org *types.OrganizationProfile, label, v string) {
	switch label {
	case "NAME":
		org.Name = v
	case "SHORT_DESCRIPTION":
		org.ShortDescription = v
	case "LONG_DESCRIPTION":
		org.LongDescription = v
	case "TAGLINE":
		org.Tagline = v
	case "OVERVIEW":
		org.Overview = v
	case "YEAR_FOUNDED":
		org.YearFounded = v
	case "ADDRESS":
		org.Address = v
	case "EMPLOYEES_COUNT":
		org.EmployeesCount = v
	case "ORGANIZATION_TYPE":
		org.OrganizationType = v
	case "BUSINESS_MODEL":
		org.BusinessModel = v
	case "HEADQUARTER":
		org.Headquarter = v
	case "GROWTH_STAGE":
		org.GrowthStage = v
	case "STUDENT_INFO":
		org.StudentInfo = v
	case "LINKEDIN":
		org.Social.LinkedIn = v
	case "FACEBOOK":
		org.Social.Facebook = v
	case "TWITTER":
		org.Social.Twitter = v
	case "INSTAGRAM":
		org.Social.Instagram = v
	case "YOUTUBE":
		org.Social.YouTube = v
	}
}

func setOrganizationList(org *types.OrganizationProfile, label string, items []string) {
	switch label {
	case "DEVELOPMENT_INTERESTS":
		org.Tags.DevelopmentInterests = items
	case "AREAS_OF_EXPERTISE":
		org.Tags.AreasOfExpertise = items
	case "SKILLS":
		org.Tags.Skills = items
	case "SIMILAR_ORGANIZATIONS":
		org.SimilarOrgs = items
	case "ADMINISTRATORS":
		org.Administrators = joinItems(items)
	case "DEPARTMENTS":
		org.Departments = make([]types.Department, len(items))
		for i, name := range items {
			org.Departments[i] = types.Department{Name: name}
		}
	}
}

func joinItems(items []string) string {
	return strings.Join(items, ", ")
}
