package parsing

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/profile-extractor/internal/fetch"
	"github.com/jonathan/profile-extractor/internal/heuristics"
	"github.com/jonathan/profile-extractor/internal/llm"
	"github.com/jonathan/profile-extractor/internal/schemas"
	"github.com/jonathan/profile-extractor/internal/types"
	"github.com/jonathan/profile-extractor/internal/validation"
)

// flexString decodes a JSON string, number, boolean, null or array of those.
// Arrays are joined with " | ".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case data[0] == '[':
		var items []flexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if s := strings.TrimSpace(string(item)); s != "" {
				parts = append(parts, s)
			}
		}
		*f = flexString(strings.Join(parts, " | "))
	case data[0] == '{':
		*f = ""
	default:
		if n, err := strconv.ParseFloat(string(data), 64); err == nil {
			*f = flexString(strconv.FormatFloat(n, 'f', -1, 64))
			return nil
		}
		*f = flexString(data)
	}
	return nil
}

func (f flexString) String() string { return strings.TrimSpace(string(f)) }

type resumeDocument struct {
	PersonalInfo struct {
		FullName flexString `json:"fullName"`
		Email    flexString `json:"email"`
		Phone    flexString `json:"phone"`
		Location flexString `json:"location"`
		LinkedIn flexString `json:"linkedin"`
		Website  flexString `json:"website"`
	} `json:"personalInfo"`
	ProfessionalSummary flexString `json:"professionalSummary"`
	Experience          []struct {
		Title           flexString   `json:"title"`
		Company         flexString   `json:"company"`
		Location        flexString   `json:"location"`
		StartDate       flexString   `json:"startDate"`
		EndDate         flexString   `json:"endDate"`
		Description     flexString   `json:"description"`
		KeyAchievements []flexString `json:"keyAchievements"`
	} `json:"experience"`
	Education []struct {
		Degree         flexString `json:"degree"`
		Institution    flexString `json:"institution"`
		GraduationYear flexString `json:"graduationYear"`
		GPA            flexString `json:"gpa"`
		Honors         flexString `json:"honors"`
	} `json:"education"`
	Skills struct {
		Technical []flexString `json:"technical"`
		Soft      []flexString `json:"soft"`
		Languages []flexString `json:"languages"`
	} `json:"skills"`
	Certifications []struct {
		Name   flexString `json:"name"`
		Issuer flexString `json:"issuer"`
		Date   flexString `json:"date"`
	} `json:"certifications"`
	Projects []struct {
		Name         flexString   `json:"name"`
		Description  flexString   `json:"description"`
		Technologies []flexString `json:"technologies"`
	} `json:"projects"`
}

// ParseJSON parses a JSON-contract completion. Code fences and surrounding
// prose are stripped first. A document that is malformed or fails the domain
// schema yields an empty record with the failure in Rejections.
func ParseJSON(raw string, domain types.Domain, now time.Time) *types.AIRecord {
	rec := Skeleton(domain)
	r := recorder{rec: rec}

	doc := []byte(llm.CleanJSONBlock(raw))
	if err := schemas.ValidateDocument(domain, doc); err != nil {
		r.note("JSON", err)
		return rec
	}

	if domain != types.DomainResume {
		var fields map[string]flexString
		if err := json.Unmarshal(doc, &fields); err != nil {
			r.note("JSON", &ParseError{Message: "decode organization", Cause: err})
			return rec
		}
		values := make(map[string]string)
		for _, f := range schemas.Fields(domain) {
			if v, ok := fields[f.Key]; ok {
				values[f.Label] = v.String()
			}
		}
		applyOrganization(r, rec.Organization, domain, values, now)
		return rec
	}

	var d resumeDocument
	if err := json.Unmarshal(doc, &d); err != nil {
		r.note("JSON", &ParseError{Message: "decode resume", Cause: err})
		return rec
	}
	applyResume(r, rec.Resume, &d)
	return rec
}

func applyResume(r recorder, res *types.ResumeProfile, d *resumeDocument) {
	info := &res.PersonalInfo
	info.FullName = r.text("fullName", d.PersonalInfo.FullName.String())
	info.FirstName, info.LastName = heuristics.SplitName(info.FullName)
	info.Email = r.text("email", d.PersonalInfo.Email.String())
	info.Phone = r.text("phone", d.PersonalInfo.Phone.String())
	info.Location = r.text("location", d.PersonalInfo.Location.String())

	if v, err := validation.URL(d.PersonalInfo.LinkedIn.String(), fetch.PlatformLinkedIn); err == nil {
		info.LinkedIn = v
	} else {
		r.note("linkedin", err)
	}
	if v, err := validation.Website(d.PersonalInfo.Website.String()); err == nil {
		info.Website = v
	} else {
		r.note("website", err)
	}

	res.Summary = r.text("professionalSummary", d.ProfessionalSummary.String())

	for _, x := range d.Experience {
		exp := types.Experience{
			Title:       r.text("experience", x.Title.String()),
			Company:     r.text("experience", x.Company.String()),
			Location:    r.text("experience", x.Location.String()),
			Description: r.text("experience", x.Description.String()),
			Start:       parseDate(x.StartDate.String()),
			End:         parseDate(x.EndDate.String()),
		}
		if exp.Title == "" && exp.Company == "" {
			continue
		}
		exp.IsCurrent = exp.End.IsCurrent
		for _, a := range x.KeyAchievements {
			if v := r.text("experience", a.String()); v != "" {
				exp.Achievements = append(exp.Achievements, v)
			}
		}
		res.Experience = append(res.Experience, exp)
	}

	for _, x := range d.Education {
		edu := types.Education{
			Institution: r.text("education", x.Institution.String()),
			Degree:      r.text("education", x.Degree.String()),
			GPA:         r.text("education", x.GPA.String()),
			Honors:      r.text("education", x.Honors.String()),
		}
		if edu.Institution == "" && edu.Degree == "" {
			continue
		}
		if m := majorInDeg.FindStringSubmatch(edu.Degree); m != nil {
			edu.Major = strings.TrimSpace(m[1])
		}
		grad := parseDate(x.GraduationYear.String())
		edu.GraduationMonth, edu.GraduationYear = grad.Month, grad.Year
		res.Education = append(res.Education, edu)
	}

	res.Skills.Technical = jsonList(r, "skills.technical", d.Skills.Technical)
	res.Skills.Soft = jsonList(r, "skills.soft", d.Skills.Soft)
	res.Skills.Languages = jsonList(r, "skills.languages", d.Skills.Languages)

	for _, x := range d.Certifications {
		c := types.Certification{
			Name:   r.text("certifications", x.Name.String()),
			Issuer: r.text("certifications", x.Issuer.String()),
			Date:   r.text("certifications", x.Date.String()),
		}
		if c.Name != "" {
			res.Certifications = append(res.Certifications, c)
		}
	}

	for _, x := range d.Projects {
		p := types.Project{
			Name:         r.text("projects", x.Name.String()),
			Description:  r.text("projects", x.Description.String()),
			Technologies: jsonList(r, "projects", x.Technologies),
		}
		if p.Name != "" {
			res.Projects = append(res.Projects, p)
		}
	}
}

// jsonList validates array items with the list rules.
func jsonList(r recorder, label string, items []flexString) []string {
	if len(items) == 0 {
		return nil
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	out, err := validation.PipeList(strings.Join(parts, "|"))
	r.note(label, err)
	return out
}
