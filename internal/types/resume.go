package types

// DateParts is a parsed month/year pair. Empty strings mean unknown.
// IsCurrent marks an open-ended date such as "Present".
type DateParts struct {
	Month     string `json:"month,omitempty"`
	Year      string `json:"year,omitempty"`
	IsCurrent bool   `json:"is_current"`
}

// PersonalInfo is the contact block of a resume profile.
type PersonalInfo struct {
	FullName  string `json:"full_name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Website   string `json:"website,omitempty"`
}

// Education is one education entry.
type Education struct {
	Institution     string `json:"institution,omitempty"`
	Degree          string `json:"degree,omitempty"`
	Major           string `json:"major,omitempty"`
	GraduationMonth string `json:"graduation_month,omitempty"`
	GraduationYear  string `json:"graduation_year,omitempty"`
	GPA             string `json:"gpa,omitempty"`
	Honors          string `json:"honors,omitempty"`
}

// Experience is one work or leadership position.
type Experience struct {
	Title        string    `json:"title,omitempty"`
	Company      string    `json:"company,omitempty"`
	Location     string    `json:"location,omitempty"`
	Start        DateParts `json:"start"`
	End          DateParts `json:"end"`
	IsCurrent    bool      `json:"is_current"`
	Description  string    `json:"description,omitempty"`
	Achievements []string  `json:"achievements,omitempty"`
}

// Skills are categorized skill buckets.
type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Languages []string `json:"languages"`
}

// Certification is one certification or award.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

// Project is one personal or professional project.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// ResumeProfile is the personal/professional profile shape.
type ResumeProfile struct {
	PersonalInfo   PersonalInfo    `json:"personal_info"`
	Summary        string          `json:"summary,omitempty"`
	Education      []Education     `json:"education"`
	Experience     []Experience    `json:"experience"`
	Skills         Skills          `json:"skills"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
}
