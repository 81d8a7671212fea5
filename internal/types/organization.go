package types

// OrganizationProfile is the organization profile shape shared by companies and schools.
type OrganizationProfile struct {
	Name             string       `json:"name,omitempty"`
	Website          string       `json:"website,omitempty"`
	Category         string       `json:"category" validate:"oneof=company school"`
	Address          string       `json:"address,omitempty"`
	YearFounded      string       `json:"year_founded,omitempty"`
	OrganizationType string       `json:"organization_type,omitempty"`
	EmployeesCount   string       `json:"employees_count,omitempty"`
	ShortDescription string       `json:"short_description,omitempty"`
	LongDescription  string       `json:"long_description,omitempty"`
	Tagline          string       `json:"tagline,omitempty"`
	Overview         string       `json:"overview,omitempty"`
	BusinessModel    string       `json:"business_model,omitempty"`
	Headquarter      string       `json:"headquarter,omitempty"`
	GrowthStage      string       `json:"growth_stage,omitempty"`
	Administrators   string       `json:"administrators,omitempty"`
	StudentInfo      string       `json:"student_info,omitempty"`
	Social           SocialLinks  `json:"social_media"`
	Tags             OrgTags      `json:"tags"`
	SimilarOrgs      []string     `json:"similar_organizations"`
	Departments      []Department `json:"departments"`
}

// OrgTags are the vocabulary buckets attached to an organization.
type OrgTags struct {
	DevelopmentInterests []string `json:"development_interests"`
	AreasOfExpertise     []string `json:"areas_of_expertise"`
	Skills               []string `json:"skills"`
}

// Department is a sub-unit of a school.
type Department struct {
	Name string `json:"name"`
}
