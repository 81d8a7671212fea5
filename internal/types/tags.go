package types

import "strings"

// Tag categories attached by the persistence adapter.
const (
	TagTechnicalSkill      = "technical_skill"
	TagSoftSkill           = "soft_skill"
	TagLanguage            = "language"
	TagDevelopmentInterest = "development_interest"
	TagAreaOfExpertise     = "area_of_expertise"
	TagSkill               = "skill"
)

// Tag is one vocabulary entry associated with a stored profile.
type Tag struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Tags lists the vocabulary of the profile, de-duplicated per category
// ignoring case. Order follows the profile.
func (p *NormalizedProfile) Tags() []Tag {
	var tags []Tag
	seen := make(map[string]bool)
	add := func(category string, names []string) {
		for _, name := range names {
			name = strings.TrimSpace(name)
			key := category + "\x00" + strings.ToLower(name)
			if name == "" || seen[key] {
				continue
			}
			seen[key] = true
			tags = append(tags, Tag{Name: name, Category: category})
		}
	}

	if p.Resume != nil {
		add(TagTechnicalSkill, p.Resume.Skills.Technical)
		add(TagSoftSkill, p.Resume.Skills.Soft)
		add(TagLanguage, p.Resume.Skills.Languages)
	}
	if p.Organization != nil {
		add(TagDevelopmentInterest, p.Organization.Tags.DevelopmentInterests)
		add(TagAreaOfExpertise, p.Organization.Tags.AreasOfExpertise)
		add(TagSkill, p.Organization.Tags.Skills)
	}
	return tags
}
