package types

// SourceKind identifies how the raw material was acquired.
type SourceKind string

const (
	// SourceDocument is an uploaded binary document (PDF).
	SourceDocument SourceKind = "document"
	// SourceWebpage is a fetched web page.
	SourceWebpage SourceKind = "webpage"
)

// Domain selects the closed field schema a job extracts into.
type Domain string

const (
	// DomainResume is a personal/professional profile.
	DomainResume Domain = "resume"
	// DomainCompany is an organization profile for a company.
	DomainCompany Domain = "company"
	// DomainSchool is an organization profile for a university or school.
	DomainSchool Domain = "school"
)

// IsOrganization reports whether d produces an OrganizationProfile.
func (d Domain) IsOrganization() bool {
	return d == DomainCompany || d == DomainSchool
}

// RawSource is the immutable output of source acquisition.
type RawSource struct {
	Kind     SourceKind        `json:"kind"`
	URL      string            `json:"url,omitempty"`
	Text     string            `json:"text"`
	Pages    int               `json:"pages,omitempty"`
	Page     *WebPage          `json:"page,omitempty"`
	Fallback bool              `json:"fallback,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// WebPage holds the structured content parsed from an HTML document.
type WebPage struct {
	Title           string      `json:"title"`
	MetaDescription string      `json:"meta_description"`
	Headings        []string    `json:"headings"`
	Paragraphs      []string    `json:"paragraphs"`
	Links           []Link      `json:"links"`
	Social          SocialLinks `json:"social_media"`
	Contact         ContactInfo `json:"contact_info"`
	RawText         string      `json:"raw_text"`
}

// Link is an anchor kept for later inspection.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// SocialLinks holds at most one profile URL per platform. Empty means not found.
type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// IsEmpty reports whether no platform was resolved.
func (s SocialLinks) IsEmpty() bool {
	return s == SocialLinks{}
}

// ContactInfo is regex-scraped contact data.
type ContactInfo struct {
	Emails    []string `json:"emails"`
	Phones    []string `json:"phones"`
	Addresses []string `json:"addresses"`
}
