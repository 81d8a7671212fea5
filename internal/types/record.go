package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Contract is the response format requested from the generation service.
type Contract string

const (
	// ContractMarker asks for "FIELD_NAME: value" lines.
	ContractMarker Contract = "marker"
	// ContractJSON asks for a single JSON object matching a schema.
	ContractJSON Contract = "json"
)

// SemanticType drives per-field validation of AI output.
type SemanticType string

const (
	// TypeURL is an absolute http(s) URL on an expected platform.
	TypeURL SemanticType = "url"
	// TypeYear is a four digit year.
	TypeYear SemanticType = "year"
	// TypeFreeText is prose or a short scalar.
	TypeFreeText SemanticType = "text"
	// TypePipeList is a "|" separated list.
	TypePipeList SemanticType = "pipe_list"
	// TypeEnum is mapped onto a closed value set.
	TypeEnum SemanticType = "enum"
	// TypeBlock is a "---" separated block of "Key: value" entries.
	TypeBlock SemanticType = "block"
	// TypeCommaList is a "," separated list.
	TypeCommaList SemanticType = "comma_list"
)

// ValidatedField is one AI value after validation. Invalid fields carry no value.
type ValidatedField struct {
	Value string       `json:"value"`
	Type  SemanticType `json:"type"`
	Valid bool         `json:"valid"`
}

// Accepted returns a valid field.
func Accepted(value string, t SemanticType) ValidatedField {
	return ValidatedField{Value: value, Type: t, Valid: true}
}

// Rejected returns an invalid field with no value.
func Rejected(t SemanticType) ValidatedField {
	return ValidatedField{Type: t}
}

// String returns the value when valid and "" otherwise.
func (f ValidatedField) String() string {
	if !f.Valid {
		return ""
	}
	return f.Value
}

// HeuristicRecord is the deterministic baseline extracted without network access.
type HeuristicRecord struct {
	Domain       Domain               `json:"domain"`
	Resume       *ResumeProfile       `json:"resume,omitempty"`
	Organization *OrganizationProfile `json:"organization,omitempty"`
}

// AIResponse is the raw completion text and the contract it was requested under.
type AIResponse struct {
	RawText  string   `json:"raw_text"`
	Contract Contract `json:"contract"`
}

// AIRecord is the validated AI output in the same shape as the baseline.
// Rejected fields are left empty so the merge falls through to the baseline.
type AIRecord struct {
	Domain       Domain               `json:"domain"`
	Resume       *ResumeProfile       `json:"resume,omitempty"`
	Organization *OrganizationProfile `json:"organization,omitempty"`
	Rejections   []string             `json:"rejections,omitempty"`
}

// NormalizedProfile is the canonical output of a completed job.
type NormalizedProfile struct {
	Domain       Domain               `json:"domain" validate:"oneof=resume company school"`
	Enhanced     bool                 `json:"enhanced"`
	Resume       *ResumeProfile       `json:"resume,omitempty" validate:"required_if=Domain resume"`
	Organization *OrganizationProfile `json:"organization,omitempty"`
}

var profileValidator = validator.New()

// Validate checks that the profile matches its domain.
func (p *NormalizedProfile) Validate() error {
	if err := profileValidator.Struct(p); err != nil {
		return err
	}
	if p.Domain.IsOrganization() && p.Organization == nil {
		return fmt.Errorf("organization profile is required for domain %s", p.Domain)
	}
	return nil
}
