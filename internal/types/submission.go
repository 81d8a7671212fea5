package types

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// SubmitRequest is the body of a job submission. Exactly one of URL and
// Document must be set.
type SubmitRequest struct {
	Domain   Domain `json:"domain" validate:"required,oneof=resume company school"`
	URL      string `json:"url,omitempty" validate:"omitempty,url"`
	Document []byte `json:"document,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// ErrSourceRequired is returned when neither or both sources are present.
var ErrSourceRequired = errors.New("exactly one of url or document is required")

// Validate validates the request.
func (r *SubmitRequest) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return err
	}
	if (r.URL == "") == (len(r.Document) == 0) {
		return ErrSourceRequired
	}
	if r.Domain == DomainResume && r.URL != "" {
		return errors.New("resume submissions require a document")
	}
	return nil
}

// Source returns the source kind the request describes.
func (r *SubmitRequest) Source() SourceKind {
	if len(r.Document) > 0 {
		return SourceDocument
	}
	return SourceWebpage
}
