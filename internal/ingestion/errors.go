// Package ingestion acquires raw source material: text from uploaded
// documents and parsed pages from organization websites.
package ingestion

import (
	"fmt"

	"github.com/jonathan/profile-extractor/internal/types"
)

// AcquisitionError is a failure to read or fetch a source.
type AcquisitionError struct {
	Kind    types.SourceKind
	Source  string
	Message string
	Cause   error
}

func (e *AcquisitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to acquire %s %s: %s: %v", e.Kind, e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to acquire %s %s: %s", e.Kind, e.Source, e.Message)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Cause
}
