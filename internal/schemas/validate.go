// Package schemas holds the closed field schema of each extraction domain and
// validates JSON-contract responses against the embedded JSON Schemas.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/profile-extractor/internal/types"
	schemafiles "github.com/jonathan/profile-extractor/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// FileFor returns the embedded schema file name used for domain.
func FileFor(domain types.Domain) string {
	if domain == types.DomainResume {
		return schemafiles.Resume
	}
	return schemafiles.Organization
}

// Source returns the raw JSON Schema text for domain.
func Source(domain types.Domain) (string, error) {
	name := FileFor(domain)
	data, err := schemafiles.Files.ReadFile(name)
	if err != nil {
		return "", &SchemaLoadError{Path: name, Message: "schema not embedded", Cause: err}
	}
	return string(data), nil
}

var compiled sync.Map // file name -> *compiledSchema

type compiledSchema struct {
	once   sync.Once
	schema *gojsonschema.Schema
	err    error
}

func schemaFor(domain types.Domain) (*gojsonschema.Schema, error) {
	name := FileFor(domain)
	v, _ := compiled.LoadOrStore(name, &compiledSchema{})
	c := v.(*compiledSchema)
	c.once.Do(func() {
		src, err := Source(domain)
		if err != nil {
			c.err = err
			return
		}
		c.schema, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			c.err = &SchemaLoadError{Path: name, Message: "schema does not compile", Cause: err}
		}
	})
	return c.schema, c.err
}

// ValidateDocument validates a JSON document against the schema for domain.
// It returns *ValidationError when the document does not conform.
func ValidateDocument(domain types.Domain, document []byte) error {
	schema, err := schemaFor(domain)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	return resultError(result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return resultError(result)
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
