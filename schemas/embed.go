// Package schemas holds the JSON Schemas for structured generation responses.
package schemas

import "embed"

// Files contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var Files embed.FS

// Resume and Organization name the schema files for each response shape.
const (
	Resume       = "resume.schema.json"
	Organization = "organization.schema.json"
)
