package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-extractor/internal/fetch"
	"github.com/jonathan/profile-extractor/internal/types"
)

func TestValidateDocument_Resume(t *testing.T) {
	doc := `{
		"personalInfo": {"fullName": "Jane Smith", "email": null},
		"professionalSummary": "Engineer.",
		"experience": [{"title": "Engineer", "company": "Acme", "keyAchievements": ["Shipped"]}],
		"skills": {"technical": ["Go"], "soft": [], "languages": []}
	}`
	assert.NoError(t, ValidateDocument(types.DomainResume, []byte(doc)))
}

func TestValidateDocument_WrongType(t *testing.T) {
	doc := `{"experience": "not a list"}`
	err := ValidateDocument(types.DomainResume, []byte(doc))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.NotEmpty(t, validationErr.Errors)
	assert.Equal(t, "experience", validationErr.Errors[0].Field)
}

func TestValidateDocument_Organization(t *testing.T) {
	valid := `{"name": "Acme", "year_founded": 1998, "skills": ["Go", "SQL"], "administrators": "Dean Smith"}`
	assert.NoError(t, ValidateDocument(types.DomainCompany, []byte(valid)))

	invalid := `{"skills": "Go|SQL"}`
	assert.Error(t, ValidateDocument(types.DomainSchool, []byte(invalid)))
}

func TestValidateDocument_Malformed(t *testing.T) {
	err := ValidateDocument(types.DomainCompany, []byte("{ invalid json }"))
	require.Error(t, err)

	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "x"}`))
	assert.Error(t, ValidateJSONString(schema, `{}`))

	err := ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestFields(t *testing.T) {
	company := Labels(types.DomainCompany)
	assert.Contains(t, company, "BUSINESS_MODEL")
	assert.Contains(t, company, "GROWTH_STAGE")
	assert.NotContains(t, company, "STUDENT_INFO")

	school := Labels(types.DomainSchool)
	assert.Contains(t, school, "ADMINISTRATORS")
	assert.Contains(t, school, "DEPARTMENTS")
	assert.NotContains(t, school, "GROWTH_STAGE")

	f, ok := Lookup(types.DomainCompany, "LINKEDIN")
	require.True(t, ok)
	assert.Equal(t, types.TypeURL, f.Type)
	assert.Equal(t, fetch.PlatformLinkedIn, f.Platform)

	f, ok = Lookup(types.DomainSchool, "ORGANIZATION_TYPE")
	require.True(t, ok)
	assert.Equal(t, OrganizationTypes, f.Allowed)

	_, ok = Lookup(types.DomainResume, "NAME")
	assert.False(t, ok)
	assert.Nil(t, Fields("unknown"))
}

func TestSource(t *testing.T) {
	src, err := Source(types.DomainResume)
	require.NoError(t, err)
	assert.Contains(t, src, "personalInfo")
	assert.Equal(t, "organization.schema.json", FileFor(types.DomainSchool))
}
