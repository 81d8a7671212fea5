package db

import (
	"errors"
	"testing"

	"github.com/jonathan/profile-extractor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Node.js", "node.js"},
		{"  Machine   Learning ", "machine learning"},
		{"machine-learning", "machine learning"},
		{"C++", "c++"},
		{"C#", "c#"},
		{"C", "c"},
		{"Python.", "python"},
		{"Русский", "русский"},
		{"日本語", "日本語"},
		{"Français", "français"},
		{"STRASSE", "strasse"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), tt.in)
	}
}

func TestNormalizeName_DistinctLanguagesStayDistinct(t *testing.T) {
	names := []string{"C++", "C#", "C", "F#", "Objective-C"}
	seen := make(map[string]string)
	for _, name := range names {
		key := NormalizeName(name)
		prev, dup := seen[key]
		assert.False(t, dup, "%q and %q share tag %q", prev, name, key)
		seen[key] = name
	}
}

func TestProfileName(t *testing.T) {
	assert.Equal(t, "Jane Doe", ProfileName(&types.NormalizedProfile{
		Domain: types.DomainResume,
		Resume: &types.ResumeProfile{PersonalInfo: types.PersonalInfo{FullName: "Jane Doe"}},
	}))
	assert.Equal(t, "Acme", ProfileName(&types.NormalizedProfile{
		Domain:       types.DomainCompany,
		Organization: &types.OrganizationProfile{Name: "Acme"},
	}))
	assert.Empty(t, ProfileName(&types.NormalizedProfile{}))
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &PersistenceError{Operation: "save", Message: "failed to commit", Cause: cause}

	assert.Equal(t, "persistence error during save: failed to commit: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "persistence error during save: profile is nil",
		(&PersistenceError{Operation: "save", Message: "profile is nil"}).Error())
}

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"job_state", "profiles", "tags", "resource_tags"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
}
