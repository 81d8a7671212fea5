package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to JobStatus
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusFailed, false},
		{StatusPending, StatusCompleted, false},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusProcessing, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestJobStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
}

func TestValidatedField_String(t *testing.T) {
	assert.Equal(t, "1998", Accepted("1998", TypeYear).String())
	assert.Equal(t, "", Rejected(TypeYear).String())
	assert.Equal(t, "", ValidatedField{Value: "leak", Valid: false}.String())
}

func TestSocialLinks_IsEmpty(t *testing.T) {
	assert.True(t, SocialLinks{}.IsEmpty())
	assert.False(t, SocialLinks{YouTube: "https://youtube.com/@acme"}.IsEmpty())
}

func TestNormalizedProfile_Validate(t *testing.T) {
	t.Run("resume requires resume body", func(t *testing.T) {
		p := &NormalizedProfile{Domain: DomainResume}
		assert.Error(t, p.Validate())

		p.Resume = &ResumeProfile{}
		assert.NoError(t, p.Validate())
	})

	t.Run("organization requires organization body", func(t *testing.T) {
		p := &NormalizedProfile{Domain: DomainSchool}
		assert.Error(t, p.Validate())

		p.Organization = &OrganizationProfile{Name: "State U", Category: "school"}
		assert.NoError(t, p.Validate())
	})

	t.Run("unknown domain", func(t *testing.T) {
		p := &NormalizedProfile{Domain: "pet"}
		assert.Error(t, p.Validate())
	})
}

func TestSubmitRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SubmitRequest
		wantErr bool
	}{
		{"url for company", SubmitRequest{Domain: DomainCompany, URL: "https://acme.com"}, false},
		{"document for resume", SubmitRequest{Domain: DomainResume, Document: []byte("%PDF")}, false},
		{"missing domain", SubmitRequest{URL: "https://acme.com"}, true},
		{"bad domain", SubmitRequest{Domain: "pet", URL: "https://acme.com"}, true},
		{"no source", SubmitRequest{Domain: DomainCompany}, true},
		{"both sources", SubmitRequest{Domain: DomainCompany, URL: "https://acme.com", Document: []byte("x")}, true},
		{"resume from url", SubmitRequest{Domain: DomainResume, URL: "https://acme.com"}, true},
		{"malformed url", SubmitRequest{Domain: DomainCompany, URL: "not a url"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubmitRequest_Source(t *testing.T) {
	r := SubmitRequest{Domain: DomainResume, Document: []byte("x")}
	assert.Equal(t, SourceDocument, r.Source())

	r = SubmitRequest{Domain: DomainCompany, URL: "https://acme.com"}
	assert.Equal(t, SourceWebpage, r.Source())

	err := (&SubmitRequest{Domain: DomainCompany}).Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceRequired))
}

func TestNormalizedProfile_Tags(t *testing.T) {
	p := &NormalizedProfile{
		Domain: DomainResume,
		Resume: &ResumeProfile{Skills: Skills{
			Technical: []string{"Go", "go", " SQL "},
			Soft:      []string{"Go"},
			Languages: []string{""},
		}},
	}
	assert.Equal(t, []Tag{
		{Name: "Go", Category: TagTechnicalSkill},
		{Name: "SQL", Category: TagTechnicalSkill},
		{Name: "Go", Category: TagSoftSkill},
	}, p.Tags())

	org := &NormalizedProfile{Domain: DomainCompany, Organization: &OrganizationProfile{
		Tags: OrgTags{DevelopmentInterests: []string{"AI"}, Skills: []string{"Design"}},
	}}
	assert.Equal(t, []Tag{
		{Name: "AI", Category: TagDevelopmentInterest},
		{Name: "Design", Category: TagSkill},
	}, org.Tags())
}
