package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://www.linkedin.com/company/acme", PlatformLinkedIn},
		{"https://facebook.com/acme", PlatformFacebook},
		{"https://m.facebook.com/acme", PlatformFacebook},
		{"https://twitter.com/acme", PlatformTwitter},
		{"https://x.com/acme", PlatformTwitter},
		{"instagram.com/acme", PlatformInstagram},
		{"https://www.youtube.com/@acme", PlatformYouTube},
		{"https://acme.com", PlatformUnknown},
		{"https://notx.com/acme", PlatformUnknown},
		{"https://linkedin.com.evil.io/in/x", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestNormalizeSocialURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		platform Platform
		expected string
	}{
		{"protocol relative", "//www.facebook.com/acme", PlatformFacebook, "https://www.facebook.com/acme"},
		{"root relative", "/company/acme", PlatformLinkedIn, "https://linkedin.com/company/acme"},
		{"bare host", "twitter.com/acme", PlatformTwitter, "https://twitter.com/acme"},
		{"strips query and fragment", "https://instagram.com/acme/?hl=en#top", PlatformInstagram, "https://instagram.com/acme/"},
		{"empty", "  ", PlatformYouTube, ""},
		{"root relative without platform", "/about", PlatformUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSocialURL(tt.raw, tt.platform))
		})
	}
}

func TestDomainLabel(t *testing.T) {
	assert.Equal(t, "acme", DomainLabel("https://www.acme.com/about"))
	assert.Equal(t, "acme", DomainLabel("acme.org"))
	assert.Equal(t, "localhost", DomainLabel("http://localhost:8080"))
	assert.Equal(t, "127", DomainLabel("http://127.0.0.1:8080"))
}

func TestHost(t *testing.T) {
	assert.Equal(t, "acme.com", Host("https://www.Acme.com/about"))
}

func TestPlatformBaseURL(t *testing.T) {
	assert.Equal(t, "https://twitter.com", PlatformTwitter.BaseURL())
	assert.Equal(t, "", PlatformUnknown.BaseURL())
}
