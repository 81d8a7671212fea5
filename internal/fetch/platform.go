package fetch

import (
	"net/url"
	"strings"
)

// Platform is a social media platform an organization may link to.
type Platform string

const (
	// PlatformLinkedIn is linkedin.com.
	PlatformLinkedIn Platform = "linkedin"
	// PlatformFacebook is facebook.com.
	PlatformFacebook Platform = "facebook"
	// PlatformTwitter is twitter.com and x.com.
	PlatformTwitter Platform = "twitter"
	// PlatformInstagram is instagram.com.
	PlatformInstagram Platform = "instagram"
	// PlatformYouTube is youtube.com.
	PlatformYouTube Platform = "youtube"
	// PlatformUnknown is anything else.
	PlatformUnknown Platform = "unknown"
)

// SocialPlatforms lists the platforms in resolution order.
func SocialPlatforms() []Platform {
	return []Platform{PlatformLinkedIn, PlatformFacebook, PlatformTwitter, PlatformInstagram, PlatformYouTube}
}

var platformDomains = map[Platform][]string{
	PlatformLinkedIn:  {"linkedin.com"},
	PlatformFacebook:  {"facebook.com"},
	PlatformTwitter:   {"twitter.com", "x.com"},
	PlatformInstagram: {"instagram.com"},
	PlatformYouTube:   {"youtube.com"},
}

// Domains returns the registrable domains that belong to p.
func (p Platform) Domains() []string {
	return platformDomains[p]
}

// BaseURL is used to absolutize root-relative social links.
func (p Platform) BaseURL() string {
	if d := p.Domains(); len(d) > 0 {
		return "https://" + d[0]
	}
	return ""
}

// DetectPlatform identifies the social platform a URL points at.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(NormalizeURL(urlStr))
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, p := range SocialPlatforms() {
		if HostMatches(host, p.Domains()...) {
			return p
		}
	}
	return PlatformUnknown
}

// HostMatches reports whether host equals one of domains or is a subdomain of one.
func HostMatches(host string, domains ...string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// NormalizeSocialURL absolutizes a social link for platform p and strips its
// fragment and query. Protocol-relative links get https, root-relative links
// get the platform base, and bare hosts get an https scheme.
func NormalizeSocialURL(raw string, p Platform) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(raw, "//"):
		raw = "https:" + raw
	case strings.HasPrefix(raw, "/"):
		base := p.BaseURL()
		if base == "" {
			return ""
		}
		raw = base + raw
	case !strings.HasPrefix(strings.ToLower(raw), "http"):
		raw = "https://" + raw
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

// DomainLabel returns the first label of the URL's host with "www." removed,
// e.g. "acme" for https://www.acme.com/about.
func DomainLabel(rawURL string) string {
	parsed, err := url.Parse(NormalizeURL(rawURL))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	if i := strings.IndexByte(host, '.'); i > 0 {
		return host[:i]
	}
	return host
}

// Host returns the URL's host without "www.".
func Host(rawURL string) string {
	parsed, err := url.Parse(NormalizeURL(rawURL))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}
