package crawling

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/profile-extractor/internal/fetch"
	"github.com/jonathan/profile-extractor/internal/types"
)

// profileMatcher accepts a normalized URL as a profile page on one platform.
type profileMatcher func(u *url.URL) bool

var functionalPaths = map[fetch.Platform]map[string]bool{
	fetch.PlatformLinkedIn:  set("shareArticle", "sharing", "share", "login", "signup", "feed"),
	fetch.PlatformFacebook:  set("sharer", "sharer.php", "share", "share.php", "plugins", "dialog", "tr", "login.php"),
	fetch.PlatformTwitter:   set("intent", "share", "oauth", "home", "i", "search", "hashtag"),
	fetch.PlatformInstagram: set("p", "tv", "reel", "reels", "explore", "accounts", "stories"),
	fetch.PlatformYouTube:   set("watch", "embed", "results", "playlist", "shorts", "feed", "redirect"),
}

// Per platform, matchers in priority order. A company page beats a personal one.
var profileMatchers = map[fetch.Platform][]profileMatcher{
	fetch.PlatformLinkedIn: {
		firstSegment(fetch.PlatformLinkedIn, "company", "school", "showcase"),
		firstSegment(fetch.PlatformLinkedIn, "in"),
	},
	fetch.PlatformFacebook:  {singleSegment(fetch.PlatformFacebook)},
	fetch.PlatformTwitter:   {singleSegment(fetch.PlatformTwitter)},
	fetch.PlatformInstagram: {singleSegment(fetch.PlatformInstagram)},
	fetch.PlatformYouTube: {
		firstSegment(fetch.PlatformYouTube, "channel", "c", "user"),
		youtubeHandle,
		singleSegment(fetch.PlatformYouTube),
	},
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

func segments(u *url.URL) []string {
	var out []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func onPlatform(u *url.URL, p fetch.Platform) bool {
	return u != nil && u.Host != "" && fetch.HostMatches(u.Hostname(), p.Domains()...)
}

func firstSegment(p fetch.Platform, kinds ...string) profileMatcher {
	allowed := set(kinds...)
	return func(u *url.URL) bool {
		segs := segments(u)
		return onPlatform(u, p) && len(segs) >= 2 && allowed[segs[0]]
	}
}

func singleSegment(p fetch.Platform) profileMatcher {
	return func(u *url.URL) bool {
		segs := segments(u)
		return onPlatform(u, p) && len(segs) == 1 && !functionalPaths[p][segs[0]]
	}
}

func youtubeHandle(u *url.URL) bool {
	segs := segments(u)
	return onPlatform(u, fetch.PlatformYouTube) && len(segs) >= 1 && strings.HasPrefix(segs[0], "@") && len(segs[0]) > 1
}

func notFunctional(p fetch.Platform) profileMatcher {
	return func(u *url.URL) bool {
		segs := segments(u)
		return onPlatform(u, p) && len(segs) >= 1 && !functionalPaths[p][segs[0]]
	}
}

// ResolveSocialLinks finds one profile URL per platform in three passes,
// keeping the first match per platform: meta tag content, anchor hrefs with
// profile-shaped paths, then anchors marked by class, id or href substring.
// Root-relative hrefs are only resolved against a platform in the last pass,
// where the anchor itself names the platform.
func ResolveSocialLinks(doc *goquery.Document) types.SocialLinks {
	found := make(map[fetch.Platform]string)

	var metaContent []string
	doc.Find("meta[content]").Each(func(_ int, s *goquery.Selection) {
		if c, ok := s.Attr("content"); ok {
			metaContent = append(metaContent, c)
		}
	})
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if h, ok := s.Attr("href"); ok {
			hrefs = append(hrefs, h)
		}
	})

	for _, p := range fetch.SocialPlatforms() {
		if link := firstMatch(metaContent, p, profileMatchers[p], false); link != "" {
			found[p] = link
			continue
		}
		if link := firstMatch(hrefs, p, profileMatchers[p], false); link != "" {
			found[p] = link
			continue
		}

		name := string(p)
		var marked []string
		doc.Find(`a[class*="` + name + `"], a[id*="` + name + `"], a[href*="` + name + `"]`).Each(func(_ int, s *goquery.Selection) {
			if h, ok := s.Attr("href"); ok {
				marked = append(marked, h)
			}
		})
		if p == fetch.PlatformTwitter {
			doc.Find(`a[href*="x.com"]`).Each(func(_ int, s *goquery.Selection) {
				if h, ok := s.Attr("href"); ok {
					marked = append(marked, h)
				}
			})
		}
		if link := firstMatch(marked, p, []profileMatcher{notFunctional(p)}, true); link != "" {
			found[p] = link
		}
	}

	return types.SocialLinks{
		LinkedIn:  found[fetch.PlatformLinkedIn],
		Facebook:  found[fetch.PlatformFacebook],
		Twitter:   found[fetch.PlatformTwitter],
		Instagram: found[fetch.PlatformInstagram],
		YouTube:   found[fetch.PlatformYouTube],
	}
}

func firstMatch(candidates []string, p fetch.Platform, matchers []profileMatcher, allowRelative bool) string {
	for _, match := range matchers {
		for _, raw := range candidates {
			raw = strings.TrimSpace(raw)
			if raw == "" || (!allowRelative && strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//")) {
				continue
			}
			lower := strings.ToLower(raw)
			if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "tel:") {
				continue
			}
			normalized := fetch.NormalizeSocialURL(raw, p)
			u, err := url.Parse(normalized)
			if err != nil {
				continue
			}
			if match(u) {
				return normalized
			}
		}
	}
	return ""
}
