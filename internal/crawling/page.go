package crawling

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/profile-extractor/internal/types"
)

// Limits applied while parsing a page.
const (
	MaxHeadings     = 20
	MaxParagraphs   = 30
	MinParagraphLen = 20
	MaxLinks        = 20
	MaxEmails       = 5
	MaxPhones       = 5
	MaxAddresses    = 3
	MaxRawText      = 10000
)

var (
	emailPattern    = regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.\w+`)
	phonePattern    = regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	socialHref      = regexp.MustCompile(`(?i)linkedin|facebook|twitter|instagram|youtube`)
	interestingText = regexp.MustCompile(`(?i)about|contact|location|address`)
)

// ParsePage parses an organization page. pageURL resolves relative links.
func ParsePage(html string, pageURL string) (*types.WebPage, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &ParseError{URL: pageURL, Message: "invalid page URL", Cause: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{URL: pageURL, Message: "failed to parse HTML", Cause: err}
	}

	page := &types.WebPage{
		Title:           extractTitle(doc),
		MetaDescription: extractMetaDescription(doc),
		Headings:        collectText(doc.Find("h1, h2, h3"), MaxHeadings, 0),
		Paragraphs:      collectText(doc.Find("p"), MaxParagraphs, MinParagraphLen),
	}

	// Social widgets are often injected by scripts, so resolve before stripping them.
	page.Social = ResolveSocialLinks(doc)
	doc.Find("script, style, iframe, noscript").Remove()

	page.Links = extractLinks(doc, base)
	page.RawText = truncate(collapse(doc.Find("body").Text()), MaxRawText)
	page.Contact = extractContacts(doc, page.RawText)

	return page, nil
}

func extractTitle(doc *goquery.Document) string {
	if title := collapse(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return collapse(doc.Find("h1").First().Text())
}

func extractMetaDescription(doc *goquery.Document) string {
	for _, sel := range []string{`meta[name="description"]`, `meta[property="og:description"]`} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if content = collapse(content); content != "" {
				return content
			}
		}
	}
	return ""
}

func collectText(sel *goquery.Selection, limit, minLen int) []string {
	out := make([]string, 0)
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := collapse(s.Text())
		if text != "" && len(text) > minLen {
			out = append(out, text)
		}
		return len(out) < limit
	})
	return out
}

// extractLinks keeps anchors pointing at social profiles or at about/contact pages.
func extractLinks(doc *goquery.Document, base *url.URL) []types.Link {
	seen := make(map[string]bool)
	links := make([]types.Link, 0)

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		text := collapse(s.Text())
		if href == "" || !(socialHref.MatchString(href) || interestingText.MatchString(text)) {
			return true
		}

		linkURL, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return true
		}
		absolute := base.ResolveReference(linkURL)
		absolute.Fragment = ""
		resolved := absolute.String()
		if seen[resolved] {
			return true
		}
		seen[resolved] = true
		links = append(links, types.Link{Text: text, Href: resolved})
		return len(links) < MaxLinks
	})
	return links
}

func extractContacts(doc *goquery.Document, text string) types.ContactInfo {
	info := types.ContactInfo{
		Emails:    uniqueMatches(emailPattern, text, MaxEmails),
		Phones:    uniqueMatches(phonePattern, text, MaxPhones),
		Addresses: make([]string, 0),
	}

	seen := make(map[string]bool)
	doc.Find(`[itemtype*="PostalAddress"], address, .address, #address`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		addr := collapse(s.Text())
		if addr != "" && !seen[addr] {
			seen[addr] = true
			info.Addresses = append(info.Addresses, addr)
		}
		return len(info.Addresses) < MaxAddresses
	})
	return info
}

func uniqueMatches(re *regexp.Regexp, text string, limit int) []string {
	out := make([]string, 0)
	seen := make(map[string]bool)
	for _, m := range re.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
