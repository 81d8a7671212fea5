package validation

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/profile-extractor/internal/fetch"
	"github.com/jonathan/profile-extractor/internal/schemas"
	"github.com/jonathan/profile-extractor/internal/types"
)

const (
	// MinYear is the earliest accepted founding year.
	MinYear = 1500
	// YearMargin is how far past the current year a value may lie.
	YearMargin = 1
	// maxTextPipes is the pipe count at which prose counts as a leaked list.
	maxTextPipes = 3
)

var (
	leadingLabel  = regexp.MustCompile(`^[A-Z][A-Z_]{2,}\s*:`)
	embeddedLabel = regexp.MustCompile(`\b[A-Z][A-Z_]{2,}:`)
	placeholder   = regexp.MustCompile(`(?i)^(not\s+found|not\s+available|not\s+specified|not\s+provided|not\s+applicable|n/a|none|unknown|tbd|unavailable|null)\b`)
	onlyFiller    = regexp.MustCompile(`^[\s\-–—.]*$`)
	urlLike       = regexp.MustCompile(`(?i)^(https?://|www\.)`)
	yearToken     = regexp.MustCompile(`\b\d{4}\b`)
)

func isPlaceholder(v string) bool {
	return placeholder.MatchString(v) || onlyFiller.MatchString(v)
}

// URL validates a profile URL for platform. An empty platform accepts any
// known social platform.
func URL(raw string, platform fetch.Platform) (string, error) {
	v := strings.TrimSpace(raw)
	switch {
	case v == "":
		return "", ErrEmpty
	case leadingLabel.MatchString(v):
		return "", reject(types.TypeURL, v, "leaked field marker")
	case isPlaceholder(v):
		return "", reject(types.TypeURL, v, "placeholder text")
	case strings.Contains(v, "|"):
		return "", reject(types.TypeURL, v, "contains a pipe")
	case strings.ContainsAny(v, " \t\n"):
		return "", reject(types.TypeURL, v, "contains whitespace")
	}

	lower := strings.ToLower(v)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "", reject(types.TypeURL, v, "not an absolute http(s) URL")
	}
	rest := v[strings.Index(v, "://")+3:]
	if embeddedLabel.MatchString(rest) {
		return "", reject(types.TypeURL, v, "leaked field marker")
	}

	parsed, err := url.Parse(v)
	if err != nil || parsed.Host == "" {
		return "", reject(types.TypeURL, v, "malformed URL")
	}
	if platform == "" {
		if fetch.DetectPlatform(v) == fetch.PlatformUnknown {
			return "", reject(types.TypeURL, v, "not a social platform")
		}
		return v, nil
	}
	if !fetch.HostMatches(parsed.Hostname(), platform.Domains()...) {
		return "", reject(types.TypeURL, v, "domain does not match "+string(platform))
	}
	return v, nil
}

// Year returns the first four digit token between MinYear and the current
// year plus YearMargin.
func Year(raw string, now time.Time) (string, error) {
	v := strings.TrimSpace(raw)
	switch {
	case v == "":
		return "", ErrEmpty
	case leadingLabel.MatchString(v):
		return "", reject(types.TypeYear, v, "leaked field marker")
	case isPlaceholder(v):
		return "", reject(types.TypeYear, v, "placeholder text")
	case strings.Contains(v, "|"):
		return "", reject(types.TypeYear, v, "contains a pipe")
	}

	maxYear := now.Year() + YearMargin
	for _, tok := range yearToken.FindAllString(v, -1) {
		y, _ := strconv.Atoi(tok)
		if y >= MinYear && y <= maxYear {
			return tok, nil
		}
	}
	return "", reject(types.TypeYear, v, "no plausible year")
}

// FreeText validates prose and short scalars.
func FreeText(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	switch {
	case v == "":
		return "", ErrEmpty
	case leadingLabel.MatchString(v):
		return "", reject(types.TypeFreeText, v, "leaked field marker")
	case isPlaceholder(v) && len(strings.Fields(v)) <= 3:
		return "", reject(types.TypeFreeText, v, "placeholder text")
	case urlLike.MatchString(v):
		return "", reject(types.TypeFreeText, v, "looks like a URL")
	case strings.Count(v, "|") >= maxTextPipes:
		return "", reject(types.TypeFreeText, v, "looks like a leaked list")
	}
	return v, nil
}

// PipeList splits a "|" separated value into trimmed, non-empty items.
func PipeList(raw string) ([]string, error) {
	return list(raw, "|", types.TypePipeList)
}

// CommaList splits a "," separated value into trimmed, non-empty items.
func CommaList(raw string) ([]string, error) {
	return list(raw, ",", types.TypeCommaList)
}

func list(raw, sep string, t types.SemanticType) ([]string, error) {
	v := strings.TrimSpace(raw)
	switch {
	case v == "":
		return nil, ErrEmpty
	case leadingLabel.MatchString(v):
		return nil, reject(t, v, "leaked field marker")
	case isPlaceholder(v):
		return nil, reject(t, v, "placeholder text")
	case urlLike.MatchString(v):
		return nil, reject(t, v, "looks like a URL")
	}

	var items []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(v, sep) {
		item := strings.TrimSpace(part)
		key := strings.ToLower(item)
		if item == "" || seen[key] || isPlaceholder(item) {
			continue
		}
		seen[key] = true
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	return items, nil
}

// Scalar validates a single-valued field of domain and applies enum mapping.
// Block and list fields are not scalar and are returned unchanged.
func Scalar(f schemas.Field, domain types.Domain, raw string, now time.Time) (types.ValidatedField, error) {
	var (
		v   string
		err error
	)
	switch f.Type {
	case types.TypeURL:
		v, err = URL(raw, f.Platform)
	case types.TypeYear:
		v, err = Year(raw, now)
	case types.TypeEnum:
		v, err = FreeText(raw)
		if err == nil {
			v = MapEnum(f, domain, v)
		}
	case types.TypeFreeText:
		v, err = FreeText(raw)
	default:
		return types.Accepted(strings.TrimSpace(raw), f.Type), nil
	}
	if err != nil {
		return types.Rejected(f.Type), err
	}
	return types.Accepted(v, f.Type), nil
}

// Website validates a personal or organization homepage URL.
func Website(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	switch {
	case v == "":
		return "", ErrEmpty
	case leadingLabel.MatchString(v):
		return "", reject(types.TypeURL, v, "leaked field marker")
	case isPlaceholder(v):
		return "", reject(types.TypeURL, v, "placeholder text")
	case strings.ContainsAny(v, "| \t\n"):
		return "", reject(types.TypeURL, v, "not a single URL")
	case !urlLike.MatchString(v):
		return "", reject(types.TypeURL, v, "not a web address")
	}
	if _, err := url.Parse(fetch.NormalizeURL(v)); err != nil {
		return "", reject(types.TypeURL, v, "malformed URL")
	}
	return v, nil
}
