// Package fetch provides URL fetching with browser-like headers and
// HTML-to-text processing for organization pages.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultRetries is how many extra attempts follow a transport error.
	DefaultRetries = 2
	// DefaultRetryDelay is the fixed pause between transport retries.
	DefaultRetryDelay = time.Second
	// DefaultMaxBodyBytes caps how much of a response body is read.
	DefaultMaxBodyBytes = 5 << 20
	// DefaultUserAgent is a desktop Chrome user agent.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Result holds the raw and processed content from a URL fetch.
type Result struct {
	URL         string
	FinalURL    string
	HTML        string
	Text        string
	ContentType string
	StatusCode  int
	Attempts    int
	Truncated   bool // body exceeded Options.MaxBodyBytes
}

// Error represents an error during URL fetching. StatusCode is set when the
// server answered with a non-success status.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Forbidden reports whether the server refused the request with 403.
func (e *Error) Forbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// Retryable reports whether the failure happened in transport rather than
// as an HTTP answer.
func (e *Error) Retryable() bool {
	return e.StatusCode == 0 && e.Cause != nil && !errors.Is(e.Cause, context.Canceled)
}

// Sleeper pauses between retries. It returns early with ctx.Err() on cancellation.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleep is the production Sleeper.
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Options configures the fetch behavior.
type Options struct {
	Timeout      time.Duration
	Headers      map[string]string
	Retries      int
	RetryDelay   time.Duration
	MaxBodyBytes int64
	Sleep        Sleeper
	Client       *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:      DefaultTimeout,
		Headers:      BrowserHeaders(),
		Retries:      DefaultRetries,
		RetryDelay:   DefaultRetryDelay,
		MaxBodyBytes: DefaultMaxBodyBytes,
		Sleep:        ContextSleep,
	}
}

// BrowserHeaders returns the header set of a desktop browser navigating to a page.
func BrowserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":                DefaultUserAgent,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Cache-Control":             "max-age=0",
	}
}

// NormalizeURL trims rawURL and adds an https scheme when none is present.
func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		rawURL = "https://" + strings.TrimPrefix(rawURL, "//")
	}
	return rawURL
}

// URL retrieves HTML content from a URL. Transport errors are retried
// opts.Retries more times; HTTP answers are never retried. On a non-success
// status the Result is returned together with an *Error carrying the code.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Sleep == nil {
		opts.Sleep = ContextSleep
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	var lastErr *Error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 {
			if err := opts.Sleep(ctx, opts.RetryDelay); err != nil {
				return nil, &Error{URL: urlStr, Message: "retry cancelled", Cause: err}
			}
		}

		result, fetchErr := do(ctx, client, urlStr, opts.Headers, maxBody)
		if fetchErr == nil || !fetchErr.Retryable() {
			if result != nil {
				result.Attempts = attempt + 1
			}
			if fetchErr != nil {
				return result, fetchErr
			}
			return result, nil
		}
		lastErr = fetchErr
	}
	return nil, lastErr
}

func do(ctx context.Context, client *http.Client, urlStr string, headers map[string]string, maxBody int64) (*Result, *Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	truncated := int64(len(bodyBytes)) > maxBody
	if truncated {
		bodyBytes = bodyBytes[:maxBody]
	}

	result := &Result{
		URL:         urlStr,
		FinalURL:    resp.Request.URL.String(),
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		Truncated:   truncated,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}
	return result, nil
}

// IsTimeout reports whether err was caused by a network timeout.
func IsTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ExtractMainText parses HTML and returns the main body text.
// It removes noise elements using noiseSelectors, then finds content using contentSelectors.
// If no content selectors match, it falls back to the body element.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, iframe, .ad, .advertisement, .ads, .cookie-banner, .popup").Remove()

	if len(noiseSelectors) > 0 {
		noiseSelector := strings.Join(noiseSelectors, ", ")
		if noiseSelector != "" {
			doc.Find(noiseSelector).Remove()
		}
	}

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}
	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	return cleanWhitespace(mainContent.Text()), nil
}

// DefaultTextSelectors returns standard selectors for general web content.
func DefaultTextSelectors() []string {
	return []string{
		"main",
		"article",
		".content",
		"#content",
		".main-content",
		"#main-content",
	}
}

// OrganizationPageSelectors returns selectors for organization home and about pages.
func OrganizationPageSelectors() []string {
	return []string{
		"main",
		"article",
		".about-content",
		".about",
		"#about",
		".mission",
		".content",
		"#content",
	}
}

// NoiseSelectors returns elements that never carry organization facts.
func NoiseSelectors() []string {
	return []string{
		"form",
		".social-share",
		".share-buttons",
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
		".newsletter-signup",
	}
}

func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
