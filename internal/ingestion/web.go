package ingestion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonathan/profile-extractor/internal/crawling"
	"github.com/jonathan/profile-extractor/internal/fetch"
	"github.com/jonathan/profile-extractor/internal/types"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WebAcquirer fetches and parses organization pages. It never leaves the
// pipeline without a source: unreachable sites yield a fallback page.
type WebAcquirer struct {
	opts     *fetch.Options
	renderer fetch.Renderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewWebAcquirer creates an acquirer. A nil renderer disables the headless
// browser pass for thin pages.
func NewWebAcquirer(opts *fetch.Options, renderer fetch.Renderer, logger *zap.Logger) *WebAcquirer {
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebAcquirer{opts: opts, renderer: renderer, logger: logger, now: time.Now}
}

// Acquire fetches rawURL. A 403 answer returns the fallback source and no
// error. Any other failure returns the fallback source together with an
// *AcquisitionError so callers can log it and continue.
func (a *WebAcquirer) Acquire(ctx context.Context, rawURL string) (*types.RawSource, error) {
	pageURL := fetch.NormalizeURL(rawURL)
	logger := a.logger.With(zap.String("url", pageURL))

	result, err := fetch.URL(ctx, pageURL, a.opts)
	if err != nil {
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) && fetchErr.Forbidden() {
			logger.Info("site refused scraping, using fallback page")
			return a.fallback(pageURL, "HTTP 403"), nil
		}
		logger.Warn("fetch failed, using fallback page", zap.Error(err))
		return a.fallback(pageURL, err.Error()), &AcquisitionError{
			Kind:    types.SourceWebpage,
			Source:  pageURL,
			Message: "fetch failed",
			Cause:   err,
		}
	}

	if result.Truncated {
		logger.Warn("page body exceeded size limit, parsing the first part only", zap.Int("bytes", len(result.HTML)))
	}
	html := result.HTML
	renderer := "http"
	mainText, err := fetch.ExtractMainText(html, fetch.OrganizationPageSelectors(), fetch.NoiseSelectors()...)
	if err != nil {
		mainText = ""
	}

	if a.renderer != nil && fetch.ShouldUseBrowser(mainText) {
		logger.Debug("content too short, rendering with browser",
			zap.Int("chars", len(mainText)),
			zap.Int("min", fetch.MinContentLength))
		rendered, renderErr := a.renderer.Render(ctx, pageURL)
		if renderErr != nil {
			logger.Warn("browser rendering failed, using HTTP content", zap.Error(renderErr))
		} else if text, err := fetch.ExtractMainText(rendered, fetch.OrganizationPageSelectors(), fetch.NoiseSelectors()...); err == nil {
			html, mainText, renderer = rendered, text, "browser"
		}
	}

	page, err := crawling.ParsePage(html, pageURL)
	if err != nil {
		logger.Warn("page parsing failed, using fallback page", zap.Error(err))
		return a.fallback(pageURL, err.Error()), &AcquisitionError{
			Kind:    types.SourceWebpage,
			Source:  pageURL,
			Message: "parse failed",
			Cause:   err,
		}
	}

	text := mainText
	if text == "" {
		text = page.RawText
	}

	meta := newMetadata(html, a.now())
	meta[MetaFinalURL] = result.FinalURL
	meta[MetaStatusCode] = itoa(result.StatusCode)
	meta[MetaContentType] = result.ContentType
	meta[MetaRenderer] = renderer

	logger.Debug("acquired page",
		zap.String("title", page.Title),
		zap.Int("chars", len(text)),
		zap.Int("attempts", result.Attempts),
		zap.String("renderer", renderer))

	return &types.RawSource{
		Kind:     types.SourceWebpage,
		URL:      pageURL,
		Text:     text,
		Page:     page,
		Metadata: meta,
	}, nil
}

func (a *WebAcquirer) fallback(pageURL, reason string) *types.RawSource {
	page := FallbackPage(pageURL)
	meta := newMetadata(page.RawText, a.now())
	meta[MetaFallback] = reason
	if reason == "HTTP 403" {
		meta[MetaStatusCode] = itoa(http.StatusForbidden)
	}
	return &types.RawSource{
		Kind:     types.SourceWebpage,
		URL:      pageURL,
		Text:     page.RawText,
		Page:     page,
		Fallback: true,
		Metadata: meta,
	}
}

// FallbackPage is the minimal page record used when a site cannot be scraped.
// Its title is the capitalized domain label, e.g. "Acme" for www.acme.com.
func FallbackPage(pageURL string) *types.WebPage {
	host := fetch.Host(pageURL)
	title := cases.Title(language.English).String(fetch.DomainLabel(pageURL))

	return &types.WebPage{
		Title:           title,
		MetaDescription: "Organization website",
		Headings:        []string{host},
		Paragraphs: []string{
			"This organization's website could not be fully scraped. Profile will be generated based on available information.",
		},
		Links:   []types.Link{},
		RawText: fmt.Sprintf("Website: %s. Domain: %s. Additional information may need to be manually entered.", pageURL, host),
		Contact: types.ContactInfo{Emails: []string{}, Phones: []string{}, Addresses: []string{}},
	}
}
