package ingestion

import (
	"context"
	"strings"
	"time"

	"github.com/jonathan/profile-extractor/internal/document"
	"github.com/jonathan/profile-extractor/internal/types"
	"go.uber.org/zap"
)

// TextExtractor returns the page texts of a binary document.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (*document.Result, error)
}

// DocumentAcquirer turns uploaded documents into normalized text.
type DocumentAcquirer struct {
	extractor TextExtractor
	logger    *zap.Logger
	now       func() time.Time
}

// NewDocumentAcquirer creates an acquirer around extractor.
func NewDocumentAcquirer(extractor TextExtractor, logger *zap.Logger) *DocumentAcquirer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentAcquirer{extractor: extractor, logger: logger, now: time.Now}
}

// Acquire extracts and normalizes the text of data. Any failure is returned
// as an *AcquisitionError; documents have no degraded path.
func (a *DocumentAcquirer) Acquire(ctx context.Context, data []byte, filename string) (*types.RawSource, error) {
	res, err := a.extractor.Extract(ctx, data)
	if err != nil {
		return nil, &AcquisitionError{Kind: types.SourceDocument, Source: filename, Message: "text extraction failed", Cause: err}
	}

	pages := make([]string, len(res.Pages))
	for i, p := range res.Pages {
		pages[i] = NormalizeText(p)
	}
	text := strings.TrimSpace(strings.Join(pages, document.PageBreak))
	if text == "" {
		return nil, &AcquisitionError{Kind: types.SourceDocument, Source: filename, Message: "document contains no extractable text"}
	}

	meta := newMetadata(text, a.now())
	if filename != "" {
		meta[MetaFilename] = filename
	}
	a.logger.Debug("acquired document",
		zap.String("filename", filename),
		zap.Int("pages", len(pages)),
		zap.Int("chars", len(text)))

	return &types.RawSource{
		Kind:     types.SourceDocument,
		Text:     text,
		Pages:    len(pages),
		Metadata: meta,
	}, nil
}
