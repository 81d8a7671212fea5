// Package document extracts page-ordered text from uploaded PDF documents.
package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// PageBreak separates page texts in extracted output.
const PageBreak = "\n\n"

// ExtractionError is returned for corrupt, unsupported or unreadable documents.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("document extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Config configures the extractor.
type Config struct {
	// Pdftotext is the binary name or absolute path; empty means "pdftotext".
	Pdftotext string
	// MaxPages limits how many pages are kept; 0 keeps all.
	MaxPages int
	// TempDir is where uploads are staged for the external tool; empty uses the OS default.
	TempDir string
}

// Result is the raw page text of a document.
type Result struct {
	Pages []string
	Text  string
}

// Extractor turns PDF bytes into page-ordered text.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *zap.Logger
}

// NewExtractor creates an extractor that shells out to pdftotext.
func NewExtractor(cfg Config, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner replaces the command runner.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// Extract validates data as a PDF and returns its text page by page.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, &ExtractionError{Message: "empty document"}
	}

	declared, err := PageCount(data)
	if err != nil {
		return nil, &ExtractionError{Message: "not a readable PDF", Cause: err}
	}

	f, err := os.CreateTemp(e.cfg.TempDir, "upload-*.pdf")
	if err != nil {
		return nil, &ExtractionError{Message: "failed to stage document", Cause: err}
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return nil, &ExtractionError{Message: "failed to stage document", Cause: err}
	}
	if err := f.Close(); err != nil {
		return nil, &ExtractionError{Message: "failed to stage document", Cause: err}
	}

	pages, err := e.pdfToText(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(pages) != declared {
		e.logger.Debug("page count mismatch",
			zap.Int("declared", declared),
			zap.Int("extracted", len(pages)))
	}

	return &Result{
		Pages: pages,
		Text:  strings.Join(pages, PageBreak),
	}, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) ([]string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return nil, &ExtractionError{Message: strings.TrimSpace(string(errb)), Cause: err}
	}

	pages := SplitPages(string(out))
	if e.cfg.MaxPages > 0 && len(pages) > e.cfg.MaxPages {
		pages = pages[:e.cfg.MaxPages]
	}
	return pages, nil
}

// PageCount validates data in relaxed mode and returns the number of pages.
func PageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.PageCount(bytes.NewReader(data), conf)
}

// SplitPages splits pdftotext output on form feeds, dropping the empty tail
// the tool writes after the last page.
func SplitPages(text string) []string {
	parts := strings.Split(text, "\f")
	pages := make([]string, 0, len(parts))
	for i, p := range parts {
		if i == len(parts)-1 && strings.TrimSpace(p) == "" {
			break
		}
		pages = append(pages, strings.TrimRight(p, "\n"))
	}
	return pages
}
