package document

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error
	name   string
	args   []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.name = name
	s.args = args
	return s.stdout, s.stderr, s.err
}

func TestSplitPages(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single page", "hello\n", []string{"hello"}},
		{"two pages with trailing feed", "one\n\ftwo\n\f", []string{"one", "two"}},
		{"empty middle page kept", "one\f\fthree", []string{"one", "", "three"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPages(tt.in))
		})
	}
}

func TestExtract_EmptyDocument(t *testing.T) {
	_, err := NewExtractor(Config{}, nil).Extract(context.Background(), nil)
	require.Error(t, err)

	var extErr *ExtractionError
	assert.ErrorAs(t, err, &extErr)
}

func TestExtract_CorruptDocument(t *testing.T) {
	runner := &stubRunner{stdout: []byte("never used")}
	e := NewExtractor(Config{}, nil).WithRunner(runner)

	_, err := e.Extract(context.Background(), []byte("this is not a pdf"))
	require.Error(t, err)

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Contains(t, err.Error(), "not a readable PDF")
	assert.Empty(t, runner.name)
}

func TestExtractionError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &ExtractionError{Message: "syntax error", Cause: cause}
	assert.Equal(t, "document extraction failed: syntax error: exit status 1", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "document extraction failed: empty document", (&ExtractionError{Message: "empty document"}).Error())
}

func TestNewExtractor_Defaults(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	assert.Equal(t, "pdftotext", e.cfg.Pdftotext)
}

func TestPdfToText(t *testing.T) {
	runner := &stubRunner{stdout: []byte("John Doe\njohn@x.com\n\fEDUCATION\n\f")}
	e := NewExtractor(Config{Pdftotext: "/usr/bin/pdftotext"}, nil).WithRunner(runner)

	pages, err := e.pdfToText(context.Background(), "/tmp/in.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"John Doe\njohn@x.com", "EDUCATION"}, pages)
	assert.Equal(t, "/usr/bin/pdftotext", runner.name)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix", "/tmp/in.pdf", "-"}, runner.args)
}

func TestPdfToText_MaxPages(t *testing.T) {
	runner := &stubRunner{stdout: []byte("a\fb\fc\f")}
	e := NewExtractor(Config{MaxPages: 2}, nil).WithRunner(runner)

	pages, err := e.pdfToText(context.Background(), "in.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, pages)
}

func TestPdfToText_ToolFailure(t *testing.T) {
	runner := &stubRunner{stderr: []byte("Syntax Error: Couldn't read xref table\n"), err: errors.New("exit status 1")}
	e := NewExtractor(Config{}, nil).WithRunner(runner)

	_, err := e.pdfToText(context.Background(), "in.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Couldn't read xref table")
}
