package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/profile-extractor/internal/config"
	"github.com/jonathan/profile-extractor/internal/pipeline"
	"github.com/jonathan/profile-extractor/internal/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command in-process and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestApplyTo(t *testing.T) {
	env := &config.Env{LLMProvider: "gemini", AIContract: "marker", AIEnabled: true, LogLevel: "info"}

	applyTo(env, config.Config{
		Provider:    "openai",
		Contract:    "json",
		APIKey:      "sk-flag",
		NoAI:        true,
		DatabaseURL: "postgres://localhost/extractor",
		Verbose:     true,
	})

	assert.Equal(t, "openai", env.LLMProvider)
	assert.Equal(t, "json", env.AIContract)
	assert.Equal(t, "sk-flag", env.OpenAIAPIKey)
	assert.Empty(t, env.GeminiAPIKey)
	assert.False(t, env.AIEnabled)
	assert.Equal(t, "postgres://localhost/extractor", env.DatabaseURL)
	assert.Equal(t, "debug", env.LogLevel)
}

func TestSubmission(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	req, err := submission(config.Config{Domain: "resume", File: path})
	require.NoError(t, err)
	assert.Equal(t, types.DomainResume, req.Domain)
	assert.Equal(t, []byte("%PDF-1.4"), req.Document)
	assert.Equal(t, types.SourceDocument, req.Source())

	_, err = submission(config.Config{Domain: "resume", File: filepath.Join(t.TempDir(), "missing.pdf")})
	assert.Error(t, err)
}

func TestWriteResult(t *testing.T) {
	res := &pipeline.Result{
		Profile: &types.NormalizedProfile{
			Domain:       types.DomainCompany,
			Organization: &types.OrganizationProfile{Name: "Acme", Website: "https://acme.example.com"},
		},
		Rejections: []string{"FOUNDED_YEAR: not a year"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, res, false))
	assert.Contains(t, buf.String(), `"name": "Acme"`)

	buf.Reset()
	require.NoError(t, writeResult(&buf, res, true))
	assert.Contains(t, buf.String(), "COMPANY PROFILE")
	assert.Contains(t, buf.String(), "FOUNDED_YEAR")
}

func TestExtractCommand_CompanyPageWithoutAI(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "")
	page := `<html><head><title>Acme Robotics | Home</title>
<meta name="description" content="Acme Robotics builds warehouse automation."></head>
<body><h1>Acme Robotics</h1><p>` + strings.Repeat("We build robots for logistics teams. ", 20) + `</p>
<footer><a href="https://www.linkedin.com/company/acme-robotics">LinkedIn</a>
<a href="mailto:hello@acme.example.com">hello@acme.example.com</a></footer></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, page)
	}))
	defer srv.Close()

	out, err := execute(t, "extract", "--domain", "company", "--url", srv.URL, "--no-ai")
	require.NoError(t, err)
	assert.Contains(t, out, `"domain": "company"`)
	assert.Contains(t, out, `"enhanced": false`)
}

func TestExtractCommand_RequiresSource(t *testing.T) {
	t.Chdir(t.TempDir())
	cmd := &cobra.Command{Use: "extract"}
	bindExtractFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--domain", "company"}))

	_, err := extractSettings(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--file or --url")
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")

	out, err := execute(t, "token", "--client", "nightly-import")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "."), 3)
}

func TestExtractSettings_ConfigFileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"domain":"school","url":"https://uni.example.edu","contract":"marker"}`), 0o644))

	cmd := &cobra.Command{Use: "extract"}
	bindExtractFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--contract", "json"}))

	cfg, err := extractSettings(cmd)
	require.NoError(t, err)
	assert.Equal(t, "school", cfg.Domain)
	assert.Equal(t, "https://uni.example.edu", cfg.URL)
	assert.Equal(t, "json", cfg.Contract)
}
