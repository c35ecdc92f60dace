package report

import (
	"bytes"
	"strings"
	"testing"

	"aidigest/pkg/combine"
	"aidigest/pkg/outdir"

	"github.com/stretchr/testify/assert"
)

func TestPrintSettings(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).PrintSettings(true, false)
	assert.Equal(t, "🚫 Using default ignore patterns.\n📝 Whitespace removal disabled.\n", buf.String())

	buf.Reset()
	New(&buf).PrintSettings(false, true)
	assert.Contains(t, buf.String(), "Default ignore patterns disabled.")
	assert.Contains(t, buf.String(), "Whitespace removal enabled")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	res := &combine.Result{
		OutputPath: "/tmp/aidigest/x/aidigest",
		Summary: combine.Summary{
			Total: 3, Included: 2, DefaultIgnored: 1, Binary: 1,
			TokensEstimated: true, Tokens: 42, Tokenizer: "approximate",
		},
	}
	New(&buf).PrintSummary(res, true)
	out := buf.String()

	assert.Contains(t, out, "✅ Files aggregated successfully into /tmp/aidigest/x/aidigest\n")
	assert.Contains(t, out, "📚 Total files found: 3\n")
	assert.Contains(t, out, "📎 Files included in output: 2\n")
	assert.Contains(t, out, "🚫 Files ignored by default patterns: 1\n")
	assert.NotContains(t, out, "exclude patterns")
	assert.Contains(t, out, "📦 Binary and SVG files included: 1\n")
	assert.Contains(t, out, "🔢 Estimated token count: 42\n")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrintSummarySizeWarning(t *testing.T) {
	var buf bytes.Buffer
	res := &combine.Result{Summary: combine.Summary{Bytes: 11 * 1024 * 1024, SizeWarning: true, CustomIgnored: 2, Failed: 1}}
	New(&buf).PrintSummary(res, false)
	out := buf.String()

	assert.Contains(t, out, "Output file size (11.00 MB) exceeds 10 MB.")
	assert.Contains(t, out, "Token count estimation skipped")
	assert.NotContains(t, out, "Estimated token count")
	assert.NotContains(t, out, "default patterns")
	assert.Contains(t, out, "Files ignored by .aidigestignore and exclude patterns: 2")
	assert.Contains(t, out, "Files skipped due to read errors: 1")
}

func TestPrintIncludedAndTree(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.PrintIncluded([]string{"a.txt", "dir/b.go"})
	assert.Equal(t, "📋 Files included in the output:\n1. a.txt\n2. dir/b.go\n", buf.String())

	buf.Reset()
	p.PrintTree([]string{"a.txt", "dir/b.go"})
	assert.Equal(t, "🌳 Included file tree:\n├── dir/\n│   └── b.go\n└── a.txt\n", buf.String())
}

func TestPrintRecent(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).PrintRecent([]outdir.Run{
		{Name: "20240102_000000", Info: "Command: aidigest\nTimestamp: 2024-01-02 00:00:00\n"},
		{Name: "20240101_000000"},
	})
	out := buf.String()
	assert.Contains(t, out, "Timestamp: 20240102_000000\nCommand: aidigest\n")
	assert.NotContains(t, out, "20240101_000000")
	assert.Equal(t, 1, strings.Count(out, strings.Repeat("-", 40)))
}
