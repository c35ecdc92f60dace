package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aidigest/pkg/outdir"
	"aidigest/pkg/version"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so commands can be executed
// repeatedly within one test binary.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(RootCmd)
	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&buf)
	RootCmd.SetArgs(args)
	err := RootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func workspace(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cwd, err := os.Getwd()
	require.NoError(t, err)
	return cwd
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDigestCommand(t *testing.T) {
	dir := workspace(t)
	write(t, filepath.Join(dir, "a.txt"), "hello")
	write(t, filepath.Join(dir, "src", "main.go"), "package main\n")
	write(t, filepath.Join(dir, ".git", "config"), "[core]\n")
	write(t, filepath.Join(dir, ".aidigestignore"), "# local rules\nsrc\n")

	out, err := run(t, "--show-output-files", "--tree")
	require.NoError(t, err)

	assert.Contains(t, out, "Found .aidigestignore file in")
	assert.Contains(t, out, "Total files found: 4")
	found := strings.Index(out, "Found 4 files. Applying filters...")
	require.GreaterOrEqual(t, found, 0)
	assert.Less(t, found, strings.Index(out, "Files aggregated successfully"))
	assert.Contains(t, out, "Files included in output: 2")
	assert.Contains(t, out, "Files ignored by default patterns: 1")
	assert.Contains(t, out, "Files ignored by .aidigestignore and exclude patterns: 1")
	assert.Contains(t, out, "1. .aidigestignore\n2. a.txt\n")
	assert.Contains(t, out, "└── a.txt\n")

	st, err := outdir.ReadLatest(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, st.RunID)
	doc, err := os.ReadFile(st.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(doc), "# a.txt\n\n```txt\nhello\n```\n\n"))
	assert.NotContains(t, string(doc), "package main")

	info, err := os.ReadFile(filepath.Join(filepath.Dir(st.Path), outdir.InfoName))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(info), "Command: aidigest"))
	assert.Contains(t, string(info), "Run ID: "+st.RunID)

	out, err = run(t, "latest")
	require.NoError(t, err)
	assert.Equal(t, st.Path+"\n", out)

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Recent aidigest outputs:")
	assert.Contains(t, out, "Timestamp: "+filepath.Base(filepath.Dir(st.Path)))
	assert.Contains(t, out, "Latest aidigest: "+st.Path)

	out, err = run(t, "-l")
	require.NoError(t, err)
	assert.Contains(t, out, "Recent aidigest outputs:")
}

func TestDigestCommandFlags(t *testing.T) {
	dir := workspace(t)
	write(t, filepath.Join(dir, "keep.go"), "package keep\n")
	write(t, filepath.Join(dir, "skip.go"), "package skip\n")
	write(t, filepath.Join(dir, ".git", "config"), "[core]\n")
	outBase := filepath.Join(dir, "out")

	out, err := run(t, "--no-default-ignores", "--exclude", "skip.go", "-o", outBase, "*.go", ".git")
	require.NoError(t, err)
	assert.Contains(t, out, "Default ignore patterns disabled.")
	assert.Contains(t, out, "No .aidigestignore file found")

	st, err := outdir.ReadLatest(outBase)
	require.NoError(t, err)
	doc, err := os.ReadFile(st.Path)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "# .git/config\n")
	assert.Contains(t, string(doc), "# keep.go\n")
	assert.NotContains(t, string(doc), "skip.go")
}

func TestLatestWithoutHistory(t *testing.T) {
	workspace(t)
	_, err := run(t, "latest")
	assert.ErrorIs(t, err, outdir.ErrNoLatest)
}

func TestListWithoutHistory(t *testing.T) {
	dir := workspace(t)
	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No aidigest folder found in "+dir)
}

func TestViewCommand(t *testing.T) {
	dir := workspace(t)
	write(t, filepath.Join(dir, "a.txt"), "hello")

	var gotEditor []string
	var gotPath string
	orig := openInEditor
	openInEditor = func(editor []string, path string) error {
		gotEditor, gotPath = editor, path
		return nil
	}
	t.Cleanup(func() { openInEditor = orig })

	out, err := run(t, "view")
	require.NoError(t, err)
	assert.Contains(t, out, "No latest aidigest recorded")
	assert.Nil(t, gotEditor)

	_, err = run(t)
	require.NoError(t, err)
	t.Setenv("VISUAL", "code -w")

	_, err = run(t, "-v")
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "-w"}, gotEditor)

	st, err := outdir.ReadLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, st.Path, gotPath)
}

func TestEditorCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	assert.Equal(t, []string{"vim"}, editorCommand())

	t.Setenv("EDITOR", "nano")
	assert.Equal(t, []string{"nano"}, editorCommand())

	t.Setenv("VISUAL", "emacs -nw")
	assert.Equal(t, []string{"emacs", "-nw"}, editorCommand())
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", out)

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "aidigest version "))
}

func TestListAndViewAreExclusive(t *testing.T) {
	workspace(t)
	_, err := run(t, "-l", "-v")
	assert.Error(t, err)
}
