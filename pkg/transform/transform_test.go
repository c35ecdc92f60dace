package transform

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeFences(t *testing.T) {
	in := "```js\ncode\n```"
	want := "\\`\\`\\`js\ncode\n\\`\\`\\`"
	assert.Equal(t, want, EscapeFences(in))
	assert.NotContains(t, EscapeFences(in), "```")
}

func TestEscapeFencesRuns(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"`":       "`",
		"``":      "``",
		"````":    "\\`\\`\\``",
		"``````":  "\\`\\`\\`\\`\\`\\`",
		"a```b":   "a\\`\\`\\`b",
		"no code": "no code",
	}
	for in, want := range tests {
		assert.Equal(t, want, EscapeFences(in), "input %q", in)
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []byte("`` `a\n\t")
	for i := 0; i < 500; i++ {
		b := make([]byte, rng.Intn(40))
		for j := range b {
			b[j] = alphabet[rng.Intn(len(alphabet))]
		}
		s := string(b)
		assert.Equal(t, s, UnescapeFences(EscapeFences(s)), "input %q", s)
	}
}

func TestCompactWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello   world", "hello world"},
		{"\t\tindented\tline  ", "indented line"},
		{"a\n\n\n\nb", "a\n\nb"},
		{"a\n  \n\t\n  b", "a\n\n b"},
		{"a\nb", "a\nb"},
		{"  \n\nleading and trailing\n\n  ", "leading and trailing"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompactWhitespace(tt.in), "input %q", tt.in)
	}
}

func TestCompactWhitespaceIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []byte("ab \t\n\r`")
	for i := 0; i < 500; i++ {
		b := make([]byte, rng.Intn(60))
		for j := range b {
			b[j] = alphabet[rng.Intn(len(alphabet))]
		}
		once := CompactWhitespace(string(b))
		assert.Equal(t, once, CompactWhitespace(once), "input %q", string(b))
	}
}

func TestShouldCompact(t *testing.T) {
	assert.True(t, ShouldCompact("main.go", nil))
	assert.True(t, ShouldCompact("notes.txt", nil))
	assert.False(t, ShouldCompact("README.md", nil))
	assert.False(t, ShouldCompact("docs/Guide.MD", nil))
	assert.False(t, ShouldCompact("script.py", nil))
	assert.False(t, ShouldCompact("notes.txt", []string{"txt"}))
	assert.True(t, ShouldCompact("README.md", []string{}))
}

func TestApplyEscapesBeforeCompacting(t *testing.T) {
	in := "x  =  1\n\n\n```\n  code  \n```\n"
	got := Apply(in, "a.go", Options{CompactWhitespace: true})
	assert.Equal(t, "x = 1\n\n\\`\\`\\`\n code \n\\`\\`\\`", got)
	assert.False(t, strings.Contains(got, "```"))
}

func TestApplyRespectsSignificantExtensions(t *testing.T) {
	in := "#  Title\n\n\n  - item"
	assert.Equal(t, in, Apply(in, "README.md", Options{CompactWhitespace: true}))
	assert.Equal(t, "# Title\n\n - item", Apply(in, "title.txt", Options{CompactWhitespace: true}))
	assert.Equal(t, in, Apply(in, "title.txt", Options{}))
}
