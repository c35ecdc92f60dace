// Package tokens provides best-effort token counts for digest documents.
package tokens

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

const (
	NameApproximate = "approximate"
	NameTiktoken    = "tiktoken"

	// DefaultEncoding is used by the tiktoken estimator.
	DefaultEncoding = "cl100k_base"
)

// Estimator counts tokens in a text.
type Estimator interface {
	Estimate(text string) int
	Name() string
}

// New returns the estimator registered under name. An empty name selects the
// approximate estimator.
func New(name string) (Estimator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameApproximate:
		return Approximate{}, nil
	case NameTiktoken:
		return NewTiktoken(DefaultEncoding)
	default:
		return nil, fmt.Errorf("unsupported tokenizer %q (use %q or %q)", name, NameApproximate, NameTiktoken)
	}
}

// wordOrSymbol matches a run of letters, digits and underscores in any script,
// or a single character that is neither a word character nor whitespace.
var wordOrSymbol = regexp.MustCompile(`[\p{L}\p{N}_]+|[^\p{L}\p{N}_\s]`)

// Approximate counts words and punctuation marks.
type Approximate struct{}

func (Approximate) Estimate(text string) int {
	return len(wordOrSymbol.FindAllStringIndex(text, -1))
}

func (Approximate) Name() string { return NameApproximate }

// Tiktoken counts BPE tokens using encoding data bundled with the binary, so
// no network access is needed.
type Tiktoken struct {
	encoding string
	ttk      *tiktoken.Tiktoken
}

var loaderOnce sync.Once

// NewTiktoken loads the named encoding from the embedded offline data.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	ttk, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %s: %w", encoding, err)
	}
	return &Tiktoken{encoding: encoding, ttk: ttk}, nil
}

func (t *Tiktoken) Estimate(text string) int {
	if t == nil || t.ttk == nil {
		return 0
	}
	return len(t.ttk.EncodeOrdinary(text))
}

func (t *Tiktoken) Name() string { return NameTiktoken + "/" + t.encoding }
