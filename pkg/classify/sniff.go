package classify

import (
	"github.com/gabriel-vasile/mimetype"
)

// Sniffer classifies files by inspecting their leading bytes.
type Sniffer struct{}

// Classify implements ContentClassifier.
func (Sniffer) Classify(path string) (Classification, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return Classification{}, err
	}
	return FromMediaType(m.String()), nil
}
