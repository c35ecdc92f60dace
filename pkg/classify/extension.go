package classify

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// ByExtension classifies files by their extension. The extension table comes
// from the host, so a registered type that is neither text nor SVG, and an
// unregistered extension, are confirmed by a content heuristic over the
// first 512 bytes.
type ByExtension struct{}

// Classify implements ContentClassifier.
func (ByExtension) Classify(path string) (Classification, error) {
	var registered Classification
	if mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); mt != "" {
		registered = FromMediaType(mt)
		if registered.Kind != Binary {
			return registered, nil
		}
	}

	binary, err := looksBinary(path)
	if err != nil {
		return Classification{}, err
	}
	if binary {
		if registered.MediaType != "" {
			return registered, nil
		}
		return Classification{Kind: Binary, MediaType: MediaTypeBinary}, nil
	}
	return Classification{Kind: Text, MediaType: MediaTypeText}, nil
}

// looksBinary checks for NUL bytes or a high ratio of non-printable
// characters at the start of the file.
func looksBinary(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	buffer = buffer[:n]

	if bytes.IndexByte(buffer, 0) >= 0 {
		return true, nil
	}

	// Empty files are considered text
	if len(buffer) == 0 {
		return false, nil
	}

	nonPrintable := 0
	for _, b := range buffer {
		if !isPrintable(b) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(buffer)) > 0.3, nil
}

// isPrintable accepts printable ASCII, common whitespace and any byte of a
// multi-byte UTF-8 sequence.
func isPrintable(b byte) bool {
	return (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t' || b >= 0x80
}
