// Package classify decides whether a file is embeddable text, an SVG image or
// opaque binary, and which media type it declares.
//
// Classification fails closed: when a classifier cannot determine the type of
// a file (unreadable file, permission error), Classify logs a warning and
// reports the file as Binary with media type "unknown". Such a file is listed
// in the digest with a type line, but its content is never embedded.
package classify

import (
	"fmt"
	"strings"

	"aidigest/pkg/logging"

	"go.uber.org/zap"
)

// Kind is the rendering strategy chosen for a file.
type Kind int

const (
	Text Kind = iota
	Binary
	SVG
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case SVG:
		return "svg"
	default:
		return "binary"
	}
}

const (
	MediaTypeSVG     = "image/svg+xml"
	MediaTypeUnknown = "unknown"
	MediaTypeText    = "text/plain"
	MediaTypeBinary  = "application/octet-stream"
)

// Classifier names accepted by New.
const (
	NameSniff     = "sniff"
	NameExtension = "extension"
)

// structured text types embedded as text despite not being text/*.
var textMediaTypes = map[string]bool{
	"application/json": true,
	"application/xml":  true,
}

// Classification is the outcome for one file.
type Classification struct {
	Kind      Kind
	MediaType string
}

// ContentClassifier determines the type of a file on disk.
type ContentClassifier interface {
	Classify(path string) (Classification, error)
}

// New returns the classifier registered under name. An empty name selects
// content sniffing.
func New(name string) (ContentClassifier, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameSniff:
		return Sniffer{}, nil
	case NameExtension:
		return ByExtension{}, nil
	default:
		return nil, fmt.Errorf("unsupported classifier %q: use %q or %q", name, NameSniff, NameExtension)
	}
}

// FromMediaType maps a media type, with or without parameters, to a
// Classification.
func FromMediaType(mediaType string) Classification {
	mt := baseMediaType(mediaType)
	switch {
	case strings.HasPrefix(mt, "text/") || textMediaTypes[mt]:
		return Classification{Kind: Text, MediaType: mt}
	case mt == MediaTypeSVG:
		return Classification{Kind: SVG, MediaType: mt}
	default:
		return Classification{Kind: Binary, MediaType: mt}
	}
}

// Classify runs c on path and applies the fail-closed policy on error.
func Classify(c ContentClassifier, path string, logger *zap.Logger) Classification {
	if c == nil {
		c = Sniffer{}
	}
	result, err := c.Classify(path)
	if err != nil {
		logging.OrNop(logger).Warn("Error determining file type, treating as binary",
			zap.String("filePath", path),
			zap.Error(err))
		return Classification{Kind: Binary, MediaType: MediaTypeUnknown}
	}
	return result
}

// baseMediaType strips parameters such as "; charset=utf-8".
func baseMediaType(mediaType string) string {
	mt, _, _ := strings.Cut(mediaType, ";")
	mt = strings.ToLower(strings.TrimSpace(mt))
	if mt == "" {
		return MediaTypeUnknown
	}
	return mt
}
