package combine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"aidigest/pkg/classify"
	"aidigest/pkg/transform"

	"go.uber.org/zap"
)

// processor renders blocks for one run.
type processor struct {
	base       string
	classifier classify.ContentClassifier
	transform  transform.Options
}

// ProcessSingleFile classifies filePath and renders its block. Text files are
// read, fence-escaped and optionally compacted; binary and SVG files get a
// one-line description. A text file that cannot be read or is not valid UTF-8
// yields an error.
func (p *processor) ProcessSingleFile(filePath string, logger *zap.Logger) (Block, error) {
	relativePath := relativeSlashPath(p.base, filePath)
	logger.Debug("Processing file",
		zap.String("filePath", filePath),
		zap.String("relativePath", relativePath))

	c := classify.Classify(p.classifier, filePath, logger)
	header := "# " + relativePath + "\n\n"

	switch c.Kind {
	case classify.SVG:
		return Block{
			Path:    relativePath,
			Kind:    c.Kind,
			Content: header + "This is a file of the type: SVG Image\n\n",
		}, nil
	case classify.Binary:
		return Block{
			Path:    relativePath,
			Kind:    c.Kind,
			Content: header + "This is a binary file of the type: " + c.MediaType + "\n\n",
		}, nil
	}

	fileBytes, err := os.ReadFile(filePath)
	if err != nil {
		return Block{}, fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	if !utf8.Valid(fileBytes) {
		return Block{}, fmt.Errorf("error reading file %s: content is not valid UTF-8", filePath)
	}

	logger.Debug("Successfully read file content",
		zap.String("filePath", filePath),
		zap.Int("contentSizeBytes", len(fileBytes)))

	content := transform.Apply(string(fileBytes), filePath, p.transform)
	lang := strings.TrimPrefix(filepath.Ext(filePath), ".")

	var sb strings.Builder
	sb.Grow(len(header) + len(content) + len(lang) + 10)
	sb.WriteString(header)
	sb.WriteString("```")
	sb.WriteString(lang)
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n```\n\n")

	return Block{Path: relativePath, Kind: c.Kind, Content: sb.String()}, nil
}
