// File: pkg/combine/execute.go
package combine

import (
	"fmt"
	"os"

	"aidigest/pkg/filelock"

	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
)

// DocumentWriter persists a finished document.
type DocumentWriter interface {
	WriteDocument(path string, data []byte) error
}

// AtomicWriter writes documents through a temp file and rename.
type AtomicWriter struct{}

func (AtomicWriter) WriteDocument(path string, data []byte) error {
	return filelock.WriteAtomic(path, data)
}

// persist writes document to path through w and checks the written bytes.
func persist(w DocumentWriter, path, document string, checksum uint64, logger *zap.Logger) error {
	logger.Debug("Writing output file", zap.String("outputFile", path), zap.Int("bytes", len(document)))
	if err := w.WriteDocument(path, []byte(document)); err != nil {
		logger.Error("Failed to write output file", zap.String("outputFile", path), zap.Error(err))
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return verifyPersisted(path, len(document), checksum, logger)
}

// verifyPersisted re-reads path and checks it against the in-memory document.
// A length or checksum difference is reported as ErrIntegrity.
func verifyPersisted(path string, size int, checksum uint64, logger *zap.Logger) error {
	persisted, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read back output file %s: %w", path, err)
	}
	if len(persisted) != size {
		logger.Error("Output file size mismatch",
			zap.String("outputFile", path),
			zap.Int("expectedBytes", size),
			zap.Int("persistedBytes", len(persisted)))
		return fmt.Errorf("%w: %s is %d bytes, expected %d", ErrIntegrity, path, len(persisted), size)
	}
	if sum := xxh3.Hash(persisted); sum != checksum {
		logger.Error("Output file checksum mismatch",
			zap.String("outputFile", path),
			zap.Uint64("expectedChecksum", checksum),
			zap.Uint64("persistedChecksum", sum))
		return fmt.Errorf("%w: %s checksum %016x, expected %016x", ErrIntegrity, path, sum, checksum)
	}
	return nil
}
