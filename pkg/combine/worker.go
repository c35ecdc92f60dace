// File: pkg/combine/worker.go
package combine

import (
	"context"
	"runtime"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProcessFilesConcurrently runs process over files with at most maxWorkers in
// flight and returns the blocks sorted by path, regardless of completion
// order. Files whose processing fails are logged, left out and counted in the
// returned failure count. Only cancellation of ctx makes it return an error.
func ProcessFilesConcurrently(ctx context.Context, files []string, maxWorkers int, process func(string, *zap.Logger) (Block, error), logger *zap.Logger) ([]Block, int, error) {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
		logger.Debug("Adjusted worker count", zap.Int("workers", maxWorkers))
	}

	results := make([]*Block, len(files))
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	logger.Debug("Initializing worker pool", zap.Int("workers", maxWorkers), zap.Int("files", len(files)))
	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			workerLogger := logger.With(zap.Int("job", i))
			block, err := process(file, workerLogger)
			if err != nil {
				workerLogger.Warn("Failed to process file, skipping",
					zap.String("filePath", file),
					zap.Error(err))
				failed.Add(1)
				return nil
			}
			results[i] = &block
			workerLogger.Debug("Worker successfully processed file", zap.String("filePath", file))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	blocks := make([]Block, 0, len(files))
	for _, b := range results {
		if b != nil {
			blocks = append(blocks, *b)
		}
	}
	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].Path < blocks[j].Path
	})

	logger.Debug("All files processed",
		zap.Int("processedFiles", len(blocks)),
		zap.Int64("failedFiles", failed.Load()))
	return blocks, int(failed.Load()), nil
}
