package chunkdriver

import (
	"context"
	"fmt"
	"sync"

	"github.com/kittclouds/gokitt/pkg/config"
	"github.com/kittclouds/gokitt/pkg/model"
)

// ChunkResult is what one macro-chunk's extraction pass produces, in the
// chunk's own local coordinate space (Chunk.Text, offsets starting at 0).
type ChunkResult struct {
	Chunk      Chunk
	Entities   []*model.Entity
	Spans      []model.EntitySpan
	Relations  []model.Relation
	Assertions []model.Assertion
}

// ProcessFunc runs the full extraction pipeline over one chunk as if it
// were a standalone document.
type ProcessFunc func(ctx context.Context, c Chunk) (ChunkResult, error)

// DocumentResult is the merged, document-coordinate-space result of driving
// every chunk of one document through ProcessFunc.
type DocumentResult struct {
	Entities   []*model.Entity
	Spans      []model.EntitySpan
	Relations  []model.Relation
	Assertions []model.Assertion
	Errors     []error
}

// Run splits text into chunks per cfg, processes them concurrently (bounded
// by cfg.ChunkWorkers, mirroring the document-level concurrency model: a
// per-chunk semaphore slot, a WaitGroup to join all chunk goroutines, and a
// mutex-guarded result collector) and merges the results back into
// document coordinates. A per-chunk failure is recorded in
// DocumentResult.Errors and does not abort sibling chunks.
func Run(ctx context.Context, docID, text string, cfg config.Config, process ProcessFunc) DocumentResult {
	chunks := Split(docID, text, cfg)

	workers := cfg.ChunkWorkers
	if workers <= 0 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		sem     = make(chan struct{}, workers)
		results = make([]ChunkResult, len(chunks))
		errs    []error
	)

	for _, c := range chunks {
		wg.Add(1)
		go func(c Chunk) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				errs = append(errs, fmt.Errorf("chunk %s: %w", c.DocID, ctx.Err()))
				mu.Unlock()
				return
			}

			res, err := process(ctx, c)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("chunk %s: %w", c.DocID, err))
				return
			}
			res.Chunk = c
			results[c.Index] = res
		}(c)
	}
	wg.Wait()

	merged := Merge(results)
	merged.Errors = errs
	return merged
}
