// Package precompute loads every record of a dataset with a pool of workers
// and keeps them in an on-disk gob cache.
package precompute

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Noofbiz/authorProfiling/datasets"
)

// Options tune Run.
type Options struct {
	// Workers is the number of concurrent Get calls. Zero means runtime.NumCPU().
	Workers int
	// ProgressInterval controls how often progress is logged. Zero disables it.
	ProgressInterval time.Duration
	Logger           *zap.Logger
}

// Run reads every record of ds. Records are returned in index order. The
// first failing record cancels the remaining work and its error is returned.
func Run(ctx context.Context, ds datasets.Dataset, opts Options) ([]datasets.Record, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	n := ds.Len()
	records := make([]datasets.Record, n)
	if n == 0 {
		return records, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, n)

	var done int64
	stopProgress := make(chan struct{})
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		if opts.ProgressInterval <= 0 {
			<-stopProgress
			return
		}
		ticker := time.NewTicker(opts.ProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				d := atomic.LoadInt64(&done)
				logger.Info("precompute progress",
					zap.Int64("done", d),
					zap.Int("total", n),
					zap.Float64("percent", float64(d)/float64(n)*100))
			case <-stopProgress:
				return
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := ds.Get(i)
			if err != nil {
				return fmt.Errorf("read record %d: %w", i, err)
			}
			// each worker writes a distinct position
			records[i] = rec
			atomic.AddInt64(&done, 1)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	close(stopProgress)
	<-progressDone
	if err != nil {
		return nil, err
	}
	logger.Info("precompute completed", zap.Int("records", n), zap.Int("workers", workers))
	return records, nil
}
