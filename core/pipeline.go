package core

import (
	"context"
	"sync"
	"time"

	"github.com/stratus-wx/stratus/schema"
)

// HarmonizeAll normalizes and aligns a batch of raw provider series onto the
// canonical grid. Each series is independent, so the batch fans out over a
// bounded worker pool; results come back in input order with the per-series
// warnings flattened into one list. Cancelling the context abandons any
// series not yet processed.
func HarmonizeAll(ctx context.Context, raws []schema.RawSeries, grid schema.Grid, maxGap time.Duration, plausibility map[schema.Parameter]schema.ParamRange, workers int) ([]schema.Series, []schema.ValidationWarning, error) {
	if workers < 1 {
		workers = 1
	}

	type result struct {
		series   schema.Series
		warnings []schema.ValidationWarning
		err      error
	}

	jobCh := make(chan int)
	results := make([]result, len(raws))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Go(func() {
			for i := range jobCh {
				normalized, warnings := Normalize(raws[i], plausibility)
				aligned, err := Align(normalized, grid, maxGap)
				results[i] = result{series: aligned, warnings: warnings, err: err}
			}
		})
	}

	// --- 1. Feed the pool, bailing out early on cancellation ---
feed:
	for i := range raws {
		select {
		case jobCh <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// --- 2. Collect in input order ---
	series := make([]schema.Series, 0, len(raws))
	var warnings []schema.ValidationWarning
	for _, r := range results {
		if r.err != nil {
			return nil, nil, r.err
		}
		series = append(series, r.series)
		warnings = append(warnings, r.warnings...)
	}
	return series, warnings, nil
}

// GridAround builds the canonical grid for a forecast window anchored at
// asOf, truncated to whole steps.
func GridAround(asOf time.Time, back, forward time.Duration, step time.Duration) schema.Grid {
	anchor := asOf.Truncate(step)
	return schema.Grid{
		Start: anchor.Add(-back.Truncate(step)),
		End:   anchor.Add(forward.Truncate(step)),
		Step:  step,
	}
}
