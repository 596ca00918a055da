// Package core has the harmonization, ensemble and agreement logic.
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stratus-wx/stratus/internal/contract"
	"github.com/stratus-wx/stratus/internal/outwriter"
	"github.com/stratus-wx/stratus/internal/provider"
	"github.com/stratus-wx/stratus/schema"
)

// ExecutorFunc defines the function signature for executing different
// harmonization modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, reg *provider.Registry, store contract.RunStore) error

// ExecuteForecast runs the full ensemble pipeline and prints the result.
// It serves as the main entry point for the 'forecast' mode.
func ExecuteForecast(ctx context.Context, cfg *contract.Config, reg *provider.Registry, store contract.RunStore) error {
	start := time.Now()
	result, err := GetForecastResult(ctx, cfg, reg)
	if err != nil {
		return err
	}
	result.RunID = uuid.NewString()
	result.Duration = time.Since(start)

	if store != nil && cfg.StoreBackend != schema.NoneBackend {
		if err := store.SaveRun(ctx, buildRunRecord(cfg, result), result.Ensemble); err != nil {
			contract.LogWarn("saving run", err)
		}
	}
	return outwriter.PrintForecast(cfg, result)
}

// ExecuteCompare runs the per-source comparison and prints the result.
// It serves as the main entry point for the 'compare' mode.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, reg *provider.Registry, _ contract.RunStore) error {
	start := time.Now()
	result, err := GetCompareResult(ctx, cfg, reg)
	if err != nil {
		return err
	}
	result.Duration = time.Since(start)
	return outwriter.PrintCompare(cfg, result)
}

// ExecuteTimeline runs the merged past-and-future view and prints the
// result. It serves as the main entry point for the 'timeline' mode.
func ExecuteTimeline(ctx context.Context, cfg *contract.Config, reg *provider.Registry, _ contract.RunStore) error {
	start := time.Now()
	result, err := GetTimelineResult(ctx, cfg, reg)
	if err != nil {
		return err
	}
	result.Duration = time.Since(start)
	return outwriter.PrintTimeline(cfg, result)
}

// GetForecastResult fetches every configured source, harmonizes the set
// onto the canonical grid, and produces the weighted ensemble with its
// agreement report. Sources that fail to fetch are reported in the result
// and excluded from aggregation; only a fully empty set is an error.
func GetForecastResult(ctx context.Context, cfg *contract.Config, reg *provider.Registry) (schema.ForecastResult, error) {
	grid := cfg.Grid()
	aligned, warnings, failures, err := fetchAndHarmonize(ctx, cfg, reg, grid)
	if err != nil {
		return schema.ForecastResult{}, err
	}

	ensemble, err := Aggregate(aligned, cfg.Ensemble)
	if err != nil {
		return schema.ForecastResult{}, err
	}
	report := Agreement(aligned)

	return schema.ForecastResult{
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		Grid:      grid,
		Ensemble:  ensemble,
		Agreement: report,
		Warnings:  warnings,
		Failures:  failures,
	}, nil
}

// GetCompareResult fetches and harmonizes every configured source and
// scores their agreement, keeping the per-source series visible instead of
// collapsing them into one ensemble.
func GetCompareResult(ctx context.Context, cfg *contract.Config, reg *provider.Registry) (schema.CompareResult, error) {
	grid := cfg.Grid()
	aligned, warnings, failures, err := fetchAndHarmonize(ctx, cfg, reg, grid)
	if err != nil {
		return schema.CompareResult{}, err
	}

	return schema.CompareResult{
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		Grid:      grid,
		Series:    aligned,
		Agreement: Agreement(aligned),
		Warnings:  warnings,
		Failures:  failures,
	}, nil
}

// GetTimelineResult stitches satellite history and one forecast model into
// a single continuous view around the as-of instant.
func GetTimelineResult(ctx context.Context, cfg *contract.Config, reg *provider.Registry) (schema.TimelineResult, error) {
	histClient, ok := reg.Lookup(schema.SourceMeteosat)
	if !ok {
		return schema.TimelineResult{}, fmt.Errorf("timeline needs the %s source selected", schema.SourceMeteosat)
	}
	fcClient, ok := reg.Lookup(cfg.TimelineSource)
	if !ok {
		return schema.TimelineResult{}, fmt.Errorf("forecast source '%s' is not selected", cfg.TimelineSource)
	}

	histRaw, err := histClient.Fetch(ctx, provider.Request{
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		Start:     cfg.AsOf.Add(-cfg.LookBack),
		End:       cfg.AsOf,
		Step:      cfg.GridStep,
	})
	if err != nil {
		return schema.TimelineResult{}, fmt.Errorf("fetching history: %w", err)
	}
	fcRaw, err := fcClient.Fetch(ctx, provider.Request{
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		Start:     cfg.AsOf,
		End:       cfg.AsOf.Add(cfg.LookAhead),
		Step:      cfg.GridStep,
	})
	if err != nil {
		return schema.TimelineResult{}, fmt.Errorf("fetching forecast: %w", err)
	}

	hist, histWarnings := Normalize(histRaw, cfg.Plausibility)
	fc, fcWarnings := Normalize(fcRaw, cfg.Plausibility)
	warnings := append(histWarnings, fcWarnings...)

	timeline, err := AssembleTimeline(hist, fc, cfg.AsOf)
	if err != nil {
		return schema.TimelineResult{}, err
	}

	if cfg.AlignMerged {
		aligned, err := Align(timeline.AsSeries(), cfg.Grid(), cfg.MaxGap)
		if err != nil {
			return schema.TimelineResult{}, err
		}
		timeline.Observations = aligned.Observations
	}

	return schema.TimelineResult{
		Timeline: timeline,
		Warnings: warnings,
	}, nil
}

// fetchAndHarmonize is the shared front half of the forecast and compare
// modes: concurrent fetch, then normalization and alignment over the pool.
func fetchAndHarmonize(ctx context.Context, cfg *contract.Config, reg *provider.Registry, grid schema.Grid) ([]schema.Series, []schema.ValidationWarning, []schema.SourceFailure, error) {
	raws, failures := reg.FetchAll(ctx, provider.Request{
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		Start:     grid.Start,
		End:       grid.End,
		Step:      grid.Step,
	})
	if len(raws) == 0 {
		return nil, nil, nil, fmt.Errorf("no source data available (%d sources failed)", len(failures))
	}

	aligned, warnings, err := HarmonizeAll(ctx, raws, grid, cfg.MaxGap, cfg.Plausibility, cfg.Workers)
	if err != nil {
		return nil, nil, nil, err
	}
	return aligned, warnings, failures, nil
}

// buildRunRecord flattens a forecast result into its persisted form.
func buildRunRecord(cfg *contract.Config, res schema.ForecastResult) contract.RunRecord {
	var points int
	for _, o := range res.Ensemble.Observations {
		points += len(o.Values)
	}
	return contract.RunRecord{
		ID:         res.RunID,
		CreatedAt:  time.Now().UTC(),
		Latitude:   cfg.Latitude,
		Longitude:  cfg.Longitude,
		AsOf:       cfg.AsOf,
		Sources:    strings.Join(res.Ensemble.Sources, ","),
		Agreement:  res.Agreement.Aggregate,
		PointCount: points,
		Duration:   res.Duration,
	}
}
