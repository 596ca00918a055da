// Package parquet provides data structures and functions for exporting
// forecast runs to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/stratus-wx/stratus/internal/contract"
	"github.com/stratus-wx/stratus/schema"
)

// DefaultForecastFile is the output path used when none is configured.
const DefaultForecastFile = "stratus_forecast.parquet"

// RunRow represents one persisted forecast run with metadata.
// This struct maps to the runs database table.
type RunRow struct {
	// RunID is the unique identifier for this forecast run
	RunID string `parquet:"run_id,snappy"`

	// CreatedAt is when the run completed (stored as TIMESTAMP with nanosecond precision)
	CreatedAt time.Time `parquet:"created_at,snappy"`

	// Latitude and Longitude locate the request
	Latitude  float64 `parquet:"latitude,snappy"`
	Longitude float64 `parquet:"longitude,snappy"`

	// AsOf is the transition anchor of the request window
	AsOf time.Time `parquet:"as_of,snappy"`

	// Sources is the comma-separated contributing source list
	Sources string `parquet:"sources,snappy"`

	// Agreement is the aggregate agreement score for the run
	Agreement float64 `parquet:"agreement,snappy"`

	// PointCount is the number of persisted ensemble points
	PointCount int32 `parquet:"point_count,snappy"`

	// RunDurationMs is the wall-clock duration of the run in milliseconds
	RunDurationMs int32 `parquet:"run_duration_ms,snappy"`
}

// EnsemblePointRow represents one (timestamp, parameter) ensemble estimate.
// This struct maps to the ensemble_points database table.
type EnsemblePointRow struct {
	// RunID references the parent forecast run (empty for unsaved runs)
	RunID string `parquet:"run_id,snappy"`

	// Time is the grid instant (stored as TIMESTAMP with nanosecond precision)
	Time time.Time `parquet:"time,snappy"`

	// Parameter is the canonical parameter name
	Parameter string `parquet:"parameter,snappy"`

	// Mean is the weighted ensemble mean
	Mean float64 `parquet:"mean,snappy"`

	// Variance is the weighted population variance
	Variance float64 `parquet:"variance,snappy"`

	// Count is the number of contributing sources
	Count int32 `parquet:"count,snappy"`
}

// ConvertForecast flattens a forecast result into point rows.
func ConvertForecast(res schema.ForecastResult) []EnsemblePointRow {
	var rows []EnsemblePointRow
	for _, obs := range res.Ensemble.Observations {
		for _, p := range schema.AllParameters {
			est, ok := obs.Values[p]
			if !ok {
				continue
			}
			rows = append(rows, EnsemblePointRow{
				RunID:     res.RunID,
				Time:      obs.Time.UTC(),
				Parameter: string(p),
				Mean:      est.Mean,
				Variance:  est.Variance,
				Count:     int32(est.Count),
			})
		}
	}
	return rows
}

// ConvertRuns maps persisted run records to their columnar form.
func ConvertRuns(runs []contract.RunRecord) []RunRow {
	rows := make([]RunRow, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, RunRow{
			RunID:         r.ID,
			CreatedAt:     r.CreatedAt.UTC(),
			Latitude:      r.Latitude,
			Longitude:     r.Longitude,
			AsOf:          r.AsOf.UTC(),
			Sources:       r.Sources,
			Agreement:     r.Agreement,
			PointCount:    int32(r.PointCount),
			RunDurationMs: int32(r.Duration.Milliseconds()),
		})
	}
	return rows
}

// WriteForecastFile writes a forecast result's ensemble points to a Parquet
// file, falling back to the default path when none is configured.
func WriteForecastFile(outputPath string, res schema.ForecastResult) error {
	if outputPath == "" {
		outputPath = DefaultForecastFile
	}
	if err := writeRows(outputPath, ConvertForecast(res)); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputPath)
	return nil
}

// WriteRunsFile writes persisted run records to a Parquet file.
func WriteRunsFile(outputPath string, runs []contract.RunRecord) error {
	if outputPath == "" {
		outputPath = "stratus_runs.parquet"
	}
	if err := writeRows(outputPath, ConvertRuns(runs)); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputPath)
	return nil
}

// WritePointsFile writes persisted ensemble point records to a Parquet file.
func WritePointsFile(outputPath string, points []contract.EnsemblePointRecord) error {
	rows := make([]EnsemblePointRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, EnsemblePointRow{
			RunID:     p.RunID,
			Time:      p.Time.UTC(),
			Parameter: string(p.Parameter),
			Mean:      p.Mean,
			Variance:  p.Variance,
			Count:     int32(p.Count),
		})
	}
	if outputPath == "" {
		outputPath = "stratus_points.parquet"
	}
	if err := writeRows(outputPath, rows); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputPath)
	return nil
}

// writeRows writes any row type to a Parquet file using struct schema
// inference from the parquet tags.
func writeRows[T any](outputPath string, rows []T) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
