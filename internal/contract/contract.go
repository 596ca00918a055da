package contract

import (
	"context"
	"time"

	"github.com/stratus-wx/stratus/schema"
)

// RunRecord is one persisted forecast run: the request parameters plus the
// headline numbers, without the per-point payload.
type RunRecord struct {
	ID         string        `json:"id"`
	CreatedAt  time.Time     `json:"created_at"`
	Latitude   float64       `json:"latitude"`
	Longitude  float64       `json:"longitude"`
	AsOf       time.Time     `json:"as_of"`
	Sources    string        `json:"sources"` // comma-separated, sorted
	Agreement  float64       `json:"agreement"`
	PointCount int           `json:"point_count"`
	Duration   time.Duration `json:"duration"`
}

// EnsemblePointRecord is one persisted (timestamp, parameter) estimate.
type EnsemblePointRecord struct {
	RunID     string           `json:"run_id"`
	Time      time.Time        `json:"time"`
	Parameter schema.Parameter `json:"parameter"`
	Mean      float64          `json:"mean"`
	Variance  float64          `json:"variance"`
	Count     int              `json:"count"`
}

// RunStore persists forecast runs and their ensemble points so past runs
// can be listed, exported and compared. Implementations are in the runstore
// package; a nil-safe no-op implementation backs the "none" backend.
type RunStore interface {
	// SaveRun persists a run record with its ensemble points atomically.
	SaveRun(ctx context.Context, rec RunRecord, series schema.AggregatedSeries) error

	// ListRuns returns up to limit run records, newest first.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// GetRunPoints returns the persisted points for one run, in time order.
	GetRunPoints(ctx context.Context, runID string) ([]EnsemblePointRecord, error)

	// ClearRuns deletes all persisted runs and points. It returns the
	// number of runs removed.
	ClearRuns(ctx context.Context) (int64, error)

	// Close releases the underlying database handle.
	Close() error
}
