package core

import (
	"fmt"
	"time"

	"github.com/stratus-wx/stratus/schema"
)

// AlignmentError reports a grid that the temporal aligner cannot work with.
type AlignmentError struct {
	Reason string
	Grid   schema.Grid
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("alignment: %s (grid %s..%s step %s)",
		e.Reason, e.Grid.Start.UTC().Format(time.RFC3339), e.Grid.End.UTC().Format(time.RFC3339), e.Grid.Step)
}

// MalformedSeriesError reports a series whose timestamps violate strict
// ordering, with the first offending timestamp.
type MalformedSeriesError struct {
	SourceID string
	Time     time.Time
	Reason   string
}

func (e *MalformedSeriesError) Error() string {
	return fmt.Sprintf("series %s malformed at %s: %s",
		e.SourceID, e.Time.UTC().Format(time.RFC3339), e.Reason)
}

// EnsembleConfigError reports an ensemble weight configuration that cannot
// produce any aggregate.
type EnsembleConfigError struct {
	Reason   string
	SourceID string
}

func (e *EnsembleConfigError) Error() string {
	if e.SourceID != "" {
		return fmt.Sprintf("ensemble config: %s (source %s)", e.Reason, e.SourceID)
	}
	return fmt.Sprintf("ensemble config: %s", e.Reason)
}
