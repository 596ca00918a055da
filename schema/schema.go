// Package schema has the data model, configs and shared constants for all parts of stratus.
package schema

import (
	"sort"
	"time"
)

// Observation is a single sampled instant of weather data. Values maps a
// canonical parameter to its reported value; a parameter absent from the map
// was not reported, which is distinct from a reported zero.
type Observation struct {
	Time   time.Time             // Sample instant, UTC, second precision
	Values map[Parameter]float64 // Reported values keyed by canonical parameter
}

// Value returns the reported value for p and whether it was reported at all.
func (o Observation) Value(p Parameter) (float64, bool) {
	v, ok := o.Values[p]
	return v, ok
}

// Series is one source's ordered weather data for a single location.
// Observations are strictly increasing by timestamp with no duplicates.
// A Series is immutable once constructed; every pipeline stage that changes
// it returns a fresh Series and leaves the input untouched.
type Series struct {
	SourceID     string        // Provider identifier, e.g. "aifs"
	Kind         SourceKind    // historical or forecast
	Latitude     float64       // Declared location (WGS84)
	Longitude    float64       // Declared location (WGS84)
	Step         time.Duration // Nominal sampling interval (may be irregular)
	Weight       float64       // Reliability weight in [0,1]
	Observations []Observation
}

// Span returns the covered time range of the series. ok is false when the
// series has no observations.
func (s Series) Span() (start, end time.Time, ok bool) {
	if len(s.Observations) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.Observations[0].Time, s.Observations[len(s.Observations)-1].Time, true
}

// RawObservation is a provider-shaped sample before normalization: field
// names and units are whatever the provider emitted.
type RawObservation struct {
	Time   time.Time
	Fields map[string]float64
}

// RawSeries is provider output before parameter normalization. The metadata
// mirrors Series; only the observation payload differs.
type RawSeries struct {
	SourceID     string
	Kind         SourceKind
	Latitude     float64
	Longitude    float64
	Step         time.Duration
	Weight       float64
	Observations []RawObservation
}

// Grid is the canonical time grid all sources are aligned onto before
// aggregation: evenly spaced timestamps from Start through End.
type Grid struct {
	Start time.Time
	End   time.Time
	Step  time.Duration
}

// Timestamps materializes every grid point from Start through End inclusive.
func (g Grid) Timestamps() []time.Time {
	if g.Step <= 0 || g.End.Before(g.Start) {
		return nil
	}
	var out []time.Time
	for t := g.Start; !t.After(g.End); t = t.Add(g.Step) {
		out = append(out, t)
	}
	return out
}

// Estimate is the per-parameter output of the ensemble aggregator: a
// weighted mean with its population-weighted variance and the number of
// sources that contributed.
type Estimate struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	Count    int     `json:"count"`
}

// AggregatedObservation mirrors Observation with each value replaced by an
// Estimate. A parameter with zero contributors is absent from the map.
type AggregatedObservation struct {
	Time   time.Time              `json:"time"`
	Values map[Parameter]Estimate `json:"values"`
}

// AggregatedSeries is the ensemble output over the canonical grid.
type AggregatedSeries struct {
	Sources      []string                `json:"sources"` // Contributing source IDs, sorted
	Step         time.Duration           `json:"step"`
	Observations []AggregatedObservation `json:"observations"`
}

// Timeline is a historical and a forecast Series for one location merged
// into a single strictly increasing sequence. Transition marks where the
// historical segment ends: the first observation at or after Transition is
// forecast-origin.
type Timeline struct {
	HistoricalID string        `json:"historical_id"`
	ForecastID   string        `json:"forecast_id"`
	Latitude     float64       `json:"latitude"`
	Longitude    float64       `json:"longitude"`
	Transition   time.Time     `json:"transition"`
	Observations []Observation `json:"observations"`
}

// ForecastStart returns the index of the first forecast-origin observation,
// or len(Observations) when the timeline is all historical.
func (t Timeline) ForecastStart() int {
	return sort.Search(len(t.Observations), func(i int) bool {
		return !t.Observations[i].Time.Before(t.Transition)
	})
}

// AsSeries flattens the timeline into a Series so callers can run it through
// the temporal aligner for a uniform post-merge grid. The nominal step is
// left zero since the merged sequence is generally irregular.
func (t Timeline) AsSeries() Series {
	obs := make([]Observation, len(t.Observations))
	copy(obs, t.Observations)
	return Series{
		SourceID:     t.HistoricalID + "+" + t.ForecastID,
		Kind:         ForecastKind,
		Latitude:     t.Latitude,
		Longitude:    t.Longitude,
		Weight:       1.0,
		Observations: obs,
	}
}

// AgreementPoint holds the per-parameter agreement scores at one timestamp.
// Counts records how many sources contributed to each score.
type AgreementPoint struct {
	Time   time.Time             `json:"time"`
	Scores map[Parameter]float64 `json:"scores"`
	Counts map[Parameter]int     `json:"counts"`
}

// AgreementReport quantifies inter-model spread for a run. Aggregate is the
// mean score across all (timestamp, parameter) pairs with at least two
// contributing sources; ScoredPairs is how many pairs qualified.
type AgreementReport struct {
	Sources     []string         `json:"sources"`
	Points      []AgreementPoint `json:"points"`
	Aggregate   float64          `json:"aggregate"`
	ScoredPairs int              `json:"scored_pairs"`
}

// EnsembleConfig maps source identifiers to non-negative ensemble weights.
// Weights need not sum to 1; the aggregator renormalizes per timestep and
// per parameter over the sources actually contributing.
type EnsembleConfig struct {
	Weights map[string]float64
}

// ValidationWarning reports a parameter value that was replaced with missing
// during normalization. It is a diagnostic, never an error.
type ValidationWarning struct {
	SourceID string    `json:"source_id"`
	Time     time.Time `json:"time"`
	Field    string    `json:"field"`
	Value    float64   `json:"value"`
	Reason   string    `json:"reason"`
}

// SourceFailure is a typed per-source fetch failure from the client layer.
// The core treats a failed source the same as an absent one.
type SourceFailure struct {
	SourceID string `json:"source_id"`
	Message  string `json:"message"`
}
