package schema

import "time"

// ForecastResult is the full output of an ensemble forecast run.
type ForecastResult struct {
	RunID     string              `json:"run_id,omitempty"`
	Latitude  float64             `json:"latitude"`
	Longitude float64             `json:"longitude"`
	Grid      Grid                `json:"grid"`
	Ensemble  AggregatedSeries    `json:"ensemble"`
	Agreement AgreementReport     `json:"agreement"`
	Warnings  []ValidationWarning `json:"warnings,omitempty"`
	Failures  []SourceFailure     `json:"failures,omitempty"`
	Duration  time.Duration       `json:"-"`
}

// CompareResult is the output of a model comparison run: each source's
// aligned series side by side, plus the agreement report over them.
type CompareResult struct {
	Latitude  float64             `json:"latitude"`
	Longitude float64             `json:"longitude"`
	Grid      Grid                `json:"grid"`
	Series    []Series            `json:"series"`
	Agreement AgreementReport     `json:"agreement"`
	Warnings  []ValidationWarning `json:"warnings,omitempty"`
	Failures  []SourceFailure     `json:"failures,omitempty"`
	Duration  time.Duration       `json:"-"`
}

// TimelineResult is the output of a timeline run: past observations and
// future forecast stitched into one sequence.
type TimelineResult struct {
	Timeline Timeline            `json:"timeline"`
	Warnings []ValidationWarning `json:"warnings,omitempty"`
	Failures []SourceFailure     `json:"failures,omitempty"`
	Duration time.Duration       `json:"-"`
}
