package core

import (
	"sort"
	"time"

	"github.com/stratus-wx/stratus/schema"
)

// Align resamples a series onto the canonical grid. Exact timestamp matches
// are copied; grid points bracketed by two observations within maxGap get
// per-parameter linear interpolation; everything else is missing. The
// aligner never extrapolates beyond the observed span. A maxGap of zero or
// less disables the gap cutoff entirely.
//
// Returns an *AlignmentError when the grid itself is malformed.
func Align(s schema.Series, grid schema.Grid, maxGap time.Duration) (schema.Series, error) {
	if grid.Step <= 0 {
		return schema.Series{}, &AlignmentError{Reason: "non-positive step", Grid: grid}
	}
	if grid.End.Before(grid.Start) {
		return schema.Series{}, &AlignmentError{Reason: "end before start", Grid: grid}
	}

	obs := s.Observations
	stamps := grid.Timestamps()
	out := make([]schema.Observation, 0, len(stamps))
	for _, t := range stamps {
		out = append(out, alignAt(obs, t, maxGap))
	}

	aligned := s
	aligned.Step = grid.Step
	aligned.Observations = out
	return aligned, nil
}

// alignAt produces the observation at a single grid timestamp.
func alignAt(obs []schema.Observation, t time.Time, maxGap time.Duration) schema.Observation {
	// First observation at or after t.
	i := sort.Search(len(obs), func(j int) bool {
		return !obs[j].Time.Before(t)
	})

	if i < len(obs) && obs[i].Time.Equal(t) {
		return schema.Observation{Time: t, Values: schema.CopyValues(obs[i].Values)}
	}

	// No bracketing pair on one side. Never extrapolate.
	if i == 0 || i == len(obs) {
		return schema.Observation{Time: t, Values: map[schema.Parameter]float64{}}
	}

	before, after := obs[i-1], obs[i]
	gap := after.Time.Sub(before.Time)
	if maxGap > 0 && gap > maxGap {
		return schema.Observation{Time: t, Values: map[schema.Parameter]float64{}}
	}

	frac := float64(t.Sub(before.Time)) / float64(gap)
	values := make(map[schema.Parameter]float64)
	for p, bv := range before.Values {
		av, ok := after.Values[p]
		if !ok {
			continue // interpolation is per-parameter, both sides required
		}
		values[p] = bv + (av-bv)*frac
	}
	return schema.Observation{Time: t, Values: values}
}
