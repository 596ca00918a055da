package core

import (
	"sort"
	"time"

	"github.com/stratus-wx/stratus/schema"
)

// Aggregate combines a set of aligned, normalized series into one weighted
// ensemble series on the same grid. Weights are renormalized per timestep
// and per parameter over the sources that actually reported a value, so a
// source missing one field at one instant drops out of that cell only.
// Variance uses population weighting; a single contributor has variance 0.
//
// Returns an *EnsembleConfigError before any computation when the config
// cannot yield an aggregate: a negative weight, a duplicate source
// identifier in the input set, all-zero weights, or no configured source
// matching any input.
func Aggregate(set []schema.Series, cfg schema.EnsembleConfig) (schema.AggregatedSeries, error) {
	for id, w := range cfg.Weights {
		if w < 0 {
			return schema.AggregatedSeries{}, &EnsembleConfigError{Reason: "negative weight", SourceID: id}
		}
	}
	if !cfg.HasPositiveWeight() {
		return schema.AggregatedSeries{}, &EnsembleConfigError{Reason: "no positive weight configured"}
	}

	seen := make(map[string]struct{}, len(set))
	var matched []schema.Series
	for _, s := range set {
		if _, dup := seen[s.SourceID]; dup {
			return schema.AggregatedSeries{}, &EnsembleConfigError{Reason: "duplicate source in input set", SourceID: s.SourceID}
		}
		seen[s.SourceID] = struct{}{}
		if cfg.Weights[s.SourceID] > 0 {
			matched = append(matched, s)
		}
	}
	if len(matched) == 0 {
		return schema.AggregatedSeries{}, &EnsembleConfigError{Reason: "no configured source matches any input series"}
	}

	stamps := unionTimestamps(matched)
	out := make([]schema.AggregatedObservation, 0, len(stamps))
	for _, t := range stamps {
		values := make(map[schema.Parameter]schema.Estimate)
		for _, p := range schema.AllParameters {
			est, ok := estimateAt(matched, cfg, t, p)
			if ok {
				values[p] = est
			}
		}
		out = append(out, schema.AggregatedObservation{Time: t, Values: values})
	}

	sources := make([]string, 0, len(matched))
	for _, s := range matched {
		sources = append(sources, s.SourceID)
	}
	sort.Strings(sources)

	return schema.AggregatedSeries{
		Sources:      sources,
		Step:         matched[0].Step,
		Observations: out,
	}, nil
}

// estimateAt computes the weighted mean and population variance for one
// (timestamp, parameter) cell. ok is false with zero contributors.
func estimateAt(set []schema.Series, cfg schema.EnsembleConfig, t time.Time, p schema.Parameter) (schema.Estimate, bool) {
	type contribution struct {
		value  float64
		weight float64
	}
	var contribs []contribution
	var weightSum float64
	for _, s := range set {
		v, ok := valueAt(s, t, p)
		if !ok {
			continue
		}
		w := cfg.Weights[s.SourceID]
		contribs = append(contribs, contribution{value: v, weight: w})
		weightSum += w
	}
	if len(contribs) == 0 {
		return schema.Estimate{}, false
	}

	var mean float64
	for _, c := range contribs {
		mean += c.weight * c.value
	}
	mean /= weightSum

	var variance float64
	if len(contribs) > 1 {
		for _, c := range contribs {
			d := c.value - mean
			variance += c.weight * d * d
		}
		variance /= weightSum
	}

	return schema.Estimate{Mean: mean, Variance: variance, Count: len(contribs)}, true
}

// valueAt looks up a parameter value at an exact timestamp in an aligned
// series via binary search.
func valueAt(s schema.Series, t time.Time, p schema.Parameter) (float64, bool) {
	obs := s.Observations
	i := sort.Search(len(obs), func(j int) bool {
		return !obs[j].Time.Before(t)
	})
	if i == len(obs) || !obs[i].Time.Equal(t) {
		return 0, false
	}
	return obs[i].Value(p)
}

// unionTimestamps merges the timestamps of all series into one sorted,
// deduplicated sequence. Aligned inputs share a grid so this is normally a
// straight copy, but irregular inputs still get a deterministic result.
func unionTimestamps(set []schema.Series) []time.Time {
	uniq := make(map[int64]time.Time)
	for _, s := range set {
		for _, o := range s.Observations {
			uniq[o.Time.Unix()] = o.Time
		}
	}
	out := make([]time.Time, 0, len(uniq))
	for _, t := range uniq {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
