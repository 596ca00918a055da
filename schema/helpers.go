package schema

import (
	"fmt"
	"sort"
)

// CopyValues duplicates an observation value map so transformed series never
// share storage with their inputs.
func CopyValues(values map[Parameter]float64) map[Parameter]float64 {
	out := make(map[Parameter]float64, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

// CheckOrdering verifies that a series is strictly increasing by timestamp
// with no duplicates. It returns the offending timestamp on failure.
func CheckOrdering(s Series) error {
	for i := 1; i < len(s.Observations); i++ {
		prev, cur := s.Observations[i-1].Time, s.Observations[i].Time
		if !cur.After(prev) {
			return fmt.Errorf("series %s not strictly increasing at %s", s.SourceID, cur.UTC().Format("2006-01-02T15:04:05Z"))
		}
	}
	return nil
}

// HasPositiveWeight reports whether at least one configured weight is
// positive, the minimum for aggregation to proceed.
func (c EnsembleConfig) HasPositiveWeight() bool {
	for _, w := range c.Weights {
		if w > 0 {
			return true
		}
	}
	return false
}

// SourceIDs returns the configured source identifiers in sorted order.
func (c EnsembleConfig) SourceIDs() []string {
	ids := make([]string, 0, len(c.Weights))
	for id := range c.Weights {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
