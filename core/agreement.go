package core

import (
	"math"
	"sort"

	"github.com/stratus-wx/stratus/schema"
)

// Agreement scores inter-model spread across an aligned source set. Per
// (timestamp, parameter) cell the score is 1/(1+cv) where cv is the
// coefficient of variation over the contributing values, ignoring weights.
// When the mean of absolute values is zero, all-equal values score 1 and
// anything else scores 0. The aggregate is the mean score over cells with
// at least two contributors; cells with fewer are reported but excluded
// from the aggregate since agreement is undefined for a single source.
func Agreement(set []schema.Series) schema.AgreementReport {
	stamps := unionTimestamps(set)
	points := make([]schema.AgreementPoint, 0, len(stamps))
	var scoreSum float64
	var scored int
	for _, t := range stamps {
		scores := make(map[schema.Parameter]float64)
		counts := make(map[schema.Parameter]int)
		for _, p := range schema.AllParameters {
			var values []float64
			for _, s := range set {
				if v, ok := valueAt(s, t, p); ok {
					values = append(values, v)
				}
			}
			if len(values) == 0 {
				continue
			}
			counts[p] = len(values)
			score := agreementScore(values)
			scores[p] = score
			if len(values) >= 2 {
				scoreSum += score
				scored++
			}
		}
		points = append(points, schema.AgreementPoint{Time: t, Scores: scores, Counts: counts})
	}

	var aggregate float64
	if scored > 0 {
		aggregate = scoreSum / float64(scored)
	}

	sources := make([]string, 0, len(set))
	for _, s := range set {
		sources = append(sources, s.SourceID)
	}
	sort.Strings(sources)

	return schema.AgreementReport{
		Sources:     sources,
		Points:      points,
		Aggregate:   aggregate,
		ScoredPairs: scored,
	}
}

// agreementScore maps a value sample to [0,1] via its coefficient of
// variation. Identical values score exactly 1.
func agreementScore(values []float64) float64 {
	var mean, meanAbs float64
	for _, v := range values {
		mean += v
		meanAbs += math.Abs(v)
	}
	n := float64(len(values))
	mean /= n
	meanAbs /= n

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= n
	stddev := math.Sqrt(variance)

	if meanAbs == 0 {
		if stddev == 0 {
			return 1
		}
		return 0
	}
	return 1 / (1 + stddev/meanAbs)
}
