package core

import (
	"testing"

	"github.com/stratus-wx/stratus/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgreement_IdenticalValuesScoreOne(t *testing.T) {
	set := []schema.Series{
		hourlySeries("aifs", 15, 16),
		hourlySeries("graphcast", 15, 16),
		hourlySeries("meteosat", 15, 16),
	}

	report := Agreement(set)
	assert.Equal(t, []string{"aifs", "graphcast", "meteosat"}, report.Sources)
	assert.Equal(t, 1.0, report.Aggregate)
	assert.Equal(t, 2, report.ScoredPairs)
	for _, point := range report.Points {
		assert.Equal(t, 1.0, point.Scores[schema.TemperatureC])
		assert.Equal(t, 3, point.Counts[schema.TemperatureC])
	}
}

func TestAgreement_SpreadLowersScore(t *testing.T) {
	set := []schema.Series{
		hourlySeries("aifs", 10),
		hourlySeries("graphcast", 20),
	}

	report := Agreement(set)
	// Mean 15, population stddev 5: score 1/(1+5/15) = 0.75.
	assert.InDelta(t, 0.75, report.Aggregate, 1e-9)
	assert.Equal(t, 1, report.ScoredPairs)
}

func TestAgreement_SingleContributorExcluded(t *testing.T) {
	// Only one source reports at ts(1), so that cell is shown but never
	// counted toward the aggregate.
	set := []schema.Series{
		hourlySeries("aifs", 10, 12),
		hourlySeries("graphcast", 10),
	}

	report := Agreement(set)
	require.Len(t, report.Points, 2)
	assert.Equal(t, 1, report.ScoredPairs)
	assert.Equal(t, 1.0, report.Aggregate)
	assert.Equal(t, 1, report.Points[1].Counts[schema.TemperatureC])
}

func TestAgreement_ZeroMeanCells(t *testing.T) {
	// Values straddling zero with a zero mean of absolutes only agree when
	// they are all exactly zero.
	allZero := []schema.Series{
		hourlySeries("aifs", 0),
		hourlySeries("graphcast", 0),
	}
	report := Agreement(allZero)
	assert.Equal(t, 1.0, report.Aggregate)

	mixed := []schema.Series{
		hourlySeries("aifs", -5),
		hourlySeries("graphcast", 5),
	}
	report = Agreement(mixed)
	// meanAbs is 5, stddev is 5: score 0.5, still well defined.
	assert.InDelta(t, 0.5, report.Aggregate, 1e-9)
}

func TestAgreement_ScoreBounds(t *testing.T) {
	sets := [][]schema.Series{
		{hourlySeries("aifs", 1), hourlySeries("graphcast", 1000)},
		{hourlySeries("aifs", -3.2), hourlySeries("graphcast", 7.9), hourlySeries("meteosat", 0.4)},
		{hourlySeries("aifs", 1e-9), hourlySeries("graphcast", -1e-9)},
	}
	for _, set := range sets {
		report := Agreement(set)
		for _, point := range report.Points {
			for p, score := range point.Scores {
				assert.GreaterOrEqual(t, score, 0.0, "%s", p)
				assert.LessOrEqual(t, score, 1.0, "%s", p)
			}
		}
		assert.GreaterOrEqual(t, report.Aggregate, 0.0)
		assert.LessOrEqual(t, report.Aggregate, 1.0)
	}
}

func TestAgreement_EmptySet(t *testing.T) {
	report := Agreement(nil)
	assert.Empty(t, report.Points)
	assert.Equal(t, 0.0, report.Aggregate)
	assert.Equal(t, 0, report.ScoredPairs)
}
