package core

import (
	"time"

	"github.com/stratus-wx/stratus/schema"
)

// AssembleTimeline stitches a historical and a forecast series for one
// location into a single continuous timeline. The transition instant is the
// caller-supplied asOf time; historical observations at or after it and
// forecast observations strictly before it are discarded so every timestamp
// appears exactly once. No resampling happens here; run the result through
// Align for a uniform grid.
//
// Returns a *MalformedSeriesError when the concatenation is not strictly
// increasing, which can only happen when an input violated its own
// ordering invariant.
func AssembleTimeline(historical, forecast schema.Series, asOf time.Time) (schema.Timeline, error) {
	obs := make([]schema.Observation, 0, len(historical.Observations)+len(forecast.Observations))
	for _, o := range historical.Observations {
		if o.Time.Before(asOf) {
			obs = append(obs, schema.Observation{Time: o.Time, Values: schema.CopyValues(o.Values)})
		}
	}
	for _, o := range forecast.Observations {
		if !o.Time.Before(asOf) {
			obs = append(obs, schema.Observation{Time: o.Time, Values: schema.CopyValues(o.Values)})
		}
	}

	for i := 1; i < len(obs); i++ {
		if !obs[i].Time.After(obs[i-1].Time) {
			offender := historical.SourceID
			if !obs[i].Time.Before(asOf) {
				offender = forecast.SourceID
			}
			return schema.Timeline{}, &MalformedSeriesError{
				SourceID: offender,
				Time:     obs[i].Time,
				Reason:   "merged timeline not strictly increasing",
			}
		}
	}

	return schema.Timeline{
		HistoricalID: historical.SourceID,
		ForecastID:   forecast.SourceID,
		Latitude:     forecast.Latitude,
		Longitude:    forecast.Longitude,
		Transition:   asOf,
		Observations: obs,
	}, nil
}
