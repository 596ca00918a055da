package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/stratus-wx/stratus/schema"
)

// fieldSpec maps one provider field name onto the canonical vocabulary,
// with an optional unit conversion.
type fieldSpec struct {
	Param   schema.Parameter
	Convert func(float64) float64
}

func identity(v float64) float64 { return v }

// fieldMappings covers every provider field name stratus knows how to read.
// Open-Meteo style names come first, then the legacy spellings some feeds
// still emit. Anything not listed here is dropped during normalization.
var fieldMappings = map[string]fieldSpec{
	// Temperature -> Celsius
	"temperature_2m": {schema.TemperatureC, identity},
	"temperature_c":  {schema.TemperatureC, identity},
	"temperature_f":  {schema.TemperatureC, func(v float64) float64 { return (v - 32) * 5 / 9 }},
	"temperature_k":  {schema.TemperatureC, func(v float64) float64 { return v - 273.15 }},

	// Humidity -> percent
	"relative_humidity_2m": {schema.HumidityPct, identity},
	"humidity_pct":         {schema.HumidityPct, identity},

	// Wind speed -> m/s
	"wind_speed_ms":  {schema.WindSpeedMS, identity},
	"wind_speed_10m": {schema.WindSpeedMS, func(v float64) float64 { return v / 3.6 }}, // km/h
	"wind_speed_kmh": {schema.WindSpeedMS, func(v float64) float64 { return v / 3.6 }},
	"wind_speed_mph": {schema.WindSpeedMS, func(v float64) float64 { return v * 0.44704 }},
	"wind_speed_kt":  {schema.WindSpeedMS, func(v float64) float64 { return v * 0.514444 }},

	// Wind direction -> degrees
	"wind_direction_10m": {schema.WindDirDeg, identity},
	"wind_dir_deg":       {schema.WindDirDeg, identity},

	// Pressure -> hPa
	"surface_pressure": {schema.PressureHPa, identity},
	"pressure_hpa":     {schema.PressureHPa, identity},
	"pressure_pa":      {schema.PressureHPa, func(v float64) float64 { return v / 100 }},
	"pressure_mbar":    {schema.PressureHPa, identity}, // 1 mbar == 1 hPa

	// Precipitation -> mm
	"precipitation":    {schema.PrecipitationMM, identity},
	"precipitation_mm": {schema.PrecipitationMM, identity},
	"precipitation_in": {schema.PrecipitationMM, func(v float64) float64 { return v * 25.4 }},
}

// Normalize converts a provider-shaped series into the canonical vocabulary
// and units. Unknown fields are dropped silently; recognized values that are
// non-finite or outside the plausibility range become missing and produce a
// ValidationWarning. The result is sorted by timestamp with duplicate
// timestamps collapsed first-wins, so it satisfies the Series ordering
// invariant. A nil plausibility table falls back to the stock ranges.
func Normalize(raw schema.RawSeries, plausibility map[schema.Parameter]schema.ParamRange) (schema.Series, []schema.ValidationWarning) {
	if plausibility == nil {
		plausibility = schema.DefaultPlausibility()
	}

	var warnings []schema.ValidationWarning
	obs := make([]schema.Observation, 0, len(raw.Observations))
	for _, ro := range raw.Observations {
		values := make(map[schema.Parameter]float64)
		for field, v := range ro.Fields {
			spec, ok := fieldMappings[field]
			if !ok {
				continue
			}
			cv := spec.Convert(v)
			if math.IsNaN(cv) || math.IsInf(cv, 0) {
				warnings = append(warnings, schema.ValidationWarning{
					SourceID: raw.SourceID,
					Time:     ro.Time,
					Field:    field,
					Value:    v,
					Reason:   "not a finite number",
				})
				continue
			}
			if r, bounded := plausibility[spec.Param]; bounded && (cv < r.Min || cv > r.Max) {
				warnings = append(warnings, schema.ValidationWarning{
					SourceID: raw.SourceID,
					Time:     ro.Time,
					Field:    field,
					Value:    v,
					Reason:   fmt.Sprintf("outside plausible range [%g, %g]", r.Min, r.Max),
				})
				continue
			}
			values[spec.Param] = cv
		}
		obs = append(obs, schema.Observation{Time: ro.Time, Values: values})
	}

	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Time.Before(obs[j].Time)
	})

	// Collapse duplicate timestamps, keeping the first occurrence.
	deduped := obs[:0]
	for _, o := range obs {
		if len(deduped) > 0 && !o.Time.After(deduped[len(deduped)-1].Time) {
			continue
		}
		deduped = append(deduped, o)
	}

	return schema.Series{
		SourceID:     raw.SourceID,
		Kind:         raw.Kind,
		Latitude:     raw.Latitude,
		Longitude:    raw.Longitude,
		Step:         raw.Step,
		Weight:       raw.Weight,
		Observations: deduped,
	}, warnings
}
