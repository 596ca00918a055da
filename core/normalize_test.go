package core

import (
	"math"
	"testing"
	"time"

	"github.com/stratus-wx/stratus/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_UnitConversions(t *testing.T) {
	tests := []struct {
		name  string
		field string
		in    float64
		param schema.Parameter
		want  float64
	}{
		{"fahrenheit to celsius", "temperature_f", 32, schema.TemperatureC, 0},
		{"kelvin to celsius", "temperature_k", 293.15, schema.TemperatureC, 20},
		{"openmeteo kmh to ms", "wind_speed_10m", 36, schema.WindSpeedMS, 10},
		{"mph to ms", "wind_speed_mph", 10, schema.WindSpeedMS, 4.4704},
		{"knots to ms", "wind_speed_kt", 10, schema.WindSpeedMS, 5.14444},
		{"pascal to hpa", "pressure_pa", 101300, schema.PressureHPa, 1013},
		{"mbar is hpa", "pressure_mbar", 1013, schema.PressureHPa, 1013},
		{"inches to mm", "precipitation_in", 1, schema.PrecipitationMM, 25.4},
		{"celsius passthrough", "temperature_2m", 21.5, schema.TemperatureC, 21.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := schema.RawSeries{
				SourceID: "aifs",
				Observations: []schema.RawObservation{
					{Time: ts(0), Fields: map[string]float64{tt.field: tt.in}},
				},
			}
			s, warnings := Normalize(raw, nil)
			require.Empty(t, warnings)
			require.Len(t, s.Observations, 1)
			v, ok := s.Observations[0].Value(tt.param)
			require.True(t, ok)
			assert.InDelta(t, tt.want, v, 1e-9)
		})
	}
}

func TestNormalize_UnknownFieldsDropped(t *testing.T) {
	raw := schema.RawSeries{
		SourceID: "aifs",
		Observations: []schema.RawObservation{
			{Time: ts(0), Fields: map[string]float64{
				"temperature_2m": 20,
				"soil_moisture":  0.3,
			}},
		},
	}

	s, warnings := Normalize(raw, nil)
	assert.Empty(t, warnings)
	require.Len(t, s.Observations, 1)
	assert.Len(t, s.Observations[0].Values, 1)
}

func TestNormalize_ImplausibleValueWarnsOnce(t *testing.T) {
	// A 500C reading becomes missing with exactly one warning; the other
	// parameters in the same observation survive untouched.
	raw := schema.RawSeries{
		SourceID: "graphcast",
		Observations: []schema.RawObservation{
			{Time: ts(0), Fields: map[string]float64{
				"temperature_2m": 500,
				"humidity_pct":   55,
			}},
		},
	}

	s, warnings := Normalize(raw, nil)
	require.Len(t, warnings, 1)
	assert.Equal(t, "graphcast", warnings[0].SourceID)
	assert.Equal(t, "temperature_2m", warnings[0].Field)
	assert.Equal(t, 500.0, warnings[0].Value)
	assert.Contains(t, warnings[0].Reason, "outside plausible range")

	require.Len(t, s.Observations, 1)
	_, ok := s.Observations[0].Value(schema.TemperatureC)
	assert.False(t, ok)
	hum, ok := s.Observations[0].Value(schema.HumidityPct)
	assert.True(t, ok)
	assert.Equal(t, 55.0, hum)
}

func TestNormalize_NonFiniteValue(t *testing.T) {
	raw := schema.RawSeries{
		SourceID: "aifs",
		Observations: []schema.RawObservation{
			{Time: ts(0), Fields: map[string]float64{"temperature_2m": math.NaN()}},
		},
	}

	s, warnings := Normalize(raw, nil)
	require.Len(t, warnings, 1)
	assert.Equal(t, "not a finite number", warnings[0].Reason)
	assert.Empty(t, s.Observations[0].Values)
}

func TestNormalize_CustomPlausibility(t *testing.T) {
	// Tighter custom range rejects what the stock table accepts.
	raw := schema.RawSeries{
		SourceID: "aifs",
		Observations: []schema.RawObservation{
			{Time: ts(0), Fields: map[string]float64{"temperature_2m": 45}},
		},
	}

	custom := map[schema.Parameter]schema.ParamRange{
		schema.TemperatureC: {Min: -10, Max: 40},
	}
	_, warnings := Normalize(raw, custom)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Reason, "[-10, 40]")
}

func TestNormalize_SortsAndDedupes(t *testing.T) {
	// Out of order with a duplicate timestamp; the first occurrence in
	// input order wins.
	raw := schema.RawSeries{
		SourceID: "aifs",
		Step:     time.Hour,
		Observations: []schema.RawObservation{
			{Time: ts(2), Fields: map[string]float64{"temperature_2m": 12}},
			{Time: ts(0), Fields: map[string]float64{"temperature_2m": 10}},
			{Time: ts(0), Fields: map[string]float64{"temperature_2m": 99}},
			{Time: ts(1), Fields: map[string]float64{"temperature_2m": 11}},
		},
	}

	s, warnings := Normalize(raw, nil)
	assert.Empty(t, warnings)
	require.NoError(t, schema.CheckOrdering(s))
	require.Len(t, s.Observations, 3)

	v, _ := s.Observations[0].Value(schema.TemperatureC)
	assert.Equal(t, 10.0, v)
	assert.Equal(t, ts(1), s.Observations[1].Time)
	assert.Equal(t, ts(2), s.Observations[2].Time)
}

func TestNormalize_CarriesMetadata(t *testing.T) {
	raw := schema.RawSeries{
		SourceID:  "meteosat",
		Kind:      schema.HistoricalKind,
		Latitude:  48.85,
		Longitude: 2.35,
		Step:      6 * time.Hour,
		Weight:    0.25,
	}

	s, _ := Normalize(raw, nil)
	assert.Equal(t, "meteosat", s.SourceID)
	assert.Equal(t, schema.HistoricalKind, s.Kind)
	assert.Equal(t, 48.85, s.Latitude)
	assert.Equal(t, 2.35, s.Longitude)
	assert.Equal(t, 6*time.Hour, s.Step)
	assert.Equal(t, 0.25, s.Weight)
	assert.Empty(t, s.Observations)
}
