package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stratus-wx/stratus/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeteosatClient_Fetch(t *testing.T) {
	c := NewMeteosatClient(0.25)
	assert.Equal(t, schema.SourceMeteosat, c.ID())
	assert.Equal(t, schema.HistoricalKind, c.Kind())

	req := Request{
		Latitude:  48.85,
		Longitude: 2.35,
		Start:     time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	series, err := c.Fetch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 6*time.Hour, series.Step)
	assert.Equal(t, 0.25, series.Weight)
	require.Len(t, series.Observations, 5) // 00, 06, 12, 18, 00

	for i, o := range series.Observations {
		assert.Equal(t, req.Start.Add(time.Duration(i)*6*time.Hour), o.Time)
		// Native satellite units: Kelvin and Pascal.
		assert.Greater(t, o.Fields["temperature_k"], 200.0)
		assert.Less(t, o.Fields["temperature_k"], 330.0)
		assert.Greater(t, o.Fields["pressure_pa"], 85000.0)
		assert.Less(t, o.Fields["pressure_pa"], 110000.0)
	}
}

func TestMeteosatClient_Deterministic(t *testing.T) {
	c := NewMeteosatClient(0.25)
	req := Request{
		Latitude:  -33.87,
		Longitude: 151.21,
		Start:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
	}

	a, err := c.Fetch(context.Background(), req)
	require.NoError(t, err)
	b, err := c.Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, a.Observations, b.Observations)

	// A different location yields different data.
	req.Latitude = 48.85
	req.Longitude = 2.35
	other, err := c.Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, a.Observations[0].Fields, other.Observations[0].Fields)
}

func TestMeteosatClient_SnapsToCadence(t *testing.T) {
	c := NewMeteosatClient(0.25)

	// A window opening mid-cycle starts at the next 6-hour mark.
	req := Request{
		Start: time.Date(2025, 1, 14, 2, 30, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 14, 13, 0, 0, 0, time.UTC),
	}
	series, err := c.Fetch(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, series.Observations, 2)
	assert.Equal(t, time.Date(2025, 1, 14, 6, 0, 0, 0, time.UTC), series.Observations[0].Time)
	assert.Equal(t, time.Date(2025, 1, 14, 12, 0, 0, 0, time.UTC), series.Observations[1].Time)
}

func TestMeteosatClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewMeteosatClient(0.25)
	_, err := c.Fetch(ctx, Request{Start: time.Now(), End: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, context.Canceled)
}
