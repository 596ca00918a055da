package runstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stratus-wx/stratus/internal/contract"
	"github.com/stratus-wx/stratus/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a SQLite store in a throwaway directory.
func newTestStore(t *testing.T) contract.RunStore {
	t.Helper()
	store, err := NewRunStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRun(id string, createdAt time.Time) (contract.RunRecord, schema.AggregatedSeries) {
	t0 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	rec := contract.RunRecord{
		ID:         id,
		CreatedAt:  createdAt,
		Latitude:   48.85,
		Longitude:  2.35,
		AsOf:       t0,
		Sources:    "aifs,graphcast,meteosat",
		Agreement:  0.87,
		PointCount: 3,
		Duration:   1200 * time.Millisecond,
	}
	series := schema.AggregatedSeries{
		Sources: []string{"aifs", "graphcast", "meteosat"},
		Step:    time.Hour,
		Observations: []schema.AggregatedObservation{
			{
				Time: t0,
				Values: map[schema.Parameter]schema.Estimate{
					schema.TemperatureC: {Mean: 4.2, Variance: 0.8, Count: 3},
					schema.WindSpeedMS:  {Mean: 3.1, Variance: 0.2, Count: 2},
				},
			},
			{
				Time: t0.Add(time.Hour),
				Values: map[schema.Parameter]schema.Estimate{
					schema.TemperatureC: {Mean: 4.0, Variance: 0.5, Count: 3},
				},
			},
		},
	}
	return rec, series
}

func TestRunStore_SaveAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older, olderSeries := sampleRun("run-older", time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC))
	newer, newerSeries := sampleRun("run-newer", time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	require.NoError(t, store.SaveRun(ctx, older, olderSeries))
	require.NoError(t, store.SaveRun(ctx, newer, newerSeries))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "run-newer", runs[0].ID)
	assert.Equal(t, "run-older", runs[1].ID)

	got := runs[0]
	assert.Equal(t, newer.CreatedAt, got.CreatedAt)
	assert.Equal(t, newer.AsOf, got.AsOf)
	assert.Equal(t, newer.Latitude, got.Latitude)
	assert.Equal(t, newer.Sources, got.Sources)
	assert.Equal(t, newer.Agreement, got.Agreement)
	assert.Equal(t, newer.PointCount, got.PointCount)
	assert.Equal(t, newer.Duration, got.Duration)
}

func TestRunStore_ListLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec, series := sampleRun(string(rune('a'+i)), base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, store.SaveRun(ctx, rec, series))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRunStore_GetRunPoints(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec, series := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, store.SaveRun(ctx, rec, series))

	points, err := store.GetRunPoints(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, points, 3)

	// Ordered by timestamp, then parameter.
	assert.Equal(t, schema.TemperatureC, points[0].Parameter)
	assert.Equal(t, schema.WindSpeedMS, points[1].Parameter)
	assert.Equal(t, schema.TemperatureC, points[2].Parameter)
	assert.Equal(t, 4.2, points[0].Mean)
	assert.Equal(t, 0.8, points[0].Variance)
	assert.Equal(t, 3, points[0].Count)
	assert.True(t, points[2].Time.After(points[0].Time))

	missing, err := store.GetRunPoints(ctx, "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestRunStore_DuplicateRunRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec, series := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, store.SaveRun(ctx, rec, series))
	assert.Error(t, store.SaveRun(ctx, rec, series))

	// The failed save must not leave partial points behind.
	points, err := store.GetRunPoints(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, points, 3)
}

func TestRunStore_ClearRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec, series := sampleRun(string(rune('a'+i)), time.Now().UTC())
		require.NoError(t, store.SaveRun(ctx, rec, series))
	}

	cleared, err := store.ClearRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cleared)

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	points, err := store.GetRunPoints(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestRunStore_NoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	ctx := context.Background()
	rec, series := sampleRun("run-1", time.Now().UTC())
	assert.NoError(t, store.SaveRun(ctx, rec, series))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Nil(t, runs)

	cleared, err := store.ClearRuns(ctx)
	require.NoError(t, err)
	assert.Zero(t, cleared)
	assert.NoError(t, store.Close())
}

func TestRunStore_UnsupportedBackend(t *testing.T) {
	_, err := NewRunStore(schema.StoreBackend("oracle"), "")
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	want := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

	got, err := parseTime(want)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = parseTime("2025-01-15T09:30:00Z")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = parseTime([]byte("2025-01-15 09:30:00"))
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, err = parseTime(42)
	assert.Error(t, err)
}
