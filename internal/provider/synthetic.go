package provider

import (
	"context"
	"math"
	"time"

	"github.com/stratus-wx/stratus/schema"
)

// SyntheticClient stands in for a network-backed model in offline mode. It
// evaluates the same deterministic climate model as the satellite client,
// hourly, with a small per-source perturbation so the ensemble still has
// spread to aggregate and score.
type SyntheticClient struct {
	id     string
	kind   schema.SourceKind
	weight float64
}

// NewSyntheticClient builds an offline stand-in for the named source.
func NewSyntheticClient(id string, kind schema.SourceKind, weight float64) *SyntheticClient {
	return &SyntheticClient{id: id, kind: kind, weight: weight}
}

func (c *SyntheticClient) ID() string { return c.id }

func (c *SyntheticClient) Kind() schema.SourceKind { return c.kind }

func (c *SyntheticClient) Fetch(ctx context.Context, req Request) (schema.RawSeries, error) {
	if err := ctx.Err(); err != nil {
		return schema.RawSeries{}, err
	}

	step := req.Step
	if step <= 0 {
		step = time.Hour
	}
	// Stable per-source offset, so aifs and graphcast disagree a little.
	var seed float64
	for _, r := range c.id {
		seed += float64(r)
	}
	offset := math.Sin(seed) * 1.5

	var obs []schema.RawObservation
	for t := req.Start; !t.After(req.End); t = t.Add(step) {
		w := climateAt(req.Latitude, req.Longitude, t)
		wobble := math.Sin(seed + float64(t.Unix()/3600))
		obs = append(obs, schema.RawObservation{
			Time: t,
			Fields: map[string]float64{
				"temperature_2m":       w.temperature + offset + 0.4*wobble,
				"relative_humidity_2m": clamp(w.humidity+2*wobble, 0, 100),
				"wind_speed_10m":       clamp(w.windSpeed+0.5*wobble, 0, 60) * 3.6,
				"wind_direction_10m":   math.Mod(w.windDir+5*wobble+360, 360),
				"surface_pressure":     w.pressure + wobble,
				"precipitation":        0,
			},
		})
	}

	return schema.RawSeries{
		SourceID:     c.id,
		Kind:         c.kind,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Step:         step,
		Weight:       c.weight,
		Observations: obs,
	}, nil
}
