package provider

import (
	"context"
	"math"
	"time"

	"github.com/stratus-wx/stratus/schema"
)

// meteosatStep is the satellite product cadence.
const meteosatStep = 6 * time.Hour

// MeteosatClient produces satellite-derived historical observations. There
// is no public API behind it; the series is generated locally with a
// deterministic climate model so the same request always yields the same
// data, at the 6-hourly cadence of the real product.
type MeteosatClient struct {
	weight float64
}

// NewMeteosatClient builds the satellite history client.
func NewMeteosatClient(weight float64) *MeteosatClient {
	return &MeteosatClient{weight: weight}
}

func (c *MeteosatClient) ID() string { return schema.SourceMeteosat }

func (c *MeteosatClient) Kind() schema.SourceKind { return schema.HistoricalKind }

// Fetch generates 6-hourly observations covering the request window. Fields
// come back in the satellite product's native units (Kelvin, Pascal) so the
// normalizer's conversion path is the same as for a real feed.
func (c *MeteosatClient) Fetch(ctx context.Context, req Request) (schema.RawSeries, error) {
	if err := ctx.Err(); err != nil {
		return schema.RawSeries{}, err
	}

	var obs []schema.RawObservation
	start := req.Start.Truncate(meteosatStep)
	if start.Before(req.Start) {
		start = start.Add(meteosatStep)
	}
	for t := start; !t.After(req.End); t = t.Add(meteosatStep) {
		w := climateAt(req.Latitude, req.Longitude, t)
		obs = append(obs, schema.RawObservation{
			Time: t,
			Fields: map[string]float64{
				"temperature_k": w.temperature + 273.15,
				"humidity_pct":  w.humidity,
				"wind_speed_ms": w.windSpeed,
				"wind_dir_deg":  w.windDir,
				"pressure_pa":   w.pressure * 100,
			},
		})
	}

	return schema.RawSeries{
		SourceID:     schema.SourceMeteosat,
		Kind:         schema.HistoricalKind,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Step:         meteosatStep,
		Weight:       c.weight,
		Observations: obs,
	}, nil
}

// weatherPoint holds one generated instant in canonical units.
type weatherPoint struct {
	temperature float64
	humidity    float64
	windSpeed   float64
	windDir     float64
	pressure    float64
}

// climateAt evaluates the deterministic climate model for one location and
// instant: a latitude-dependent base temperature with diurnal and seasonal
// cycles, and simple harmonics for the other fields. Longitude shifts the
// phase so nearby locations still differ.
func climateAt(lat, lon float64, t time.Time) weatherPoint {
	hourOfDay := float64(t.UTC().Hour()) + float64(t.UTC().Minute())/60
	dayOfYear := float64(t.UTC().YearDay())

	diurnal := math.Sin((hourOfDay - 9 + lon/15) / 24 * 2 * math.Pi)
	seasonal := math.Cos((dayOfYear - 196) / 365 * 2 * math.Pi)
	if lat < 0 {
		seasonal = -seasonal
	}

	base := 27 - 0.55*math.Abs(lat)
	temperature := base + 10*seasonal + 6*diurnal
	humidity := clamp(65-25*diurnal+5*math.Sin(lon/30), 5, 100)
	windSpeed := clamp(4+3*math.Sin(hourOfDay/24*2*math.Pi+lon/20)+math.Abs(lat)/30, 0, 60)
	windDir := math.Mod(180+120*math.Sin(dayOfYear/365*2*math.Pi)+lon, 360)
	if windDir < 0 {
		windDir += 360
	}
	pressure := 1013 + 8*math.Cos(hourOfDay/12*2*math.Pi) - math.Abs(lat)/10

	return weatherPoint{
		temperature: temperature,
		humidity:    humidity,
		windSpeed:   windSpeed,
		windDir:     windDir,
		pressure:    pressure,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
