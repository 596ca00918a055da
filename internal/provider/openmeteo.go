package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/stratus-wx/stratus/schema"
)

// openMeteoTimeFormat is the timestamp layout of the hourly API.
const openMeteoTimeFormat = "2006-01-02T15:04"

// hourlyFields are the fields requested from the hourly API, spelled the way
// Open-Meteo spells them. The normalizer knows these names.
const hourlyFields = "temperature_2m,relative_humidity_2m,wind_speed_10m,wind_direction_10m,surface_pressure,precipitation"

// OpenMeteoClient fetches hourly model output from the Open-Meteo API. The
// AIFS and GraphCast sources are both served by it, selected via the models
// parameter.
type OpenMeteoClient struct {
	id      string
	model   string
	baseURL string
	weight  float64
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewAIFSClient builds the client for ECMWF's AIFS model.
func NewAIFSClient(client *http.Client, weight float64) *OpenMeteoClient {
	return newOpenMeteoClient(schema.SourceAIFS, "ecmwf_aifs025_single", client, weight)
}

// NewGraphCastClient builds the client for DeepMind's GraphCast model.
func NewGraphCastClient(client *http.Client, weight float64) *OpenMeteoClient {
	return newOpenMeteoClient(schema.SourceGraphCast, "gfs_graphcast025", client, weight)
}

func newOpenMeteoClient(id, model string, client *http.Client, weight float64) *OpenMeteoClient {
	return &OpenMeteoClient{
		id:      id,
		model:   model,
		baseURL: "https://api.open-meteo.com/v1/forecast",
		weight:  weight,
		httpCfg: HTTPClientConfig{Client: client, Backoff: defaultBackoff},
		circuit: newCircuit(id),
	}
}

// SetBaseURL points the client at a different endpoint. Used by tests.
func (c *OpenMeteoClient) SetBaseURL(u string) { c.baseURL = u }

func (c *OpenMeteoClient) ID() string { return c.id }

func (c *OpenMeteoClient) Kind() schema.SourceKind { return schema.ForecastKind }

// Fetch requests hourly output for the window and reshapes the columnar
// response into per-instant observations.
func (c *OpenMeteoClient) Fetch(ctx context.Context, req Request) (schema.RawSeries, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(req.Latitude, 'f', 4, 64))
		values.Set("longitude", strconv.FormatFloat(req.Longitude, 'f', 4, 64))
		values.Set("hourly", hourlyFields)
		values.Set("models", c.model)
		values.Set("start_date", req.Start.UTC().Format("2006-01-02"))
		values.Set("end_date", req.End.UTC().Format("2006-01-02"))
		values.Set("timezone", "UTC")

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return schema.RawSeries{}, fmt.Errorf("%s fetch: %w", c.id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload struct {
		Hourly struct {
			Time          []string  `json:"time"`
			Temperature   []float64 `json:"temperature_2m"`
			Humidity      []float64 `json:"relative_humidity_2m"`
			WindSpeed     []float64 `json:"wind_speed_10m"`
			WindDir       []float64 `json:"wind_direction_10m"`
			Pressure      []float64 `json:"surface_pressure"`
			Precipitation []float64 `json:"precipitation"`
		} `json:"hourly"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return schema.RawSeries{}, fmt.Errorf("%s decode: %w", c.id, err)
	}

	h := payload.Hourly
	columns := map[string][]float64{
		"temperature_2m":       h.Temperature,
		"relative_humidity_2m": h.Humidity,
		"wind_speed_10m":       h.WindSpeed,
		"wind_direction_10m":   h.WindDir,
		"surface_pressure":     h.Pressure,
		"precipitation":        h.Precipitation,
	}

	obs := make([]schema.RawObservation, 0, len(h.Time))
	for i, raw := range h.Time {
		ts, err := time.Parse(openMeteoTimeFormat, raw)
		if err != nil {
			return schema.RawSeries{}, fmt.Errorf("%s timestamp %q: %w", c.id, raw, err)
		}
		ts = ts.UTC()
		if ts.Before(req.Start) || ts.After(req.End) {
			continue
		}
		fields := make(map[string]float64)
		for name, col := range columns {
			if i < len(col) {
				fields[name] = col[i]
			}
		}
		obs = append(obs, schema.RawObservation{Time: ts, Fields: fields})
	}

	return schema.RawSeries{
		SourceID:     c.id,
		Kind:         schema.ForecastKind,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Step:         time.Hour,
		Weight:       c.weight,
		Observations: obs,
	}, nil
}
