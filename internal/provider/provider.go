// Package provider fetches raw weather series from the upstream sources.
// Each client returns provider-shaped observations; normalization onto the
// canonical vocabulary happens downstream in core.
package provider

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/stratus-wx/stratus/internal/contract"
	"github.com/stratus-wx/stratus/schema"
)

// Request describes the window and location a client should fetch.
type Request struct {
	Latitude  float64
	Longitude float64
	Start     time.Time
	End       time.Time
	Step      time.Duration
}

// Client fetches one source's raw series for a request window.
type Client interface {
	ID() string
	Kind() schema.SourceKind
	Fetch(ctx context.Context, req Request) (schema.RawSeries, error)
}

// Registry holds the configured set of source clients.
type Registry struct {
	clients []Client
}

// NewRegistry builds clients for the sources selected in the config. In
// offline mode the network-backed clients are swapped for deterministic
// synthetic generators so every command still works without connectivity.
func NewRegistry(cfg *contract.Config) *Registry {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	weight := func(id string) float64 { return cfg.Ensemble.Weights[id] }

	var clients []Client
	for _, id := range cfg.Sources {
		switch id {
		case schema.SourceAIFS:
			if cfg.Offline {
				clients = append(clients, NewSyntheticClient(id, schema.ForecastKind, weight(id)))
			} else {
				clients = append(clients, NewAIFSClient(httpClient, weight(id)))
			}
		case schema.SourceGraphCast:
			if cfg.Offline {
				clients = append(clients, NewSyntheticClient(id, schema.ForecastKind, weight(id)))
			} else {
				clients = append(clients, NewGraphCastClient(httpClient, weight(id)))
			}
		case schema.SourceMeteosat:
			// Satellite history is always generated locally.
			clients = append(clients, NewMeteosatClient(weight(id)))
		}
	}
	return &Registry{clients: clients}
}

// Clients returns the configured clients in selection order.
func (r *Registry) Clients() []Client {
	return r.clients
}

// Lookup returns the client for a source identifier.
func (r *Registry) Lookup(id string) (Client, bool) {
	for _, c := range r.clients {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// FetchAll fans the request out to every client concurrently and waits for
// all of them. A failed source becomes a SourceFailure, never an error for
// the batch; the caller decides whether the surviving set is enough.
func (r *Registry) FetchAll(ctx context.Context, req Request) ([]schema.RawSeries, []schema.SourceFailure) {
	type outcome struct {
		index  int
		series schema.RawSeries
		err    error
	}

	outcomes := make([]outcome, len(r.clients))
	var wg sync.WaitGroup
	for i, c := range r.clients {
		wg.Go(func() {
			series, err := c.Fetch(ctx, req)
			outcomes[i] = outcome{index: i, series: series, err: err}
		})
	}
	wg.Wait()

	var series []schema.RawSeries
	var failures []schema.SourceFailure
	for i, o := range outcomes {
		if o.err != nil {
			failures = append(failures, schema.SourceFailure{
				SourceID: r.clients[i].ID(),
				Message:  o.err.Error(),
			})
			continue
		}
		series = append(series, o.series)
	}
	return series, failures
}
