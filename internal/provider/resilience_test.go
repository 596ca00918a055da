package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastBackoff keeps retry tests quick.
var fastBackoff = BackoffConfig{
	MaxRetries:      2,
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
}

func buildGet(url string) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	}
}

func TestDoRequestWithResilience_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := HTTPClientConfig{Client: srv.Client(), Backoff: fastBackoff}
	resp, err := doRequestWithResilience(context.Background(), cfg, newCircuit("test"), buildGet(srv.URL))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoRequestWithResilience_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := HTTPClientConfig{Client: srv.Client(), Backoff: fastBackoff}
	_, err := doRequestWithResilience(context.Background(), cfg, newCircuit("test"), buildGet(srv.URL))
	require.Error(t, err)
	assert.ErrorIs(t, err, errRateLimited)
	assert.Equal(t, int32(3), calls.Load()) // initial attempt plus MaxRetries
}

func TestDoRequestWithResilience_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := HTTPClientConfig{Client: srv.Client(), Backoff: BackoffConfig{MaxRetries: 0, InitialInterval: time.Millisecond}}
	_, err := doRequestWithResilience(context.Background(), cfg, newCircuit("test"), buildGet(srv.URL))
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnexpected)
}

func TestDoRequestWithResilience_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := HTTPClientConfig{Client: http.DefaultClient, Backoff: fastBackoff}
	_, err := doRequestWithResilience(ctx, cfg, newCircuit("test"), buildGet("http://127.0.0.1:0"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoRequestWithResilience_ConfigErrors(t *testing.T) {
	_, err := doRequestWithResilience(context.Background(), HTTPClientConfig{}, newCircuit("test"), buildGet("http://example.invalid"))
	assert.ErrorIs(t, err, errNoHTTPClient)

	cfg := HTTPClientConfig{Client: http.DefaultClient, Backoff: BackoffConfig{MaxRetries: -1}}
	_, err = doRequestWithResilience(context.Background(), cfg, newCircuit("test"), buildGet("http://example.invalid"))
	assert.ErrorIs(t, err, errInvalidConfig)
}
