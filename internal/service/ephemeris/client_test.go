package ephemeris

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Natalis/internal/domain/models"
	"Natalis/internal/services/natal"
	"Natalis/pkg/errors"
)

func sampleData() models.EphemerisData {
	return models.EphemerisData{
		Bodies: []models.RawBody{{Name: "Sun", Longitude: 54.2, Speed: 0.96}},
		Houses: &models.HouseData{
			System:    "P",
			Cusps:     []float64{0, 30, 60, 90, 120, 150, 180, 210, 240, 270, 300, 330},
			Ascendant: 0,
			Midheaven: 270,
		},
		HouseSystem:     "P",
		HouseSystemName: "Placidus",
	}
}

func newTestClient(url string, retries int) *Client {
	c := NewClient(Config{URL: url, APIKey: "anon", Timeout: time.Second, MaxRetries: retries}, nil)
	c.backoff = time.Millisecond
	return c
}

func TestClient_Compute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ComputePath, r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "anon", r.Header.Get("Apikey"))

		var req models.EphemerisRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "1990-05-15", req.BirthDate)
		assert.Equal(t, natal.RequiredBodies, req.Bodies)

		_ = json.NewEncoder(w).Encode(sampleData())
	}))
	defer srv.Close()

	data, err := newTestClient(srv.URL, 0).Compute(context.Background(), models.EphemerisRequest{
		BirthDate:     "1990-05-15",
		Time:          "14:30",
		Latitude:      51.5,
		Longitude:     -0.12,
		HouseSystem:   "P",
		Authorization: "Bearer token",
	})

	require.NoError(t, err)
	require.Len(t, data.Bodies, 1)
	assert.Equal(t, "Placidus", data.HouseSystemName)
	require.NotNil(t, data.Houses)
	assert.Len(t, data.Houses.Cusps, 12)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(sampleData())
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 2).Compute(context.Background(), models.EphemerisRequest{HouseSystem: "P"})

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad date", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 3).Compute(context.Background(), models.EphemerisRequest{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUpstreamComputation))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).Compute(context.Background(), models.EphemerisRequest{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUpstreamComputation))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := NewClient(Config{}, nil).Compute(context.Background(), models.EphemerisRequest{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUpstreamComputation))
}
