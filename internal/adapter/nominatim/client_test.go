package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/crash-map-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserAgent = "plane_crash_visualization"

func testClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(baseURL, testUserAgent, timeout, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Geocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Fort Myer, USA", r.URL.Query().Get("q"))
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode([]place{{
			Lat:         "38.8806",
			Lon:         "-77.0797",
			DisplayName: "Fort Myer, Arlington County, Virginia, United States",
			Importance:  0.61,
		}}))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL, 5*time.Second).Geocode(context.Background(), "Fort Myer, USA")
	require.NoError(t, err)

	assert.True(t, result.Matched)
	assert.Equal(t, 38.8806, result.Lat)
	assert.Equal(t, -77.0797, result.Lon)
	assert.Equal(t, "Fort Myer, Arlington County, Virginia, United States", result.FormattedAddress)
	assert.Equal(t, 0.61, result.Confidence)
}

func TestClient_Geocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL, 5*time.Second).Geocode(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestClient_Geocode_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("overloaded"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).Geocode(context.Background(), "Paris")
	require.Error(t, err)
	assert.True(t, domain.IsTransient(err))
	assert.Contains(t, err.Error(), "503")
}

func TestClient_Geocode_TimeoutIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 50*time.Millisecond).Geocode(context.Background(), "Paris")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeocodeTimeout)
}

func TestClient_Geocode_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).Geocode(context.Background(), "Paris")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeocodeService)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient("", testUserAgent, time.Second, slog.Default())
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}
