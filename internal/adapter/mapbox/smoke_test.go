//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/sentiment-map/internal/domain"
	"github.com/couchcryptid/sentiment-map/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
}

func TestSmoke_ForwardGeocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ForwardGeocode(context.Background(), "Gironde", domain.Country)
	require.NoError(t, err)

	assert.InDelta(t, 44.8, result.Lat, 0.8, "lat should be inside Gironde")
	assert.InDelta(t, -0.6, result.Lon, 0.8, "lon should be inside Gironde")
	assert.Contains(t, result.FormattedAddress, "Gironde")
	assert.Greater(t, result.Confidence, 0.5)
}

func TestSmoke_ReverseGeocode(t *testing.T) {
	c := smokeClient(t)

	// Lyon, in Rhône.
	result, err := c.ReverseGeocode(context.Background(), 45.7640, 4.8357)
	require.NoError(t, err)

	assert.NotEmpty(t, result.FormattedAddress)
	assert.NotEmpty(t, result.PlaceName)
}

func TestSmoke_ForwardGeocode_Nonsense(t *testing.T) {
	c := smokeClient(t)

	// Fuzzy matching may still return something; the client must not error.
	_, err := c.ForwardGeocode(context.Background(), "XYZNONEXISTENT99", domain.Country)
	require.NoError(t, err)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached, err := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())
	require.NoError(t, err)

	r1, err := cached.ForwardGeocode(context.Background(), "Finistère", domain.Country)
	require.NoError(t, err)
	assert.Contains(t, r1.FormattedAddress, "Finistère")

	r2, err := cached.ForwardGeocode(context.Background(), "Finistère", domain.Country)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
