package region

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/couchcryptid/sentiment-map/internal/domain"
	"github.com/couchcryptid/sentiment-map/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	data []byte
	err  error
}

func (f stubFetcher) Fetch(context.Context) ([]byte, error) { return f.data, f.err }
func (f stubFetcher) Location() string                      { return "stub://regions" }

type stubGeocoder struct {
	forwardCalls atomic.Int32
	reverseCalls atomic.Int32
	err          error
}

func (g *stubGeocoder) ForwardGeocode(_ context.Context, name, _ string) (domain.GeocodingResult, error) {
	g.forwardCalls.Add(1)
	if g.err != nil {
		return domain.GeocodingResult{}, g.err
	}
	return domain.GeocodingResult{Lat: 46.5, Lon: 2.5, PlaceName: name, FormattedAddress: name + ", France", Confidence: 0.9}, nil
}

func (g *stubGeocoder) ReverseGeocode(context.Context, float64, float64) (domain.GeocodingResult, error) {
	g.reverseCalls.Add(1)
	if g.err != nil {
		return domain.GeocodingResult{}, g.err
	}
	return domain.GeocodingResult{PlaceName: "Somewhere", FormattedAddress: "Somewhere, France"}, nil
}

const testCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"code": "01", "nom": "Ain"},
     "geometry": {"type": "Polygon", "coordinates": [[[5.0, 46.0], [6.0, 46.0], [6.0, 46.5], [5.0, 46.0]]]}},
    {"type": "Feature", "properties": {"code": "2A", "nom": "Corse-du-Sud"},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[8.5, 41.4], [9.4, 41.4], [9.0, 42.2], [8.5, 41.4]]]]}}
  ]
}`

func newTestStore(g domain.Geocoder) (*Store, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	return NewStore(g, slog.New(slog.NewTextHandler(io.Discard, nil)), m), m
}

func TestLoad_ParsesAndLabels(t *testing.T) {
	s, m := newTestStore(nil)

	res := s.Load(context.Background(), stubFetcher{data: []byte(testCollection)})
	require.NoError(t, res.Err)
	assert.False(t, res.Fallback)
	assert.Equal(t, 2, res.Regions)

	regions := s.Regions()
	require.Len(t, regions, 2)
	assert.Equal(t, "01", regions[0].Code)
	assert.Equal(t, "2A", regions[1].Code)

	ain := regions[0]
	require.NotNil(t, ain.Label)
	assert.Equal(t, "computed", ain.Label.Source)
	assert.InDelta(t, 5.5, ain.Label.Lon, 1e-9)
	assert.InDelta(t, 46.25, ain.Label.Lat, 1e-9)

	b := s.Bounds()
	assert.False(t, b.IsEmpty())
	assert.Equal(t, 5.0, b.MinLon)
	assert.Equal(t, 9.4, b.MaxLon)
	assert.Equal(t, 41.4, b.MinLat)
	assert.Equal(t, 46.5, b.MaxLat)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceLoads.WithLabelValues(observability.SourceRegions, observability.OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecordsLoaded.WithLabelValues(observability.SourceRegions)))
}

func TestLoad_FallbackOnFetchError(t *testing.T) {
	s, m := newTestStore(nil)

	res := s.Load(context.Background(), stubFetcher{err: errors.New("timeout")})
	assert.True(t, res.Fallback)
	require.Error(t, res.Err)
	assert.Equal(t, 3, res.Regions)
	assert.True(t, s.Fallback())

	for _, code := range []string{"75", "69", "13"} {
		r, ok := s.Lookup(code)
		require.True(t, ok, code)
		assert.NotNil(t, r.Label)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceLoads.WithLabelValues(observability.SourceRegions, observability.OutcomeFallback)))
}

func TestLoad_FallbackOnMalformedCollection(t *testing.T) {
	s, _ := newTestStore(nil)

	res := s.Load(context.Background(), stubFetcher{data: []byte(`{"type":"Feature"}`)})
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.Err, domain.ErrMalformedSource)
}

func TestLoad_EmptyCollection(t *testing.T) {
	s, _ := newTestStore(nil)

	res := s.Load(context.Background(), stubFetcher{data: []byte(`{"type":"FeatureCollection","features":[]}`)})
	assert.False(t, res.Fallback)
	assert.Zero(t, res.Regions)
	assert.Empty(t, s.Regions())
	assert.True(t, s.Bounds().IsEmpty())
}

func TestLoad_ForwardGeocodesNamedRegions(t *testing.T) {
	g := &stubGeocoder{}
	s, _ := newTestStore(g)

	s.Load(context.Background(), stubFetcher{data: []byte(testCollection)})

	assert.Equal(t, int32(2), g.forwardCalls.Load())
	assert.Zero(t, g.reverseCalls.Load())
	r, ok := s.Lookup("01")
	require.True(t, ok)
	assert.Equal(t, "forward", r.Label.Source)
	assert.Equal(t, "Ain, France", r.Label.FormattedAddress)
}

func TestLoad_GeocodeFailureKeepsComputedLabel(t *testing.T) {
	g := &stubGeocoder{err: errors.New("rate limited")}
	s, _ := newTestStore(g)

	res := s.Load(context.Background(), stubFetcher{data: []byte(testCollection)})
	assert.False(t, res.Fallback)

	r, ok := s.Lookup("01")
	require.True(t, ok)
	assert.Equal(t, "failed", r.Label.Source)
	assert.InDelta(t, 46.25, r.Label.Lat, 1e-9)
}

func TestLookup_Unknown(t *testing.T) {
	s, _ := newTestStore(nil)
	s.Load(context.Background(), stubFetcher{data: []byte(testCollection)})

	_, ok := s.Lookup("99")
	assert.False(t, ok)
}

func TestRegions_ReturnsCopy(t *testing.T) {
	s, _ := newTestStore(nil)
	s.Load(context.Background(), stubFetcher{data: []byte(testCollection)})

	regions := s.Regions()
	regions[0].Name = "changed"

	r, _ := s.Lookup("01")
	assert.Equal(t, "Ain", r.Name)
}
