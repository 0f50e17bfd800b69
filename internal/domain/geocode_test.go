package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock geocoder ---

type mockGeocoder struct {
	forwardResult GeocodingResult
	forwardErr    error
	reverseResult GeocodingResult
	reverseErr    error
	forwardCalls  int
	reverseCalls  int
	lastCountry   string
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, _, country string) (GeocodingResult, error) {
	m.forwardCalls++
	m.lastCountry = country
	return m.forwardResult, m.forwardErr
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.reverseCalls++
	return m.reverseResult, m.reverseErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func square(code, name string) RegionFeature {
	return RegionFeature{
		Code: code,
		Name: name,
		Geometry: Geometry{
			Type:     GeometryPolygon,
			Polygons: []Polygon{{Ring{{2, 48}, {3, 48}, {3, 49}, {2, 49}, {2, 48}}}},
		},
	}
}

// --- tests ---

func TestWithComputedLabel_BoundingBoxCenter(t *testing.T) {
	result := WithComputedLabel(square("75", "Paris"))

	require.NotNil(t, result.Label)
	assert.InDelta(t, 48.5, result.Label.Lat, 1e-9)
	assert.InDelta(t, 2.5, result.Label.Lon, 1e-9)
	assert.Equal(t, "computed", result.Label.Source)
}

func TestWithComputedLabel_FillsNameFromTable(t *testing.T) {
	result := WithComputedLabel(square("2A", ""))
	assert.Equal(t, "Corse-du-Sud", result.Name)
}

func TestWithComputedLabel_EmptyGeometry(t *testing.T) {
	result := WithComputedLabel(RegionFeature{Code: "75", Name: "Paris"})
	assert.Nil(t, result.Label)
}

func TestEnrichWithGeocoding_NilGeocoder(t *testing.T) {
	result := EnrichWithGeocoding(context.Background(), square("75", "Paris"), nil, discardLogger())

	require.NotNil(t, result.Label)
	assert.Equal(t, "computed", result.Label.Source)
	assert.Empty(t, result.Label.FormattedAddress)
}

func TestEnrichWithGeocoding_ForwardGeocode(t *testing.T) {
	geo := &mockGeocoder{
		forwardResult: GeocodingResult{
			Lat:              48.8566,
			Lon:              2.3522,
			FormattedAddress: "Paris, France",
			PlaceName:        "Paris",
			Confidence:       0.97,
		},
	}

	result := EnrichWithGeocoding(context.Background(), square("75", "Paris"), geo, discardLogger())

	require.NotNil(t, result.Label)
	assert.Equal(t, 48.8566, result.Label.Lat)
	assert.Equal(t, 2.3522, result.Label.Lon)
	assert.Equal(t, "Paris, France", result.Label.FormattedAddress)
	assert.Equal(t, 0.97, result.Label.Confidence)
	assert.Equal(t, "forward", result.Label.Source)
	assert.Equal(t, Country, geo.lastCountry)
	assert.Equal(t, 1, geo.forwardCalls)
	assert.Equal(t, 0, geo.reverseCalls)
}

func TestEnrichWithGeocoding_ReverseGeocodeForUnnamedRegion(t *testing.T) {
	geo := &mockGeocoder{
		reverseResult: GeocodingResult{
			FormattedAddress: "Saint-Pierre-et-Miquelon, France",
			PlaceName:        "Saint-Pierre-et-Miquelon",
			Confidence:       0.9,
		},
	}

	result := EnrichWithGeocoding(context.Background(), square("975", ""), geo, discardLogger())

	assert.Equal(t, "Saint-Pierre-et-Miquelon", result.Name)
	assert.Equal(t, "reverse", result.Label.Source)
	assert.Equal(t, 0, geo.forwardCalls)
	assert.Equal(t, 1, geo.reverseCalls)
}

func TestEnrichWithGeocoding_ForwardError_GracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{forwardErr: errors.New("API timeout")}

	result := EnrichWithGeocoding(context.Background(), square("75", "Paris"), geo, discardLogger())

	assert.Equal(t, "failed", result.Label.Source)
	assert.InDelta(t, 48.5, result.Label.Lat, 1e-9) // computed centre preserved
}

func TestEnrichWithGeocoding_ReverseError_GracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{reverseErr: errors.New("rate limited")}

	result := EnrichWithGeocoding(context.Background(), square("975", ""), geo, discardLogger())

	assert.Equal(t, "failed", result.Label.Source)
	assert.Empty(t, result.Name)
}

func TestEnrichWithGeocoding_ForwardEmptyResult(t *testing.T) {
	geo := &mockGeocoder{forwardResult: GeocodingResult{}}

	result := EnrichWithGeocoding(context.Background(), square("75", "Paris"), geo, discardLogger())

	assert.Equal(t, "computed", result.Label.Source)
}

func TestEnrichWithGeocoding_NoGeometrySkipsProvider(t *testing.T) {
	geo := &mockGeocoder{}

	result := EnrichWithGeocoding(context.Background(), RegionFeature{Code: "75", Name: "Paris"}, geo, discardLogger())

	assert.Nil(t, result.Label)
	assert.Equal(t, 0, geo.forwardCalls)
	assert.Equal(t, 0, geo.reverseCalls)
}
