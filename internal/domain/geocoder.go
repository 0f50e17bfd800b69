package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder places department labels on the map.
type Geocoder interface {
	// ForwardGeocode converts a place name and country to coordinates.
	ForwardGeocode(ctx context.Context, name, country string) (GeocodingResult, error)

	// ReverseGeocode converts coordinates to place details.
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}

// Fetcher retrieves the raw bytes of a data source.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)

	// Location names the source for logs.
	Location() string
}
