package domain

import (
	"context"
	"log/slog"
)

// Country is appended to forward geocoding queries; department names such as
// "Vienne" or "Loire" are ambiguous without it.
const Country = "France"

// WithComputedLabel places the label at the centre of the region's bounding
// box and fills an empty name from the department table.
func WithComputedLabel(region RegionFeature) RegionFeature {
	if region.Name == "" {
		if name, ok := DepartmentName(region.Code); ok {
			region.Name = name
		}
	}
	b := region.Geometry.Bounds()
	if b.IsEmpty() {
		return region
	}
	c := b.Center()
	region.Label = &LabelPoint{Lat: c[1], Lon: c[0], Source: "computed"}
	return region
}

// EnrichWithGeocoding attempts to improve a region's label with geocoding
// data. If geocoder is nil or geocoding fails, the region is returned with
// Label.Source set accordingly (graceful degradation).
func EnrichWithGeocoding(ctx context.Context, region RegionFeature, geocoder Geocoder, logger *slog.Logger) RegionFeature {
	region = WithComputedLabel(region)
	if geocoder == nil || region.Label == nil {
		return region
	}

	// Reverse geocode: centre → place name (when the source had no name and
	// the department table does not know the code either).
	if region.Name == "" {
		result, err := geocoder.ReverseGeocode(ctx, region.Label.Lat, region.Label.Lon)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"code", region.Code,
				"lat", region.Label.Lat,
				"lon", region.Label.Lon,
				"error", err,
			)
			region.Label.Source = "failed"
			return region
		}
		if result.FormattedAddress != "" {
			region.Name = result.PlaceName
			region.Label.PlaceName = result.PlaceName
			region.Label.FormattedAddress = result.FormattedAddress
			region.Label.Confidence = result.Confidence
			region.Label.Source = "reverse"
		}
		return region
	}

	// Forward geocode: department name → label coordinates.
	result, err := geocoder.ForwardGeocode(ctx, region.Name, Country)
	if err != nil {
		logger.Warn("forward geocoding failed",
			"code", region.Code,
			"name", region.Name,
			"error", err,
		)
		region.Label.Source = "failed"
		return region
	}
	if result.Lat != 0 || result.Lon != 0 {
		region.Label = &LabelPoint{
			Lat:              result.Lat,
			Lon:              result.Lon,
			PlaceName:        result.PlaceName,
			FormattedAddress: result.FormattedAddress,
			Confidence:       result.Confidence,
			Source:           "forward",
		}
	}
	return region
}
