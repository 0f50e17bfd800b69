// Package render turns loaded regions and sentiment records into the styled
// map layer and the per-department detail views served to the browser.
package render

import (
	"github.com/couchcryptid/sentiment-map/internal/domain"
)

// Layer styling shared by every department polygon.
const (
	NoDataFill  = "#CCCCCC"
	BorderColor = "white"
	BorderWidth = 1
	Opacity     = 1
	FillOpacity = 0.7
)

// RegionSource is the read side of the boundary store.
type RegionSource interface {
	Regions() []domain.RegionFeature
	Lookup(code string) (domain.RegionFeature, bool)
	Bounds() domain.Bounds
}

// RecordSource is the read side of the sentiment repository plus on-demand
// synthesis for departments the source did not cover.
type RecordSource interface {
	Lookup(code string) (domain.SentimentRecord, bool)
	Synthesize(code, name string) domain.SentimentRecord
}

// Style is the Leaflet path style for one feature.
type Style struct {
	FillColor   string  `json:"fillColor"`
	Weight      int     `json:"weight"`
	Opacity     float64 `json:"opacity"`
	Color       string  `json:"color"`
	FillOpacity float64 `json:"fillOpacity"`
}

// Properties are the per-feature values the front end reads for tooltips,
// styling, and click handling.
type Properties struct {
	Code        string             `json:"code"`
	Name        string             `json:"nom"`
	HasData     bool               `json:"has_data"`
	Score       *float64           `json:"score,omitempty"`
	Description string             `json:"description,omitempty"`
	Synthesized bool               `json:"synthesized,omitempty"`
	Style       Style              `json:"style"`
	Label       *domain.LabelPoint `json:"label,omitempty"`
}

// Feature is one styled department.
type Feature struct {
	Type       string          `json:"type"`
	Properties Properties      `json:"properties"`
	Geometry   domain.Geometry `json:"geometry"`
}

// LatLngBounds is a box in Leaflet's [[south, west], [north, east]] order,
// ready for map.fitBounds.
type LatLngBounds [2][2]float64

// Map is the rendered choropleth layer.
type Map struct {
	Type     string        `json:"type"`
	Features []Feature     `json:"features"`
	Bounds   *LatLngBounds `json:"bounds,omitempty"`
}

// Renderer joins regions to sentiment records by department code.
type Renderer struct {
	regions    RegionSource
	records    RecordSource
	synthesize bool
}

// New creates a Renderer. When synthesize is false, departments without a
// record are drawn grey and their detail view reports no data.
func New(regions RegionSource, records RecordSource, synthesize bool) *Renderer {
	return &Renderer{regions: regions, records: records, synthesize: synthesize}
}

// resolve returns the record for a department, synthesizing one if allowed.
func (r *Renderer) resolve(code, name string) (domain.SentimentRecord, bool) {
	if rec, ok := r.records.Lookup(code); ok {
		return rec, true
	}
	if !r.synthesize {
		return domain.SentimentRecord{}, false
	}
	return r.records.Synthesize(code, name), true
}

// Choropleth styles every stored region in source order.
func (r *Renderer) Choropleth() Map {
	regions := r.regions.Regions()
	m := Map{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(regions)),
		Bounds:   leafletBounds(r.regions.Bounds()),
	}

	for _, region := range regions {
		props := Properties{
			Code:  region.Code,
			Name:  region.Name,
			Label: region.Label,
			Style: Style{
				FillColor:   NoDataFill,
				Weight:      BorderWidth,
				Opacity:     Opacity,
				Color:       BorderColor,
				FillOpacity: FillOpacity,
			},
		}
		if rec, ok := r.resolve(region.Code, region.Name); ok {
			score := rec.Score
			props.HasData = true
			props.Score = &score
			props.Description = domain.Describe(rec.Score)
			props.Synthesized = rec.Synthesized
			props.Style.FillColor = rec.Color.Hex()
		}
		m.Features = append(m.Features, Feature{
			Type:       "Feature",
			Properties: props,
			Geometry:   region.Geometry,
		})
	}
	return m
}

func leafletBounds(b domain.Bounds) *LatLngBounds {
	if b.IsEmpty() {
		return nil
	}
	return &LatLngBounds{{b.MinLat, b.MinLon}, {b.MaxLat, b.MaxLon}}
}
