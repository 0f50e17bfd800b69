package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Geometry types accepted for department boundaries.
const (
	GeometryPolygon      = "Polygon"
	GeometryMultiPolygon = "MultiPolygon"
)

// Point is a WGS-84 position in GeoJSON order: [lon, lat]. Extra ordinates
// (altitude) in the source are dropped.
type Point [2]float64

// Ring is a closed linear ring.
type Ring []Point

// Polygon is an outer ring followed by any holes.
type Polygon []Ring

// Geometry is a department boundary. A Polygon geometry holds exactly one
// entry in Polygons.
type Geometry struct {
	Type     string
	Polygons []Polygon
}

type geometryJSON struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// MarshalJSON writes the geometry back as GeoJSON.
func (g Geometry) MarshalJSON() ([]byte, error) {
	var coords any
	switch g.Type {
	case GeometryPolygon:
		if len(g.Polygons) == 1 {
			coords = g.Polygons[0]
		} else {
			coords = Polygon{}
		}
	default:
		coords = g.Polygons
	}
	raw, err := json.Marshal(coords)
	if err != nil {
		return nil, err
	}
	return json.Marshal(geometryJSON{Type: g.Type, Coordinates: raw})
}

// UnmarshalJSON reads a GeoJSON Polygon or MultiPolygon.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	var raw geometryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode geometry: %w", err)
	}
	switch raw.Type {
	case GeometryPolygon:
		var p Polygon
		if err := json.Unmarshal(raw.Coordinates, &p); err != nil {
			return fmt.Errorf("decode polygon coordinates: %w", err)
		}
		g.Polygons = []Polygon{p}
	case GeometryMultiPolygon:
		var mp []Polygon
		if err := json.Unmarshal(raw.Coordinates, &mp); err != nil {
			return fmt.Errorf("decode multipolygon coordinates: %w", err)
		}
		g.Polygons = mp
	default:
		return fmt.Errorf("%w: unsupported geometry type %q", ErrMalformedSource, raw.Type)
	}
	g.Type = raw.Type
	return nil
}

// Bounds is a lon/lat bounding box.
type Bounds struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// EmptyBounds returns a box that any Extend call will replace.
func EmptyBounds() Bounds {
	return Bounds{
		MinLon: math.Inf(1), MinLat: math.Inf(1),
		MaxLon: math.Inf(-1), MaxLat: math.Inf(-1),
	}
}

// IsEmpty reports whether no point has been added.
func (b Bounds) IsEmpty() bool {
	return b.MinLon > b.MaxLon || b.MinLat > b.MaxLat
}

// Extend grows the box to include p.
func (b Bounds) Extend(p Point) Bounds {
	b.MinLon = math.Min(b.MinLon, p[0])
	b.MaxLon = math.Max(b.MaxLon, p[0])
	b.MinLat = math.Min(b.MinLat, p[1])
	b.MaxLat = math.Max(b.MaxLat, p[1])
	return b
}

// Union merges two boxes.
func (b Bounds) Union(o Bounds) Bounds {
	if o.IsEmpty() {
		return b
	}
	b = b.Extend(Point{o.MinLon, o.MinLat})
	return b.Extend(Point{o.MaxLon, o.MaxLat})
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Point{(b.MinLon + b.MaxLon) / 2, (b.MinLat + b.MaxLat) / 2}
}

// Bounds returns the bounding box of all outer rings.
func (g Geometry) Bounds() Bounds {
	b := EmptyBounds()
	for _, poly := range g.Polygons {
		if len(poly) == 0 {
			continue
		}
		for _, p := range poly[0] {
			b = b.Extend(p)
		}
	}
	return b
}

// LabelPoint is where a department's name is drawn and the map is centred
// when it is selected.
type LabelPoint struct {
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	PlaceName        string  `json:"place_name,omitempty"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"`
	Source           string  `json:"source"` // "computed", "forward", "reverse", "failed"
}

// RegionFeature is one department boundary.
type RegionFeature struct {
	Code     string      `json:"code"`
	Name     string      `json:"name"`
	Geometry Geometry    `json:"geometry"`
	Label    *LabelPoint `json:"label,omitempty"`
}

type featureCollectionJSON struct {
	Type     string         `json:"type"`
	Features *[]featureJSON `json:"features"`
}

type featureJSON struct {
	Type       string           `json:"type"`
	Properties featurePropsJSON `json:"properties"`
	Geometry   *Geometry        `json:"geometry"`
}

type featurePropsJSON struct {
	Code string `json:"code"`
	Nom  string `json:"nom"`
}

// ParseRegionCollection decodes a GeoJSON FeatureCollection of departments.
// The collection must declare type FeatureCollection and carry a features
// array; every feature needs a code and a Polygon or MultiPolygon geometry.
// Names may be empty and are filled in later by enrichment.
func ParseRegionCollection(data []byte) ([]RegionFeature, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: region source is not a JSON object", ErrMalformedSource)
	}

	var fc featureCollectionJSON
	if err := json.Unmarshal(trimmed, &fc); err != nil {
		return nil, fmt.Errorf("decode region source: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: expected FeatureCollection, got %q", ErrMalformedSource, fc.Type)
	}
	if fc.Features == nil {
		return nil, fmt.Errorf("%w: missing features array", ErrMalformedSource)
	}

	regions := make([]RegionFeature, 0, len(*fc.Features))
	for i, f := range *fc.Features {
		if f.Properties.Code == "" {
			return nil, fmt.Errorf("%w: feature %d: missing properties.code", ErrMalformedSource, i)
		}
		if f.Geometry == nil {
			return nil, fmt.Errorf("%w: feature %s: missing geometry", ErrMalformedSource, f.Properties.Code)
		}
		regions = append(regions, RegionFeature{
			Code:     f.Properties.Code,
			Name:     f.Properties.Nom,
			Geometry: *f.Geometry,
		})
	}
	return regions, nil
}

// CollectionBounds returns the box covering every region.
func CollectionBounds(regions []RegionFeature) Bounds {
	b := EmptyBounds()
	for _, r := range regions {
		b = b.Union(r.Geometry.Bounds())
	}
	return b
}
