package domain

// FallbackSentiment is served when the sentiment source cannot be loaded.
// The record is stored as-is, already scored; it is not normalised.
func FallbackSentiment() map[string]SentimentRecord {
	const parisScore = 0.68
	return map[string]SentimentRecord{
		"75": {
			RawSentimentRecord: RawSentimentRecord{
				Code:          "75",
				Name:          "Paris",
				RawScore:      0.046,
				Positive:      42357,
				Negative:      13694,
				Neutral:       127048,
				TotalMentions: 183099,
			},
			Score: parisScore,
			Color: ColorFor(parisScore),
		},
	}
}

// FallbackRegions is served when the boundary source cannot be loaded:
// coarse triangles for Paris, Rhône and Bouches-du-Rhône.
func FallbackRegions() []RegionFeature {
	return []RegionFeature{
		fallbackTriangle("75", "Paris",
			Point{2.224199, 48.815573}, Point{2.469921, 48.816376}, Point{2.410999, 48.902145}),
		fallbackTriangle("69", "Rhône",
			Point{4.459839, 45.454714}, Point{4.864502, 45.535691}, Point{4.798584, 45.998547}),
		fallbackTriangle("13", "Bouches-du-Rhône",
			Point{5.014648, 43.209328}, Point{5.585937, 43.325178}, Point{5.311279, 43.648599}),
	}
}

func fallbackTriangle(code, name string, a, b, c Point) RegionFeature {
	return RegionFeature{
		Code: code,
		Name: name,
		Geometry: Geometry{
			Type:     GeometryPolygon,
			Polygons: []Polygon{{Ring{a, b, c, a}}},
		},
	}
}
