// Package domain models department-level sentiment data and the French
// department boundaries it is drawn on.
//
// # Data Sources
//
// Sentiment scores come from an offline comment analysis that writes a JSON
// object keyed by department code:
//
//	{
//	  "75": {
//	    "name": "Paris",
//	    "mentions": 183099,
//	    "avg_sentiment": 0.046,
//	    "sentiment_distribution": {"positive": 42357, "neutral": 127048, "negative": 13694}
//	  }
//	}
//
// avg_sentiment is the mean comment polarity in [-1, 1]; in practice the
// department means cluster in a narrow band around zero (roughly -0.1..0.2),
// which is why scores are rescaled before colouring. A comment counts as
// positive above +0.1 polarity and negative below -0.1; everything else is
// neutral.
//
// Boundaries come from a GeoJSON FeatureCollection converted from the IGN
// department shapefile (WGS-84). Each feature carries properties.code (the
// INSEE department code: "01".."95", "2A", "2B", "971".."976") and
// properties.nom (the department name) with Polygon or MultiPolygon geometry.
//
// # Normalisation
//
// Raw scores are min-max rescaled across the whole loaded set:
//
//	score = (raw - min) / (max - min)
//
// so the least positive department maps to 0 and the most positive to 1.
// When every raw score is equal the range is zero and each record is given
// [DegenerateScore] instead.
//
// # Colour Scale
//
// Scores map onto a two-segment linear gradient:
//
//	0.0  rgb(255, 0, 0)    red
//	0.5  rgb(255, 255, 0)  yellow
//	1.0  rgb(0, 255, 0)    green
//
// See [ColorFor].
//
// # Synthesized Records
//
// Departments that appear on the map but not in the sentiment source get a
// random but plausible record (see [SynthesizeRecord]). Its score is the
// random draw itself and is not rescaled against the loaded set, so it is not
// comparable with normalised scores. Such records are flagged Synthesized.
package domain
