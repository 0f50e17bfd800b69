package domain

import "math"

// DegenerateScore is assigned to every record when all raw scores are equal
// (including a single-record set), since the min-max range is zero.
const DegenerateScore = 0.5

// ScoreRange is the spread of raw scores across a record set.
type ScoreRange struct {
	Min float64
	Max float64
}

// Degenerate reports whether the range has zero width.
func (r ScoreRange) Degenerate() bool {
	return r.Max == r.Min
}

// scale maps v from the range onto [0, 1]. A range wider than the largest
// float64 is rescaled on halves so the endpoints still land on 0 and 1.
func (r ScoreRange) scale(v float64) float64 {
	width := r.Max - r.Min
	if math.IsInf(width, 0) {
		return (v/2 - r.Min/2) / (r.Max/2 - r.Min/2)
	}
	return (v - r.Min) / width
}

// RawScoreRange returns the min and max raw score in a single pass.
// ok is false for an empty set.
func RawScoreRange(records map[string]RawSentimentRecord) (ScoreRange, bool) {
	if len(records) == 0 {
		return ScoreRange{}, false
	}
	r := ScoreRange{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, rec := range records {
		if rec.RawScore < r.Min {
			r.Min = rec.RawScore
		}
		if rec.RawScore > r.Max {
			r.Max = rec.RawScore
		}
	}
	return r, true
}

// Normalize rescales raw scores linearly to [0, 1] across the whole set and
// attaches the matching colour. The lowest raw score maps to exactly 0 and
// the highest to exactly 1. When the range is degenerate every record gets
// DegenerateScore. An empty input yields an empty, non-nil map.
func Normalize(records map[string]RawSentimentRecord) map[string]SentimentRecord {
	out := make(map[string]SentimentRecord, len(records))
	rng, ok := RawScoreRange(records)
	if !ok {
		return out
	}

	for code, rec := range records {
		score := DegenerateScore
		if !rng.Degenerate() {
			score = rng.scale(rec.RawScore)
		}
		out[code] = SentimentRecord{
			RawSentimentRecord: rec,
			Score:              score,
			Color:              ColorFor(score),
		}
	}
	return out
}

// Extremes returns the records with the highest and lowest raw score.
// Ties resolve to the lexically smallest code so the result is stable.
func Extremes(records map[string]SentimentRecord) (best, worst SentimentRecord, ok bool) {
	first := true
	for _, rec := range records {
		if first {
			best, worst, first = rec, rec, false
			continue
		}
		if rec.RawScore > best.RawScore || (rec.RawScore == best.RawScore && rec.Code < best.Code) {
			best = rec
		}
		if rec.RawScore < worst.RawScore || (rec.RawScore == worst.RawScore && rec.Code < worst.Code) {
			worst = rec
		}
	}
	return best, worst, !first
}
