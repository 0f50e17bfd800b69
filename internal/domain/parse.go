package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrMalformedSource marks a payload that decoded but does not have the
// expected shape.
var ErrMalformedSource = errors.New("malformed source")

// sentimentEntry is one department in the analysis output.
type sentimentEntry struct {
	Name         string        `json:"name"`
	Mentions     *int          `json:"mentions"`
	AvgSentiment *float64      `json:"avg_sentiment"`
	Distribution *distribution `json:"sentiment_distribution"`
}

type distribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// ParseSentimentSource decodes the analysis JSON object into raw records
// keyed by department code. The payload must be a JSON object; every entry
// needs avg_sentiment and sentiment_distribution, and counts must be
// non-negative. An empty object is valid and yields no records.
func ParseSentimentSource(data []byte) (map[string]RawSentimentRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: sentiment source is not a JSON object", ErrMalformedSource)
	}

	var entries map[string]sentimentEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("decode sentiment source: %w", err)
	}

	out := make(map[string]RawSentimentRecord, len(entries))
	for code, e := range entries {
		rec, err := e.toRecord(code)
		if err != nil {
			return nil, err
		}
		out[code] = rec
	}
	return out, nil
}

func (e sentimentEntry) toRecord(code string) (RawSentimentRecord, error) {
	if code == "" {
		return RawSentimentRecord{}, fmt.Errorf("%w: empty department code", ErrMalformedSource)
	}
	if e.AvgSentiment == nil {
		return RawSentimentRecord{}, fmt.Errorf("%w: department %s: missing avg_sentiment", ErrMalformedSource, code)
	}
	if math.IsNaN(*e.AvgSentiment) || math.IsInf(*e.AvgSentiment, 0) {
		return RawSentimentRecord{}, fmt.Errorf("%w: department %s: non-finite avg_sentiment", ErrMalformedSource, code)
	}
	if e.Distribution == nil {
		return RawSentimentRecord{}, fmt.Errorf("%w: department %s: missing sentiment_distribution", ErrMalformedSource, code)
	}
	d := *e.Distribution
	if d.Positive < 0 || d.Negative < 0 || d.Neutral < 0 {
		return RawSentimentRecord{}, fmt.Errorf("%w: department %s: negative mention count", ErrMalformedSource, code)
	}

	total := d.Positive + d.Negative + d.Neutral
	if e.Mentions != nil {
		if *e.Mentions < 0 {
			return RawSentimentRecord{}, fmt.Errorf("%w: department %s: negative mentions", ErrMalformedSource, code)
		}
		total = *e.Mentions
	}

	name := e.Name
	if name == "" {
		name, _ = DepartmentName(code)
	}

	return RawSentimentRecord{
		Code:          code,
		Name:          name,
		RawScore:      *e.AvgSentiment,
		Positive:      d.Positive,
		Negative:      d.Negative,
		Neutral:       d.Neutral,
		TotalMentions: total,
	}, nil
}
