package domain

import "time"

// RawSentimentRecord is a department's sentiment figures as read from the
// source, before normalisation.
type RawSentimentRecord struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	RawScore      float64 `json:"raw_score"`
	Positive      int     `json:"positive"`
	Negative      int     `json:"negative"`
	Neutral       int     `json:"neutral"`
	TotalMentions int     `json:"total_mentions"` // expected to equal Positive+Negative+Neutral; not enforced
}

// SentimentRecord is a RawSentimentRecord with its normalised score and
// the colour derived from it.
type SentimentRecord struct {
	RawSentimentRecord

	Score       float64 `json:"score"` // 0.0–1.0
	Color       RGB     `json:"color"`
	Synthesized bool    `json:"synthesized,omitempty"`
}

// Snapshot is an immutable view of a loaded sentiment set.
type Snapshot struct {
	Records  []SentimentRecord `json:"records"`
	Fallback bool              `json:"fallback"`
	LoadedAt time.Time         `json:"loaded_at"`
}
