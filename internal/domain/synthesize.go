package domain

import "math/rand/v2"

// Mention totals for synthesized records are drawn from [minSynthMentions, minSynthMentions+synthMentionSpan).
const (
	minSynthMentions = 500
	synthMentionSpan = 1000
)

// SynthesizeRecord builds a plausible record for a department with no
// sentiment data. A uniform draw r in [0, 1) becomes the score directly (it
// is not rescaled against the loaded set) and skews the mention split:
// 20–50% positive and 10–30% negative, the rest neutral. The ratios sum to at
// most 0.6, so the neutral count is always positive.
func SynthesizeRecord(code, name string, rng *rand.Rand) SentimentRecord {
	r := rng.Float64()
	total := minSynthMentions + rng.IntN(synthMentionSpan)

	positiveRatio := 0.2 + r*0.3
	negativeRatio := 0.1 + (1-r)*0.2

	positive := int(float64(total) * positiveRatio)
	negative := int(float64(total) * negativeRatio)

	return SentimentRecord{
		RawSentimentRecord: RawSentimentRecord{
			Code:          code,
			Name:          name,
			RawScore:      r*0.2 - 0.1,
			Positive:      positive,
			Negative:      negative,
			Neutral:       total - positive - negative,
			TotalMentions: total,
		},
		Score:       r,
		Color:       ColorFor(r),
		Synthesized: true,
	}
}
