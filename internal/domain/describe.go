package domain

// Describe buckets a normalised score into a seven-level label.
func Describe(score float64) string {
	switch {
	case score >= 0.85:
		return "Very Positive"
	case score >= 0.65:
		return "Positive"
	case score >= 0.45:
		return "Slightly Positive"
	case score >= 0.35:
		return "Neutral"
	case score >= 0.15:
		return "Slightly Negative"
	case score >= 0.05:
		return "Negative"
	default:
		return "Very Negative"
	}
}

// ContrastText picks the text colour readable on top of ColorFor(score):
// black over the yellow-green half, white over the red-yellow half.
func ContrastText(score float64) string {
	if score > 0.5 {
		return "black"
	}
	return "white"
}
