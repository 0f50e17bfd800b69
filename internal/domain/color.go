package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// RGB is a colour with 8-bit channels. Channels are ints so that values
// produced from out-of-range scores stay visible instead of wrapping.
type RGB struct {
	R int
	G int
	B int
}

// ColorFor maps a normalised score onto the red→yellow→green gradient.
// Input is not clamped; callers pass a score in [0, 1].
func ColorFor(score float64) RGB {
	if score < 0.5 {
		return RGB{
			R: 255,
			G: int(math.Round(255 * (score / 0.5))),
			B: 0,
		}
	}
	return RGB{
		R: int(math.Round(255 * (1 - (score-0.5)/0.5))),
		G: 255,
		B: 0,
	}
}

// String formats the colour as a CSS rgb() value.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex formats the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalJSON encodes the colour as its CSS rgb() string.
func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts the rgb() form written by MarshalJSON.
func (c *RGB) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode color: %w", err)
	}
	if _, err := fmt.Sscanf(s, "rgb(%d, %d, %d)", &c.R, &c.G, &c.B); err != nil {
		return fmt.Errorf("decode color %q: %w", s, err)
	}
	return nil
}
