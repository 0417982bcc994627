package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Video is one corpus entry. Missing fields default to the empty string.
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Validate checks that the video can be addressed.
func (v *Video) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return ErrMissingVideoID
	}
	return nil
}

// TranscriptSegment is a timed slice of a video's transcript.
type TranscriptSegment struct {
	VideoID string  `json:"video_id"`
	Index   int     `json:"index"` // Position within the video's transcript (0-based)
	Text    string  `json:"text"`
	Start   Seconds `json:"start"`
}

// Seconds is a playback offset. It decodes from a JSON number or a numeric
// string; anything else, including negative, NaN and infinite values,
// decodes to zero without an error so one bad row never fails a load.
type Seconds float64

// UnmarshalJSON implements json.Unmarshaler.
func (s *Seconds) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			*s = 0
			return nil
		}
		*s = ParseSeconds(raw)
		return nil
	}
	*s = ParseSeconds(string(data))
	return nil
}

// Float returns the offset as a float64.
func (s Seconds) Float() float64 {
	return float64(s)
}

// ParseSeconds converts raw start-time text to Seconds, degrading to zero.
func ParseSeconds(raw string) Seconds {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return Seconds(f)
}
