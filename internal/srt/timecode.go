package srt

import (
	"fmt"
	"math"
)

// FormatTimecode converts an offset in seconds to the SRT timestamp form
// HH:MM:SS,mmm. Hours are zero-padded to at least two digits and unbounded
// above that. Milliseconds truncate: 59.9995 renders as :59,999, never
// carried into the next second.
func FormatTimecode(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := math.Floor(seconds)

	// Round at microsecond precision before truncating so binary float
	// representations (1.2 -> 0.1999...) still land on the exact millisecond.
	millis := int(math.Floor(math.Round((seconds-whole)*1e6) / 1000))
	if millis > 999 {
		millis = 999
	}

	total := int64(whole)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
