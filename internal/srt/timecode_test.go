package srt

import "testing"

func TestFormatTimecode(t *testing.T) {
	cases := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "00:00:00,000"},
		{"mixed units", 3661.5, "01:01:01,500"},
		{"exact fifth", 1.2, "00:00:01,200"},
		{"sub-second", 0.042, "00:00:00,042"},
		{"minute boundary", 60, "00:01:00,000"},
		{"hours beyond two digits", 360000.25, "100:00:00,250"},
		{"negative clamps to zero", -3.5, "00:00:00,000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatTimecode(tc.seconds); got != tc.want {
				t.Fatalf("FormatTimecode(%v) = %q, want %q", tc.seconds, got, tc.want)
			}
		})
	}
}

// TestFormatTimecodeTruncatesMilliseconds checks that milliseconds never
// round up into the next second.
func TestFormatTimecodeTruncatesMilliseconds(t *testing.T) {
	if got := FormatTimecode(59.9995); got != "00:00:59,999" {
		t.Fatalf("FormatTimecode(59.9995) = %q, want 00:00:59,999", got)
	}
	if got := FormatTimecode(3599.9999); got != "00:59:59,999" {
		t.Fatalf("FormatTimecode(3599.9999) = %q, want 00:59:59,999", got)
	}
}
