// Package srt renders translated transcript segments as SubRip documents.
package srt

import (
	"fmt"
	"os"
	"strings"

	"subgen/models"
)

// InvalidSegmentError reports a segment that cannot be serialized, normally
// one whose translation was never populated.
type InvalidSegmentError struct {
	Index  int
	Reason string
}

func (e *InvalidSegmentError) Error() string {
	return fmt.Sprintf("invalid segment %d: %s", e.Index, e.Reason)
}

// Serialize renders the segments as a SubRip document: for each segment the
// 1-based index, the time-range line, the trimmed translated text, and a
// blank separator line. Every segment must already carry a translation;
// serialization never reorders or drops entries.
func Serialize(segments []models.Segment) (string, error) {
	var b strings.Builder
	for _, seg := range segments {
		if strings.TrimSpace(seg.TranslatedText) == "" {
			return "", &InvalidSegmentError{Index: seg.Index, Reason: "missing translated text"}
		}
		fmt.Fprintf(&b, "%d\n", seg.Index)
		fmt.Fprintf(&b, "%s --> %s\n", FormatTimecode(seg.StartTime), FormatTimecode(seg.EndTime))
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(seg.TranslatedText))
	}
	return b.String(), nil
}

// WriteFile serializes the segments and writes the document to path, UTF-8
// encoded. The document is validated before anything touches the disk.
func WriteFile(path string, segments []models.Segment) error {
	doc, err := Serialize(segments)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write subtitle file: %w", err)
	}
	return nil
}
