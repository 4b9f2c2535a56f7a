package models

// Segment represents one timed unit of transcribed speech. Index is 1-based
// and contiguous in transcript order; subtitle readers rely on the ordering.
type Segment struct {
	Index          int     `json:"index"`
	StartTime      float64 `json:"start_time"`
	EndTime        float64 `json:"end_time"`
	SourceText     string  `json:"source_text"`
	TranslatedText string  `json:"translated_text,omitempty"`
}

// Translated reports whether the segment carries a translation.
func (s Segment) Translated() bool {
	return s.TranslatedText != ""
}
