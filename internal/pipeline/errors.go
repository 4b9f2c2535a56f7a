package pipeline

import "fmt"

// Stage identifies where in the run a failure occurred.
type Stage string

const (
	StageInit         Stage = "init"
	StageTranscribing Stage = "transcribing"
	StageTranslating  Stage = "translating"
	StageSerializing  Stage = "serializing"
	StageMuxing       Stage = "muxing"
)

// Kind classifies a pipeline failure for callers.
type Kind string

const (
	KindMediaNotFound       Kind = "media_not_found"
	KindTranscriptionFailed Kind = "transcription_failed"
	KindTranslationFailed   Kind = "translation_failed"
	KindInvalidSegment      Kind = "invalid_segment"
	KindSerializationFailed Kind = "serialization_failed"
	KindMuxingFailed        Kind = "muxing_failed"
)

// Error is a stage-tagged pipeline failure. SegmentIndex is set only for
// translation and serialization failures that concern one segment.
type Error struct {
	Stage        Stage
	Kind         Kind
	SegmentIndex int
	Err          error
}

func (e *Error) Error() string {
	if e.SegmentIndex > 0 {
		return fmt.Sprintf("%s: %s (segment %d): %v", e.Stage, e.Kind, e.SegmentIndex, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
