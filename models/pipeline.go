package models

// PipelineRequest is the orchestrator's sole input, created once per run and
// never mutated. MediaPath points at the run's private copy of the upload.
type PipelineRequest struct {
	MediaPath      string    `json:"media_path"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	Model          ModelSpec `json:"model"`
}

// PipelineResult is the success artifact of one run. MuxedVideoPath is empty
// when muxing failed but the subtitle file was produced; that partial success
// is distinct from full success and from failure.
type PipelineResult struct {
	SubtitlePath   string   `json:"subtitle_path"`
	MuxedVideoPath string   `json:"muxed_video_path,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}
