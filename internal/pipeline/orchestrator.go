// Package pipeline sequences transcription, translation, serialization and
// muxing for one media upload.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"subgen/internal/srt"
	"subgen/internal/translate"
	"subgen/models"
)

// Transcriber is the speech-to-text capability the orchestrator depends on.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string, model models.ModelSpec, language string) ([]models.Segment, error)
}

// Translator populates segments with translated text.
type Translator interface {
	TranslateAll(ctx context.Context, segments []models.Segment, sourceLang, targetLang string) ([]models.Segment, error)
}

// Muxer burns a subtitle file into a video container and probes media
// metadata.
type Muxer interface {
	Mux(ctx context.Context, videoPath, subtitlePath, outputPath string) error
	ProbeDuration(ctx context.Context, mediaPath string) (time.Duration, error)
}

// StageFunc receives stage transitions while a run executes. Callers use it
// to surface progress; a nil StageFunc disables reporting.
type StageFunc func(stage Stage)

// Options configures an orchestrator.
type Options struct {
	// OutputDir receives subtitle and muxed-video artifacts. Ownership of
	// those files transfers to the caller once Run returns.
	OutputDir string
	// DefaultLanguage is the source language the weaker transcription models
	// are optimized for. Any other source upgrades the request to the
	// strongest model.
	DefaultLanguage string
}

// Orchestrator runs the subtitle pipeline. Adapters are injected so tests
// can substitute fakes; the orchestrator itself holds no per-run state and
// may serve concurrent runs.
type Orchestrator struct {
	transcriber Transcriber
	translator  Translator
	muxer       Muxer
	log         *logrus.Logger
	opts        Options
}

// New builds an orchestrator over the given adapters.
func New(transcriber Transcriber, translator Translator, muxer Muxer, log *logrus.Logger, opts Options) *Orchestrator {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "EN"
	}
	return &Orchestrator{
		transcriber: transcriber,
		translator:  translator,
		muxer:       muxer,
		log:         log,
		opts:        opts,
	}
}

// effectiveModel applies the model/language compatibility policy once per
// request: the weaker sizes are only valid for the engine's default
// language, anything else upgrades to the strongest model with a warning.
func (o *Orchestrator) effectiveModel(req models.PipelineRequest) (models.ModelSpec, []string) {
	source := models.NormalizeLanguage(req.SourceLanguage)
	if req.Model.WeakerThan(models.ModelLarge) && source != models.NormalizeLanguage(o.opts.DefaultLanguage) {
		warning := fmt.Sprintf("model %q is not suited to source language %s; upgraded to %q", req.Model, source, models.ModelLarge)
		return models.ModelLarge, []string{warning}
	}
	return req.Model, nil
}

// Run executes one pipeline run: transcribe, translate, serialize, mux. The
// uploaded media copy is deleted on every exit path once validation passed;
// output artifacts are never deleted here. A muxing failure degrades the
// result to subtitle-only success instead of failing the run. onStage, when
// non-nil, is invoked as each stage begins.
func (o *Orchestrator) Run(ctx context.Context, req models.PipelineRequest, onStage StageFunc) (models.PipelineResult, error) {
	report := func(stage Stage) {
		if onStage != nil {
			onStage(stage)
		}
	}

	if _, err := os.Stat(req.MediaPath); err != nil {
		return models.PipelineResult{}, &Error{Stage: StageInit, Kind: KindMediaNotFound, Err: err}
	}

	// The uploaded copy belongs to this run alone; release it no matter how
	// the run ends.
	defer func() {
		if err := os.Remove(req.MediaPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			o.log.WithError(err).WithField("media", req.MediaPath).Warn("Failed to remove temporary media copy")
		}
	}()

	// Best effort: a probe failure never fails the run.
	if duration, err := o.muxer.ProbeDuration(ctx, req.MediaPath); err != nil {
		o.log.WithError(err).WithField("media", filepath.Base(req.MediaPath)).Debug("Could not probe media duration")
	} else {
		o.log.WithFields(logrus.Fields{
			"media":    filepath.Base(req.MediaPath),
			"duration": duration,
		}).Info("Starting pipeline run")
	}

	model, warnings := o.effectiveModel(req)
	for _, w := range warnings {
		o.log.WithField("media", filepath.Base(req.MediaPath)).Warn(w)
	}

	if err := ctx.Err(); err != nil {
		return models.PipelineResult{}, &Error{Stage: StageTranscribing, Kind: KindTranscriptionFailed, Err: err}
	}
	report(StageTranscribing)
	segments, err := o.transcriber.Transcribe(ctx, req.MediaPath, model, req.SourceLanguage)
	if err != nil {
		return models.PipelineResult{}, &Error{Stage: StageTranscribing, Kind: KindTranscriptionFailed, Err: err}
	}
	if len(segments) == 0 {
		return models.PipelineResult{}, &Error{Stage: StageTranscribing, Kind: KindTranscriptionFailed, Err: errors.New("engine returned no segments")}
	}

	if err := ctx.Err(); err != nil {
		return models.PipelineResult{}, &Error{Stage: StageTranslating, Kind: KindTranslationFailed, Err: err}
	}
	report(StageTranslating)
	translated, err := o.translator.TranslateAll(ctx, segments, models.NormalizeLanguage(req.SourceLanguage), models.NormalizeLanguage(req.TargetLanguage))
	if err != nil {
		var segErr *translate.SegmentError
		if errors.As(err, &segErr) {
			return models.PipelineResult{}, &Error{Stage: StageTranslating, Kind: KindTranslationFailed, SegmentIndex: segErr.Index, Err: err}
		}
		return models.PipelineResult{}, &Error{Stage: StageTranslating, Kind: KindTranslationFailed, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return models.PipelineResult{}, &Error{Stage: StageSerializing, Kind: KindSerializationFailed, Err: err}
	}
	report(StageSerializing)
	if err := os.MkdirAll(o.opts.OutputDir, 0o755); err != nil {
		return models.PipelineResult{}, &Error{Stage: StageSerializing, Kind: KindSerializationFailed, Err: err}
	}

	stem := mediaStem(req.MediaPath)
	subtitlePath := filepath.Join(o.opts.OutputDir, stem+".srt")
	if err := srt.WriteFile(subtitlePath, translated); err != nil {
		var invalid *srt.InvalidSegmentError
		if errors.As(err, &invalid) {
			return models.PipelineResult{}, &Error{Stage: StageSerializing, Kind: KindInvalidSegment, SegmentIndex: invalid.Index, Err: err}
		}
		return models.PipelineResult{}, &Error{Stage: StageSerializing, Kind: KindSerializationFailed, Err: err}
	}

	result := models.PipelineResult{
		SubtitlePath: subtitlePath,
		Warnings:     warnings,
	}

	if err := ctx.Err(); err != nil {
		// The subtitle artifact already exists; surface the cancelled mux as
		// a degraded result rather than discarding the run.
		result.Warnings = append(result.Warnings, "muxing skipped: "+err.Error())
		return result, nil
	}

	report(StageMuxing)
	muxedPath := filepath.Join(o.opts.OutputDir, stem+"_subtitled.mp4")
	if err := o.muxer.Mux(ctx, req.MediaPath, subtitlePath, muxedPath); err != nil {
		muxErr := &Error{Stage: StageMuxing, Kind: KindMuxingFailed, Err: err}
		o.log.WithError(muxErr).Warn("Subtitle burn-in failed; delivering subtitle file only")
		result.Warnings = append(result.Warnings, muxErr.Error())
		return result, nil
	}
	result.MuxedVideoPath = muxedPath

	o.log.WithFields(logrus.Fields{
		"subtitle": result.SubtitlePath,
		"video":    result.MuxedVideoPath,
		"segments": len(translated),
	}).Info("Pipeline run complete")
	return result, nil
}

// mediaStem returns the media file name without its extension.
func mediaStem(mediaPath string) string {
	base := filepath.Base(mediaPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
