package handlers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"subgen/internal/jobs"
	"subgen/internal/worker"
	"subgen/models"
	"subgen/utils"
)

// GenerateSubtitlesPayload carries the language/model selections accompanying
// an upload.
type GenerateSubtitlesPayload struct {
	SourceLang string `form:"source_lang" validate:"required,source_lang"`
	TargetLang string `form:"target_lang" validate:"required,target_lang"`
	Model      string `form:"model" validate:"required,model_size"`
}

// Accepted upload extensions, matching what the transcription engine can
// decode.
var validMediaExts = map[string]bool{
	".mp4": true, ".avi": true, ".mkv": true, ".mov": true, ".flv": true,
	".wmv": true, ".webm": true, ".ogg": true, ".mp3": true, ".wav": true,
	".flac": true, ".aac": true, ".m4a": true, ".3gp": true,
}

// GenerateSubtitles accepts a media upload plus language/model selections and
// queues a pipeline run.
// POST /api/v1/subtitles
func (h *ApplicationHandler) GenerateSubtitles(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Missing media file: %v", err))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !validMediaExts[ext] {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Unsupported media type: %s", ext))
	}

	payload := GenerateSubtitlesPayload{
		SourceLang: models.NormalizeLanguage(c.FormValue("source_lang")),
		TargetLang: models.NormalizeLanguage(c.FormValue("target_lang")),
		Model:      strings.ToLower(strings.TrimSpace(c.FormValue("model"))),
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		h.Log.WithError(err).Error("Cannot create upload directory")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not store upload")
	}

	// Each run gets a private copy of the upload so concurrent users never
	// collide; the orchestrator deletes it when the run ends.
	mediaPath := filepath.Join(h.UploadDir, uuid.NewString()+ext)
	if err := c.SaveFile(file, mediaPath); err != nil {
		h.Log.WithError(err).Error("Cannot save uploaded media")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not store upload")
	}

	req := models.PipelineRequest{
		MediaPath:      mediaPath,
		SourceLanguage: payload.SourceLang,
		TargetLanguage: payload.TargetLang,
		Model:          models.ModelSpec(payload.Model),
	}
	job := h.Store.Create(file.Filename, req)

	if err := h.Pool.Submit(jobs.NewPipelineJob(h.Store, h.Orchestrator, job)); err != nil {
		if removeErr := os.Remove(mediaPath); removeErr != nil {
			h.Log.WithError(removeErr).Warn("Failed to remove upload after rejected job")
		}
		if errors.Is(err, worker.ErrQueueFull) {
			_ = h.Store.Fail(job.ID, "", "", "job queue full")
			return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "Server is busy, try again later")
		}
		_ = h.Store.Fail(job.ID, "", "", err.Error())
		h.Log.WithError(err).Error("Cannot submit pipeline job")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not queue job")
	}

	h.Log.WithFields(map[string]interface{}{
		"job":    job.ID,
		"media":  file.Filename,
		"source": payload.SourceLang,
		"target": payload.TargetLang,
		"model":  payload.Model,
	}).Info("Queued subtitle generation job")
	return utils.RespondWithJSON(c, fiber.StatusAccepted, job)
}

// GetSubtitleJob reports the status of a job, with download links once the
// artifacts exist.
// GET /api/v1/subtitles/:id
func (h *ApplicationHandler) GetSubtitleJob(c *fiber.Ctx) error {
	job, ok, err := h.lookupJob(c)
	if !ok {
		return err
	}

	links := fiber.Map{}
	if job.Status == jobs.StatusDone {
		links["srt"] = fmt.Sprintf("/api/v1/subtitles/%s/srt", job.ID)
		if job.Result.MuxedVideoPath != "" {
			links["video"] = fmt.Sprintf("/api/v1/subtitles/%s/video", job.ID)
		}
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"job":   job,
		"links": links,
	})
}

// DownloadSubtitle serves the generated SRT file.
// GET /api/v1/subtitles/:id/srt
func (h *ApplicationHandler) DownloadSubtitle(c *fiber.Ctx) error {
	job, ok, err := h.lookupJob(c)
	if !ok {
		return err
	}
	if job.Status != jobs.StatusDone {
		return utils.RespondWithError(c, fiber.StatusConflict, fmt.Sprintf("Job is %s, no subtitle available yet", job.Status))
	}
	return c.Download(job.Result.SubtitlePath, job.OriginalName+".srt")
}

// DownloadVideo serves the muxed video. Subtitle-only (partial) successes
// have no video artifact and report 404.
// GET /api/v1/subtitles/:id/video
func (h *ApplicationHandler) DownloadVideo(c *fiber.Ctx) error {
	job, ok, err := h.lookupJob(c)
	if !ok {
		return err
	}
	if job.Status != jobs.StatusDone {
		return utils.RespondWithError(c, fiber.StatusConflict, fmt.Sprintf("Job is %s, no video available yet", job.Status))
	}
	if job.Result.MuxedVideoPath == "" {
		return utils.RespondWithError(c, fiber.StatusNotFound, "No subtitled video was produced for this job")
	}
	base := strings.TrimSuffix(job.OriginalName, filepath.Ext(job.OriginalName))
	return c.Download(job.Result.MuxedVideoPath, base+"_with_subtitles.mp4")
}

// ListLanguages exposes the selector catalogs consumed by the UI.
// GET /api/v1/languages
func (h *ApplicationHandler) ListLanguages(c *fiber.Ctx) error {
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"source_languages": models.SourceLanguages,
		"target_languages": models.TargetLanguages,
		"models":           models.ModelSpecs,
	})
}

// lookupJob resolves the :id parameter. When ok is false the error response
// has already been written.
func (h *ApplicationHandler) lookupJob(c *fiber.Ctx) (jobs.Job, bool, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jobs.Job{}, false, utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid job ID format")
	}
	job, err := h.Store.Get(id)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return jobs.Job{}, false, utils.RespondWithError(c, fiber.StatusNotFound, "Job not found")
		}
		h.Log.WithError(err).Error("Job lookup failed")
		return jobs.Job{}, false, utils.RespondWithError(c, fiber.StatusInternalServerError, "Job lookup failed")
	}
	return job, true, nil
}
