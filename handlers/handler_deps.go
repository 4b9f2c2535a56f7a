package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"subgen/internal/jobs"
	"subgen/internal/worker"
	"subgen/models"
)

// Submitter is the slice of the worker pool the handlers need.
type Submitter interface {
	Submit(job worker.Job) error
}

// ApplicationHandler holds shared dependencies for the HTTP handlers.
type ApplicationHandler struct {
	Log          *logrus.Logger
	Store        *jobs.Store
	Orchestrator jobs.PipelineRunner
	Pool         Submitter
	UploadDir    string

	validate *validator.Validate
}

// NewApplicationHandler wires the handler dependencies and registers the
// catalog-backed validation rules.
func NewApplicationHandler(log *logrus.Logger, store *jobs.Store, orchestrator jobs.PipelineRunner, pool Submitter, uploadDir string) *ApplicationHandler {
	validate := validator.New()
	_ = validate.RegisterValidation("source_lang", func(fl validator.FieldLevel) bool {
		return models.IsSourceLanguage(fl.Field().String())
	})
	_ = validate.RegisterValidation("target_lang", func(fl validator.FieldLevel) bool {
		return models.IsTargetLanguage(fl.Field().String())
	})
	_ = validate.RegisterValidation("model_size", func(fl validator.FieldLevel) bool {
		return models.ModelSpec(fl.Field().String()).Valid()
	})

	return &ApplicationHandler{
		Log:          log,
		Store:        store,
		Orchestrator: orchestrator,
		Pool:         pool,
		UploadDir:    uploadDir,
		validate:     validate,
	}
}
